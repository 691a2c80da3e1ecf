package cart

import (
	"sort"
	"strings"
)

const (
	// BaseVariation marks a line built on the product's base price.
	BaseVariation = "base"
	// NoOptionals is the canonical signature of an empty optionals set, so a
	// plain line is distinguishable from any configured one.
	NoOptionals = "none"
)

// OptionalsSignature canonicalizes a set of optional ids into a stable line
// signature: ids are deduplicated and sorted lexicographically before
// joining, so "bacon,cheese" and "cheese,bacon" produce the same signature.
func OptionalsSignature(ids []string) string {
	if len(ids) == 0 {
		return NoOptionals
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return NoOptionals
	}

	sort.Strings(unique)
	return strings.Join(unique, "+")
}
