package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionalsSignature(t *testing.T) {
	assert.Equal(t, "none", OptionalsSignature(nil))
	assert.Equal(t, "none", OptionalsSignature([]string{}))
	assert.Equal(t, "none", OptionalsSignature([]string{"", ""}))

	assert.Equal(t, "bacon+cheese", OptionalsSignature([]string{"bacon", "cheese"}))
	assert.Equal(t, "bacon+cheese", OptionalsSignature([]string{"cheese", "bacon"}))
	assert.Equal(t, "bacon+cheese", OptionalsSignature([]string{"cheese", "bacon", "cheese"}))
	assert.Equal(t, "cheese", OptionalsSignature([]string{"cheese"}))
}
