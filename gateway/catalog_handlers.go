package gateway

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

func (g *Gateway) listProducts(c *gin.Context) {
	g.serveCatalog(c, g.catalog.Products)
}

func (g *Gateway) listCategories(c *gin.Context) {
	g.serveCatalog(c, g.catalog.Categories)
}

func (g *Gateway) listTables(c *gin.Context) {
	g.serveCatalog(c, g.catalog.Tables)
}

func (g *Gateway) listPaymentMethods(c *gin.Context) {
	g.serveCatalog(c, g.catalog.PaymentMethods)
}

func (g *Gateway) serveCatalog(c *gin.Context, fetch func(context.Context) (json.RawMessage, error)) {
	data, err := fetch(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, data)
}

// deleteProduct surfaces a backend conflict (product still on open orders)
// verbatim; the cached catalog stays untouched in that case.
func (g *Gateway) deleteProduct(c *gin.Context) {
	if err := g.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": c.Param("id")})
}
