package gateway

import (
	"context"
	"net/http"

	"github.com/example/posbridge/pkg/cart"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID       string   `json:"product_id" binding:"required"`
	ProductIdentify string   `json:"product_identify" binding:"required"`
	ProductName     string   `json:"product_name"`
	BasePrice       float64  `json:"base_price"`
	VariationID     string   `json:"variation_id"`
	VariationDelta  float64  `json:"variation_delta"`
	OptionalIDs     []string `json:"optional_ids"`
}

type lineKeyRequest struct {
	Key string `json:"key" binding:"required"`
}

type finalizeRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
	ServiceType     string `json:"service_type"`
	Table           string `json:"table"`
	DeliveryAddress string `json:"delivery_address"`
	Comment         string `json:"comment"`
}

func (g *Gateway) getCart(c *gin.Context) {
	draft, err := g.carts.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"cart": draft, "totals": draft.ComputeTotals()})
}

func (g *Gateway) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	draft, err := g.carts.AddItem(c.Request.Context(), sessionID(c), cart.Selection{
		ProductID:       req.ProductID,
		ProductIdentify: req.ProductIdentify,
		ProductName:     req.ProductName,
		BasePrice:       req.BasePrice,
		VariationID:     req.VariationID,
		VariationDelta:  req.VariationDelta,
		OptionalIDs:     req.OptionalIDs,
	})
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"cart": draft, "totals": draft.ComputeTotals()})
}

func (g *Gateway) incrementCartItem(c *gin.Context) {
	g.mutateCartLine(c, g.carts.IncrementItem)
}

func (g *Gateway) decrementCartItem(c *gin.Context) {
	g.mutateCartLine(c, g.carts.DecrementItem)
}

func (g *Gateway) removeCartItem(c *gin.Context) {
	g.mutateCartLine(c, g.carts.RemoveItem)
}

func (g *Gateway) mutateCartLine(c *gin.Context, op func(ctx context.Context, sessionID, key string) (*cart.Cart, error)) {
	var req lineKeyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	draft, err := op(c.Request.Context(), sessionID(c), req.Key)
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"cart": draft, "totals": draft.ComputeTotals()})
}

func (g *Gateway) clearCart(c *gin.Context) {
	if err := g.carts.Clear(c.Request.Context(), sessionID(c)); err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"cleared": true})
}

func (g *Gateway) finalizeOrder(c *gin.Context) {
	var req finalizeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	order, err := g.carts.Finalize(c.Request.Context(), sessionID(c), cart.FinalizeParams{
		PaymentMethodID: req.PaymentMethodID,
		ServiceType:     req.ServiceType,
		TableID:         req.Table,
		DeliveryAddress: req.DeliveryAddress,
		Comment:         req.Comment,
	})
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"order": order})
}

func (g *Gateway) orderJournal(c *gin.Context) {
	records, err := g.journal.Recent(g.config.Backend.Tenant, 50)
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"orders": records})
}
