package gateway

import (
	"net/http"

	"github.com/example/posbridge/pkg/backend"
	"github.com/gin-gonic/gin"
)

func (g *Gateway) planBanner(c *gin.Context) {
	banner, err := g.gate.Banner(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	// Nothing to show: still a success, the UI just renders nothing.
	ok(c, gin.H{"banner": banner})
}

func (g *Gateway) dismissPlanBanner(c *gin.Context) {
	if err := g.gate.Dismiss(c.Request.Context()); err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"dismissed": true})
}

func (g *Gateway) planUsage(c *gin.Context) {
	ok(c, gin.H{"usage": g.gate.Snapshot()})
}

func (g *Gateway) requestPlanMigration(c *gin.Context) {
	var req struct {
		TargetPlanID string `json:"target_plan_id" binding:"required"`
		Notes        string `json:"notes"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	err := g.gate.RequestMigration(c.Request.Context(), backend.MigrationRequest{
		TargetPlanID: req.TargetPlanID,
		Notes:        req.Notes,
	})
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"requested": true})
}

func (g *Gateway) planMigrationHistory(c *gin.Context) {
	history, err := g.gate.MigrationHistory(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"migrations": history})
}
