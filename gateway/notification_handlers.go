package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (g *Gateway) listNotifications(c *gin.Context) {
	ok(c, gin.H{
		"notifications": g.center.List(),
		"state":         g.manager.State().String(),
	})
}

func (g *Gateway) ackNotification(c *gin.Context) {
	id := c.Param("id")
	if !g.center.Ack(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "notification not found"})
		return
	}
	ok(c, gin.H{"acknowledged": id})
}

func (g *Gateway) clearNotifications(c *gin.Context) {
	g.center.ClearAll(c.Request.Context())
	ok(c, gin.H{"cleared": true})
}

func (g *Gateway) getSoundPreference(c *gin.Context) {
	enabled, err := g.center.SoundEnabled(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"enabled": enabled})
}

func (g *Gateway) setSoundPreference(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := g.center.SetSoundEnabled(c.Request.Context(), req.Enabled); err != nil {
		g.fail(c, err)
		return
	}
	ok(c, gin.H{"enabled": req.Enabled})
}

// testSound lets the operator verify audio on this terminal. The chime
// descriptor mirrors the two-tone alert the dashboard plays for new orders;
// the message is the toast acknowledgement.
func (g *Gateway) testSound(c *gin.Context) {
	ok(c, gin.H{
		"chime": gin.H{
			"tones":       []float64{880, 1320},
			"duration_ms": 180,
		},
		"message": "test sound played",
	})
}
