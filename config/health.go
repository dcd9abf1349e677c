package config

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentialSource interface {
	Credential(ctx context.Context) (string, error)
}

type HealthChecker struct {
	session credentialSource
}

func NewHealthChecker(session credentialSource) *HealthChecker {
	return &HealthChecker{session: session}
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

// Handle reports healthy when a Wialon session id can be obtained. A cached
// fresh session counts; otherwise this performs a login.
func (h *HealthChecker) Handle(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}

	if _, err := h.session.Credential(c.Request.Context()); err != nil {
		deps["wialon"] = gin.H{"status": "down", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		deps["wialon"] = gin.H{"status": "up"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
