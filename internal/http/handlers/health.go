package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// HealthHandler answers load balancer health checks. When a check is set, the
// endpoint reports 503 while the check fails.
type HealthHandler struct {
	check func(context.Context) error
}

func NewHealthHandler(check func(context.Context) error) *HealthHandler {
	return &HealthHandler{check: check}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := h.check(ctx); err != nil {
			_ = c.Error(err)
			c.String(http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
