package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"mnav-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

type overrideRequest struct {
	Token       string  `json:"token"`
	Value       float64 `json:"value"`
	SourceLabel string  `json:"source_label"`
	Reason      string  `json:"reason"`
}

// AdminOverride godoc
// @Summary      Override the current mNAV
// @Description  Replaces the cached value with an operator-supplied one; requires the admin token
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body  overrideRequest  true  "Override payload"
// @Success      200  {object}  domain.Snapshot
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/admin/mnav [post]
func (h *Handler) AdminOverride(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.admin-override")
	defer span.End()

	if h.adminToken == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin override is not configured"})
		return
	}

	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Token), []byte(h.adminToken)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	snap, err := h.nav.AdminOverride(ctx, req.Value, req.SourceLabel, req.Reason, h.bounds)
	if err != nil {
		var oob *domain.OutOfBoundsError
		if errors.As(err, &oob) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap)
}
