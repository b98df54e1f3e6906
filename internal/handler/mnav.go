package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMNAV godoc
// @Summary      Get the current mNAV
// @Description  Returns today's cached mNAV reading, refreshing it first when the cache has rolled past midnight UTC
// @Tags         mnav
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Router       /api/mnav [get]
func (h *Handler) GetMNAV(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-mnav")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, h.resolveDeadline)
	defer cancel()

	c.JSON(http.StatusOK, h.nav.Read(ctx))
}

// RefreshMNAV godoc
// @Summary      Force a refresh
// @Description  Discards the cached entry, reruns the provider chain, and returns the new reading
// @Tags         mnav
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Router       /api/mnav/refresh [post]
func (h *Handler) RefreshMNAV(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-mnav")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, h.resolveDeadline)
	defer cancel()

	c.JSON(http.StatusOK, h.nav.ForceRefresh(ctx))
}

// GetSignal godoc
// @Summary      Get the strategy signal
// @Description  Returns the composite trading signal derived from mNAV history, Bitcoin momentum, and market sentiment
// @Tags         signal
// @Produce      json
// @Success      200  {object}  signal.Report
// @Router       /api/signal [get]
func (h *Handler) GetSignal(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-signal")
	defer span.End()

	readCtx, cancel := context.WithTimeout(ctx, h.resolveDeadline)
	defer cancel()
	snap := h.nav.Read(readCtx)

	c.JSON(http.StatusOK, h.signals.Generate(ctx, snap.Value))
}
