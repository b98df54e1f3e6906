package handler

import (
	"time"

	"mnav-tracker/internal/domain"
	"mnav-tracker/internal/service"
	"mnav-tracker/internal/signal"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer          trace.Tracer
	nav             *service.NavService
	signals         *signal.Engine
	bounds          domain.Bounds
	adminToken      string
	resolveDeadline time.Duration
	version         string
}

func New(
	tracer trace.Tracer,
	nav *service.NavService,
	signals *signal.Engine,
	bounds domain.Bounds,
	adminToken string,
	resolveDeadline time.Duration,
	version string,
) *Handler {
	return &Handler{
		tracer:          tracer,
		nav:             nav,
		signals:         signals,
		bounds:          bounds,
		adminToken:      adminToken,
		resolveDeadline: resolveDeadline,
		version:         version,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/health", h.Health)
	r.GET("/api/mnav", h.GetMNAV)
	r.POST("/api/mnav/refresh", h.RefreshMNAV)
	r.POST("/api/admin/mnav", h.AdminOverride)
	r.GET("/api/signal", h.GetSignal)
}
