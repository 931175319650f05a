package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Seating *SeatingHandler
	Exports *ExportJobHandler
	Auth    *AuthHandler
	Metrics *MetricsHandler
}

// RegisterRoutes mounts probes at the root and the API under prefix. protect
// guards everything except login, probes and signed downloads; pass nil to
// leave the API open.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, protect ...gin.HandlerFunc) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
		r.GET("/metrics/summary", h.Metrics.Summary)
	}

	api := r.Group(prefix)

	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
		if len(protect) > 0 {
			api.GET("/auth/me", append(append([]gin.HandlerFunc{}, protect...), h.Auth.Me)...)
		}
	}

	if h.Seating != nil {
		seating := api.Group("/seating", protect...)
		seating.POST("/plan", h.Seating.Plan)
		seating.POST("/upload", h.Seating.Upload)
		seating.POST("/search", h.Seating.Search)
		seating.POST("/export", h.Seating.Export)
		seating.GET("/runs", h.Seating.Runs)
	}

	if h.Exports != nil {
		api.GET("/exports/download/:token", h.Exports.Download)
		exports := api.Group("/exports", protect...)
		exports.POST("", h.Exports.Create)
		exports.GET("/:id", h.Exports.Status)
	}
}
