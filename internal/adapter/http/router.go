package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/nishantchy/ecom-microservice/internal/adapter/http/middleware"
	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *OrderHandler, admit usecase.RateAdmitter, l *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Admission gates order creation before any other pipeline work.
	r.POST("/orders", middleware.RateLimit(admit), h.CreateOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrderByID)

	return r
}
