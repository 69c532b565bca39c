// Package http exposes the pricing service over a gin HTTP API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
)

// Handlers groups the route handlers.
type Handlers struct {
	Pricing *PricingHandler
	Events  *EventsHandler
}

// NewRouter builds the gin engine. gatherer serves /metrics; nil uses the
// default registry.
func NewRouter(handlers Handlers, log *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		logger.GinMiddleware(log.Named("http")),
		ErrorHandler(),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		prices := v1.Group("/prices")
		prices.POST("/compute", handlers.Pricing.ComputePrice)
		prices.POST("/preview", handlers.Pricing.PreviewPrice)

		v1.POST("/quotes", handlers.Pricing.RecordQuote)
		v1.GET("/events", handlers.Events.ListEvents)
	}

	return router
}
