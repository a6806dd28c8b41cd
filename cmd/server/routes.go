// Package main provides the course schedule bot server entry point.
package main

import (
	"context"
	"net/http"

	"github.com/N724/kcb/internal/buildinfo"
	"github.com/N724/kcb/internal/fetch"
	"github.com/N724/kcb/internal/storage"
	"github.com/N724/kcb/internal/timeouts"
	"github.com/N724/kcb/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes.
// upstream may be nil when the server runs purely from the local timetable.
func setupRoutes(router *gin.Engine, webhookHandler *webhook.Handler, db *storage.DB, registry *prometheus.Registry, upstream *fetch.Client) {
	// Root endpoint
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "kcb",
			"status":  "ok",
			"version": buildinfo.Short(),
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe - only checks that the process is running,
	// never touches dependencies
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe - full dependency check
	readyHandler := func(c *gin.Context) {
		if err := db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		// Quick upstream availability check, bounded so a stalled
		// endpoint cannot hang the probe
		upstreamAvailable := false
		if upstream != nil {
			checkCtx, cancel := context.WithTimeout(c.Request.Context(), timeouts.ReadyUpstreamCheck)
			defer cancel()

			req, _ := http.NewRequestWithContext(checkCtx, http.MethodHead, upstream.BaseURL(), http.NoBody)
			if resp, err := http.DefaultClient.Do(req); err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode < 500 {
					upstreamAvailable = true
				}
			}
		}

		documentCount, _ := db.CountDocuments(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"upstream": upstreamAvailable,
			"cache": gin.H{
				"documents": documentCount,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Chat webhook callback endpoint
	router.POST("/callback", webhookHandler.Handle)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
