package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paelladev/gigboard-be/internal/api/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if deps.DBClient != nil {
			if err := deps.DBClient.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "gigboard-api",
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "gigboard-api",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jobHandler := handler.NewJobHandler(deps)
	walletHandler := handler.NewWalletHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			// GET /api/v1/jobs - List jobs, optionally filtered by status
			jobs.GET("", jobHandler.ListJobs)

			// GET /api/v1/jobs/:job_id - Get job details
			jobs.GET("/:job_id", jobHandler.GetJob)

			// GET /api/v1/jobs/:job_id/transactions - Payout records for a job
			jobs.GET("/:job_id/transactions", jobHandler.ListJobTransactions)

			// POST /api/v1/jobs/:job_id/complete - Pay out and complete a job
			jobs.POST("/:job_id/complete", jobHandler.CompleteJob)
		}

		wallet := v1.Group("/wallet")
		{
			// GET /api/v1/wallet - Operating wallet summary
			wallet.GET("", walletHandler.GetWallet)

			// GET /api/v1/wallet/qr - Funding QR code
			wallet.GET("/qr", walletHandler.GetWalletQR)
		}
	}

	return r
}
