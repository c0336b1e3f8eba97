package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"showgraph-backend/lib/ratelimit"
	"showgraph-backend/services/ratings"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const rateLimitedMessage = "Rate limit exceeded. Please try again later."

// successful responses are immutable enough to cache at the CDN for a month
const cacheMaxAge = 30 * 24 * time.Hour

type Aggregator interface {
	Aggregate(ctx context.Context, title string) ratings.AggregateResult
}

func NewRouter(service Aggregator, limiter *ratelimit.Limiter, allowedOrigin string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(),
		corsMiddleware(allowedOrigin),
	)
	router.GET("/api/ratings", ratingsHandler(service, limiter))
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(
			c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Set("Access-Control-Allow-Origin", allowedOrigin)
		headers.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// the admission check runs before the aggregator is ever invoked, a
// rejected request must never trigger upstream fetches
func ratingsHandler(service Aggregator, limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Allow(c.ClientIP())
		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			c.Header("Cache-Control", "no-store")
			c.JSON(http.StatusTooManyRequests, ratings.AggregateResult{
				Success: false,
				Error:   rateLimitedMessage,
			})
			return
		}

		title := c.Query("title")
		if title == "" {
			setCacheHeaders(c, false)
			c.JSON(http.StatusOK, ratings.AggregateResult{
				Success: false,
				Error:   "Missing 'title' parameter",
			})
			return
		}

		result := service.Aggregate(c.Request.Context(), title)
		setCacheHeaders(c, result.Success)
		c.JSON(http.StatusOK, result)
	}
}

func writeRateLimitHeaders(c *gin.Context, decision ratelimit.Decision) {
	c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if decision.ResetAt.IsZero() {
		return
	}
	c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	if !decision.Allowed {
		retryAfter := int64(time.Until(decision.ResetAt).Seconds())
		if retryAfter < 0 {
			retryAfter = 0
		}
		c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
	}
}

// browsers always revalidate (max-age=0) while the CDN edge may serve
// successful payloads for the full window
func setCacheHeaders(c *gin.Context, cacheable bool) {
	header := "no-store"
	if cacheable {
		maxAge := int(cacheMaxAge.Seconds())
		header = fmt.Sprintf("max-age=0, s-maxage=%d, stale-while-revalidate=%d", maxAge, maxAge)
	}
	c.Header("Cache-Control", header)
	c.Header("CDN-Cache-Control", header)
}
