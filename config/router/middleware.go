package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// contentSecurityPolicy admits the font and icon CDNs the landing page
// pulls in, plus the inline styles and scripts it renders.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://code.iconify.design; " +
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
	"font-src 'self' https://fonts.gstatic.com; " +
	"img-src 'self' data:; " +
	"connect-src 'self' https://api.iconify.design https://api.simplesvg.com https://api.unisvg.com; " +
	"frame-ancestors 'none'; form-action 'self'"

func (routerService *RouterService) correlationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(log.CorrelationHeader))
		if id == "" {
			id = log.GenerateCorrelationID()
		}
		ctx := context.WithValue(c.Request.Context(), log.CorrelatedIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(log.CorrelationHeader, id)
		c.Next()
	}
}

func (routerService *RouterService) loggerInjectionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlated := routerService.logger.WithCorrelationID(c.Request.Context())
		ctx := context.WithValue(c.Request.Context(), log.LoggerKeyForContext, correlated)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (routerService *RouterService) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		GetLogger(c).Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}

func (routerService *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	hsts := routerService.config.hstsEnabled()
	hstsValue := routerService.config.hstsValue()

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", contentSecurityPolicy)

		if hsts && isHTTPS(c) {
			h.Set("Strict-Transport-Security", hstsValue)
		}
		c.Next()
	}
}

// isHTTPS also trusts X-Forwarded-Proto for TLS terminated at a proxy.
func isHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")
}

func (routerService *RouterService) maxBodySizeMiddleware() gin.HandlerFunc {
	maxBytes := routerService.config.MaxBodyBytes

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				ErrorResult(http.StatusRequestEntityTooLarge, "Request payload too large", nil).ToJSON())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// corsMiddleware returns nil when no origin is configured; the page and the
// form are served same-origin, so cross-origin access is opt-in.
func (routerService *RouterService) corsMiddleware() gin.HandlerFunc {
	origins := routerService.config.AllowedOrigins
	if len(origins) == 0 {
		routerService.logger.Info("CORS disabled (CORS_ALLOWED_ORIGIN not set)")
		return nil
	}

	corsConfig := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", log.CorrelationHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", log.CorrelationHeader, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Window"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
			break
		}
		if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
			continue
		}
		routerService.logger.Warn("Ignoring CORS origin without http(s) scheme", "origin", origin)
	}

	if corsConfig.AllowAllOrigins {
		corsConfig.AllowOrigins = nil
	} else if len(corsConfig.AllowOrigins) == 0 {
		return nil
	} else {
		// The waitlist session cookie rides on credentialed requests.
		corsConfig.AllowCredentials = true
	}

	routerService.logger.Info("CORS enabled", "origins", origins)
	return cors.New(corsConfig)
}

func (routerService *RouterService) timeoutMiddleware() gin.HandlerFunc {
	timeout := routerService.config.RequestTimeout

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// Handlers run inline; gin.Context must not cross goroutines. The
		// server's read and write timeouts cut off handlers still running.
		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			routerService.logger.WithCorrelationID(ctx).Warn("Request timeout detected", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusRequestTimeout,
				ErrorResult(http.StatusRequestTimeout, "Request timeout", nil).ToJSON())
		}
	}
}
