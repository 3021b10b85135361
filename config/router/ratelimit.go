package router

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/akeren/levelup-fit/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

const globalRateLimitScope = "global"

// limiterFor resolves the limiter for a route. A handler override wins over
// a controller override, which wins over the global limiter. The returned
// scope namespaces the client keys so limiters sharing Redis never share
// counters.
func (routerService *RouterService) limiterFor(handlerKey string, controller *RESTController) (ratelimit.RateLimiter, string) {
	if limiter, ok := routerService.rateLimitOverrides[handlerKey]; ok {
		return limiter, handlerKey
	}
	if limiter, ok := routerService.rateLimitOverrides[controller.mountPoint]; ok {
		return limiter, controller.mountPoint
	}
	return routerService.rateLimiter, globalRateLimitScope
}

func (routerService *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		handlerKey := routerService.keyForPathAndMethod(c.FullPath(), c.Request.Method)
		controller, found := routerService.handlerToControllerMap[handlerKey]
		if !found || controller == nil {
			// Unmatched paths get an empty FullPath; method mismatches fall
			// through to NoMethod.
			if c.FullPath() == "" {
				c.Next()
				return
			}
			routerService.logger.Error("Route registered without a controller mapping", "path", c.Request.URL.Path, "method", c.Request.Method)
			c.AbortWithStatusJSON(http.StatusNotFound,
				NotFoundResult(fmt.Sprintf("There is no handler configured to handle any resource at the path %s", c.Request.URL.Path)).ToJSON())
			return
		}

		limiter, scope := routerService.limiterFor(handlerKey, controller)
		limit, window := limiter.GetLimitDetails()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Window", window.String())

		clientIP := c.ClientIP()
		limited, err := limiter.IsLimited(c.Request.Context(), scope+":"+clientIP)
		if err != nil {
			// Fail open so a Redis outage does not take the site down.
			routerService.logger.Error("Rate limiter error", "error", err, "client_ip", clientIP, "scope", scope)
			c.Next()
			return
		}

		if limited {
			retryAfter := int(math.Max(1, math.Ceil(window.Seconds())))
			routerService.logger.Warn("Rate limit exceeded", "client_ip", clientIP, "scope", scope)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, TooManyRequestsResult(RateLimitResponse{
				Limit:      limit,
				Window:     window.String(),
				RetryAfter: strconv.Itoa(retryAfter),
			}).ToJSON())
			return
		}

		c.Next()
	}
}
