package router

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/akeren/levelup-fit/pkg/ratelimit"
)

func normalizePath(controller *RESTController, relativePath string) string {
	path := controller.mountPoint

	if relativePath != "" {
		path = path + "/" + relativePath
	}

	if path[0] != '/' {
		path = "/" + path
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return strings.ReplaceAll(path, "//", "/")
}

func (routerService *RouterService) keyForPathAndMethod(path, method string) string {
	return fmt.Sprintf("%s-%s", method, path)
}

func (controller *RESTController) bindHandlerToController(routerService *RouterService, path, method string) {
	key := routerService.keyForPathAndMethod(path, method)

	if other, found := routerService.handlerToControllerMap[key]; found {
		panic(fmt.Sprintf("A handler is already registered for %s '%s' by controller '%s'", method, path, other.name))
	}

	routerService.handlerToControllerMap[key] = controller
}

func (routerService *RouterService) bindOverrideRateLimiter(scope string, limiter ratelimit.RateLimiter) {
	if limiter == nil {
		return
	}

	if _, found := routerService.rateLimitOverrides[scope]; found {
		panic(fmt.Sprintf("A rate limiter is already registered for '%s'", scope))
	}

	routerService.rateLimitOverrides[scope] = limiter
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)

		if result == nil {
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("A handler returned an undefined result. This typically indicates a bug in a handler's implementation.").ToJSON())
			return
		}

		c.JSON(result.StatusCode, result.ToJSON())
	}
}

// createPageHandler renders into a buffer first so a failed render still
// produces a clean 500 instead of half a document.
func createPageHandler(routerService *RouterService, page PageFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		status, document := page(c)

		if document == nil {
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("A page handler returned no document.").ToJSON())
			return
		}

		var buf bytes.Buffer
		if err := document.Render(&buf); err != nil {
			routerService.GetLogger(c).Error("Failed to render page", "path", c.FullPath(), "error", err)
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("Unable to render page").ToJSON())
			return
		}

		c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	}
}

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: strings.ReplaceAll("/"+mountPoint, "//", "/"),
		prepare:    prepare,
	}
}

// NewVersionedRESTController mounts the controller under /<version>/<mountPoint>.
func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: strings.ReplaceAll("/"+version+"/"+mountPoint, "//", "/"),
		version:    version,
		prepare:    prepare,
	}
}

// RateLimitWith applies limiter to every handler of the controller that
// does not bring its own.
func (controller *RESTController) RateLimitWith(routerService *RouterService, limiter ratelimit.RateLimiter) *RESTController {
	routerService.bindOverrideRateLimiter(controller.mountPoint, limiter)
	return controller
}

func (routerService *RouterService) addRoute(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	method string,
	path string,
	handlers []MiddlewareFunc,
) {
	controller.handlerCount++
	mountPoint := normalizePath(controller, path)

	controller.bindHandlerToController(routerService, mountPoint, method)
	routerService.bindOverrideRateLimiter(routerService.keyForPathAndMethod(mountPoint, method), limiter)
	routerService.engine.Handle(method, mountPoint, handlers...)

	routerService.logger.Debug("Handler registered", "controller", controller.name, "method", method, "path", mountPoint)
}

func (routerService *RouterService) AddGetHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addRoute(controller, limiter, http.MethodGet, path, append(middlewares, createHandler(handler)))
}

func (routerService *RouterService) AddPostHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addRoute(controller, limiter, http.MethodPost, path, append(middlewares, createHandler(handler)))
}

func (routerService *RouterService) AddPatchHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addRoute(controller, limiter, http.MethodPatch, path, append(middlewares, createHandler(handler)))
}

// AddPageHandler registers a GET handler that responds with rendered HTML
// instead of the JSON envelope.
func (routerService *RouterService) AddPageHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	page PageFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addRoute(controller, limiter, http.MethodGet, path, append(middlewares, createPageHandler(routerService, page)))
}
