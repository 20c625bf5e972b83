package router

import (
	"fmt"
	"net/http"
	"path"

	"github.com/akeren/jobtracker-api/pkg/ratelimit"
)

// joinRoute cleans mount point and relative path into a single absolute gin route.
func joinRoute(mountPoint, relativePath string) string {
	return path.Join("/", mountPoint, relativePath)
}

func (routerService *RouterService) keyForPathAndMethod(route, method string) string {
	return method + " " + route
}

func (controller *RESTController) bindHandlerToController(routerService *RouterService, route, method string) {
	key := routerService.keyForPathAndMethod(route, method)

	if other, found := routerService.handlerToControllerMap[key]; found {
		panic(fmt.Sprintf("route %s is already registered by controller %q", key, other.name))
	}

	routerService.handlerToControllerMap[key] = controller
}

func (routerService *RouterService) bindOverrideRateLimiter(key string, limiter ratelimit.RateLimiter) {
	if limiter == nil {
		return
	}

	if _, found := routerService.rateLimitOverrides[key]; found {
		panic(fmt.Sprintf("rate limiter for %s is already registered", key))
	}

	routerService.rateLimitOverrides[key] = limiter
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)
		if result == nil {
			GetLogger(c).Error("Handler returned no result", "route", c.FullPath())
			result = InternalServerErrorResult("The server could not produce a response")
		}

		c.JSON(result.StatusCode, result.ToJSON())
	}
}

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: joinRoute(mountPoint, ""),
		prepare:    prepare,
	}
}

// NewVersionedRESTController mounts under /<version>/<mountPoint>.
func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: joinRoute(version, mountPoint),
		version:    version,
		prepare:    prepare,
	}
}

// Handle registers handler for method at path relative to the controller. A nil limiter
// inherits the controller or default limiter.
func (routerService *RouterService) Handle(
	method string,
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	relativePath string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	controller.handlerCount++
	route := joinRoute(controller.mountPoint, relativePath)

	controller.bindHandlerToController(routerService, route, method)
	routerService.bindOverrideRateLimiter(routerService.keyForPathAndMethod(route, method), limiter)
	routerService.engine.Handle(method, route, append(middlewares, createHandler(handler))...)

	routerService.logger.Debug("Handler registered", "method", method, "route", route)
}

func (routerService *RouterService) AddPostHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.Handle(http.MethodPost, controller, limiter, path, handler, middlewares...)
}

func (routerService *RouterService) AddGetHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.Handle(http.MethodGet, controller, limiter, path, handler, middlewares...)
}

func (routerService *RouterService) AddPutHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.Handle(http.MethodPut, controller, limiter, path, handler, middlewares...)
}

func (routerService *RouterService) AddPatchHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.Handle(http.MethodPatch, controller, limiter, path, handler, middlewares...)
}

func (routerService *RouterService) AddDeleteHandler(controller *RESTController, limiter ratelimit.RateLimiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.Handle(http.MethodDelete, controller, limiter, path, handler, middlewares...)
}
