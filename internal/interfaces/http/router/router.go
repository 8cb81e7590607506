package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouteInfo describes one registered endpoint
type RouteInfo struct {
	Group  string
	Method string
	Path   string
}

// Router mounts domain route groups under a versioned /api prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	logger     *zap.Logger
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithLogger logs every mounted route at debug level during Setup
func WithLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// BasePath returns the versioned prefix every registrar is mounted under
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup registers all routes with the engine and returns what was mounted
func (r *Router) Setup() []RouteInfo {
	api := r.engine.Group(r.BasePath())

	var mounted []RouteInfo
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
		if dg, ok := registrar.(*DomainGroup); ok {
			mounted = append(mounted, dg.routesUnder(r.BasePath())...)
		}
	}

	for _, route := range mounted {
		r.logger.Debug("Route registered",
			zap.String("group", route.Group),
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}
	return mounted
}

// DomainGroup collects the routes of one area (orders, returns, ...)
// until they are mounted
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:   name,
		prefix: prefix,
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Routes lists the group's endpoints relative to the API base path
func (dg *DomainGroup) Routes() []RouteInfo {
	return dg.routesUnder("/")
}

func (dg *DomainGroup) routesUnder(base string) []RouteInfo {
	prefix := path.Join(base, dg.prefix)
	out := make([]RouteInfo, 0, len(dg.routes))
	for _, route := range dg.routes {
		full := prefix
		if route.path != "" {
			full = joinRoute(prefix, route.path)
		}
		out = append(out, RouteInfo{Group: dg.name, Method: route.method, Path: full})
	}
	for _, subgroup := range dg.subgroups {
		out = append(out, subgroup.routesUnder(prefix)...)
	}
	return out
}

// joinRoute appends route to prefix without cleaning, so a trailing slash
// in a registered path survives
func joinRoute(prefix, route string) string {
	if prefix == "/" {
		prefix = ""
	}
	if route[0] != '/' {
		route = "/" + route
	}
	return prefix + route
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
