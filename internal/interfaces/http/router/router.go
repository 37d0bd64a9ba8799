package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// DefaultAPIPrefix is the path every API route is mounted under
const DefaultAPIPrefix = "/api"

// Route is one read-only endpoint with the summary shown by /api/status
type Route struct {
	Path    string
	Summary string
	Handler gin.HandlerFunc
}

// RouteGroup collects the routes of one area of the API under a prefix
type RouteGroup struct {
	name   string
	prefix string
	routes []Route
}

// NewRouteGroup creates an empty group. An empty prefix mounts its routes
// directly under the API prefix.
func NewRouteGroup(name, prefix string) *RouteGroup {
	return &RouteGroup{name: name, prefix: prefix}
}

// GET adds a route. The API is read-only, so GET is the only verb.
func (g *RouteGroup) GET(path, summary string, h gin.HandlerFunc) *RouteGroup {
	g.routes = append(g.routes, Route{Path: path, Summary: summary, Handler: h})
	return g
}

// Name returns the group name
func (g *RouteGroup) Name() string {
	return g.name
}

// Router mounts route groups under the API prefix behind a shared guard
type Router struct {
	engine *gin.Engine
	prefix string
	guard  []gin.HandlerFunc
	groups []*RouteGroup
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIPrefix sets the path prefix of the API group
func WithAPIPrefix(prefix string) RouterOption {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// NewRouter creates a Router on engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, prefix: DefaultAPIPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Guard adds middleware run ahead of every API route, and only those
func (r *Router) Guard(middleware ...gin.HandlerFunc) *Router {
	r.guard = append(r.guard, middleware...)
	return r
}

// Register queues groups for Mount, in listing order
func (r *Router) Register(groups ...*RouteGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Mount registers every queued route on the engine
func (r *Router) Mount() {
	api := r.engine.Group(r.prefix, r.guard...)
	for _, g := range r.groups {
		sub := api.Group(g.prefix)
		for _, route := range g.routes {
			sub.GET(route.Path, route.Handler)
		}
	}
}

// Endpoints lists the API as "GET <full path> - <summary>" lines
func (r *Router) Endpoints() []string {
	var out []string
	for _, g := range r.groups {
		for _, route := range g.routes {
			full := path.Join(r.prefix, g.prefix, route.Path)
			out = append(out, http.MethodGet+" "+full+" - "+route.Summary)
		}
	}
	return out
}
