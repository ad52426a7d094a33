package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc handles a request after it has been decoded. GET requests are
// decoded from the query string, POST requests from the JSON body.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may return a derived context, or
// nil to keep the current one. A non-nil error stops the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written.
type CloserFunc func(ctx context.Context)

type Router struct {
	inner   gin.IRouter
	root    context.Context
	befores []MiddlewareFunc
	afters  []CloserFunc
}

// New creates a router. Every request context derives from root, so values
// like configs, logger and database stored in root are visible to handlers.
func New(root context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{inner: engine, root: root}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r.clone(), http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r.clone(), http.MethodPost, handler))
}

// Before registers middlewares for routes added after this call.
func (r *Router) Before(middlewares ...MiddlewareFunc) {
	r.befores = append(r.befores, middlewares...)
}

// After registers closers for routes added after this call.
func (r *Router) After(closers ...CloserFunc) {
	r.afters = append(r.afters, closers...)
}

// Branch returns a router sharing the same routes whose middlewares can be
// extended without affecting the original.
func (r *Router) Branch() *Router {
	return r.clone()
}

// Handle mounts a plain http handler, e.g. the metrics endpoint.
func (r *Router) Handle(method, pattern string, handler http.Handler) {
	r.inner.Handle(method, pattern, gin.WrapH(handler))
}

func (r *Router) Handler() http.Handler {
	return r.inner.(*gin.Engine)
}

func (r *Router) clone() *Router {
	return &Router{
		inner:   r.inner,
		root:    r.root,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]CloserFunc{}, r.afters...),
	}
}
