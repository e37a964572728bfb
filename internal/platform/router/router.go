package router

import "net/http"

type Middleware = func(next http.Handler) http.Handler

// Router registers handlers by method and path.
type Router interface {
	http.Handler
	Use(mw Middleware)
	Get(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Post(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Put(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Patch(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
	Delete(pattern string, handler http.HandlerFunc, middlewares ...Middleware)
}
