// Package server provides the HTTP infrastructure behind the web front end.
//
// # Router
//
// [Router] wraps a chi mux preloaded with request IDs, real client addresses, request logging and panic recovery.
// Extra [Middleware] added through [Router.Use] runs inside that stack, in the order it is added.
//
// # Handler Interface
//
// Handlers implement [Handler] and register their own routes, keeping route definitions next to the code that serves them.
//
// # Server
//
// [Server] runs the router until its context is cancelled, then shuts down gracefully so in-flight requests can finish.
package server
