// Package server provides HTTP routing, middleware, and the OAuth callback listener.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] implements it on
// [http.ServeMux] method patterns. [Middleware] added first runs outermost.
//
// [RequestLogger] and [Recoverer] are the stock middleware.
//
// # OAuth Callback Handler
//
// [CallbackHandler] serves the redirect URI during `jamlist auth login`. It hands the landing URL to a
// [CompleteFunc], normally [CompleteWith] around an auth.Manager, which exchanges the code with the verifier stored
// when the login started. The outcome is sent once on [CallbackHandler.Result]; later hits are rejected.
//
// A temporary [Server] on the configured host and port serves the callback and is shut down once a result arrives.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
