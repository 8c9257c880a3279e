// Package server is the HTTP API behind the harmony frontend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] uses [http.ServeMux] with
// method filtering; the first [Middleware] added is the outermost. Every route is wrapped in [Logging] and
// [Recover], and the whole router sits behind [CORS], which allows credentialed requests from the configured
// origins.
//
// # Routes
//
//   - GET  /health            : liveness
//   - GET  /api/auth/login    : {auth_url}; starts a session and stores a fresh OAuth state
//   - GET  /callback          : OAuth redirect target; redirects to the frontend
//   - GET  /api/auth/status   : {authenticated}
//   - GET  /api/auth/logout   : {success}; deletes the session
//   - POST /api/analyze       : {playlist_url} in, analysis result out
//
// With server.debug enabled, /debug/token_info, /debug/me and /debug/fetch_playlist?id= are registered as well.
//
// # Sessions
//
// [Sessions] keeps state server-side in a [models.SessionStore]. The browser only holds an HttpOnly cookie with an
// HS256 JWT naming the session. Cross-site deployments set session.secure_cookie, which switches the cookie to
// SameSite=None; Secure.
//
// # Errors
//
// Every failure is a JSON [ErrorResponse]. Analysis errors are classified with [errors.Is] against the shared
// taxonomy; provider failures carry the upstream message in "details" and rate limits add "retry_after".
package server
