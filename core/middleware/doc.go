// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: Verifies HS256 bearer tokens and exposes the token subject as the
//     inventory owner through auth.UserID.
//   - rayid: Assigns a Request ID (RayID) to every request, injecting it into
//     the context and the X-Ray-ID response header for tracing.
//
// RayID is registered first so every log line, including auth failures, is traceable.
package middleware
