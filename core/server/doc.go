// Package server holds the HTTP server configuration.
//
// While cmd/start handles the server startup, this package defines the settings
// it reads: listen port, the JWT secret used to identify inventory owners, and
// request body limits for image uploads.
package server
