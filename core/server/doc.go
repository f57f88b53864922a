// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and the maximum body size
// accepted for render requests.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the serve command to configure Fiber.
package server
