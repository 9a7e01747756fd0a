// Package server implements the internal HTTP server using Echo framework.
//
// Routes: relay (/internal/send, authenticated via shared service key),
// health (/health), metrics (/metrics), version (/version).
package server
