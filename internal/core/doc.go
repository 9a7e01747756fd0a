// Package core is the typed HTTP client for the Core Service API.
//
// Four operations (identity registration, add/list/delete subscription), one
// request each with a 10-second timeout and no retries. Failures are
// classified into a closed error taxonomy so callers handle every branch
// explicitly; see errors.go.
package core
