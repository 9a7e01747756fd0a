// Package bot implements the user-facing command processing.
//
// Each command follows the same linear sequence: validate input, resolve the
// account identity, call the Core Service, render the outcome. Handlers
// return finished reply text; errors never reach the transport unrendered.
package bot
