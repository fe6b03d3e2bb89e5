// Package cli provides the interactive operator console.
//
// It wires configuration, session storage, the directory gateway and the bulk
// orchestrator into a REPL. Startup restores the stored session, routes to the
// dashboard or the login view, and starts a background connectivity watcher.
//
// Key features:
//   - Register / Login / Verify / Logout
//   - Roster listing with row selection
//   - Block, unblock, delete and purge of unverified accounts, each confirmed
//
// The REPL is started via App.Run(ctx), which blocks until the operator exits.
package cli
