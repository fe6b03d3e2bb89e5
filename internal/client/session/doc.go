// Package session holds the console's single authoritative record of who is
// logged in.
//
// The Store keeps the session in memory and commits every change to a
// Persister in one write, so a reader never sees a half-updated session and
// the durable copy is always a whole snapshot. On start the Store must be
// hydrated from the Persister; until Hydrate returns, Status reports
// StatusUnknown so that guarded views can show a loading state instead of
// bouncing an authenticated operator to the login view.
//
// The Store makes no network calls.
package session
