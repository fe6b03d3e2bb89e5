// Package bulk runs moderation actions over the operator's selection.
//
// An action goes through validation against the current roster, an explicit
// confirmation, a single gateway call and, on success, a roster refresh. One
// Orchestrator runs at most one action at a time.
package bulk
