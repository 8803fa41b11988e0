// Package bridge is the opaque-handle boundary between foreign callers and
// the request processors in this module.
//
// A caller creates a handle, submits byte requests against it, receives each
// response in a block allocated by the bridge's arena, and releases that block
// through the same bridge. Every entry point converts failures, including
// panics, into a Status code; nothing escapes to the caller as a Go panic.
//
// Handles follow a simple state machine:
//
//	UNCREATED --Create--> LIVE --Destroy--> DESTROYED
//
// DESTROYED is terminal. Handles carry a generation, so a destroyed handle
// is rejected with StatusInvalidArgument even after its slot is reused.
//
// The C surface lives in cmd/algobridge and the JavaScript surface in
// web/wasm; both are thin shims over a Bridge.
package bridge
