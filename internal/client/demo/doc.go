// Package demo holds the upload/retrieve front-end state: the selected file,
// per-action busy flags, the last uploaded blob id, the retrieval query and
// the single error or success message shown to the user.
//
// A Controller is safe for concurrent use. Each action that starts work
// takes a new generation number; when the work completes, its result is
// applied only if no newer action has started since.
package demo
