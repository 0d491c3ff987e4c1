// Package cli provides the blobkeeper command-line front end.
//
// It wires configuration, logging, the blob backend, the local sealing
// capability and the storage gateway into an App, and exposes it through a
// cobra command tree: one-shot subcommands (put, url, get, details) and an
// interactive REPL that drives the upload/retrieve controller.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits
// or ctx is canceled.
package cli
