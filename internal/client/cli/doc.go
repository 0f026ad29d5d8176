// Package cli provides the interactive watch store command-line client.
//
// It wires configuration, the local SQLite store, one HTTP client per backend
// and the services into a REPL. A guest can browse the catalog and fill a
// local cart; logging in merges that cart into the account cart.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, NewApp, and runREPL for details.
package cli
