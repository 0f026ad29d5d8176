// Package api holds thin typed wrappers over the storefront REST backends.
//
// Every wrapper is written against client.Client. Structured error bodies,
// which the client hands back as data, are turned into *Error here so the
// services above deal in ordinary Go errors; CartAPI.Merge is the one call
// that reports them in its result instead.
package api
