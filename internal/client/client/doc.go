// Package client is the storefront's HTTP transport to the REST backends.
//
// # Overview
//
// One HTTPClient is built per backend base URL (users, catalog, orders,
// inventory, reviews). Every client of a session shares a TokenStore and a
// Refresher. On each request the client:
//  1. reads the access token and sends it as a bearer credential, or sends
//     the request anonymously when there is none;
//  2. returns the response body as a Payload, never the raw *http.Response;
//  3. on a 401, joins the single in-flight refresh (or starts it), stores
//     the new token and replays the request exactly once. The replay's
//     outcome is final.
//
// # Error Handling
//
// Application errors that carry a JSON body come back as a Payload with
// StatusCode >= 400 and a nil error; callers inspect Payload.Failed and
// Payload.Problem. Everything else is an error:
//
//   - ErrUnavailable: no response (network, DNS, read failure) or a
//     non-JSON gateway error.
//   - *StatusError wrapping ErrUnauthorized: a 401 the refresh could not
//     fix, or a 401 on the replay.
//   - *StatusError: any other non-2xx without a JSON body.
//
// InitDatabase and RunMigrations bootstrap the local SQLite store that
// holds the persisted session slots.
package client
