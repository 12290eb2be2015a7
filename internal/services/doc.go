// Package services implements the client side of the remote persona directory.
//
// # Directory Interface
//
// [Directory] lists the six operations of the remote service (list, get, create, update,
// remove, vote) plus its search endpoint. [DirectoryService] implements it over HTTP.
//
// # Transport
//
// [APIService] sends raw requests relative to a base URL and returns status, headers and
// body untouched. Each request carries a fresh X-Request-ID so client and server logs can
// be correlated. Transport failures (connection refused, DNS, reset) are the only errors it
// produces and are wrapped with [shared.ErrNetworkUnreachable].
//
// # Error Handling
//
// [DirectoryService] turns every response into one of:
//   - the decoded data, when the status is 2xx and the envelope says success
//   - [*shared.HTTPError] : non-2xx status or success=false (404 also matches [shared.ErrNotFound])
//   - [shared.ErrProtocol] : body is not an envelope, or data is missing/malformed
//
// There is no retry and no caching; callers decide whether to try again.
package services
