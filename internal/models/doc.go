// Package models defines the persona directory's domain types.
//
//   - [Persona] : one directory entry as returned by the remote service, with server-owned vote counters
//   - [Draft] : a persona's fields without its ID, used as the create/update payload
//   - [Choice] : a truth/lie verdict and its wire spelling (yala/noyala)
//   - [Tally] : vote counters and the percentage shown in the detail panel
//   - [VoteRecord] : a vote this client remembers having cast
//
// JSON tags follow the remote directory's field names so values round-trip through the API unchanged.
// [Districts] and [Universities] are the fixed enumerations used by the form and the list filters.
package models
