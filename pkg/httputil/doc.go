// Package httputil provides JSON response helpers for the graphloom HTTP API.
//
// # Overview
//
// This package keeps the wire conventions of the API in one place:
//
//   - [WriteJSON]: encode a response body with a status code
//   - [WriteError]: map a classified error onto a status code and a
//     {"error": {"code", "message"}} body
//   - [StatusFor]: the error code → HTTP status table
//   - [QueryBool], [QueryFloat]: typed query parameter parsing that reports
//     INVALID_INPUT errors
//
// # Status mapping
//
// Errors carrying a [github.com/matzehuels/graphloom/pkg/errors.Code] are
// mapped as follows:
//
//   - MALFORMED_INPUT, INVALID_INPUT, INVALID_FORMAT, INVALID_STYLE,
//     INVALID_ID, UNSUPPORTED: 400 Bad Request
//   - DUPLICATE_IDENTIFIER, UNRESOLVED_REFERENCE, MISSING_ENDPOINT:
//     422 Unprocessable Entity
//   - NOT_FOUND: 404 Not Found
//   - everything else: 500 Internal Server Error
//
// Internal errors are reported with a generic message; the cause is only
// logged by the caller.
package httputil
