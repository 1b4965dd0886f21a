// Package request issues a single JSON-oriented HTTP or HTTPS request.
//
// A call is described by a Params value, validated, resolved into immutable
// transport options, and executed exactly once:
//   - the response body is buffered and parsed as JSON by default, or
//   - handed back as a live stream when Params.ReturnStream is set.
//
// Every failure kind surfaces as a typed error (ValidationError,
// URLParseError, UnsupportedSchemeError, SerializationError, TransportError,
// TimeoutError, StatusError, BodyParseError), all terminal for the call.
package request
