// Package httputil provides HTTP helpers for the spectromap API.
//
// # Overview
//
//   - [JSON]: write a JSON response with a status code
//   - [Error]: write a structured error, with the status derived from its code
//   - [Decode]: read a size-limited JSON request body
//   - [RequestID]: middleware assigning an X-Request-ID to every request
//
// Errors are written as
//
//	{"code": "SPANS_SEGMENTS", "message": "...", "request_id": "..."}
//
// using [errors.GetCode] and [errors.UserMessage] so clients can branch on
// the code without parsing messages.
//
// [errors.GetCode]: github.com/matzehuels/spectromap/pkg/errors.GetCode
// [errors.UserMessage]: github.com/matzehuels/spectromap/pkg/errors.UserMessage
package httputil
