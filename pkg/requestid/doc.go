// Package requestid attaches a correlation id to every HTTP request so the
// guard's allow/deny log lines can be tied to a single call.
//
// Middleware reuses a well-formed client-supplied X-Request-ID header or
// generates a UUIDv4, stores it in the request context and echoes it in the
// response. LoggerExtractor plugs the id into pkg/logger.
package requestid
