package common

// RequestIDHeaderName is the HTTP header and gRPC metadata key carrying the
// caller's request id. Servers echo it back and log it with the request.
const RequestIDHeaderName = "x-request-id"
