package common

// AuthorizationHeaderName carries "Bearer <token>" on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// LegacyTokenHeaderName is the bare-token header used by older frontends.
const LegacyTokenHeaderName = "x-auth-token"

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"
