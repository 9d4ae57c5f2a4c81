package common

// AuthorizationHeaderName is the HTTP header and gRPC metadata key that
// carries the access credential on protected requests.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the credential inside the authorization value.
const BearerPrefix = "Bearer "
