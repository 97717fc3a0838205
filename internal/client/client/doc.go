// Package client talks to the LockWise server on behalf of the CLI.
//
// GRPCClient keeps the session tokens, sends the access token on every
// call and, when the server reports it expired, rotates the pair with the
// refresh token and retries once. gRPC status codes are mapped to the
// sentinel errors in errors.go so callers can use errors.Is.
//
// LoadDescriptor reads face descriptors produced by an external embedding
// tool from JSON files.
package client
