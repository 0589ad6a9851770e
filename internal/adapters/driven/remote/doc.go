// Package remote talks to the descheck backend over JSON/HTTP.
//
// A single Client implements every remote collaborator the pipeline needs:
// identity lookup, login and registration, content upload and listing,
// image analysis and social-post extraction. Privileged calls carry the
// session token as a bearer credential through an oauth2 transport.
// Outgoing requests share one token-bucket limiter and each carries a
// fresh X-Request-ID.
package remote
