// Package webhook receives the deliveries Walver posts to a verification's
// webhook URL. Deliveries are authenticated with the verification secret,
// de-duplicated by event ID and handed to an EventHandler.
//
// Walver does not publish how deliveries are signed. The two schemes here
// are this package's own convention: a hex HMAC-SHA256 of the raw body, or an
// HS256 JWT whose body_sha256 claim is the hex SHA-256 of the body, both in
// the X-Walver-Signature header by default. Check what your deliveries
// actually carry before relying on either; the header name can be changed
// with NewSignatureVerifier, and any other scheme can be plugged in by
// implementing SignatureVerifier.
package webhook
