package ports

// PasswordHasher one-way transforms plaintext credentials into storable
// digests. Implementations must never log or retain the plaintext.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches a previously produced digest.
	// Kept for login flows that live outside this service.
	Verify(plaintext, digest string) bool
}
