// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher hashes and verifies local account passwords.
type PasswordHasher interface {
	// Hash generates a salted one-way digest of a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a digest. Any failure is a mismatch.
	Check(password, hash string) bool
}
