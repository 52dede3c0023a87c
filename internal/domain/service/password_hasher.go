package service

// PasswordHasher abstracts credential hashing and comparison so the use
// cases never touch bcrypt directly.
type PasswordHasher interface {
	// Hash derives a storable hash from a plaintext password.
	Hash(password string) (string, error)

	// Check reports whether the plaintext password matches the stored hash.
	Check(password, hash string) bool
}
