package hash

// Hasher hashes passwords and checks a plain password against a stored hash.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}
