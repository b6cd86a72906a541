package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored in place of a user credential.
// Default cost; the hash embeds its own salt and parameters.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext matches a stored hash. A
// malformed hash fails the same way a wrong password does; both are a failed
// login.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
