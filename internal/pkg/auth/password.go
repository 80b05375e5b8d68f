package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor of generated hashes
const BcryptCost = 12

// HashPassword hashes an admin key for the admin.key_hash setting
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches hashedPassword
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
