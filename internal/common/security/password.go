package security

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const PasswordCost = 10

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnPasswordCheck runs a comparison against a fixed hash so that a login for
// an unknown email costs about as much as one with a wrong password.
func BurnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("inventory-api-dummy-password"), PasswordCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
