package util

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor for newly set passwords. Kept
// modest because logins happen at the till on shop hardware.
const DefaultHashCost = 12

// HashPassword hashes a plaintext password at DefaultHashCost.
func HashPassword(password string) (string, error) {
	return HashPasswordAtCost(password, DefaultHashCost)
}

// HashPasswordAtCost hashes at an explicit work factor. Costs below the
// bcrypt minimum are replaced with DefaultHashCost.
func HashPasswordAtCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultHashCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword reports whether password matches hashedPassword. Hashes
// pulled from the central server verify the same way as locally created
// ones; the work factor travels inside the hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// NeedsRehash reports whether a stored hash was created at a weaker cost
// than DefaultHashCost. Callers upgrade such hashes after the next
// successful login, when the plaintext is briefly in hand.
func NeedsRehash(hashedPassword string) bool {
	cost, err := bcrypt.Cost([]byte(hashedPassword))
	if err != nil {
		return false
	}
	return cost < DefaultHashCost
}
