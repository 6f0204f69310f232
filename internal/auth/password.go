package auth

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes; truncating here makes the
// effective password length explicit instead of a library quirk.
const maxPasswordBytes = 72

// HashPassword hashes a plaintext password with bcrypt at the default cost.
// Inputs longer than 72 UTF-8 bytes are truncated to the first 72 bytes,
// dropping a trailing partial rune. Over-length input is not an error.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt hash.
// The same truncation rule is applied before comparison.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password)) == nil
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) <= maxPasswordBytes {
		return b
	}
	b = b[:maxPasswordBytes]
	// The cut may land inside a multi-byte rune; drop the partial bytes.
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		if r == utf8.RuneError && size == 1 {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b
}
