package auth

import (
	"crypto/rand"
	"math/big"
	"time"
)

// OTPLength is the number of digits in a verification code.
const OTPLength = 6

// GenerateOTP returns a uniformly random 6-digit code, zero padded.
func GenerateOTP() (string, error) {
	const digits = "0123456789"
	buf := make([]byte, OTPLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		buf[i] = digits[n.Int64()]
	}
	return string(buf), nil
}

// VerifyOTP checks a submitted code against a stored challenge.
// Expired challenges never match, regardless of the code.
func VerifyOTP(stored *string, expiresAt *time.Time, code string) bool {
	if stored == nil || expiresAt == nil {
		return false
	}
	if time.Now().After(*expiresAt) {
		return false
	}
	return *stored == code
}
