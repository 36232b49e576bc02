package auth

import (
	"testing"
	"time"
)

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP() error = %v", err)
		}
		if len(code) != OTPLength {
			t.Fatalf("GenerateOTP() length = %d, want %d", len(code), OTPLength)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("GenerateOTP() = %q, contains non-digit", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("GenerateOTP() produced the same code 50 times")
	}
}

func TestVerifyOTP(t *testing.T) {
	code := "123456"
	future := time.Now().Add(10 * time.Minute)
	past := time.Now().Add(-time.Minute)

	tests := []struct {
		name      string
		stored    *string
		expiresAt *time.Time
		submitted string
		want      bool
	}{
		{
			name:      "correct code",
			stored:    &code,
			expiresAt: &future,
			submitted: "123456",
			want:      true,
		},
		{
			name:      "wrong code",
			stored:    &code,
			expiresAt: &future,
			submitted: "654321",
			want:      false,
		},
		{
			name:      "expired challenge never matches",
			stored:    &code,
			expiresAt: &past,
			submitted: "123456",
			want:      false,
		},
		{
			name:      "no challenge pending",
			stored:    nil,
			expiresAt: nil,
			submitted: "123456",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyOTP(tt.stored, tt.expiresAt, tt.submitted); got != tt.want {
				t.Errorf("VerifyOTP() = %v, want %v", got, tt.want)
			}
		})
	}
}
