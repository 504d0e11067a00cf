// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"32 bytes", 32, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			if _, err := hex.DecodeString(id); err != nil {
				t.Errorf("GenerateID() returned invalid hex: %v", err)
			}
		})
	}
}

func TestGenerateTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateToken()
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if len(token) != 40 {
			t.Fatalf("token length = %d, want 40", len(token))
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}

func TestParseAuthorization(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Token abc123", "abc123", false},
		{"lowercase scheme", "token abc123", "abc123", false},
		{"extra spaces", "  Token   abc123 ", "abc123", false},
		{"empty", "", "", true},
		{"bearer scheme", "Bearer abc123", "", true},
		{"missing key", "Token", "", true},
		{"two keys", "Token abc 123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAuthorization(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAuthorization(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseAuthorization(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash must not equal the password")
	}

	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword() with right password: %v", err)
	}
	if err := CheckPassword(hash, "battery staple"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "whatever")
	if err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("malformed hash should not look like a credential mismatch")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("ValidatePassword(short) = %v, want ErrWeakPassword", err)
	}
	if err := ValidatePassword("long enough"); err != nil {
		t.Errorf("ValidatePassword(long enough) = %v", err)
	}

	atLimit := strings.Repeat("x", MaxPasswordBytes)
	if err := ValidatePassword(atLimit); err != nil {
		t.Errorf("ValidatePassword(72 bytes) = %v", err)
	}
	if _, err := HashPassword(atLimit); err != nil {
		t.Errorf("HashPassword(72 bytes) = %v", err)
	}
	if err := ValidatePassword(atLimit + "x"); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("ValidatePassword(73 bytes) = %v, want ErrPasswordTooLong", err)
	}
	// 40 characters but 80 bytes
	if err := ValidatePassword(strings.Repeat("é", 40)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("ValidatePassword(multibyte) = %v, want ErrPasswordTooLong", err)
	}
}
