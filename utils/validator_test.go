package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"assessor@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"missing-at.example.com", false},
		{"no-domain@", false},
		{"@no-local.example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidateEmail(tc.email); got != tc.valid {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tc.email, got, tc.valid)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Error("passwords under 8 characters must be rejected")
	}
	if ok, msg := ValidatePassword("longenough"); !ok {
		t.Errorf("expected valid password, got: %s", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  padded  "); got != "padded" {
		t.Errorf("expected trimmed string, got %q", got)
	}
	if got := SanitizeInput("null\x00byte"); got != "nullbyte" {
		t.Errorf("expected null bytes removed, got %q", got)
	}
}
