package utils

import "testing"

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken returned error: %v", err)
	}
	if len(token) != 40 {
		t.Errorf("token length = %d, want 40 hex characters", len(token))
	}

	other, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken returned error: %v", err)
	}
	if token == other {
		t.Error("two generated tokens must differ")
	}
}

func TestHashResetToken(t *testing.T) {
	hash := HashResetToken("abc")
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(hash))
	}
	if hash == "abc" {
		t.Error("hash must not equal the clear token")
	}
	if hash != HashResetToken("abc") {
		t.Error("hashing must be deterministic")
	}
	if hash == HashResetToken("abd") {
		t.Error("different tokens must hash differently")
	}
}
