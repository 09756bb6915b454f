package phi

import (
	"strings"
	"testing"
)

func testEncryptor(t *testing.T) *FieldEncryptor {
	t.Helper()
	e, err := NewFieldEncryptor([]byte(strings.Repeat("k", 32)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestNewFieldEncryptor_BadKeyLength(t *testing.T) {
	if _, err := NewFieldEncryptor([]byte("short")); err == nil {
		t.Error("expected error for short key")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	e := testEncryptor(t)

	ct, err := e.Encrypt("warfarin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct == "warfarin" {
		t.Error("ciphertext equals plaintext")
	}

	pt, err := e.Decrypt(ct)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt != "warfarin" {
		t.Errorf("expected warfarin, got %s", pt)
	}
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	e := testEncryptor(t)

	a, _ := e.Encrypt("metformina")
	b, _ := e.Encrypt("metformina")
	if a == b {
		t.Error("expected distinct ciphertexts for same plaintext")
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	e := testEncryptor(t)

	ct, _ := e.Encrypt("ibuprofene")
	tampered := "A" + ct[1:]
	if _, err := e.Decrypt(tampered); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
}

func TestDecrypt_NotBase64(t *testing.T) {
	e := testEncryptor(t)
	if _, err := e.Decrypt("%%not-base64%%"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	e := testEncryptor(t)
	if _, err := e.Decrypt("YWJj"); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}
