package security

import (
	"crypto/rsa"
	"testing"
)

func TestParsePublicKey_InlinePEM(t *testing.T) {
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if _, ok := pub.(*rsa.PublicKey); !ok {
		t.Errorf("ParsePublicKey: want *rsa.PublicKey, got %T", pub)
	}
}

func TestParsePublicKey_Invalid(t *testing.T) {
	for _, s := range []string{"", "not pem", "-----BEGIN PUBLIC KEY-----\ngarbage\n-----END PUBLIC KEY-----"} {
		if _, err := ParsePublicKey(s); err == nil {
			t.Errorf("ParsePublicKey(%q): want error", s)
		}
	}
}

func TestParsePrivateKey_InlinePEM(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	if signer == nil {
		t.Fatal("ParsePrivateKey: nil signer")
	}
}

func TestLoadPEM_Inline(t *testing.T) {
	got, err := LoadPEM(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("LoadPEM: %v", err)
	}
	if string(got) != testPublicKeyPEM {
		t.Error("LoadPEM should return inline PEM unchanged")
	}
}

func TestLoadPEM_Empty(t *testing.T) {
	if _, err := LoadPEM("   "); err != ErrInvalidKey {
		t.Errorf("LoadPEM empty: want ErrInvalidKey, got %v", err)
	}
}
