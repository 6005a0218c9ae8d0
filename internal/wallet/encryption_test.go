package wallet

import (
	"bytes"
	"errors"
	"testing"
)

// fastParams returns low-cost Argon2 params for fast tests.
func fastParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64, // 64 KiB (minimal)
		Iterations:  1,
		Parallelism: 1,
	}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"mnemonic", []byte(testMnemonic)},
		{"empty", []byte{}},
		{"large", bytes.Repeat([]byte{0xab}, 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := Encrypt(tt.data, []byte("pass"), fastParams())
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			opened, err := Decrypt(sealed, []byte("pass"))
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(opened, tt.data) {
				t.Errorf("roundtrip mismatch: got %d bytes, want %d", len(opened), len(tt.data))
			}
		})
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	sealed, err := Encrypt([]byte("secret data"), []byte("correct"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	_, err = Decrypt(sealed, []byte("wrong"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Decrypt() with wrong password = %v, want ErrWrongPassword", err)
	}
}

func TestDecrypt_TruncatedData(t *testing.T) {
	if _, err := Decrypt([]byte("too short"), []byte("pass")); err == nil {
		t.Error("Decrypt with truncated data should fail")
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	tests := []struct {
		name   string
		offset func(n int) int
	}{
		{"auth tag", func(n int) int { return n - 1 }},
		{"salt", func(int) int { return 1 }},
		{"iterations", func(int) int { return 1 + SaltSize + 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := Encrypt([]byte("data"), []byte("pass"), fastParams())
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			sealed[tt.offset(len(sealed))] ^= 0x01
			if _, err := Decrypt(sealed, []byte("pass")); err == nil {
				t.Error("Decrypt of tampered data should fail")
			}
		})
	}
}

func TestDecrypt_UnknownVersion(t *testing.T) {
	sealed, err := Encrypt([]byte("data"), []byte("pass"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	sealed[0] = 9
	if _, err := Decrypt(sealed, []byte("pass")); err == nil {
		t.Error("Decrypt with unknown version should fail")
	}
}

func TestEncrypt_DifferentEachTime(t *testing.T) {
	enc1, err := Encrypt([]byte("same"), []byte("pass"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	enc2, err := Encrypt([]byte("same"), []byte("pass"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if bytes.Equal(enc1, enc2) {
		t.Error("encrypting same data twice should produce different output (random salt/nonce)")
	}
}

func TestEncrypt_OutputFormat(t *testing.T) {
	plaintext := []byte("test")
	sealed, err := Encrypt(plaintext, []byte("pass"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	want := headerSize + 24 + len(plaintext) + 16
	if len(sealed) != want {
		t.Errorf("sealed length = %d, want %d", len(sealed), want)
	}
	if sealed[0] != sealVersion {
		t.Errorf("version byte = %d, want %d", sealed[0], sealVersion)
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Memory != 64*1024 || p.Iterations != 3 || p.Parallelism != 4 {
		t.Errorf("DefaultParams() = %+v", p)
	}
}
