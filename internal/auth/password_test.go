package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}

	if err := VerifyPassword("hunter2hunter2", hash); err != nil {
		t.Errorf("VerifyPassword rejected the correct password: %v", err)
	}
	if err := VerifyPassword("wrong-password", hash); err == nil {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}
