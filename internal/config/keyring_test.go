package config

import "testing"

func TestKeyringManager_SaveAndGetPersistencePassword(t *testing.T) {
	km := NewKeyringManager()

	if !km.IsAvailable() {
		t.Skip("OS keychain not available, skipping test")
	}

	defer km.DeletePersistencePassword()

	const testPassword = "s3cr3t-local-test"

	if err := km.SetPersistencePassword(testPassword); err != nil {
		t.Fatalf("SetPersistencePassword: %v", err)
	}

	got, err := km.GetPersistencePassword()
	if err != nil {
		t.Fatalf("GetPersistencePassword: %v", err)
	}
	if got != testPassword {
		t.Fatalf("expected password %q, got %q", testPassword, got)
	}
}

func TestKeyringManager_GetPersistencePassword_NotFound(t *testing.T) {
	km := NewKeyringManager()
	if !km.IsAvailable() {
		t.Skip("OS keychain not available, skipping test")
	}

	_ = km.DeletePersistencePassword()

	got, err := km.GetPersistencePassword()
	if err != nil {
		t.Fatalf("expected no error for missing password, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty password, got %q", got)
	}
}
