package keyring

import (
	"errors"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://testuser@localhost:5432/cadence?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("  "); err == nil {
		t.Error("SetConnectionString with a blank value should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestAccountsAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	other := Account{Service: "cadence-test", User: "other"}
	if err := other.Set("host=elsewhere"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	_ = DeleteConnectionString()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("default account should be empty, got %v", err)
	}
	if got, _ := other.Get(); got != "host=elsewhere" {
		t.Errorf("other.Get() = %q", got)
	}
}

func TestKeyringErrorsAreUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus session"))
	defer gokeyring.MockInit()

	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetConnectionString() error = %v, want ErrKeyringUnavailable", err)
	}
	if IsAvailable() {
		t.Error("IsAvailable() should be false when the backend errors")
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in       string
		contains string
		hidden   string
	}{
		{"postgres://user:secret@db:5432/cadence", "user", "secret"},
		{"host=db dbname=cadence user=me password=secret", "host=db dbname=cadence", "secret"},
	}
	for _, tt := range tests {
		got := Redact(tt.in)
		if !strings.Contains(got, tt.contains) || strings.Contains(got, tt.hidden) {
			t.Errorf("Redact(%q) = %q", tt.in, got)
		}
	}
}
