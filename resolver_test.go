package authcore

import (
	"sort"
	"testing"
)

func TestResolveBuiltinDefaults(t *testing.T) {
	r := NewResolver(Overrides{}, nil)

	cfg := r.Resolve("")
	if cfg.IdentityField != "email" {
		t.Fatalf("identity field default: got %q", cfg.IdentityField)
	}
	if cfg.PasswordField != "password" {
		t.Fatalf("password field default: got %q", cfg.PasswordField)
	}
	if cfg.HashedPasswordField != "hashed_password" {
		t.Fatalf("hashed password field default: got %q", cfg.HashedPasswordField)
	}
	if cfg.LoginErrorMessage != "Invalid email or password." {
		t.Fatalf("login error message default: got %q", cfg.LoginErrorMessage)
	}
	if cfg.Strategy == nil {
		t.Fatal("expected a default hashing strategy")
	}
	if cfg.Repository != nil {
		t.Fatal("repository must default to nil")
	}
}

func TestResolvePartialOverridePreservesSiblings(t *testing.T) {
	r := NewResolver(Overrides{}, map[string]Overrides{
		"Admin": {IdentityField: "username"},
	})

	cfg := r.Resolve("Admin")
	if cfg.IdentityField != "username" {
		t.Fatalf("override not applied: got %q", cfg.IdentityField)
	}
	if cfg.PasswordField != "password" || cfg.HashedPasswordField != "hashed_password" {
		t.Fatalf("sibling defaults were blanked: %q %q", cfg.PasswordField, cfg.HashedPasswordField)
	}
	if cfg.RecordType != "Admin" {
		t.Fatalf("record type not retained: got %q", cfg.RecordType)
	}
}

func TestResolveGlobalLayer(t *testing.T) {
	r := NewResolver(Overrides{LoginErrorMessage: "Nope."}, map[string]Overrides{
		"User": {IdentityField: "handle"},
	})

	cfg := r.Resolve("User")
	if cfg.LoginErrorMessage != "Nope." {
		t.Fatalf("global layer not applied: got %q", cfg.LoginErrorMessage)
	}
	if cfg.IdentityField != "handle" {
		t.Fatalf("per-type layer not applied: got %q", cfg.IdentityField)
	}
}

func TestResolveCallSiteHighestPrecedence(t *testing.T) {
	r := NewResolver(Overrides{IdentityField: "global_field"}, map[string]Overrides{
		"User": {IdentityField: "type_field"},
	})

	cfg := r.Resolve("User", Overrides{IdentityField: "call_field"})
	if cfg.IdentityField != "call_field" {
		t.Fatalf("call-site layer must win: got %q", cfg.IdentityField)
	}

	// A zero-value call layer changes nothing.
	cfg = r.Resolve("User", Overrides{})
	if cfg.IdentityField != "type_field" {
		t.Fatalf("zero call layer must be a no-op: got %q", cfg.IdentityField)
	}
}

func TestResolveUnregisteredRecordType(t *testing.T) {
	r := NewResolver(Overrides{}, map[string]Overrides{
		"User": {IdentityField: "handle"},
	})

	cfg := r.Resolve("Foo")
	if cfg.RecordType != "Foo" {
		t.Fatalf("record type must be retained for unregistered identifiers: got %q", cfg.RecordType)
	}
	if cfg.IdentityField != "email" {
		t.Fatalf("unregistered type must fall through to defaults: got %q", cfg.IdentityField)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("resolution of an unregistered type must validate: %v", err)
	}
}

func TestResolverRecordTypes(t *testing.T) {
	r := NewResolver(Overrides{}, map[string]Overrides{
		"User":  {},
		"Admin": {},
	})

	got := r.RecordTypes()
	sort.Strings(got)
	want := []string{"Admin", "User"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
