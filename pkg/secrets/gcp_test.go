package secrets

import "testing"

func TestVersionName(t *testing.T) {
	got := VersionName("my-project", "shadowstrike-account-email")
	expect := "projects/my-project/secrets/shadowstrike-account-email/versions/latest"
	if got != expect {
		t.Errorf("expected %q, got %q", expect, got)
	}
}

func TestDefaultSecretNames(t *testing.T) {
	names := DefaultSecretNames()
	if names.Email == "" || names.Password == "" {
		t.Errorf("expected default secret names, got %+v", names)
	}
}
