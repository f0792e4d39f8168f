package auth

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"owner":      RoleOwner,
		" ADMIN ":    RoleAdmin,
		"caretaker":  RoleCaretaker,
		"viewer":     RoleViewer,
		"":           RoleViewer,
		"superadmin": RoleViewer,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRole_CanWrite(t *testing.T) {
	for _, r := range []Role{RoleOwner, RoleAdmin, RoleCaretaker} {
		if !r.CanWrite() {
			t.Fatalf("expected %s to write", r)
		}
	}
	if RoleViewer.CanWrite() {
		t.Fatal("viewer must be read-only")
	}
}
