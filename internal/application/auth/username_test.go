package auth

import "testing"

func TestUsernameBase(t *testing.T) {
	cases := []struct {
		name  string
		email string
		want  string
	}{
		{"John Doe", "john@example.com", "johndoe"},
		{"Łukasz Nowak-2", "l@example.com", "ukasznowak2"},
		{"", "mary.jane@example.com", "maryjane"},
		{"", "", "user"},
		{"!!", "!!@example.com", "user"},
		{"Al", "", "useral"},
	}

	for _, c := range cases {
		if got := usernameBase(c.name, c.email); got != c.want {
			t.Fatalf("usernameBase(%q, %q) = %q, want %q", c.name, c.email, got, c.want)
		}
	}
}

func TestUsernameCandidate(t *testing.T) {
	if got := usernameCandidate("johndoe", 0); got != "johndoe" {
		t.Fatalf("attempt 0 = %q", got)
	}
	if got := usernameCandidate("johndoe", 1); got != "johndoe1" {
		t.Fatalf("attempt 1 = %q", got)
	}
	if got := usernameCandidate("johndoe", 42); got != "johndoe42" {
		t.Fatalf("attempt 42 = %q", got)
	}
}
