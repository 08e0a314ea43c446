package user

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ann@example.com", "ann@example.com"},
		{"  Ann@Example.COM  ", "ann@example.com"},
		{"ANN.LEE@EXAMPLE.ORG", "ann.lee@example.org"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"ann@example.com",
		"ann.lee@example.co.uk",
		"ann-lee@my-host.org",
		"  Ann@Example.COM ", // normalized before matching
	}

	invalid := []string{
		"",
		"not-an-email",
		"@example.com",
		"ann@",
		"ann@example",
		"ann lee@example.com",
	}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false, want true", e)
		}
	}

	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true, want false", e)
		}
	}
}

func TestDisplayName(t *testing.T) {
	u := User{FirstName: "Ann", LastName: "Lee"}

	if got := u.DisplayName(); got != "Ann Lee" {
		t.Errorf("DisplayName() = %q", got)
	}

	partial := User{FirstName: "Ann"}

	if got := partial.DisplayName(); got != "Ann" {
		t.Errorf("DisplayName() = %q", got)
	}
}
