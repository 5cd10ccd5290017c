package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidExternalID(t *testing.T) {
	valid := []string{"7", "10042", "EMP-001", "a_b"}
	invalid := []string{"", " ", "7 8", "12;DROP", "123456789012345678901234567890123"}
	for _, id := range valid {
		if !IsValidExternalID(id) {
			t.Errorf("IsValidExternalID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidExternalID(id) {
			t.Errorf("IsValidExternalID(%q) = true, want false", id)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", " 2024-05-01 "}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", "", "2024-05-01 08:00:00"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "from", Message: "required"},
		{Field: "to", Message: "invalid"},
	}
	if got := errs.Error(); got != "from: required; to: invalid" {
		t.Errorf("Error() = %q", got)
	}
	m := errs.ToMap()
	if m["from"] != "required" || m["to"] != "invalid" {
		t.Errorf("ToMap() = %v", m)
	}
}
