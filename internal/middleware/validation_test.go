package middleware

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"no-at-sign", false},
		{"user@", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidateZipCode(t *testing.T) {
	tests := []struct {
		zip  string
		want bool
	}{
		{"78704", true},
		{"78704-1234", true},
		{"", true}, // optional field
		{"1234", false},
		{"abcde", false},
		{"78704-12", false},
	}

	for _, tt := range tests {
		if got := ValidateZipCode(tt.zip); got != tt.want {
			t.Errorf("ValidateZipCode(%q) = %v, want %v", tt.zip, got, tt.want)
		}
	}
}

func TestValidatePropertyType(t *testing.T) {
	for _, valid := range []string{"single_family", "multi_family", "condo", "townhouse", "commercial", "mixed_use"} {
		if !ValidatePropertyType(valid) {
			t.Errorf("ValidatePropertyType(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "mansion", "SINGLE_FAMILY"} {
		if ValidatePropertyType(invalid) {
			t.Errorf("ValidatePropertyType(%q) = true, want false", invalid)
		}
	}
}

func TestValidateTransactionType(t *testing.T) {
	for _, valid := range []string{"income", "expense", "capital"} {
		if !ValidateTransactionType(valid) {
			t.Errorf("ValidateTransactionType(%q) = false, want true", valid)
		}
	}
	if ValidateTransactionType("transfer") {
		t.Error("ValidateTransactionType(\"transfer\") = true, want false")
	}
}

func TestValidateRateFraction(t *testing.T) {
	tests := []struct {
		value float64
		want  bool
	}{
		{0, true},
		{0.05, true},
		{1, true},
		{-0.01, false},
		{5, false}, // looks like a percentage, not a fraction
	}

	for _, tt := range tests {
		if got := ValidateRateFraction(tt.value); got != tt.want {
			t.Errorf("ValidateRateFraction(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"keep\nnewline", "keep\nnewline"},
		{"\x01\x02clean\x03", "clean"},
	}

	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidationErrors_AddAndError(t *testing.T) {
	var errs ValidationErrors

	if errs.HasErrors() {
		t.Error("empty ValidationErrors should report no errors")
	}

	errs.Add("monthly_rent", "must be non-negative")
	errs.Add("property_type", "unknown type")

	if !errs.HasErrors() {
		t.Error("HasErrors() = false after Add()")
	}
	want := "monthly_rent: must be non-negative; property_type: unknown type"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}
}
