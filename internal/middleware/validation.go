package middleware

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"rentfolio/internal/models"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	var msgs []string
	for _, e := range v.Errors {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are validation errors.
func (v ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message})
}

// WriteJSON writes the validation errors as a JSON response.
func (v ValidationErrors) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(v)
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	zipRegex   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// ValidateEmail validates an email address.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateZipCode validates a 5-digit or ZIP+4 code. Empty is allowed;
// callers decide whether the field is required.
func ValidateZipCode(zip string) bool {
	return zip == "" || zipRegex.MatchString(zip)
}

// ValidatePropertyType reports whether the value is a known property type.
func ValidatePropertyType(propertyType string) bool {
	switch propertyType {
	case models.PropertyTypeSingleFamily, models.PropertyTypeMultiFamily,
		models.PropertyTypeCondo, models.PropertyTypeTownhouse,
		models.PropertyTypeCommercial, models.PropertyTypeMixedUse:
		return true
	}
	return false
}

// ValidatePropertyStatus reports whether the value is a known status.
func ValidatePropertyStatus(status string) bool {
	switch status {
	case models.PropertyStatusActive, models.PropertyStatusPending,
		models.PropertyStatusSold, models.PropertyStatusArchived:
		return true
	}
	return false
}

// ValidateTransactionType reports whether the value is a known
// transaction type.
func ValidateTransactionType(txnType string) bool {
	switch txnType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeCapital:
		return true
	}
	return false
}

// ValidateRequired checks if a string is non-empty.
func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidateLength checks if a string is within length bounds.
func ValidateLength(value string, min, max int) bool {
	l := len(value)
	return l >= min && l <= max
}

// ValidateNonNegative checks if a float is non-negative.
func ValidateNonNegative(value float64) bool {
	return value >= 0
}

// ValidateRateFraction checks a decimal rate such as vacancy or
// management (0.10 = 10%). Rates above 1 are almost certainly
// percentages entered by mistake.
func ValidateRateFraction(value float64) bool {
	return value >= 0 && value <= 1
}

// SanitizeString trims whitespace and removes control characters.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
	return s
}
