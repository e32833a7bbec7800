package validator

import (
	"errors"
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

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-42d3-a456-426614174000",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidEmployeeID(t *testing.T) {
	cases := map[string]bool{
		"EMP0001":  true,
		"EMP12345": true,
		"EMP001":   false,
		"emp0001":  false,
		"E0001":    false,
		"":         false,
	}
	for input, want := range cases {
		if got := IsValidEmployeeID(input); got != want {
			t.Errorf("IsValidEmployeeID(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	if _, ok := IsValidDateTime("2024-01-15T10:30:00Z"); !ok {
		t.Error("expected RFC3339 timestamp to be valid")
	}
	if _, ok := IsValidDateTime("2024-01-15T10:30:00.123+07:00"); !ok {
		t.Error("expected fractional RFC3339 timestamp to be valid")
	}
	if _, ok := IsValidDateTime("2024-01-15 10:30"); ok {
		t.Error("expected space separated timestamp to be invalid")
	}
}

type sampleEvent struct {
	EmployeeID string `json:"employee_id" validate:"required,employee_id"`
	EventType  string `json:"event_type" validate:"required,oneof=check_in check_out"`
	MatchScore int    `json:"match_score" validate:"gte=0,lte=100"`
	Ignored    string `json:"-"`
}

func TestStruct(t *testing.T) {
	if err := Struct(sampleEvent{EmployeeID: "EMP0001", EventType: "check_in", MatchScore: 90}); err != nil {
		t.Fatalf("Struct() unexpected error: %v", err)
	}

	err := Struct(sampleEvent{EmployeeID: "bad", EventType: "lunch", MatchScore: 101})
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Struct() error = %T, want ValidationErrors", err)
	}
	got := errs.ToMap()
	for _, field := range []string{"employee_id", "event_type", "match_score"} {
		if _, ok := got[field]; !ok {
			t.Errorf("expected an error for field %q, got %v", field, got)
		}
	}
}

func TestValidationErrorsErr(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Error("empty ValidationErrors.Err() should be nil")
	}
	errs.Add("date", "date is required")
	if errs.Err() == nil {
		t.Error("non-empty ValidationErrors.Err() should not be nil")
	}
	if errs.Error() != "date: date is required" {
		t.Errorf("Error() = %q", errs.Error())
	}
}
