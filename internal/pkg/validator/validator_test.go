package validator

import (
	"testing"
	"time"

	"fieldbook/internal/pkg/bearing"
)

func TestValidateStructTags(t *testing.T) {
	type form struct {
		Email   string `validate:"required,email"`
		Heading string `validate:"bearing_dms"`
	}

	if errs := Validate(form{Email: "a@b.com", Heading: `045°00'00"`}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := Validate(form{Email: "not-an-email", Heading: "garbage"})
	if errs["Email"] != "email" {
		t.Fatalf("expected email tag failure, got %v", errs)
	}
	if errs["Heading"] != "bearing_dms" {
		t.Fatalf("expected bearing_dms tag failure, got %v", errs)
	}
}

func TestNonBlank(t *testing.T) {
	if NonBlank("   ") {
		t.Fatal("whitespace should not count as content")
	}
	if !NonBlank(" x ") {
		t.Fatal("expected content to be detected")
	}
}

func TestValidBearings(t *testing.T) {
	if !ValidBearings([]string{`120°15'30.6"`, "", `N 45°00'00" E`}) {
		t.Fatal("all entries are valid DMS or blank")
	}
	if ValidBearings([]string{`120°15'30.6"`, "120.5"}) {
		t.Fatal("bare decimal is not valid DMS text")
	}
	if !ValidBearing("120.5", bearing.FormatDD) {
		t.Fatal("decimal text is valid in dd format")
	}
}

func TestEnumPredicates(t *testing.T) {
	if !ValidPhase("fieldwork") || ValidPhase("demolition") {
		t.Fatal("phase predicate mismatch")
	}
	if !ValidStatus("archived") || ValidStatus("paused") {
		t.Fatal("status predicate mismatch")
	}
}

func TestDatesOrdered(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 1, 0)
	if !DatesOrdered(&start, &due) {
		t.Fatal("ordered dates rejected")
	}
	if DatesOrdered(&due, &start) {
		t.Fatal("reversed dates accepted")
	}
	if !DatesOrdered(nil, &due) || !DatesOrdered(&start, nil) {
		t.Fatal("missing endpoints should pass")
	}
}
