package form

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSectionsCatalogue(t *testing.T) {
	sections := Sections()
	if len(sections) != 13 || TotalSections() != 13 {
		t.Fatalf("sections = %d, want 13", len(sections))
	}
	for i, s := range sections {
		if s.Number != i+1 {
			t.Fatalf("section %d numbered %d", i, s.Number)
		}
		if len(s.Fields) == 0 {
			t.Fatalf("section %d (%s) has no fields", s.Number, s.Title)
		}
	}
	last, ok := SectionAt(13)
	if !ok || len(last.Fields) != ImplementationSlots*5 {
		t.Fatalf("implementation section fields = %d", len(last.Fields))
	}
	if _, ok := SectionAt(14); ok {
		t.Fatalf("section 14 should not exist")
	}
}

func TestFieldKeysAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range allFields() {
		if seen[f.Key] {
			t.Fatalf("duplicate key %s", f.Key)
		}
		seen[f.Key] = true
	}
	if len(seen) < 90 {
		t.Fatalf("expected at least 90 slots, got %d", len(seen))
	}
}

func TestGetSetByKeyPath(t *testing.T) {
	var doc Document
	cases := map[string]string{
		"name":                           "Dana",
		"workingItems.2":                 "referrals",
		"shortTermGoals.1.action":        "call ten realtors",
		"implementationItems.9.item":     "hire assistant",
		"leadMethods.otherSpecify":       "podcast",
		"crmEffectiveness":               "Neutral",
		"implementationItems.0.priority": "1",
	}
	for key, value := range cases {
		if err := doc.Set(key, value); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	for key, want := range cases {
		got, err := doc.Get(key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if got != want {
			t.Fatalf("get %s = %q, want %q", key, got, want)
		}
	}
	if doc.WorkingItems[2] != "referrals" || doc.ShortTermGoals[1].Action != "call ten realtors" {
		t.Fatalf("setter did not reach struct fields: %+v", doc)
	}
}

func TestSetUnknownField(t *testing.T) {
	var doc Document
	if err := doc.Set("workingItems.3", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := doc.Get("nope"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestCheckboxParsing(t *testing.T) {
	var doc Document
	if err := doc.Set("leadMethods.referrals", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !doc.LeadMethods.Referrals {
		t.Fatalf("referrals should be checked")
	}
	if err := doc.Set("leadMethods.referrals", ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if doc.LeadMethods.Referrals {
		t.Fatalf("empty value should uncheck")
	}
	if err := doc.Set("leadMethods.referrals", "maybe"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestScoreEditsKeepTotalInStep(t *testing.T) {
	var doc Document
	_ = doc.Set("implementationItems.0.speedScore", "4")
	_ = doc.Set("implementationItems.0.impactScore", "7")
	if got := doc.ImplementationItems[0].TotalScore; got != "11" {
		t.Fatalf("total = %q, want 11", got)
	}
	_ = doc.Set("implementationItems.0.speedScore", "6")
	if got := doc.ImplementationItems[0].TotalScore; got != "13" {
		t.Fatalf("total after edit = %q, want 13", got)
	}
	_ = doc.Set("implementationItems.0.totalScore", "20")
	_ = doc.Set("implementationItems.0.impactScore", "1")
	if got := doc.ImplementationItems[0].TotalScore; got != "20" {
		t.Fatalf("hand-typed total overwritten: %q", got)
	}
}

func TestValidateRequiresNameAndDate(t *testing.T) {
	doc := Document{Name: "   "}
	err := Validate(&doc)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if verrs["name"] != "Name is required" || verrs["date"] != "Date is required" {
		t.Fatalf("unexpected messages %v", verrs)
	}
	doc.Name, doc.Date = "Dana", "2024-05-01"
	if err := Validate(&doc); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
}

func TestFixedArraysIgnoreExtraEntries(t *testing.T) {
	raw := `{"name":"Dana","workingItems":["a","b","c","d"],"addItems":["x"]}`
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.WorkingItems != [ReviewSlots]string{"a", "b", "c"} {
		t.Fatalf("working items = %v", doc.WorkingItems)
	}
	if doc.AddItems != [ChangeSlots]string{"x", ""} {
		t.Fatalf("add items = %v", doc.AddItems)
	}
}

func TestSetRejectsInvalidUTF8(t *testing.T) {
	var doc Document
	if err := doc.Set("name", "Dana\xff"); !errors.Is(err, ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
	if doc.Name != "" {
		t.Fatalf("rejected value was stored: %q", doc.Name)
	}
	if err := doc.Set("name", "Zoë"); err != nil {
		t.Fatalf("valid UTF-8 rejected: %v", err)
	}
}

func TestFilledCount(t *testing.T) {
	var doc Document
	if !doc.IsEmpty() {
		t.Fatalf("zero document should be empty")
	}
	doc.Name = "Dana"
	doc.LeadMethods.Other = true
	doc.ImplementationItems[4].Item = "automate follow-up"
	if got := doc.FilledCount(); got != 3 {
		t.Fatalf("filled = %d, want 3", got)
	}
	if got := doc.LeadMethods.Selected(); len(got) != 1 || got[0] != "other" {
		t.Fatalf("selected = %v", got)
	}
	if snapshot().IsEmpty() || snapshot().FilledCount() != 1 {
		t.Fatalf("counts must work on returned values")
	}
}

func snapshot() Document {
	return Document{Name: "Dana"}
}
