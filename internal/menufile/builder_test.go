package menufile

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/mensa-backend/internal/domain"
)

func fullRow(overrides map[string]string) Row {
	fields := map[string]string{
		FieldDate:         "01.12.2023",
		FieldWeekday:      "Fr",
		FieldGroup:        "HG1",
		FieldName:         "Fisch (2,3,A,C)",
		FieldTags:         "F, MV,XX",
		FieldStudentPrice: "2,50",
		FieldStaffPrice:   "3,50",
		FieldGuestPrice:   "4.5",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return NewRow(7, fields)
}

func TestBuildEntry(t *testing.T) {
	e, err := BuildEntry(fullRow(nil), DefaultDateLayout)
	if err != nil {
		t.Fatalf("BuildEntry: %v", err)
	}

	if e.Category() != domain.CategoryMain {
		t.Errorf("Category = %q, want MAIN", e.Category())
	}
	if e.Name() != "Fisch" {
		t.Errorf("Name = %q, want %q", e.Name(), "Fisch")
	}
	if !e.HasAdditive(domain.AdditivePreservative) || !e.HasAdditive(domain.AdditiveAntioxidant) {
		t.Errorf("Additives = %v", e.Additives())
	}
	if !e.HasAllergen(domain.AllergenGluten) || !e.HasAllergen(domain.AllergenEggs) {
		t.Errorf("Allergens = %v", e.Allergens())
	}
	if tags := e.Tags(); len(tags) != 2 || !e.HasTag(domain.TagFish) || !e.HasTag(domain.TagMensaVital) {
		t.Errorf("Tags = %v, want F and MV", tags)
	}
	if !e.StudentPrice().Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("StudentPrice = %s", e.StudentPrice())
	}
	if !e.GuestPrice().Equal(decimal.RequireFromString("4.50")) {
		t.Errorf("GuestPrice = %s", e.GuestPrice())
	}
	if want := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC); !e.ServedOn().Equal(want) {
		t.Errorf("ServedOn = %v, want %v", e.ServedOn(), want)
	}
}

func TestBuildEntry_Categories(t *testing.T) {
	tests := []struct {
		group string
		want  domain.Category
	}{
		{"S1", domain.CategoryAppetiser},
		{"HG2", domain.CategoryMain},
		{"B1", domain.CategorySide},
		{"N1", domain.CategoryDessert},
	}
	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			e, err := BuildEntry(fullRow(map[string]string{FieldGroup: tt.group}), DefaultDateLayout)
			if err != nil {
				t.Fatalf("BuildEntry: %v", err)
			}
			if e.Category() != tt.want {
				t.Errorf("Category = %q, want %q", e.Category(), tt.want)
			}
		})
	}
}

func TestBuildEntry_UnknownCategory(t *testing.T) {
	_, err := BuildEntry(fullRow(map[string]string{FieldGroup: "A1"}), DefaultDateLayout)
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("error = %v, want ErrUnknownCategory", err)
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		t.Error("unknown category must not be a FormatError")
	}
}

func TestBuildEntry_FormatErrors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		drop      string
		wantField string
		wantErr   error
	}{
		{"malformed price", map[string]string{FieldStudentPrice: "2,5O"}, "", FieldStudentPrice, ErrInvalidPrice},
		{"zero price", map[string]string{FieldStaffPrice: "0,00"}, "", FieldStaffPrice, ErrInvalidPrice},
		{"negative price", map[string]string{FieldGuestPrice: "-1"}, "", FieldGuestPrice, ErrInvalidPrice},
		{"bad date", map[string]string{FieldDate: "2023-12-01"}, "", FieldDate, ErrInvalidDate},
		{"missing price", nil, FieldGuestPrice, FieldGuestPrice, ErrMissingField},
		{"missing group", nil, FieldGroup, FieldGroup, ErrMissingField},
		{"missing date", nil, FieldDate, FieldDate, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := fullRow(tt.overrides)
			if tt.drop != "" {
				delete(row.fields, tt.drop)
			}

			_, err := BuildEntry(row, DefaultDateLayout)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *FormatError", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fe.Field, tt.wantField)
			}
			if fe.Line != 7 {
				t.Errorf("Line = %d, want 7", fe.Line)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, domain.ErrInvalidFormat) {
				t.Errorf("error = %v, want it to match domain.ErrInvalidFormat", err)
			}
		})
	}
}

func TestBuildEntry_CustomLayout(t *testing.T) {
	e, err := BuildEntry(fullRow(map[string]string{FieldDate: "2023-12-01"}), time.DateOnly)
	if err != nil {
		t.Fatalf("BuildEntry: %v", err)
	}
	if e.ServedOn().Day() != 1 || e.ServedOn().Month() != time.December {
		t.Errorf("ServedOn = %v", e.ServedOn())
	}
}

func TestBuildEntry_EmptyTags(t *testing.T) {
	e, err := BuildEntry(fullRow(map[string]string{FieldTags: ""}), DefaultDateLayout)
	if err != nil {
		t.Fatalf("BuildEntry: %v", err)
	}
	if len(e.Tags()) != 0 {
		t.Errorf("Tags = %v, want none", e.Tags())
	}
}
