package observability

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

func TestValidateLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantErr  bool
	}{
		{"canonical", "51b4ed78-7067-4943-9278-ad1fcc6806d5", false},
		{"all zero", "00000000-0000-0000-0000-000000000000", false},
		{"uppercase", "51B4ED78-7067-4943-9278-AD1FCC6806D5", true},
		{"missing hyphens", "51b4ed78_7067_4943_9278_ad1fcc6806d5", true},
		{"no hyphens", "51b4ed787067494392788ad1fcc6806d5", true},
		{"short group", "51b4ed7-7067-4943-9278-ad1fcc6806d5", true},
		{"long group", "51b4ed78-7067-4943-9278-ad1fcc6806d55", true},
		{"braces", "{51b4ed78-7067-4943-9278-ad1fcc6806d5}", true},
		{"non hex", "51b4ed78-7067-4943-9278-ad1fcc6806zz", true},
		{"empty", "", true},
		{"trailing newline", "51b4ed78-7067-4943-9278-ad1fcc6806d5\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocation(tt.location)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLocation(%q) error = %v, wantErr %v", tt.location, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidLocationFormat) {
				t.Errorf("expected ErrInvalidLocationFormat, got %v", err)
			}
		})
	}
}

func TestValidateLocation_GeneratedUUIDs(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := uuid.NewString()
		if err := ValidateLocation(id); err != nil {
			t.Fatalf("generated uuid %q rejected: %v", id, err)
		}
	}
}

// Property: any string in lowercase 8-4-4-4-12 hex form is accepted.
func TestProperty_ValidLocationsAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		loc := rapid.StringMatching(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`).Draw(t, "location")
		if err := ValidateLocation(loc); err != nil {
			t.Fatalf("ValidateLocation(%q) = %v", loc, err)
		}
	})
}

// Property: upper-casing a location that contains a letter makes it invalid.
func TestProperty_UppercaseLocationsRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		loc := rapid.StringMatching(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`).Draw(t, "location")
		upper := strings.ToUpper(loc)
		if upper == loc {
			t.Skip("no letters to upper-case")
		}
		if err := ValidateLocation(upper); !errors.Is(err, ErrInvalidLocationFormat) {
			t.Fatalf("ValidateLocation(%q) = %v, want ErrInvalidLocationFormat", upper, err)
		}
	})
}
