package pets

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidateDefaults(t *testing.T) {
	in := Input{Name: "Rex", ClientID: uuid.New()}
	if msg, ok := validate(&in); !ok {
		t.Fatalf("unexpected validation failure: %s", msg)
	}
	if in.Species != SpeciesDog {
		t.Errorf("Species = %q, want DOG default", in.Species)
	}
	if in.Size != SizeMedium {
		t.Errorf("Size = %q, want MEDIUM default", in.Size)
	}
}

func TestValidateRejections(t *testing.T) {
	negWeight := -1.5
	tests := []struct {
		name string
		in   Input
	}{
		{"missing name", Input{ClientID: uuid.New()}},
		{"missing client", Input{Name: "Rex"}},
		{"bad species", Input{Name: "Rex", ClientID: uuid.New(), Species: "BIRD"}},
		{"bad size", Input{Name: "Rex", ClientID: uuid.New(), Size: "XL"}},
		{"negative weight", Input{Name: "Rex", ClientID: uuid.New(), WeightKg: &negWeight}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			if _, ok := validate(&in); ok {
				t.Error("expected validation failure")
			}
		})
	}
}

func TestSizeValid(t *testing.T) {
	for _, s := range []Size{SizeMini, SizeSmall, SizeMedium, SizeLarge, SizeGiant} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Size("HUGE").Valid() {
		t.Error("HUGE should not be valid")
	}
}
