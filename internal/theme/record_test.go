package theme

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/jmylchreest/bandtint/internal/colour"
	"github.com/jmylchreest/bandtint/internal/validation"
)

func TestRGB24(t *testing.T) {
	c := colour.New(0x12, 0x34, 0x56)
	v := PackRGB24(c)
	if v != 0x123456 {
		t.Errorf("PackRGB24() = %#x, want 0x123456", uint32(v))
	}
	if got := v.Color(); got != c {
		t.Errorf("Color() = %v, want %v", got, c)
	}
	if got := RGB24(0xFF123456).Color(); got != c {
		t.Errorf("high bits not ignored: %v", got)
	}
}

func TestNewRecord(t *testing.T) {
	theme := sampleTheme()
	a := NewRecord("  Evening ", theme)
	b := NewRecord("Evening", theme)

	if a.ID == uuid.Nil || a.ID == b.ID {
		t.Errorf("record IDs = %v, %v; want distinct non-nil", a.ID, b.ID)
	}
	if a.Title != "Evening" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Base != 0x102030 || a.SecondaryText != 0x152535 {
		t.Errorf("packed colours = %#x, %#x", uint32(a.Base), uint32(a.SecondaryText))
	}
	if got := a.Theme(); got != theme {
		t.Errorf("Theme() = %+v, want %+v", got, theme)
	}
}

func TestRGB24UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGB24
		wantErr bool
	}{
		{name: "zero", input: "0", want: 0},
		{name: "colour", input: "1193046", want: 0x123456},
		{name: "max", input: "16777215", want: 0xFFFFFF},
		{name: "just over 24 bits", input: "16777216", wantErr: true},
		{name: "alpha in high byte", input: "4279383126", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "fraction", input: "1.5", wantErr: true},
		{name: "string", input: `"#123456"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RGB24
			err := got.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, validation.ErrInvalidFormat) {
					t.Fatalf("UnmarshalJSON(%s) error = %v, want ErrInvalidFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalJSON(%s) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %#x, want %#x", tt.input, uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestRecordJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		want := NewRecord("Evening", sampleTheme())
		data, err := json.Marshal(want)
		if err != nil {
			t.Fatal(err)
		}
		var got Record
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("round trip = %+v, want %+v", got, want)
		}
	})

	t.Run("rejects colour wider than 24 bits", func(t *testing.T) {
		var r Record
		if err := json.Unmarshal([]byte(`{"title":"Bad","base":33488896}`), &r); err == nil {
			t.Errorf("Unmarshal() accepted base 0x%x", 33488896)
		}
	})
}
