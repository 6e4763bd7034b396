// File: param_test.go
// Title: Parameter Converter Tests
// Description: Unit tests for the converter framework covering numeric
//              bounds, SCPI mnemonics, boolean and enum labels, and strict
//              arity checking.
// Version: v0.1.0
// Created: 2025-08-26

package param

import (
	"errors"
	"testing"

	"github.com/stonerlab/goscpi/pkg/scpi/status"
)

func TestFloat_MnemonicsAndBounds(t *testing.T) {
	convert := Float(FloatOpts{
		Min:     FloatPtr(0),
		Max:     FloatPtr(10),
		Default: FloatPtr(5),
	})

	tests := []struct {
		name      string
		raw       string
		expected  float64
		expectErr *status.Error
	}{
		{"MIN mnemonic", "MIN", 0, nil},
		{"MINIMUM long form", "minimum", 0, nil},
		{"MAX mnemonic", "MAX", 10, nil},
		{"DEF mnemonic", "DEF", 5, nil},
		{"plain value", "7", 7.0, nil},
		{"decimal value", "2.5", 2.5, nil},
		{"above maximum", "11", 0, status.ErrDataOutOfRange},
		{"below minimum", "-1", 0, status.ErrDataOutOfRange},
		{"not a number", "eleven", 0, status.ErrDataType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := convert(tt.raw)
			if tt.expectErr != nil {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.raw)
				}
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("Expected code %d, got %v", tt.expectErr.Code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert(%q) failed: %v", tt.raw, err)
			}
			if value.(float64) != tt.expected {
				t.Errorf("Convert(%q) = %v, expected %v", tt.raw, value, tt.expected)
			}
		})
	}
}

func TestFloat_UnsetMnemonicRejected(t *testing.T) {
	convert := Float(FloatOpts{Min: FloatPtr(0)})
	if _, err := convert("DEF"); err == nil {
		t.Errorf("Expected error for DEF with no configured default")
	}
	// An unset maximum means no upper bound
	if _, err := convert("1e9"); err != nil {
		t.Errorf("Expected no upper bound, got %v", err)
	}
}

func TestInt(t *testing.T) {
	convert := Int(IntOpts{Min: IntPtr(10), Max: IntPtr(1_000_000), Default: IntPtr(10_000)})

	if v, err := convert("500"); err != nil || v.(int64) != 500 {
		t.Errorf("Convert(500) = %v, %v", v, err)
	}
	if v, err := convert("def"); err != nil || v.(int64) != 10_000 {
		t.Errorf("Convert(def) = %v, %v", v, err)
	}
	if _, err := convert("5"); !errors.Is(err, status.ErrDataOutOfRange) {
		t.Errorf("Expected out-of-range for 5, got %v", err)
	}
	if _, err := convert("2.5"); !errors.Is(err, status.ErrDataType) {
		t.Errorf("Expected data-type error for 2.5, got %v", err)
	}
}

func TestBool(t *testing.T) {
	convert := Bool()

	tests := []struct {
		raw      string
		expected bool
		bad      bool
	}{
		{"1", true, false},
		{"ON", true, false},
		{"on", true, false},
		{"0", false, false},
		{"off", false, false},
		{"yes", false, true},
		{"2", false, true},
	}

	for _, tt := range tests {
		value, err := convert(tt.raw)
		if tt.bad {
			if !errors.Is(err, status.ErrDataType) {
				t.Errorf("Convert(%q): expected data-type error, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Convert(%q) failed: %v", tt.raw, err)
			continue
		}
		if value.(bool) != tt.expected {
			t.Errorf("Convert(%q) = %v, expected %v", tt.raw, value, tt.expected)
		}
	}
}

func TestOnOffFloat(t *testing.T) {
	convert := OnOffFloat()

	if v, _ := convert("ON"); v.(float64) != 100.0 {
		t.Errorf("ON must map to 100.0, got %v", v)
	}
	if v, _ := convert("no"); v.(float64) != 0.0 {
		t.Errorf("no must map to 0.0, got %v", v)
	}
	if v, _ := convert("37.5"); v.(float64) != 37.5 {
		t.Errorf("Plain floats must pass through, got %v", v)
	}
	if _, err := convert("medium"); !errors.Is(err, status.ErrDataType) {
		t.Errorf("Expected data-type error, got %v", err)
	}
}

func TestEnum_LongAndShortForms(t *testing.T) {
	convert := Enum(map[string]interface{}{
		"VOLTage": "voltage",
		"FieLD":   "field",
	})

	tests := []struct {
		raw      string
		expected string
	}{
		{"VOLT", "voltage"},
		{"voltage", "voltage"},
		{"FLD", "field"},
		{"field", "field"},
		{"FIELD", "field"},
	}
	for _, tt := range tests {
		value, err := convert(tt.raw)
		if err != nil {
			t.Errorf("Convert(%q) failed: %v", tt.raw, err)
			continue
		}
		if value.(string) != tt.expected {
			t.Errorf("Convert(%q) = %v, expected %q", tt.raw, value, tt.expected)
		}
	}

	if _, err := convert("RESISTANCE"); !errors.Is(err, status.ErrDataType) {
		t.Errorf("Expected data-type error for unmatched label, got %v", err)
	}
}

func TestApply_Arity(t *testing.T) {
	converters := []Converter{Float(FloatOpts{}), String()}

	if _, err := Apply(converters, []string{"1"}); !errors.Is(err, status.ErrMissingParameter) {
		t.Errorf("Expected missing-parameter error, got %v", err)
	}
	if _, err := Apply(converters, []string{"1", "x", "y"}); !errors.Is(err, status.ErrParameterNotAllowed) {
		t.Errorf("Expected parameter-not-allowed error, got %v", err)
	}

	args, err := Apply(converters, []string{"1.5", "probe"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if args[0].(float64) != 1.5 || args[1].(string) != "probe" {
		t.Errorf("Apply returned %v", args)
	}
}

func TestApply_ConversionErrorSurfaces(t *testing.T) {
	converters := []Converter{Int(IntOpts{Min: IntPtr(0), Max: IntPtr(10)})}
	if _, err := Apply(converters, []string{"12"}); !errors.Is(err, status.ErrDataOutOfRange) {
		t.Errorf("Expected converter error to surface, got %v", err)
	}
}
