// File: param.go
// Title: Parameter Converters
// Description: Implements the converter framework that turns raw parameter
//              strings into typed values. Each converter is a configured
//              function applying bounds, defaults and the MIN/MAX/DEF
//              mnemonics of SCPI numeric parameters. Conversion failures are
//              reported as coded SCPI errors.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial converter set

package param

import (
	"strconv"
	"strings"

	"github.com/stonerlab/goscpi/pkg/scpi/status"
	"github.com/stonerlab/goscpi/pkg/scpi/token"
)

// Converter turns a raw parameter token into a typed value
type Converter func(raw string) (interface{}, error)

// FloatPtr returns a pointer to v, for the optional fields of FloatOpts
func FloatPtr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v, for the optional fields of IntOpts
func IntPtr(v int64) *int64 { return &v }

// FloatOpts configures a Float converter. Nil fields leave the
// corresponding bound or mnemonic unset.
type FloatOpts struct {
	Min     *float64 // MINimum mnemonic and lower bound
	Max     *float64 // MAXimum mnemonic and upper bound
	Default *float64 // DEFault mnemonic
	NaN     *float64 // NAN mnemonic
}

// Float builds a converter for decimal parameters. The mnemonics MIN,
// MINIMUM, MAX, MAXIMUM, DEF, DEFAULT and NAN map to the configured values;
// numeric input outside [Min, Max] fails with a data-out-of-range error.
func Float(opts FloatOpts) Converter {
	mnemonics := map[string]*float64{
		"MIN": opts.Min, "MINIMUM": opts.Min,
		"MAX": opts.Max, "MAXIMUM": opts.Max,
		"DEF": opts.Default, "DEFAULT": opts.Default,
		"NAN": opts.NaN,
	}

	return func(raw string) (interface{}, error) {
		key := strings.ToUpper(strings.TrimSpace(raw))
		if v, ok := mnemonics[key]; ok && v != nil {
			return *v, nil
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, status.Errorf(status.ErrDataType, "cannot parse %q as a number", raw)
		}
		if opts.Min != nil && value < *opts.Min {
			return nil, status.Errorf(status.ErrDataOutOfRange, "%v below minimum %v", value, *opts.Min)
		}
		if opts.Max != nil && value > *opts.Max {
			return nil, status.Errorf(status.ErrDataOutOfRange, "%v above maximum %v", value, *opts.Max)
		}
		return value, nil
	}
}

// IntOpts configures an Int converter. Nil fields leave the corresponding
// bound or mnemonic unset.
type IntOpts struct {
	Min     *int64
	Max     *int64
	Default *int64
}

// Int builds a converter for integral parameters with the same mnemonic
// and bounds contract as Float.
func Int(opts IntOpts) Converter {
	mnemonics := map[string]*int64{
		"MIN": opts.Min, "MINIMUM": opts.Min,
		"MAX": opts.Max, "MAXIMUM": opts.Max,
		"DEF": opts.Default, "DEFAULT": opts.Default,
	}

	return func(raw string) (interface{}, error) {
		key := strings.ToUpper(strings.TrimSpace(raw))
		if v, ok := mnemonics[key]; ok && v != nil {
			return *v, nil
		}

		value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, status.Errorf(status.ErrDataType, "cannot parse %q as an integer", raw)
		}
		if opts.Min != nil && value < *opts.Min {
			return nil, status.Errorf(status.ErrDataOutOfRange, "%v below minimum %v", value, *opts.Min)
		}
		if opts.Max != nil && value > *opts.Max {
			return nil, status.Errorf(status.ErrDataOutOfRange, "%v above maximum %v", value, *opts.Max)
		}
		return value, nil
	}
}

// Bool builds a converter accepting "1"/"ON" as true and "0"/"OFF" as
// false, case-insensitively. Anything else is a data-type error.
func Bool() Converter {
	return func(raw string) (interface{}, error) {
		switch strings.ToUpper(strings.TrimSpace(raw)) {
		case "1", "ON":
			return true, nil
		case "0", "OFF":
			return false, nil
		default:
			return nil, status.Errorf(status.ErrDataType, "%q is not a boolean", raw)
		}
	}
}

// OnOffFloat builds a converter that maps common on/off words onto level
// percentages: ON, YES, TRUE, DEF and DEFAULT become 100.0, OFF, NO and
// FALSE become 0.0, and anything else is parsed as a plain float.
func OnOffFloat() Converter {
	return func(raw string) (interface{}, error) {
		switch strings.ToUpper(strings.TrimSpace(raw)) {
		case "ON", "YES", "TRUE", "DEF", "DEFAULT":
			return 100.0, nil
		case "OFF", "NO", "FALSE":
			return 0.0, nil
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, status.Errorf(status.ErrDataType, "%q is not an on/off value or number", raw)
		}
		return value, nil
	}
}

// Enum builds a converter from a label→value mapping. Labels are given in
// SCPI mixed case and registered under both their long and short forms, so
// Enum(map[string]interface{}{"VOLTage": ...}) matches VOLT and VOLTAGE.
func Enum(labels map[string]interface{}) Converter {
	mapping := make(map[string]interface{}, 2*len(labels))
	for label, value := range labels {
		mapping[token.ShortForm(label)] = value
		mapping[token.LongForm(label)] = value
	}

	return func(raw string) (interfaceValue interface{}, err error) {
		key := strings.ToUpper(strings.TrimSpace(raw))
		if value, ok := mapping[key]; ok {
			return value, nil
		}
		return nil, status.Errorf(status.ErrDataType, "%q is not a recognised label", raw)
	}
}

// String builds a converter that passes the raw token through unchanged
func String() Converter {
	return func(raw string) (interface{}, error) {
		return raw, nil
	}
}

// Apply converts the raw parameter list using the converter list of a
// command. Arity is strict: too many raw parameters is a parameter-not-
// allowed error, too few a missing-parameter error.
func Apply(converters []Converter, raw []string) ([]interface{}, error) {
	if len(raw) > len(converters) {
		return nil, status.Errorf(status.ErrParameterNotAllowed, "got %d parameters, expected %d", len(raw), len(converters))
	}
	if len(raw) < len(converters) {
		return nil, status.Errorf(status.ErrMissingParameter, "got %d parameters, expected %d", len(raw), len(converters))
	}

	args := make([]interface{}, len(raw))
	for ix, convert := range converters {
		value, err := convert(raw[ix])
		if err != nil {
			return nil, err
		}
		args[ix] = value
	}
	return args, nil
}
