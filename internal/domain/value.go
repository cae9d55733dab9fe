package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ConditionValue is a comparison threshold. Editors submit it as free text,
// but JSON numbers are accepted too. It is never exposed downstream as
// anything other than a defined string: absent or null values decode to "".
type ConditionValue string

// UnmarshalJSON accepts a JSON string, number, or null.
func (v *ConditionValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*v = ""
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = ConditionValue(str)
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*v = ConditionValue(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}

// Float returns the numeric value and whether parsing succeeded.
func (v ConditionValue) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Canonical returns the value with numeric strings reformatted into a
// canonical form ("30.0" -> "30") so generator output does not depend on
// whether the value arrived as a string or a number. Non-numeric values are
// returned trimmed but otherwise untouched.
func (v ConditionValue) Canonical() ConditionValue {
	trimmed := strings.TrimSpace(string(v))
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return ConditionValue(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return ConditionValue(trimmed)
}

// Numeric is a float64 that also accepts numeric strings in JSON, since form
// inputs collect numbers as text. A non-numeric string fails coercion
// silently and leaves the value at zero instead of aborting the decode.
type Numeric float64

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			// Coercion failure leaves the field unset.
			return nil
		}
		*n = Numeric(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Numeric(f)
	return nil
}

// Float64 returns the value as a plain float64.
func (n Numeric) Float64() float64 { return float64(n) }

// NumericInt is an int that also accepts numeric strings in JSON, for
// integer form fields like indicator periods. Fractional input truncates.
// A non-numeric string fails coercion silently and leaves the value at zero
// instead of aborting the decode.
type NumericInt int

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
func (n *NumericInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			// Coercion failure leaves the field unset.
			return nil
		}
		*n = NumericInt(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = NumericInt(f)
	return nil
}

// Int returns the value as a plain int.
func (n NumericInt) Int() int { return int(n) }
