package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// The hosted store is schemaless and the historical documents are not
// uniform: numeric fields show up as strings, optional ids as "".
// These types absorb that at the decode boundary so the rest of the code
// sees plain Go values.

// OptionalID is an id field that may be absent, null, a number, or "".
// Zero means "not set" and marshals back as "" to match the stored shape.
type OptionalID int

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*o = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("optional id: %q is not numeric", s)
		}
		*o = OptionalID(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*o = OptionalID(n)
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o == 0 {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(int(o))), nil
}

func (o OptionalID) Int() int { return int(o) }

// FlexString accepts either a JSON string or a bare number. Phone numbers
// in the seed data are stored as numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }
