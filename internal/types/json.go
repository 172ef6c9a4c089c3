package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one data row keyed by column name. Columns is shared by every
// record of a sheet; Values[i] belongs to Columns[i].
type Record struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column and whether the column exists.
func (r Record) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			if i < len(r.Values) {
				return r.Values[i], true
			}
			return nil, true
		}
	}
	return nil, false
}

// MarshalJSON writes the record as an object whose keys keep column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		var v any
		if i < len(r.Values) {
			v = r.Values[i]
		}
		if err := writeMember(&buf, col, v); err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m FieldMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, e.Key, e.Descriptor); err != nil {
			return nil, fmt.Errorf("field %q: %w", e.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys returns the mapping keys in order.
func (m FieldMapping) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	if err := encodeRaw(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return encodeRaw(buf, v)
}

// encodeRaw appends the JSON form of v without HTML escaping. Escapes made
// here survive the outer encoder.
func encodeRaw(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
