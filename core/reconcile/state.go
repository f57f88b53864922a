package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value wraps a comparable value as a State.
type Value[T comparable] struct {
	V T
}

// NewValue returns v as a State.
func NewValue[T comparable](v T) Value[T] {
	return Value[T]{V: v}
}

// Equal compares the wrapped values with ==.
func (v Value[T]) Equal(other State) bool {
	o, ok := other.(Value[T])
	return ok && o.V == v.V
}

// MarshalJSON encodes the wrapped value.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.V)
}

// Handled carries a comparable value together with an action.
// Equal ignores the handler: two rows showing the same content are equal even if their
// callbacks were created separately.
type Handled[T comparable] struct {
	V       T
	Handler func()
}

// Equal compares the wrapped values and ignores the handler.
func (h Handled[T]) Equal(other State) bool {
	o, ok := other.(Handled[T])
	return ok && o.V == h.V
}

// MarshalJSON encodes the wrapped value only.
func (h Handled[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.V)
}

// JSON is a payload held as canonical JSON.
// Object keys are sorted on construction, so payloads decoded from JSON, YAML or TOML
// documents compare equal whenever they describe the same value.
type JSON struct {
	raw []byte
}

// NewJSON canonicalizes v into a JSON payload. A nil v yields a nil State.
func NewJSON(v any) (State, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		v = decoded
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return JSON{raw: data}, nil
}

// Equal compares canonical bytes.
func (j JSON) Equal(other State) bool {
	o, ok := other.(JSON)
	return ok && bytes.Equal(j.raw, o.raw)
}

// MarshalJSON returns the canonical bytes.
func (j JSON) MarshalJSON() ([]byte, error) {
	if j.raw == nil {
		return []byte("null"), nil
	}
	return j.raw, nil
}

// String returns the canonical JSON text.
func (j JSON) String() string {
	return string(j.raw)
}
