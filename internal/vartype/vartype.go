// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package vartype

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type (
	// VarFloat64 is a type alias for Variable[float64], representing a float64 value with initialization tracking.
	VarFloat64 = Variable[float64]

	// VarInt64 is a type alias for Variable[int64], representing an integer value with initialization tracking.
	VarInt64 = Variable[int64]

	// VarString is a type alias for Variable[string], representing a string value with initialization tracking.
	VarString = Variable[string]
)

// Variable represents a generic type wrapper that holds a value and tracks its initialization state.
// Provider responses are decoded into Variables so that an absent field can be told apart from
// an explicit zero value.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable creates and returns a new Variable instance initialized with the provided value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// Reset clears the value of the Variable and marks it as uninitialized.
func (v *Variable[T]) Reset() {
	var newVal T
	v.value = newVal
	v.isset = false
}

// Value retrieves the current value stored in the Variable.
func (v *Variable[T]) Value() T {
	return v.value
}

// Or returns the stored value if the Variable is set, otherwise the given fallback.
func (v *Variable[T]) Or(fallback T) T {
	if !v.isset {
		return fallback
	}
	return v.value
}

// Set assigns the provided value to the Variable and marks it as initialized.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// IsSet returns true if the Variable has been initialized with a value, otherwise false.
func (v *Variable[T]) IsSet() bool {
	return v.isset
}

// String returns a string representation of the Variable. If uninitialized, it returns a default placeholder message.
func (v Variable[T]) String() string {
	if !v.isset {
		return "not provided"
	}
	return fmt.Sprint(v.value)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null leaves the Variable unset.
func (v *Variable[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Reset()
		return nil
	}
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return fmt.Errorf("failed to unmarshal variable: %w", err)
	}
	v.Set(val)
	return nil
}

// MarshalJSON implements json.Marshaler. An unset Variable is encoded as null.
func (v Variable[T]) MarshalJSON() ([]byte, error) {
	if !v.isset {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
