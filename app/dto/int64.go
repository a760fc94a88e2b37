package dto

import (
	"bytes"
	"fmt"
	"strconv"
)

// UserID carries platform identifiers that may exceed 2^53. It marshals as a
// JSON string and accepts either a string or a bare integer on input, so the
// value never has to round-trip through a float64.
type UserID int64

func (v UserID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(v), 10))), nil
}

func (v *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("empty id")
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid 64-bit id %q: %w", b, err)
	}
	*v = UserID(n)
	return nil
}

// Int64 returns the raw value.
func (v UserID) Int64() int64 {
	return int64(v)
}

// OptionalInt64 converts a nullable UserID into *int64.
func OptionalInt64(v *UserID) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

// FromOptionalInt64 converts *int64 into a nullable UserID.
func FromOptionalInt64(n *int64) *UserID {
	if n == nil {
		return nil
	}
	v := UserID(*n)
	return &v
}
