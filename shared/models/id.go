// shared/models/id.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Key is the identifier type of the models: int64 inside the league service, ID for data
// read from a provider.
type Key interface {
	~int64 | ~string
}

// ID is a provider identifier. Providers send numbers or strings; numeric values are kept in
// decimal form so 7, "7" and 7.0 name the same team.
type ID string

// FormatID returns the ID of a numeric identifier.
func FormatID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// ParseID normalises a raw identifier.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FormatID(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= 1<<53 {
		return FormatID(int64(f))
	}
	return ID(s)
}

// Int64 returns the numeric value of id, if it has one.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// CompareIDs orders numeric ids by value and everything else lexically.
func CompareIDs(a, b ID) int {
	x, okA := a.Int64()
	y, okB := b.Int64()
	if okA && okB {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(string(a), string(b))
}

// MarshalJSON writes numeric ids as JSON numbers, so a numeric provider gets back what it sent.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok {
		return strconv.AppendInt(nil, n, 10), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*id = ""
	case json.Number:
		*id = ParseID(x.String())
	case string:
		*id = ParseID(x)
	default:
		return fmt.Errorf("invalid id %s: expected a number or a string", data)
	}
	return nil
}
