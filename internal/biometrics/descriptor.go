// Package biometrics holds the numeric core of face verification: the
// descriptor type, the distance metric, template blending and the match
// policy. Nothing here performs I/O.
package biometrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidDescriptor is returned when a payload cannot be interpreted as a
// descriptor at all (wrong JSON shape, unsupported value type).
var ErrInvalidDescriptor = errors.New("invalid descriptor")

// Descriptor is a fixed-length face embedding produced by the external
// embedding provider. Coordinates that are not finite are tolerated and are
// skipped by Distance.
type Descriptor []float64

// Clone returns an independent copy of d.
func (d Descriptor) Clone() Descriptor {
	if d == nil {
		return nil
	}
	out := make(Descriptor, len(d))
	copy(out, d)
	return out
}

// MarshalJSON always emits a plain array. Non-finite coordinates are written
// as null since JSON has no representation for them.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, len(d)*20+2)
	buf = append(buf, '[')
	for i, v := range d {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	buf = append(buf, ']')
	return buf, nil
}

// UnmarshalJSON accepts either a plain array or a keyed object. Objects are
// flattened in JavaScript Object.values order: array-index keys ascending,
// then the remaining keys in document order.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = nil
		return nil
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
		}
		out := make(Descriptor, len(raw))
		for i, r := range raw {
			out[i] = rawCoordinate(r)
		}
		*d = out
		return nil
	case '{':
		values, err := orderedObjectValues(data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
		}
		out := make(Descriptor, len(values))
		for i, r := range values {
			out[i] = rawCoordinate(r)
		}
		*d = out
		return nil
	default:
		return fmt.Errorf("%w: expected array or object", ErrInvalidDescriptor)
	}
}

// FromValue converts a generically decoded value (as produced by
// encoding/json into any, or structpb's AsInterface) into a Descriptor.
// Decoded maps carry no key order, so keys that are not array indexes are
// taken in lexical order after the index keys.
func FromValue(v any) (Descriptor, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Descriptor:
		return t.Clone(), nil
	case []float64:
		return Descriptor(t).Clone(), nil
	case []any:
		out := make(Descriptor, len(t))
		for i, e := range t {
			out[i] = coordinate(e)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		keys = objectValuesOrder(keys)
		out := make(Descriptor, len(keys))
		for i, k := range keys {
			out[i] = coordinate(t[k])
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidDescriptor, v)
	}
}

// coordinate mirrors rawCoordinate for already-decoded values.
func coordinate(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		return parseCoordinate(t)
	default:
		return math.NaN()
	}
}

func rawCoordinate(r json.RawMessage) float64 {
	var v any
	dec := json.NewDecoder(bytes.NewReader(r))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return math.NaN()
	}
	return coordinate(v)
}

func parseCoordinate(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// orderedObjectValues returns the raw member values of a JSON object in
// Object.values order.
func orderedObjectValues(data []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	keys = objectValuesOrder(keys)
	out := make([]json.RawMessage, len(keys))
	for i, k := range keys {
		out[i] = values[k]
	}
	return out, nil
}

// objectValuesOrder moves array-index keys to the front in ascending numeric
// order and keeps the relative order of all other keys.
func objectValuesOrder(keys []string) []string {
	var indexes []uint64
	byIndex := make(map[uint64]string)
	rest := make([]string, 0, len(keys))
	for _, k := range keys {
		if n, ok := arrayIndex(k); ok {
			indexes = append(indexes, n)
			byIndex[n] = k
			continue
		}
		rest = append(rest, k)
	}
	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })

	out := make([]string, 0, len(keys))
	for _, n := range indexes {
		out = append(out, byIndex[n])
	}
	return append(out, rest...)
}

// arrayIndex reports whether k is a canonical array index ("0", "17", but not
// "017" or "-1").
func arrayIndex(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	for _, c := range k {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(k, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return n, true
}
