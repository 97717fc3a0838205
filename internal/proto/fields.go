package proto

import (
	"fmt"
	"math"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names shared by client and server.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldUserID       = "user_id"
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldDescriptor   = "descriptor"
	FieldMatched      = "matched"
	FieldDistance     = "distance"
	FieldUpdated      = "updated"
	FieldEnrolled     = "enrolled"
	FieldOK           = "ok"
	FieldVersion      = "version"
	FieldStatus       = "status"
	FieldID           = "id"
	FieldSite         = "site"
	FieldURL          = "url"
	FieldCategory     = "category"
	FieldEntry        = "entry"
	FieldEntries      = "entries"
)

// String returns the string field key of s, or "" when absent or not a
// string.
func String(s *structpb.Struct, key string) string {
	if v := s.GetFields()[key]; v != nil {
		return v.GetStringValue()
	}
	return ""
}

// OptionalString is String for fields whose absence matters: it returns nil
// when key is missing and a pointer to the value (possibly "") otherwise.
func OptionalString(s *structpb.Struct, key string) *string {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil
	}
	str := v.GetStringValue()
	return &str
}

// Structs returns the struct elements of the list field key. Non-struct
// elements are skipped.
func Structs(s *structpb.Struct, key string) []*structpb.Struct {
	v := s.GetFields()[key]
	if v == nil {
		return nil
	}
	var out []*structpb.Struct
	for _, item := range v.GetListValue().GetValues() {
		if st := item.GetStructValue(); st != nil {
			out = append(out, st)
		}
	}
	return out
}

func Bool(s *structpb.Struct, key string) bool {
	if v := s.GetFields()[key]; v != nil {
		return v.GetBoolValue()
	}
	return false
}

func Number(s *structpb.Struct, key string) float64 {
	if v := s.GetFields()[key]; v != nil {
		return v.GetNumberValue()
	}
	return 0
}

// Descriptor reads a descriptor sent either as a list or as a struct keyed
// by coordinate index. A missing field yields a nil descriptor.
func Descriptor(s *structpb.Struct, key string) (biometrics.Descriptor, error) {
	v := s.GetFields()[key]
	if v == nil {
		return nil, nil
	}
	switch v.GetKind().(type) {
	case *structpb.Value_ListValue, *structpb.Value_StructValue, *structpb.Value_NullValue:
		return biometrics.FromValue(v.AsInterface())
	default:
		return nil, fmt.Errorf("%w: field %q must be a list", biometrics.ErrInvalidDescriptor, key)
	}
}

// DescriptorValue encodes d as a list. Non-finite coordinates become null,
// matching the JSON encoding.
func DescriptorValue(d biometrics.Descriptor) *structpb.Value {
	values := make([]*structpb.Value, len(d))
	for i, x := range d {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			values[i] = structpb.NewNullValue()
			continue
		}
		values[i] = structpb.NewNumberValue(x)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

// NewStruct builds a Struct from plain Go values. *structpb.Value entries
// are used as is.
func NewStruct(fields map[string]any) (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		if pv, ok := v.(*structpb.Value); ok {
			out.Fields[k] = pv
			continue
		}
		pv, err := structpb.NewValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out.Fields[k] = pv
	}
	return out, nil
}
