// Package values implements the tagged value that flows through the boxed
// kernel calling convention: every kernel argument and result is a Value
// carrying one of a closed list of variants (scalars, strings, tensors and
// homogeneous lists thereof).
//
// Extractors are total: they either return the payload or a *TypeMismatchError.
// They return copies of owned payloads (lists, strings); tensor payloads are
// shared by reference, never copied.
package values

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/godispatch/godispatch/types/tensors"
)

// Tag identifies a Value's variant.
type Tag uint8

//go:generate go tool enumer -type=Tag -trimprefix=Tag -output=gen_tag_enumer.go values.go

const (
	TagNone Tag = iota
	TagTensor
	TagDouble
	TagInt
	TagBool
	TagString
	TagIntList
	TagDoubleList
	TagTensorList
)

// Value is a tagged union over the variants listed in Tag. The zero Value is
// None. Values are compared by variant and payload; list and string payloads
// are owned (deep-copied in and out), tensor payloads are shared by
// reference.
type Value struct {
	tag     Tag
	payload any
}

// List is the uniform argument and result sequence of boxed kernels.
type List []Value

// TypeMismatchError reports an extractor or boxing adapter seeing a variant
// other than the one it expected.
type TypeMismatchError struct {
	Expected, Got Tag
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

func mismatch(expected, got Tag) error {
	return errors.WithStack(&TypeMismatchError{Expected: expected, Got: got})
}

// None returns the None value.
func None() Value {
	return Value{tag: TagNone}
}

// NewTensor wraps a tensor. The tensor is shared, not copied.
func NewTensor(t *tensors.Tensor) Value {
	return Value{tag: TagTensor, payload: t}
}

// NewDouble wraps a float64.
func NewDouble(v float64) Value {
	return Value{tag: TagDouble, payload: v}
}

// NewInt wraps an int64.
func NewInt(v int64) Value {
	return Value{tag: TagInt, payload: v}
}

// NewBool wraps a bool.
func NewBool(v bool) Value {
	return Value{tag: TagBool, payload: v}
}

// NewString wraps a string.
func NewString(v string) Value {
	return Value{tag: TagString, payload: v}
}

// NewIntList wraps a copy of the given int64 slice.
func NewIntList(v []int64) Value {
	return Value{tag: TagIntList, payload: slices.Clone(v)}
}

// NewDoubleList wraps a copy of the given float64 slice.
func NewDoubleList(v []float64) Value {
	return Value{tag: TagDoubleList, payload: slices.Clone(v)}
}

// NewTensorList wraps a copy of the given slice; the tensors themselves are
// shared.
func NewTensorList(v []*tensors.Tensor) Value {
	return Value{tag: TagTensorList, payload: slices.Clone(v)}
}

// Tag returns the value's variant.
func (v Value) Tag() Tag { return v.tag }

// IsNone reports whether the value is the None variant.
func (v Value) IsNone() bool { return v.tag == TagNone }

// IsTensor reports whether the value holds a tensor.
func (v Value) IsTensor() bool { return v.tag == TagTensor }

// IsDouble reports whether the value holds a float64.
func (v Value) IsDouble() bool { return v.tag == TagDouble }

// IsInt reports whether the value holds an int64.
func (v Value) IsInt() bool { return v.tag == TagInt }

// IsBool reports whether the value holds a bool.
func (v Value) IsBool() bool { return v.tag == TagBool }

// IsString reports whether the value holds a string.
func (v Value) IsString() bool { return v.tag == TagString }

// IsIntList reports whether the value holds an int64 list.
func (v Value) IsIntList() bool { return v.tag == TagIntList }

// IsDoubleList reports whether the value holds a float64 list.
func (v Value) IsDoubleList() bool { return v.tag == TagDoubleList }

// IsTensorList reports whether the value holds a tensor list.
func (v Value) IsTensorList() bool { return v.tag == TagTensorList }

// ToTensor returns the tensor payload (shared, by reference).
func (v Value) ToTensor() (*tensors.Tensor, error) {
	if v.tag != TagTensor {
		return nil, mismatch(TagTensor, v.tag)
	}
	return v.payload.(*tensors.Tensor), nil
}

// ToDouble returns the float64 payload.
func (v Value) ToDouble() (float64, error) {
	if v.tag != TagDouble {
		return 0, mismatch(TagDouble, v.tag)
	}
	return v.payload.(float64), nil
}

// ToInt returns the int64 payload.
func (v Value) ToInt() (int64, error) {
	if v.tag != TagInt {
		return 0, mismatch(TagInt, v.tag)
	}
	return v.payload.(int64), nil
}

// ToBool returns the bool payload.
func (v Value) ToBool() (bool, error) {
	if v.tag != TagBool {
		return false, mismatch(TagBool, v.tag)
	}
	return v.payload.(bool), nil
}

// ToString returns the string payload.
func (v Value) ToString() (string, error) {
	if v.tag != TagString {
		return "", mismatch(TagString, v.tag)
	}
	return v.payload.(string), nil
}

// ToIntList returns a copy of the int64 list payload.
func (v Value) ToIntList() ([]int64, error) {
	if v.tag != TagIntList {
		return nil, mismatch(TagIntList, v.tag)
	}
	return slices.Clone(v.payload.([]int64)), nil
}

// ToDoubleList returns a copy of the float64 list payload.
func (v Value) ToDoubleList() ([]float64, error) {
	if v.tag != TagDoubleList {
		return nil, mismatch(TagDoubleList, v.tag)
	}
	return slices.Clone(v.payload.([]float64)), nil
}

// ToTensorList returns a copy of the tensor list payload; the tensors are
// shared.
func (v Value) ToTensorList() ([]*tensors.Tensor, error) {
	if v.tag != TagTensorList {
		return nil, mismatch(TagTensorList, v.tag)
	}
	return slices.Clone(v.payload.([]*tensors.Tensor)), nil
}

// Clone returns a copy of the value: list payloads are deep-copied, tensor
// payloads stay shared.
func (v Value) Clone() Value {
	switch v.tag {
	case TagIntList:
		return NewIntList(v.payload.([]int64))
	case TagDoubleList:
		return NewDoubleList(v.payload.([]float64))
	case TagTensorList:
		return NewTensorList(v.payload.([]*tensors.Tensor))
	default:
		return v
	}
}

// Equal compares variant and payload. Tensors compare by identity, since
// they are shared by reference.
func (v Value) Equal(other Value) bool {
	if v.tag != other.tag {
		return false
	}
	switch v.tag {
	case TagNone:
		return true
	case TagIntList:
		return slices.Equal(v.payload.([]int64), other.payload.([]int64))
	case TagDoubleList:
		return slices.Equal(v.payload.([]float64), other.payload.([]float64))
	case TagTensorList:
		return slices.Equal(v.payload.([]*tensors.Tensor), other.payload.([]*tensors.Tensor))
	default:
		return v.payload == other.payload
	}
}

// DebugString renders the variant and payload, e.g. `Int(7)` or
// `Tensor(shape=[2, 3], backend=CPU)`.
func (v Value) DebugString() string {
	switch v.tag {
	case TagNone:
		return "None"
	case TagTensor:
		return "Tensor(" + v.payload.(*tensors.Tensor).DebugString() + ")"
	case TagDouble:
		return fmt.Sprintf("Double(%g)", v.payload.(float64))
	case TagInt:
		return fmt.Sprintf("Int(%d)", v.payload.(int64))
	case TagBool:
		return fmt.Sprintf("Bool(%t)", v.payload.(bool))
	case TagString:
		return fmt.Sprintf("String(%q)", v.payload.(string))
	case TagIntList:
		var sb strings.Builder
		sb.WriteString("IntList([")
		for i, x := range v.payload.([]int64) {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d", x)
		}
		sb.WriteString("])")
		return sb.String()
	case TagDoubleList:
		var sb strings.Builder
		sb.WriteString("DoubleList([")
		for i, x := range v.payload.([]float64) {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", x)
		}
		sb.WriteString("])")
		return sb.String()
	case TagTensorList:
		var sb strings.Builder
		sb.WriteString("TensorList([")
		for i, t := range v.payload.([]*tensors.Tensor) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.DebugString())
		}
		sb.WriteString("])")
		return sb.String()
	}
	return fmt.Sprintf("Value(%d)", v.tag)
}

// DebugString renders the list as "[v1, v2, …]" using each value's
// DebugString.
func (l List) DebugString() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.DebugString()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Tensors collects the tensors reachable from the list: Tensor values and,
// flattened in order, TensorList values.
func (l List) Tensors() []*tensors.Tensor {
	var ts []*tensors.Tensor
	for _, v := range l {
		switch v.tag {
		case TagTensor:
			ts = append(ts, v.payload.(*tensors.Tensor))
		case TagTensorList:
			ts = append(ts, v.payload.([]*tensors.Tensor)...)
		}
	}
	return ts
}
