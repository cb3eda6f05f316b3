package values

import (
	"github.com/gomlx/exceptions"

	"github.com/godispatch/godispatch/types/tensors"
)

// Boxable constrains the Go types that map onto Value variants. The mapping
// is closed and bit-exact: each type corresponds to exactly one Tag.
type Boxable interface {
	*tensors.Tensor | float64 | int64 | bool | string |
		[]int64 | []float64 | []*tensors.Tensor
}

// From boxes a strongly-typed argument into its Value variant. Slices are
// copied in, tensors are shared.
func From[T Boxable](x T) Value {
	switch v := any(x).(type) {
	case *tensors.Tensor:
		return NewTensor(v)
	case float64:
		return NewDouble(v)
	case int64:
		return NewInt(v)
	case bool:
		return NewBool(v)
	case string:
		return NewString(v)
	case []int64:
		return NewIntList(v)
	case []float64:
		return NewDoubleList(v)
	case []*tensors.Tensor:
		return NewTensorList(v)
	}
	exceptions.Panicf("values.From: unmapped boxable type %T", x)
	return Value{}
}

// To unboxes a Value into the strongly-typed T, failing with a
// *TypeMismatchError when the variant does not correspond to T.
func To[T Boxable](v Value) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case **tensors.Tensor:
		*p, err = v.ToTensor()
	case *float64:
		*p, err = v.ToDouble()
	case *int64:
		*p, err = v.ToInt()
	case *bool:
		*p, err = v.ToBool()
	case *string:
		*p, err = v.ToString()
	case *[]int64:
		*p, err = v.ToIntList()
	case *[]float64:
		*p, err = v.ToDoubleList()
	case *[]*tensors.Tensor:
		*p, err = v.ToTensorList()
	default:
		exceptions.Panicf("values.To: unmapped boxable type %T", out)
	}
	return out, err
}

// TagFor returns the Value variant corresponding to the boxable type T.
func TagFor[T Boxable]() Tag {
	var zero T
	switch any(zero).(type) {
	case *tensors.Tensor:
		return TagTensor
	case float64:
		return TagDouble
	case int64:
		return TagInt
	case bool:
		return TagBool
	case string:
		return TagString
	case []int64:
		return TagIntList
	case []float64:
		return TagDoubleList
	case []*tensors.Tensor:
		return TagTensorList
	}
	exceptions.Panicf("values.TagFor: unmapped boxable type %T", zero)
	return TagNone
}
