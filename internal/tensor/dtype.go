// Package tensor provides the strided-array storage core for stag:
// reference-counted flat buffers with copy-on-write, logical shapes with
// per-axis strides, and offset iteration that honors broadcast (zero)
// strides.
package tensor

// DType is a constraint for supported tensor element types.
// It uses Go generics to ensure compile-time type safety.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		panic("unknown data type")
	}
}

// IsFloat reports whether the data type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// DataTypeOf returns the DataType corresponding to the generic type T.
func DataTypeOf[T DType]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		panic("unsupported type")
	}
}
