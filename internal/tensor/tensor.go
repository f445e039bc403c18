package tensor

import (
	"fmt"
	"unsafe"
)

// Tensor is a named, shaped, typed n-dimensional array over one flat storage
// buffer. Storage is allocated at most once; until then the tensor is a
// shape-only description. Allocation zero-initializes the whole padded
// region, so reductions that sweep across alignment padding contribute
// zero.
type Tensor struct {
	name  string
	shape TensorShape
	dtype DataType
	data  []byte // nil until AllocateStorage
}

// New creates an unallocated tensor.
func New(name string, shape TensorShape, dtype DataType) *Tensor {
	return &Tensor{name: name, shape: shape, dtype: dtype}
}

// Name returns the tensor's name, unique within its workspace.
func (t *Tensor) Name() string { return t.name }

// Shape returns the tensor's shape.
func (t *Tensor) Shape() TensorShape { return t.shape }

// DataType returns the element-type tag.
func (t *Tensor) DataType() DataType { return t.dtype }

// NDims returns the number of dimensions.
func (t *Tensor) NDims() int { return t.shape.NDims() }

// Dim returns the logical size of dimension i.
func (t *Tensor) Dim(i int) int { return t.shape.Dim(i) }

// Allocated reports whether storage has been allocated.
func (t *Tensor) Allocated() bool { return t.data != nil }

// Bytes returns the raw storage buffer.
// Fails if storage has not been allocated.
func (t *Tensor) Bytes() []byte {
	if t.data == nil {
		panic(fmt.Sprintf("tensor %q: storage not allocated", t.name))
	}
	return t.data
}

// AllocateStorage allocates the tensor's padded storage buffer for element
// type T. It fails if storage already exists or if T does not match the
// tensor's declared element type.
func AllocateStorage[T DType](t *Tensor) error {
	if t.data != nil {
		return fmt.Errorf("tensor %q: storage already allocated", t.name)
	}
	if dt := inferDataType[T](); dt != t.dtype {
		return fmt.Errorf("tensor %q: storage type %s does not match declared type %s",
			t.name, dt, t.dtype)
	}
	t.data = make([]byte, t.shape.StorageSize()*t.dtype.Size())
	return nil
}

// Data returns a typed view over the padded storage buffer (zero-copy).
// Mutations through the slice mutate the tensor.
func Data[T DType](t *Tensor) []T {
	if dt := inferDataType[T](); dt != t.dtype {
		panic(fmt.Sprintf("tensor %q: dtype is %s, not %s", t.name, t.dtype, dt))
	}
	data := t.Bytes()
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), t.shape.StorageSize())
}

// FillData copies values into storage row by row, skipping alignment
// padding. len(values) must equal the logical element count.
func FillData[T DType](t *Tensor, values []T) error {
	if len(values) != t.shape.NumElements() {
		return fmt.Errorf("tensor %q: fill length %d does not match logical size %d",
			t.name, len(values), t.shape.NumElements())
	}
	dst := Data[T](t)
	rowLen := t.shape.Dim(t.NDims() - 1)
	rowStride := rowLen + t.shape.Padding()
	for row := 0; row*rowLen < len(values); row++ {
		copy(dst[row*rowStride:], values[row*rowLen:(row+1)*rowLen])
	}
	return nil
}

// AsFloat32 interprets storage as []float32.
// Fails if the element type is not Float32.
func (t *Tensor) AsFloat32() []float32 { return Data[float32](t) }

// AsFloat64 interprets storage as []float64.
// Fails if the element type is not Float64.
func (t *Tensor) AsFloat64() []float64 { return Data[float64](t) }

// AsInt32 interprets storage as []int32.
// Fails if the element type is not Int32.
func (t *Tensor) AsInt32() []int32 { return Data[int32](t) }

// AsInt64 interprets storage as []int64.
// Fails if the element type is not Int64.
func (t *Tensor) AsInt64() []int64 { return Data[int64](t) }

// String renders the tensor as "name (shape) dtype".
func (t *Tensor) String() string {
	return fmt.Sprintf("%s %s %s", t.name, t.shape, t.dtype)
}
