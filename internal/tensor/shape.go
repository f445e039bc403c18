package tensor

import (
	"fmt"
	"strings"
)

// TensorShape describes the extents, layout and alignment padding of a
// tensor. Alignment padding applies to the last logical dimension only: a
// backend with alignment 8 pads a trailing dimension of 10 out to 16
// elements of storage while the logical element count stays at 10.
type TensorShape struct {
	dims      []int
	layout    DataLayout
	alignment int
}

// NewTensorShape creates a shape with no alignment padding.
func NewTensorShape(dims []int, layout DataLayout) TensorShape {
	return NewTensorShapeAligned(dims, layout, 0)
}

// NewTensorShapeAligned creates a shape whose last dimension is padded to a
// multiple of alignment elements. Alignment 0 means no padding.
func NewTensorShapeAligned(dims []int, layout DataLayout, alignment int) TensorShape {
	if len(dims) == 0 {
		panic("tensor shape requires at least one dimension")
	}
	for i, d := range dims {
		if d <= 0 {
			panic(fmt.Sprintf("invalid dimension at index %d: %d (must be > 0)", i, d))
		}
	}
	if want := layout.NDims(); want != 0 && want != len(dims) {
		panic(fmt.Sprintf("layout %s requires %d dimensions, got %d", layout, want, len(dims)))
	}
	if alignment < 0 {
		panic(fmt.Sprintf("invalid alignment %d", alignment))
	}
	return TensorShape{
		dims:      append([]int(nil), dims...),
		layout:    layout,
		alignment: alignment,
	}
}

// NDims returns the number of dimensions.
func (s TensorShape) NDims() int { return len(s.dims) }

// Dim returns the logical size of dimension i.
func (s TensorShape) Dim(i int) int { return s.dims[i] }

// Dims returns a copy of the logical dimension sizes.
func (s TensorShape) Dims() []int { return append([]int(nil), s.dims...) }

// Layout returns the layout tag.
func (s TensorShape) Layout() DataLayout { return s.layout }

// Alignment returns the alignment requirement in elements.
func (s TensorShape) Alignment() int { return s.alignment }

// Padding returns the number of padding elements added to the last logical
// dimension.
func (s TensorShape) Padding() int {
	return CalcPadding(s.dims[len(s.dims)-1], s.alignment)
}

// NumElements returns the logical element count, ignoring padding. This is
// the count numeric code iterates over.
func (s TensorShape) NumElements() int {
	n := 1
	for _, d := range s.dims {
		n *= d
	}
	return n
}

// StorageSize returns the padded element count used for allocation.
func (s TensorShape) StorageSize() int {
	n := 1
	for i, d := range s.dims {
		if i == len(s.dims)-1 {
			d += s.Padding()
		}
		n *= d
	}
	return n
}

// Equal reports whether two shapes have identical dims, layout and
// alignment.
func (s TensorShape) Equal(other TensorShape) bool {
	if len(s.dims) != len(other.dims) || s.layout != other.layout || s.alignment != other.alignment {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != other.dims[i] {
			return false
		}
	}
	return true
}

// String renders the shape as "(d0, d1, ...) layout".
func (s TensorShape) String() string {
	parts := make([]string, len(s.dims))
	for i, d := range s.dims {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("(%s) %s", strings.Join(parts, ", "), s.layout)
}

// CalcPadding returns the number of elements needed to round value up to a
// multiple of alignment. Alignment 0 or 1 never pads.
func CalcPadding(value, alignment int) int {
	if alignment == 0 || value%alignment == 0 {
		return 0
	}
	return alignment - value%alignment
}
