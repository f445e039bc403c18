package tensor

import "testing"

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float16, 2},
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
	}
	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestCalcPadding(t *testing.T) {
	tests := []struct {
		value, alignment, pad int
	}{
		{10, 0, 0},
		{10, 8, 6},
		{16, 8, 0},
		{1, 8, 7},
		{7, 4, 1},
	}
	for _, tt := range tests {
		if got := CalcPadding(tt.value, tt.alignment); got != tt.pad {
			t.Errorf("CalcPadding(%d, %d) = %d, want %d", tt.value, tt.alignment, got, tt.pad)
		}
	}
}

func TestShapeSizes(t *testing.T) {
	tests := []struct {
		dims      []int
		layout    DataLayout
		alignment int
		logical   int
		storage   int
	}{
		{[]int{1, 10}, NC, 0, 10, 10},
		{[]int{1, 10}, NC, 8, 10, 16},
		{[]int{2, 10}, NC, 8, 20, 32},
		{[]int{1, 4, 4, 10}, NHWC, 8, 160, 256},
		{[]int{1, 3, 8, 8}, NCHW, 0, 192, 192},
	}
	for _, tt := range tests {
		s := NewTensorShapeAligned(tt.dims, tt.layout, tt.alignment)
		if got := s.NumElements(); got != tt.logical {
			t.Errorf("%s: NumElements() = %d, want %d", s, got, tt.logical)
		}
		if got := s.StorageSize(); got != tt.storage {
			t.Errorf("%s: StorageSize() = %d, want %d", s, got, tt.storage)
		}
	}
}

func TestShapeLayoutRankMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for NC layout with 4 dims")
		}
	}()
	NewTensorShape([]int{1, 2, 3, 4}, NC)
}

func TestShapeInvalidDim(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive dimension")
		}
	}()
	NewTensorShape([]int{1, 0}, NC)
}

func TestShapeEqual(t *testing.T) {
	a := NewTensorShapeAligned([]int{1, 10}, NC, 8)
	b := NewTensorShapeAligned([]int{1, 10}, NC, 8)
	c := NewTensorShapeAligned([]int{1, 10}, NC, 0)
	if !a.Equal(b) {
		t.Errorf("%s should equal %s", a, b)
	}
	if a.Equal(c) {
		t.Errorf("%s should differ from %s (alignment)", a, c)
	}
}

func TestLayoutTransposed(t *testing.T) {
	if NC.Transposed() != CN || CN.Transposed() != NC {
		t.Error("NC and CN must transpose to each other")
	}
}
