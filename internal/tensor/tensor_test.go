package tensor

import "testing"

func TestAllocateStorageOnce(t *testing.T) {
	x := New("x", NewTensorShape([]int{1, 10}, NC), Float32)
	if x.Allocated() {
		t.Fatal("tensor should start unallocated")
	}
	if err := AllocateStorage[float32](x); err != nil {
		t.Fatalf("first allocation failed: %v", err)
	}
	if !x.Allocated() {
		t.Fatal("tensor should be allocated")
	}
	if err := AllocateStorage[float32](x); err == nil {
		t.Fatal("second allocation should fail")
	}
}

func TestAllocateStorageTypeMismatch(t *testing.T) {
	x := New("x", NewTensorShape([]int{1, 10}, NC), Float32)
	if err := AllocateStorage[float64](x); err == nil {
		t.Fatal("allocating float64 storage for a float32 tensor should fail")
	}
}

func TestStorageZeroInitialized(t *testing.T) {
	x := New("x", NewTensorShapeAligned([]int{1, 10}, NC, 8), Float32)
	if err := AllocateStorage[float32](x); err != nil {
		t.Fatalf("allocation failed: %v", err)
	}
	data := Data[float32](x)
	if len(data) != 16 {
		t.Fatalf("padded storage should hold 16 elements, got %d", len(data))
	}
	for i, v := range data {
		if v != 0 {
			t.Fatalf("storage[%d] = %v, want 0", i, v)
		}
	}
}

func TestFillDataSkipsPadding(t *testing.T) {
	x := New("x", NewTensorShapeAligned([]int{2, 10}, NC, 8), Float32)
	if err := AllocateStorage[float32](x); err != nil {
		t.Fatalf("allocation failed: %v", err)
	}
	values := make([]float32, 20)
	for i := range values {
		values[i] = float32(i + 1)
	}
	if err := FillData(x, values); err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	data := Data[float32](x)
	// Row 0 occupies [0,10), row 1 [16,26); padding stays zero.
	if data[9] != 10 || data[16] != 11 || data[25] != 20 {
		t.Errorf("row placement wrong: %v", data)
	}
	for i := 10; i < 16; i++ {
		if data[i] != 0 {
			t.Errorf("padding element %d = %v, want 0", i, data[i])
		}
	}
}

func TestFillDataLengthMismatch(t *testing.T) {
	x := New("x", NewTensorShape([]int{1, 10}, NC), Float32)
	if err := AllocateStorage[float32](x); err != nil {
		t.Fatalf("allocation failed: %v", err)
	}
	if err := FillData(x, []float32{1, 2, 3}); err == nil {
		t.Fatal("fill with wrong length should fail")
	}
}

func TestDataBeforeAllocationPanics(t *testing.T) {
	x := New("x", NewTensorShape([]int{1, 10}, NC), Float32)
	defer func() {
		if recover() == nil {
			t.Fatal("reading unallocated storage should panic")
		}
	}()
	Data[float32](x)
}

func TestTypedViewMismatchPanics(t *testing.T) {
	x := New("x", NewTensorShape([]int{1, 4}, NC), Int32)
	if err := AllocateStorage[int32](x); err != nil {
		t.Fatalf("allocation failed: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("AsFloat32 on an int32 tensor should panic")
		}
	}()
	x.AsFloat32()
}
