package tensor

// Strided views layer multi-dimensional indexing over one flat buffer.
// They replace raw pointer arithmetic at kernel boundaries: the stride of
// the innermost dimension includes alignment padding, so a view built from
// a padded tensor addresses the same bytes the hardware mapping does.
// Indexing is bounds-checked by the underlying slice.

// View2 indexes a flat buffer as [row][col], where rowStride is the padded
// column count.
type View2[T DType] struct {
	data      []T
	rowStride int
}

// NewView2 creates a 2-D view with the given padded row stride.
func NewView2[T DType](data []T, rowStride int) View2[T] {
	return View2[T]{data: data, rowStride: rowStride}
}

// At returns the element at [i][j].
func (v View2[T]) At(i, j int) T { return v.data[i*v.rowStride+j] }

// Set stores x at [i][j].
func (v View2[T]) Set(i, j int, x T) { v.data[i*v.rowStride+j] = x }

// Row returns the storage slice for row i, padding included.
func (v View2[T]) Row(i int) []T {
	return v.data[i*v.rowStride : (i+1)*v.rowStride]
}

// View3 indexes a flat buffer as [row][col][chan], where chanStride is the
// padded channel count.
type View3[T DType] struct {
	data       []T
	cols       int
	chanStride int
}

// NewView3 creates a 3-D view over cols columns with the given padded
// channel stride.
func NewView3[T DType](data []T, cols, chanStride int) View3[T] {
	return View3[T]{data: data, cols: cols, chanStride: chanStride}
}

// At returns the element at [r][c][k].
func (v View3[T]) At(r, c, k int) T {
	return v.data[(r*v.cols+c)*v.chanStride+k]
}

// Set stores x at [r][c][k].
func (v View3[T]) Set(r, c, k int, x T) {
	v.data[(r*v.cols+c)*v.chanStride+k] = x
}

// Chans returns the channel storage slice at pixel [r][c], padding
// included.
func (v View3[T]) Chans(r, c int) []T {
	base := (r*v.cols + c) * v.chanStride
	return v.data[base : base+v.chanStride]
}

// View4 indexes a flat buffer as [n][row][col][chan].
type View4[T DType] struct {
	data       []T
	rows       int
	cols       int
	chanStride int
}

// NewView4 creates a 4-D view with the given padded channel stride.
func NewView4[T DType](data []T, rows, cols, chanStride int) View4[T] {
	return View4[T]{data: data, rows: rows, cols: cols, chanStride: chanStride}
}

// At returns the element at [n][r][c][k].
func (v View4[T]) At(n, r, c, k int) T {
	return v.data[((n*v.rows+r)*v.cols+c)*v.chanStride+k]
}

// Set stores x at [n][r][c][k].
func (v View4[T]) Set(n, r, c, k int, x T) {
	v.data[((n*v.rows+r)*v.cols+c)*v.chanStride+k] = x
}

// Sub returns the 3-D view for batch entry n.
func (v View4[T]) Sub(n int) View3[T] {
	size := v.rows * v.cols * v.chanStride
	return View3[T]{
		data:       v.data[n*size : (n+1)*size],
		cols:       v.cols,
		chanStride: v.chanStride,
	}
}
