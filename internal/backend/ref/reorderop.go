package ref

import (
	"fmt"

	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

type reorderOp struct {
	*graph.ReorderOp
}

// Run copies the input into the target layout.
func (op *reorderOp) Run() {
	in, out := op.GetInput(0), op.GetOutput(0)
	src := in.Shape().Layout()
	switch {
	case src == tensor.NCHW && op.TargetLayout() == tensor.NHWC:
		tensor.ConvertNCHWToNHWC(in, out)
	case src == tensor.NHWC && op.TargetLayout() == tensor.NCHW:
		tensor.ConvertNHWCToNCHW(in, out)
	case (src == tensor.NC || src == tensor.CN) && op.TargetLayout() == src.Transposed():
		tensor.TransposeNC(in, out)
	case (src == tensor.NCHW || src == tensor.NHWC) && op.TargetLayout() == tensor.NC:
		tensor.Flatten(in, out)
	default:
		panic(fmt.Sprintf("operator %q: unsupported reorder %s -> %s",
			op.Name(), src, op.TargetLayout()))
	}
}
