// Command forge builds a small demo graph on a chosen backend, optionally
// loads weights from a local or gs:// file, runs it, and prints the layer
// summaries and output.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"github.com/forge-ml/forge/backend"
	"github.com/forge-ml/forge/backend/vex"
	"github.com/forge-ml/forge/graph"
	"github.com/forge-ml/forge/loader"
	"github.com/forge-ml/forge/tensor"
)

const version = "v0.1.0-dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "print the version and exit")
		backendName = flag.String("backend", "Reference", "backend to run on (Reference or Vex)")
		weightsPath = flag.String("weights", "", "weight file to load (local path or gs:// URL)")
		spadSize    = flag.Int("spad-size", 0, "override the Vex scratchpad capacity in elements")
	)
	klog.InitFlags(nil)
	flag.Parse()

	if *showVersion {
		fmt.Printf("Forge %s\n", version)
		return
	}
	if err := run(backend.Name(*backendName), *weightsPath, *spadSize); err != nil {
		klog.Exitf("forge: %v", err)
	}
}

func run(b backend.Name, weightsPath string, spadSize int) error {
	if b == backend.Vex {
		var err error
		if spadSize > 0 {
			err = vex.InitGlobalsSized(spadSize)
		} else {
			err = vex.InitGlobals()
		}
		if err != nil {
			return err
		}
		defer func() {
			if err := vex.FreeGlobals(); err != nil {
				klog.Errorf("forge: %v", err)
			}
		}()
	}

	ws := graph.NewWorkspace()

	input := tensor.New("input", tensor.NewTensorShapeAligned(
		[]int{1, 10}, tensor.NC, policyAlignment(b)), tensor.Float32)
	if err := tensor.AllocateStorage[float32](input); err != nil {
		return err
	}
	if err := tensor.FillData(input, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}); err != nil {
		return err
	}
	if err := ws.AddTensor(input); err != nil {
		return err
	}

	fc, err := backend.NewOperator(graph.InnerProduct, b, "fc0", ws)
	if err != nil {
		return err
	}
	fcOp := fc.(interface{ SetNumOutputs(int) })
	fcOp.SetNumOutputs(4)
	fc.SetInput(input, 0)
	fc.CreateAllTensors()

	act, err := backend.NewOperator(graph.Relu, b, "relu0", ws)
	if err != nil {
		return err
	}
	act.SetInput(fc.GetOutput(0), 0)
	act.CreateAllTensors()

	sm, err := backend.NewOperator(graph.Softmax, b, "softmax0", ws)
	if err != nil {
		return err
	}
	sm.SetInput(act.GetOutput(0), 0)
	sm.CreateAllTensors()

	ops := []graph.Operator{fc, act, sm}
	for _, op := range ops {
		if !op.Validate() {
			return fmt.Errorf("operator %q failed validation", op.Name())
		}
		if err := graph.AllocateAllTensors[float32](op); err != nil {
			return err
		}
		op.PrintSummary(os.Stdout)
	}

	if weightsPath != "" {
		if err := loadWeights(ws, weightsPath); err != nil {
			return err
		}
	} else {
		if err := fillDemoWeights(fc.GetInput(1)); err != nil {
			return err
		}
	}

	for _, op := range ops {
		op.Run()
	}

	out := sm.GetOutput(0)
	fmt.Printf("output: %v\n", tensor.Data[float32](out)[:out.Dim(1)])
	return nil
}

func policyAlignment(b backend.Name) int {
	if b == backend.Vex {
		return vex.Policy.Alignment
	}
	return 0
}

func loadWeights(ws *graph.Workspace, path string) error {
	if strings.HasPrefix(path, "gs://") {
		local := filepath.Join(os.TempDir(), filepath.Base(path))
		fetched, err := loader.FetchGCS(context.Background(), path, local)
		if err != nil {
			return err
		}
		path = fetched
	}
	f, err := loader.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.PopulateWorkspace(ws)
}

// fillDemoWeights gives the fully-connected layer a deterministic ramp so
// the demo runs without a weight file.
func fillDemoWeights(w *tensor.Tensor) error {
	n := w.Shape().NumElements()
	values := make([]float32, n)
	for i := range values {
		values[i] = float32(i%10) * 0.1
	}
	return tensor.FillData(w, values)
}
