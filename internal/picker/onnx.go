package picker

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/mktide/quakepick/internal/model"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// Config holds the settings needed to load the ONNX picker model.
type Config struct {
	ModelPath string

	// LibraryPath locates the ONNX Runtime shared library. Empty means
	// libonnxruntime.so next to the model file.
	LibraryPath string

	// WindowSamples is used when the model declares a dynamic window
	// dimension; a static dimension in the model always wins.
	WindowSamples int
}

// ONNXEngine runs the picker model through ONNX Runtime. The model takes
// one [1, window, 3] float32 waveform tensor and produces a [1, window, 3]
// phase tensor (P, S, noise probabilities) plus, optionally, a
// [1, window, k] detection-mask tensor.
type ONNXEngine struct {
	session   *ort.DynamicAdvancedSession
	inputName string
	window    int
	maskWidth int // 0 when the model has no mask output
}

var _ Engine = (*ONNXEngine)(nil)

// NewONNX loads the model, validates its tensor layout, and creates an
// inference session. All failures wrap ErrModelLoad.
func NewONNX(cfg Config) (*ONNXEngine, error) {
	libPath := cfg.LibraryPath
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(cfg.ModelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("%w: initialize runtime: %v", ErrModelLoad, err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelLoad, cfg.ModelPath, err)
	}

	if len(inputs) != 1 {
		return nil, fmt.Errorf("%w: model has %d inputs, want 1", ErrModelLoad, len(inputs))
	}
	in := inputs[0]
	if len(in.Dimensions) != 3 || in.Dimensions[2] != 3 {
		return nil, fmt.Errorf("%w: input shape %v, want [batch, window, 3]", ErrModelLoad, in.Dimensions)
	}

	window := int(in.Dimensions[1])
	if window <= 0 {
		window = cfg.WindowSamples
		if window <= 0 {
			return nil, fmt.Errorf("%w: dynamic window and no configured window length", ErrModelLoad)
		}
		slog.Debug("model window is dynamic, using configured length", "samples", window)
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: model has no outputs", ErrModelLoad)
	}
	phase := outputs[0]
	if len(phase.Dimensions) != 3 || phase.Dimensions[2] != 3 {
		return nil, fmt.Errorf("%w: phase output shape %v, want [batch, window, 3]", ErrModelLoad, phase.Dimensions)
	}

	outputNames := []string{phase.Name}
	maskWidth := 0
	if len(outputs) > 1 {
		mask := outputs[1]
		if len(mask.Dimensions) != 3 {
			return nil, fmt.Errorf("%w: mask output shape %v, want rank 3", ErrModelLoad, mask.Dimensions)
		}
		maskWidth = int(mask.Dimensions[2])
		if maskWidth <= 0 {
			maskWidth = 1
		}
		outputNames = append(outputNames, mask.Name)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: session options: %v", ErrModelLoad, err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, []string{in.Name}, outputNames, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %v", ErrModelLoad, err)
	}

	return &ONNXEngine{
		session:   session,
		inputName: in.Name,
		window:    window,
		maskWidth: maskWidth,
	}, nil
}

// WindowSamples returns the fixed input window length in samples.
func (e *ONNXEngine) WindowSamples() int {
	return e.window
}

// Annotate normalizes the stream per channel, runs the model once, and
// splits the outputs into P, S and mask curves. Run failures wrap
// ErrInference.
func (e *ONNXEngine) Annotate(st model.Stream) (model.Curves, error) {
	if err := checkStream(st, e.window); err != nil {
		return model.Curves{}, fmt.Errorf("%w: %v", ErrInference, err)
	}
	slog.Debug("annotating stream", "window", e.window, "sample_rate", st[0].SampleRate)

	channels := make([][]float32, len(st))
	for i, seg := range st {
		channels[i] = zscore(seg.Data)
	}

	w := int64(e.window)
	tIn, err := ort.NewTensor(ort.NewShape(1, w, 3), interleave(channels))
	if err != nil {
		return model.Curves{}, fmt.Errorf("%w: input tensor: %v", ErrInference, err)
	}
	defer tIn.Destroy()

	tPhase, err := ort.NewEmptyTensor[float32](ort.NewShape(1, w, 3))
	if err != nil {
		return model.Curves{}, fmt.Errorf("%w: phase tensor: %v", ErrInference, err)
	}
	defer tPhase.Destroy()

	outs := []ort.Value{tPhase}
	var tMask *ort.Tensor[float32]
	if e.maskWidth > 0 {
		tMask, err = ort.NewEmptyTensor[float32](ort.NewShape(1, w, int64(e.maskWidth)))
		if err != nil {
			return model.Curves{}, fmt.Errorf("%w: mask tensor: %v", ErrInference, err)
		}
		defer tMask.Destroy()
		outs = append(outs, tMask)
	}

	if err := e.session.Run([]ort.Value{tIn}, outs); err != nil {
		return model.Curves{}, fmt.Errorf("%w: %v", ErrInference, err)
	}

	// Copy data out before the tensors are destroyed.
	phase := make([]float32, len(tPhase.GetData()))
	copy(phase, tPhase.GetData())

	curves := model.Curves{
		P:          column(phase, 3, 0),
		S:          column(phase, 3, 1),
		SampleRate: st[0].SampleRate,
		StartTime:  st[0].StartTime,
	}
	if tMask != nil {
		mask := make([]float32, len(tMask.GetData()))
		copy(mask, tMask.GetData())
		curves.Mask = column(mask, e.maskWidth, 0)
	}
	return curves, nil
}

// Close releases the ONNX session resources.
func (e *ONNXEngine) Close() error {
	return e.session.Destroy()
}
