package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pbaille/moodlog/internal/logger"
)

// UnknownLabel is assigned to every text while the model is unavailable
const UnknownLabel = "unknown"

var (
	// ErrUnavailable marks a model that failed to load
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrClassificationFailed marks a failure for one specific text
	ErrClassificationFailed = errors.New("classification failed")
)

// Prediction is the raw output of a model; Label may carry a model-specific prefix
type Prediction struct {
	Label      string
	Confidence float64
}

// Model is the underlying text classifier
type Model interface {
	Predict(ctx context.Context, text string) (Prediction, error)
}

// Loader builds a Model; it is invoked once, when the Adapter is created
type Loader func(ctx context.Context) (Model, error)

// Result is the outcome of one classification call
type Result struct {
	Label      string
	Confidence float64
	Degraded   bool
}

// Adapter wraps a Model and falls back to UnknownLabel forever once loading fails
type Adapter struct {
	model   Model
	loadErr error
}

// NewAdapter loads the model. A load failure is not fatal: the adapter
// enters degraded mode and reports the cause through Err.
func NewAdapter(ctx context.Context, load Loader, log *logger.Logger) *Adapter {
	model, err := load(ctx)
	if err == nil && model == nil {
		err = errors.New("loader returned no model")
	}
	if err != nil {
		log.Warn("emotion classifier unavailable, entries will be labeled unknown", "error", err)
		return &Adapter{loadErr: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	return &Adapter{model: model}
}

// Degraded reports whether the model failed to load
func (a *Adapter) Degraded() bool {
	return a.model == nil
}

// Err returns the load failure, wrapped with ErrUnavailable, or nil
func (a *Adapter) Err() error {
	return a.loadErr
}

// Classify labels text. In degraded mode it returns UnknownLabel with zero
// confidence without touching the model.
func (a *Adapter) Classify(ctx context.Context, text string) (Result, error) {
	if a.model == nil {
		return Result{Label: UnknownLabel, Confidence: 0, Degraded: true}, nil
	}

	p, err := a.model.Predict(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}
	if strings.TrimSpace(p.Label) == "" {
		return Result{}, fmt.Errorf("%w: model returned an empty label", ErrClassificationFailed)
	}

	return Result{Label: strings.TrimSpace(p.Label), Confidence: clamp(p.Confidence)}, nil
}

func clamp(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
