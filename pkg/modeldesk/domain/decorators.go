package domain

import (
	"context"
	"strings"
	"sync"
	"time"
)

// The decorators below wrap a Classifier the way the call site needs it, for example:
//
//	NewTimedClassifier(logging.NewClassifierDecorator(NewInputGuard(classifier), logger))

type inputGuard struct {
	Classifier
}

// NewInputGuard rejects missing or blank input before it reaches the classifier.
func NewInputGuard(wrapped Classifier) Classifier {
	return &inputGuard{Classifier: wrapped}
}

func (g *inputGuard) Process(ctx context.Context, input any) (*Result, error) {
	if input == nil {
		return nil, newInvalidInputTypeError("a value", input)
	}
	if str, ok := input.(string); ok && strings.TrimSpace(str) == "" {
		return nil, ErrEmptyInput
	}
	return g.Classifier.Process(ctx, input)
}

func (g *inputGuard) Load() error {
	return load(g.Classifier)
}

// TimedClassifier remembers how long the most recent Process call took, successful or not.
type TimedClassifier struct {
	Classifier
	mutex       sync.Mutex
	lastRuntime time.Duration
	measured    bool
}

var _ RuntimeReporter = (*TimedClassifier)(nil)

func NewTimedClassifier(wrapped Classifier) *TimedClassifier {
	return &TimedClassifier{Classifier: wrapped}
}

func (t *TimedClassifier) Process(ctx context.Context, input any) (*Result, error) {
	started := time.Now()
	result, err := t.Classifier.Process(ctx, input)
	elapsed := time.Since(started)
	t.mutex.Lock()
	t.lastRuntime = elapsed
	t.measured = true
	t.mutex.Unlock()
	return result, err
}

func (t *TimedClassifier) LastRuntime() (time.Duration, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.lastRuntime, t.measured
}

func (t *TimedClassifier) Load() error {
	return load(t.Classifier)
}

func load(classifier Classifier) error {
	loader, ok := classifier.(Loader)
	if !ok {
		return nil
	}
	return loader.Load()
}
