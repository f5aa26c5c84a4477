package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var errNoPredictions = errors.New("pipeline returned no predictions")

type textClassifier struct {
	mutex    sync.Mutex
	name     string
	modelID  string
	provider PipelineProvider
	pipeline TextPipeline
}

// NewTextClassifier creates a sentiment classifier over the provider's text pipeline for `modelID`. The pipeline
// isn't built until the first Process (or Load) call.
func NewTextClassifier(name, modelID string, provider PipelineProvider) Classifier {
	return &textClassifier{
		name:     name,
		modelID:  modelID,
		provider: provider,
	}
}

// NewTextClassifierFactory adapts NewTextClassifier to the registry.
func NewTextClassifierFactory(provider PipelineProvider) ClassifierFactory {
	return func(descriptor *ModelDescriptor) (Classifier, error) {
		return NewTextClassifier(descriptor.DisplayName, descriptor.ModelID, provider), nil
	}
}

func (t *textClassifier) Name() string {
	return t.name
}

func (t *textClassifier) Kind() ModelKind {
	return ModelKindText
}

func (t *textClassifier) Load() error {
	_, err := t.loadPipeline()
	return err
}

func (t *textClassifier) Process(ctx context.Context, input any) (*Result, error) {
	text, ok := input.(string)
	if !ok {
		return nil, newInvalidInputTypeError("text string", input)
	}
	pipeline, err := t.loadPipeline()
	if err != nil {
		return nil, err
	}
	predictions, err := pipeline.ClassifyText(ctx, text)
	if err != nil {
		return nil, wrapError(ErrInference, err)
	}
	predictions, err = validatePredictions(predictions)
	if err != nil {
		return nil, err
	}
	return &Result{Predictions: predictions[:1]}, nil
}

// A failed load isn't remembered: the next call tries again (the model server may have come up in the meantime).
func (t *textClassifier) loadPipeline() (TextPipeline, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.pipeline != nil {
		return t.pipeline, nil
	}
	pipeline, err := t.provider.TextPipeline(t.modelID)
	if err != nil {
		return nil, wrapError(ErrInference, fmt.Errorf("failed to load %s: %w", t.modelID, err))
	}
	t.pipeline = pipeline
	return pipeline, nil
}
