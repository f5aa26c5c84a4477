package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"kgeyst.com/modeldesk/pkg/common"
)

type imageClassifier struct {
	mutex    sync.Mutex
	name     string
	modelID  string
	topK     int
	provider PipelineProvider
	decoder  ImageDecoder
	pipeline ImagePipeline
}

// NewImageClassifier creates a classifier which decodes an image file and returns the `topK` best labels for it.
func NewImageClassifier(name, modelID string, topK int, provider PipelineProvider, decoder ImageDecoder) Classifier {
	if topK <= 0 {
		topK = DefaultImageTopK
	}
	return &imageClassifier{
		name:     name,
		modelID:  modelID,
		topK:     topK,
		provider: provider,
		decoder:  decoder,
	}
}

// NewImageClassifierFactory adapts NewImageClassifier to the registry.
func NewImageClassifierFactory(topK int, provider PipelineProvider, decoder ImageDecoder) ClassifierFactory {
	return func(descriptor *ModelDescriptor) (Classifier, error) {
		return NewImageClassifier(descriptor.DisplayName, descriptor.ModelID, topK, provider, decoder), nil
	}
}

func (i *imageClassifier) Name() string {
	return i.name
}

func (i *imageClassifier) Kind() ModelKind {
	return ModelKindImage
}

func (i *imageClassifier) Load() error {
	_, err := i.loadPipeline()
	return err
}

func (i *imageClassifier) Process(ctx context.Context, input any) (*Result, error) {
	path, ok := input.(string)
	if !ok {
		return nil, newInvalidInputTypeError("image file path", input)
	}
	path = cleanPath(path)
	// Decoding goes first: a bad file shouldn't cost a model load.
	img, err := i.decoder.Decode(path)
	if err != nil {
		return nil, wrapError(ErrInputDecode, err)
	}
	pipeline, err := i.loadPipeline()
	if err != nil {
		return nil, err
	}
	predictions, err := pipeline.ClassifyImage(ctx, img)
	if err != nil {
		return nil, wrapError(ErrInference, err)
	}
	predictions, err = validatePredictions(predictions)
	if err != nil {
		return nil, err
	}
	if len(predictions) > i.topK {
		predictions = predictions[:i.topK]
	}
	return &Result{Predictions: predictions}, nil
}

func (i *imageClassifier) loadPipeline() (ImagePipeline, error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if i.pipeline != nil {
		return i.pipeline, nil
	}
	pipeline, err := i.provider.ImagePipeline(i.modelID)
	if err != nil {
		return nil, wrapError(ErrInference, fmt.Errorf("failed to load %s: %w", i.modelID, err))
	}
	i.pipeline = pipeline
	return pipeline, nil
}

func cleanPath(path string) string {
	path = strings.TrimSpace(path)
	path = common.RemoveDoubleQuotesIfAny(path)
	return common.RemoveSingleQuotesIfAny(path)
}
