package domain

import (
	"context"
	"image"
)

// PipelineProvider builds inference pipelines for a model identifier. Building one may be expensive (the model is
// downloaded or loaded), that's why classifiers do it lazily and only once.
type PipelineProvider interface {
	TextPipeline(modelID string) (TextPipeline, error)
	ImagePipeline(modelID string) (ImagePipeline, error)
}

// TextPipeline is a text-classification pipeline.
type TextPipeline interface {
	ClassifyText(ctx context.Context, text string) ([]Prediction, error)
}

// ImagePipeline is an image-classification pipeline. Predictions may come in any order and in any amount.
type ImagePipeline interface {
	ClassifyImage(ctx context.Context, img image.Image) ([]Prediction, error)
}

// ImageDecoder turns an image file into an RGB(A) buffer.
type ImageDecoder interface {
	Decode(path string) (image.Image, error)
}
