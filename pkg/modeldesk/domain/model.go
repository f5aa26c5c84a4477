package domain

import "kgeyst.com/modeldesk/pkg/common"

type ModelKind int

const (
	// ModelKindText the model classifies a piece of text
	ModelKindText = ModelKind(iota)
	// ModelKindImage the model classifies an image file
	ModelKindImage
)

func (m ModelKind) String() string {
	switch m {
	case ModelKindText:
		return "text"
	case ModelKindImage:
		return "image"
	default:
		return "unknown"
	}
}

const (
	ModelNameTextToSentiment     = "Text-to-Sentiment"
	ModelNameImageClassification = "Image Classification"
)

// ClassifierFactory constructs a fresh classifier for the descriptor. It shouldn't be expensive: pipelines are
// loaded lazily on first use.
type ClassifierFactory func(descriptor *ModelDescriptor) (Classifier, error)

// ModelDescriptor describes a model the user can pick. Descriptors are defined at startup and never change.
// DisplayName is what the user sees; ModelID is what the pipeline provider knows the model by.
type ModelDescriptor struct {
	DisplayName string
	Kind        ModelKind
	ModelID     string
	Category    string
	Description string
	Factory     ClassifierFactory
}

// DefaultModelDescriptors returns the two stock models: a sentiment classifier and an image classifier.
// Model IDs can be overridden with ConfigKeyTextModelID and ConfigKeyImageModelID.
func DefaultModelDescriptors(config *common.Config, textFactory, imageFactory ClassifierFactory) []*ModelDescriptor {
	return []*ModelDescriptor{
		{
			DisplayName: ModelNameTextToSentiment,
			Kind:        ModelKindText,
			ModelID:     config.GetStringOrDefault(ConfigKeyTextModelID, DefaultTextModelID),
			Category:    "Text Classification (Sentiment)",
			Description: "Analyzes text sentiment (Positive/Negative)",
			Factory:     textFactory,
		},
		{
			DisplayName: ModelNameImageClassification,
			Kind:        ModelKindImage,
			ModelID:     config.GetStringOrDefault(ConfigKeyImageModelID, DefaultImageModelID),
			Category:    "Vision Transformer (Image)",
			Description: "Classifies images into 1000+ categories",
			Factory:     imageFactory,
		},
	}
}
