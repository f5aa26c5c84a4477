package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Classifier runs one model over one input. Text classifiers expect a string; image classifiers expect a string
// path to an image file. Anything else is ErrInvalidInputType.
type Classifier interface {
	// Name the display name of the model, as shown to the user.
	Name() string
	// Kind what kind of input the classifier expects.
	Kind() ModelKind
	// Process runs inference over `input`. Blocks until the pipeline responds.
	Process(ctx context.Context, input any) (*Result, error)
}

// Loader is implemented by classifiers which can load their pipeline ahead of the first Process call.
type Loader interface {
	Load() error
}

// RuntimeReporter is implemented by classifiers which measure how long the last Process call took.
type RuntimeReporter interface {
	// LastRuntime returns false if nothing has been measured yet.
	LastRuntime() (time.Duration, bool)
}

type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Result is what a classifier returns: a single prediction for text, the best K predictions for images, in the order
// of descending score.
type Result struct {
	Predictions []Prediction
}

// Top returns the best prediction. The result is never empty when it comes from a classifier.
func (r *Result) Top() Prediction {
	if len(r.Predictions) == 0 {
		return Prediction{}
	}
	return r.Predictions[0]
}

func (r *Result) String() string {
	if len(r.Predictions) == 1 {
		return formatPrediction(r.Predictions[0])
	}
	var buf strings.Builder
	for i, prediction := range r.Predictions {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "%d. %s", i+1, formatPrediction(prediction))
	}
	return buf.String()
}

func formatPrediction(p Prediction) string {
	return fmt.Sprintf("%s (score: %.4f)", p.Label, p.Score)
}
