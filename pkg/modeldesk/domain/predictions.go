package domain

import (
	"fmt"
	"math"
	"sort"
)

// validatePredictions sorts predictions by descending score and makes sure the scores are probabilities.
func validatePredictions(predictions []Prediction) ([]Prediction, error) {
	if len(predictions) == 0 {
		return nil, wrapError(ErrInference, errNoPredictions)
	}
	for _, prediction := range predictions {
		if math.IsNaN(prediction.Score) || prediction.Score < 0 || prediction.Score > 1 {
			return nil, fmt.Errorf("%w: score %v of %q is outside [0, 1]", ErrInference, prediction.Score, prediction.Label)
		}
	}
	sorted := make([]Prediction, len(predictions))
	copy(sorted, predictions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted, nil
}
