// Package evaluation computes binary classification metrics over prediction
// sequences. All functions are pure: no state, deterministic output.
package evaluation

import (
	"errors"
	"fmt"
)

var ErrEmptyInput = errors.New("cannot evaluate empty label sequences")

// Report holds the metrics computed for one submission.
type Report struct {
	F1       float64
	Accuracy float64
}

// Accuracy returns the fraction of positions where actual and predicted agree.
// Empty input is an invalid precondition, not a 0/0.
func Accuracy(actual, predicted []int) (float64, error) {
	if len(actual) == 0 {
		return 0, ErrEmptyInput
	}
	if len(actual) != len(predicted) {
		return 0, fmt.Errorf("length mismatch: %d actual vs %d predicted", len(actual), len(predicted))
	}

	matches := 0
	for i := range actual {
		if actual[i] == predicted[i] {
			matches++
		}
	}

	return float64(matches) / float64(len(actual)), nil
}

// F1Score returns the harmonic mean of precision and recall. Precision and
// recall with a zero denominator are defined as 0, and F1 is 0 whenever
// either of them is 0. Historical scores were computed under this convention,
// so it must not change.
func F1Score(actual, predicted []int) (float64, error) {
	if len(actual) == 0 {
		return 0, ErrEmptyInput
	}
	if len(actual) != len(predicted) {
		return 0, fmt.Errorf("length mismatch: %d actual vs %d predicted", len(actual), len(predicted))
	}

	var tp, fp, fn int
	for i := range actual {
		switch {
		case actual[i] == 1 && predicted[i] == 1:
			tp++
		case actual[i] == 0 && predicted[i] == 1:
			fp++
		case actual[i] == 1 && predicted[i] == 0:
			fn++
		}
	}

	precision := 0.0
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}

	recall := 0.0
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}

	if precision == 0 || recall == 0 {
		return 0, nil
	}

	return 2 * precision * recall / (precision + recall), nil
}

// Evaluate computes both metrics in one pass over the inputs.
func Evaluate(actual, predicted []int) (Report, error) {
	f1, err := F1Score(actual, predicted)
	if err != nil {
		return Report{}, err
	}

	accuracy, err := Accuracy(actual, predicted)
	if err != nil {
		return Report{}, err
	}

	return Report{F1: f1, Accuracy: accuracy}, nil
}
