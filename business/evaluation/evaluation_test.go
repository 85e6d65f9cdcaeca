package evaluation

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluate_KnownValues(t *testing.T) {
	// tp=2, fp=0, fn=1 -> precision=1, recall=2/3 -> f1=0.8
	actual := []int{1, 0, 1, 1}
	predicted := []int{1, 0, 0, 1}

	report, err := Evaluate(actual, predicted)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if !almostEqual(report.F1, 0.8) {
		t.Errorf("F1 = %v, want 0.8", report.F1)
	}
	if !almostEqual(report.Accuracy, 0.75) {
		t.Errorf("Accuracy = %v, want 0.75", report.Accuracy)
	}
}

func TestEvaluate_EmptyInput(t *testing.T) {
	if _, err := Evaluate(nil, nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Evaluate(nil, nil) error = %v, want ErrEmptyInput", err)
	}
	if _, err := Accuracy([]int{}, []int{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Accuracy empty error = %v, want ErrEmptyInput", err)
	}
	if _, err := F1Score([]int{}, []int{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("F1Score empty error = %v, want ErrEmptyInput", err)
	}
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	if _, err := Evaluate([]int{1, 0}, []int{1}); err == nil {
		t.Error("Evaluate with mismatched lengths should fail")
	}
}

func TestF1Score_ZeroDenominators(t *testing.T) {
	tests := []struct {
		name      string
		actual    []int
		predicted []int
	}{
		{"no positives anywhere", []int{0, 0, 0}, []int{0, 0, 0}},
		{"only false positives", []int{0, 0, 0}, []int{1, 1, 1}},
		{"only false negatives", []int{1, 1, 1}, []int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f1, err := F1Score(tt.actual, tt.predicted)
			if err != nil {
				t.Fatalf("F1Score returned error: %v", err)
			}
			if f1 != 0 {
				t.Errorf("F1Score = %v, want 0", f1)
			}
		})
	}
}

func binarySeqGen() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 1)).SuchThat(func(v []int) bool {
		return len(v) > 0
	})
}

func TestProperty_AccuracyBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("accuracy of a sequence against itself is 1", prop.ForAll(
		func(labels []int) bool {
			acc, err := Accuracy(labels, labels)
			return err == nil && acc == 1
		},
		binarySeqGen(),
	))

	properties.Property("accuracy against the complement is 0", prop.ForAll(
		func(labels []int) bool {
			complement := make([]int, len(labels))
			for i, v := range labels {
				complement[i] = 1 - v
			}
			acc, err := Accuracy(labels, complement)
			return err == nil && acc == 0
		},
		binarySeqGen(),
	))

	properties.Property("accuracy and f1 stay within [0,1]", prop.ForAll(
		func(actual, predicted []int) bool {
			n := len(actual)
			if len(predicted) < n {
				n = len(predicted)
			}
			report, err := Evaluate(actual[:n], predicted[:n])
			if err != nil {
				return false
			}
			return report.Accuracy >= 0 && report.Accuracy <= 1 &&
				report.F1 >= 0 && report.F1 <= 1
		},
		binarySeqGen(),
		binarySeqGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_F1ZeroWithoutTruePositives(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// Whatever fp/fn look like, tp=0 forces f1 to 0.
	properties.Property("f1 is 0 when predictions never hit a positive", prop.ForAll(
		func(labels []int) bool {
			predicted := make([]int, len(labels))
			for i, v := range labels {
				predicted[i] = 1 - v
			}
			f1, err := F1Score(labels, predicted)
			return err == nil && f1 == 0
		},
		binarySeqGen(),
	))

	properties.TestingRun(t)
}
