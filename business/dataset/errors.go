package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyFile means the upload parsed to zero data rows.
var ErrEmptyFile = errors.New("uploaded file contains no data rows")

// MissingColumnError means no header cell matched any accepted spelling of a
// required column.
type MissingColumnError struct {
	Spec ColumnSpec
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q (accepted headers: %s)",
		e.Spec.Canonical, strings.Join(e.Spec.Aliases, ", "))
}

// InvalidValueError reports a label cell that is not a literal 0 or 1.
// Row is 1-based over data rows.
type InvalidValueError struct {
	Row   int
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid prediction value %q at row %d: must be 0 or 1", e.Value, e.Row)
}

// MissingPredictionError reports a reference transaction the submission
// never predicted.
type MissingPredictionError struct {
	TransactionID string
}

func (e *MissingPredictionError) Error() string {
	return fmt.Sprintf("no prediction supplied for transaction %q", e.TransactionID)
}

// RowCountMismatchError reports a submission whose prediction count differs
// from the reference dataset length.
type RowCountMismatchError struct {
	Expected int
	Actual   int
}

func (e *RowCountMismatchError) Error() string {
	return fmt.Sprintf("expected %d predictions, got %d", e.Expected, e.Actual)
}

// IsClientError reports whether err is one of the submission-format errors a
// caller can fix, as opposed to an internal failure.
func IsClientError(err error) bool {
	var (
		missingColumn *MissingColumnError
		invalidValue  *InvalidValueError
		missingPred   *MissingPredictionError
		rowCountErr   *RowCountMismatchError
	)

	return errors.Is(err, ErrEmptyFile) ||
		errors.As(err, &missingColumn) ||
		errors.As(err, &invalidValue) ||
		errors.As(err, &missingPred) ||
		errors.As(err, &rowCountErr)
}
