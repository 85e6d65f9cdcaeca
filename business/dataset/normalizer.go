package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// NormalizePredictions turns an uploaded CSV stream into a validated label
// sequence positionally comparable to ref. The file is parsed row by row
// rather than buffered whole, so uploads near the size limit stay cheap.
//
// When both the submission and the reference dataset carry a TransactionID
// column, predictions are re-emitted in reference order; otherwise submission
// row order is used as-is and must match the reference length exactly.
func NormalizePredictions(r io.Reader, ref *ReferenceSet) ([]int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	labelIdx, ok := SubmissionLabelColumn.Find(header)
	if !ok {
		return nil, &MissingColumnError{Spec: SubmissionLabelColumn}
	}

	idIdx, hasID := TransactionIDColumn.Find(header)
	align := hasID && ref.HasTransactionIDs()

	var (
		ordered []int
		byID    map[string]int
	)
	if align {
		byID = make(map[string]int, ref.Len())
	}

	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV row %d: %w", row+1, err)
		}
		row++

		raw := strings.TrimSpace(record[labelIdx])
		label, convErr := strconv.Atoi(raw)
		if convErr != nil || (label != 0 && label != 1) {
			return nil, &InvalidValueError{Row: row, Value: record[labelIdx]}
		}

		if align {
			byID[strings.TrimSpace(record[idIdx])] = label
		} else {
			ordered = append(ordered, label)
		}
	}

	if row == 0 {
		return nil, ErrEmptyFile
	}

	if align {
		predictions := make([]int, 0, ref.Len())
		for _, id := range ref.ids {
			label, ok := byID[id]
			if !ok {
				return nil, &MissingPredictionError{TransactionID: id}
			}
			predictions = append(predictions, label)
		}
		return predictions, nil
	}

	if len(ordered) != ref.Len() {
		return nil, &RowCountMismatchError{Expected: ref.Len(), Actual: len(ordered)}
	}

	return ordered, nil
}
