// Package dataset loads the held-out reference dataset and normalizes
// uploaded prediction files against it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReferenceSet is the ground-truth dataset, loaded once at startup and
// immutable afterwards. Safe for unsynchronized concurrent reads.
type ReferenceSet struct {
	labels  []int
	ids     []string
	idIndex map[string]int
}

// LoadReferenceSet reads the reference dataset from path. The process cannot
// serve uploads without it, so callers treat any error as fatal.
func LoadReferenceSet(path string) (*ReferenceSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference dataset: %w", err)
	}
	defer f.Close()

	ref, err := ParseReferenceSet(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference dataset %s: %w", path, err)
	}

	return ref, nil
}

// ParseReferenceSet parses CSV ground truth from r. The label column is
// required; a TransactionID column is optional and enables row alignment
// for submissions that carry it too.
func ParseReferenceSet(r io.Reader) (*ReferenceSet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("reference dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reference header: %w", err)
	}

	labelIdx, ok := ReferenceLabelColumn.Find(header)
	if !ok {
		return nil, &MissingColumnError{Spec: ReferenceLabelColumn}
	}

	idIdx, hasID := TransactionIDColumn.Find(header)

	ref := &ReferenceSet{}
	if hasID {
		ref.idIndex = make(map[string]int)
	}

	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read reference row %d: %w", row+1, err)
		}
		row++

		raw := strings.TrimSpace(record[labelIdx])
		label, err := strconv.Atoi(raw)
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("reference row %d has non-binary label %q", row, raw)
		}
		ref.labels = append(ref.labels, label)

		if hasID {
			id := strings.TrimSpace(record[idIdx])
			ref.idIndex[id] = len(ref.labels) - 1
			ref.ids = append(ref.ids, id)
		}
	}

	if len(ref.labels) == 0 {
		return nil, errors.New("reference dataset contains no data rows")
	}

	return ref, nil
}

// Len returns the number of reference rows.
func (r *ReferenceSet) Len() int {
	return len(r.labels)
}

// Labels returns the ground-truth label sequence. Callers must not modify it.
func (r *ReferenceSet) Labels() []int {
	return r.labels
}

// HasTransactionIDs reports whether the dataset carries an identifier column.
func (r *ReferenceSet) HasTransactionIDs() bool {
	return r.idIndex != nil
}
