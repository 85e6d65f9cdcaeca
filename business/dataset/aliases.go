package dataset

import "strings"

// ColumnSpec maps a canonical column name to the header spellings accepted
// for it. Matching is case-insensitive and ignores surrounding whitespace.
type ColumnSpec struct {
	Canonical string
	Aliases   []string
}

var (
	// SubmissionLabelColumn is the prediction column of uploaded files.
	SubmissionLabelColumn = ColumnSpec{
		Canonical: "isFraud",
		Aliases:   []string{"isfraud", "fraudlabel"},
	}

	// ReferenceLabelColumn is the ground-truth column of the held-out dataset.
	ReferenceLabelColumn = ColumnSpec{
		Canonical: "FraudLabel",
		Aliases:   []string{"fraudlabel", "isfraud", "fraud"},
	}

	// TransactionIDColumn optionally aligns submission rows to reference rows.
	TransactionIDColumn = ColumnSpec{
		Canonical: "TransactionID",
		Aliases:   []string{"transactionid"},
	}
)

// Find returns the index of the first header cell matching one of the
// accepted spellings.
func (s ColumnSpec) Find(header []string) (int, bool) {
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for _, alias := range s.Aliases {
			if name == alias {
				return i, true
			}
		}
	}

	return -1, false
}
