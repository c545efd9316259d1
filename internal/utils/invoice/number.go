// Package invoice implements the sequential, year-scoped invoice number
// scheme used as transaction identifiers: INV-NNNNN/YY.
package invoice

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	prefix         = "INV-"
	sequenceDigits = 5
)

// YearSuffix derives the 2-digit year suffix from a point in time, e.g. "25".
func YearSuffix(t time.Time) string {
	return fmt.Sprintf("%02d", t.Year()%100)
}

// Format renders a sequence number and year suffix as INV-NNNNN/YY.
func Format(sequence int, yearSuffix string) string {
	return fmt.Sprintf("%s%0*d/%s", prefix, sequenceDigits, sequence, yearSuffix)
}

// Parse extracts the sequence number and year suffix from an invoice number.
// A malformed number stored in the database is a data-integrity defect, so
// callers must treat an error here as fatal rather than recoverable.
func Parse(number string) (int, string, error) {
	rest, ok := strings.CutPrefix(number, prefix)
	if !ok {
		return 0, "", fmt.Errorf("invoice number %q does not start with %q", number, prefix)
	}
	seqStr, suffix, ok := strings.Cut(rest, "/")
	if !ok {
		return 0, "", fmt.Errorf("invoice number %q is missing the year suffix separator", number)
	}
	seq, err := strconv.Atoi(seqStr)
	if err != nil || seq <= 0 {
		return 0, "", fmt.Errorf("invoice number %q has a non-numeric or non-positive sequence segment", number)
	}
	return seq, suffix, nil
}

// Next computes the successor of the most recently allocated number within a
// year suffix. A nil last number starts the sequence at 1.
func Next(last *string, yearSuffix string) (string, error) {
	if last == nil || *last == "" {
		return Format(1, yearSuffix), nil
	}
	seq, suffix, err := Parse(*last)
	if err != nil {
		return "", err
	}
	if suffix != yearSuffix {
		return "", fmt.Errorf("last invoice number %q does not belong to year suffix %q", *last, yearSuffix)
	}
	return Format(seq+1, yearSuffix), nil
}
