package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/costbook/backend/internal/model"
)

// ErrNoEstimateLines is returned when a snapshot is requested for a project
// whose bill of quantities is empty.
var ErrNoEstimateLines = errors.New("project has no estimate lines")

// ErrCalculationCancelled marks batch items that were never started because
// the caller cancelled the batch.
var ErrCalculationCancelled = errors.New("calculation cancelled")

// UpstreamLookupError wraps a failed read from one of the calculator's
// collaborators (items, factors, catalogue, rate tables).
type UpstreamLookupError struct {
	Resource string
	ID       string
	Err      error
}

func (e *UpstreamLookupError) Error() string {
	return fmt.Sprintf("lookup %s %s: %v", e.Resource, e.ID, e.Err)
}

func (e *UpstreamLookupError) Unwrap() error { return e.Err }

// MissingDataError reports an item that could not be priced because factors
// reference catalogue entries that do not exist.
type MissingDataError struct {
	ItemID  string
	Missing []model.Warning
}

func (e *MissingDataError) Error() string {
	refs := make([]string, 0, len(e.Missing))
	for _, w := range e.Missing {
		refs = append(refs, w.Message)
	}
	return fmt.Sprintf("unable to calculate item %s: missing data: %s", e.ItemID, strings.Join(refs, "; "))
}
