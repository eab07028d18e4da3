// Package consensus turns raw per-option vote counts into the majority
// status for one (text, question) pair. It is deliberately pure: the job
// handler feeds it the full current vote aggregation on every run, which is
// what makes re-delivered jobs converge instead of double-counting.
package consensus

import (
	"sort"

	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/types"
)

// Status is the computed consensus for one (text, question) pair.
type Status struct {
	AnnotationTypeID   uuid.UUID
	AnnotationOptionID uuid.UUID
	Ratio              float64
	AnnotationCount    int
}

// Compute selects the majority option from per-option vote counts.
//
// Tie-break rule: the highest count wins; options with equal counts are
// resolved to the lexicographically smallest option UUID. The result is
// deterministic for identical input sets regardless of the order the store
// returned the groups in.
//
// Zero input groups is ErrNotFound: a status with annotationCount 0 must
// never exist.
func Compute(typeID uuid.UUID, counts []types.OptionCount) (Status, error) {
	if len(counts) == 0 {
		return Status{}, apperrors.NotFoundf("no annotations for annotationTypeId %s", typeID)
	}

	sorted := make([]types.OptionCount, len(counts))
	copy(sorted, counts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].AnnotationOptionID.String() < sorted[j].AnnotationOptionID.String()
	})

	majority := sorted[0]
	total := 0
	for _, c := range sorted {
		total += c.Count
	}

	return Status{
		AnnotationTypeID:   typeID,
		AnnotationOptionID: majority.AnnotationOptionID,
		Ratio:              float64(majority.Count) / float64(total),
		AnnotationCount:    total,
	}, nil
}
