package entry

import "math"

// ProjectStats summarizes logged hours against the approved budget. It is
// derived on every read and never persisted.
type ProjectStats struct {
	TotalCentiHours     int64 `json:"total_centi_hours"`
	ApprovedCentiHours  int64 `json:"approved_centi_hours"`
	RemainingCentiHours int64 `json:"remaining_centi_hours"`
	ProgressPercentage  int   `json:"progress_percentage"`
}

// ComputeStats reduces a collection of entries to project statistics.
// Summation is exact integer arithmetic in centihours, so the result is
// independent of entry order. Remaining hours floor at zero while the
// percentage is uncapped: over-budget is a valid, visible state. A budget of
// zero (or less) yields zero progress rather than a division error.
func ComputeStats(entries []*Entry, approvedCentiHours int64) ProjectStats {
	var total int64
	for _, e := range entries {
		total += e.CentiHours
	}

	remaining := approvedCentiHours - total
	if remaining < 0 {
		remaining = 0
	}

	percentage := 0
	if approvedCentiHours > 0 {
		percentage = int(math.Round(float64(total) / float64(approvedCentiHours) * 100))
	}

	return ProjectStats{
		TotalCentiHours:     total,
		ApprovedCentiHours:  approvedCentiHours,
		RemainingCentiHours: remaining,
		ProgressPercentage:  percentage,
	}
}
