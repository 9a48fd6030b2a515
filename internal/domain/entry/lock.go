package entry

import (
	"time"

	"github.com/google/uuid"
)

// EditWindow is how long after creation an entry remains editable
const EditWindow = 48 * time.Hour

// ErrEntryLocked indicates an update attempt past the edit window
type ErrEntryLocked struct {
	EntryID uuid.UUID
}

func (e ErrEntryLocked) Error() string {
	return "time entry can no longer be edited (48-hour window expired): " + e.EntryID.String()
}

// IsEditable reports whether an entry created at createdAt may still be
// modified at instant now. The window is inclusive: exactly 48 hours after
// creation the entry is still editable. A now before createdAt (clock
// anomaly) counts as zero elapsed time, so fresh entries never appear locked.
func IsEditable(createdAt, now time.Time) bool {
	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed <= EditWindow
}

// Update carries the mutable content fields of an entry. ID, OwnerID and
// CreatedAt are never part of an update.
type Update struct {
	Date                time.Time
	CentiHours          int64
	Phase               Phase
	ActivityDescription string
	TechnicalChallenge  string
}

// AuthorizeUpdate applies upd to the entry if the edit window has not expired
// at instant now. The operation is all-or-nothing: on ErrEntryLocked or a
// validation error no field is touched.
func (e *Entry) AuthorizeUpdate(upd Update, now time.Time) error {
	if !IsEditable(e.CreatedAt, now) {
		return ErrEntryLocked{EntryID: e.ID}
	}
	if err := validateContent(upd.Date, upd.CentiHours, upd.Phase, upd.ActivityDescription, upd.TechnicalChallenge); err != nil {
		return err
	}

	e.Date = NormalizeDate(upd.Date)
	e.CentiHours = upd.CentiHours
	e.Phase = upd.Phase
	e.ActivityDescription = upd.ActivityDescription
	e.TechnicalChallenge = upd.TechnicalChallenge
	e.UpdatedAt = now
	return nil
}
