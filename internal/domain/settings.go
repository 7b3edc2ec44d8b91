package domain

import (
	"database/sql"
	"time"
)

// StoreSettings is the admin-controlled availability row. There is exactly one
// row; it is updated in place and no history is kept (last write wins).
type StoreSettings struct {
	ID             string
	ForceClose     bool
	HighDemand     bool
	DelayMinutes   int
	HolidayMode    bool
	HolidayMessage string
	HolidayStart   *time.Time
	HolidayEnd     *time.Time
}

// SettingsPatch is a partial update of StoreSettings. A nil field means
// "leave unchanged"; for the nullable timestamps, a present field with
// Valid=false clears the value.
type SettingsPatch struct {
	ForceClose     *bool
	HighDemand     *bool
	DelayMinutes   *int
	HolidayMode    *bool
	HolidayMessage *string
	HolidayStart   *sql.NullTime
	HolidayEnd     *sql.NullTime
}

// Apply merges the patch field by field. Used both for optimistic local
// updates and for incoming remote change events, so that concurrent edits to
// unrelated fields do not stomp each other.
func (s *StoreSettings) Apply(p SettingsPatch) {
	if p.ForceClose != nil {
		s.ForceClose = *p.ForceClose
	}
	if p.HighDemand != nil {
		s.HighDemand = *p.HighDemand
	}
	if p.DelayMinutes != nil {
		s.DelayMinutes = *p.DelayMinutes
	}
	if p.HolidayMode != nil {
		s.HolidayMode = *p.HolidayMode
	}
	if p.HolidayMessage != nil {
		s.HolidayMessage = *p.HolidayMessage
	}
	if p.HolidayStart != nil {
		s.HolidayStart = nullTimePtr(*p.HolidayStart)
	}
	if p.HolidayEnd != nil {
		s.HolidayEnd = nullTimePtr(*p.HolidayEnd)
	}
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.ForceClose == nil && p.HighDemand == nil && p.DelayMinutes == nil &&
		p.HolidayMode == nil && p.HolidayMessage == nil &&
		p.HolidayStart == nil && p.HolidayEnd == nil
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
