package services

import (
	"context"
	"time"

	"elpunto/internal/domain"
	applog "elpunto/internal/log"
)

// EvaluateStatus collapses the availability flags into one displayed state.
// Strict precedence, first match wins:
//
//  1. force_close            -> EmergencyClosed (blocks ordering)
//  2. holiday_mode OR active [holiday_start, holiday_end] -> HolidayClosed (blocks)
//  3. high_demand            -> HighDemand (delay banner, ordering allowed)
//  4. otherwise              -> Open
//
// Pure function of (settings, now); callers re-sample now on an interval since
// a scheduled window boundary is crossed by time alone.
func EvaluateStatus(s domain.StoreSettings, now time.Time) domain.StoreStatus {
	if s.ForceClose {
		return domain.StoreStatus{State: domain.StateEmergencyClosed, Blocking: true}
	}

	scheduled := holidayWindowActive(s, now)
	if s.HolidayMode || scheduled {
		st := domain.StoreStatus{
			State:    domain.StateHolidayClosed,
			Blocking: true,
			Message:  s.HolidayMessage,
		}
		// "Reopens at" only makes sense when the schedule drives the closure;
		// a manual toggle has no known end.
		if scheduled {
			end := *s.HolidayEnd
			st.ReopensAt = &end
		}
		return st
	}

	if s.HighDemand {
		return domain.StoreStatus{State: domain.StateHighDemand, DelayMinutes: s.DelayMinutes}
	}

	return domain.StoreStatus{State: domain.StateOpen}
}

// holidayWindowActive checks now against [start, end], inclusive on both
// ends. A zero-width or inverted window is never active.
func holidayWindowActive(s domain.StoreSettings, now time.Time) bool {
	if s.HolidayStart == nil || s.HolidayEnd == nil {
		return false
	}
	if !s.HolidayStart.Before(*s.HolidayEnd) {
		return false
	}
	return !now.Before(*s.HolidayStart) && !now.After(*s.HolidayEnd)
}

// StatusWatcher re-evaluates the store status on a fixed interval and reports
// transitions. It exists because scheduled closures begin and end with no
// settings write to react to.
type StatusWatcher struct {
	Settings func() (domain.StoreSettings, error)
	Interval time.Duration
	OnChange func(domain.StoreStatus)
}

// Run blocks until ctx is cancelled.
func (w *StatusWatcher) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last domain.StoreState
	var seeded bool
	check := func() {
		s, err := w.Settings()
		if err != nil {
			applog.Error(nil, "status.watch.load", err, nil)
			return
		}
		st := EvaluateStatus(s, time.Now())
		if seeded && st.State == last {
			return
		}
		last = st.State
		seeded = true
		if w.OnChange != nil {
			w.OnChange(st)
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
