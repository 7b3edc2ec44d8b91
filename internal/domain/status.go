package domain

import "time"

// StoreState is the single displayable availability state, collapsed from the
// overlapping StoreSettings flags with a strict precedence so the storefront
// never shows contradictory messaging.
type StoreState string

const (
	StateEmergencyClosed StoreState = "emergency_closed"
	StateHolidayClosed   StoreState = "holiday_closed"
	StateHighDemand      StoreState = "high_demand"
	StateOpen            StoreState = "open"
)

// StoreStatus is what the storefront renders. Blocking states refuse new
// orders outright; HighDemand only shows a delay banner.
type StoreStatus struct {
	State        StoreState `json:"state"`
	Blocking     bool       `json:"blocking"`
	Message      string     `json:"message,omitempty"`
	DelayMinutes int        `json:"delay_minutes,omitempty"`
	ReopensAt    *time.Time `json:"reopens_at,omitempty"`
}
