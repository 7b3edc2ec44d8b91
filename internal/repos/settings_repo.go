package repos

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"elpunto/internal/domain"

	"github.com/jmoiron/sqlx"
)

const settingsRowID = "store"

// SettingsRepo persists the availability singleton and fans out change events
// to subscribers, standing in for the hosted backend's table-change channel.
// Events carry the changed fields only, so listeners can merge them without
// clobbering unrelated in-flight edits.
type SettingsRepo struct {
	db *sqlx.DB

	mu     sync.Mutex
	nextID int
	subs   map[int]func(domain.SettingsPatch)
}

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo {
	return &SettingsRepo{db: db, subs: make(map[int]func(domain.SettingsPatch))}
}

type settingsRow struct {
	ID             string         `db:"id"`
	ForceClose     bool           `db:"force_close"`
	HighDemand     bool           `db:"high_demand"`
	DelayMinutes   int            `db:"delay_minutes"`
	HolidayMode    bool           `db:"holiday_mode"`
	HolidayMessage string         `db:"holiday_message"`
	HolidayStart   sql.NullString `db:"holiday_start"`
	HolidayEnd     sql.NullString `db:"holiday_end"`
}

func (r *SettingsRepo) Get() (domain.StoreSettings, error) {
	var row settingsRow
	err := r.db.Get(&row, `
	  SELECT id, force_close, high_demand, delay_minutes, holiday_mode, holiday_message,
	         holiday_start, holiday_end
	  FROM store_settings WHERE id = ?
	`, settingsRowID)
	if err != nil {
		return domain.StoreSettings{}, err
	}
	return domain.StoreSettings{
		ID:             row.ID,
		ForceClose:     row.ForceClose,
		HighDemand:     row.HighDemand,
		DelayMinutes:   row.DelayMinutes,
		HolidayMode:    row.HolidayMode,
		HolidayMessage: row.HolidayMessage,
		HolidayStart:   parseNullTime(row.HolidayStart),
		HolidayEnd:     parseNullTime(row.HolidayEnd),
	}, nil
}

// Update writes only the fields present in the patch, then notifies
// subscribers. Last write wins; there is no conflict detection.
func (r *SettingsRepo) Update(p domain.SettingsPatch) error {
	if p.Empty() {
		return nil
	}

	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.ForceClose != nil {
		add("force_close", *p.ForceClose)
	}
	if p.HighDemand != nil {
		add("high_demand", *p.HighDemand)
	}
	if p.DelayMinutes != nil {
		add("delay_minutes", *p.DelayMinutes)
	}
	if p.HolidayMode != nil {
		add("holiday_mode", *p.HolidayMode)
	}
	if p.HolidayMessage != nil {
		add("holiday_message", *p.HolidayMessage)
	}
	if p.HolidayStart != nil {
		add("holiday_start", formatNullTime(*p.HolidayStart))
	}
	if p.HolidayEnd != nil {
		add("holiday_end", formatNullTime(*p.HolidayEnd))
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, settingsRowID)

	_, err := r.db.Exec(`UPDATE store_settings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}

	r.broadcast(p)
	return nil
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners run synchronously on the writer's goroutine.
func (r *SettingsRepo) Subscribe(fn func(domain.SettingsPatch)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

func (r *SettingsRepo) broadcast(p domain.SettingsPatch) {
	r.mu.Lock()
	fns := make([]func(domain.SettingsPatch), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()
	for _, fn := range fns {
		fn(p)
	}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func formatNullTime(nt sql.NullTime) any {
	if !nt.Valid {
		return nil
	}
	return nt.Time.UTC().Format(time.RFC3339)
}
