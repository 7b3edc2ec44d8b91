package services_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elpunto/internal/domain"
	"elpunto/internal/repos"
	"elpunto/internal/services"
)

func boolp(b bool) *bool { return &b }
func intp(n int) *int    { return &n }

func TestSettingsUpdate_PersistsAndAppliesLocally(t *testing.T) {
	db := memdb(t)
	repo := repos.NewSettingsRepo(db)
	svc, err := services.NewSettingsService(repo)
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.Update(domain.SettingsPatch{HighDemand: boolp(true), DelayMinutes: intp(45)}))

	cur := svc.Current()
	assert.True(t, cur.HighDemand)
	assert.Equal(t, 45, cur.DelayMinutes)

	// persisted copy agrees
	stored, err := repo.Get()
	require.NoError(t, err)
	assert.True(t, stored.HighDemand)
	assert.Equal(t, 45, stored.DelayMinutes)
}

func TestSettingsUpdate_RollsBackOnWriteFailure(t *testing.T) {
	db := memdb(t)
	repo := repos.NewSettingsRepo(db)
	svc, err := services.NewSettingsService(repo)
	require.NoError(t, err)
	defer svc.Close()

	snapshot := svc.Current()

	_, err = db.Exec(`DROP TABLE store_settings`)
	require.NoError(t, err)

	err = svc.Update(domain.SettingsPatch{HighDemand: boolp(true)})
	require.Error(t, err)
	assert.Equal(t, snapshot, svc.Current(), "failed write must restore the pre-update snapshot")
}

func TestSettingsRemoteEcho_MergesFieldByField(t *testing.T) {
	db := memdb(t)
	repo := repos.NewSettingsRepo(db)

	// two live views of the same row, like two admin tabs
	a, err := services.NewSettingsService(repo)
	require.NoError(t, err)
	defer a.Close()
	b, err := services.NewSettingsService(repo)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Update(domain.SettingsPatch{HighDemand: boolp(true), DelayMinutes: intp(30)}))
	require.NoError(t, b.Update(domain.SettingsPatch{ForceClose: boolp(true)}))

	// each side keeps its own field and receives the other's
	ca, cb := a.Current(), b.Current()
	for _, cur := range []domain.StoreSettings{ca, cb} {
		assert.True(t, cur.HighDemand)
		assert.Equal(t, 30, cur.DelayMinutes)
		assert.True(t, cur.ForceClose)
	}
}

func TestSettingsUpdate_NullableHolidayWindow(t *testing.T) {
	db := memdb(t)
	repo := repos.NewSettingsRepo(db)
	svc, err := services.NewSettingsService(repo)
	require.NoError(t, err)
	defer svc.Close()

	start := time.Date(2026, 12, 24, 18, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)
	require.NoError(t, svc.Update(domain.SettingsPatch{
		HolidayStart: &sql.NullTime{Time: start, Valid: true},
		HolidayEnd:   &sql.NullTime{Time: end, Valid: true},
	}))

	stored, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, stored.HolidayStart)
	require.NotNil(t, stored.HolidayEnd)
	assert.True(t, stored.HolidayStart.Equal(start))
	assert.True(t, stored.HolidayEnd.Equal(end))

	// clearing uses an explicit null, distinct from "leave unchanged"
	require.NoError(t, svc.Update(domain.SettingsPatch{HolidayStart: &sql.NullTime{}}))
	stored, err = repo.Get()
	require.NoError(t, err)
	assert.Nil(t, stored.HolidayStart)
	assert.NotNil(t, stored.HolidayEnd, "untouched field survives")
}

func TestSettingsStatus_UsesCurrentFlags(t *testing.T) {
	db := memdb(t)
	repo := repos.NewSettingsRepo(db)
	svc, err := services.NewSettingsService(repo)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, domain.StateOpen, svc.Status(time.Now()).State)
	require.NoError(t, svc.Update(domain.SettingsPatch{ForceClose: boolp(true)}))
	assert.Equal(t, domain.StateEmergencyClosed, svc.Status(time.Now()).State)
}
