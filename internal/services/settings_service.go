package services

import (
	"sync"
	"time"

	"elpunto/internal/domain"
	"elpunto/internal/repos"
)

// SettingsService owns the local copy of the availability row. Admin writes
// are optimistic: applied locally first, rolled back if the store write fails.
// Remote change events merge in field by field, so an echo of our own write or
// a concurrent edit to an unrelated flag cannot stomp an in-flight change.
type SettingsService struct {
	repo *repos.SettingsRepo

	mu      sync.Mutex
	current domain.StoreSettings
	unsub   func()
}

func NewSettingsService(repo *repos.SettingsRepo) (*SettingsService, error) {
	cur, err := repo.Get()
	if err != nil {
		return nil, err
	}
	s := &SettingsService{repo: repo, current: cur}
	s.unsub = repo.Subscribe(s.applyRemote)
	return s, nil
}

// Close drops the change subscription.
func (s *SettingsService) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

func (s *SettingsService) Current() domain.StoreSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies the patch optimistically, then persists it. On failure the
// pre-update snapshot is restored and the error returned for the caller to
// surface; on success nothing further happens (the subscription echo is an
// idempotent re-apply of the same fields).
func (s *SettingsService) Update(p domain.SettingsPatch) error {
	if p.Empty() {
		return nil
	}

	s.mu.Lock()
	snapshot := s.current
	s.current.Apply(p)
	s.mu.Unlock()

	if err := s.repo.Update(p); err != nil {
		s.mu.Lock()
		s.current = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *SettingsService) applyRemote(p domain.SettingsPatch) {
	s.mu.Lock()
	s.current.Apply(p)
	s.mu.Unlock()
}

// Status evaluates the availability state for the given instant.
func (s *SettingsService) Status(now time.Time) domain.StoreStatus {
	return EvaluateStatus(s.Current(), now)
}
