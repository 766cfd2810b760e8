package store

import (
	"context"
	"sync"
	"time"

	"github.com/svitlo-ai/svitlo/internal/models"
)

// InMemoryStore is a mutex-guarded store used in tests and when no DSN is
// configured. Records are held in append order, matching the persistent
// backends' insertion identity.
type InMemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.UserProfile
	checkins []models.Checkin
	triggers []models.Trigger
	plans    []models.PlanItem
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]models.UserProfile)}
}

func (s *InMemoryStore) GetOrCreateUser(ctx context.Context, userID string, defaultLang models.Lang, defaultCountry models.Country) (models.UserProfile, error) {
	if userID == "" {
		return models.UserProfile{}, models.ErrEmptyUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	u := models.UserProfile{
		UserID:    userID,
		Lang:      defaultLang,
		Country:   defaultCountry,
		CreatedAt: time.Now().UTC(),
	}
	s.users[userID] = u
	return u, nil
}

func (s *InMemoryStore) SetUserLang(ctx context.Context, userID string, lang models.Lang) error {
	if !models.IsValidLang(lang) {
		return models.ErrInvalidLang
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return models.ErrEmptyUserID
	}
	u.Lang = lang
	s.users[userID] = u
	return nil
}

func (s *InMemoryStore) SetUserCountry(ctx context.Context, userID string, country models.Country) error {
	if !models.IsValidCountry(country) {
		return models.ErrInvalidCountry
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return models.ErrEmptyUserID
	}
	u.Country = country
	s.users[userID] = u
	return nil
}

func (s *InMemoryStore) AddCheckin(ctx context.Context, c models.Checkin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkins = append(s.checkins, c)
	return nil
}

func (s *InMemoryStore) AddTrigger(ctx context.Context, t models.Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = append(s.triggers, t)
	return nil
}

func (s *InMemoryStore) AddPlanItem(ctx context.Context, p models.PlanItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = append(s.plans, p)
	return nil
}

func (s *InMemoryStore) ListCheckinsSince(ctx context.Context, userID string, since time.Time) ([]models.Checkin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Checkin
	for _, c := range s.checkins {
		if c.UserID == userID && !c.Time.Before(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListTriggers returns all trigger notes for a user, oldest first (for tests).
func (s *InMemoryStore) ListTriggers(userID string) []models.Trigger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Trigger
	for _, t := range s.triggers {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// ListPlanItems returns all plan items for a user, oldest first (for tests).
func (s *InMemoryStore) ListPlanItems(userID string) []models.PlanItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PlanItem
	for _, p := range s.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

func (s *InMemoryStore) Close() error { return nil }
