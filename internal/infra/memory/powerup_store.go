package memory

import (
	"context"
	"sync"
	"time"

	"quizclash-service/internal/domain"
)

// PowerupStore keeps powerup purchases in memory.
type PowerupStore struct {
	mu        sync.RWMutex
	purchases map[int64]domain.PowerupPurchase
	nextID    int64
}

func NewPowerupStore() *PowerupStore {
	return &PowerupStore{purchases: make(map[int64]domain.PowerupPurchase), nextID: 1}
}

func (s *PowerupStore) SavePurchase(ctx context.Context, p *domain.PowerupPurchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = time.Now()
	}
	s.purchases[p.ID] = *p
	return nil
}

func (s *PowerupStore) PurchasesForUser(ctx context.Context, userID int64) ([]domain.PowerupPurchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PowerupPurchase, 0)
	for _, p := range s.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PowerupStore) GetPurchase(ctx context.Context, id int64) (domain.PowerupPurchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.purchases[id]
	if !ok {
		return domain.PowerupPurchase{}, domain.ErrPowerupNotFound
	}
	return p, nil
}

func (s *PowerupStore) UpdatePurchase(ctx context.Context, p *domain.PowerupPurchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.purchases[p.ID]; !ok {
		return domain.ErrPowerupNotFound
	}
	s.purchases[p.ID] = *p
	return nil
}
