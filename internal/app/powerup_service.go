package app

import (
	"context"

	"quizclash-service/internal/domain"
)

// Powerup is a purchasable gameplay boost, priced in points.
type Powerup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Uses        int    `json:"uses"`
	Icon        string `json:"icon"`
}

// PowerupCatalog is the fixed store inventory.
func PowerupCatalog() []Powerup {
	return []Powerup{
		{ID: "fifty_fifty", Name: "50/50", Description: "Remove two wrong options", Price: 500, Uses: 3, Icon: "scissors"},
		{ID: "time_freeze", Name: "Time Freeze", Description: "Pause the timer for 10 seconds", Price: 750, Uses: 3, Icon: "snowflake"},
		{ID: "double_points", Name: "Double Points", Description: "Double the points for one question", Price: 1000, Uses: 2, Icon: "star"},
		{ID: "skip_question", Name: "Skip", Description: "Skip a question without penalty", Price: 600, Uses: 3, Icon: "fast-forward"},
		{ID: "extra_time", Name: "Extra Time", Description: "Add 15 seconds to the timer", Price: 400, Uses: 5, Icon: "clock"},
	}
}

// PowerupRepository persists purchases.
type PowerupRepository interface {
	SavePurchase(ctx context.Context, p *domain.PowerupPurchase) error
	PurchasesForUser(ctx context.Context, userID int64) ([]domain.PowerupPurchase, error)
	GetPurchase(ctx context.Context, id int64) (domain.PowerupPurchase, error)
	UpdatePurchase(ctx context.Context, p *domain.PowerupPurchase) error
}

// PointsAccount debits the user's score balance for store purchases.
type PointsAccount interface {
	Get(ctx context.Context, id int64) (domain.User, error)
	SpendPoints(ctx context.Context, userID int64, amount int) error
}

// PowerupService sells catalog powerups for points and tracks remaining uses.
type PowerupService struct {
	purchases PowerupRepository
	accounts  PointsAccount
	catalog   map[string]Powerup
}

func NewPowerupService(purchases PowerupRepository, accounts PointsAccount) *PowerupService {
	catalog := make(map[string]Powerup)
	for _, p := range PowerupCatalog() {
		catalog[p.ID] = p
	}
	return &PowerupService{purchases: purchases, accounts: accounts, catalog: catalog}
}

// Catalog lists the store inventory.
func (s *PowerupService) Catalog() []Powerup {
	return PowerupCatalog()
}

// Buy debits the price from the user's total score and records the purchase.
func (s *PowerupService) Buy(ctx context.Context, userID int64, powerupID string) (domain.PowerupPurchase, error) {
	powerup, ok := s.catalog[powerupID]
	if !ok {
		return domain.PowerupPurchase{}, domain.ErrPowerupNotFound
	}
	user, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return domain.PowerupPurchase{}, err
	}
	if user.TotalScore < powerup.Price {
		return domain.PowerupPurchase{}, domain.ErrInsufficientPoints
	}
	if err := s.accounts.SpendPoints(ctx, userID, powerup.Price); err != nil {
		return domain.PowerupPurchase{}, err
	}

	purchase := domain.PowerupPurchase{
		UserID:        userID,
		PowerupID:     powerup.ID,
		PowerupName:   powerup.Name,
		PricePaid:     powerup.Price,
		UsesRemaining: powerup.Uses,
		IsActive:      true,
	}
	if err := s.purchases.SavePurchase(ctx, &purchase); err != nil {
		return domain.PowerupPurchase{}, err
	}
	return purchase, nil
}

// Inventory lists the user's purchases.
func (s *PowerupService) Inventory(ctx context.Context, userID int64) ([]domain.PowerupPurchase, error) {
	return s.purchases.PurchasesForUser(ctx, userID)
}

// Use consumes one charge of a purchased powerup.
func (s *PowerupService) Use(ctx context.Context, userID, purchaseID int64) (domain.PowerupPurchase, error) {
	purchase, err := s.purchases.GetPurchase(ctx, purchaseID)
	if err != nil {
		return domain.PowerupPurchase{}, err
	}
	if purchase.UserID != userID {
		return domain.PowerupPurchase{}, domain.ErrNotAuthorized
	}
	if !purchase.IsActive || purchase.UsesRemaining <= 0 {
		return domain.PowerupPurchase{}, domain.ErrPowerupNotFound
	}
	purchase.UsesRemaining--
	if purchase.UsesRemaining == 0 {
		purchase.IsActive = false
	}
	if err := s.purchases.UpdatePurchase(ctx, &purchase); err != nil {
		return domain.PowerupPurchase{}, err
	}
	return purchase, nil
}
