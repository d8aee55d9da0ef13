package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"lead-backend/internal/cache"
	"lead-backend/internal/diff"
	"lead-backend/internal/metrics"
	"lead-backend/internal/models"
	"lead-backend/internal/repositories"
)

// BuyerService owns the lead lifecycle. Every write that changes a lead is
// paired with a buyer_history row in the same transaction, so the audit
// trail cannot drift from the data.
type BuyerService struct {
	db          repositories.Pool
	buyerRepo   *repositories.BuyerRepository
	historyRepo *repositories.BuyerHistoryRepository
}

func NewBuyerService(db repositories.Pool) *BuyerService {
	return &BuyerService{
		db:          db,
		buyerRepo:   repositories.NewBuyerRepository(db),
		historyRepo: repositories.NewBuyerHistoryRepository(db),
	}
}

// Create validates and stores a new lead together with its creation history
// event.
func (s *BuyerService) Create(ctx context.Context, req *models.CreateBuyerRequest, ownerID uuid.UUID) (*models.Buyer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := &models.Buyer{
		FullName:     req.FullName,
		Phone:        req.Phone,
		City:         req.City,
		PropertyType: req.PropertyType,
		Purpose:      req.Purpose,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		Timeline:     req.Timeline,
		Source:       req.Source,
		Status:       models.StatusNew,
		Tags:         req.Tags,
		OwnerID:      ownerID,
	}
	if req.Email != "" {
		b.Email = &req.Email
	}
	if req.BHK != "" {
		b.BHK = &req.BHK
	}
	if req.Notes != "" {
		b.Notes = &req.Notes
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}

	if err := s.CreateRecord(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateRecord inserts a pre-built lead and its creation history event in one
// transaction. The CSV import uses this directly since imported rows may
// carry a non-default status.
func (s *BuyerService) CreateRecord(ctx context.Context, b *models.Buyer) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return models.NewPersistenceError("begin create", err)
	}
	defer tx.Rollback(ctx)

	if err := s.buyerRepo.WithTx(tx).Create(ctx, b); err != nil {
		return models.NewPersistenceError("insert buyer", err)
	}

	h := &models.BuyerHistory{
		BuyerID:   b.ID,
		ChangedBy: &b.OwnerID,
		EventType: models.HistoryEventCreated,
		Diff:      diff.Created(),
	}
	if err := s.historyRepo.WithTx(tx).Insert(ctx, h); err != nil {
		return models.NewPersistenceError("insert creation history", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.NewPersistenceError("commit create", err)
	}

	metrics.LeadsCreatedTotal.Inc()
	metrics.HistoryWritesTotal.WithLabelValues(models.HistoryEventCreated).Inc()
	cache.InvalidateLeadCaches(ctx)
	log.Printf("[BuyerService] Created lead %s (%s)", b.ID, b.FullName)
	return nil
}

// Update applies an edit on behalf of the acting user. Only the lead's owner
// or an admin may edit; the single fetch here serves both that check and the
// diff. When nothing changed, no write of any kind happens. Otherwise the row
// update and the history event commit together.
func (s *BuyerService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateBuyerRequest, changedBy uuid.UUID, role string) (*models.Buyer, diff.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	b, err := s.buyerRepo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if b.OwnerID != changedBy && role != "admin" {
		return nil, nil, models.ErrNotLeadOwner
	}

	changes := diff.Compute(b.FieldMap(), req.FieldMap())
	if len(changes) == 0 {
		return b, changes, nil
	}

	req.ApplyTo(b)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, models.NewPersistenceError("begin update", err)
	}
	defer tx.Rollback(ctx)

	if err := s.buyerRepo.WithTx(tx).Update(ctx, b); err != nil {
		return nil, nil, models.NewPersistenceError("update buyer", err)
	}

	h := &models.BuyerHistory{
		BuyerID:   b.ID,
		ChangedBy: &changedBy,
		EventType: models.HistoryEventUpdated,
		Diff:      changes,
	}
	if err := s.historyRepo.WithTx(tx).Insert(ctx, h); err != nil {
		return nil, nil, models.NewPersistenceError("insert update history", err)
	}

	if err := tx.Commit(ctx); err != nil {
		metrics.UnauditedUpdatesTotal.Inc()
		return nil, nil, models.NewPersistenceError("commit update", err)
	}

	metrics.HistoryWritesTotal.WithLabelValues(models.HistoryEventUpdated).Inc()
	cache.InvalidateLeadCaches(ctx)
	log.Printf("[BuyerService] Updated lead %s: %s", b.ID, diff.Format(changes))
	return b, changes, nil
}

// Get returns a lead with its most recent history events attached.
func (s *BuyerService) Get(ctx context.Context, id uuid.UUID) (*models.Buyer, []*models.BuyerHistory, error) {
	b, err := s.buyerRepo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.historyRepo.ListByBuyer(ctx, id, 0)
	if err != nil {
		return nil, nil, models.NewPersistenceError("list history", err)
	}
	return b, history, nil
}

func (s *BuyerService) List(ctx context.Context, f repositories.ListFilter) ([]*models.Buyer, int, error) {
	return s.buyerRepo.List(ctx, f)
}

// History returns the audit trail for one buyer, newest first.
func (s *BuyerService) History(ctx context.Context, buyerID uuid.UUID, limit int) ([]*models.BuyerHistory, error) {
	if _, err := s.buyerRepo.Get(ctx, buyerID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByBuyer(ctx, buyerID, limit)
}

// AllHistory returns recent history across all buyers for the admin view.
func (s *BuyerService) AllHistory(ctx context.Context, limit int) ([]*models.BuyerHistory, error) {
	return s.historyRepo.ListAll(ctx, limit)
}
