package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/internal/repository"
	"github.com/pixelcraft/booking-service/pkg/validator"
)

// OfferService implements the business logic for special offers.
type OfferService struct {
	repo   repository.OfferRepository
	logger *slog.Logger
}

// NewOfferService creates a new offer service.
func NewOfferService(repo repository.OfferRepository, logger *slog.Logger) *OfferService {
	return &OfferService{
		repo:   repo,
		logger: logger,
	}
}

// ListActive returns the offers shown to visitors: expired entries excluded,
// sorted by priority ascending with ties broken by creation order. The store
// pre-filters, and the domain rule is applied over the result so the ordering
// does not depend on any one store implementation.
func (s *OfferService) ListActive(ctx context.Context) ([]domain.SpecialOffer, error) {
	now := time.Now().UTC()
	offers, err := s.repo.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	return domain.ActiveOffers(offers, now), nil
}

// ListAll returns every offer for the admin view.
func (s *OfferService) ListAll(ctx context.Context, page, perPage int) ([]domain.SpecialOffer, int, error) {
	return s.repo.ListAll(ctx, page, perPage)
}

// GetByID retrieves a single offer.
func (s *OfferService) GetByID(ctx context.Context, id string) (*domain.SpecialOffer, error) {
	return s.repo.GetByID(ctx, id)
}

// OfferInput holds the fields an admin submits when creating or updating an
// offer.
type OfferInput struct {
	Code        string    `json:"code" validate:"required"`
	Description string    `json:"description"`
	Discount    string    `json:"discount" validate:"required"`
	Styling     string    `json:"styling"`
	Priority    int       `json:"priority" validate:"gte=0"`
	ValidUntil  time.Time `json:"valid_until" validate:"required"`
}

// Create inserts a new special offer.
func (s *OfferService) Create(ctx context.Context, input *OfferInput) (*domain.SpecialOffer, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	offer := &domain.SpecialOffer{
		ID:          uuid.New().String(),
		Code:        input.Code,
		Description: input.Description,
		Discount:    input.Discount,
		Styling:     input.Styling,
		Priority:    input.Priority,
		ValidUntil:  input.ValidUntil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "special offer created",
		slog.String("offer_id", offer.ID),
		slog.String("code", offer.Code),
	)

	return offer, nil
}

// Update modifies an existing offer.
func (s *OfferService) Update(ctx context.Context, id string, input *OfferInput) (*domain.SpecialOffer, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	offer.Code = input.Code
	offer.Description = input.Description
	offer.Discount = input.Discount
	offer.Styling = input.Styling
	offer.Priority = input.Priority
	offer.ValidUntil = input.ValidUntil

	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, err
	}

	return offer, nil
}

// Delete removes an offer.
func (s *OfferService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "special offer deleted", slog.String("offer_id", id))
	return nil
}
