package service

import (
	"context"
	"errors"
	"sync"

	deskerrors "deskly/internal/desks/errors"
	"deskly/internal/desks/repository"
	"deskly/internal/desks/validator"
	"deskly/pkg/config"
	apperrors "deskly/pkg/errors"
	"deskly/pkg/model"
	"deskly/pkg/sanitizer"
)

type DeskService interface {
	Create(ctx context.Context, desk *model.Desk) error
	GetByID(ctx context.Context, id string) (*model.Desk, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, int64, error)
	Update(ctx context.Context, id string, updates *model.DeskUpdate) (*model.Desk, error)
	Delete(ctx context.Context, id string) error
}

type deskService struct {
	repo      repository.DeskRepository
	validator *validator.DeskValidator
	cfg       *config.Config
}

func NewDeskService(
	repo repository.DeskRepository,
	validator *validator.DeskValidator,
	cfg *config.Config,
) DeskService {
	return &deskService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *deskService) Create(ctx context.Context, desk *model.Desk) error {
	desk.ID = ""
	s.sanitize(desk)

	if err := s.validator.Validate(desk); err != nil {
		s.cfg.Log.Warn("Desk validation failed", "error", err)
		return apperrors.Validation("Desk validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, desk); err != nil {
		s.cfg.Log.Error("Failed to create desk", "error", err)
		return apperrors.Internal("Failed to create desk", err)
	}

	s.cfg.Log.Info("Desk created", "id", desk.ID, "name", desk.Name)
	return nil
}

func (s *deskService) GetByID(ctx context.Context, id string) (*model.Desk, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Desk ID cannot be empty")
	}

	desk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	return desk, nil
}

func (s *deskService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, int64, error) {
	var count int64
	var desks []*model.Desk
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count desks", "error", errCount)
			errCount = apperrors.Internal("Failed to count desks", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		desks, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list desks", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve desks", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return desks, count, nil
}

func (s *deskService) Update(ctx context.Context, id string, updates *model.DeskUpdate) (*model.Desk, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Desk ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Desk update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)

	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Desk validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, deskerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Desk", id)
		}
		s.cfg.Log.Error("Failed to update desk", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update desk", err)
	}

	s.cfg.Log.Info("Desk updated", "id", id)
	return merged, nil
}

func (s *deskService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Desk ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, deskerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Desk", id)
		}
		if errors.Is(err, deskerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid desk ID format")
		}
		s.cfg.Log.Error("Failed to delete desk", "id", id, "error", err)
		return apperrors.Internal("Failed to delete desk", err)
	}

	s.cfg.Log.Info("Desk deleted", "id", id)
	return nil
}

func (s *deskService) sanitize(desk *model.Desk) {
	desk.Name = sanitizer.NormalizeName(desk.Name)
	desk.Description = sanitizer.TrimAndNormalize(desk.Description)
	desk.Location = sanitizer.NormalizeLocation(desk.Location)
}

func (s *deskService) mergeUpdates(existing *model.Desk, updates *model.DeskUpdate) *model.Desk {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.Bookable != nil {
		merged.Bookable = *updates.Bookable
	}

	return &merged
}

func (s *deskService) mapLookupError(err error, id string) error {
	if errors.Is(err, deskerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Desk", id)
	}
	if errors.Is(err, deskerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid desk ID format")
	}
	return apperrors.Internal("Failed to retrieve desk", err)
}
