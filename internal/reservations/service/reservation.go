package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"deskly/internal/interval"
	"deskly/internal/reservations/publisher"
	"deskly/internal/reservations/repository"
	"deskly/internal/reservations/validator"
	"deskly/pkg/config"
	apperrors "deskly/pkg/errors"
	"deskly/pkg/model"

	reserrors "deskly/internal/reservations/errors"
)

const dateLayout = "2006-01-02"

// DeskCatalog resolves desks from the desks service. The reservations
// service only needs existence and the bookable flag.
type DeskCatalog interface {
	GetByID(ctx context.Context, id string) (*model.Desk, error)
}

type ReservationService interface {
	Request(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	Update(ctx context.Context, id, actorID string, updates *model.ReservationUpdate) (*model.Reservation, error)
	Cancel(ctx context.Context, id, actorID string) (*model.Reservation, error)
	Delete(ctx context.Context, id, actorID string) error
	ListAvailability(ctx context.Context, deskID, date string) ([]model.TimeSlot, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	lockRepo  repository.ReservationLockRepository
	validator *validator.ReservationValidator
	desks     DeskCatalog
	events    publisher.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.ReservationLockRepository,
	validator *validator.ReservationValidator,
	desks DeskCatalog,
	events publisher.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		desks:     desks,
		events:    events,
		cfg:       cfg,
	}
}

// Request admits a reservation: validate, reject past dates, confirm the
// desk is bookable, then hold the (desk, date) admission lock while a
// transaction re-reads the confirmed set and inserts. The first committer
// wins; the loser gets a conflict, never a silent double booking.
func (s *reservationService) Request(ctx context.Context, reservation *model.Reservation) error {
	reservation.ID = ""
	reservation.Status = model.StatusConfirmed

	if err := s.validate(reservation); err != nil {
		return err
	}
	if err := s.checkNotPast(reservation.Date); err != nil {
		return err
	}
	if err := s.checkDeskBookable(ctx, reservation.DeskID); err != nil {
		return err
	}

	lockID, err := s.acquireAdmissionLock(ctx, reservation.DeskID, reservation.Date)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseAdmissionLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release admission lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, reservation); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to admit reservation",
			"desk_id", reservation.DeskID,
			"date", reservation.Date,
			"error", err,
		)
		return err
	}

	s.publishEvent(ctx, model.EventReservationCreated, reservation, reservation.OwnerID)

	s.cfg.Log.Info("Reservation admitted",
		"id", reservation.ID,
		"desk_id", reservation.DeskID,
		"date", reservation.Date,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
	)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if filter != nil && filter.Status != "" &&
		filter.Status != model.StatusConfirmed && filter.Status != model.StatusCancelled {
		return nil, 0, apperrors.InvalidInput("Status filter must be 'confirmed' or 'cancelled'")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, ownerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations by owner", "owner_id", ownerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByOwner(ctx, ownerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations by owner", "owner_id", ownerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// Update applies a partial update. When the desk, date, or either time
// changes, the merged reservation goes through full re-admission under the
// lock of its (possibly new) desk and date.
func (s *reservationService) Update(ctx context.Context, id, actorID string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	if err := s.checkOwnership(existing, actorID); err != nil {
		return nil, err
	}
	if existing.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Cancelled reservations cannot be updated")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged, changed := s.mergeUpdates(existing, updates)
	if !changed {
		return existing, nil
	}

	if err := s.validate(merged); err != nil {
		return nil, err
	}
	if err := s.checkNotPast(merged.Date); err != nil {
		return nil, err
	}
	if err := s.checkDeskBookable(ctx, merged.DeskID); err != nil {
		return nil, err
	}

	lockID, err := s.acquireAdmissionLock(ctx, merged.DeskID, merged.Date)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseAdmissionLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release admission lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, merged); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, reserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			return apperrors.Internal("Failed to update reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return nil, err
	}

	s.publishEvent(ctx, model.EventReservationUpdated, merged, actorID)

	s.cfg.Log.Info("Reservation updated", "id", id)
	return merged, nil
}

// Cancel marks a reservation cancelled, freeing its slot. Cancelling an
// already-cancelled reservation is a no-op that reports success.
func (s *reservationService) Cancel(ctx context.Context, id, actorID string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	if err := s.checkOwnership(existing, actorID); err != nil {
		return nil, err
	}

	if existing.Status == model.StatusCancelled {
		return existing, nil
	}

	if _, err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to cancel reservation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel reservation", err)
	}

	existing.Status = model.StatusCancelled
	s.publishEvent(ctx, model.EventReservationCancelled, existing, actorID)

	s.cfg.Log.Info("Reservation cancelled", "id", id)
	return existing, nil
}

// Delete removes the reservation document entirely, unlike Cancel which
// keeps it for history.
func (s *reservationService) Delete(ctx context.Context, id, actorID string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapLookupError(err, id)
	}
	if err := s.checkOwnership(existing, actorID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to delete reservation", "id", id, "error", err)
		return apperrors.Internal("Failed to delete reservation", err)
	}

	s.publishEvent(ctx, model.EventReservationDeleted, existing, actorID)

	s.cfg.Log.Info("Reservation deleted", "id", id)
	return nil
}

// ListAvailability returns the occupied slots for a desk on a date, ordered
// by ascending start time. Reading it and then requesting is advisory only;
// admission re-checks under the lock.
func (s *reservationService) ListAvailability(ctx context.Context, deskID, date string) ([]model.TimeSlot, error) {
	if deskID == "" {
		return nil, apperrors.InvalidInput("Desk ID cannot be empty")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	if _, err := s.desks.GetByID(ctx, deskID); err != nil {
		return nil, err
	}

	reservations, err := s.repo.FindConfirmedByDeskAndDate(ctx, deskID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability", "desk_id", deskID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	// The ordering guarantee belongs to the service, not to whatever order
	// the repository happens to yield.
	occupied := make([]interval.Interval, 0, len(reservations))
	for _, r := range reservations {
		iv, err := interval.Parse(r.StartTime, r.EndTime)
		if err != nil {
			s.cfg.Log.Warn("Skipping reservation with unparseable times", "id", r.ID)
			continue
		}
		occupied = append(occupied, iv)
	}
	interval.SortByStart(occupied)

	slots := make([]model.TimeSlot, 0, len(occupied))
	for _, iv := range occupied {
		slots = append(slots, model.TimeSlot{
			StartTime: iv.Start.String(),
			EndTime:   iv.End.String(),
		})
	}

	return slots, nil
}

// --- Helpers ---

func (s *reservationService) validate(reservation *model.Reservation) error {
	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)

		var intervalErr *validator.IntervalError
		if errors.As(err, &intervalErr) {
			return apperrors.InvalidInterval(intervalErr.Message)
		}
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *reservationService) checkNotPast(date string) error {
	today := time.Now().Format(dateLayout)
	if date < today {
		return apperrors.PastDate(date)
	}
	return nil
}

func (s *reservationService) checkDeskBookable(ctx context.Context, deskID string) error {
	desk, err := s.desks.GetByID(ctx, deskID)
	if err != nil {
		return err
	}
	if !desk.Bookable {
		return apperrors.NotAvailable("Desk")
	}
	return nil
}

// checkOwnership enforces the owner-only rule for mutations. The scheduler
// never trusts an absent caller identity, even though the HTTP layer already
// rejects unauthenticated requests. Reservations without an owner remain
// mutable by any authenticated caller.
func (s *reservationService) checkOwnership(reservation *model.Reservation, actorID string) error {
	if actorID == "" {
		return apperrors.Unauthorized("Authentication required")
	}
	if reservation.OwnerID != "" && reservation.OwnerID != actorID {
		return apperrors.Forbidden("Reservation belongs to another user")
	}
	return nil
}

func (s *reservationService) mapLookupError(err error, id string) error {
	if errors.Is(err, reserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Reservation", id)
	}
	if errors.Is(err, reserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid reservation ID format")
	}
	return apperrors.Internal("Failed to retrieve reservation", err)
}

func (s *reservationService) mergeUpdates(existing *model.Reservation, updates *model.ReservationUpdate) (*model.Reservation, bool) {
	merged := *existing
	changed := false

	if updates.DeskID != "" && updates.DeskID != merged.DeskID {
		merged.DeskID = updates.DeskID
		changed = true
	}
	if updates.Date != "" && updates.Date != merged.Date {
		merged.Date = updates.Date
		changed = true
	}
	if updates.StartTime != "" && updates.StartTime != merged.StartTime {
		merged.StartTime = updates.StartTime
		changed = true
	}
	if updates.EndTime != "" && updates.EndTime != merged.EndTime {
		merged.EndTime = updates.EndTime
		changed = true
	}

	return &merged, changed
}

// verifyNoOverlap re-reads the confirmed reservations for the target desk
// and date inside the transaction and rejects if the candidate interval
// overlaps any of them. The candidate's own document is skipped so updates
// do not conflict with themselves.
func (s *reservationService) verifyNoOverlap(ctx context.Context, reservation *model.Reservation) error {
	candidate, err := interval.Parse(reservation.StartTime, reservation.EndTime)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	existing, err := s.repo.FindConfirmedByDeskAndDate(ctx, reservation.DeskID, reservation.Date)
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}

	occupied := make([]interval.Interval, 0, len(existing))
	for _, r := range existing {
		if r.ID == reservation.ID {
			continue
		}
		iv, err := interval.Parse(r.StartTime, r.EndTime)
		if err != nil {
			s.cfg.Log.Warn("Skipping reservation with unparseable times", "id", r.ID)
			continue
		}
		occupied = append(occupied, iv)
	}

	if interval.AnyOverlap(candidate, occupied) {
		return apperrors.Conflict(fmt.Sprintf(
			"Requested interval %s overlaps an existing reservation", candidate,
		))
	}

	return nil
}

// acquireAdmissionLock inserts the advisory lock document for a (desk, date)
// pair, retrying a bounded number of times when another request holds it.
// Exhausting the attempts surfaces as a conflict, not an internal error.
func (s *reservationService) acquireAdmissionLock(ctx context.Context, deskID, date string) (string, error) {
	lockID := fmt.Sprintf("res_lock_%s_%s", deskID, date)

	for attempt := 1; attempt <= s.cfg.AdmissionMaxAttempts; attempt++ {
		lock := &model.ReservationLock{
			ID:        lockID,
			ExpiresAt: time.Now().Add(s.cfg.AdmissionLockTTL),
		}

		_, err := s.lockRepo.Create(ctx, lock)
		if err == nil {
			return lockID, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Internal("Failed to acquire admission lock", err)
		}

		if attempt < s.cfg.AdmissionMaxAttempts {
			select {
			case <-ctx.Done():
				return "", apperrors.Timeout("Request cancelled while waiting for admission lock")
			case <-time.After(s.cfg.AdmissionRetryDelay):
			}
		}
	}

	return "", apperrors.Conflict("This desk is being reserved by another request. Please try again.")
}

func (s *reservationService) releaseAdmissionLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// publishEvent is best-effort: a broker failure is logged but never undoes
// the committed reservation change.
func (s *reservationService) publishEvent(ctx context.Context, eventType string, reservation *model.Reservation, actorID string) {
	event := &model.ReservationEvent{
		Type:        eventType,
		Reservation: reservation,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
	}

	if err := s.events.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}
