package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"deskly/internal/reservations/publisher"
	"deskly/internal/reservations/validator"
	"deskly/pkg/config"
	mongotx "deskly/pkg/db/mongo"
	apperrors "deskly/pkg/errors"
	"deskly/pkg/logger"
	"deskly/pkg/model"

	reserrors "deskly/internal/reservations/errors"
)

const (
	testDeskID  = "507f1f77bcf86cd799439011"
	testDeskID2 = "507f1f77bcf86cd799439022"
	testOwnerID = "507f1f77bcf86cd799439033"
	testDate    = "2030-06-15"
)

// memoryReservationRepository is an in-memory stand-in for the Mongo
// repository. Transactions degrade to direct execution, which is fine for
// exercising the admission logic: mutual exclusion in these tests comes
// from the lock repository, exactly as it does in production.
type memoryReservationRepository struct {
	mu   sync.Mutex
	docs map[string]*model.Reservation
}

func newMemoryReservationRepository() *memoryReservationRepository {
	return &memoryReservationRepository{docs: make(map[string]*model.Reservation)}
}

func (m *memoryReservationRepository) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = primitive.NewObjectID().Hex()
	r.CreatedAt = time.Now()
	clone := *r
	m.docs[r.ID] = &clone
	return nil
}

func (m *memoryReservationRepository) FindByID(_ context.Context, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, reserrors.ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func matchesFilter(doc *model.Reservation, filter *model.ReservationFilter) bool {
	if filter == nil {
		return true
	}
	if filter.DeskID != "" && doc.DeskID != filter.DeskID {
		return false
	}
	if filter.Date != "" && doc.Date != filter.Date {
		return false
	}
	if filter.Status != "" && doc.Status != filter.Status {
		return false
	}
	return true
}

func (m *memoryReservationRepository) FindAll(_ context.Context, filter *model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, doc := range m.docs {
		if matchesFilter(doc, filter) {
			clone := *doc
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memoryReservationRepository) Count(_ context.Context, filter *model.ReservationFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, doc := range m.docs {
		if matchesFilter(doc, filter) {
			count++
		}
	}
	return count, nil
}

func (m *memoryReservationRepository) FindByOwner(_ context.Context, ownerID string, limit int, offset int64) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, doc := range m.docs {
		if doc.OwnerID == ownerID {
			clone := *doc
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memoryReservationRepository) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	out, _ := m.FindByOwner(context.Background(), ownerID, 0, 0)
	return int64(len(out)), nil
}

func (m *memoryReservationRepository) FindConfirmedByDeskAndDate(_ context.Context, deskID, date string) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, doc := range m.docs {
		if doc.DeskID == deskID && doc.Date == date && doc.Status == model.StatusConfirmed {
			clone := *doc
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memoryReservationRepository) Update(_ context.Context, id string, r *model.Reservation) (*mongo.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, reserrors.ErrNotFound
	}
	doc.DeskID = r.DeskID
	doc.Date = r.Date
	doc.StartTime = r.StartTime
	doc.EndTime = r.EndTime
	doc.Status = r.Status
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memoryReservationRepository) UpdateStatus(_ context.Context, id string, status string) (*mongo.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, reserrors.ErrNotFound
	}
	doc.Status = status
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memoryReservationRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return reserrors.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memoryReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

// memoryLockRepository reproduces the unique-_id insert semantics the real
// admission lock relies on.
type memoryLockRepository struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

func newMemoryLockRepository() *memoryLockRepository {
	return &memoryLockRepository{locks: make(map[string]struct{})}
}

func (m *memoryLockRepository) Create(_ context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[lock.ID]; held {
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{
			{Code: 11000},
		}}
	}
	m.locks[lock.ID] = struct{}{}
	return lock, nil
}

func (m *memoryLockRepository) Delete(_ context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockID)
	return nil
}

type mockDeskCatalog struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Desk, error)
}

func (m *mockDeskCatalog) GetByID(ctx context.Context, id string) (*model.Desk, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Desk{ID: id, Name: "Desk", Bookable: true}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*model.ReservationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event *model.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type testEnv struct {
	service ReservationService
	repo    *memoryReservationRepository
	locks   *memoryLockRepository
	desks   *mockDeskCatalog
	events  *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	cfg := &config.Config{
		Log:                  log,
		ReadTimeout:          5 * time.Second,
		WriteTimeout:         5 * time.Second,
		AdmissionLockTTL:     time.Second,
		AdmissionMaxAttempts: 3,
		AdmissionRetryDelay:  2 * time.Millisecond,
	}

	env := &testEnv{
		repo:   newMemoryReservationRepository(),
		locks:  newMemoryLockRepository(),
		desks:  &mockDeskCatalog{},
		events: &recordingPublisher{},
	}

	env.service = NewReservationService(
		env.repo,
		env.locks,
		validator.NewReservationValidator(log),
		env.desks,
		env.events,
		cfg,
	)

	return env
}

func newRequest(start, end string) *model.Reservation {
	return &model.Reservation{
		DeskID:    testDeskID,
		OwnerID:   testOwnerID,
		Date:      testDate,
		StartTime: start,
		EndTime:   end,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected code %s, got: %v", code, err)
	}
}

func TestRequest_Success(t *testing.T) {
	env := newTestEnv(t)

	r := newRequest("09:00", "11:00")
	if err := env.service.Request(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.ID == "" {
		t.Error("expected reservation to receive an ID")
	}
	if r.Status != model.StatusConfirmed {
		t.Errorf("expected status %q, got %q", model.StatusConfirmed, r.Status)
	}

	types := env.events.eventTypes()
	if len(types) != 1 || types[0] != model.EventReservationCreated {
		t.Errorf("expected one created event, got %v", types)
	}
}

func TestRequest_ValidationFailures(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(*model.Reservation)
		code   string
	}{
		{"missing desk", func(r *model.Reservation) { r.DeskID = "" }, apperrors.CodeValidation},
		{"zero length interval", func(r *model.Reservation) { r.EndTime = r.StartTime }, apperrors.CodeInvalidInterval},
		{"inverted interval", func(r *model.Reservation) { r.StartTime, r.EndTime = r.EndTime, r.StartTime }, apperrors.CodeInvalidInterval},
		{"malformed time", func(r *model.Reservation) { r.StartTime = "9am" }, apperrors.CodeValidation},
		{"malformed date", func(r *model.Reservation) { r.Date = "June 15" }, apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRequest("09:00", "11:00")
			tt.mutate(r)
			assertCode(t, env.service.Request(context.Background(), r), tt.code)
		})
	}
}

func TestRequest_PastDate(t *testing.T) {
	env := newTestEnv(t)

	r := newRequest("09:00", "11:00")
	r.Date = "2020-01-01"

	assertCode(t, env.service.Request(context.Background(), r), apperrors.CodePastDate)
}

func TestRequest_DeskNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.desks.getByIDFunc = func(ctx context.Context, id string) (*model.Desk, error) {
		return nil, apperrors.NotFoundWithID("desk", id)
	}

	assertCode(t, env.service.Request(context.Background(), newRequest("09:00", "11:00")), apperrors.CodeNotFound)
}

func TestRequest_DeskNotBookable(t *testing.T) {
	env := newTestEnv(t)
	env.desks.getByIDFunc = func(ctx context.Context, id string) (*model.Desk, error) {
		return &model.Desk{ID: id, Name: "Broken desk", Bookable: false}, nil
	}

	assertCode(t, env.service.Request(context.Background(), newRequest("09:00", "11:00")), apperrors.CodeNotAvailable)
}

func TestRequest_OverlapConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.service.Request(ctx, newRequest("09:00", "11:00")); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}

	tests := []struct {
		name       string
		start, end string
	}{
		{"identical interval", "09:00", "11:00"},
		{"overlaps tail", "10:00", "12:00"},
		{"overlaps head", "08:00", "09:30"},
		{"contained inside", "09:30", "10:30"},
		{"contains existing", "08:00", "12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, env.service.Request(ctx, newRequest(tt.start, tt.end)), apperrors.CodeConflict)
		})
	}
}

func TestRequest_TouchingIntervalsDoNotConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.service.Request(ctx, newRequest("09:00", "10:00")); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}

	// Half-open semantics: [09:00,10:00) and [10:00,11:00) share no instant.
	if err := env.service.Request(ctx, newRequest("10:00", "11:00")); err != nil {
		t.Fatalf("back-to-back request after existing failed: %v", err)
	}
	if err := env.service.Request(ctx, newRequest("08:00", "09:00")); err != nil {
		t.Fatalf("back-to-back request before existing failed: %v", err)
	}
}

func TestRequest_OtherDeskAndDateUnaffected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.service.Request(ctx, newRequest("09:00", "11:00")); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}

	other := newRequest("09:00", "11:00")
	other.DeskID = testDeskID2
	if err := env.service.Request(ctx, other); err != nil {
		t.Errorf("same interval on another desk should succeed: %v", err)
	}

	otherDay := newRequest("09:00", "11:00")
	otherDay.Date = "2030-06-16"
	if err := env.service.Request(ctx, otherDay); err != nil {
		t.Errorf("same interval on another date should succeed: %v", err)
	}
}

func TestRequest_ConcurrentSameSlot_OneWinner(t *testing.T) {
	env := newTestEnv(t)

	const requesters = 16
	var wg sync.WaitGroup
	errs := make([]error, requesters)

	for i := 0; i < requesters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.service.Request(context.Background(), newRequest("09:00", "11:00"))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperrors.HasCode(err, apperrors.CodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error kind: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("expected exactly 1 admitted reservation, got %d", wins)
	}
	if conflicts != requesters-1 {
		t.Errorf("expected %d conflicts, got %d", requesters-1, conflicts)
	}

	stored, _ := env.repo.FindConfirmedByDeskAndDate(context.Background(), testDeskID, testDate)
	if len(stored) != 1 {
		t.Errorf("expected 1 stored reservation, got %d", len(stored))
	}
}

func TestCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	r := newRequest("09:00", "11:00")
	if err := env.service.Request(ctx, r); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}

	t.Run("wrong owner forbidden", func(t *testing.T) {
		_, err := env.service.Cancel(ctx, r.ID, "507f1f77bcf86cd799439099")
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelled, err := env.service.Cancel(ctx, r.ID, testOwnerID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cancelled.Status != model.StatusCancelled {
			t.Errorf("expected status cancelled, got %q", cancelled.Status)
		}
	})

	t.Run("cancel of cancelled is a no-op", func(t *testing.T) {
		before := len(env.events.eventTypes())
		cancelled, err := env.service.Cancel(ctx, r.ID, testOwnerID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cancelled.Status != model.StatusCancelled {
			t.Errorf("expected status cancelled, got %q", cancelled.Status)
		}
		if after := len(env.events.eventTypes()); after != before {
			t.Errorf("no-op cancel should not publish events, got %d new", after-before)
		}
	})

	t.Run("cancelled slot can be rebooked", func(t *testing.T) {
		if err := env.service.Request(ctx, newRequest("09:00", "11:00")); err != nil {
			t.Fatalf("rebooking a cancelled slot should succeed: %v", err)
		}
	})

	t.Run("unknown id not found", func(t *testing.T) {
		_, err := env.service.Cancel(ctx, primitive.NewObjectID().Hex(), testOwnerID)
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := newRequest("09:00", "11:00")
	if err := env.service.Request(ctx, first); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	second := newRequest("13:00", "14:00")
	if err := env.service.Request(ctx, second); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}

	t.Run("shifting within free space succeeds", func(t *testing.T) {
		updated, err := env.service.Update(ctx, first.ID, testOwnerID, &model.ReservationUpdate{
			StartTime: "09:30",
			EndTime:   "11:30",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.StartTime != "09:30" || updated.EndTime != "11:30" {
			t.Errorf("unexpected interval after update: %s-%s", updated.StartTime, updated.EndTime)
		}
	})

	t.Run("own interval does not block the update", func(t *testing.T) {
		// Overlaps its previous position only.
		if _, err := env.service.Update(ctx, first.ID, testOwnerID, &model.ReservationUpdate{
			StartTime: "10:00",
			EndTime:   "12:00",
		}); err != nil {
			t.Fatalf("update overlapping only itself should succeed: %v", err)
		}
	})

	t.Run("moving onto another reservation conflicts", func(t *testing.T) {
		_, err := env.service.Update(ctx, first.ID, testOwnerID, &model.ReservationUpdate{
			StartTime: "12:30",
			EndTime:   "13:30",
		})
		assertCode(t, err, apperrors.CodeConflict)
	})

	t.Run("no-op update returns current state", func(t *testing.T) {
		updated, err := env.service.Update(ctx, second.ID, testOwnerID, &model.ReservationUpdate{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.StartTime != "13:00" || updated.EndTime != "14:00" {
			t.Errorf("no-op update changed the interval: %s-%s", updated.StartTime, updated.EndTime)
		}
	})

	t.Run("wrong owner forbidden", func(t *testing.T) {
		_, err := env.service.Update(ctx, second.ID, "507f1f77bcf86cd799439099", &model.ReservationUpdate{
			StartTime: "15:00",
			EndTime:   "16:00",
		})
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("moving to a past date rejected", func(t *testing.T) {
		_, err := env.service.Update(ctx, second.ID, testOwnerID, &model.ReservationUpdate{Date: "2020-01-01"})
		assertCode(t, err, apperrors.CodePastDate)
	})

	t.Run("cancelled reservation cannot be updated", func(t *testing.T) {
		if _, err := env.service.Cancel(ctx, second.ID, testOwnerID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		_, err := env.service.Update(ctx, second.ID, testOwnerID, &model.ReservationUpdate{
			StartTime: "15:00",
			EndTime:   "16:00",
		})
		assertCode(t, err, apperrors.CodeConflict)
	})
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	r := newRequest("09:00", "11:00")
	if err := env.service.Request(ctx, r); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}

	t.Run("wrong owner forbidden", func(t *testing.T) {
		assertCode(t, env.service.Delete(ctx, r.ID, "507f1f77bcf86cd799439099"), apperrors.CodeForbidden)
	})

	t.Run("owner deletes", func(t *testing.T) {
		if err := env.service.Delete(ctx, r.ID, testOwnerID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := env.service.GetByID(ctx, r.ID)
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("delete of deleted not found", func(t *testing.T) {
		assertCode(t, env.service.Delete(ctx, r.ID, testOwnerID), apperrors.CodeNotFound)
	})
}

func TestListAvailability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("empty desk has no occupied slots", func(t *testing.T) {
		slots, err := env.service.ListAvailability(ctx, testDeskID, testDate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 0 {
			t.Errorf("expected no slots, got %d", len(slots))
		}
	})

	if err := env.service.Request(ctx, newRequest("13:00", "14:00")); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	if err := env.service.Request(ctx, newRequest("09:00", "11:00")); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	if err := env.service.Request(ctx, newRequest("11:00", "12:00")); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	cancelled := newRequest("15:00", "16:00")
	if err := env.service.Request(ctx, cancelled); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	if _, err := env.service.Cancel(ctx, cancelled.ID, testOwnerID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	t.Run("slots are ordered and exclude cancelled", func(t *testing.T) {
		slots, err := env.service.ListAvailability(ctx, testDeskID, testDate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []model.TimeSlot{
			{StartTime: "09:00", EndTime: "11:00"},
			{StartTime: "11:00", EndTime: "12:00"},
			{StartTime: "13:00", EndTime: "14:00"},
		}
		if len(slots) != len(want) {
			t.Fatalf("expected %d occupied slots, got %d", len(want), len(slots))
		}
		for i, slot := range slots {
			if slot != want[i] {
				t.Errorf("slot %d: expected %v, got %v", i, want[i], slot)
			}
		}
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		_, err := env.service.ListAvailability(ctx, testDeskID, "someday")
		assertCode(t, err, apperrors.CodeInvalidInput)
	})

	t.Run("unknown desk not found", func(t *testing.T) {
		env.desks.getByIDFunc = func(ctx context.Context, id string) (*model.Desk, error) {
			return nil, apperrors.NotFoundWithID("desk", id)
		}
		defer func() { env.desks.getByIDFunc = nil }()

		_, err := env.service.ListAvailability(ctx, testDeskID, testDate)
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestMutationsRequireActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	r := newRequest("09:00", "10:00")
	if err := env.service.Request(ctx, r); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}

	t.Run("update without actor", func(t *testing.T) {
		_, err := env.service.Update(ctx, r.ID, "", &model.ReservationUpdate{StartTime: "11:00", EndTime: "12:00"})
		assertCode(t, err, apperrors.CodeUnauthorized)
	})

	t.Run("cancel without actor", func(t *testing.T) {
		_, err := env.service.Cancel(ctx, r.ID, "")
		assertCode(t, err, apperrors.CodeUnauthorized)
	})

	t.Run("delete without actor", func(t *testing.T) {
		assertCode(t, env.service.Delete(ctx, r.ID, ""), apperrors.CodeUnauthorized)
	})

	t.Run("reservation is untouched", func(t *testing.T) {
		got, err := env.service.GetByID(ctx, r.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != model.StatusConfirmed || got.StartTime != "09:00" {
			t.Errorf("reservation mutated without an actor: %+v", got)
		}
	})
}

func TestGetAll_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.service.Request(ctx, newRequest("09:00", "10:00")); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	other := newRequest("09:00", "10:00")
	other.DeskID = testDeskID2
	if err := env.service.Request(ctx, other); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	cancelled := newRequest("11:00", "12:00")
	if err := env.service.Request(ctx, cancelled); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	if _, err := env.service.Cancel(ctx, cancelled.ID, testOwnerID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	t.Run("no filter returns everything", func(t *testing.T) {
		reservations, total, err := env.service.GetAll(ctx, nil, 10, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 3 || len(reservations) != 3 {
			t.Errorf("expected 3 reservations, got total=%d len=%d", total, len(reservations))
		}
	})

	t.Run("filter by desk", func(t *testing.T) {
		_, total, err := env.service.GetAll(ctx, &model.ReservationFilter{DeskID: testDeskID2}, 10, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 {
			t.Errorf("expected 1 reservation on the other desk, got %d", total)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		reservations, total, err := env.service.GetAll(ctx, &model.ReservationFilter{Status: model.StatusCancelled}, 10, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 || len(reservations) != 1 {
			t.Fatalf("expected 1 cancelled reservation, got total=%d len=%d", total, len(reservations))
		}
		if reservations[0].ID != cancelled.ID {
			t.Errorf("expected the cancelled reservation, got %s", reservations[0].ID)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, _, err := env.service.GetAll(ctx, &model.ReservationFilter{Status: "pending"}, 10, 0)
		assertCode(t, err, apperrors.CodeInvalidInput)
	})
}

// Ensure the nop publisher satisfies the interface the service depends on.
var _ publisher.Publisher = (*recordingPublisher)(nil)
