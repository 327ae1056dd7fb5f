package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

// -- Mocks --

// mockSlotRepo implements the conditional-write semantics of the real
// repository: Reserve only succeeds when the slot is still available.
type mockSlotRepo struct {
	mu    sync.Mutex
	slots map[int64]*TimeSlot
}

func newMockSlotRepo() *mockSlotRepo {
	return &mockSlotRepo{slots: make(map[int64]*TimeSlot)}
}

func (m *mockSlotRepo) add(s TimeSlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s
	m.slots[s.ID] = &cp
}

func (m *mockSlotRepo) available(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	return ok && s.IsAvailable
}

func (m *mockSlotRepo) GetForDoctor(_ context.Context, slotID, doctorID int64) (*TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok || s.DoctorID != doctorID {
		return nil, db.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSlotRepo) Reserve(_ context.Context, slotID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok || !s.IsAvailable {
		return ErrSlotUnavailable
	}
	s.IsAvailable = false
	return nil
}

func (m *mockSlotRepo) Release(_ context.Context, slotID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[slotID]; ok {
		s.IsAvailable = true
	}
	return nil
}

type mockApptRepo struct {
	mu        sync.Mutex
	appts     map[int64]*Appointment
	nextID    int64
	createErr error
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[int64]*Appointment), nextID: 1}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	// Same rule as the partial unique index: one non-cancelled
	// appointment per slot.
	for _, other := range m.appts {
		if other.SlotID == a.SlotID && other.Status != StatusCancelled {
			return fmt.Errorf("slot %d already has a live appointment", a.SlotID)
		}
	}
	a.ID = m.nextID
	m.nextID++
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id int64) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) ListByPatient(_ context.Context, patientID int64, status string) ([]*AppointmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*AppointmentDetail
	for _, a := range m.appts {
		if a.PatientID == patientID && (status == "" || a.Status == status) {
			items = append(items, &AppointmentDetail{ID: a.ID, DoctorID: a.DoctorID, PatientID: a.PatientID, Status: a.Status, ReasonForVisit: a.ReasonForVisit})
		}
	}
	return items, nil
}

func (m *mockApptRepo) ListByDoctor(_ context.Context, doctorID int64, status string) ([]*AppointmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*AppointmentDetail
	for _, a := range m.appts {
		if a.DoctorID == doctorID && (status == "" || a.Status == status) {
			items = append(items, &AppointmentDetail{ID: a.ID, DoctorID: a.DoctorID, PatientID: a.PatientID, Status: a.Status, ReasonForVisit: a.ReasonForVisit})
		}
	}
	return items, nil
}

func (m *mockApptRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return db.ErrNotFound
	}
	a.Status = status
	return nil
}

// rollbackTx emulates the database transaction: when fn fails, slot
// availability is restored to its pre-transaction state.
type rollbackTx struct {
	slots *mockSlotRepo
	mu    sync.Mutex
}

func (r *rollbackTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots.mu.Lock()
	snapshot := make(map[int64]bool, len(r.slots.slots))
	for id, s := range r.slots.slots {
		snapshot[id] = s.IsAvailable
	}
	r.slots.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.slots.mu.Lock()
		for id, avail := range snapshot {
			r.slots.slots[id].IsAvailable = avail
		}
		r.slots.mu.Unlock()
		return err
	}
	return nil
}

func newTestService() (*Service, *mockSlotRepo, *mockApptRepo) {
	slots := newMockSlotRepo()
	appts := newMockApptRepo()
	svc := NewService(slots, appts, &rollbackTx{slots: slots})
	return svc, slots, appts
}

func patient(id int64) auth.Identity {
	return auth.Identity{ID: id, Role: auth.RolePatient}
}

// -- Tests --

func TestBook_Success(t *testing.T) {
	svc, slots, appts := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	id, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected appointment id")
	}

	a := appts.appts[id]
	if a.Status != StatusScheduled {
		t.Errorf("expected scheduled status, got %s", a.Status)
	}
	if slots.available(1) {
		t.Error("slot must be unavailable after booking")
	}
}

func TestBook_RejectsDoctor(t *testing.T) {
	svc, slots, _ := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	_, err := svc.Book(context.Background(), auth.Identity{ID: 10, Role: auth.RoleDoctor},
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestBook_MissingReason(t *testing.T) {
	svc, slots, _ := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	_, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if !slots.available(1) {
		t.Error("slot must stay available after a rejected booking")
	}
}

func TestBook_WrongDoctor(t *testing.T) {
	svc, slots, _ := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	_, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 99, SlotID: 1, ReasonForVisit: "checkup"})
	if !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("expected ErrInvalidSlot, got %v", err)
	}
}

func TestBook_SlotAlreadyTaken(t *testing.T) {
	svc, slots, _ := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: false})

	_, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestBook_RollbackRestoresAvailability(t *testing.T) {
	svc, slots, appts := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})
	appts.createErr = fmt.Errorf("insert failed")

	_, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !slots.available(1) {
		t.Error("slot must be available again after the transaction rolls back")
	}
	if len(appts.appts) != 0 {
		t.Error("no appointment must persist after a failed booking")
	}
}

// Exactly one of two concurrent bookings for the same slot wins; the loser
// sees ErrSlotUnavailable.
func TestBook_ConcurrentBookingsOneWinner(t *testing.T) {
	svc, slots, appts := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, pid := range []int64{100, 200} {
		wg.Add(1)
		go func(pid int64) {
			defer wg.Done()
			_, err := svc.Book(context.Background(), patient(pid),
				BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
			results <- err
		}(pid)
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotUnavailable):
			losses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Errorf("expected exactly one winner and one loser, got %d wins %d losses", wins, losses)
	}
	if len(appts.appts) != 1 {
		t.Errorf("expected exactly one appointment, got %d", len(appts.appts))
	}
}

func TestCancel_ReleasesSlot(t *testing.T) {
	svc, slots, _ := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	id, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Cancel(context.Background(), patient(100), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slots.available(1) {
		t.Error("slot must be available again after cancellation")
	}
}

// A cancelled appointment keeps its slot_id for history but must not block
// the freed slot from being booked again.
func TestBook_RebookAfterCancel(t *testing.T) {
	svc, slots, appts := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	first, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Cancel(context.Background(), patient(100), first); err != nil {
		t.Fatal(err)
	}

	second, err := svc.Book(context.Background(), patient(200),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "follow-up"})
	if err != nil {
		t.Fatalf("rebooking a freed slot must succeed: %v", err)
	}
	if slots.available(1) {
		t.Error("slot must be reserved again after the rebooking")
	}
	if appts.appts[first].Status != StatusCancelled {
		t.Error("the cancelled appointment must keep its record")
	}
	if appts.appts[second].Status != StatusScheduled {
		t.Error("the new appointment must be scheduled")
	}
}

func TestCancel_OtherPatientForbidden(t *testing.T) {
	svc, slots, _ := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	id, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if err != nil {
		t.Fatal(err)
	}

	err = svc.Cancel(context.Background(), patient(200), id)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if slots.available(1) {
		t.Error("slot must stay reserved")
	}
}

func TestCancel_CompletedAppointment(t *testing.T) {
	svc, slots, appts := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})

	id, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if err != nil {
		t.Fatal(err)
	}
	appts.appts[id].Status = StatusCompleted

	err = svc.Cancel(context.Background(), patient(100), id)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestList_FiltersByStatus(t *testing.T) {
	svc, slots, _ := newTestService()
	slots.add(TimeSlot{ID: 1, DoctorID: 10, IsAvailable: true})
	slots.add(TimeSlot{ID: 2, DoctorID: 10, IsAvailable: true})

	first, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 1, ReasonForVisit: "checkup"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Book(context.Background(), patient(100),
		BookingInput{DoctorID: 10, SlotID: 2, ReasonForVisit: "follow-up"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Cancel(context.Background(), patient(100), first); err != nil {
		t.Fatal(err)
	}

	scheduled, err := svc.List(context.Background(), patient(100), StatusScheduled)
	if err != nil {
		t.Fatal(err)
	}
	if len(scheduled) != 1 {
		t.Errorf("expected 1 scheduled appointment, got %d", len(scheduled))
	}

	all, err := svc.List(context.Background(), patient(100), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 appointments, got %d", len(all))
	}
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.List(context.Background(), patient(100), "pending")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
