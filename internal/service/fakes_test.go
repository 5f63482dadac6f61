package service

import (
	"context"
	"time"

	"session-scheduler/internal/model"
	"session-scheduler/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory stores standing in for the pgx repositories. The fake tx
// manager snapshots them before each transaction and restores the snapshot
// when the transaction fails, mimicking a rollback.

type fakeSlotStore struct {
	slots       map[int64]*model.Slot
	nextID      int64
	lastBooking *time.Time
	saveErr     error
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[int64]*model.Slot)}
}

func (f *fakeSlotStore) clone() map[int64]*model.Slot {
	snap := make(map[int64]*model.Slot, len(f.slots))
	for id, slot := range f.slots {
		copied := *slot
		snap[id] = &copied
	}
	return snap
}

func (f *fakeSlotStore) GetSlot(_ context.Context, id int64) (*model.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeSlotStore) GetSlotsForWeek(_ context.Context, courseID, ownerID int64, year, week int) ([]*model.Slot, error) {
	var out []*model.Slot
	for _, slot := range f.slots {
		if slot.CourseID != courseID || slot.Year != year || slot.Week != week {
			continue
		}
		if ownerID != 0 && slot.OwnerID != ownerID {
			continue
		}
		copied := *slot
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeSlotStore) SaveSlot(_ context.Context, slot *model.Slot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if slot.ID == 0 {
		f.nextID++
		slot.ID = f.nextID
		slot.CreatedAt = time.Now()
	}
	copied := *slot
	f.slots[slot.ID] = &copied
	return nil
}

func (f *fakeSlotStore) UpdateSlotStatus(_ context.Context, id int64, status model.SlotStatus) error {
	slot, ok := f.slots[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	slot.Status = status
	return nil
}

func (f *fakeSlotStore) DeleteSlot(_ context.Context, id int64) error {
	if _, ok := f.slots[id]; !ok {
		return repository.ErrNoRowsAffected
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeSlotStore) DeleteOpenSlots(_ context.Context, courseID int64, year, week int, ownerID int64) (int64, error) {
	var deleted int64
	for id, slot := range f.slots {
		if slot.CourseID == courseID && slot.Year == year && slot.Week == week &&
			slot.OwnerID == ownerID && slot.Status == model.SlotStatusOpen {
			delete(f.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeSlotStore) GetFirstPostedSlot(_ context.Context, ownerID int64) (*model.Slot, error) {
	var first *model.Slot
	for _, slot := range f.slots {
		if slot.OwnerID != ownerID {
			continue
		}
		if first == nil || slot.ID < first.ID {
			first = slot
		}
	}
	if first == nil {
		return nil, nil
	}
	copied := *first
	return &copied, nil
}

func (f *fakeSlotStore) GetLastBooking(_ context.Context, _, _ int64) (*time.Time, error) {
	return f.lastBooking, nil
}

func (f *fakeSlotStore) GetSlotCount(_ context.Context, courseID, ownerID int64) (int, error) {
	count := 0
	for _, slot := range f.slots {
		if slot.CourseID == courseID && slot.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

type fakeBookingStore struct {
	bookings map[int64]*model.Booking
	nextID   int64

	// hideFromLookup makes triple lookups miss, simulating a concurrent
	// insert racing past the duplicate pre-check.
	hideFromLookup bool
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[int64]*model.Booking)}
}

func (f *fakeBookingStore) clone() map[int64]*model.Booking {
	snap := make(map[int64]*model.Booking, len(f.bookings))
	for id, b := range f.bookings {
		copied := *b
		copied.Slot = nil
		snap[id] = &copied
	}
	return snap
}

func (f *fakeBookingStore) GetBooking(_ context.Context, criteria repository.BookingCriteria) (*model.Booking, error) {
	if criteria.ID != 0 {
		b, ok := f.bookings[criteria.ID]
		if !ok {
			return nil, nil
		}
		copied := *b
		return &copied, nil
	}
	if f.hideFromLookup {
		return nil, nil
	}
	for _, b := range f.bookings {
		if b.Triple() == *criteria.Triple && (!criteria.ActiveOnly || b.Active) {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) GetBookingsForUser(_ context.Context, userID int64, _ bool) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.StudentID == userID || b.InstructorID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) SaveBooking(_ context.Context, booking *model.Booking) error {
	if booking.ID == 0 {
		// The partial unique index on active triples.
		if booking.Active {
			for _, b := range f.bookings {
				if b.Active && b.Triple() == booking.Triple() {
					return &pgconn.PgError{Code: "23505", ConstraintName: "idx_bookings_active_triple"}
				}
			}
		}
		f.nextID++
		booking.ID = f.nextID
	}
	booking.LastModified = time.Now()
	copied := *booking
	copied.Slot = nil
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingStore) DeleteBooking(_ context.Context, criteria repository.BookingCriteria) (int64, error) {
	if criteria.ID != 0 {
		if _, ok := f.bookings[criteria.ID]; !ok {
			return 0, nil
		}
		delete(f.bookings, criteria.ID)
		return 1, nil
	}
	var deleted int64
	for id, b := range f.bookings {
		if b.Triple() == *criteria.Triple && (!criteria.ActiveOnly || b.Active) {
			delete(f.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeBookingStore) ConfirmBooking(_ context.Context, courseID, studentID, exerciseID int64) error {
	triple := model.TripleKey{CourseID: courseID, StudentID: studentID, ExerciseID: exerciseID}
	for _, b := range f.bookings {
		if b.Active && b.Triple() == triple {
			b.Confirmed = true
			b.LastModified = time.Now()
			return nil
		}
	}
	return repository.ErrNoRowsAffected
}

func (f *fakeBookingStore) SetBookingInactive(_ context.Context, booking *model.Booking) error {
	b, ok := f.bookings[booking.ID]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	b.Active = false
	b.LastModified = time.Now()
	booking.Active = false
	return nil
}

func (f *fakeBookingStore) GetLastBookedSession(_ context.Context, userID int64, isInstructor bool) (*model.Booking, error) {
	var last *model.Booking
	for _, b := range f.bookings {
		match := b.StudentID == userID
		if isInstructor {
			match = b.InstructorID == userID
		}
		if match && (last == nil || b.LastModified.After(last.LastModified)) {
			last = b
		}
	}
	if last == nil {
		return nil, nil
	}
	copied := *last
	return &copied, nil
}

// fakeTxManager mimics transactional semantics over the in-memory stores:
// on any error the pre-transaction snapshot is restored.
type fakeTxManager struct {
	slots     *fakeSlotStore
	bookings  *fakeBookingStore
	commitErr error
}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, stores repository.TxStores) error) error {
	slotSnap := m.slots.clone()
	bookingSnap := m.bookings.clone()

	err := fn(ctx, repository.TxStores{Slots: m.slots, Bookings: m.bookings})
	if err == nil {
		err = m.commitErr
	}
	if err != nil {
		m.slots.slots = slotSnap
		m.bookings.bookings = bookingSnap
		return err
	}
	return nil
}

type recordingNotifier struct {
	calls   []string
	reasons []string
}

func (n *recordingNotifier) NotifyStudentBooked(context.Context, *model.Booking) {
	n.calls = append(n.calls, "student_booked")
}

func (n *recordingNotifier) NotifyInstructorConfirmed(context.Context, *model.Booking) {
	n.calls = append(n.calls, "instructor_confirmed")
}

func (n *recordingNotifier) NotifyInstructorOfStudentConfirmation(context.Context, *model.Booking) {
	n.calls = append(n.calls, "student_confirmation")
}

func (n *recordingNotifier) NotifySessionCancelled(_ context.Context, _ *model.Booking, reason string) {
	n.calls = append(n.calls, "session_cancelled")
	n.reasons = append(n.reasons, reason)
}

type fakeCourseStore struct {
	courses map[int64]*model.Course
}

func (f *fakeCourseStore) GetCourse(_ context.Context, id int64) (*model.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	copied := *course
	return &copied, nil
}

type fakeParticipantStore struct {
	students    map[int64]*model.Student
	instructors map[int64]*model.Instructor
	lastGraded  *time.Time
}

func (f *fakeParticipantStore) GetStudent(_ context.Context, courseID, studentID int64) (*model.Student, error) {
	student, ok := f.students[studentID]
	if !ok || student.CourseID != courseID {
		return nil, nil
	}
	copied := *student
	return &copied, nil
}

func (f *fakeParticipantStore) GetInstructor(_ context.Context, instructorID int64) (*model.Instructor, error) {
	instructor, ok := f.instructors[instructorID]
	if !ok {
		return nil, nil
	}
	copied := *instructor
	return &copied, nil
}

func (f *fakeParticipantStore) GetLastGradedDate(_ context.Context, _, _ int64) (*time.Time, error) {
	return f.lastGraded, nil
}
