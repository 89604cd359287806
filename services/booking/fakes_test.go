package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"fitbook/models"
)

// memStore backs the in-memory repository fakes. All maps hold values, so a
// transaction snapshot is a plain map copy.
type memStore struct {
	mu       sync.Mutex
	slots    map[string]models.TimeSlot
	bookings map[string]models.Booking
	sessions map[string]models.Session
	requests map[string]models.BookingRequest
	trainers map[string]models.Trainer
	clients  map[string]models.Client

	// afterLock, when set, runs inside the transaction right after a
	// successful lock phase. Tests use it to play the lock-bypassing writer.
	afterLock func()
}

func newMemStore() *memStore {
	return &memStore{
		slots:    make(map[string]models.TimeSlot),
		bookings: make(map[string]models.Booking),
		sessions: make(map[string]models.Session),
		requests: make(map[string]models.BookingRequest),
		trainers: make(map[string]models.Trainer),
		clients:  make(map[string]models.Client),
	}
}

func (s *memStore) addSlot(slot models.TimeSlot)             { s.slots[slot.ID] = slot }
func (s *memStore) addRequest(req models.BookingRequest)     { s.requests[req.ID] = req }
func (s *memStore) addTrainer(trainer models.Trainer)        { s.trainers[trainer.ID] = trainer }
func (s *memStore) addClient(client models.Client)           { s.clients[client.ID] = client }
func (s *memStore) addBooking(b models.Booking)              { s.bookings[b.ID] = b }
func (s *memStore) addSession(sess models.Session)           { s.sessions[sess.ID] = sess }

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// fakeSlotRepo implements the timeslot repository over a memStore.
type fakeSlotRepo struct{ store *memStore }

func (r *fakeSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		r.store.slots[s.ID] = s
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.slots[slotID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (r *fakeSlotRepo) GetByIDs(ctx context.Context, slotIDs []string) ([]models.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.TimeSlot
	for _, id := range slotIDs {
		if s, ok := r.store.slots[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) GetByTrainerAndDate(ctx context.Context, trainerID, date string) ([]models.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.TimeSlot
	for _, s := range r.store.slots {
		if s.TrainerID == trainerID && s.Date == date {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeSlotRepo) GetBookable(ctx context.Context, trainerID string, dates []string, now time.Time) ([]models.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}
	var out []models.TimeSlot
	for _, s := range r.store.slots {
		if s.TrainerID == trainerID && wanted[s.Date] && s.BookableAt(now) {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeSlotRepo) GetByBookingID(ctx context.Context, bookingID string) ([]models.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.TimeSlot
	for _, s := range r.store.slots {
		if s.BookingID == bookingID {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeSlotRepo) ReclaimStaleLocks(ctx context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for id, s := range r.store.slots {
		if !s.Booked && s.LockedUntil != nil && s.LockedUntil.Before(now) {
			s.LockedUntil = nil
			r.store.slots[id] = s
			count++
		}
	}
	return count, nil
}

func (r *fakeSlotRepo) DeleteByID(ctx context.Context, trainerID, slotID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.slots, slotID)
	return nil
}

func (r *fakeSlotRepo) EnsureIndexes(ctx context.Context) error { return nil }

func sortSlots(slots []models.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Start < slots[j].Start
	})
}

// fakeSchedulerRepo implements the scheduler repository. WithTransaction
// serializes on the store mutex and restores a snapshot on error, matching
// the all-or-nothing behavior of the real transaction.
type fakeSchedulerRepo struct{ store *memStore }

func (r *fakeSchedulerRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slots := copyMap(r.store.slots)
	bookings := copyMap(r.store.bookings)
	sessions := copyMap(r.store.sessions)
	requests := copyMap(r.store.requests)

	if err := fn(ctx); err != nil {
		r.store.slots = slots
		r.store.bookings = bookings
		r.store.sessions = sessions
		r.store.requests = requests
		return err
	}
	return nil
}

func (r *fakeSchedulerRepo) LockSlots(ctx context.Context, slotIDs []string, until, now time.Time) (int64, error) {
	var count int64
	for _, id := range slotIDs {
		s, ok := r.store.slots[id]
		if !ok || !s.BookableAt(now) {
			continue
		}
		u := until
		s.LockedUntil = &u
		r.store.slots[id] = s
		count++
	}
	if count == int64(len(slotIDs)) && r.store.afterLock != nil {
		r.store.afterLock()
	}
	return count, nil
}

func (r *fakeSchedulerRepo) UnlockSlots(ctx context.Context, slotIDs []string) error {
	for _, id := range slotIDs {
		if s, ok := r.store.slots[id]; ok {
			s.LockedUntil = nil
			r.store.slots[id] = s
		}
	}
	return nil
}

func (r *fakeSchedulerRepo) CommitSlots(ctx context.Context, slotIDs []string, bookingID string) (int64, error) {
	var count int64
	for _, id := range slotIDs {
		s, ok := r.store.slots[id]
		if !ok || s.Booked {
			continue
		}
		s.Booked = true
		s.BookingID = bookingID
		r.store.slots[id] = s
		count++
	}
	return count, nil
}

func (r *fakeSchedulerRepo) ReleaseSlots(ctx context.Context, bookingID string) (int64, error) {
	var count int64
	for id, s := range r.store.slots {
		if s.BookingID == bookingID {
			s.Booked = false
			s.BookingID = ""
			s.LockedUntil = nil
			r.store.slots[id] = s
			count++
		}
	}
	return count, nil
}

func (r *fakeSchedulerRepo) InsertBooking(ctx context.Context, booking *models.Booking) error {
	r.store.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeSchedulerRepo) InsertSession(ctx context.Context, session *models.Session) error {
	r.store.sessions[session.ID] = *session
	return nil
}

func (r *fakeSchedulerRepo) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) (int64, error) {
	b, ok := r.store.bookings[bookingID]
	if !ok {
		return 0, nil
	}
	b.Status = status
	r.store.bookings[bookingID] = b
	return 1, nil
}

func (r *fakeSchedulerRepo) UpdateSessionStatusByBooking(ctx context.Context, bookingID string, status models.SessionStatus) (int64, error) {
	var count int64
	for id, s := range r.store.sessions {
		if s.BookingID == bookingID {
			s.Status = status
			r.store.sessions[id] = s
			count++
		}
	}
	return count, nil
}

func (r *fakeSchedulerRepo) MoveBooking(ctx context.Context, bookingID, date string, start, end int, slotIDs []string) error {
	b, ok := r.store.bookings[bookingID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	b.Date = date
	b.Start = start
	b.End = end
	b.SlotIDs = slotIDs
	r.store.bookings[bookingID] = b

	for id, s := range r.store.sessions {
		if s.BookingID == bookingID {
			s.Date = date
			s.Start = start
			s.End = end
			r.store.sessions[id] = s
		}
	}
	return nil
}

func (r *fakeSchedulerRepo) ApproveRequest(ctx context.Context, requestID, bookingID string) (int64, error) {
	req, ok := r.store.requests[requestID]
	if !ok || req.Status != models.RequestPending {
		return 0, nil
	}
	req.Status = models.RequestApproved
	req.BookingID = bookingID
	r.store.requests[requestID] = req
	return 1, nil
}

// fakeRequestRepo implements the request repository.
type fakeRequestRepo struct{ store *memStore }

func (r *fakeRequestRepo) Create(ctx context.Context, req *models.BookingRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.requests[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (*models.BookingRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &req, nil
}

func (r *fakeRequestRepo) List(ctx context.Context, filter models.RequestFilter) ([]models.BookingRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.BookingRequest
	for _, req := range r.store.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.TrainerID != "" && req.TrainerID != filter.TrainerID {
			continue
		}
		if filter.ClientID != "" && req.ClientID != filter.ClientID {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeRequestRepo) Reject(ctx context.Context, id, reason string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok || req.Status != models.RequestPending {
		return 0, nil
	}
	req.Status = models.RequestRejected
	req.RejectReason = reason
	r.store.requests[id] = req
	return 1, nil
}

func (r *fakeRequestRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for id, req := range r.store.requests {
		if req.Status == models.RequestPending && now.After(req.ExpiresAt) {
			req.Status = models.RequestExpired
			r.store.requests[id] = req
			count++
		}
	}
	return count, nil
}

func (r *fakeRequestRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeBookingRepo implements the booking repository.
type fakeBookingRepo struct{ store *memStore }

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &b, nil
}

func (r *fakeBookingRepo) GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if b.RequestID == requestID {
			out := b
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Booking
	for _, b := range r.store.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.TrainerID != "" && b.TrainerID != filter.TrainerID {
			continue
		}
		if filter.ClientID != "" && b.ClientID != filter.ClientID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepo) GetSessionByBookingID(ctx context.Context, bookingID string) (*models.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.sessions {
		if s.BookingID == bookingID {
			out := s
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeBookingRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeTrainerRepo implements the trainer repository.
type fakeTrainerRepo struct{ store *memStore }

func (r *fakeTrainerRepo) Create(ctx context.Context, trainer *models.Trainer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.trainers[trainer.ID] = *trainer
	return nil
}

func (r *fakeTrainerRepo) GetByID(ctx context.Context, id string) (*models.Trainer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.trainers[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &t, nil
}

func (r *fakeTrainerRepo) List(ctx context.Context) ([]models.Trainer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Trainer
	for _, t := range r.store.trainers {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTrainerRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeClientRepo implements the client repository.
type fakeClientRepo struct{ store *memStore }

func (r *fakeClientRepo) Create(ctx context.Context, client *models.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clients[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &c, nil
}

func (r *fakeClientRepo) List(ctx context.Context) ([]models.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Client
	for _, c := range r.store.clients {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeClientRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeNotifier counts emitted events.
type fakeNotifier struct {
	mu        sync.Mutex
	confirmed int
	cancelled int
	rejected  int
	expired   int64
}

func (n *fakeNotifier) BookingConfirmed(ctx context.Context, booking *models.Booking, session *models.Session) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed++
	return nil
}

func (n *fakeNotifier) BookingCancelled(ctx context.Context, booking *models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled++
	return nil
}

func (n *fakeNotifier) RequestRejected(ctx context.Context, req *models.BookingRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected++
	return nil
}

func (n *fakeNotifier) RequestsExpired(ctx context.Context, count int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired += count
	return nil
}
