//go:build unit

package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"cowork-booking/internal/domain/booking"
	"cowork-booking/internal/domain/timeline"
	"cowork-booking/internal/infra"
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/usecase/commands"
	"cowork-booking/internal/usecase/queries"
	"cowork-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the storage layer. It implements the
// command reads and every write repository, so one instance backs a whole
// fake unit of work.
type fakeStore struct {
	mu sync.Mutex

	locations map[uuid.UUID]*shared.LocationSnapshot
	seats     map[uuid.UUID]*shared.SeatSnapshot
	bookings  map[uuid.UUID]*shared.BookingSnapshot
	members   map[uuid.UUID]map[int64]booking.Role
	queue     map[uuid.UUID]*shared.QueueEntrySnapshot
	users     map[int64]shared.UserProfile
	admins    map[string]*shared.AdminSnapshot

	createdSeq time.Time

	createBookingErr error
	queueCreateErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		locations:  make(map[uuid.UUID]*shared.LocationSnapshot),
		seats:      make(map[uuid.UUID]*shared.SeatSnapshot),
		bookings:   make(map[uuid.UUID]*shared.BookingSnapshot),
		members:    make(map[uuid.UUID]map[int64]booking.Role),
		queue:      make(map[uuid.UUID]*shared.QueueEntrySnapshot),
		users:      make(map[int64]shared.UserProfile),
		admins:     make(map[string]*shared.AdminSnapshot),
		createdSeq: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (s *fakeStore) addLocation(hours booking.OpenHours) *shared.LocationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := &shared.LocationSnapshot{ID: uuid.New(), Name: "Main", Address: "1 Work St", AdminID: uuid.New(), Hours: hours}
	s.locations[loc.ID] = loc
	return loc
}

func (s *fakeStore) addSeat(locationID uuid.UUID, name string, capacity int) *shared.SeatSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat := &shared.SeatSnapshot{ID: uuid.New(), LocationID: locationID, Name: name, Capacity: capacity}
	s.seats[seat.ID] = seat
	return seat
}

func (s *fakeStore) addBooking(userID int64, seat *shared.SeatSnapshot, start, end time.Time) *shared.BookingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &shared.BookingSnapshot{
		ID:           uuid.New(),
		SeatID:       seat.ID,
		SeatName:     seat.Name,
		SeatCapacity: seat.Capacity,
		LocationID:   seat.LocationID,
		TimeStart:    start,
		TimeEnd:      end,
		PeopleAmount: 1,
		Code:         "0042",
		CreatorID:    userID,
	}
	s.bookings[snap.ID] = snap
	s.members[snap.ID] = map[int64]booking.Role{userID: booking.RoleCreator}
	return snap
}

func (s *fakeStore) addQueueEntry(locationID uuid.UUID, userID int64, date *time.Time, hours int) *shared.QueueEntrySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createdSeq = s.createdSeq.Add(time.Minute)
	e := &shared.QueueEntrySnapshot{
		ID:         uuid.New(),
		LocationID: locationID,
		UserID:     userID,
		Date:       date,
		Hours:      hours,
		CreatedAt:  s.createdSeq,
	}
	s.queue[e.ID] = e
	return e
}

// --- shared.CommandReads ---

func (s *fakeStore) LocationByID(_ context.Context, id uuid.UUID) (*shared.LocationSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, notFoundErr("location not found")
	}
	cp := *loc
	return &cp, nil
}

func (s *fakeStore) SeatByID(_ context.Context, id uuid.UUID) (*shared.SeatSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[id]
	if !ok {
		return nil, notFoundErr("seat not found")
	}
	cp := *seat
	return &cp, nil
}

func (s *fakeStore) SeatByName(_ context.Context, locationID uuid.UUID, name string) (*shared.SeatSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seat := range s.seats {
		if seat.LocationID == locationID && seat.Name == name {
			cp := *seat
			return &cp, nil
		}
	}
	return nil, notFoundErr("seat not found")
}

func (s *fakeStore) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, notFoundErr("booking not found")
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) SeatFree(_ context.Context, seatID uuid.UUID, start, end time.Time, ignore *uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.SeatID != seatID {
			continue
		}
		if ignore != nil && b.ID == *ignore {
			continue
		}
		if b.TimeStart.Before(end) && start.Before(b.TimeEnd) {
			return false, nil
		}
	}
	return true, nil
}

func (s *fakeStore) UserHasBookingOn(_ context.Context, userID int64, locationID uuid.UUID, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.CreatorID == userID && b.LocationID == locationID && sameDay(b.TimeStart, day) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) UserQueuedOn(_ context.Context, userID int64, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.queue {
		if e.UserID != userID {
			continue
		}
		if e.Date == nil || sameDay(*e.Date, day) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) MemberRole(_ context.Context, bookingID uuid.UUID, userID int64) (booking.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.members[bookingID][userID]
	if !ok {
		return "", notFoundErr("membership not found")
	}
	return role, nil
}

func (s *fakeStore) MemberCount(_ context.Context, bookingID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members[bookingID]), nil
}

func (s *fakeStore) AdminByLogin(_ context.Context, login string) (*shared.AdminSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[login]
	if !ok {
		return nil, notFoundErr("admin not found")
	}
	cp := *a
	return &cp, nil
}

// --- write repositories ---

func (s *fakeStore) Create(_ context.Context, _ db.DBTX, res *booking.Reservation) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createBookingErr != nil {
		return uuid.Nil, s.createBookingErr
	}
	seat := s.seats[res.SeatID()]
	s.bookings[res.ID()] = &shared.BookingSnapshot{
		ID:           res.ID(),
		SeatID:       seat.ID,
		SeatName:     seat.Name,
		SeatCapacity: seat.Capacity,
		LocationID:   seat.LocationID,
		TimeStart:    res.Slot().Start(),
		TimeEnd:      res.Slot().End(),
		PeopleAmount: res.PeopleAmount(),
		Features:     res.Features(),
		Comment:      res.Comment(),
		Code:         res.Code(),
	}
	return res.ID(), nil
}

func (s *fakeStore) UpdateSlot(_ context.Context, _ db.DBTX, id uuid.UUID, slot booking.TimeSlot, features []string, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return notFoundErr("booking not found")
	}
	b.TimeStart = slot.Start()
	b.TimeEnd = slot.End()
	b.Features = features
	b.Comment = comment
	return nil
}

func (s *fakeStore) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return notFoundErr("booking not found")
	}
	delete(s.bookings, id)
	delete(s.members, id)
	return nil
}

func (s *fakeStore) SetFlag(_ context.Context, _ db.DBTX, id uuid.UUID, flag booking.Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return notFoundErr("booking not found")
	}
	switch flag {
	case booking.FlagPreEnd:
		b.Flags.PreEnd = true
	case booking.FlagPreStart:
		b.Flags.PreStart = true
	case booking.FlagClientEnd:
		b.Flags.ClientEnd = true
	case booking.FlagClientStart:
		b.Flags.ClientStart = true
	}
	return nil
}

func (s *fakeStore) Add(_ context.Context, _ db.DBTX, bookingID uuid.UUID, userID int64, role booking.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.members[bookingID]
	if m == nil {
		m = make(map[int64]booking.Role)
		s.members[bookingID] = m
	}
	if _, ok := m[userID]; ok {
		return infra.WrapRepoErr("member exists", nil, infra.KindDuplicateKey)
	}
	m[userID] = role
	if role == booking.RoleCreator {
		if b, ok := s.bookings[bookingID]; ok {
			b.CreatorID = userID
		}
	}
	return nil
}

func (s *fakeStore) Upsert(_ context.Context, _ db.DBTX, user shared.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *fakeStore) CreateQueueEntry(entry shared.NewQueueEntry) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queueCreateErr != nil {
		return uuid.Nil, s.queueCreateErr
	}
	s.createdSeq = s.createdSeq.Add(time.Minute)
	e := &shared.QueueEntrySnapshot{
		ID:         uuid.New(),
		LocationID: entry.LocationID,
		UserID:     entry.UserID,
		Date:       entry.Date,
		Hours:      entry.Hours,
		Comment:    entry.Comment,
		CreatedAt:  s.createdSeq,
	}
	s.queue[e.ID] = e
	return e.ID, nil
}

func (s *fakeStore) DeleteQueueEntry(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queue[id]; !ok {
		return notFoundErr("queue entry not found")
	}
	delete(s.queue, id)
	return nil
}

// fakeQueueRepo adapts fakeStore to shared.QueueRepository. Separate type
// because the booking repository already claims the Create/Delete names.
type fakeQueueRepo struct {
	s *fakeStore
}

func (r fakeQueueRepo) Create(_ context.Context, _ db.DBTX, entry shared.NewQueueEntry) (uuid.UUID, error) {
	return r.s.CreateQueueEntry(entry)
}

func (r fakeQueueRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	return r.s.DeleteQueueEntry(id)
}

func (r fakeQueueRepo) DeleteOwned(_ context.Context, _ db.DBTX, id uuid.UUID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.queue[id]
	if !ok || e.UserID != userID {
		return notFoundErr("queue entry not found")
	}
	delete(r.s.queue, id)
	return nil
}

func (r fakeQueueRepo) DeleteExpired(_ context.Context, _ db.DBTX, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, e := range r.s.queue {
		if e.Date != nil && e.Date.Before(before) {
			delete(r.s.queue, id)
			n++
		}
	}
	return n, nil
}

// --- unit of work ---

type fakeTx struct {
	s *fakeStore
}

func (t fakeTx) Bookings() shared.BookingRepository { return t.s }
func (t fakeTx) Members() shared.MemberRepository   { return t.s }
func (t fakeTx) Queue() shared.QueueRepository      { return fakeQueueRepo{s: t.s} }
func (t fakeTx) Users() shared.UserRepository       { return t.s }
func (t fakeTx) Reads() shared.CommandReads         { return t.s }
func (t fakeTx) DB() db.DBTX                        { return nil }

type fakeUoW struct {
	s *fakeStore
}

func (u fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, fakeTx{s: u.s})
}

func (u fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u fakeUoW) CommandReads() shared.CommandReads { return u.s }

// --- ports ---

type fanoutCall struct {
	LocationID uuid.UUID
	Event      commands.Event
}

type fakeFanout struct {
	mu    sync.Mutex
	calls []fanoutCall
}

func (f *fakeFanout) Notify(locationID uuid.UUID, ev commands.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fanoutCall{LocationID: locationID, Event: ev})
}

func (f *fakeFanout) Calls() []fanoutCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fanoutCall, len(f.calls))
	copy(out, f.calls)
	return out
}

type directSend struct {
	UserID  int64
	Text    string
	Actions []commands.Action
}

type fakeNotifier struct {
	mu    sync.Mutex
	sends []directSend
	err   error
}

func (n *fakeNotifier) Send(_ context.Context, userID int64, text string, actions ...commands.Action) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, directSend{UserID: userID, Text: text, Actions: actions})
	return n.err
}

func (n *fakeNotifier) Sends() []directSend {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]directSend, len(n.sends))
	copy(out, n.sends)
	return out
}

type matchCall struct {
	LocationID  uuid.UUID
	Day         time.Time
	TriggeredBy int64
}

// fakeMatcher records trigger calls on a buffered channel so tests can wait
// for the fire-and-forget goroutine.
type fakeMatcher struct {
	calls chan matchCall
}

func newFakeMatcher() *fakeMatcher {
	return &fakeMatcher{calls: make(chan matchCall, 8)}
}

func (m *fakeMatcher) Run(_ context.Context, locationID uuid.UUID, day time.Time, triggeredBy int64) error {
	m.calls <- matchCall{LocationID: locationID, Day: day, TriggeredBy: triggeredBy}
	return nil
}

func (m *fakeMatcher) wait(timeout time.Duration) (matchCall, bool) {
	select {
	case c := <-m.calls:
		return c, true
	case <-time.After(timeout):
		return matchCall{}, false
	}
}

// --- query fakes for the matcher ---

type fakeQueueQueries struct {
	s *fakeStore
}

func (q fakeQueueQueries) ForLocationDay(_ context.Context, locationID uuid.UUID, day time.Time) ([]*queries.QueueEntryView, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var out []*queries.QueueEntryView
	for _, e := range q.s.queue {
		if e.LocationID != locationID {
			continue
		}
		if e.Date != nil && !sameDay(*e.Date, day) {
			continue
		}
		out = append(out, &queries.QueueEntryView{
			ID:        e.ID,
			UserID:    e.UserID,
			Date:      e.Date,
			Hours:     e.Hours,
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (q fakeQueueQueries) ForUserDay(_ context.Context, userID int64, day time.Time) ([]*queries.QueueEntryView, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var out []*queries.QueueEntryView
	for _, e := range q.s.queue {
		if e.UserID != userID {
			continue
		}
		if e.Date != nil && !sameDay(*e.Date, day) {
			continue
		}
		out = append(out, &queries.QueueEntryView{ID: e.ID, UserID: e.UserID, Date: e.Date, Hours: e.Hours, CreatedAt: e.CreatedAt})
	}
	return out, nil
}

// fakeTimelineQueries rebuilds bitmaps from the store on every call, matching
// the read store's behavior of always reflecting committed reservations.
type fakeTimelineQueries struct {
	s *fakeStore
}

func (q fakeTimelineQueries) SeatTimelines(_ context.Context, f queries.TimelineFilter) ([]*queries.SeatTimeline, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	local := f.Date.UTC()
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	days := 1
	if f.TwoDays {
		days = 2
	}

	var seats []*shared.SeatSnapshot
	for _, seat := range q.s.seats {
		if seat.LocationID != f.LocationID {
			continue
		}
		if f.SingleOccupantOnly && seat.Capacity != 1 {
			continue
		}
		if f.SeatName != nil && seat.Name != *f.SeatName {
			continue
		}
		seats = append(seats, seat)
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].Name < seats[j].Name })

	windowEnd := dayStart.AddDate(0, 0, days)
	out := make([]*queries.SeatTimeline, 0, len(seats))
	for _, seat := range seats {
		tl := timeline.New(days)
		for _, b := range q.s.bookings {
			if b.SeatID != seat.ID {
				continue
			}
			if f.Ignore != nil && b.ID == *f.Ignore {
				continue
			}
			// Only reservations starting inside the window count, and the
			// end hour stays free.
			if b.TimeStart.Before(dayStart) || !b.TimeStart.Before(windowEnd) {
				continue
			}
			from := int(b.TimeStart.Sub(dayStart) / time.Hour)
			to := int(b.TimeEnd.Sub(dayStart) / time.Hour)
			if to > len(tl) {
				to = len(tl)
			}
			for i := from; i < to; i++ {
				tl[i] = 1
			}
		}
		out = append(out, &queries.SeatTimeline{
			SeatID:   seat.ID,
			SeatName: seat.Name,
			Capacity: seat.Capacity,
			Hours:    tl,
		})
	}
	return out, nil
}
