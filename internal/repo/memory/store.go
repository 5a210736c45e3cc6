package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"eventboard/internal/domain/event"
	"eventboard/internal/domain/registration"
	"eventboard/internal/domain/user"
)

// Store is an in-memory implementation of the storage gateways. A
// single mutex guards all three tables so capacity checks and inserts
// are atomic, mirroring the row lock the Postgres store takes. The
// Events and Registrations views expose the two gateway interfaces
// over the shared state.
type Store struct {
	mu     sync.Mutex
	events map[string]event.Event
	regs   map[string]registration.Registration
	users  map[string]user.User
}

func NewStore() *Store {
	return &Store{
		events: make(map[string]event.Event),
		regs:   make(map[string]registration.Registration),
		users:  make(map[string]user.User),
	}
}

func (s *Store) Events() *EventsStore {
	return &EventsStore{s: s}
}

func (s *Store) Registrations() *RegistrationsStore {
	return &RegistrationsStore{s: s}
}

func (s *Store) PutUser(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
}

func regKey(eventID, userID string) string {
	return eventID + "/" + userID
}

func (s *Store) countLocked(eventID string) int {
	count := 0
	for _, r := range s.regs {
		if r.EventID == eventID {
			count++
		}
	}
	return count
}

func sortByStart(events []event.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartAt.Equal(events[j].StartAt) {
			return events[i].StartAt.Before(events[j].StartAt)
		}
		return events[i].ID < events[j].ID
	})
}

type EventsStore struct {
	s *Store
}

func (es *EventsStore) Insert(ctx context.Context, e event.Event) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	es.s.events[e.ID] = e
	return nil
}

func (es *EventsStore) Update(ctx context.Context, e event.Event) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	if _, ok := es.s.events[e.ID]; !ok {
		return event.ErrNotFound
	}

	es.s.events[e.ID] = e
	return nil
}

func (es *EventsStore) GetByID(ctx context.Context, id string) (event.Event, error) {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	e, ok := es.s.events[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	return e, nil
}

func (es *EventsStore) Query(ctx context.Context, f event.Filter) ([]event.Summary, int, error) {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	matched := make([]event.Event, 0, len(es.s.events))

	for _, e := range es.s.events {
		if matches(e, f) {
			matched = append(matched, e)
		}
	}

	sortByStart(matched)

	total := len(matched)

	// total stays the full match count even when the page is empty
	start := f.Offset()
	if start > total {
		start = total
	}

	end := start + f.PageSize
	if end > total {
		end = total
	}

	page := make([]event.Summary, 0, end-start)
	for _, e := range matched[start:end] {
		page = append(page, event.Summarize(e, es.s.countLocked(e.ID)))
	}

	return page, total, nil
}

func matches(e event.Event, f event.Filter) bool {
	if f.Title != nil && *f.Title != "" {
		if !strings.Contains(strings.ToLower(e.Title), strings.ToLower(*f.Title)) {
			return false
		}
	}

	if f.Location != nil && *f.Location != "" {
		if !strings.Contains(strings.ToLower(e.Location), strings.ToLower(*f.Location)) {
			return false
		}
	}

	if f.Category != nil && *f.Category != "" {
		// events without a category never match a category filter
		if e.Category == nil {
			return false
		}
		if !strings.Contains(strings.ToLower(*e.Category), strings.ToLower(*f.Category)) {
			return false
		}
	}

	if f.OnDate != nil && !e.OccursOn(*f.OnDate) {
		return false
	}

	return true
}

type RegistrationsStore struct {
	s *Store
}

// Insert enforces uniqueness and capacity under the store lock, so it
// stays authoritative even when callers raced their pre-checks.
func (rs *RegistrationsStore) Insert(ctx context.Context, reg registration.Registration) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	e, ok := rs.s.events[reg.EventID]
	if !ok {
		return event.ErrNotFound
	}

	if _, ok := rs.s.regs[regKey(reg.EventID, reg.UserID)]; ok {
		return registration.ErrAlreadyRegistered
	}

	if rs.s.countLocked(reg.EventID) >= e.MaxParticipants {
		return registration.ErrEventFull
	}

	rs.s.regs[regKey(reg.EventID, reg.UserID)] = reg
	return nil
}

func (rs *RegistrationsStore) Find(ctx context.Context, eventID, userID string) (registration.Registration, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	r, ok := rs.s.regs[regKey(eventID, userID)]
	if !ok {
		return registration.Registration{}, registration.ErrNotFound
	}

	return r, nil
}

func (rs *RegistrationsStore) CountByEvent(ctx context.Context, eventID string) (int, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	return rs.s.countLocked(eventID), nil
}

func (rs *RegistrationsStore) ListParticipants(ctx context.Context, eventID string) ([]registration.Participant, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	regs := make([]registration.Registration, 0)
	for _, r := range rs.s.regs {
		if r.EventID == eventID {
			regs = append(regs, r)
		}
	}

	sort.Slice(regs, func(i, j int) bool {
		if !regs[i].CreatedAt.Equal(regs[j].CreatedAt) {
			return regs[i].CreatedAt.Before(regs[j].CreatedAt)
		}
		return regs[i].ID < regs[j].ID
	})

	output := make([]registration.Participant, 0, len(regs))
	for _, r := range regs {
		output = append(output, rs.participantLocked(r))
	}

	return output, nil
}

func (rs *RegistrationsStore) GetParticipant(ctx context.Context, eventID, userID string) (registration.Participant, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	r, ok := rs.s.regs[regKey(eventID, userID)]
	if !ok {
		return registration.Participant{}, registration.ErrNotFound
	}

	return rs.participantLocked(r), nil
}

func (rs *RegistrationsStore) participantLocked(r registration.Registration) registration.Participant {
	p := registration.Participant{
		UserID:           r.UserID,
		RegistrationDate: r.RegistrationDate,
	}

	if u, ok := rs.s.users[r.UserID]; ok {
		p.FirstName = u.FirstName
		p.LastName = u.LastName
		p.Birthday = u.Birthday
	}

	return p
}

func (rs *RegistrationsStore) ListEventsForUser(ctx context.Context, userID string) ([]event.Summary, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	matched := make([]event.Event, 0)
	for _, r := range rs.s.regs {
		if r.UserID != userID {
			continue
		}
		if e, ok := rs.s.events[r.EventID]; ok {
			matched = append(matched, e)
		}
	}

	sortByStart(matched)

	output := make([]event.Summary, 0, len(matched))
	for _, e := range matched {
		output = append(output, event.Summarize(e, rs.s.countLocked(e.ID)))
	}

	return output, nil
}

func (rs *RegistrationsStore) Delete(ctx context.Context, eventID, userID string) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	key := regKey(eventID, userID)
	if _, ok := rs.s.regs[key]; !ok {
		return registration.ErrNotFound
	}

	delete(rs.s.regs, key)
	return nil
}
