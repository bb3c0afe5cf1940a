package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/repository"
	"gorm.io/gorm"
)

// --- In-memory store ---
//
// Transactions are serialized by txMu, which stands in for the house row lock.
// There is no rollback; services only write after their checks pass.

type memDB struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	nextID    uint
	users     map[uint]models.User
	houses    map[uint]models.House
	bookings  map[uint]models.Booking
	blackouts map[uint]models.Blackout
	events    []models.BookingStatusEvent
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[uint]models.User{},
		houses:    map[uint]models.House{},
		bookings:  map[uint]models.Booking{},
		blackouts: map[uint]models.Blackout{},
	}
}

func (db *memDB) id() uint {
	db.nextID++
	return db.nextID
}

func (db *memDB) addHouse(slug string, capacity int) models.House {
	db.mu.Lock()
	defer db.mu.Unlock()
	h := models.House{ID: db.id(), Slug: slug, Title: slug, Capacity: capacity}
	db.houses[h.ID] = h
	return h
}

func (db *memDB) addBooking(houseID uint, start, end time.Time, status models.BookingStatus) models.Booking {
	db.mu.Lock()
	defer db.mu.Unlock()
	b := models.Booking{ID: db.id(), HouseID: houseID, UserID: 1, StartDate: start, EndDate: end, People: 2, Status: status}
	db.bookings[b.ID] = b
	return b
}

func (db *memDB) addBlackout(houseID uint, start, end time.Time) models.Blackout {
	db.mu.Lock()
	defer db.mu.Unlock()
	b := models.Blackout{ID: db.id(), HouseID: houseID, StartDate: start, EndDate: end}
	db.blackouts[b.ID] = b
	return b
}

func (db *memDB) booking(id uint) models.Booking {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.bookings[id]
}

type memBookings struct{ db *memDB }

func (r memBookings) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.db.txMu.Lock()
	defer r.db.txMu.Unlock()
	return fn(nil)
}

func (r memBookings) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b.ID = r.db.id()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.db.bookings[b.ID] = *b
	return nil
}

func (r memBookings) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	b, ok := r.db.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r memBookings) FindByExternalRef(ctx context.Context, tx *gorm.DB, ref string) (*models.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, b := range r.db.bookings {
		if b.ExternalRef != nil && *b.ExternalRef == ref {
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memBookings) FindByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.Booking
	for _, b := range r.db.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memBookings) List(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.Booking
	for _, b := range r.db.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.HouseID != nil && b.HouseID != *filter.HouseID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r memBookings) FindBlocking(ctx context.Context, tx *gorm.DB, houseID uint, excludeID *uint) ([]models.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.Booking
	for _, b := range r.db.bookings {
		if b.HouseID != houseID || !b.Status.IsBlocking() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memBookings) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookingStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b := r.db.bookings[id]
	b.Status = status
	b.UpdatedAt = time.Now()
	r.db.bookings[id] = b
	return nil
}

func (r memBookings) UpdateDates(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b := r.db.bookings[booking.ID]
	b.StartDate = booking.StartDate
	b.EndDate = booking.EndDate
	b.Notes = booking.Notes
	b.Status = booking.Status
	b.UpdatedAt = booking.UpdatedAt
	r.db.bookings[booking.ID] = b
	return nil
}

func (r memBookings) FindInReviewStartingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.Booking
	for _, b := range r.db.bookings {
		if b.Status == models.StatusInReview && !b.StartDate.Before(from) && b.StartDate.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memHouses struct{ db *memDB }

func (r memHouses) Create(ctx context.Context, h *models.House) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	h.ID = r.db.id()
	r.db.houses[h.ID] = *h
	return nil
}

func (r memHouses) FindByID(ctx context.Context, id uint) (*models.House, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	h, ok := r.db.houses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &h, nil
}

func (r memHouses) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.House, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, h := range r.db.houses {
		if h.Slug == slug {
			return &h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memHouses) FindBySlugWithCalendar(ctx context.Context, slug string) (*models.House, error) {
	return r.FindBySlug(ctx, nil, slug)
}

func (r memHouses) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.House, error) {
	return r.FindByID(ctx, id)
}

func (r memHouses) List(ctx context.Context, filter repository.HouseFilter) ([]models.House, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.House
	for _, h := range r.db.houses {
		out = append(out, h)
	}
	return out, nil
}

func (r memHouses) Update(ctx context.Context, id uint, fields map[string]any) error {
	return nil
}

func (r memHouses) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.houses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.houses, id)
	return nil
}

type memBlackouts struct{ db *memDB }

func (r memBlackouts) Create(ctx context.Context, tx *gorm.DB, b *models.Blackout) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b.ID = r.db.id()
	r.db.blackouts[b.ID] = *b
	return nil
}

func (r memBlackouts) FindByID(ctx context.Context, id uint) (*models.Blackout, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	b, ok := r.db.blackouts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r memBlackouts) FindByHouse(ctx context.Context, tx *gorm.DB, houseID uint) ([]models.Blackout, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.Blackout
	for _, b := range r.db.blackouts {
		if b.HouseID == houseID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memBlackouts) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.blackouts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.blackouts, id)
	return nil
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(ctx context.Context, tx *gorm.DB, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u.ID = r.db.id()
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r memUsers) FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memEvents struct{ db *memDB }

func (r memEvents) Create(ctx context.Context, tx *gorm.DB, e *models.BookingStatusEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e.ID = uint(len(r.db.events) + 1)
	r.db.events = append(r.db.events, *e)
	return nil
}

func (r memEvents) FindByBooking(ctx context.Context, bookingID uint) ([]models.BookingStatusEvent, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.BookingStatusEvent
	for _, e := range r.db.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- Recording publisher ---

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

// --- Wiring helpers ---

type fixture struct {
	db        *memDB
	publisher *recordingPublisher
	bookings  BookingService
	blackouts BlackoutService
	calendar  CalendarService
}

func newFixture() *fixture {
	db := newMemDB()
	pub := &recordingPublisher{}
	return &fixture{
		db:        db,
		publisher: pub,
		bookings:  NewBookingService(memBookings{db}, memHouses{db}, memBlackouts{db}, memUsers{db}, memEvents{db}, pub),
		blackouts: NewBlackoutService(memBookings{db}, memBlackouts{db}, memHouses{db}, pub),
		calendar:  NewCalendarService(memHouses{db}, memBookings{db}, memBlackouts{db}),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
