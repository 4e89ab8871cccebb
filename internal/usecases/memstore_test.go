package usecases_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/usecases"
)

var errInjected = errors.New("injected store failure")

// memStore is an in-memory entity store with per-table single-row semantics.
// Every read and write copies so callers never share rows with the store.
// failAt holds one-shot failures keyed by "<Repo>.<Method>": the call with
// that ordinal returns errInjected.
type memStore struct {
	mu     sync.Mutex
	calls  map[string]int
	failAt map[string]int
	writes map[string]int

	businesses   map[uuid.UUID]entities.Business
	locations    map[uuid.UUID]entities.Location
	emails       []entities.Email
	contacts     []entities.Contact
	relations    []entities.BusinessUser
	categories   []entities.Category
	users        []entities.User
	customers    []entities.Customer
	logs         []entities.BusinessUpdateLog
	floors       []entities.Floor
	tables       []entities.Table
	reservations []entities.Reservation
}

func newMemStore() *memStore {
	return &memStore{
		calls:      make(map[string]int),
		failAt:     make(map[string]int),
		writes:     make(map[string]int),
		businesses: make(map[uuid.UUID]entities.Business),
		locations:  make(map[uuid.UUID]entities.Location),
	}
}

// failOn makes the next call of op fail.
func (s *memStore) failOn(op string) {
	s.failOnCall(op, 1)
}

// failOnCall makes the nth call of op from now on fail.
func (s *memStore) failOnCall(op string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAt[op] = s.calls[op] + n
}

// enter locks the store and fires a pending failure for op. The lock is
// held on success only.
func (s *memStore) enter(op string, write bool) error {
	s.mu.Lock()
	s.calls[op]++
	if n, ok := s.failAt[op]; ok && n == s.calls[op] {
		delete(s.failAt, op)
		s.mu.Unlock()
		return errInjected
	}
	if write {
		s.writes[op]++
	}
	return nil
}

func (s *memStore) writeCount(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for op, c := range s.writes {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n += c
		}
	}
	return n
}

func (s *memStore) resetWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = make(map[string]int)
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.Must(uuid.NewV7())
	}
	return id
}

func (s *memStore) stores() usecases.BusinessStores {
	return usecases.BusinessStores{
		Businesses: memBusinesses{s},
		Locations:  memLocations{s},
		Emails:     memEmails{s},
		Contacts:   memContacts{s},
		Relations:  memRelations{s},
		Categories: memCategories{s},
		Users:      memUsers{s},
		UpdateLogs: memLogs{s},
	}
}

type memBusinesses struct{ s *memStore }

func (r memBusinesses) Create(_ context.Context, b *entities.Business) error {
	if err := r.s.enter("Businesses.Create", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	b.ID = newID(b.ID)
	b.CreatedAt = time.Now()
	r.s.businesses[b.ID] = *b
	return nil
}

func (r memBusinesses) GetByID(_ context.Context, id uuid.UUID) (*entities.Business, error) {
	if err := r.s.enter("Businesses.GetByID", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &b, nil
}

func (r memBusinesses) List(_ context.Context, limit, offset int) ([]*entities.Business, int64, error) {
	if err := r.s.enter("Businesses.List", false); err != nil {
		return nil, 0, err
	}
	defer r.s.mu.Unlock()
	all := make([]*entities.Business, 0, len(r.s.businesses))
	for _, b := range r.s.businesses {
		b := b
		all = append(all, &b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	if limit > 0 {
		if offset > len(all) {
			offset = len(all)
		}
		all = all[offset:]
		if limit < len(all) {
			all = all[:limit]
		}
	}
	return all, total, nil
}

func (r memBusinesses) UpdateProfile(_ context.Context, id uuid.UUID, profile entities.BusinessProfile) error {
	if err := r.s.enter("Businesses.UpdateProfile", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	b.BusinessProfile = profile
	r.s.businesses[id] = b
	return nil
}

func (r memBusinesses) SetVerification(_ context.Context, id uuid.UUID, verified bool, token null.String) error {
	if err := r.s.enter("Businesses.SetVerification", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	b.IsVerified, b.VerificationToken = verified, token
	r.s.businesses[id] = b
	return nil
}

func (r memBusinesses) GetByVerificationToken(_ context.Context, token string) (*entities.Business, error) {
	if err := r.s.enter("Businesses.GetByVerificationToken", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, b := range r.s.businesses {
		if b.VerificationToken.Valid && b.VerificationToken.String == token {
			b := b
			return &b, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r memBusinesses) MarkVerified(_ context.Context, id uuid.UUID) error {
	if err := r.s.enter("Businesses.MarkVerified", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	b.IsVerified, b.VerificationToken = true, null.String{}
	r.s.businesses[id] = b
	return nil
}

func (r memBusinesses) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.s.enter("Businesses.Delete", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	delete(r.s.businesses, id)
	return nil
}

type memLocations struct{ s *memStore }

func (r memLocations) Create(_ context.Context, l *entities.Location) error {
	if err := r.s.enter("Locations.Create", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	l.ID = newID(l.ID)
	r.s.locations[l.ID] = *l
	return nil
}

func (r memLocations) GetByID(_ context.Context, id uuid.UUID) (*entities.Location, error) {
	if err := r.s.enter("Locations.GetByID", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &l, nil
}

func (r memLocations) Update(_ context.Context, l *entities.Location) error {
	if err := r.s.enter("Locations.Update", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[l.ID]; !ok {
		return domainerrors.ErrNotFound
	}
	r.s.locations[l.ID] = *l
	return nil
}

func (r memLocations) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.s.enter("Locations.Delete", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	delete(r.s.locations, id)
	return nil
}

type memEmails struct{ s *memStore }

func (r memEmails) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entities.Email, error) {
	if err := r.s.enter("Emails.ListByBusiness", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := []*entities.Email{}
	for _, e := range r.s.emails {
		if e.BusinessID == businessID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r memEmails) Create(ctx context.Context, e *entities.Email) error {
	return r.CreateMany(ctx, []*entities.Email{e})
}

func (r memEmails) CreateMany(_ context.Context, emails []*entities.Email) error {
	if err := r.s.enter("Emails.CreateMany", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, e := range emails {
		e.ID = newID(e.ID)
		r.s.emails = append(r.s.emails, *e)
	}
	return nil
}

func (r memEmails) UpdateAddress(_ context.Context, id uuid.UUID, address string) error {
	if err := r.s.enter("Emails.UpdateAddress", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.emails {
		if r.s.emails[i].ID == id {
			r.s.emails[i].Address = address
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r memEmails) DeleteByBusiness(_ context.Context, businessID uuid.UUID) error {
	if err := r.s.enter("Emails.DeleteByBusiness", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	kept := r.s.emails[:0]
	for _, e := range r.s.emails {
		if e.BusinessID != businessID {
			kept = append(kept, e)
		}
	}
	r.s.emails = kept
	return nil
}

func (r memEmails) FindByAddress(_ context.Context, address string, emailType entities.EmailType) ([]*entities.Email, error) {
	if err := r.s.enter("Emails.FindByAddress", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := []*entities.Email{}
	for _, e := range r.s.emails {
		if e.Address == address && e.Type == emailType {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

type memContacts struct{ s *memStore }

func (r memContacts) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entities.Contact, error) {
	if err := r.s.enter("Contacts.ListByBusiness", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := []*entities.Contact{}
	for _, c := range r.s.contacts {
		if c.BusinessID == businessID {
			c := c
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memContacts) CreateMany(_ context.Context, contacts []*entities.Contact) error {
	if err := r.s.enter("Contacts.CreateMany", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, c := range contacts {
		c.ID = newID(c.ID)
		r.s.contacts = append(r.s.contacts, *c)
	}
	return nil
}

func (r memContacts) DeleteByBusiness(_ context.Context, businessID uuid.UUID) error {
	if err := r.s.enter("Contacts.DeleteByBusiness", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	kept := r.s.contacts[:0]
	for _, c := range r.s.contacts {
		if c.BusinessID != businessID {
			kept = append(kept, c)
		}
	}
	r.s.contacts = kept
	return nil
}

type memRelations struct{ s *memStore }

func (r memRelations) Create(ctx context.Context, rel *entities.BusinessUser) error {
	return r.CreateMany(ctx, []*entities.BusinessUser{rel})
}

func (r memRelations) CreateMany(_ context.Context, relations []*entities.BusinessUser) error {
	if err := r.s.enter("Relations.CreateMany", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, rel := range relations {
		rel.ID = newID(rel.ID)
		r.s.relations = append(r.s.relations, *rel)
	}
	return nil
}

func (r memRelations) list(match func(entities.BusinessUser) bool) []*entities.BusinessUser {
	out := []*entities.BusinessUser{}
	for _, rel := range r.s.relations {
		if match(rel) {
			rel := rel
			out = append(out, &rel)
		}
	}
	return out
}

func (r memRelations) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entities.BusinessUser, error) {
	if err := r.s.enter("Relations.ListByBusiness", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return r.list(func(rel entities.BusinessUser) bool { return rel.BusinessID == businessID }), nil
}

func (r memRelations) ListByUser(_ context.Context, userID uuid.UUID) ([]*entities.BusinessUser, error) {
	if err := r.s.enter("Relations.ListByUser", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return r.list(func(rel entities.BusinessUser) bool { return rel.UserID == userID }), nil
}

func (r memRelations) GetByUserAndBusiness(_ context.Context, userID, businessID uuid.UUID) (*entities.BusinessUser, error) {
	if err := r.s.enter("Relations.GetByUserAndBusiness", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	found := r.list(func(rel entities.BusinessUser) bool { return rel.UserID == userID && rel.BusinessID == businessID })
	if len(found) == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return found[0], nil
}

func (r memRelations) GetByToken(_ context.Context, token string) (*entities.BusinessUser, error) {
	if err := r.s.enter("Relations.GetByToken", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	found := r.list(func(rel entities.BusinessUser) bool {
		return rel.VerificationToken.Valid && rel.VerificationToken.String == token
	})
	if len(found) == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return found[0], nil
}

func (r memRelations) MarkVerified(_ context.Context, id uuid.UUID) error {
	if err := r.s.enter("Relations.MarkVerified", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.relations {
		if r.s.relations[i].ID == id {
			r.s.relations[i].IsVerified = true
			r.s.relations[i].VerificationToken = null.String{}
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r memRelations) remove(op string, match func(entities.BusinessUser) bool) error {
	if err := r.s.enter(op, true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	kept := r.s.relations[:0]
	for _, rel := range r.s.relations {
		if !match(rel) {
			kept = append(kept, rel)
		}
	}
	r.s.relations = kept
	return nil
}

func (r memRelations) DeleteNonOwnerByBusiness(_ context.Context, businessID uuid.UUID) error {
	return r.remove("Relations.DeleteNonOwnerByBusiness", func(rel entities.BusinessUser) bool {
		return rel.BusinessID == businessID && rel.Type != entities.RelationOwner
	})
}

func (r memRelations) DeleteByBusiness(_ context.Context, businessID uuid.UUID) error {
	return r.remove("Relations.DeleteByBusiness", func(rel entities.BusinessUser) bool {
		return rel.BusinessID == businessID
	})
}

type memCategories struct{ s *memStore }

func (r memCategories) GetByID(_ context.Context, id uuid.UUID) (*entities.Category, error) {
	if err := r.s.enter("Categories.GetByID", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r memCategories) GetByName(_ context.Context, name string) (*entities.Category, error) {
	if err := r.s.enter("Categories.GetByName", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

type memUsers struct{ s *memStore }

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if err := r.s.enter("Users.GetByID", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	if err := r.s.enter("Users.GetByUsername", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

type memCustomers struct{ s *memStore }

func (r memCustomers) GetByID(_ context.Context, id uuid.UUID) (*entities.Customer, error) {
	if err := r.s.enter("Customers.GetByID", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r memCustomers) GetByUsername(_ context.Context, username string) (*entities.Customer, error) {
	if err := r.s.enter("Customers.GetByUsername", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Username == username {
			c := c
			return &c, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

type memLogs struct{ s *memStore }

func (r memLogs) Create(_ context.Context, log *entities.BusinessUpdateLog) error {
	if err := r.s.enter("UpdateLogs.Create", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	log.ID = newID(log.ID)
	log.CreatedAt = time.Now()
	r.s.logs = append(r.s.logs, *log)
	return nil
}

func (r memLogs) ListByBusiness(_ context.Context, businessID uuid.UUID, limit int) ([]*entities.BusinessUpdateLog, error) {
	if err := r.s.enter("UpdateLogs.ListByBusiness", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := []*entities.BusinessUpdateLog{}
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		if r.s.logs[i].BusinessID == businessID {
			l := r.s.logs[i]
			out = append(out, &l)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memFloors struct{ s *memStore }

func (r memFloors) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entities.Floor, error) {
	if err := r.s.enter("Floors.ListByBusiness", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := []*entities.Floor{}
	for _, f := range r.s.floors {
		if f.BusinessID == businessID {
			f := f
			out = append(out, &f)
		}
	}
	return out, nil
}

func (r memFloors) GetByID(_ context.Context, id uuid.UUID) (*entities.Floor, error) {
	if err := r.s.enter("Floors.GetByID", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, f := range r.s.floors {
		if f.ID == id {
			f := f
			return &f, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r memFloors) Create(ctx context.Context, f *entities.Floor) error {
	return r.CreateMany(ctx, []*entities.Floor{f})
}

func (r memFloors) CreateMany(_ context.Context, floors []*entities.Floor) error {
	if err := r.s.enter("Floors.CreateMany", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, f := range floors {
		for _, existing := range r.s.floors {
			if existing.BusinessID == f.BusinessID && existing.Name == f.Name {
				return domainerrors.ErrAlreadyExists
			}
		}
	}
	for _, f := range floors {
		f.ID = newID(f.ID)
		r.s.floors = append(r.s.floors, *f)
	}
	return nil
}

func (r memFloors) Update(_ context.Context, f *entities.Floor) error {
	if err := r.s.enter("Floors.Update", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.floors {
		if r.s.floors[i].ID == f.ID {
			r.s.floors[i] = *f
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r memFloors) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DeleteMany(ctx, []uuid.UUID{id})
}

func (r memFloors) DeleteMany(_ context.Context, ids []uuid.UUID) error {
	if err := r.s.enter("Floors.Delete", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.s.floors[:0]
	for _, f := range r.s.floors {
		if !drop[f.ID] {
			kept = append(kept, f)
		}
	}
	r.s.floors = kept
	return nil
}

type memTables struct{ s *memStore }

func (r memTables) ListByBusiness(_ context.Context, businessID uuid.UUID, includeInactive bool) ([]*entities.Table, error) {
	if err := r.s.enter("Tables.ListByBusiness", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := []*entities.Table{}
	for _, t := range r.s.tables {
		if t.BusinessID == businessID && (includeInactive || t.Active) {
			t := t
			out = append(out, &t)
		}
	}
	return out, nil
}

func (r memTables) GetByID(_ context.Context, id uuid.UUID) (*entities.Table, error) {
	if err := r.s.enter("Tables.GetByID", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, t := range r.s.tables {
		if t.ID == id {
			t := t
			return &t, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r memTables) GetByNumber(_ context.Context, businessID uuid.UUID, number int) (*entities.Table, error) {
	if err := r.s.enter("Tables.GetByNumber", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, t := range r.s.tables {
		if t.BusinessID == businessID && t.Number == number && t.Active {
			t := t
			return &t, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r memTables) Create(ctx context.Context, t *entities.Table) error {
	return r.CreateMany(ctx, []*entities.Table{t})
}

func (r memTables) CreateMany(_ context.Context, tables []*entities.Table) error {
	if err := r.s.enter("Tables.CreateMany", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, t := range tables {
		t.ID = newID(t.ID)
		r.s.tables = append(r.s.tables, *t)
	}
	return nil
}

func (r memTables) Update(_ context.Context, t *entities.Table) error {
	if err := r.s.enter("Tables.Update", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.tables {
		if r.s.tables[i].ID == t.ID {
			r.s.tables[i] = *t
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r memTables) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if err := r.s.enter("Tables.SetActive", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.tables {
		if r.s.tables[i].ID == id {
			r.s.tables[i].Active = active
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r memTables) DetachFloor(_ context.Context, floorID uuid.UUID) error {
	if err := r.s.enter("Tables.DetachFloor", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.tables {
		if r.s.tables[i].FloorID.Valid && r.s.tables[i].FloorID.UUID == floorID {
			r.s.tables[i].FloorID = uuid.NullUUID{}
			r.s.tables[i].Active = false
		}
	}
	return nil
}

type memReservations struct{ s *memStore }

func (r memReservations) list(match func(entities.Reservation) bool) []*entities.Reservation {
	out := []*entities.Reservation{}
	for _, res := range r.s.reservations {
		if match(res) {
			res := res
			out = append(out, &res)
		}
	}
	return out
}

func (r memReservations) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entities.Reservation, error) {
	if err := r.s.enter("Reservations.ListByBusiness", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return r.list(func(res entities.Reservation) bool { return res.BusinessID == businessID }), nil
}

func (r memReservations) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*entities.Reservation, error) {
	if err := r.s.enter("Reservations.ListByCustomer", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return r.list(func(res entities.Reservation) bool {
		return res.CustomerID.Valid && res.CustomerID.UUID == customerID
	}), nil
}

func (r memReservations) ListByTableAndDate(_ context.Context, tableID uuid.UUID, date string) ([]*entities.Reservation, error) {
	if err := r.s.enter("Reservations.ListByTableAndDate", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return r.list(func(res entities.Reservation) bool { return res.TableID == tableID && res.Date == date }), nil
}

func (r memReservations) GetByID(_ context.Context, id uuid.UUID) (*entities.Reservation, error) {
	if err := r.s.enter("Reservations.GetByID", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	found := r.list(func(res entities.Reservation) bool { return res.ID == id })
	if len(found) == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return found[0], nil
}

func (r memReservations) Create(_ context.Context, res *entities.Reservation) error {
	if err := r.s.enter("Reservations.Create", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	res.ID = newID(res.ID)
	r.s.reservations = append(r.s.reservations, *res)
	return nil
}

func (r memReservations) Update(_ context.Context, res *entities.Reservation) error {
	if err := r.s.enter("Reservations.Update", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.reservations {
		if r.s.reservations[i].ID == res.ID {
			r.s.reservations[i] = *res
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r memReservations) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.s.enter("Reservations.Delete", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.reservations {
		if r.s.reservations[i].ID == id {
			r.s.reservations = append(r.s.reservations[:i], r.s.reservations[i+1:]...)
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r memReservations) SetStatus(_ context.Context, id uuid.UUID, status entities.ReservationStatus) error {
	if err := r.s.enter("Reservations.SetStatus", true); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for i := range r.s.reservations {
		if r.s.reservations[i].ID == id {
			r.s.reservations[i].Status = status
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r memReservations) ListExpiredActive(_ context.Context, before string, limit int) ([]*entities.Reservation, error) {
	if err := r.s.enter("Reservations.ListExpiredActive", false); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := r.list(func(res entities.Reservation) bool {
		return res.Status == entities.ReservationActive && res.Date < before
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
