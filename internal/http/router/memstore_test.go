package router_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"sendit/internal/apperr"
	"sendit/internal/domain"
	"sendit/internal/notify"
	"sendit/internal/ports/parceltx"
)

// memStore keeps users and parcels in memory. Transactions work on a copy that is
// swapped in on success.
type memStore struct {
	mu      sync.Mutex
	users   []domain.User
	parcels map[int64]domain.Parcel
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{parcels: make(map[int64]domain.Parcel)}
}

func (s *memStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.Email == u.Email || e.Username == u.Username {
			return apperr.Conflict
		}
	}
	u.ID = int64(len(s.users) + 1)
	u.Registered = time.Now().UTC()
	s.users = append(s.users, *u)
	return nil
}

func (s *memStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.Username == username {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.Email == email || e.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// parcelRepo returns the parcel half of the store.
func (s *memStore) parcelRepo() *memParcels { return &memParcels{s: s} }

type memParcels struct{ s *memStore }

func (p *memParcels) Create(_ context.Context, n domain.NewParcel) (int64, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.nextID++
	id := p.s.nextID
	p.s.parcels[id] = domain.Parcel{
		ID:              id,
		PlacedBy:        n.PlacedBy,
		Weight:          n.Weight,
		WeightMetric:    n.WeightMetric,
		From:            n.From,
		To:              n.To,
		CurrentLocation: n.From,
		Status:          domain.ParcelPlaced,
		SentOn:          time.Now().UTC(),
	}
	return id, nil
}

func (p *memParcels) Get(_ context.Context, id int64) (*domain.Parcel, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	v, ok := p.s.parcels[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (p *memParcels) List(ctx context.Context, page domain.Page) ([]domain.Parcel, error) {
	return p.ListByOwner(ctx, 0, page)
}

func (p *memParcels) ListByOwner(_ context.Context, ownerID int64, _ domain.Page) ([]domain.Parcel, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	out := make([]domain.Parcel, 0, len(p.s.parcels))
	for _, v := range p.s.parcels {
		if ownerID == 0 || v.PlacedBy == ownerID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *memParcels) WithTx(ctx context.Context, fn func(tx parceltx.Repository) error) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	staged := make(map[int64]domain.Parcel, len(p.s.parcels))
	for k, v := range p.s.parcels {
		staged[k] = v
	}
	if err := fn(&memTx{s: p.s, parcels: staged}); err != nil {
		return err
	}
	p.s.parcels = staged
	return nil
}

type memTx struct {
	s       *memStore
	parcels map[int64]domain.Parcel
}

func (t *memTx) owner(id int64) domain.ParcelOwner {
	for _, u := range t.s.users {
		if u.ID == id {
			return domain.ParcelOwner{UserID: u.ID, Email: u.Email, FirstName: u.FirstName}
		}
	}
	return domain.ParcelOwner{UserID: id}
}

func (t *memTx) Lock(_ context.Context, id int64) (*domain.LockedParcel, error) {
	v, ok := t.parcels[id]
	if !ok {
		return nil, nil
	}
	return &domain.LockedParcel{Parcel: v, Owner: t.owner(v.PlacedBy)}, nil
}

func (t *memTx) LockOwned(ctx context.Context, id, ownerID int64) (*domain.LockedParcel, error) {
	lp, err := t.Lock(ctx, id)
	if err != nil || lp == nil || lp.PlacedBy != ownerID {
		return nil, err
	}
	return lp, nil
}

func (t *memTx) Delete(_ context.Context, id int64) error {
	delete(t.parcels, id)
	return nil
}

func (t *memTx) UpdateDestination(_ context.Context, id int64, to string) error {
	v := t.parcels[id]
	v.To = to
	t.parcels[id] = v
	return nil
}

func (t *memTx) UpdateStatus(_ context.Context, id int64, status domain.ParcelStatus) error {
	v := t.parcels[id]
	v.Status = status
	if status == domain.ParcelDelivered {
		now := time.Now().UTC()
		v.DeliveredOn = &now
	}
	t.parcels[id] = v
	return nil
}

func (t *memTx) UpdateLocation(_ context.Context, id int64, location string) error {
	v := t.parcels[id]
	v.CurrentLocation = location
	t.parcels[id] = v
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Dispatch(ev notify.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return true
}

func (n *recordingNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Kind, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Kind)
	}
	return out
}
