package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/recordkeep/records-system/internal/core/domain"
)

type fakeAccountRepo struct {
	mu        sync.Mutex
	accounts  map[int64]domain.Account
	updateErr error
	findCalls int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[int64]domain.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.Number]; ok {
		return domain.ErrAccountExists
	}
	r.accounts[a.Number] = *a
	return nil
}

func (r *fakeAccountRepo) FindByNumber(_ context.Context, number int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	a, ok := r.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *fakeAccountRepo) UpdateBalance(_ context.Context, number int64, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.accounts[number]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Balance = balance
	r.accounts[number] = a
	return nil
}

func (r *fakeAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *fakeAccountRepo) stored(number int64) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[number].Balance
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.users[u.Username]; ok {
		return nil, domain.ErrUserExists
	}
	created := *u
	created.ID = u.Username + "-id"
	r.users[u.Username] = created
	return &created, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type fakeProductRepo struct {
	products []domain.Product
	nextID   int64
	err      error
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	p.ID = r.nextID
	r.products = append(r.products, *p)
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	if r.err != nil {
		return r.err
	}
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = *p
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (r *fakeProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.FindWhere(ctx, domain.ProductFilter{})
}

func (r *fakeProductRepo) FindWhere(_ context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []*domain.Product{}
	for _, p := range r.products {
		if f.Matches(&p) {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

// plainHasher makes hashes readable in assertions.
type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return "h:" + secret, nil }
func (plainHasher) Verify(secret, hash string) bool    { return hash == "h:"+secret }

type fakeSessionStore struct {
	sessions map[string]domain.Session
	saveErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *fakeSessionStore) Save(_ context.Context, sess *domain.Session, _ time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *fakeSessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	return &sess, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}
