// Package memstore is an in-memory repositories.Store. Transactions are
// serialized by a single mutex and rolled back by restoring a snapshot.
package memstore

import (
	"context"
	"sync"

	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/core/domain"
)

type state struct {
	users       map[uint]*domain.User
	donations   map[string]*domain.Donation
	tokens      map[uint]*domain.RefreshToken
	nextUserID  uint
	nextTokenID uint
}

func newState() *state {
	return &state{
		users:     make(map[uint]*domain.User),
		donations: make(map[string]*domain.Donation),
		tokens:    make(map[uint]*domain.RefreshToken),
	}
}

func (st *state) clone() *state {
	c := newState()
	for id, u := range st.users {
		c.users[id] = copyUser(u)
	}
	for id, d := range st.donations {
		c.donations[id] = copyDonation(d)
	}
	for id, t := range st.tokens {
		c.tokens[id] = copyToken(t)
	}
	c.nextUserID = st.nextUserID
	c.nextTokenID = st.nextTokenID
	return c
}

// Store is the in-memory store
type Store struct {
	mu       sync.Mutex
	st       *state
	txErrors []error
}

// New creates an empty store
func New() *Store {
	return &Store{st: newState()}
}

var _ repositories.Store = (*Store)(nil)

func (s *Store) Users() repositories.UserRepository {
	return &userRepo{v: &view{s: s}}
}

func (s *Store) Donations() repositories.DonationRepository {
	return &donationRepo{v: &view{s: s}}
}

func (s *Store) RefreshTokens() repositories.RefreshTokenRepository {
	return &tokenRepo{v: &view{s: s}}
}

// WithTx holds the store lock for the whole of fn
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.txErrors) > 0 {
		err := s.txErrors[0]
		s.txErrors = s.txErrors[1:]
		if err != nil {
			return err
		}
	}

	snapshot := s.st.clone()
	if err := fn(&txStore{v: &view{s: s, inTx: true}}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// FailNextTx makes the next transactions fail with the given errors, in order.
// A nil entry lets that transaction run normally.
func (s *Store) FailNextTx(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txErrors = append(s.txErrors, errs...)
}

// txStore is the Store handed to transaction callbacks
type txStore struct {
	v *view
}

func (t *txStore) Users() repositories.UserRepository { return &userRepo{v: t.v} }
func (t *txStore) Donations() repositories.DonationRepository { return &donationRepo{v: t.v} }
func (t *txStore) RefreshTokens() repositories.RefreshTokenRepository { return &tokenRepo{v: t.v} }

// WithTx joins the running transaction
func (t *txStore) WithTx(_ context.Context, fn func(tx repositories.Store) error) error {
	return fn(t)
}

// view gives repositories access to the state, locking unless already in a transaction
type view struct {
	s    *Store
	inTx bool
}

func (v *view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (v *view) state() *state {
	return v.s.st
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.DailyIntakeCapacity != nil {
		capacity := *u.DailyIntakeCapacity
		c.DailyIntakeCapacity = &capacity
	}
	return &c
}

func copyDonation(d *domain.Donation) *domain.Donation {
	c := *d
	c.ImageURLs = append([]string(nil), d.ImageURLs...)
	c.ClaimedByID = copyUint(d.ClaimedByID)
	c.TransporterID = copyUint(d.TransporterID)
	c.PickedUpAt = copyTime(d.PickedUpAt)
	c.DeliveredAt = copyTime(d.DeliveredAt)
	return &c
}

func copyToken(t *domain.RefreshToken) *domain.RefreshToken {
	c := *t
	c.RevokedAt = copyTime(t.RevokedAt)
	return &c
}
