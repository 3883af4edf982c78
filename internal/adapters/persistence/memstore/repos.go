package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"foodbridge-api/internal/core/domain"
)

type userRepo struct {
	v *view
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	defer r.v.lock()()
	st := r.v.state()

	for _, u := range st.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrUserAlreadyExists
		}
	}

	st.nextUserID++
	now := time.Now()
	user.ID = st.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	st.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	defer r.v.lock()()
	u, ok := r.v.state().users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id uint) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	defer r.v.lock()()
	for _, u := range r.v.state().users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	defer r.v.lock()()
	st := r.v.state()
	if _, ok := st.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	st.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepo) List(_ context.Context, role *domain.Role, offset, limit int) ([]*domain.User, int64, error) {
	defer r.v.lock()()
	var all []*domain.User
	for _, u := range r.v.state().users {
		if role != nil && u.Role != *role {
			continue
		}
		all = append(all, copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == domain.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *userRepo) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	defer r.v.lock()()
	out := make(map[domain.Role]int64)
	for _, u := range r.v.state().users {
		out[u.Role]++
	}
	return out, nil
}

func (r *userRepo) ResetIntakeLoads(_ context.Context) (int64, error) {
	defer r.v.lock()()
	var n int64
	for _, u := range r.v.state().users {
		if u.Role == domain.RoleNGO && u.CurrentIntakeLoad != 0 {
			u.CurrentIntakeLoad = 0
			n++
		}
	}
	return n, nil
}

type donationRepo struct {
	v *view
}

func (r *donationRepo) Create(_ context.Context, donation *domain.Donation) error {
	defer r.v.lock()()
	now := time.Now()
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = now
	}
	donation.UpdatedAt = now
	r.v.state().donations[donation.ID] = copyDonation(donation)
	return nil
}

func (r *donationRepo) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	defer r.v.lock()()
	d, ok := r.v.state().donations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyDonation(d), nil
}

func (r *donationRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Donation, error) {
	return r.GetByID(ctx, id)
}

func (r *donationRepo) Update(_ context.Context, donation *domain.Donation) error {
	defer r.v.lock()()
	st := r.v.state()
	if _, ok := st.donations[donation.ID]; !ok {
		return domain.ErrNotFound
	}
	donation.UpdatedAt = time.Now()
	st.donations[donation.ID] = copyDonation(donation)
	return nil
}

func (r *donationRepo) List(_ context.Context, f domain.DonationFilter) ([]*domain.Donation, int64, error) {
	defer r.v.lock()()
	all := r.match(f)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, f.Offset, f.Limit), int64(len(all)), nil
}

func (r *donationRepo) Count(_ context.Context, f domain.DonationFilter) (int64, error) {
	defer r.v.lock()()
	return int64(len(r.match(f))), nil
}

func (r *donationRepo) match(f domain.DonationFilter) []*domain.Donation {
	var out []*domain.Donation
	for _, d := range r.v.state().donations {
		switch {
		case f.Status != nil && d.Status != *f.Status,
			f.FoodType != nil && d.FoodType != *f.FoodType,
			f.DonorID != nil && d.DonorID != *f.DonorID,
			f.ClaimedByID != nil && !sameID(d.ClaimedByID, *f.ClaimedByID),
			f.TransporterID != nil && !sameID(d.TransporterID, *f.TransporterID),
			f.Bounds != nil && !f.Bounds.Contains(d.Location):
			continue
		}
		out = append(out, copyDonation(d))
	}
	return out
}

func (r *donationRepo) Stats(_ context.Context) (map[domain.DonationStatus]int64, float64, error) {
	defer r.v.lock()()
	byStatus := make(map[domain.DonationStatus]int64)
	var delivered float64
	for _, d := range r.v.state().donations {
		byStatus[d.Status]++
		if d.Status == domain.StatusDelivered {
			delivered += d.Quantity
		}
	}
	return byStatus, delivered, nil
}

type tokenRepo struct {
	v *view
}

func (r *tokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	defer r.v.lock()()
	st := r.v.state()
	st.nextTokenID++
	token.ID = st.nextTokenID
	token.CreatedAt = time.Now()
	st.tokens[token.ID] = copyToken(token)
	return nil
}

func (r *tokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	defer r.v.lock()()
	for _, t := range r.v.state().tokens {
		if t.TokenHash == tokenHash {
			return copyToken(t), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *tokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	defer r.v.lock()()
	now := time.Now()
	for _, t := range r.v.state().tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *tokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	defer r.v.lock()()
	now := time.Now()
	for _, t := range r.v.state().tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *tokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	defer r.v.lock()()
	st := r.v.state()
	now := time.Now()
	var n int64
	for id, t := range st.tokens {
		if t.IsExpired(now) {
			delete(st.tokens, id)
			n++
		}
	}
	return n, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sameID(p *uint, id uint) bool {
	return p != nil && *p == id
}

func copyUint(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
