package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/core/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImagesPerDonation caps the photos attached to one listing
const MaxImagesPerDonation = 10

// DefaultNearbyRadiusKm is used when the caller gives no radius
const DefaultNearbyRadiusKm = 10.0

// MaxNearbyRadiusKm bounds radius searches
const MaxNearbyRadiusKm = 100.0

// DonationService runs the donation lifecycle
type DonationService struct {
	store    repositories.Store
	claims   *ClaimCoordinator
	notifier Notifier
	images   ImageStore
	log      *zap.Logger
	now      func() time.Time
}

// NewDonationService creates a new donation service. images may be nil when
// uploads are not configured.
func NewDonationService(
	store repositories.Store,
	claims *ClaimCoordinator,
	notifier Notifier,
	images ImageStore,
	log *zap.Logger,
) *DonationService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &DonationService{
		store:    store,
		claims:   claims,
		notifier: notifier,
		images:   images,
		log:      log,
		now:      time.Now,
	}
}

// CreateDonationInput represents a new listing
type CreateDonationInput struct {
	Name            string     `json:"name" validate:"required,max=150"`
	Description     string     `json:"description" validate:"max=2000"`
	FoodType        string     `json:"food_type" validate:"required,foodtype"`
	Quantity        float64    `json:"quantity" validate:"gte=0.01"`
	Unit            string     `json:"unit" validate:"max=30"`
	Latitude        float64    `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude       float64    `json:"longitude" validate:"gte=-180,lte=180"`
	Address         string     `json:"address" validate:"max=255"`
	ImageURLs       []string   `json:"image_urls" validate:"max=10,dive,url"`
	KeptCovered     bool       `json:"kept_covered"`
	ContainerClean  bool       `json:"container_clean"`
	PreparationTime time.Time  `json:"preparation_time" validate:"required"`
	ExpiryTime      *time.Time `json:"expiry_time"`
}

// UpdateDonationInput represents a donor edit; nil fields are left unchanged
type UpdateDonationInput struct {
	Name            *string    `json:"name" validate:"omitempty,max=150"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	FoodType        *string    `json:"food_type" validate:"omitempty,foodtype"`
	Quantity        *float64   `json:"quantity" validate:"omitempty,gte=0.01"`
	Unit            *string    `json:"unit" validate:"omitempty,max=30"`
	Latitude        *float64   `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64   `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Address         *string    `json:"address" validate:"omitempty,max=255"`
	KeptCovered     *bool      `json:"kept_covered"`
	ContainerClean  *bool      `json:"container_clean"`
	PreparationTime *time.Time `json:"preparation_time"`
	ExpiryTime      *time.Time `json:"expiry_time"`
}

// ListDonationsInput filters the public feed
type ListDonationsInput struct {
	Status   string
	FoodType string
	Offset   int
	Limit    int
}

// NearbyDonation is a donation with its distance from the search point
type NearbyDonation struct {
	Donation   *domain.Donation
	DistanceKm float64
}

// ImageUpload is one file to attach to a donation
type ImageUpload struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

// Create publishes a new donation after the food safety check
func (s *DonationService) Create(ctx context.Context, actorID uint, input *CreateDonationInput) (*domain.Donation, error) {
	actor, err := activeUser(ctx, s.store.Users(), actorID)
	if err != nil {
		return nil, err
	}
	if !domain.CanCreate(actor.Role) {
		return nil, fmt.Errorf("%w: only donors can publish donations", domain.ErrIllegalTransition)
	}

	foodType, ok := domain.ParseFoodType(input.FoodType)
	if !ok {
		return nil, domain.ErrUnknownFoodType
	}
	if input.Quantity < domain.MinQuantity {
		return nil, fmt.Errorf("%w: quantity must be at least %.2f", domain.ErrInvalidInput, domain.MinQuantity)
	}
	if !domain.ValidCoordinates(input.Latitude, input.Longitude) {
		return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	if len(input.ImageURLs) > MaxImagesPerDonation {
		return nil, fmt.Errorf("%w: at most %d images", domain.ErrInvalidInput, MaxImagesPerDonation)
	}

	expiry := domain.DeriveExpiry(foodType, input.PreparationTime)
	if input.ExpiryTime != nil {
		expiry = *input.ExpiryTime
	}
	if err := domain.ValidateFoodSafety(foodType, input.PreparationTime, expiry, s.now()); err != nil {
		return nil, err
	}

	d := &domain.Donation{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		FoodType:    foodType,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		Location: domain.Location{
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
			Address:   input.Address,
		},
		ImageURLs: input.ImageURLs,
		Hygiene: domain.Hygiene{
			KeptCovered:    input.KeptCovered,
			ContainerClean: input.ContainerClean,
		},
		PreparationTime: input.PreparationTime,
		ExpiryTime:      expiry,
		Status:          domain.StatusAvailable,
		DonorID:         actor.ID,
	}

	if err := s.store.Donations().Create(ctx, d); err != nil {
		return nil, err
	}

	donationsCreated.WithLabelValues(string(foodType)).Inc()
	s.log.Info("✅ Donation created",
		zap.String("donation_id", d.ID),
		zap.Uint("user_id", actor.ID),
		zap.String("food_type", string(foodType)),
	)

	s.notifier.DonationCreated(d)
	return d, nil
}

// Update applies a donor edit while the donation is still AVAILABLE
func (s *DonationService) Update(ctx context.Context, id string, actorID uint, input *UpdateDonationInput) (*domain.Donation, error) {
	var updated *domain.Donation
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		d, err := tx.Donations().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkEditable(d, actorID); err != nil {
			return err
		}
		if err := s.applyEdit(d, input); err != nil {
			return err
		}
		if err := tx.Donations().Update(ctx, d); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ Donation updated", zap.String("donation_id", id), zap.Uint("user_id", actorID))
	return updated, nil
}

func (s *DonationService) applyEdit(d *domain.Donation, input *UpdateDonationInput) error {
	timingChanged := false

	if input.Name != nil {
		d.Name = *input.Name
	}
	if input.Description != nil {
		d.Description = *input.Description
	}
	if input.FoodType != nil {
		ft, ok := domain.ParseFoodType(*input.FoodType)
		if !ok {
			return domain.ErrUnknownFoodType
		}
		timingChanged = timingChanged || ft != d.FoodType
		d.FoodType = ft
	}
	if input.Quantity != nil {
		if *input.Quantity < domain.MinQuantity {
			return fmt.Errorf("%w: quantity must be at least %.2f", domain.ErrInvalidInput, domain.MinQuantity)
		}
		d.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		d.Unit = *input.Unit
	}
	if input.Latitude != nil {
		d.Location.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		d.Location.Longitude = *input.Longitude
	}
	if !domain.ValidCoordinates(d.Location.Latitude, d.Location.Longitude) {
		return fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	if input.Address != nil {
		d.Location.Address = *input.Address
	}
	if input.KeptCovered != nil {
		d.Hygiene.KeptCovered = *input.KeptCovered
	}
	if input.ContainerClean != nil {
		d.Hygiene.ContainerClean = *input.ContainerClean
	}
	if input.PreparationTime != nil && !input.PreparationTime.Equal(d.PreparationTime) {
		d.PreparationTime = *input.PreparationTime
		timingChanged = true
		if input.ExpiryTime == nil {
			d.ExpiryTime = domain.DeriveExpiry(d.FoodType, d.PreparationTime)
		}
	}
	if input.ExpiryTime != nil && !input.ExpiryTime.Equal(d.ExpiryTime) {
		d.ExpiryTime = *input.ExpiryTime
		timingChanged = true
	}

	if timingChanged {
		return domain.ValidateFoodSafety(d.FoodType, d.PreparationTime, d.ExpiryTime, s.now())
	}
	return nil
}

// GetByID returns one donation
func (s *DonationService) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	return s.store.Donations().GetByID(ctx, id)
}

// List returns the feed; status defaults to AVAILABLE
func (s *DonationService) List(ctx context.Context, input *ListDonationsInput) ([]*domain.Donation, int64, error) {
	filter := domain.DonationFilter{Offset: input.Offset, Limit: input.Limit}

	status := domain.StatusAvailable
	if input.Status != "" {
		st, ok := domain.ParseStatus(input.Status)
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
		}
		status = st
	}
	filter.Status = &status

	if input.FoodType != "" {
		ft, ok := domain.ParseFoodType(input.FoodType)
		if !ok {
			return nil, 0, domain.ErrUnknownFoodType
		}
		filter.FoodType = &ft
	}

	return s.store.Donations().List(ctx, filter)
}

// Nearby returns AVAILABLE donations within radiusKm of the point, closest first
func (s *DonationService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyDonation, error) {
	if !domain.ValidCoordinates(lat, lng) {
		return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if radiusKm > MaxNearbyRadiusKm {
		radiusKm = MaxNearbyRadiusKm
	}

	center := domain.Location{Latitude: lat, Longitude: lng}
	box := domain.BoundsAround(center, radiusKm)
	status := domain.StatusAvailable

	candidates, _, err := s.store.Donations().List(ctx, domain.DonationFilter{
		Status: &status,
		Bounds: &box,
	})
	if err != nil {
		return nil, err
	}

	out := make([]NearbyDonation, 0, len(candidates))
	for _, d := range candidates {
		dist := domain.DistanceKm(center, d.Location)
		if dist <= radiusKm {
			out = append(out, NearbyDonation{Donation: d, DistanceKm: dist})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// Mine lists the donations the actor is involved in, according to their role
func (s *DonationService) Mine(ctx context.Context, actorID uint, offset, limit int) ([]*domain.Donation, int64, error) {
	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrUnauthorized
		}
		return nil, 0, err
	}

	filter := domain.DonationFilter{Offset: offset, Limit: limit}
	switch actor.Role {
	case domain.RoleNGO:
		filter.ClaimedByID = &actor.ID
	case domain.RoleVolunteer:
		filter.TransporterID = &actor.ID
	default:
		filter.DonorID = &actor.ID
	}
	return s.store.Donations().List(ctx, filter)
}

// Claim reserves the donation for the acting NGO
func (s *DonationService) Claim(ctx context.Context, id string, actorID uint) (*domain.Donation, error) {
	return s.claims.Claim(ctx, id, actorID)
}

// PickUp records the acting volunteer collecting a claimed donation
func (s *DonationService) PickUp(ctx context.Context, id string, actorID uint) (*domain.Donation, error) {
	return s.transition(ctx, id, actorID, domain.StatusPickedUp,
		func(_ repositories.Store, d *domain.Donation, actor *domain.User) error {
			return d.PickUp(actor.ID, s.now())
		})
}

// Deliver records delivery by the transporter and rewards donor and transporter
func (s *DonationService) Deliver(ctx context.Context, id string, actorID uint) (*domain.Donation, error) {
	return s.transition(ctx, id, actorID, domain.StatusDelivered,
		func(tx repositories.Store, d *domain.Donation, actor *domain.User) error {
			if err := d.Deliver(actor.ID, s.now()); err != nil {
				return err
			}
			return s.rewardDelivery(ctx, tx, d.DonorID, actor)
		})
}

// Override forces a status on behalf of an admin
func (s *DonationService) Override(ctx context.Context, id string, actorID uint, target domain.DonationStatus) (*domain.Donation, error) {
	var updated *domain.Donation
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		d, err := tx.Donations().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		actor, err := activeUser(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleAdmin {
			return fmt.Errorf("%w: status override requires an administrator", domain.ErrIllegalTransition)
		}
		if err := d.ApplyOverride(target, s.now()); err != nil {
			return err
		}
		if err := tx.Donations().Update(ctx, d); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	transitionsTotal.WithLabelValues(string(target)).Inc()
	s.log.Warn("⚠️ Donation status overridden",
		zap.String("donation_id", id),
		zap.Uint("admin_id", actorID),
		zap.String("status", string(target)),
	)
	s.notifier.DonationStatusChanged(updated)
	return updated, nil
}

// TransitionStatus dispatches a requested status change to the matching lifecycle step
func (s *DonationService) TransitionStatus(ctx context.Context, id string, actorID uint, target domain.DonationStatus) (*domain.Donation, error) {
	actor, err := activeUser(ctx, s.store.Users(), actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleAdmin {
		return s.Override(ctx, id, actorID, target)
	}

	switch target {
	case domain.StatusClaimed:
		return s.Claim(ctx, id, actorID)
	case domain.StatusPickedUp:
		return s.PickUp(ctx, id, actorID)
	case domain.StatusDelivered:
		return s.Deliver(ctx, id, actorID)
	default:
		return nil, fmt.Errorf("%w: cannot move a donation to %s", domain.ErrIllegalTransition, target)
	}
}

// AddImages uploads photos and attaches their URLs to an AVAILABLE donation
func (s *DonationService) AddImages(ctx context.Context, id string, actorID uint, files []ImageUpload) (*domain.Donation, error) {
	if s.images == nil {
		return nil, domain.ErrUploadsDisabled
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images provided", domain.ErrInvalidInput)
	}

	d, err := s.store.Donations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkEditable(d, actorID); err != nil {
		return nil, err
	}
	if len(d.ImageURLs)+len(files) > MaxImagesPerDonation {
		return nil, fmt.Errorf("%w: at most %d images", domain.ErrInvalidInput, MaxImagesPerDonation)
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.images.Upload(ctx, id, f.FileName, f.ContentType, f.Reader)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.FileName, err)
		}
		urls = append(urls, url)
	}

	var updated *domain.Donation
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		locked, err := tx.Donations().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkEditable(locked, actorID); err != nil {
			return err
		}
		locked.ImageURLs = append(locked.ImageURLs, urls...)
		if err := tx.Donations().Update(ctx, locked); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ Donation images added", zap.String("donation_id", id), zap.Int("count", len(urls)))
	return updated, nil
}

type transitionFunc func(tx repositories.Store, d *domain.Donation, actor *domain.User) error

// transition runs a pickup or delivery inside one transaction
func (s *DonationService) transition(ctx context.Context, id string, actorID uint, target domain.DonationStatus, apply transitionFunc) (*domain.Donation, error) {
	var updated *domain.Donation
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		d, err := tx.Donations().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		actor, err := lockedActiveUser(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransition(d.Status, target, actor.Role); err != nil {
			return err
		}
		if err := apply(tx, d, actor); err != nil {
			return err
		}
		if err := tx.Donations().Update(ctx, d); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	transitionsTotal.WithLabelValues(string(target)).Inc()
	s.log.Info("✅ Donation status changed",
		zap.String("donation_id", id),
		zap.Uint("user_id", actorID),
		zap.String("status", string(target)),
	)
	s.notifier.DonationStatusChanged(updated)
	return updated, nil
}

// rewardDelivery credits karma and trust to the donor and transporter
func (s *DonationService) rewardDelivery(ctx context.Context, tx repositories.Store, donorID uint, transporter *domain.User) error {
	donor, err := tx.Users().GetByIDForUpdate(ctx, donorID)
	if err != nil {
		return err
	}

	domain.RewardDelivery(donor, transporter)

	if err := tx.Users().Update(ctx, donor); err != nil {
		return err
	}
	return tx.Users().Update(ctx, transporter)
}

func checkEditable(d *domain.Donation, actorID uint) error {
	if d.DonorID != actorID {
		return fmt.Errorf("%w: only the donor can edit this donation", domain.ErrIllegalTransition)
	}
	if d.Status != domain.StatusAvailable {
		return domain.ErrInvalidState
	}
	return nil
}

// activeUser loads the acting user; missing or suspended users are unauthorized
func activeUser(ctx context.Context, users repositories.UserRepository, id uint) (*domain.User, error) {
	return checkActive(users.GetByID(ctx, id))
}

// lockedActiveUser is activeUser holding the row lock
func lockedActiveUser(ctx context.Context, users repositories.UserRepository, id uint) (*domain.User, error) {
	return checkActive(users.GetByIDForUpdate(ctx, id))
}

func checkActive(u *domain.User, err error) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}
