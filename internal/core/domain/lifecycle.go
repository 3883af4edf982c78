package domain

import (
	"fmt"
	"time"
)

// Transition is one edge of the donation lifecycle
type Transition struct {
	From  DonationStatus
	To    DonationStatus
	Roles []Role
}

// Lifecycle is the static transition table. Admin overrides are handled
// separately by ApplyOverride and are not part of this table.
var Lifecycle = []Transition{
	{From: StatusAvailable, To: StatusClaimed, Roles: []Role{RoleNGO}},
	{From: StatusClaimed, To: StatusPickedUp, Roles: []Role{RoleVolunteer}},
	{From: StatusPickedUp, To: StatusDelivered, Roles: []Role{RoleVolunteer}},
}

// CreateRoles may publish new donations
var CreateRoles = []Role{RoleDonor, RoleAdmin}

// CanCreate reports whether the role may publish donations
func CanCreate(role Role) bool {
	return hasRole(CreateRoles, role)
}

// CheckTransition validates a lifecycle move for an acting role
func CheckTransition(from, to DonationStatus, role Role) error {
	for _, t := range Lifecycle {
		if t.From != from || t.To != to {
			continue
		}
		if !hasRole(t.Roles, role) {
			return fmt.Errorf("%w: %s cannot move %s to %s", ErrIllegalTransition, role, from, to)
		}
		return nil
	}
	return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, from, to)
}

// NextStatuses returns the statuses reachable from the given one
func NextStatuses(from DonationStatus) []DonationStatus {
	var out []DonationStatus
	for _, t := range Lifecycle {
		if t.From == from {
			out = append(out, t.To)
		}
	}
	return out
}

// Claim stamps a claim onto an available donation
func (d *Donation) Claim(ngoID uint) {
	d.Status = StatusClaimed
	d.ClaimedByID = &ngoID
}

// PickUp stamps the pickup by a transporter
func (d *Donation) PickUp(volunteerID uint, now time.Time) error {
	if err := CheckTransition(d.Status, StatusPickedUp, RoleVolunteer); err != nil {
		return err
	}
	d.Status = StatusPickedUp
	d.TransporterID = &volunteerID
	d.PickedUpAt = &now
	return nil
}

// Deliver stamps the delivery. Only the transporter who picked it up may deliver.
func (d *Donation) Deliver(volunteerID uint, now time.Time) error {
	if err := CheckTransition(d.Status, StatusDelivered, RoleVolunteer); err != nil {
		return err
	}
	if d.TransporterID == nil || *d.TransporterID != volunteerID {
		return fmt.Errorf("%w: only the assigned transporter can confirm delivery", ErrIllegalTransition)
	}
	d.Status = StatusDelivered
	d.DeliveredAt = &now
	return nil
}

// ApplyOverride forces a status on behalf of an admin while keeping the
// claimant and transporter fields consistent with the target status.
func (d *Donation) ApplyOverride(target DonationStatus, now time.Time) error {
	if target.HasClaimant() && d.ClaimedByID == nil {
		return fmt.Errorf("%w: %s requires a claimant", ErrInvalidState, target)
	}
	if target.HasTransporter() && d.TransporterID == nil {
		return fmt.Errorf("%w: %s requires a transporter", ErrInvalidState, target)
	}

	switch target {
	case StatusAvailable:
		d.ClaimedByID = nil
		d.TransporterID = nil
		d.PickedUpAt = nil
		d.DeliveredAt = nil
	case StatusClaimed:
		d.TransporterID = nil
		d.PickedUpAt = nil
		d.DeliveredAt = nil
	case StatusPickedUp:
		d.DeliveredAt = nil
		if d.PickedUpAt == nil {
			d.PickedUpAt = &now
		}
	case StatusDelivered:
		if d.PickedUpAt == nil {
			d.PickedUpAt = &now
		}
		if d.DeliveredAt == nil {
			d.DeliveredAt = &now
		}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, target)
	}

	d.Status = target
	return nil
}

func hasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
