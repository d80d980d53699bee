package usecase

import (
	"fmt"
	"time"

	zonedomain "hse-backend/internal/zone/domain"
	"hse-backend/internal/zone/repository"

	"github.com/google/uuid"
)

// DelegationEvents is the post-commit hook surface the delegation write path
// calls. Satisfied by the notification event gateway.
type DelegationEvents interface {
	DelegationCreated(delegationID string)
	DelegationEnded(delegationID string)
}

// CreateDelegationInput carries the fields of a new delegation
type CreateDelegationInput struct {
	FromUserID       string
	ToUserID         string
	ZoneID           string
	StartDate        time.Time
	EndDate          time.Time
	Reason           string
	CreatedByAdminID string
}

// DelegationUsecase manages time-bounded handovers of zone responsibility
type DelegationUsecase interface {
	// CreateDelegation records a new delegation and notifies both parties
	CreateDelegation(input CreateDelegationInput) (*zonedomain.ZoneDelegation, error)

	// EndDelegation deactivates a delegation early and notifies both parties
	EndDelegation(delegationID string) error

	// GetDelegation loads a delegation by ID
	GetDelegation(id string) (*zonedomain.ZoneDelegation, error)
}

// delegationUsecase implements DelegationUsecase interface
type delegationUsecase struct {
	zones       repository.ZoneRepository
	delegations repository.ZoneDelegationRepository
	events      DelegationEvents
}

// NewDelegationUsecase creates a new instance of delegationUsecase
func NewDelegationUsecase(zones repository.ZoneRepository, delegations repository.ZoneDelegationRepository, events DelegationEvents) DelegationUsecase {
	return &delegationUsecase{
		zones:       zones,
		delegations: delegations,
		events:      events,
	}
}

func (u *delegationUsecase) CreateDelegation(input CreateDelegationInput) (*zonedomain.ZoneDelegation, error) {
	if input.FromUserID == "" || input.ToUserID == "" {
		return nil, fmt.Errorf("delegation requires both parties")
	}
	if input.FromUserID == input.ToUserID {
		return nil, fmt.Errorf("delegation cannot target the delegating user")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("delegation end date must be after its start date")
	}

	zone, err := u.zones.FindByID(input.ZoneID)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, fmt.Errorf("zone %s not found", input.ZoneID)
	}

	delegation := &zonedomain.ZoneDelegation{
		ID:               uuid.New().String(),
		FromUserID:       input.FromUserID,
		ToUserID:         input.ToUserID,
		ZoneID:           input.ZoneID,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		Reason:           input.Reason,
		CreatedByAdminID: input.CreatedByAdminID,
		Active:           true,
	}
	if err := u.delegations.Create(delegation); err != nil {
		return nil, fmt.Errorf("failed to create delegation: %w", err)
	}

	u.events.DelegationCreated(delegation.ID)
	return delegation, nil
}

func (u *delegationUsecase) EndDelegation(delegationID string) error {
	delegation, err := u.delegations.FindByID(delegationID)
	if err != nil {
		return err
	}
	if delegation == nil {
		return fmt.Errorf("delegation %s not found", delegationID)
	}
	if !delegation.Active {
		return nil
	}

	delegation.Active = false
	if err := u.delegations.Update(delegation); err != nil {
		return fmt.Errorf("failed to end delegation %s: %w", delegationID, err)
	}

	u.events.DelegationEnded(delegationID)
	return nil
}

func (u *delegationUsecase) GetDelegation(id string) (*zonedomain.ZoneDelegation, error) {
	return u.delegations.FindByID(id)
}
