package repository

import (
	"time"

	zonedomain "hse-backend/internal/zone/domain"
)

// ZoneRepository defines the interface for zone lookups
type ZoneRepository interface {
	// Create creates a new zone
	Create(zone *zonedomain.Zone) error

	// FindByID finds a zone by ID, returning (nil, nil) when absent
	FindByID(id string) (*zonedomain.Zone, error)

	// FindByCode finds a zone by its unique code
	FindByCode(code string) (*zonedomain.Zone, error)

	// FindByIDs finds all zones matching the given IDs
	FindByIDs(ids []string) ([]*zonedomain.Zone, error)
}

// ZoneResponsibilityRepository defines the interface for permanent assignments
type ZoneResponsibilityRepository interface {
	// Create creates a new permanent assignment
	Create(resp *zonedomain.ZoneResponsibility) error

	// FindActiveByZone finds all active permanent assignments for a zone
	FindActiveByZone(zoneID string) ([]*zonedomain.ZoneResponsibility, error)

	// FindActiveByUser finds all active permanent assignments held by a user
	FindActiveByUser(userID string) ([]*zonedomain.ZoneResponsibility, error)
}

// ZoneDelegationRepository defines the interface for time-bounded delegations
type ZoneDelegationRepository interface {
	// Create creates a new delegation
	Create(delegation *zonedomain.ZoneDelegation) error

	// FindByID finds a delegation by ID, returning (nil, nil) when absent
	FindByID(id string) (*zonedomain.ZoneDelegation, error)

	// FindActiveForZoneAt finds the active delegations covering a zone at the given time
	FindActiveForZoneAt(zoneID string, at time.Time) ([]*zonedomain.ZoneDelegation, error)

	// FindActiveAt finds every active delegation covering the given time
	FindActiveAt(at time.Time) ([]*zonedomain.ZoneDelegation, error)

	// Update updates an existing delegation
	Update(delegation *zonedomain.ZoneDelegation) error
}
