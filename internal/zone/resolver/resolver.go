package resolver

import (
	"fmt"
	"log"
	"sort"
	"time"

	"hse-backend/internal/zone/repository"
)

// Resolver answers "who owns zone Z at time T". An active delegation covering
// T fully overrides permanent responsibility; the result is always either
// delegate targets or permanent holders, never a mix.
type Resolver struct {
	zoneRepo       repository.ZoneRepository
	respRepo       repository.ZoneResponsibilityRepository
	delegationRepo repository.ZoneDelegationRepository
}

// NewResolver creates a new Resolver
func NewResolver(
	zoneRepo repository.ZoneRepository,
	respRepo repository.ZoneResponsibilityRepository,
	delegationRepo repository.ZoneDelegationRepository,
) *Resolver {
	return &Resolver{
		zoneRepo:       zoneRepo,
		respRepo:       respRepo,
		delegationRepo: delegationRepo,
	}
}

// Resolve returns the user IDs accountable for the zone at the given time,
// in ascending ID order. An unknown zone or a zone with no responsible users
// yields an empty result; the caller must tolerate "unassigned".
func (r *Resolver) Resolve(zoneID string, at time.Time) ([]string, error) {
	zone, err := r.zoneRepo.FindByID(zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up zone %s: %w", zoneID, err)
	}
	if zone == nil {
		log.Printf("[ZoneResolver] Unknown zone %s, resolving to empty owner set", zoneID)
		return nil, nil
	}

	delegations, err := r.delegationRepo.FindActiveForZoneAt(zoneID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to load delegations for zone %s: %w", zoneID, err)
	}
	if len(delegations) > 0 {
		ids := make([]string, 0, len(delegations))
		for _, d := range delegations {
			ids = append(ids, d.ToUserID)
		}
		return sortUnique(ids), nil
	}

	return r.PermanentHolders(zoneID)
}

// ResolveByCode resolves owners for the zone identified by its code
func (r *Resolver) ResolveByCode(code string, at time.Time) ([]string, error) {
	zone, err := r.zoneRepo.FindByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up zone code %q: %w", code, err)
	}
	if zone == nil {
		log.Printf("[ZoneResolver] Unknown zone code %q, resolving to empty owner set", code)
		return nil, nil
	}
	return r.Resolve(zone.ID, at)
}

// PermanentHolders returns the active permanent responsibility holders for a
// zone, ignoring any delegation. Used for monitoring-only copies.
func (r *Resolver) PermanentHolders(zoneID string) ([]string, error) {
	responsibilities, err := r.respRepo.FindActiveByZone(zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responsibilities for zone %s: %w", zoneID, err)
	}
	if len(responsibilities) == 0 {
		log.Printf("[ZoneResolver] Zone %s has no responsible users", zoneID)
		return nil, nil
	}
	ids := make([]string, 0, len(responsibilities))
	for _, resp := range responsibilities {
		ids = append(ids, resp.HSEUserID)
	}
	return sortUnique(ids), nil
}

// OwnedZoneIDs returns the zones the user routes for at the given time:
// permanent zones not currently delegated away, plus zones delegated to them.
func (r *Resolver) OwnedZoneIDs(userID string, at time.Time) ([]string, error) {
	responsibilities, err := r.respRepo.FindActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responsibilities for user %s: %w", userID, err)
	}

	permanent := make(map[string]bool)
	for _, resp := range responsibilities {
		permanent[resp.ZoneID] = true
	}

	delegations, err := r.delegationRepo.FindActiveAt(at)
	if err != nil {
		return nil, fmt.Errorf("failed to load active delegations: %w", err)
	}
	delegated := make(map[string]bool)
	delegatedToUser := make(map[string]bool)
	for _, d := range delegations {
		delegated[d.ZoneID] = true
		if d.ToUserID == userID {
			delegatedToUser[d.ZoneID] = true
		}
	}

	// A covering delegation removes the zone from the permanent holder's
	// routing set; the delegate targets route for it instead.
	owned := make(map[string]bool)
	for id := range permanent {
		if !delegated[id] {
			owned[id] = true
		}
	}
	for id := range delegatedToUser {
		owned[id] = true
	}

	ids := make([]string, 0, len(owned))
	for id := range owned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func sortUnique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
