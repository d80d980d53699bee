package usecase

import (
	"fmt"
	"log"

	reportdomain "hse-backend/internal/report/domain"
	"hse-backend/internal/report/repository"
	"hse-backend/internal/zone/resolver"
)

// AssignmentEngine picks an owner for a newly created report using the zone
// responsibility resolver.
type AssignmentEngine struct {
	reportRepo repository.ReportRepository
	resolver   *resolver.Resolver
}

// NewAssignmentEngine creates a new AssignmentEngine
func NewAssignmentEngine(reportRepo repository.ReportRepository, zoneResolver *resolver.Resolver) *AssignmentEngine {
	return &AssignmentEngine{
		reportRepo: reportRepo,
		resolver:   zoneResolver,
	}
}

// AutoAssign resolves the zone owners at the report's creation time and
// assigns the first owner in ascending user-ID order. An empty owner set
// leaves the report unassigned (visible to admins); that is not a failure.
// Returns the assigned owner ID, or "" when the report stays unassigned.
func (e *AssignmentEngine) AutoAssign(report *reportdomain.Report) (string, error) {
	owners, err := e.resolver.ResolveByCode(report.ZoneCode, report.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to resolve owners for report %s: %w", report.ID, err)
	}

	if len(owners) == 0 {
		log.Printf("[AssignmentEngine] No responsible user for zone %q, report %s stays unassigned",
			report.ZoneCode, report.ID)
		return "", nil
	}

	// Resolver output is sorted; the lowest user ID is the stable tie-break.
	ownerID := owners[0]
	if err := e.reportRepo.AssignOwner(report.ID, ownerID); err != nil {
		return "", fmt.Errorf("failed to persist assignment for report %s: %w", report.ID, err)
	}
	report.AssignedOwnerID = &ownerID

	log.Printf("[AssignmentEngine] Report %s assigned to %s (zone %q)", report.ID, ownerID, report.ZoneCode)
	return ownerID, nil
}
