package repository

import (
	"errors"
	"time"

	zonedomain "hse-backend/internal/zone/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormZoneRepository implements ZoneRepository using GORM
type gormZoneRepository struct {
	db *gorm.DB
}

// NewZoneRepository creates a new GORM-based ZoneRepository
func NewZoneRepository(db *gorm.DB) ZoneRepository {
	return &gormZoneRepository{db: db}
}

func (r *gormZoneRepository) Create(zone *zonedomain.Zone) error {
	if zone.ID == "" {
		zone.ID = uuid.New().String()
	}
	zone.CreatedAt = time.Now()
	zone.UpdatedAt = time.Now()
	return r.db.Create(zone).Error
}

func (r *gormZoneRepository) FindByID(id string) (*zonedomain.Zone, error) {
	var zone zonedomain.Zone
	err := r.db.Where("id = ?", id).First(&zone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

func (r *gormZoneRepository) FindByCode(code string) (*zonedomain.Zone, error) {
	var zone zonedomain.Zone
	err := r.db.Where("code = ?", code).First(&zone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

func (r *gormZoneRepository) FindByIDs(ids []string) ([]*zonedomain.Zone, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var zones []*zonedomain.Zone
	err := r.db.Where("id IN ?", ids).Find(&zones).Error
	return zones, err
}

// gormZoneResponsibilityRepository implements ZoneResponsibilityRepository using GORM
type gormZoneResponsibilityRepository struct {
	db *gorm.DB
}

// NewZoneResponsibilityRepository creates a new GORM-based ZoneResponsibilityRepository
func NewZoneResponsibilityRepository(db *gorm.DB) ZoneResponsibilityRepository {
	return &gormZoneResponsibilityRepository{db: db}
}

func (r *gormZoneResponsibilityRepository) Create(resp *zonedomain.ZoneResponsibility) error {
	if resp.ID == "" {
		resp.ID = uuid.New().String()
	}
	resp.CreatedAt = time.Now()
	return r.db.Create(resp).Error
}

func (r *gormZoneResponsibilityRepository) FindActiveByZone(zoneID string) ([]*zonedomain.ZoneResponsibility, error) {
	var responsibilities []*zonedomain.ZoneResponsibility
	err := r.db.Where("zone_id = ? AND active = ?", zoneID, true).
		Order("hse_user_id ASC").Find(&responsibilities).Error
	return responsibilities, err
}

func (r *gormZoneResponsibilityRepository) FindActiveByUser(userID string) ([]*zonedomain.ZoneResponsibility, error) {
	var responsibilities []*zonedomain.ZoneResponsibility
	err := r.db.Where("hse_user_id = ? AND active = ?", userID, true).Find(&responsibilities).Error
	return responsibilities, err
}

// gormZoneDelegationRepository implements ZoneDelegationRepository using GORM
type gormZoneDelegationRepository struct {
	db *gorm.DB
}

// NewZoneDelegationRepository creates a new GORM-based ZoneDelegationRepository
func NewZoneDelegationRepository(db *gorm.DB) ZoneDelegationRepository {
	return &gormZoneDelegationRepository{db: db}
}

func (r *gormZoneDelegationRepository) Create(delegation *zonedomain.ZoneDelegation) error {
	if delegation.ID == "" {
		delegation.ID = uuid.New().String()
	}
	delegation.CreatedAt = time.Now()
	return r.db.Create(delegation).Error
}

func (r *gormZoneDelegationRepository) FindByID(id string) (*zonedomain.ZoneDelegation, error) {
	var delegation zonedomain.ZoneDelegation
	err := r.db.Where("id = ?", id).First(&delegation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delegation, nil
}

func (r *gormZoneDelegationRepository) FindActiveForZoneAt(zoneID string, at time.Time) ([]*zonedomain.ZoneDelegation, error) {
	var delegations []*zonedomain.ZoneDelegation
	err := r.db.Where("zone_id = ? AND active = ? AND start_date <= ? AND end_date >= ?",
		zoneID, true, at, at).Order("to_user_id ASC").Find(&delegations).Error
	return delegations, err
}

func (r *gormZoneDelegationRepository) FindActiveAt(at time.Time) ([]*zonedomain.ZoneDelegation, error) {
	var delegations []*zonedomain.ZoneDelegation
	err := r.db.Where("active = ? AND start_date <= ? AND end_date >= ?",
		true, at, at).Find(&delegations).Error
	return delegations, err
}

func (r *gormZoneDelegationRepository) Update(delegation *zonedomain.ZoneDelegation) error {
	return r.db.Save(delegation).Error
}
