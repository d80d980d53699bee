package repository

import (
	"errors"
	"time"

	notifdomain "hse-backend/internal/notification/domain"

	"gorm.io/gorm"
)

// digestConfigRowID pins the settings table to a single row
const digestConfigRowID = 1

// DigestConfigRepository defines the interface for the single settings row
type DigestConfigRepository interface {
	// Get loads the settings row, seeding defaults on first use
	Get() (*notifdomain.DigestConfig, error)

	// Update persists the settings row
	Update(config *notifdomain.DigestConfig) error
}

// gormDigestConfigRepository implements DigestConfigRepository using GORM
type gormDigestConfigRepository struct {
	db       *gorm.DB
	defaults notifdomain.DigestConfig
}

// NewDigestConfigRepository creates a new GORM-based DigestConfigRepository.
// The defaults are written on first Get when no row exists yet.
func NewDigestConfigRepository(db *gorm.DB, defaults notifdomain.DigestConfig) DigestConfigRepository {
	return &gormDigestConfigRepository{db: db, defaults: defaults}
}

func (r *gormDigestConfigRepository) Get() (*notifdomain.DigestConfig, error) {
	var config notifdomain.DigestConfig
	err := r.db.Where("id = ?", digestConfigRowID).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seeded := r.defaults
			seeded.ID = digestConfigRowID
			seeded.UpdatedAt = time.Now()
			if err := r.db.Create(&seeded).Error; err != nil {
				return nil, err
			}
			return &seeded, nil
		}
		return nil, err
	}
	return &config, nil
}

func (r *gormDigestConfigRepository) Update(config *notifdomain.DigestConfig) error {
	config.ID = digestConfigRowID
	config.UpdatedAt = time.Now()
	return r.db.Save(config).Error
}
