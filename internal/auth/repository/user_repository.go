package repository

import (
	"errors"
	"time"

	authdomain "hse-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for the user directory
type UserRepository interface {
	// Create creates a new user
	Create(user *authdomain.User) error

	// FindByID finds a user by ID, returning (nil, nil) when absent
	FindByID(id string) (*authdomain.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*authdomain.User, error)

	// FindByIDs finds all users matching the given IDs
	FindByIDs(ids []string) ([]*authdomain.User, error)

	// FindActiveByRole finds all active users holding the given role
	FindActiveByRole(role authdomain.Role) ([]*authdomain.User, error)

	// Update updates an existing user
	Update(user *authdomain.User) error

	// CreateRegistrationRequest persists a pending signup request
	CreateRegistrationRequest(req *authdomain.RegistrationRequest) error

	// FindRegistrationRequest finds a registration request by ID
	FindRegistrationRequest(id string) (*authdomain.RegistrationRequest, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(user *authdomain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ids []string) ([]*authdomain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*authdomain.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) FindActiveByRole(role authdomain.Role) ([]*authdomain.User, error) {
	var users []*authdomain.User
	err := r.db.Where("role = ? AND active = ?", role, true).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *authdomain.User) error {
	user.UpdatedAt = time.Now()
	return r.db.Save(user).Error
}

func (r *userRepository) CreateRegistrationRequest(req *authdomain.RegistrationRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.CreatedAt = time.Now()
	if req.Status == "" {
		req.Status = authdomain.RegistrationPending
	}
	return r.db.Create(req).Error
}

func (r *userRepository) FindRegistrationRequest(id string) (*authdomain.RegistrationRequest, error) {
	var req authdomain.RegistrationRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}
