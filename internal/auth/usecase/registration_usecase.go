package usecase

import (
	"fmt"

	authdomain "hse-backend/internal/auth/domain"
	"hse-backend/internal/auth/repository"

	"github.com/google/uuid"
)

// RegistrationEvents is the post-commit hook surface the signup path calls.
// Satisfied by the notification event gateway.
type RegistrationEvents interface {
	RegistrationRequestSubmitted(requestID string)
}

// RegistrationUsecase accepts signup requests for admin review
type RegistrationUsecase interface {
	// SubmitRequest records a pending registration request and notifies admins
	SubmitRequest(email, name string) (*authdomain.RegistrationRequest, error)
}

// registrationUsecase implements RegistrationUsecase interface
type registrationUsecase struct {
	userRepo repository.UserRepository
	events   RegistrationEvents
}

// NewRegistrationUsecase creates a new instance of registrationUsecase
func NewRegistrationUsecase(userRepo repository.UserRepository, events RegistrationEvents) RegistrationUsecase {
	return &registrationUsecase{
		userRepo: userRepo,
		events:   events,
	}
}

func (u *registrationUsecase) SubmitRequest(email, name string) (*authdomain.RegistrationRequest, error) {
	if email == "" {
		return nil, fmt.Errorf("registration email is required")
	}

	existing, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("a user with email %s already exists", email)
	}

	request := &authdomain.RegistrationRequest{
		ID:     uuid.New().String(),
		Email:  email,
		Name:   name,
		Status: authdomain.RegistrationPending,
	}
	if err := u.userRepo.CreateRegistrationRequest(request); err != nil {
		return nil, fmt.Errorf("failed to create registration request: %w", err)
	}

	u.events.RegistrationRequestSubmitted(request.ID)
	return request, nil
}
