package usecase

import (
	"errors"
	"fmt"

	authdomain "hse-backend/internal/auth/domain"
	"hse-backend/internal/auth/repository"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase validates bearer tokens issued by the identity service.
// Token issuance itself lives outside this service.
type AuthUsecase interface {
	// ValidateToken parses the token and resolves the active user it belongs to
	ValidateToken(token string) (*authdomain.User, error)
}

type authUsecase struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, jwtSecret string) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(u.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return nil, errors.New("token missing subject")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, errors.New("user not found or inactive")
	}

	return user, nil
}
