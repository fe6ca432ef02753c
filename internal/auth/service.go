package auth

import (
	"context"

	"github.com/mehmetcc/financeu/internal/password"
	"github.com/mehmetcc/financeu/internal/person"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, name, email, plaintext string) (*person.Person, error)
}

type authService struct {
	personRepo person.PersonRepo
	hasher     *password.Hasher
	logger     *zap.Logger
}

func NewAuthenticationService(personRepo person.PersonRepo, hasher *password.Hasher, logger *zap.Logger) AuthService {
	return &authService{
		personRepo: personRepo,
		hasher:     hasher,
		logger:     logger,
	}
}

func (a *authService) Register(ctx context.Context, name, email, plaintext string) (*person.Person, error) {
	hashed, err := a.hasher.Hash(plaintext)
	if err != nil {
		a.logger.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	return a.personRepo.Create(ctx, &person.PersonDTO{
		Email:    email,
		Name:     name,
		Password: hashed,
	})
}
