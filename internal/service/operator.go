// internal/service/operator.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/opsledger/billingd/internal/auth"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/repository"
)

// OperatorService handles operator accounts and console login.
type OperatorService struct {
	repo           repository.OperatorRepositoryIface
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	validate       *validator.Validate
}

func NewOperatorService(
	repo repository.OperatorRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
) *OperatorService {
	return &OperatorService{
		repo:           repo,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		validate:       validator.New(),
	}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	Operator *model.Operator `json:"operator"`
	Token    string          `json:"token"`
}

func (s *OperatorService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	operator, err := s.repo.FindByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrOperatorNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	verified, err := s.passwordHasher.Verify(input.Password, operator.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !verified {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenManager.Generate(operator.ID.String(), operator.Email, string(operator.Role))
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginOutput{
		Operator: operator,
		Token:    token,
	}, nil
}

type CreateOperatorInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin viewer"`
}

func (s *OperatorService) CreateOperator(ctx context.Context, input CreateOperatorInput) (*model.Operator, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	hash, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	operator := &model.Operator{
		Email:        strings.ToLower(input.Email),
		Name:         input.Name,
		PasswordHash: hash,
		Role:         model.OperatorRole(input.Role),
	}
	if err := s.repo.Create(ctx, operator); err != nil {
		return nil, err
	}

	return operator, nil
}
