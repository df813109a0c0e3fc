package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/opsledger/billingd/internal/auth"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/mocks"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/service"
)

func TestOperatorLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := auth.NewPasswordHasher()
	hashedPassword, _ := hasher.Hash("correct_password")

	operator := &model.Operator{
		ID:           uuid.New(),
		Email:        "ops@example.com",
		Name:         "Ops Person",
		PasswordHash: hashedPassword,
		Role:         model.RoleAdmin,
	}

	newService := func(repo *mocks.MockOperatorRepositoryIface) *service.OperatorService {
		return service.NewOperatorService(repo, hasher, auth.NewTokenManager("test_secret", time.Hour))
	}

	t.Run("successful login returns a token with the role claim", func(t *testing.T) {
		repo := mocks.NewMockOperatorRepositoryIface(ctrl)
		repo.EXPECT().FindByEmail(gomock.Any(), "ops@example.com").Return(operator, nil)

		out, err := newService(repo).Login(context.Background(), service.LoginInput{
			Email:    "Ops@Example.com",
			Password: "correct_password",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, out.Token)

		claims, err := auth.NewTokenManager("test_secret", time.Hour).Validate(out.Token)
		assert.NoError(t, err)
		assert.Equal(t, operator.ID.String(), claims.OperatorID)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("wrong password yields invalid credentials", func(t *testing.T) {
		repo := mocks.NewMockOperatorRepositoryIface(ctrl)
		repo.EXPECT().FindByEmail(gomock.Any(), "ops@example.com").Return(operator, nil)

		_, err := newService(repo).Login(context.Background(), service.LoginInput{
			Email:    "ops@example.com",
			Password: "wrong_password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email yields invalid credentials, not not-found", func(t *testing.T) {
		repo := mocks.NewMockOperatorRepositoryIface(ctrl)
		repo.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").Return(nil, domain.ErrOperatorNotFound)

		_, err := newService(repo).Login(context.Background(), service.LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestCreateOperator(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := auth.NewPasswordHasher()

	t.Run("stores a hashed password and lowercased email", func(t *testing.T) {
		repo := mocks.NewMockOperatorRepositoryIface(ctrl)
		repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, op *model.Operator) error {
				assert.Equal(t, "new@example.com", op.Email)
				assert.NotEqual(t, "secret-password", op.PasswordHash)
				ok, err := hasher.Verify("secret-password", op.PasswordHash)
				assert.NoError(t, err)
				assert.True(t, ok)
				return nil
			})

		svc := service.NewOperatorService(repo, hasher, auth.NewTokenManager("test_secret", time.Hour))
		_, err := svc.CreateOperator(context.Background(), service.CreateOperatorInput{
			Email:    "New@Example.com",
			Name:     "New Operator",
			Password: "secret-password",
			Role:     "viewer",
		})
		assert.NoError(t, err)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		svc := service.NewOperatorService(mocks.NewMockOperatorRepositoryIface(ctrl), hasher, auth.NewTokenManager("test_secret", time.Hour))
		_, err := svc.CreateOperator(context.Background(), service.CreateOperatorInput{
			Email:    "new@example.com",
			Name:     "New Operator",
			Password: "secret-password",
			Role:     "superuser",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
