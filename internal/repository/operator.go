// internal/repository/operator.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/model"
	"gorm.io/gorm"
)

type OperatorRepositoryIface interface {
	Create(ctx context.Context, operator *model.Operator) error
	FindByEmail(ctx context.Context, email string) (*model.Operator, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error)
}

type OperatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) Create(ctx context.Context, operator *model.Operator) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Operator{}).Where("email = ?", operator.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("checking existing operator: %w", err)
		}
		if count > 0 {
			return domain.ErrEmailAlreadyExists
		}
		if err := tx.Create(operator).Error; err != nil {
			return fmt.Errorf("creating operator: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (*model.Operator, error) {
	var operator model.Operator
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&operator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("finding operator: %w", err)
	}
	return &operator, nil
}

func (r *OperatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	var operator model.Operator
	if err := r.db.WithContext(ctx).First(&operator, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("finding operator: %w", err)
	}
	return &operator, nil
}
