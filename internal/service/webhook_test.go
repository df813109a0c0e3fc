package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/mocks"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/service"
)

func TestSubscriptionUpdated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("folds provider status onto the organization", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		eventRepo := mocks.NewMockWebhookEventRepositoryIface(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, Status: model.StatusTrial}, nil)
		orgRepo.EXPECT().
			UpdateStatus(gomock.Any(), orgID, model.StatusActive, gomock.Nil()).
			Return(nil)

		svc := service.NewWebhookService(orgRepo, eventRepo, nil)
		err := svc.SubscriptionUpdated(context.Background(), orgID.String(), "sub_1", "active", nil)
		assert.NoError(t, err)
	})

	t.Run("illegal transition is skipped", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		eventRepo := mocks.NewMockWebhookEventRepositoryIface(ctrl)

		// A pending organization has no subscription yet; only linking may
		// move it forward.
		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, Status: model.StatusPending}, nil)

		svc := service.NewWebhookService(orgRepo, eventRepo, nil)
		err := svc.SubscriptionUpdated(context.Background(), orgID.String(), "sub_1", "active", nil)
		assert.NoError(t, err)
	})

	t.Run("event without usable metadata is ignored", func(t *testing.T) {
		svc := service.NewWebhookService(
			mocks.NewMockOrganizationRepositoryIface(ctrl),
			mocks.NewMockWebhookEventRepositoryIface(ctrl),
			nil,
		)
		err := svc.SubscriptionUpdated(context.Background(), "", "sub_1", "active", nil)
		assert.NoError(t, err)
	})

	t.Run("unknown organization is ignored", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(nil, domain.ErrOrganizationNotFound)

		svc := service.NewWebhookService(orgRepo, mocks.NewMockWebhookEventRepositoryIface(ctrl), nil)
		err := svc.SubscriptionUpdated(context.Background(), orgID.String(), "sub_1", "active", nil)
		assert.NoError(t, err)
	})

	t.Run("trialing status carries the trial end through", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		trialEnd := time.Now().UTC().AddDate(0, 0, 4)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, Status: model.StatusTrial}, nil)
		orgRepo.EXPECT().
			UpdateStatus(gomock.Any(), orgID, model.StatusTrial, &trialEnd).
			Return(nil)

		svc := service.NewWebhookService(orgRepo, mocks.NewMockWebhookEventRepositoryIface(ctrl), nil)
		err := svc.SubscriptionUpdated(context.Background(), orgID.String(), "sub_1", "trialing", &trialEnd)
		assert.NoError(t, err)
	})
}

func TestSubscriptionDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
	orgRepo.EXPECT().
		FindByID(gomock.Any(), orgID).
		Return(&model.Organization{ID: orgID, Status: model.StatusActive}, nil)
	orgRepo.EXPECT().
		UpdateStatus(gomock.Any(), orgID, model.StatusCanceled, gomock.Nil()).
		Return(nil)

	svc := service.NewWebhookService(orgRepo, mocks.NewMockWebhookEventRepositoryIface(ctrl), nil)
	assert.NoError(t, svc.SubscriptionDeleted(context.Background(), orgID.String()))
}

func TestInvoicePaymentFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("active organization becomes past_due", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

		orgRepo.EXPECT().
			FindByStripeCustomer(gomock.Any(), "cus_1").
			Return(&model.Organization{ID: orgID, Status: model.StatusActive}, nil)
		orgRepo.EXPECT().
			UpdateStatus(gomock.Any(), orgID, model.StatusPastDue, gomock.Nil()).
			Return(nil)

		svc := service.NewWebhookService(orgRepo, mocks.NewMockWebhookEventRepositoryIface(ctrl), nil)
		assert.NoError(t, svc.InvoicePaymentFailed(context.Background(), "cus_1"))
	})

	t.Run("repeated failure is a no-op", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

		orgRepo.EXPECT().
			FindByStripeCustomer(gomock.Any(), "cus_1").
			Return(&model.Organization{ID: orgID, Status: model.StatusPastDue}, nil)

		svc := service.NewWebhookService(orgRepo, mocks.NewMockWebhookEventRepositoryIface(ctrl), nil)
		assert.NoError(t, svc.InvoicePaymentFailed(context.Background(), "cus_1"))
	})

	t.Run("unknown customer is ignored", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

		orgRepo.EXPECT().
			FindByStripeCustomer(gomock.Any(), "cus_unknown").
			Return(nil, domain.ErrOrganizationNotFound)

		svc := service.NewWebhookService(orgRepo, mocks.NewMockWebhookEventRepositoryIface(ctrl), nil)
		assert.NoError(t, svc.InvoicePaymentFailed(context.Background(), "cus_unknown"))
	})
}

func TestInvoicePaymentSucceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("past_due organization recovers to active", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

		orgRepo.EXPECT().
			FindByStripeCustomer(gomock.Any(), "cus_1").
			Return(&model.Organization{ID: orgID, Status: model.StatusPastDue}, nil)
		orgRepo.EXPECT().
			UpdateStatus(gomock.Any(), orgID, model.StatusActive, gomock.Nil()).
			Return(nil)

		svc := service.NewWebhookService(orgRepo, mocks.NewMockWebhookEventRepositoryIface(ctrl), nil)
		assert.NoError(t, svc.InvoicePaymentSucceeded(context.Background(), "cus_1"))
	})

	t.Run("payment for a trial organization changes nothing", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

		orgRepo.EXPECT().
			FindByStripeCustomer(gomock.Any(), "cus_1").
			Return(&model.Organization{ID: orgID, Status: model.StatusTrial}, nil)

		svc := service.NewWebhookService(orgRepo, mocks.NewMockWebhookEventRepositoryIface(ctrl), nil)
		assert.NoError(t, svc.InvoicePaymentSucceeded(context.Background(), "cus_1"))
	})
}
