package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/gateway"
	"github.com/opsledger/billingd/internal/mocks"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/service"
)

func TestLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("links with quantity seeded from latest report", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, Name: "Acme", Status: model.StatusPending}, nil)

		reportRepo.EXPECT().
			FindLatestByOrganization(gomock.Any(), orgID).
			Return(&model.UsageReport{UserCount: 25}, nil)

		gw.EXPECT().
			CreateCustomer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in gateway.CreateCustomerInput) (string, error) {
				assert.Equal(t, "billing@acme.test", in.Email)
				assert.Equal(t, orgID.String(), in.OrganizationID)
				return "cus_123", nil
			})

		gw.EXPECT().
			CreateSubscription(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in gateway.CreateSubscriptionInput) (*gateway.SubscriptionRef, error) {
				assert.Equal(t, "cus_123", in.CustomerID)
				assert.Equal(t, 25, in.Quantity)
				assert.Equal(t, service.DefaultTrialDays, in.TrialDays)
				return &gateway.SubscriptionRef{ID: "sub_456", PriceID: "price_1"}, nil
			})

		orgRepo.EXPECT().
			Link(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, org *model.Organization) error {
				assert.Equal(t, model.StatusTrial, org.Status)
				assert.Equal(t, "cus_123", *org.StripeCustomerID)
				assert.Equal(t, "sub_456", *org.StripeSubscriptionID)
				assert.NotNil(t, org.TrialEnd)
				return nil
			})

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		org, err := svc.Link(context.Background(), orgID, service.LinkInput{
			AdminEmail:     "billing@acme.test",
			DeploymentType: model.DeploymentManagedCloud,
			BillingPeriod:  model.BillingMonthly,
		})

		assert.NoError(t, err)
		assert.True(t, org.Linked())
	})

	t.Run("already linked organization is rejected without provider calls", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:                   orgID,
				StripeCustomerID:     strPtr("cus_existing"),
				StripeSubscriptionID: strPtr("sub_existing"),
				Status:               model.StatusActive,
			}, nil)

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		_, err := svc.Link(context.Background(), orgID, service.LinkInput{
			AdminEmail:     "billing@acme.test",
			DeploymentType: model.DeploymentOnPremise,
			BillingPeriod:  model.BillingYearly,
		})

		assert.ErrorIs(t, err, domain.ErrAlreadyLinked)
	})

	t.Run("invalid deployment type is rejected", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		_, err := svc.Link(context.Background(), orgID, service.LinkInput{
			AdminEmail:     "billing@acme.test",
			DeploymentType: "serverless",
			BillingPeriod:  model.BillingMonthly,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("subscription failure surfaces without local linkage", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, Name: "Acme", Status: model.StatusPending}, nil)
		reportRepo.EXPECT().
			FindLatestByOrganization(gomock.Any(), orgID).
			Return(nil, domain.ErrNotFound)

		gw.EXPECT().CreateCustomer(gomock.Any(), gomock.Any()).Return("cus_123", nil)
		gw.EXPECT().
			CreateSubscription(gomock.Any(), gomock.Any()).
			Return(nil, &domain.GatewayError{Op: "subscription_create", Err: errors.New("card declined")})

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		_, err := svc.Link(context.Background(), orgID, service.LinkInput{
			AdminEmail:     "billing@acme.test",
			DeploymentType: model.DeploymentManagedCloud,
			BillingPeriod:  model.BillingMonthly,
		})

		assert.True(t, domain.IsGatewayError(err))
	})
}

func TestUnlink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	linkedOrg := func() *model.Organization {
		return &model.Organization{
			ID:                   orgID,
			StripeCustomerID:     strPtr("cus_123"),
			StripeSubscriptionID: strPtr("sub_456"),
			Status:               model.StatusActive,
		}
	}

	t.Run("cancels the provider subscription and clears linkage", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(linkedOrg(), nil)
		gw.EXPECT().CancelSubscription(gomock.Any(), "sub_456").Return(nil)
		orgRepo.EXPECT().Unlink(gomock.Any(), orgID).Return(nil)

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		org, err := svc.Unlink(context.Background(), orgID)

		assert.NoError(t, err)
		assert.False(t, org.Linked())
		assert.Equal(t, model.StatusPending, org.Status)
	})

	t.Run("cancel failure still clears local state", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(linkedOrg(), nil)
		gw.EXPECT().
			CancelSubscription(gomock.Any(), "sub_456").
			Return(&domain.GatewayError{Op: "subscription_cancel", Err: errors.New("already canceled")})
		orgRepo.EXPECT().Unlink(gomock.Any(), orgID).Return(nil)

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		org, err := svc.Unlink(context.Background(), orgID)

		assert.NoError(t, err)
		assert.False(t, org.Linked())
	})

	t.Run("unlinked organization is rejected", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, Status: model.StatusPending}, nil)

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		_, err := svc.Unlink(context.Background(), orgID)

		assert.ErrorIs(t, err, domain.ErrNotLinked)
	})
}

func TestResyncReports(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()
	reportA := &model.UsageReport{ID: uuid.New(), OrganizationID: orgID, UserCount: 5}
	reportB := &model.UsageReport{ID: uuid.New(), OrganizationID: orgID, UserCount: 8}

	t.Run("replays unsynced reports oldest first and continues past failures", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:                   orgID,
				StripeCustomerID:     strPtr("cus_123"),
				StripeSubscriptionID: strPtr("sub_456"),
			}, nil)

		reportRepo.EXPECT().
			FindUnsyncedByOrganization(gomock.Any(), orgID).
			Return([]*model.UsageReport{reportA, reportB}, nil)

		gomock.InOrder(
			gw.EXPECT().
				SetSubscriptionQuantity(gomock.Any(), "sub_456", 5).
				Return(nil, &domain.GatewayError{Op: "subscription_item_update", Err: errors.New("timeout")}),
			gw.EXPECT().
				SetSubscriptionQuantity(gomock.Any(), "sub_456", 8).
				Return(&gateway.QuantityUpdate{ItemID: "si_789", Quantity: 8}, nil),
		)

		reportRepo.EXPECT().MarkSynced(gomock.Any(), reportB.ID, "si_789").Return(nil)

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		result, err := svc.ResyncReports(context.Background(), orgID)

		assert.NoError(t, err)
		assert.Equal(t, 1, result.SyncedCount)
		assert.Equal(t, 1, result.FailedCount)
		assert.Len(t, result.Errors, 1)
	})

	t.Run("unlinked organization cannot resync", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID}, nil)

		svc := service.NewOrganizationService(orgRepo, reportRepo, gw, nil)
		_, err := svc.ResyncReports(context.Background(), orgID)

		assert.ErrorIs(t, err, domain.ErrNotLinked)
	})
}

func TestForceQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("negative quantity is rejected", func(t *testing.T) {
		svc := service.NewOrganizationService(
			mocks.NewMockOrganizationRepositoryIface(ctrl),
			mocks.NewMockUsageReportRepositoryIface(ctrl),
			mocks.NewMockSubscriptionGateway(ctrl),
			nil,
		)
		_, err := svc.ForceQuantity(context.Background(), orgID, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("gateway failures surface to the operator", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:                   orgID,
				StripeCustomerID:     strPtr("cus_123"),
				StripeSubscriptionID: strPtr("sub_456"),
			}, nil)
		gw.EXPECT().
			SetSubscriptionQuantity(gomock.Any(), "sub_456", 12).
			Return(nil, &domain.GatewayError{Op: "subscription_item_update", Err: errors.New("boom")})

		svc := service.NewOrganizationService(orgRepo, mocks.NewMockUsageReportRepositoryIface(ctrl), gw, nil)
		_, err := svc.ForceQuantity(context.Background(), orgID, 12)

		assert.True(t, domain.IsGatewayError(err))
	})
}

func TestUpdateTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()
	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

	orgRepo.EXPECT().
		FindByID(gomock.Any(), orgID).
		Return(&model.Organization{ID: orgID, Tags: model.Tags{"old"}}, nil)
	orgRepo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, org *model.Organization) error {
			assert.Equal(t, model.Tags{"vip", model.TagExcludeFromStats}, org.Tags)
			return nil
		})

	svc := service.NewOrganizationService(orgRepo, mocks.NewMockUsageReportRepositoryIface(ctrl), mocks.NewMockSubscriptionGateway(ctrl), nil)
	org, err := svc.UpdateTags(context.Background(), orgID, []string{" vip ", "", model.TagExcludeFromStats})

	assert.NoError(t, err)
	assert.True(t, org.ExcludedFromStats())
}
