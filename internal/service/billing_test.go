package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/gateway"
	"github.com/opsledger/billingd/internal/mocks"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/service"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestIngest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("unknown organization is created pending with unknown deployment", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(nil, domain.ErrOrganizationNotFound)

		orgRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, org *model.Organization) error {
				assert.Equal(t, orgID, org.ID)
				assert.Equal(t, "Acme", org.Name)
				assert.Equal(t, model.StatusPending, org.Status)
				return nil
			})

		reportRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, report *model.UsageReport) error {
				assert.Equal(t, 42, report.UserCount)
				assert.Equal(t, model.DeploymentUnknown, report.DeploymentType)
				assert.Nil(t, report.StripeSyncID)
				report.ID = uuid.New()
				return nil
			})

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		out, err := svc.Ingest(context.Background(), service.IngestInput{
			OrganizationID:   orgID.String(),
			OrganizationName: "Acme",
			UserCount:        intPtr(42),
		})

		assert.NoError(t, err)
		assert.Equal(t, service.LinkagePending, out.OrganizationStatus)
		assert.NotEqual(t, uuid.Nil, out.ReportID)
	})

	t.Run("linked organization pushes quantity and stores sync reference", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		deploymentType := model.DeploymentManagedCloud
		linked := &model.Organization{
			ID:                   orgID,
			Name:                 "Acme",
			Status:               model.StatusActive,
			StripeCustomerID:     strPtr("cus_123"),
			StripeSubscriptionID: strPtr("sub_456"),
			DeploymentType:       &deploymentType,
		}

		orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(linked, nil)
		orgRepo.EXPECT().RefreshDisplayFields(gomock.Any(), orgID, "Acme", gomock.Any()).Return(nil)

		gw.EXPECT().
			SetSubscriptionQuantity(gomock.Any(), "sub_456", 50).
			Return(&gateway.QuantityUpdate{ItemID: "si_789", Quantity: 50}, nil)

		reportRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, report *model.UsageReport) error {
				assert.Equal(t, string(model.DeploymentManagedCloud), report.DeploymentType)
				if assert.NotNil(t, report.StripeSyncID) {
					assert.Equal(t, "si_789", *report.StripeSyncID)
				}
				return nil
			})

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		out, err := svc.Ingest(context.Background(), service.IngestInput{
			OrganizationID:   orgID.String(),
			OrganizationName: "Acme",
			UserCount:        intPtr(50),
		})

		assert.NoError(t, err)
		assert.Equal(t, service.LinkageLinked, out.OrganizationStatus)
	})

	t.Run("gateway failure still stores the report unsynced", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		deploymentType := model.DeploymentOnPremise
		linked := &model.Organization{
			ID:                   orgID,
			Name:                 "Acme",
			Status:               model.StatusActive,
			StripeCustomerID:     strPtr("cus_123"),
			StripeSubscriptionID: strPtr("sub_456"),
			DeploymentType:       &deploymentType,
		}

		orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(linked, nil)
		orgRepo.EXPECT().RefreshDisplayFields(gomock.Any(), orgID, "Acme", gomock.Any()).Return(nil)

		gw.EXPECT().
			SetSubscriptionQuantity(gomock.Any(), "sub_456", 10).
			Return(nil, &domain.GatewayError{Op: "subscription_item_update", Err: errors.New("rate limited")})

		reportRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, report *model.UsageReport) error {
				assert.Nil(t, report.StripeSyncID, "failed push must leave the report unsynced")
				return nil
			})

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		out, err := svc.Ingest(context.Background(), service.IngestInput{
			OrganizationID:   orgID.String(),
			OrganizationName: "Acme",
			UserCount:        intPtr(10),
		})

		assert.NoError(t, err, "gateway failures are soft during ingest")
		assert.Equal(t, service.LinkageLinked, out.OrganizationStatus)
	})

	t.Run("explicit timestamp is preserved", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		reportedAt := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

		orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(nil, domain.ErrOrganizationNotFound)
		orgRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		reportRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, report *model.UsageReport) error {
				assert.Equal(t, reportedAt, report.ReportedAt)
				return nil
			})

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		_, err := svc.Ingest(context.Background(), service.IngestInput{
			OrganizationID:   orgID.String(),
			OrganizationName: "Acme",
			UserCount:        intPtr(7),
			Timestamp:        &reportedAt,
		})
		assert.NoError(t, err)
	})

	t.Run("zero user count is accepted", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(nil, domain.ErrOrganizationNotFound)
		orgRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		reportRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		_, err := svc.Ingest(context.Background(), service.IngestInput{
			OrganizationID:   orgID.String(),
			OrganizationName: "Acme",
			UserCount:        intPtr(0),
		})
		assert.NoError(t, err)
	})

	t.Run("missing user count is rejected", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		_, err := svc.Ingest(context.Background(), service.IngestInput{
			OrganizationID:   orgID.String(),
			OrganizationName: "Acme",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("malformed organization id is rejected", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		_, err := svc.Ingest(context.Background(), service.IngestInput{
			OrganizationID:   "not-a-uuid",
			OrganizationName: "Acme",
			UserCount:        intPtr(3),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestBillingStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("linked organization includes provider subscription detail", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		deployment := model.DeploymentManagedCloud
		period := model.BillingMonthly
		trialEnd := time.Now().Add(48 * time.Hour).UTC()

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:                   orgID,
				Name:                 "Acme",
				Status:               model.StatusTrial,
				StripeCustomerID:     strPtr("cus_123"),
				StripeSubscriptionID: strPtr("sub_456"),
				DeploymentType:       &deployment,
				BillingPeriod:        &period,
				TrialEnd:             &trialEnd,
			}, nil)

		gw.EXPECT().
			GetSubscription(gomock.Any(), "sub_456").
			Return(&gateway.SubscriptionDetail{
				ID:     "sub_456",
				Status: "trialing",
			}, nil)

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		status, err := svc.Status(context.Background(), orgID)
		assert.NoError(t, err)
		assert.Equal(t, orgID, status.OrganizationID)
		assert.Equal(t, "Acme", status.OrganizationName)
		assert.Equal(t, model.StatusTrial, status.SubscriptionStatus)
		assert.True(t, status.TrialActive)
		assert.Equal(t, &trialEnd, status.TrialEnd)
		assert.NotNil(t, status.Subscription)
		assert.Equal(t, "trialing", status.Subscription.Status)
	})

	t.Run("gateway failure degrades to local state", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:                   orgID,
				Name:                 "Acme",
				Status:               model.StatusActive,
				StripeCustomerID:     strPtr("cus_123"),
				StripeSubscriptionID: strPtr("sub_456"),
			}, nil)

		gw.EXPECT().
			GetSubscription(gomock.Any(), "sub_456").
			Return(nil, &domain.GatewayError{Op: "retrieve subscription", Err: errors.New("api down")})

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		status, err := svc.Status(context.Background(), orgID)
		assert.NoError(t, err)
		assert.Equal(t, model.StatusActive, status.SubscriptionStatus)
		assert.Nil(t, status.Subscription)
	})

	t.Run("pending organization never reaches the gateway", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:     orgID,
				Name:   "Acme",
				Status: model.StatusPending,
			}, nil)

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		status, err := svc.Status(context.Background(), orgID)
		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, status.SubscriptionStatus)
		assert.False(t, status.TrialActive)
		assert.Nil(t, status.Subscription)
	})

	t.Run("expired trial is not active", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		trialEnd := time.Now().Add(-24 * time.Hour).UTC()
		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:       orgID,
				Name:     "Acme",
				Status:   model.StatusPastDue,
				TrialEnd: &trialEnd,
			}, nil)

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		status, err := svc.Status(context.Background(), orgID)
		assert.NoError(t, err)
		assert.False(t, status.TrialActive)
	})

	t.Run("unknown organization returns not found", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		reportRepo := mocks.NewMockUsageReportRepositoryIface(ctrl)
		gw := mocks.NewMockSubscriptionGateway(ctrl)

		orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(nil, domain.ErrOrganizationNotFound)

		svc := service.NewBillingService(orgRepo, reportRepo, gw)
		_, err := svc.Status(context.Background(), orgID)
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}
