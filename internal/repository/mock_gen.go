// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./organization.go -destination=../mocks/mock_organization_repository.go -package=mocks OrganizationRepositoryIface
//go:generate mockgen -source=./usage_report.go -destination=../mocks/mock_usage_report_repository.go -package=mocks UsageReportRepositoryIface
//go:generate mockgen -source=./operator.go -destination=../mocks/mock_operator_repository.go -package=mocks OperatorRepositoryIface
//go:generate mockgen -source=./webhook_event.go -destination=../mocks/mock_webhook_event_repository.go -package=mocks WebhookEventRepositoryIface
