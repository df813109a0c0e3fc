// internal/gateway/mock_gen.go
package gateway

//go:generate mockgen -source=./gateway.go -destination=../mocks/mock_subscription_gateway.go -package=mocks SubscriptionGateway
