// internal/email/mailer/payment_failed.go
package mailer

import "github.com/opsledger/billingd/internal/email"

// PaymentFailedTemplateData contains data for the payment-failed template
type PaymentFailedTemplateData struct {
	OrganizationName string
}

// SendPaymentFailed notifies the billing contact that an invoice payment
// failed and their subscription is past due.
func SendPaymentFailed(s *email.Service, to, organizationName string) error {
	templateData := PaymentFailedTemplateData{
		OrganizationName: organizationName,
	}

	emailData := email.EmailData{
		To:           to,
		FromName:     "OpsLedger Billing",
		Subject:      "Action required: payment failed",
		TemplateName: "payment_failed",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}
