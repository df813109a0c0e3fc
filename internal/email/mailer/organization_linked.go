// internal/email/mailer/organization_linked.go
package mailer

import (
	"time"

	"github.com/opsledger/billingd/internal/email"
)

// OrganizationLinkedTemplateData contains data for the linked-confirmation template
type OrganizationLinkedTemplateData struct {
	OrganizationName string
	TrialEndDate     string
}

// SendOrganizationLinked notifies the billing contact that their
// organization now has an active subscription trial.
func SendOrganizationLinked(s *email.Service, to, organizationName string, trialEnd time.Time) error {
	templateData := OrganizationLinkedTemplateData{
		OrganizationName: organizationName,
		TrialEndDate:     trialEnd.Format("January 2, 2006"),
	}

	emailData := email.EmailData{
		To:           to,
		FromName:     "OpsLedger Billing",
		Subject:      "Your subscription trial has started",
		TemplateName: "organization_linked",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}
