package email

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func (s *Service) sendWithSendgrid(data EmailData, htmlContent, textContent string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(data.FromName, data.From),
		data.Subject,
		mail.NewEmail("", data.To),
		textContent,
		htmlContent,
	)

	resp, err := s.sendgridClient.Send(message)
	if err != nil {
		return fmt.Errorf("sending via Sendgrid: %w", err)
	}
	// Sendgrid acknowledges queued mail with 202, not 200.
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid rejected message: status %d, body %s", resp.StatusCode, resp.Body)
	}
	return nil
}
