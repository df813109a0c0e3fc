// internal/email/service.go
package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"path"
	texttemplate "text/template"

	"github.com/sendgrid/sendgrid-go"

	"github.com/opsledger/billingd"
	"github.com/opsledger/billingd/internal/config"
)

var templateFS = billingd.EmailFS

// Provider identifies supported email providers
type Provider string

const (
	ProviderSMTP     Provider = "smtp"
	ProviderSendgrid Provider = "sendgrid"

	templateRoot = "templates/emails"
)

// EmailData contains all necessary information for sending an email
type EmailData struct {
	To           string
	From         string
	FromName     string
	Subject      string
	TemplateName string
	TemplateData interface{}
}

// Template is one message rendered in both HTML and plaintext form.
// Plaintext goes through text/template so it is not HTML-escaped.
type Template struct {
	HTML      *htmltemplate.Template
	Plaintext *texttemplate.Template
}

// Service renders embedded templates and delivers them through the
// configured provider. Notifications are best-effort; callers decide
// whether a send failure matters.
type Service struct {
	config         *config.Config
	provider       Provider
	sendgridClient *sendgrid.Client
	Templates      map[string]*Template
}

func NewEmailService(config *config.Config, provider Provider) (*Service, error) {
	s := &Service{
		config:    config,
		provider:  provider,
		Templates: make(map[string]*Template),
	}

	if provider == ProviderSendgrid {
		s.sendgridClient = sendgrid.NewSendClient(config.Sendgrid.APIKey)
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading email templates: %w", err)
	}
	return s, nil
}

// loadTemplates walks the embedded template tree. Each message lives in
// its own directory holding exactly html.tmpl and plaintext.tmpl.
func (s *Service) loadTemplates() error {
	groups, err := templateFS.ReadDir(templateRoot)
	if err != nil {
		return fmt.Errorf("reading template root: %w", err)
	}
	if len(groups) == 0 {
		return fmt.Errorf("no email templates embedded")
	}

	for _, group := range groups {
		if !group.IsDir() {
			continue
		}
		dir := path.Join(templateRoot, group.Name())

		html, err := htmltemplate.ParseFS(templateFS, path.Join(dir, "html.tmpl"))
		if err != nil {
			return fmt.Errorf("template %s: %w", group.Name(), err)
		}
		plain, err := texttemplate.ParseFS(templateFS, path.Join(dir, "plaintext.tmpl"))
		if err != nil {
			return fmt.Errorf("template %s: %w", group.Name(), err)
		}

		s.Templates[group.Name()] = &Template{HTML: html, Plaintext: plain}
	}
	return nil
}

// SendEmail renders the named template and delivers it.
func (s *Service) SendEmail(data EmailData) error {
	htmlContent, textContent, err := s.render(data.TemplateName, data.TemplateData)
	if err != nil {
		return err
	}

	switch s.provider {
	case ProviderSendgrid:
		if data.From == "" {
			data.From = s.config.Sendgrid.From
		}
		return s.sendWithSendgrid(data, htmlContent, textContent)
	case ProviderSMTP:
		if data.From == "" {
			return fmt.Errorf("missing sender email address (From)")
		}
		return s.sendWithSMTP(data, htmlContent, textContent)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.provider)
	}
}

func (s *Service) render(name string, data interface{}) (string, string, error) {
	tmpl, ok := s.Templates[name]
	if !ok {
		return "", "", fmt.Errorf("template %s not found", name)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := tmpl.HTML.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("rendering %s html: %w", name, err)
	}
	if err := tmpl.Plaintext.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("rendering %s plaintext: %w", name, err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}
