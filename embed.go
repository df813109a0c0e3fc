package billingd

import "embed"

//go:embed templates/emails
var EmailFS embed.FS
