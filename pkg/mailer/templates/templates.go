package templates

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sisconis/identity-api/pkg/mailer"
)

var subjects = map[string]string{
	mailer.TemplateWelcome:       "Welcome! Your account is ready",
	mailer.TemplatePasswordReset: "Your password was reset",
}

var bodies = map[string]*template.Template{
	mailer.TemplateWelcome: template.Must(template.New(mailer.TemplateWelcome).Parse(`
<p>Hi {{.Name}},</p>
<p>Your account has been created. Sign in with your DNI as a temporary
password; you will be asked to choose a real one on first login.</p>
`)),
	mailer.TemplatePasswordReset: template.Must(template.New(mailer.TemplatePasswordReset).Parse(`
<p>Hi {{.Name}},</p>
<p>Your password has been reset to a temporary one (your DNI). Please sign
in and choose a new password.</p>
`)),
}

// Subject returns the subject line for a template name.
func Subject(name string) string {
	if s, ok := subjects[name]; ok {
		return s
	}
	return "Notification"
}

// Render produces the HTML body for a job's template and data.
func Render(name string, data map[string]any) (string, error) {
	tpl, ok := bodies[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
