package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Templates are compiled in: the set is small and versioned with the code.
var resetCodeTemplate = template.Must(template.New("password_reset").Parse(`
<div style="font-family: sans-serif; text-align: center; padding: 20px; border: 1px solid #ddd; border-radius: 10px; max-width: 600px; margin: auto;">
    <h2 style="color: #333;">Password Reset Request</h2>
    <p>We received a request to reset your password for your SmartAttend account.</p>
    <p>Use the following verification code to complete the process:</p>
    <p style="font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px; padding: 10px; background-color: #f0f0f0; border-radius: 8px;">
        {{.Code}}
    </p>
    <p>This code will expire in {{.ValidityLabel}}.</p>
    <p style="color: #888; font-size: 12px;">If you did not request a password reset, please ignore this email.</p>
</div>
`))

// RenderResetCode renders the HTML and plain-text bodies of the
// password-reset email.
func RenderResetCode(data ResetCodeData) (htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	if err := resetCodeTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render reset template: %w", err)
	}

	text := fmt.Sprintf(
		"Your password reset verification code is: %s\nThis code will expire in %s.",
		data.Code, data.ValidityLabel,
	)

	return buf.String(), text, nil
}
