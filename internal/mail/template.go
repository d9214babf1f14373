package mail

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// otpEmailTemplate is the HTML body of the OTP email. The code is the only
// dynamic content besides the copyright year.
const otpEmailTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
  <h2 style="color: #333;">Your OTP Code</h2>
  <p style="font-size: 16px; color: #555;">
    Use the following OTP to complete your verification. This code is valid for <strong>10 minutes</strong>.
  </p>
  <div style="margin: 20px 0; text-align: center;">
    <span style="display: inline-block; padding: 15px 25px; font-size: 24px; font-weight: bold; color: #ffffff; background-color: #4CAF50; border-radius: 5px; letter-spacing: 2px;">
      {{.Code}}
    </span>
  </div>
  <p style="font-size: 14px; color: #888;">
    If you did not request this, please ignore this email.
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="font-size: 12px; color: #aaa;">
    &copy; {{.Year}} NoteWave. All rights reserved.
  </p>
</div>
`

var otpTmpl = template.Must(template.New("otp").Parse(otpEmailTemplate))

// renderOTPBody fills the template with the code.
func renderOTPBody(code string) (string, error) {
	var b strings.Builder
	err := otpTmpl.Execute(&b, struct {
		Code string
		Year int
	}{Code: code, Year: time.Now().Year()})
	if err != nil {
		return "", fmt.Errorf("mail: rendering OTP template: %w", err)
	}
	return b.String(), nil
}
