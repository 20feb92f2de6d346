package mail

import "fmt"

// ResetPasswordSubject is the subject line of the reset mail.
const ResetPasswordSubject = "Reset Password"

// ResetPasswordEmail renders the password-reset message body around the
// one-time reset URL.
func ResetPasswordEmail(resetURL string) string {
	return fmt.Sprintf(`You can reset your password by clicking <a href=%q target="_blank">Reset your password</a><br/>`+
		`If the above link does not work for some reason then copy paste this link in a new tab: %s<br/>`+
		`The link is valid for 15 minutes. If you did not request a password reset, ignore this email.`,
		resetURL, resetURL)
}

// ContactSubject prefixes contact-form submissions forwarded to the inbox.
func ContactSubject(name string) string {
	return fmt.Sprintf("Contact form: %s", name)
}

// ContactEmail renders a forwarded contact-form submission.
func ContactEmail(name, email, message string) string {
	return fmt.Sprintf("<p><b>Name:</b> %s</p><p><b>Email:</b> %s</p><p>%s</p>", name, email, message)
}
