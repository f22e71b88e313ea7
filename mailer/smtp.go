package mailer

import (
	"fmt"
	"net/smtp"
	"os"
	"time"
)

// SMTPMailer sends HTML mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	password string
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		from:     os.Getenv("SMTP_FROM"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	header := "Subject: " + subject + " \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	message := []byte(header + mime + body)

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, message)
}

func (m *SMTPMailer) Welcome(to, userName string) error {
	if userName == "" {
		userName = "there"
	}
	body := fmt.Sprintf(`
	<div style="background-color: #2D6CDF; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%; min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Welcome to EduTrack Hub</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">Hi %s, your account is ready. Browse the catalog and book your first class.</td>
				</tr>
			</tbody>
		</table>
	</div>
`, userName)
	return m.send(to, "Welcome to EduTrack Hub", body)
}

func (m *SMTPMailer) EnrollmentConfirmed(to, classTitle string, scheduledTime time.Time) error {
	body := fmt.Sprintf(`
	<div style="background-color: #2D6CDF; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%; min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Your seat is confirmed</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">You are enrolled in "%s".</td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">
						<p style="font-weight: bold; color: #2D6CDF; text-align:center;">%s</p>
					</td>
				</tr>
			</tbody>
		</table>
	</div>
`, classTitle, scheduledTime.Format("Monday, 2 January 2006 at 15:04 MST"))
	return m.send(to, "Enrollment confirmed - EduTrack Hub", body)
}

func (m *SMTPMailer) EnrollmentPending(to, classTitle string) error {
	body := fmt.Sprintf(`
	<div style="background-color: #2D6CDF; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%; min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Almost there</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">We are waiting for your payment to confirm your seat in "%s". Your enrollment stays pending until the payment goes through.</td>
				</tr>
			</tbody>
		</table>
	</div>
`, classTitle)
	return m.send(to, "Complete your enrollment - EduTrack Hub", body)
}
