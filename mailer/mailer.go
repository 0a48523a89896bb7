// Package mailer sends the platform's transactional email over SMTP.
// Controllers and workers depend on the Mailer interface so tests can
// substitute a recorder.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"event-platform/models"
)

type Mailer interface {
	SendVerificationOTP(to, name, otp string) error
	SendWelcome(to, name string) error
	SendEventReminder(event *models.Event, recipients []string) error
	SendEventCancellation(event *models.Event, recipients []string) error
	SendEventUpdate(event *models.Event, recipients []string) error
	SendThankYou(event *models.Event, to string) error
}

// SMTPMailer is the production Mailer.
type SMTPMailer struct {
	Host        string
	Port        string
	User        string
	Pass        string
	From        string
	FrontendURL string
}

func NewSMTPMailer(host, port, user, pass, from, frontendURL string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, From: from, FrontendURL: frontendURL}
}

func (m *SMTPMailer) send(recipients []string, subject, body string) error {
	if m.Host == "" || m.Port == "" || m.User == "" || m.Pass == "" {
		return fmt.Errorf("smtp not configured")
	}
	if len(recipients) == 0 {
		return nil
	}

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)

	msg := []byte("From: " + m.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" + body + "\r\n")

	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, recipients, msg); err != nil {
		log.Printf("failed to send mail %q: %v", subject, err)
		return err
	}
	return nil
}

func (m *SMTPMailer) SendVerificationOTP(to, name, otp string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour email verification code is: %s\n\nEnter it to complete your signup.\n",
		name, otp)
	return m.send([]string{to}, "Complete Your Signup - Verify Your Email Now", body)
}

func (m *SMTPMailer) SendWelcome(to, name string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account is ready. Head over to %s/dashboard to find your first event.\n",
		name, m.FrontendURL)
	return m.send([]string{to}, "You're In! Start Your Journey", body)
}

func (m *SMTPMailer) SendEventReminder(event *models.Event, recipients []string) error {
	body := fmt.Sprintf(
		"%s is happening soon!\n\nDate: %s\nTime: %s\nLocation: %s\n\nDetails: %s/events/%d\n",
		event.Name,
		event.StartDatetime.Format("2006-01-02"),
		event.StartDatetime.Format("15:04"),
		event.Location,
		m.FrontendURL, event.ID)
	return m.send(recipients, fmt.Sprintf("Reminder: %s - Happening Soon!", event.Name), body)
}

func (m *SMTPMailer) SendEventCancellation(event *models.Event, recipients []string) error {
	body := fmt.Sprintf(
		"%s has been canceled by the organisers.\n\nBrowse other events: %s/events\n",
		event.Name, m.FrontendURL)
	return m.send(recipients, fmt.Sprintf("Important: %s Has Been Canceled", event.Name), body)
}

func (m *SMTPMailer) SendEventUpdate(event *models.Event, recipients []string) error {
	body := fmt.Sprintf(
		"%s has been rescheduled.\n\nNew date: %s\nStarts: %s\nEnds: %s\nLocation: %s\n\nDetails: %s/events/%d\n",
		event.Name,
		event.StartDatetime.Format("2006-01-02"),
		event.StartDatetime.Format("15:04"),
		event.EndDatetime.Format("15:04"),
		event.Location,
		m.FrontendURL, event.ID)
	return m.send(recipients, fmt.Sprintf("Important Update: %s Rescheduled!", event.Name), body)
}

func (m *SMTPMailer) SendThankYou(event *models.Event, to string) error {
	body := fmt.Sprintf(
		"Thank you for attending %s!\n\nTell us how it went: %s/feedback/%d\n",
		event.Name, m.FrontendURL, event.ID)
	return m.send([]string{to}, fmt.Sprintf("Thank You for Attending %s!", event.Name), body)
}
