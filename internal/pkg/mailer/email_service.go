// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDocumentReady(toEmail, companyName string, positions, highRisks int) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
	}
}

// SendDocumentReady notifies that a risk-assessment act finished assembly.
func (s *emailService) SendDocumentReady(toEmail, companyName string, positions, highRisks int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Akt o proceni rizika za %s je spreman", companyName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Akt o proceni rizika je spreman</h2>
			<p>Firma: <strong>%s</strong></p>
			<p>Obrađenih radnih mesta: %d</p>
			<p>Radna mesta sa povećanim rizikom: %d</p>
			<p>Dokument možete preuzeti u aplikaciji.</p>
		</div>
	`, companyName, positions, highRisks)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send document notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Document notice sent to %s\n", toEmail)
	return nil
}
