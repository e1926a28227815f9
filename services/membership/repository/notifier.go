package repository

import (
	"context"
	"fmt"
	"membership/domain"
	"strings"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"gopkg.in/gomail.v2"
)

type approvalNotifier struct {
	meowClient      *whatsmeow.Client
	dialer          *gomail.Dialer
	emailSender     string
	associationName string
}

func NewApprovalNotifier(meow *whatsmeow.Client, dialer *gomail.Dialer, emailSender, associationName string) domain.ApprovalNotifier {
	return &approvalNotifier{
		meowClient:      meow,
		dialer:          dialer,
		emailSender:     emailSender,
		associationName: associationName,
	}
}

// NotifyDecision sends the approval outcome over WhatsApp and email. Either
// channel may fail independently; the combined error is returned for logging
// and never fails the approval itself.
func (an *approvalNotifier) NotifyDecision(ctx context.Context, member *domain.Member, decision domain.ApprovalStatus) error {
	body := an.buildDecisionMessage(member, decision)

	var failures []string

	if err := an.sendWA(ctx, member.PhoneNumber, body); err != nil {
		failures = append(failures, fmt.Sprintf("whatsapp: %v", err))
	}

	if err := an.sendEmail(member.Email, member.Name, decision, body); err != nil {
		failures = append(failures, fmt.Sprintf("email: %v", err))
	}

	if len(failures) > 0 {
		return fmt.Errorf("could not notify member %d: %s", member.MemberID, strings.Join(failures, "; "))
	}
	return nil
}

func (an *approvalNotifier) buildDecisionMessage(member *domain.Member, decision domain.ApprovalStatus) string {
	salutation := "Bapak"
	if member.Gender == "Female" {
		salutation = "Ibu"
	}

	if decision == domain.ApprovalApproved {
		return fmt.Sprintf(`Layanan %s 🔔

Yth. %s %s,

Selamat! Pendaftaran keanggotaan Anda telah DISETUJUI pada tanggal %s.

Anda kini terdaftar sebagai anggota dan dapat mengunduh kartu anggota serta biodata melalui akun Anda.

Hormat kami,
%s`, an.associationName, salutation, member.Name, time.Now().Format("02/01/2006"), an.associationName)
	}

	return fmt.Sprintf(`Layanan %s 🔔

Yth. %s %s,

Mohon maaf, pendaftaran keanggotaan Anda DITOLAK setelah proses verifikasi.

Silakan hubungi sekretariat untuk informasi lebih lanjut.

Hormat kami,
%s`, an.associationName, salutation, member.Name, an.associationName)
}

func (an *approvalNotifier) sendWA(ctx context.Context, telephone, body string) error {
	if an.meowClient == nil {
		return fmt.Errorf("whatsapp client not connected")
	}

	completeFormat := fmt.Sprintf("%s%s", "62", strings.TrimPrefix(telephone, "0"))

	jid := types.NewJID(completeFormat, types.DefaultUserServer)

	conversationMessage := &waE2E.Message{
		Conversation: &body,
	}

	_, err := an.meowClient.SendMessage(ctx, jid, conversationMessage)
	if err != nil {
		return err
	}
	return nil
}

func (an *approvalNotifier) sendEmail(to, name string, decision domain.ApprovalStatus, body string) error {
	if an.dialer == nil {
		return fmt.Errorf("smtp dialer not configured")
	}

	subject := fmt.Sprintf("Hasil Verifikasi Keanggotaan - %s", name)
	if decision == domain.ApprovalApproved {
		subject = fmt.Sprintf("Keanggotaan Disetujui - %s", name)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", an.emailSender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := an.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
