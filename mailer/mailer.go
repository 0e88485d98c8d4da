package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"bitbucket.org/mmdatafocus/salesfield_backend/dataimport"
	"bitbucket.org/mmdatafocus/salesfield_backend/utils"
)

// Email log entries expire 30 days after the send attempt.
const emailLogTTL = 30 * 24 * time.Hour

// Structured error codes returned to the caller.
const (
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidArgument    = "invalid-argument"
	CodeFailedPrecondition = "failed-precondition"
	CodeInternal           = "internal"
)

type SendError struct {
	Code    string
	Message string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type SendRequest struct {
	To           string `json:"to"`
	Subject      string `json:"subject"`
	PdfData      string `json:"pdfData"`
	FileName     string `json:"fileName"`
	CustomerName string `json:"customerName"`
	SorNumber    string `json:"sorNumber"`
}

type EmailLog struct {
	To           string    `firestore:"to"`
	Subject      string    `firestore:"subject,omitempty"`
	SorNumber    string    `firestore:"sorNumber"`
	CustomerName string    `firestore:"customerName"`
	SentBy       string    `firestore:"sentBy"`
	SentByEmail  string    `firestore:"sentByEmail,omitempty"`
	SentAt       time.Time `firestore:"sentAt,serverTimestamp"`
	Status       string    `firestore:"status"`
	Error        string    `firestore:"error,omitempty"`
	ExpiresAt    time.Time `firestore:"expiresAt"`
}

// Sender identifies the authenticated caller on email log entries.
type Sender struct {
	Id    string
	Email string
}

var validate = validator.New()

// Mailer sends sales requisition emails and records every attempt in the
// email log collection.
type Mailer struct {
	Client *firestore.Client
	Logger *logrus.Logger
	Dialer *gomail.Dialer
	From   string
}

// NewMailerFromEnv wires the SMTP dialer from SMTP_HOST/SMTP_PORT and the
// SMTP_EMAIL/SMTP_PASSWORD credentials.
func NewMailerFromEnv(client *firestore.Client, logger *logrus.Logger) (*Mailer, error) {
	email := utils.EnvOrDefault("SMTP_EMAIL", "")
	password := utils.EnvOrDefault("SMTP_PASSWORD", "")
	if email == "" || password == "" {
		return nil, &SendError{Code: CodeFailedPrecondition, Message: "Email service is not properly configured"}
	}

	host := utils.EnvOrDefault("SMTP_HOST", "smtp.gmail.com")
	port := utils.IntFromEnv("SMTP_PORT", 587)

	return &Mailer{
		Client: client,
		Logger: logger,
		Dialer: gomail.NewDialer(host, port, email, password),
		From:   email,
	}, nil
}

// Send validates req, delivers the mail with the PDF attached and writes an
// email log entry for both outcomes.
func (m *Mailer) Send(ctx context.Context, req SendRequest, sender Sender) error {
	if req.To == "" || req.PdfData == "" || req.FileName == "" {
		return &SendError{Code: CodeInvalidArgument, Message: "Missing required fields: to, pdfData, or fileName"}
	}
	if err := validate.Var(req.To, "required,email"); err != nil {
		return &SendError{Code: CodeInvalidArgument, Message: "Invalid email address"}
	}

	pdf, err := base64.StdEncoding.DecodeString(req.PdfData)
	if err != nil {
		return &SendError{Code: CodeInvalidArgument, Message: "pdfData is not valid base64"}
	}

	subject := req.Subject
	if subject == "" {
		subject = fmt.Sprintf("Sales Requisition Order - %s", req.SorNumber)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.From, "Sales Team")
	msg.SetHeader("To", req.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", requisitionBody(req.CustomerName, req.SorNumber))
	msg.Attach(req.FileName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	if err := m.Dialer.DialAndSend(msg); err != nil {
		m.logAttempt(ctx, newEmailLog(req, "", sender, "failed", err.Error()))
		if m.Logger != nil {
			m.Logger.WithFields(logrus.Fields{
				"to":         req.To,
				"sor_number": req.SorNumber,
			}).Error("failed to send email: " + err.Error())
		}
		return &SendError{Code: CodeInternal, Message: fmt.Sprintf("Failed to send email: %v", err)}
	}

	m.logAttempt(ctx, newEmailLog(req, subject, sender, "success", ""))
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{
			"to":         req.To,
			"sor_number": req.SorNumber,
		}).Info("[mail.sent]")
	}
	return nil
}

func newEmailLog(req SendRequest, subject string, sender Sender, status string, errMsg string) EmailLog {
	return EmailLog{
		To:           req.To,
		Subject:      subject,
		SorNumber:    req.SorNumber,
		CustomerName: req.CustomerName,
		SentBy:       sender.Id,
		SentByEmail:  sender.Email,
		Status:       status,
		Error:        errMsg,
		ExpiresAt:    time.Now().Add(emailLogTTL),
	}
}

func (m *Mailer) logAttempt(ctx context.Context, entry EmailLog) {
	if m.Client == nil {
		return
	}
	_, _, err := m.Client.Collection(dataimport.CollectionEmailLogs).Add(ctx, entry)
	if err != nil && m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{
			"to": entry.To,
		}).Error("failed to write email log: " + err.Error())
	}
}

func requisitionBody(customerName string, sorNumber string) string {
	if customerName == "" {
		customerName = "Valued Customer"
	}
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	  <div style="background-color: #5E4BA6; padding: 20px; border-radius: 8px 8px 0 0;">
	    <h2 style="color: white; margin: 0;">Sales Requisition Order</h2>
	  </div>
	  <div style="background-color: #f9f9f9; padding: 20px; border: 1px solid #ddd; border-top: none;">
	    <p style="font-size: 16px; color: #333;">Dear %s,</p>
	    <p style="font-size: 14px; color: #666; line-height: 1.6;">
	      Please find attached your Sales Requisition Order (SOR #%s).
	    </p>
	    <div style="background-color: #f2edff; padding: 15px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #5E4BA6;">
	      <h3 style="color: #5E4BA6; margin-top: 0; font-size: 16px;">Order Details</h3>
	      <table style="width: 100%%; font-size: 14px; color: #333;">
	        <tr><td style="padding: 5px 0;"><strong>SOR Number:</strong></td><td style="padding: 5px 0;">%s</td></tr>
	        <tr><td style="padding: 5px 0;"><strong>Customer:</strong></td><td style="padding: 5px 0;">%s</td></tr>
	        <tr><td style="padding: 5px 0;"><strong>Date:</strong></td><td style="padding: 5px 0;">%s</td></tr>
	      </table>
	    </div>
	    <p style="font-size: 14px; color: #666; line-height: 1.6;">
	      If you have any questions or concerns regarding this order, please don't hesitate to contact us.
	    </p>
	    <p style="margin-top: 30px; font-size: 14px; color: #333;">
	      Best regards,<br>
	      <strong style="color: #5E4BA6;">Sales Team</strong>
	    </p>
	  </div>
	  <div style="background-color: #f0f0f0; padding: 15px; text-align: center; border-radius: 0 0 8px 8px;">
	    <p style="color: #666; font-size: 12px; margin: 0;">
	      This is an automated email. Please do not reply to this message.
	    </p>
	  </div>
	</div>`, customerName, sorNumber, sorNumber, customerName, time.Now().Format("1/2/2006"))
}
