// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/velora-shop/velora-backend/internal/config"
	"github.com/velora-shop/velora-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// SendOrderConfirmation emails the customer after an order is placed.
func (s *NotificationService) SendOrderConfirmation(order *models.Order) error {
	customer, err := s.orderCustomer(order)
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"CustomerName":  customer.Username,
		"OrderNumber":   order.OrderNumber,
		"TotalAmount":   fmt.Sprintf("%.2f", order.TotalAmount),
		"ShippingCost":  fmt.Sprintf("%.2f", order.ShippingCost),
		"PaymentMethod": string(order.PaymentMethod),
		"OrderURL":      fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	subject := "Order Confirmation - " + order.OrderNumber
	tmpl := s.getEmailTemplate("order_confirmation")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	if err := s.sendEmail(customer.Email, subject, body); err != nil {
		logrus.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"error":        err,
		}).Warn("Failed to send order confirmation email")
		return err
	}

	return nil
}

// SendOrderStatusUpdate emails the customer when an order changes status.
func (s *NotificationService) SendOrderStatusUpdate(order *models.Order, previousStatus models.OrderStatus) error {
	customer, err := s.orderCustomer(order)
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"CustomerName":   customer.Username,
		"OrderNumber":    order.OrderNumber,
		"PreviousStatus": string(previousStatus),
		"NewStatus":      string(order.OrderStatus),
		"TrackingNumber": order.TrackingNumber,
		"OrderURL":       fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	subject := fmt.Sprintf("Order %s is now %s", order.OrderNumber, order.OrderStatus)
	tmpl := s.getEmailTemplate("order_status_update")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	if err := s.sendEmail(customer.Email, subject, body); err != nil {
		logrus.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"error":        err,
		}).Warn("Failed to send order status email")
		return err
	}

	return nil
}

func (s *NotificationService) orderCustomer(order *models.Order) (*models.User, error) {
	if order.Customer.Email != "" {
		return &order.Customer, nil
	}

	var customer models.User
	if err := s.db.First(&customer, order.CustomerID).Error; err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	return &customer, nil
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		fmt.Printf("Email would be sent to %s: %s\n", to, subject)
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"order_confirmation": {
			Subject: "Order Confirmation",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.CustomerName}}!</h2>
	<p>Your order <strong>{{.OrderNumber}}</strong> has been received.</p>
	<p>Total: ${{.TotalAmount}} (including ${{.ShippingCost}} shipping)</p>
	<p>Payment method: {{.PaymentMethod}}</p>
	<a href="{{.OrderURL}}">View Your Order</a>
	<p>Best regards,<br>Velora Team</p>
</body>
</html>`,
		},
		"order_status_update": {
			Subject: "Order Status Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Order Update</h2>
	<p>Hello {{.CustomerName}},</p>
	<p>Your order <strong>{{.OrderNumber}}</strong> has moved from {{.PreviousStatus}} to <strong>{{.NewStatus}}</strong>.</p>
	{{if .TrackingNumber}}<p>Tracking number: {{.TrackingNumber}}</p>{{end}}
	<a href="{{.OrderURL}}">View Your Order</a>
	<p>Best regards,<br>Velora Team</p>
</body>
</html>`,
		},
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
