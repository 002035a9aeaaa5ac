package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// Service alerts the sales desk about high-intent enquiries.
type Service struct {
	email      EmailSender
	salesEmail string
	logger     *logging.Logger
}

// NewService creates a notification service. email may be nil when disabled.
func NewService(email EmailSender, salesEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		salesEmail: salesEmail,
		logger:     logger,
	}
}

// NotifyHotLead emails the sales desk when scoring marks a lead hot.
func (s *Service) NotifyHotLead(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil || s.salesEmail == "" {
		s.logger.Debug("notify: sales email not configured, skipping hot lead alert")
		return nil
	}

	subject := fmt.Sprintf("Hot Lead - %s", lead.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "A high-intent enquiry just came in.\n\n")
	fmt.Fprintf(&b, "Name: %s\nPhone: %s\n", lead.Name, lead.Phone)
	if lead.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	}
	if lead.ProjectName != "" {
		fmt.Fprintf(&b, "Project: %s\n", lead.ProjectName)
	}
	if lead.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", lead.Budget)
	}
	if lead.LocationPref != "" {
		fmt.Fprintf(&b, "Location: %s\n", lead.LocationPref)
	}
	if lead.BHK != "" {
		fmt.Fprintf(&b, "Configuration: %s\n", lead.BHK)
	}
	if lead.Purpose != "" {
		fmt.Fprintf(&b, "Purpose: %s\n", lead.Purpose)
	}
	fmt.Fprintf(&b, "Source: %s\n", lead.Source)
	if lead.AINotes != "" {
		fmt.Fprintf(&b, "\nAssessment: %s\n", lead.AINotes)
	}
	fmt.Fprintf(&b, "\nPlease call back within the hour.\n")

	msg := EmailMessage{
		To:      s.salesEmail,
		Subject: subject,
		Body:    b.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: failed to send hot lead alert", "error", err, "lead_id", lead.ID)
		return fmt.Errorf("notify: hot lead alert: %w", err)
	}

	s.logger.Info("notify: hot lead alert sent", "lead_id", lead.ID, "to", s.salesEmail)
	return nil
}
