// Package qualify classifies a lead's purchase intent after intake. The rule
// engine is the default; the interface exists so a networked classifier can
// replace it without touching the intake flow.
package qualify

import (
	"context"

	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/internal/pricing"
)

// Result is the outcome of one qualification run.
type Result struct {
	IntentLevel leads.IntentLevel `json:"intent_level"`
	Notes       string            `json:"notes"`
}

// Qualifier classifies a lead. Implementations must be total: missing or
// malformed fields classify, they do not error.
type Qualifier interface {
	Qualify(ctx context.Context, lead *leads.Lead) (Result, error)
	// Name labels the provider in logs and metrics.
	Name() string
}

// Budget thresholds in rupees.
const (
	hotBudgetFloor = 5_000_000
	coldBudgetCeil = 2_500_000
)

const (
	hotNotes  = "High-budget investor profile. Priority follow-up recommended within 24 hours."
	warmNotes = "Lead shows moderate interest based on profile."
	coldNotes = "Low budget or browsing intent. Nurture via newsletter and periodic follow-ups."
)

// RuleQualifier is the deterministic rule table. An unparseable budget counts
// as zero, so a lead with no budget and no browsing signal lands cold.
type RuleQualifier struct{}

// NewRuleQualifier creates the rule-based qualifier.
func NewRuleQualifier() *RuleQualifier {
	return &RuleQualifier{}
}

func (q *RuleQualifier) Name() string { return "rules" }

// Qualify applies the rule table. It never fails.
func (q *RuleQualifier) Qualify(ctx context.Context, lead *leads.Lead) (Result, error) {
	budget := int64(0)
	purpose := ""
	if lead != nil {
		budget = pricing.ParseBudgetLabel(lead.Budget)
		purpose = lead.Purpose
	}

	switch {
	case budget >= hotBudgetFloor && purpose == leads.PurposeInvestment:
		return Result{IntentLevel: leads.IntentHot, Notes: hotNotes}, nil
	case budget < coldBudgetCeil || purpose == leads.PurposeJustBrowsing:
		return Result{IntentLevel: leads.IntentCold, Notes: coldNotes}, nil
	default:
		return Result{IntentLevel: leads.IntentWarm, Notes: warmNotes}, nil
	}
}
