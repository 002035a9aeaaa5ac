package leads

import (
	"regexp"
	"strings"
	"time"
)

// Status is the operator-facing lifecycle state of a lead. Transitions are
// deliberately unconstrained: the console may move a lead between any two
// states.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusLost      Status = "lost"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusLost:
		return true
	}
	return false
}

// IntentLevel is the qualification verdict. Empty means a run has not
// completed yet; readers must tolerate unset.
type IntentLevel string

const (
	IntentHot  IntentLevel = "hot"
	IntentWarm IntentLevel = "warm"
	IntentCold IntentLevel = "cold"
)

// Valid reports whether l is one of the known intent levels.
func (l IntentLevel) Valid() bool {
	switch l {
	case IntentHot, IntentWarm, IntentCold:
		return true
	}
	return false
}

// Purchase purposes captured by the enquiry forms.
const (
	PurposeEndUse         = "end-use"
	PurposeInvestment     = "investment"
	PurposeJustBrowsing   = "just-browsing"
	PurposeGeneralEnquiry = "general-enquiry"
)

func validPurpose(p string) bool {
	switch p {
	case "", PurposeEndUse, PurposeInvestment, PurposeJustBrowsing, PurposeGeneralEnquiry:
		return true
	}
	return false
}

// Interaction is one operator note in a lead's append-only contact history.
type Interaction struct {
	Date time.Time `json:"date"`
	Note string    `json:"note"`
	By   string    `json:"by"`
}

// Lead represents a captured enquiry from any public entry point.
type Lead struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	Source        string        `json:"source"`
	ProjectID     string        `json:"project_id,omitempty"`
	ProjectName   string        `json:"project_name,omitempty"`
	Budget        string        `json:"budget"`
	LocationPref  string        `json:"location_pref"`
	BHK           string        `json:"bhk"`
	Purpose       string        `json:"purpose"`
	Message       string        `json:"message"`
	CreatedAt     time.Time     `json:"created_at"`
	Status        Status        `json:"status"`
	AIIntentLevel IntentLevel   `json:"ai_intent_level,omitempty"`
	AINotes       string        `json:"ai_notes,omitempty"`
	Interactions  []Interaction `json:"interactions"`
}

// PhonePolicy selects how strictly a form's phone field is validated. Both
// entry points share one validator; the divergence between the enquiry form
// (strict) and the contact page (lenient) is an explicit policy choice, not
// two validators drifting apart.
type PhonePolicy int

const (
	// PhoneStrict requires a 10-digit Indian mobile number (first digit 6-9).
	PhoneStrict PhonePolicy = iota
	// PhoneLenient only requires a non-empty value.
	PhoneLenient
)

var phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// PolicyForSource maps a source tag to the phone validation policy its form
// historically applied.
func PolicyForSource(source string) PhonePolicy {
	if source == "contact-page" {
		return PhoneLenient
	}
	return PhoneStrict
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Source       string `json:"source"`
	ProjectID    string `json:"project_id,omitempty"`
	ProjectName  string `json:"project_name,omitempty"`
	Budget       string `json:"budget"`
	LocationPref string `json:"location_pref"`
	BHK          string `json:"bhk"`
	Purpose      string `json:"purpose"`
	Message      string `json:"message"`
}

// Validate validates the create lead request under the given phone policy.
func (r *CreateLeadRequest) Validate(policy PhonePolicy) error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	phone := strings.TrimSpace(r.Phone)
	if phone == "" {
		return ErrInvalidPhone
	}
	if policy == PhoneStrict && !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	if !validPurpose(r.Purpose) {
		return ErrInvalidPurpose
	}
	return nil
}

// ListFilter narrows List results for the admin console.
type ListFilter struct {
	// Status keeps only leads in the given state when non-empty.
	Status Status
	// Query is a free-text match against project name or source.
	Query string
}

// Matches reports whether the lead passes the filter.
func (f ListFilter) Matches(l *Lead) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(l.ProjectName), q) &&
			!strings.Contains(strings.ToLower(l.Source), q) {
			return false
		}
	}
	return true
}
