package leads

import (
	"errors"
	"testing"
	"time"
)

func TestCreateLeadRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateLeadRequest
		policy  PhonePolicy
		wantErr error
	}{
		{
			name:   "valid strict",
			req:    CreateLeadRequest{Name: "Asha", Phone: "9876543210", Purpose: PurposeInvestment},
			policy: PhoneStrict,
		},
		{
			name:    "missing name",
			req:     CreateLeadRequest{Phone: "9876543210"},
			policy:  PhoneStrict,
			wantErr: ErrInvalidName,
		},
		{
			name:    "blank name",
			req:     CreateLeadRequest{Name: "   ", Phone: "9876543210"},
			policy:  PhoneStrict,
			wantErr: ErrInvalidName,
		},
		{
			name:    "missing phone",
			req:     CreateLeadRequest{Name: "Asha"},
			policy:  PhoneStrict,
			wantErr: ErrInvalidPhone,
		},
		{
			name:    "strict rejects short phone",
			req:     CreateLeadRequest{Name: "Asha", Phone: "98765"},
			policy:  PhoneStrict,
			wantErr: ErrInvalidPhone,
		},
		{
			name:    "strict rejects landline prefix",
			req:     CreateLeadRequest{Name: "Asha", Phone: "1234567890"},
			policy:  PhoneStrict,
			wantErr: ErrInvalidPhone,
		},
		{
			name:   "lenient accepts free-form phone",
			req:    CreateLeadRequest{Name: "Asha", Phone: "+91 22 1234"},
			policy: PhoneLenient,
		},
		{
			name:    "lenient still requires phone",
			req:     CreateLeadRequest{Name: "Asha", Phone: "  "},
			policy:  PhoneLenient,
			wantErr: ErrInvalidPhone,
		},
		{
			name:    "unknown purpose",
			req:     CreateLeadRequest{Name: "Asha", Phone: "9876543210", Purpose: "flipping"},
			policy:  PhoneStrict,
			wantErr: ErrInvalidPurpose,
		},
		{
			name:   "empty purpose allowed",
			req:    CreateLeadRequest{Name: "Asha", Phone: "9876543210"},
			policy: PhoneStrict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(tt.policy)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPolicyForSource(t *testing.T) {
	if PolicyForSource("contact-page") != PhoneLenient {
		t.Error("contact-page should use the lenient policy")
	}
	if PolicyForSource("website") != PhoneStrict {
		t.Error("website should use the strict policy")
	}
	if PolicyForSource("") != PhoneStrict {
		t.Error("unknown sources should default to the strict policy")
	}
}

func TestListFilterMatches(t *testing.T) {
	lead := &Lead{
		ProjectName: "Skyline Residences",
		Source:      "project-page",
		Status:      StatusNew,
		CreatedAt:   time.Now(),
	}

	if !(ListFilter{}).Matches(lead) {
		t.Error("empty filter should match")
	}
	if !(ListFilter{Status: StatusNew}).Matches(lead) {
		t.Error("status filter should match")
	}
	if (ListFilter{Status: StatusLost}).Matches(lead) {
		t.Error("mismatched status should not match")
	}
	if !(ListFilter{Query: "skyline"}).Matches(lead) {
		t.Error("query should match project name case-insensitively")
	}
	if !(ListFilter{Query: "project-page"}).Matches(lead) {
		t.Error("query should match source")
	}
	if (ListFilter{Query: "lakefront"}).Matches(lead) {
		t.Error("unrelated query should not match")
	}
}

func TestStatusAndIntentValid(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusContacted, StatusQualified, StatusLost} {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if Status("archived").Valid() {
		t.Error("unknown status should be invalid")
	}

	for _, l := range []IntentLevel{IntentHot, IntentWarm, IntentCold} {
		if !l.Valid() {
			t.Errorf("intent %q should be valid", l)
		}
	}
	if IntentLevel("lukewarm").Valid() {
		t.Error("unknown intent should be invalid")
	}
}
