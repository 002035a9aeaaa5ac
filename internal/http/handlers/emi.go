package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/impyreal/realty-ai-platform/internal/pricing"
)

// EMIRequest is the loan calculator input.
type EMIRequest struct {
	Principal   float64 `json:"principal"`
	AnnualRate  float64 `json:"annual_rate"`
	TenureYears int     `json:"tenure_years"`
}

// EMIResponse carries the computed monthly installment.
type EMIResponse struct {
	MonthlyEMI    int64  `json:"monthly_emi"`
	Formatted     string `json:"formatted"`
	TotalPayable  int64  `json:"total_payable"`
	TotalInterest int64  `json:"total_interest"`
}

// CalculateEMI handles POST /emi.
func CalculateEMI(w http.ResponseWriter, r *http.Request) {
	var req EMIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Principal <= 0 || req.AnnualRate < 0 || req.TenureYears <= 0 {
		http.Error(w, "principal, annual_rate and tenure_years must be positive", http.StatusBadRequest)
		return
	}

	emi := pricing.CalculateEMI(req.Principal, req.AnnualRate, req.TenureYears)
	totalPayable := emi * int64(req.TenureYears) * 12
	totalInterest := totalPayable - int64(req.Principal)
	if totalInterest < 0 {
		totalInterest = 0
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EMIResponse{
		MonthlyEMI:    emi,
		Formatted:     pricing.FormatINRFull(emi),
		TotalPayable:  totalPayable,
		TotalInterest: totalInterest,
	})
}
