package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/impyreal/realty-ai-platform/internal/blog"
	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/internal/projects"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// Dashboard aggregates back-office counters for the admin landing page.
type Dashboard struct {
	leadsRepo    leads.Repository
	projectsRepo projects.Repository
	blogRepo     blog.Repository
	logger       *logging.Logger
}

// NewDashboard creates a dashboard handler. projectsRepo and blogRepo may be nil.
func NewDashboard(leadsRepo leads.Repository, projectsRepo projects.Repository, blogRepo blog.Repository, logger *logging.Logger) *Dashboard {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dashboard{
		leadsRepo:    leadsRepo,
		projectsRepo: projectsRepo,
		blogRepo:     blogRepo,
		logger:       logger,
	}
}

// DashboardResponse is the admin dashboard summary.
type DashboardResponse struct {
	TotalLeads    int            `json:"total_leads"`
	LeadsByStatus map[string]int `json:"leads_by_status"`
	LeadsByIntent map[string]int `json:"leads_by_intent"`
	TotalProjects int            `json:"total_projects"`
	TotalPosts    int            `json:"total_posts"`
	RecentLeads   []*leads.Lead  `json:"recent_leads"`
}

const recentLeadLimit = 10

// Summary handles GET /admin/dashboard.
func (d *Dashboard) Summary(w http.ResponseWriter, r *http.Request) {
	resp := DashboardResponse{
		LeadsByStatus: make(map[string]int),
		LeadsByIntent: make(map[string]int),
		RecentLeads:   []*leads.Lead{},
	}

	all, err := d.leadsRepo.List(r.Context(), leads.ListFilter{})
	if err != nil {
		d.logger.Error("dashboard: failed to list leads", "error", err)
		http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
		return
	}
	resp.TotalLeads = len(all)
	for _, l := range all {
		resp.LeadsByStatus[string(l.Status)]++
		if l.AIIntentLevel != "" {
			resp.LeadsByIntent[string(l.AIIntentLevel)]++
		}
	}
	if len(all) > recentLeadLimit {
		resp.RecentLeads = all[:recentLeadLimit]
	} else {
		resp.RecentLeads = all
	}

	if d.projectsRepo != nil {
		list, err := d.projectsRepo.List(r.Context(), projects.ListFilter{})
		if err != nil {
			d.logger.Error("dashboard: failed to count projects", "error", err)
		} else {
			resp.TotalProjects = len(list)
		}
	}
	if d.blogRepo != nil {
		list, err := d.blogRepo.List(r.Context(), "")
		if err != nil {
			d.logger.Error("dashboard: failed to count posts", "error", err)
		} else {
			resp.TotalPosts = len(list)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
