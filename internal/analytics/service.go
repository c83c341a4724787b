package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/llm"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
)

const narrativeUnavailable = "AI analysis temporarily unavailable. Review metrics for manual assessment."

type Auditor interface {
	Record(ctx context.Context, actor *models.User, action, resource, details string)
}

// Service loads tenant rows, runs the pure folds, and optionally asks the
// LLM gateway for a narrative. Gateway failure always degrades to static
// text; analytics never error because a provider is down.
type Service struct {
	db    *pgxpool.Pool
	llm   *llm.Gateway
	audit Auditor
}

func NewService(db *pgxpool.Pool, gw *llm.Gateway, audit Auditor) *Service {
	return &Service{db: db, llm: gw, audit: audit}
}

type BurnReport struct {
	Metrics    BurnMetrics `json:"metrics"`
	AIAnalysis string      `json:"ai_analysis"`
}

func (s *Service) BurnRate(ctx context.Context, actor *models.User) (*BurnReport, error) {
	sc := tenant.ScopeForUser(actor)
	expenses, err := s.loadExpenses(ctx, sc)
	if err != nil {
		return nil, err
	}
	invoices, err := s.loadInvoices(ctx, sc)
	if err != nil {
		return nil, err
	}
	employees, err := s.countUsers(ctx, sc)
	if err != nil {
		return nil, err
	}

	m := BurnRate(expenses, invoices, employees)
	prompt := fmt.Sprintf(`Analyze this company's burn rate:
- Total Expenses: $%.2f
- Total Revenue: $%.2f
- Net Burn Rate: $%.2f/month
- Employees: %d, Burn/Employee: $%.2f
- Invoices: %d total, %d paid

Provide: 1) Burn rate health assessment 2) Risk level (Low/Medium/High/Critical) 3) Runway analysis 4) Top 3 cost optimization recommendations with estimated savings.`,
		m.TotalExpenses, m.TotalRevenue, m.NetBurn, m.EmployeeCount, m.BurnPerEmployee,
		m.TotalInvoices, m.PaidInvoices)

	report := &BurnReport{
		Metrics: m,
		AIAnalysis: s.narrative(ctx,
			"You are a senior financial analyst specializing in startup burn rate analysis. Be concise, data-driven, and actionable. Use bullet points for recommendations.",
			prompt),
	}
	s.audit.Record(ctx, actor, "analyze", "analytics", "Burn rate analysis")
	return report, nil
}

type UnitEconomicsReport struct {
	Metrics    UnitEconomics `json:"metrics"`
	AIAnalysis string        `json:"ai_analysis"`
}

func (s *Service) UnitEconomics(ctx context.Context, actor *models.User) (*UnitEconomicsReport, error) {
	sc := tenant.ScopeForUser(actor)
	leads, err := s.loadLeads(ctx, sc)
	if err != nil {
		return nil, err
	}
	deals, err := s.loadDeals(ctx, sc)
	if err != nil {
		return nil, err
	}
	invoices, err := s.loadInvoices(ctx, sc)
	if err != nil {
		return nil, err
	}
	expenses, err := s.loadExpenses(ctx, sc)
	if err != nil {
		return nil, err
	}
	employees, err := s.countUsers(ctx, sc)
	if err != nil {
		return nil, err
	}

	m := ComputeUnitEconomics(leads, deals, invoices, expenses, employees)
	prompt := fmt.Sprintf(`Analyze unit economics:
- CAC: $%.2f, LTV: $%.2f, LTV/CAC: %.2fx, Payback: %.1f months
- ARPU: $%.2f, Gross Margin: %.1f%%, Revenue/Employee: $%.2f
- Pipeline: %d leads, %d deals ($%.2f value)
- Conversion: %.1f%%, Customers: %d

Provide: 1) Health score (1-10) with explanation 2) Strengths and concerns 3) Top 3 growth recommendations to improve LTV/CAC.`,
		m.CAC, m.LTV, m.LTVCACRatio, m.PaybackMonths, m.ARPU, m.GrossMargin,
		m.RevenuePerEmployee, m.TotalLeads, m.TotalDeals, m.PipelineValue,
		m.ConversionRate, m.TotalCustomers)

	report := &UnitEconomicsReport{
		Metrics: m,
		AIAnalysis: s.narrative(ctx,
			"You are a SaaS unit economics expert. Analyze metrics and provide strategic recommendations with specific numbers. Use bullet points.",
			prompt),
	}
	s.audit.Record(ctx, actor, "analyze", "analytics", "Unit economics analysis")
	return report, nil
}

type ProductReport struct {
	Metrics    ProductMetrics `json:"metrics"`
	AIAnalysis string         `json:"ai_analysis"`
}

func (s *Service) ProductOptimization(ctx context.Context, actor *models.User) (*ProductReport, error) {
	sc := tenant.ScopeForUser(actor)
	logs, err := s.loadAuditLogs(ctx, sc)
	if err != nil {
		return nil, err
	}
	tasks, err := s.loadTasks(ctx, sc, "")
	if err != nil {
		return nil, err
	}
	leads, err := s.loadLeads(ctx, sc)
	if err != nil {
		return nil, err
	}

	m := ProductAnalytics(logs, tasks, leads)
	usage, _ := json.Marshal(m.FeatureUsage)
	prompt := fmt.Sprintf(`Analyze product usage:
- Feature Usage: %s
- %d active users, %d total actions
- Task Completion: %.1f%%, Lead Conversion: %.1f%%

Provide: 1) Engagement assessment 2) Feature adoption gaps 3) Top 3 optimization recommendations with expected impact.`,
		usage, m.ActiveUsers, m.TotalActions, m.TaskCompletionRate, m.LeadConversionRate)

	report := &ProductReport{
		Metrics: m,
		AIAnalysis: s.narrative(ctx,
			"You are a product analytics expert. Analyze user behavior and suggest data-driven optimizations. Use bullet points.",
			prompt),
	}
	s.audit.Record(ctx, actor, "analyze", "analytics", "Product optimization analysis")
	return report, nil
}

type EstimationReport struct {
	Project        string `json:"project"`
	TotalTasks     int    `json:"total_tasks"`
	TotalHours     int    `json:"total_hours"`
	EstimatedCost  int    `json:"estimated_cost"`
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currency_symbol"`
	AIQuotation    string `json:"ai_quotation"`
}

func (s *Service) ProjectEstimation(ctx context.Context, actor *models.User, projectName, currency string) (*EstimationReport, error) {
	if projectName == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "project_name is required")
	}
	if currency == "" {
		currency = "INR"
	}
	tasks, err := s.loadTasks(ctx, tenant.ScopeForUser(actor), projectName)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apperr.Wrap(apperr.ErrNotFound, "no tasks found for this project")
	}

	est := EstimateProject(tasks, currency)
	quotation := s.quotationBody(ctx, projectName, est)
	s.audit.Record(ctx, actor, "analyze_project", "projects",
		fmt.Sprintf("Analyzed %s", projectName))

	return &EstimationReport{
		Project:        projectName,
		TotalTasks:     len(tasks),
		TotalHours:     est.TotalHours,
		EstimatedCost:  est.EstimatedCost,
		Currency:       est.Currency,
		CurrencySymbol: est.CurrencySymbol,
		AIQuotation:    quotationHTML(projectName, quotation),
	}, nil
}

func (s *Service) quotationBody(ctx context.Context, projectName string, est Estimation) string {
	names := make([]string, 0, 5)
	for i, b := range est.Breakdown {
		if i == 5 {
			break
		}
		names = append(names, b.Task)
	}
	prompt := fmt.Sprintf(`Project: %s
Currency: %s (%s)
Total Hours: %d
Rate: %s%d/hr
Total: %s%d
Tasks: %d (%s)

Write the:
1. Executive Summary
2. Scope of Work (Bullet points)
3. Commercial Terms (Table with Description, Hours, Rate, Total)
4. Project Timeline`,
		projectName, est.Currency, est.CurrencySymbol, est.TotalHours,
		est.CurrencySymbol, est.HourlyRate, est.CurrencySymbol, est.EstimatedCost,
		len(est.Breakdown), strings.Join(names, ", "))

	body := s.narrativeOrEmpty(ctx,
		"You are a Senior Project Manager. Output ONLY the body content of a formal quotation (Executive Summary, Scope, Commercials, Timeline). Use <h3> for section headers and <table> for data. Write in a highly professional tone.",
		prompt)
	if body != "" {
		return body
	}
	return fallbackQuotation(projectName, est)
}

// narrative returns the model's answer, or the static unavailable text.
func (s *Service) narrative(ctx context.Context, system, prompt string) string {
	if body := s.narrativeOrEmpty(ctx, system, prompt); body != "" {
		return body
	}
	return narrativeUnavailable
}

func (s *Service) narrativeOrEmpty(ctx context.Context, system, prompt string) string {
	if s.llm == nil || !s.llm.Enabled() {
		return ""
	}
	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		slog.Error("analytics narrative failed", "error", err)
		return ""
	}
	return resp.Content
}

// Row loaders. Each pulls only the fields the folds consume.

func (s *Service) loadExpenses(ctx context.Context, sc tenant.Scope) ([]models.Expense, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx, "SELECT amount, category FROM expenses WHERE "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	defer rows.Close()
	var out []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.Amount, &e.Category); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Service) loadInvoices(ctx context.Context, sc tenant.Scope) ([]models.Invoice, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx, "SELECT total, status FROM invoices WHERE "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	defer rows.Close()
	var out []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.Total, &inv.Status); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Service) loadLeads(ctx context.Context, sc tenant.Scope) ([]models.Lead, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx, "SELECT status, value FROM leads WHERE "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	defer rows.Close()
	var out []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.Status, &l.Value); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Service) loadDeals(ctx context.Context, sc tenant.Scope) ([]models.Deal, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx, "SELECT stage, value FROM deals WHERE "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("load deals: %w", err)
	}
	defer rows.Close()
	var out []models.Deal
	for rows.Next() {
		var d models.Deal
		if err := rows.Scan(&d.Stage, &d.Value); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Service) loadTasks(ctx context.Context, sc tenant.Scope, projectName string) ([]models.Task, error) {
	clause, args := sc.SQL("tenant_id", 1)
	q := "SELECT title, status, priority FROM tasks WHERE " + clause
	if projectName != "" {
		args = append(args, projectName)
		q += fmt.Sprintf(" AND project = $%d", len(args))
	}
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()
	var out []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.Title, &t.Status, &t.Priority); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Service) loadAuditLogs(ctx context.Context, sc tenant.Scope) ([]models.AuditLog, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx, "SELECT action, resource, user_name FROM audit_logs WHERE "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("load audit logs: %w", err)
	}
	defer rows.Close()
	var out []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.Action, &l.Resource, &l.UserName); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Service) countUsers(ctx context.Context, sc tenant.Scope) (int, error) {
	clause, args := sc.SQL("tenant_id", 1)
	var n int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE "+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func quotationHTML(projectName, body string) string {
	today := time.Now()
	return fmt.Sprintf(`<div style="font-family: Helvetica, Arial, sans-serif; color: #333; line-height: 1.6;">
<h1 style="margin: 0; color: #2c3e50;">PROJECT QUOTATION</h1>
<p style="color: #7f8c8d;">Project: %s<br>Date: %s<br>Valid Until: %s</p>
%s
<p style="margin-top: 40px; font-size: 12px; color: #95a5a6;">This quotation is subject to our Standard Terms &amp; Conditions. Payment terms: 50%% upfront, 50%% upon completion.</p>
</div>`,
		projectName,
		today.Format("January 2, 2006"),
		today.AddDate(0, 0, 30).Format("January 2, 2006"),
		body)
}

func fallbackQuotation(projectName string, est Estimation) string {
	var scope strings.Builder
	for i, b := range est.Breakdown {
		if i == 8 {
			fmt.Fprintf(&scope, "<li>...and %d more tasks.</li>", len(est.Breakdown)-8)
			break
		}
		fmt.Fprintf(&scope, "<li>%s (%dh)</li>", b.Task, b.Hours)
	}
	weeks := est.TotalHours / 30
	if weeks < 1 {
		weeks = 1
	}
	return fmt.Sprintf(`<h3>Executive Summary</h3>
<p>We are pleased to submit this proposal for <strong>%s</strong>. The scope, estimated timeline, and commercial terms are outlined below.</p>
<h3>Scope of Work</h3>
<ul>%s</ul>
<h3>Commercial Terms</h3>
<table><tr><th>Description</th><th>Hours</th><th>Rate</th><th>Total</th></tr>
<tr><td>Development Services</td><td>%d</td><td>%s%d</td><td><strong>%s%d</strong></td></tr></table>
<h3>Timeline</h3>
<p>Estimated Duration: <strong>%d weeks</strong> (based on current velocity).</p>`,
		projectName, scope.String(),
		est.TotalHours, est.CurrencySymbol, est.HourlyRate, est.CurrencySymbol, est.EstimatedCost,
		weeks)
}
