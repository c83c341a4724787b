package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/startupops/backend/internal/models"
)

// The folds in this file are pure: they take already-loaded rows and produce
// metric structures. Every division is floor-guarded so empty datasets never
// panic.

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// counter accumulates by key while remembering first-occurrence order.
type counter struct {
	keys []string
	vals map[string]float64
}

func newCounter() *counter {
	return &counter{vals: map[string]float64{}}
}

func (c *counter) add(key string, v float64) {
	if _, ok := c.vals[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.vals[key] += v
}

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type BurnMetrics struct {
	TotalExpenses    float64          `json:"total_expenses"`
	TotalRevenue     float64          `json:"total_revenue"`
	NetBurn          float64          `json:"net_burn"`
	RunwayMonths     float64          `json:"runway_months"`
	EmployeeCount    int              `json:"employee_count"`
	BurnPerEmployee  float64          `json:"burn_per_employee"`
	ExpenseBreakdown []CategoryAmount `json:"expense_breakdown"`
	RevenueVsExpense []NameValue      `json:"revenue_vs_expense"`
	PaidInvoices     int              `json:"-"`
	TotalInvoices    int              `json:"-"`
}

// BurnRate folds expenses and invoices into burn metrics. Revenue counts
// only paid invoices. With zero burn the runway is the sentinel 99.
func BurnRate(expenses []models.Expense, invoices []models.Invoice, employees int) BurnMetrics {
	var totalExpenses, totalRevenue float64
	paid := 0
	byCategory := newCounter()

	for _, e := range expenses {
		totalExpenses += e.Amount
		cat := e.Category
		if cat == "" {
			cat = "other"
		}
		byCategory.add(cat, e.Amount)
	}
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			totalRevenue += inv.Total
			paid++
		}
	}

	netBurn := math.Max(totalExpenses-totalRevenue, 0)
	runway := 99.0
	if netBurn > 0 {
		runway = round1(totalRevenue / math.Max(netBurn, 0.01))
	}

	breakdown := make([]CategoryAmount, 0, len(byCategory.keys))
	for _, k := range byCategory.keys {
		breakdown = append(breakdown, CategoryAmount{Category: k, Amount: byCategory.vals[k]})
	}

	return BurnMetrics{
		TotalExpenses:    totalExpenses,
		TotalRevenue:     totalRevenue,
		NetBurn:          netBurn,
		RunwayMonths:     runway,
		EmployeeCount:    employees,
		BurnPerEmployee:  round2(totalExpenses / math.Max(float64(employees), 1)),
		ExpenseBreakdown: breakdown,
		RevenueVsExpense: []NameValue{
			{Name: "Revenue", Value: totalRevenue},
			{Name: "Expenses", Value: totalExpenses},
		},
		PaidInvoices:  paid,
		TotalInvoices: len(invoices),
	}
}

type DealStageMetric struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type UnitEconomics struct {
	CAC                float64           `json:"cac"`
	LTV                float64           `json:"ltv"`
	LTVCACRatio        float64           `json:"ltv_cac_ratio"`
	PaybackMonths      float64           `json:"payback_months"`
	ARPU               float64           `json:"arpu"`
	GrossMargin        float64           `json:"gross_margin"`
	RevenuePerEmployee float64           `json:"revenue_per_employee"`
	TotalCustomers     int               `json:"total_customers"`
	ConversionRate     float64           `json:"conversion_rate"`
	TotalLeads         int               `json:"total_leads"`
	TotalDeals         int               `json:"total_deals"`
	PipelineValue      float64           `json:"pipeline_value"`
	DealStages         []DealStageMetric `json:"deal_stages"`
}

// ComputeUnitEconomics derives CAC/LTV style metrics. Customers are whichever
// is larger of won deals and paid invoices, never less than one. Marketing
// spend is floored at 30% of total expenses.
func ComputeUnitEconomics(leads []models.Lead, deals []models.Deal, invoices []models.Invoice, expenses []models.Expense, employees int) UnitEconomics {
	var totalRevenue, pipelineValue, totalExpenses, marketing float64
	paidInvoices := 0
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			totalRevenue += inv.Total
			paidInvoices++
		}
	}
	for _, d := range deals {
		pipelineValue += d.Value
	}
	for _, e := range expenses {
		totalExpenses += e.Amount
		if e.Category == "marketing" {
			marketing += e.Amount
		}
	}

	won := 0
	for _, d := range deals {
		if d.Stage == "closed_won" {
			won++
		}
	}

	customers := won
	if paidInvoices > customers {
		customers = paidInvoices
	}
	if customers < 1 {
		customers = 1
	}

	cac := round2(math.Max(marketing, totalExpenses*0.3) / math.Max(float64(customers), 1))
	arpu := round2(totalRevenue / math.Max(float64(customers), 1))
	ltv := round2(arpu * 12)
	ltvCAC := round2(ltv / math.Max(cac, 0.01))
	payback := 0.0
	if arpu > 0 {
		payback = round1(cac / math.Max(arpu/12, 0.01))
	}
	conversion := 0.0
	if len(leads) > 0 {
		conversion = round1(float64(won) / math.Max(float64(len(leads)), 1) * 100)
	}

	stages := make([]DealStageMetric, 0, len(models.DealStages))
	for _, s := range models.DealStages {
		m := DealStageMetric{Stage: titleCase(s)}
		for _, d := range deals {
			if d.Stage == s {
				m.Count++
				m.Value += d.Value
			}
		}
		stages = append(stages, m)
	}

	return UnitEconomics{
		CAC:                cac,
		LTV:                ltv,
		LTVCACRatio:        ltvCAC,
		PaybackMonths:      payback,
		ARPU:               arpu,
		GrossMargin:        round1((totalRevenue - totalExpenses) / math.Max(totalRevenue, 0.01) * 100),
		RevenuePerEmployee: round2(totalRevenue / math.Max(float64(employees), 1)),
		TotalCustomers:     customers,
		ConversionRate:     conversion,
		TotalLeads:         len(leads),
		TotalDeals:         len(deals),
		PipelineValue:      pipelineValue,
		DealStages:         stages,
	}
}

type CountEntry struct {
	Key   string `json:"-"`
	Count int    `json:"-"`
}

type FeatureUsage struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}

type UserActivity struct {
	User    string `json:"user"`
	Actions int    `json:"actions"`
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type ProductMetrics struct {
	FeatureUsage       []FeatureUsage `json:"feature_usage"`
	UserActivity       []UserActivity `json:"user_activity"`
	ActionBreakdown    []ActionCount  `json:"action_breakdown"`
	TaskCompletionRate float64        `json:"task_completion_rate"`
	LeadConversionRate float64        `json:"lead_conversion_rate"`
	TaskDistribution   []StatusCount  `json:"task_distribution"`
	TotalActions       int            `json:"total_actions"`
	ActiveUsers        int            `json:"active_users"`
}

// ProductAnalytics folds the audit trail into usage breakdowns. Feature,
// user, and action breakdowns are sorted by descending count with ties kept
// in first-occurrence order; the task distribution stays in first-occurrence
// order.
func ProductAnalytics(logs []models.AuditLog, tasks []models.Task, leads []models.Lead) ProductMetrics {
	features := newCounter()
	users := newCounter()
	actions := newCounter()
	for _, l := range logs {
		resource := l.Resource
		if resource == "" {
			resource = "other"
		}
		features.add(resource, 1)
		name := l.UserName
		if name == "" {
			name = "Unknown"
		}
		users.add(name, 1)
		action := l.Action
		if action == "" {
			action = "unknown"
		}
		actions.add(action, 1)
	}

	done := 0
	byStatus := newCounter()
	for _, t := range tasks {
		if t.Status == "done" {
			done++
		}
		status := t.Status
		if status == "" {
			status = "unknown"
		}
		byStatus.add(status, 1)
	}
	qualified := 0
	for _, l := range leads {
		if l.Status == "qualified" {
			qualified++
		}
	}

	featureUsage := make([]FeatureUsage, 0, len(features.keys))
	for _, k := range sortedByCount(features) {
		featureUsage = append(featureUsage, FeatureUsage{Feature: k, Count: int(features.vals[k])})
	}
	userActivity := make([]UserActivity, 0, len(users.keys))
	for _, k := range sortedByCount(users) {
		userActivity = append(userActivity, UserActivity{User: k, Actions: int(users.vals[k])})
	}
	actionBreakdown := make([]ActionCount, 0, len(actions.keys))
	for _, k := range sortedByCount(actions) {
		actionBreakdown = append(actionBreakdown, ActionCount{Action: k, Count: int(actions.vals[k])})
	}
	distribution := make([]StatusCount, 0, len(byStatus.keys))
	for _, k := range byStatus.keys {
		distribution = append(distribution, StatusCount{Status: titleCase(k), Count: int(byStatus.vals[k])})
	}

	return ProductMetrics{
		FeatureUsage:       featureUsage,
		UserActivity:       userActivity,
		ActionBreakdown:    actionBreakdown,
		TaskCompletionRate: round1(float64(done) / math.Max(float64(len(tasks)), 1) * 100),
		LeadConversionRate: round1(float64(qualified) / math.Max(float64(len(leads)), 1) * 100),
		TaskDistribution:   distribution,
		TotalActions:       len(logs),
		ActiveUsers:        len(users.keys),
	}
}

func sortedByCount(c *counter) []string {
	keys := append([]string(nil), c.keys...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.vals[keys[i]] > c.vals[keys[j]]
	})
	return keys
}

func titleCase(s string) string {
	parts := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
