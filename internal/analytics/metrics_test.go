package analytics

import (
	"testing"

	"github.com/startupops/backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBurnRateEmptyDataset(t *testing.T) {
	m := BurnRate(nil, nil, 0)
	require.Equal(t, 0.0, m.NetBurn)
	require.Equal(t, 99.0, m.RunwayMonths)
	require.Equal(t, 0.0, m.BurnPerEmployee)
	require.Empty(t, m.ExpenseBreakdown)
}

func TestBurnRateCountsOnlyPaidRevenue(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 4000, Category: "salaries"},
		{Amount: 1000, Category: "marketing"},
		{Amount: 500, Category: "salaries"},
	}
	invoices := []models.Invoice{
		{Total: 2000, Status: "paid"},
		{Total: 9999, Status: "draft"},
	}

	m := BurnRate(expenses, invoices, 5)
	require.Equal(t, 5500.0, m.TotalExpenses)
	require.Equal(t, 2000.0, m.TotalRevenue)
	require.Equal(t, 3500.0, m.NetBurn)
	require.Equal(t, 0.6, m.RunwayMonths)
	require.Equal(t, 1100.0, m.BurnPerEmployee)

	// Breakdown keeps the order categories first appeared in.
	require.Equal(t, []CategoryAmount{
		{Category: "salaries", Amount: 4500},
		{Category: "marketing", Amount: 1000},
	}, m.ExpenseBreakdown)

	require.Equal(t, []NameValue{
		{Name: "Revenue", Value: 2000},
		{Name: "Expenses", Value: 5500},
	}, m.RevenueVsExpense)
}

func TestBurnRateProfitableHasSentinelRunway(t *testing.T) {
	m := BurnRate(
		[]models.Expense{{Amount: 100}},
		[]models.Invoice{{Total: 5000, Status: "paid"}},
		2,
	)
	require.Equal(t, 0.0, m.NetBurn)
	require.Equal(t, 99.0, m.RunwayMonths)
}

func TestUnitEconomicsEmptyDataset(t *testing.T) {
	m := ComputeUnitEconomics(nil, nil, nil, nil, 0)
	require.Equal(t, 1, m.TotalCustomers)
	require.Equal(t, 0.0, m.CAC)
	require.Equal(t, 0.0, m.LTV)
	require.Equal(t, 0.0, m.PaybackMonths)
	require.Len(t, m.DealStages, 5)
}

func TestUnitEconomics(t *testing.T) {
	leads := []models.Lead{{Status: "new"}, {Status: "qualified"}, {Status: "new"}, {Status: "new"}}
	deals := []models.Deal{
		{Stage: "closed_won", Value: 10000},
		{Stage: "prospecting", Value: 5000},
		{Stage: "closed_lost", Value: 2000},
	}
	invoices := []models.Invoice{
		{Total: 6000, Status: "paid"},
		{Total: 6000, Status: "paid"},
		{Total: 1000, Status: "draft"},
	}
	expenses := []models.Expense{
		{Amount: 3000, Category: "marketing"},
		{Amount: 5000, Category: "salaries"},
	}

	m := ComputeUnitEconomics(leads, deals, invoices, expenses, 4)

	// Customers: max(won deals=1, paid invoices=2, 1) = 2.
	require.Equal(t, 2, m.TotalCustomers)
	// Marketing 3000 beats 30% of 8000 = 2400; CAC = 3000/2 = 1500.
	require.Equal(t, 1500.0, m.CAC)
	require.Equal(t, 6000.0, m.ARPU)
	require.Equal(t, 72000.0, m.LTV)
	require.Equal(t, 48.0, m.LTVCACRatio)
	require.Equal(t, 3.0, m.PaybackMonths)
	require.Equal(t, 25.0, m.ConversionRate)
	require.Equal(t, 17000.0, m.PipelineValue)

	require.Equal(t, "Prospecting", m.DealStages[0].Stage)
	require.Equal(t, 1, m.DealStages[0].Count)
	require.Equal(t, "Closed Won", m.DealStages[3].Stage)
	require.Equal(t, 10000.0, m.DealStages[3].Value)
	require.Equal(t, "Closed Lost", m.DealStages[4].Stage)
}

func TestProductAnalyticsSortsByCountDescending(t *testing.T) {
	logs := []models.AuditLog{
		{Resource: "leads", Action: "create", UserName: "Alice"},
		{Resource: "projects", Action: "create", UserName: "Bob"},
		{Resource: "projects", Action: "update", UserName: "Bob"},
		{Resource: "projects", Action: "create", UserName: "Alice"},
		{Resource: "leads", Action: "create", UserName: "Bob"},
	}
	tasks := []models.Task{
		{Status: "done"}, {Status: "todo"}, {Status: "done"}, {Status: "in_progress"},
	}
	leads := []models.Lead{{Status: "qualified"}, {Status: "new"}}

	m := ProductAnalytics(logs, tasks, leads)

	require.Equal(t, []FeatureUsage{
		{Feature: "projects", Count: 3},
		{Feature: "leads", Count: 2},
	}, m.FeatureUsage)
	require.Equal(t, []ActionCount{
		{Action: "create", Count: 4},
		{Action: "update", Count: 1},
	}, m.ActionBreakdown)
	require.Equal(t, "Bob", m.UserActivity[0].User)
	require.Equal(t, 3, m.UserActivity[0].Actions)

	require.Equal(t, 50.0, m.TaskCompletionRate)
	require.Equal(t, 50.0, m.LeadConversionRate)

	// Task distribution keeps first-occurrence order.
	require.Equal(t, []StatusCount{
		{Status: "Done", Count: 2},
		{Status: "Todo", Count: 1},
		{Status: "In Progress", Count: 1},
	}, m.TaskDistribution)
	require.Equal(t, 5, m.TotalActions)
	require.Equal(t, 2, m.ActiveUsers)
}

func TestEstimateProject(t *testing.T) {
	tasks := []models.Task{
		{Title: "Design", Priority: "low"},
		{Title: "Build", Priority: "high"},
		{Title: "Ship", Priority: "urgent"},
		{Title: "Docs"}, // missing priority falls back to medium
	}

	est := EstimateProject(tasks, "USD")
	require.Equal(t, 30, est.TotalHours)
	require.Equal(t, 40, est.HourlyRate)
	require.Equal(t, 1200, est.EstimatedCost)
	require.Equal(t, "$", est.CurrencySymbol)
	require.Equal(t, TaskEstimate{Task: "Build", Hours: 8, Cost: 320}, est.Breakdown[1])

	inr := EstimateProject(tasks, "XYZ")
	require.Equal(t, 3000, inr.HourlyRate)
}
