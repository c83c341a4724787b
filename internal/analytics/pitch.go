package analytics

import (
	"context"
	"fmt"

	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
)

type Slide struct {
	Slide   int    `json:"slide"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Visual  string `json:"visual"`
}

// PitchDeck assembles a ten-slide investor deck seeded with the tenant's
// current burn metrics.
func (s *Service) PitchDeck(ctx context.Context, actor *models.User, companyName string) ([]Slide, error) {
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

	if companyName == "" {
		companyName = "your company"
	}
	deck := []Slide{
		{1, "Problem Statement",
			"Startups struggle to track execution and validate ideas efficiently.",
			"Image of a frustrated founder with disorganized notes."},
		{2, "Solution",
			fmt.Sprintf("StartupOps: An all-in-one platform for %s to manage tasks, team, and finance.", companyName),
			"Screenshot of the Dashboard showing unified metrics."},
		{3, "Market Opportunity",
			"Targeting early-stage founders. Robust TAM/SAM/SOM analysis.",
			"Bar chart showing market growth trends."},
		{4, "Product Demo",
			"Core features: Task Tracking, AI Analytics, and Idea Validation.",
			"Carousel of product screenshots."},
		{5, "Business Model",
			"SaaS Subscription model with tiered pricing.",
			"Table showing Free, Pro, and Enterprise plans."},
		{6, "Traction",
			fmt.Sprintf("Current status: Active user base growing. Revenue: $%.2f", m.TotalRevenue),
			"Line graph of user growth."},
		{7, "Go-to-Market",
			"Content marketing, partnerships with incubators, and product-led growth.",
			"Funnel diagram of customer acquisition."},
		{8, "Competition",
			"Better than Jira/Asana because we are Founder-First and integrated.",
			"Comparison matrix."},
		{9, "Team",
			fmt.Sprintf("Led by %s and a passionate team of builders.", actor.FullName),
			"Team photos and bios."},
		{10, "Financial Projections",
			fmt.Sprintf("Projected to reach profitability in %.0f months.", m.RunwayMonths),
			"Financial forecast chart."},
	}

	s.audit.Record(ctx, actor, "generate", "pitch", "Generated investor pitch deck")
	return deck, nil
}
