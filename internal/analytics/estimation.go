package analytics

import "github.com/startupops/backend/internal/models"

// Per-priority effort used for project estimation.
var priorityHours = map[string]int{
	"low":    2,
	"medium": 4,
	"high":   8,
	"urgent": 16,
}

// Hourly rates per currency. Unknown currencies fall back to INR.
var hourlyRates = map[string]int{
	"INR": 3000,
	"USD": 40,
	"EUR": 35,
	"GBP": 30,
	"AUD": 60,
	"CAD": 55,
	"JPY": 5000,
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"AUD": "$",
	"CAD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

type TaskEstimate struct {
	Task  string `json:"task"`
	Hours int    `json:"hours"`
	Cost  int    `json:"cost"`
}

type Estimation struct {
	TotalHours     int            `json:"total_hours"`
	EstimatedCost  int            `json:"estimated_cost"`
	HourlyRate     int            `json:"hourly_rate"`
	Currency       string         `json:"currency"`
	CurrencySymbol string         `json:"currency_symbol"`
	Breakdown      []TaskEstimate `json:"breakdown"`
}

// EstimateProject sums per-task effort from the priority map and prices it
// at the currency's hourly rate.
func EstimateProject(tasks []models.Task, currency string) Estimation {
	rate, ok := hourlyRates[currency]
	if !ok {
		rate = hourlyRates["INR"]
	}
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = "¥"
	}

	est := Estimation{
		HourlyRate:     rate,
		Currency:       currency,
		CurrencySymbol: symbol,
		Breakdown:      make([]TaskEstimate, 0, len(tasks)),
	}
	for _, t := range tasks {
		h, ok := priorityHours[t.Priority]
		if !ok {
			h = priorityHours["medium"]
		}
		est.TotalHours += h
		est.Breakdown = append(est.Breakdown, TaskEstimate{Task: t.Title, Hours: h, Cost: h * rate})
	}
	est.EstimatedCost = est.TotalHours * rate
	return est
}
