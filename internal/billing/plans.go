package billing

// Plan describes a subscription tier. The table is fixed at compile time;
// changing prices is a code change, not a runtime mutation.
type Plan struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Features []string `json:"features"`
}

var plans = map[string]Plan{
	"free": {
		Name:     "Free",
		Price:    0.00,
		Features: []string{"Basic CRM", "5 Projects", "Email Support"},
	},
	"professional": {
		Name:     "Professional",
		Price:    29.99,
		Features: []string{"Full CRM", "Unlimited Projects", "HR Module", "Priority Support"},
	},
	"enterprise": {
		Name:     "Enterprise",
		Price:    99.99,
		Features: []string{"All Modules", "Audit Logs", "Custom Roles", "Dedicated Support", "API Access"},
	},
}

// Plans returns the full plan table.
func Plans() map[string]Plan {
	out := make(map[string]Plan, len(plans))
	for k, v := range plans {
		out[k] = v
	}
	return out
}

// PlanByID looks up a plan; ok is false for unknown ids.
func PlanByID(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}
