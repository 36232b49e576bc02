// Package plan holds the static subscription plan catalog. Limits are
// written as the descriptive strings shown on the pricing page and parsed
// into numeric ceilings where the entitlement gate needs them.
package plan

import (
	"strconv"
	"strings"
)

// Plan identifiers
const (
	Free       = "free"
	Pro        = "pro"
	Enterprise = "enterprise"
)

// Feature keys
const (
	FeatureMaxProjects         = "maxProjects"
	FeatureMaxTeamMembers      = "maxTeamMembers"
	FeatureMaxRequestsPerMonth = "maxRequestsPerMonth"
	FeatureAIGenerations       = "aiGenerations"
	FeatureChatHistory         = "chatHistory"
)

// Unlimited is the parsed value of any "Unlimited ..." feature string.
const Unlimited int64 = -1

// Plan describes one subscription tier
type Plan struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Currency string            `json:"currency"`
	Features map[string]string `json:"features"`
}

var catalog = map[string]Plan{
	Free: {
		ID:       Free,
		Name:     "Free",
		Price:    0,
		Currency: "usd",
		Features: map[string]string{
			FeatureMaxProjects:         "1 project",
			FeatureMaxTeamMembers:      "3 team members",
			FeatureMaxRequestsPerMonth: "1,000 requests/month",
			FeatureAIGenerations:       "5 AI code generations per day",
			FeatureChatHistory:         "7 days chat history",
		},
	},
	Pro: {
		ID:       Pro,
		Name:     "Pro",
		Price:    29.99,
		Currency: "usd",
		Features: map[string]string{
			FeatureMaxProjects:         "10 projects",
			FeatureMaxTeamMembers:      "10 team members",
			FeatureMaxRequestsPerMonth: "50,000 requests/month",
			FeatureAIGenerations:       "Unlimited AI code generations",
			FeatureChatHistory:         "30 days chat history",
		},
	},
	Enterprise: {
		ID:       Enterprise,
		Name:     "Enterprise",
		Price:    99.99,
		Currency: "usd",
		Features: map[string]string{
			FeatureMaxProjects:         "Unlimited projects",
			FeatureMaxTeamMembers:      "Unlimited team members",
			FeatureMaxRequestsPerMonth: "Unlimited requests/month",
			FeatureAIGenerations:       "Unlimited AI code generations",
			FeatureChatHistory:         "Unlimited chat history",
		},
	},
}

var order = []string{Free, Pro, Enterprise}

// Lookup returns the plan for id, case-insensitively.
func Lookup(id string) (Plan, bool) {
	p, ok := catalog[strings.ToLower(id)]
	return p, ok
}

// All returns the catalog in display order.
func All() []Plan {
	plans := make([]Plan, 0, len(order))
	for _, id := range order {
		plans = append(plans, catalog[id])
	}
	return plans
}

// Limit resolves the numeric ceiling of a feature for a plan. Unknown
// plans and features resolve to 0, never to unlimited.
func Limit(planID, feature string) int64 {
	p, ok := Lookup(planID)
	if !ok {
		return 0
	}
	value, ok := p.Features[feature]
	if !ok {
		return 0
	}
	return ParseLimit(value)
}

// ParseLimit parses a descriptive feature string into a ceiling: a string
// beginning with "Unlimited" parses to Unlimited, otherwise the leading
// integer (commas stripped). Strings without a leading integer parse to 0.
func ParseLimit(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if strings.HasPrefix(strings.ToLower(value), "unlimited") {
		return Unlimited
	}

	end := 0
	for end < len(value) {
		c := value[end]
		if (c < '0' || c > '9') && c != ',' {
			break
		}
		end++
	}
	digits := strings.ReplaceAll(value[:end], ",", "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Allows reports whether used is still under the feature ceiling.
func Allows(planID, feature string, used int64) bool {
	limit := Limit(planID, feature)
	if limit == Unlimited {
		return true
	}
	return used < limit
}
