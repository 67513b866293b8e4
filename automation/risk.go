package automation

import (
	"time"

	"bitbucket.org/mmdatafocus/books_automation/config"
	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/shopspring/decimal"
)

// RiskProfile is the fully recomputed per-customer risk state for one tick.
// Nothing incremental is kept between ticks, so missed ticks cannot drift.
type RiskProfile struct {
	CustomerId    int
	Outstanding   decimal.Decimal
	OverdueAmount decimal.Decimal
	OverdueCount  int
	Score         decimal.Decimal
	Tier          models.RiskTier
}

// ComputeRiskProfiles recomputes every customer's tier from outstanding
// debts. A debt counts as overdue when its status says so or its due date
// has passed. Customers with no outstanding debt are Low.
func ComputeRiskProfiles(customers []models.Customer, debts []models.Debt, today time.Time, cfg config.AutomationConfig) []RiskProfile {
	byCustomer := make(map[int][]models.Debt)
	for _, d := range debts {
		if !d.CurrentStatus.IsOutstanding() {
			continue
		}
		byCustomer[d.CustomerId] = append(byCustomer[d.CustomerId], d)
	}

	profiles := make([]RiskProfile, 0, len(customers))
	for _, c := range customers {
		profile := RiskProfile{CustomerId: c.ID, Tier: models.RiskTierLow}
		owed := byCustomer[c.ID]
		if len(owed) == 0 {
			profiles = append(profiles, profile)
			continue
		}
		for _, d := range owed {
			profile.Outstanding = profile.Outstanding.Add(d.Amount)
			if d.CurrentStatus == models.DebtStatusOverdue || d.DueDate.Before(today) {
				profile.OverdueAmount = profile.OverdueAmount.Add(d.Amount)
				profile.OverdueCount++
			}
		}
		profile.Score = riskScore(profile, cfg)
		profile.Tier = riskTier(profile.Score, cfg)
		profiles = append(profiles, profile)
	}
	return profiles
}

func riskScore(p RiskProfile, cfg config.AutomationConfig) decimal.Decimal {
	score := p.Outstanding.Div(decimal.NewFromInt(int64(cfg.RiskOutstandingDivisor)))
	if p.Outstanding.IsPositive() {
		overdueRatio := p.OverdueAmount.Div(p.Outstanding)
		score = score.Add(overdueRatio.Mul(decimal.NewFromInt(int64(cfg.RiskOverdueRatioWeight))))
	}
	countTerm := decimal.NewFromInt(int64(p.OverdueCount)).Mul(decimal.NewFromInt(int64(cfg.RiskOverdueCountWeight)))
	return score.Add(countTerm)
}

func riskTier(score decimal.Decimal, cfg config.AutomationConfig) models.RiskTier {
	switch {
	case score.GreaterThanOrEqual(decimal.NewFromInt(int64(cfg.RiskHighCutoff))):
		return models.RiskTierHigh
	case score.GreaterThanOrEqual(decimal.NewFromInt(int64(cfg.RiskMediumCutoff))):
		return models.RiskTierMedium
	default:
		return models.RiskTierLow
	}
}
