package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// EventOpportunityFound is emitted when a completed run's top opportunity
// clears the high-confidence threshold.
const EventOpportunityFound = "opportunity_found"

// maxAlertOpportunities caps how many rows an alert message lists.
const maxAlertOpportunities = 5

// OpportunityAlerter formats completed analysis runs into operator alerts
// and dispatches them through a Notifier.
type OpportunityAlerter struct {
	notifier *Notifier
}

// NewOpportunityAlerter creates an OpportunityAlerter.
func NewOpportunityAlerter(notifier *Notifier) *OpportunityAlerter {
	return &OpportunityAlerter{notifier: notifier}
}

// OpportunityFound sends an alert summarizing the run's best opportunities.
func (a *OpportunityAlerter) OpportunityFound(ctx context.Context, report domain.Report) error {
	title := fmt.Sprintf("Trade opportunities in %s", report.RegionName)
	return a.notifier.Notify(ctx, EventOpportunityFound, title, formatReport(report))
}

// formatReport renders the top rows of a report as a plain-text summary.
func formatReport(report domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s analyzed %d items, %d opportunities found.\n",
		report.RunID, report.TotalItemsAnalyzed, report.TotalOpportunities)

	n := len(report.Opportunities)
	if n > maxAlertOpportunities {
		n = maxAlertOpportunities
	}
	for i := 0; i < n; i++ {
		opp := report.Opportunities[i]
		fmt.Fprintf(&b, "%d. %s: spread %.2f%% (buy %.2f / sell %.2f), volume %d, confidence %.2f\n",
			i+1, opp.Name, opp.SpreadPercentage,
			opp.BestBuyPrice, opp.BestSellPrice,
			min(opp.BuyVolume, opp.SellVolume), opp.Confidence)
	}

	return strings.TrimRight(b.String(), "\n")
}
