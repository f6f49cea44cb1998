package simulator

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// buildReadme renders a plain-text session report that accompanies a saved
// state bundle and names the artifacts written alongside it.
func (s *Simulator) buildReadme(prefix string, paths map[string]string) string {
	state := s.CurrentState

	var b strings.Builder
	fmt.Fprintf(&b, "Cafe simulation state: %s\n", prefix)
	fmt.Fprintf(&b, "Run ID: %s\n", s.runID)
	fmt.Fprintf(&b, "Saved at: %s\n\n", time.Now().Format("2006-01-02 15:04"))

	b.WriteString("Current state\n")
	fmt.Fprintf(&b, "  avg daily profit:   %.2f\n", state.AvgDailyProfit)
	fmt.Fprintf(&b, "  avg ticket:         %.2f\n", state.AvgTicket)
	fmt.Fprintf(&b, "  customers:          %d\n", state.CustomerCount)
	fmt.Fprintf(&b, "  conversion rate:    %.1f%%\n", state.ConversionRate*100)
	fmt.Fprintf(&b, "  top category:       %s\n", state.TopCategory)
	fmt.Fprintf(&b, "  promo rate:         %.1f%%\n", state.PromoRate*100)
	fmt.Fprintf(&b, "  avg rating:         %.2f\n", state.AvgRating)
	fmt.Fprintf(&b, "  transactions:       %d\n", state.TotalTransactions)
	fmt.Fprintf(&b, "  total profit:       %.2f\n\n", state.TotalProfit)

	if hourly := s.Model.HourlyMeans(); len(hourly) > 0 {
		bestHour, bestProfit := 0, 0.0
		hours := make([]int, 0, len(hourly))
		for h := range hourly {
			hours = append(hours, h)
		}
		sort.Ints(hours)
		for _, h := range hours {
			if hourly[h].Profit > bestProfit {
				bestHour, bestProfit = h, hourly[h].Profit
			}
		}
		fmt.Fprintf(&b, "Most profitable hour: %02d:00 (avg profit %.2f per transaction)\n\n", bestHour, bestProfit)
	}

	fmt.Fprintf(&b, "Applied changes: %d\n", len(s.ChangeLog))
	for _, change := range s.ChangeLog {
		fmt.Fprintf(&b, "  %s  %-16s %s\n",
			change.Timestamp.Format("2006-01-02 15:04"),
			change.Type,
			change.Effects.Description)
	}
	b.WriteString("\n")

	b.WriteString("Artifacts\n")
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if paths[k] == "" {
			continue
		}
		fmt.Fprintf(&b, "  %-12s %s\n", k, paths[k])
	}
	return b.String()
}
