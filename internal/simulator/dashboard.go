package simulator

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cafesim-io/cafedatasim/internal/models"
)

// Dashboard is the interactive session around a Simulator: a line-oriented
// menu reading from in and printing to out.
type Dashboard struct {
	sim    *Simulator
	reader *bufio.Reader
	out    io.Writer
}

func NewDashboard(sim *Simulator, in io.Reader, out io.Writer) *Dashboard {
	return &Dashboard{
		sim:    sim,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run drives the menu loop until the user exits or input ends.
func (d *Dashboard) Run() error {
	for {
		d.printMenu()
		choice, err := d.readLine("> ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			d.showState()
		case "2":
			if err := d.applyRecommendation(); err != nil {
				return err
			}
		case "3":
			if err := d.showForecast(); err != nil {
				return err
			}
		case "4":
			d.compareScenarios()
		case "5":
			if err := d.roiAnalysis(); err != nil {
				return err
			}
		case "6":
			d.showRecent()
		case "7":
			d.saveState()
		case "8":
			path := d.sim.SaveMLFeatures()
			fmt.Fprintf(d.out, "ML features exported: %s\n", path)
		case "9":
			if len(d.sim.ChangeLog) == 0 {
				fmt.Fprintln(d.out, "no changes applied yet")
			} else {
				d.printTable(models.ChangeLogTable(d.sim.ChangeLog))
			}
		case "0", "q", "exit":
			fmt.Fprintln(d.out, "bye")
			return nil
		default:
			fmt.Fprintln(d.out, "unknown option")
		}
	}
}

func (d *Dashboard) printMenu() {
	fmt.Fprint(d.out, `
=== Cafe Simulator ===
1. Current state
2. Apply recommendation
3. Profit forecast
4. Compare scenarios
5. ROI analysis
6. Recent transactions
7. Save current state
8. Export ML features
9. Change history
0. Exit
`)
}

func (d *Dashboard) showState() {
	d.printTable(models.StateTable(d.sim.RefreshState()))
}

func (d *Dashboard) applyRecommendation() error {
	fmt.Fprint(d.out, `
1. Price change
2. Promo campaign
3. Happy hours
4. Menu change
5. Loyalty program
`)
	choice, err := d.readLine("> ")
	if err != nil {
		return err
	}

	var effect models.Effect
	switch choice {
	case "1":
		category, err := d.readLine("category: ")
		if err != nil {
			return err
		}
		if !d.sim.Config.HasCategory(category) {
			fmt.Fprintf(d.out, "known categories: %s\n", strings.Join(d.sim.Config.CategoryNames(), ", "))
		}
		pct, err := d.readFloat("change % (e.g. 10 or -15): ")
		if err != nil {
			return err
		}
		effect = d.sim.ApplyPriceChange(category, pct)
	case "2":
		discount, err := d.readFloat("discount %: ")
		if err != nil {
			return err
		}
		days, err := d.readInt("duration, days: ")
		if err != nil {
			return err
		}
		effect = d.sim.ApplyPromoCampaign(discount, days)
	case "3":
		hours, err := d.readLine("hours (e.g. 16-18): ")
		if err != nil {
			return err
		}
		discount, err := d.readFloat("discount %: ")
		if err != nil {
			return err
		}
		effect = d.sim.ApplyHappyHours(hours, discount)
	case "4":
		action, err := d.readLine("action (add/remove): ")
		if err != nil {
			return err
		}
		dish, err := d.readLine("dish: ")
		if err != nil {
			return err
		}
		effect = d.sim.ApplyMenuChange(action, dish)
	case "5":
		improvement, err := d.readLine("improvement: ")
		if err != nil {
			return err
		}
		effect = d.sim.ApplyLoyaltyProgram(improvement)
	default:
		fmt.Fprintln(d.out, "unknown option")
		return nil
	}

	fmt.Fprintf(d.out, "\n%s\n", effect.Description)
	fmt.Fprintf(d.out, "expected profit impact:   %+.1f%%\n", effect.ProfitImpact*100)
	fmt.Fprintf(d.out, "expected customer impact: %+.1f%%\n", effect.CustomerImpact*100)
	return nil
}

func (d *Dashboard) showForecast() error {
	fmt.Fprint(d.out, `
1. 7 days
2. 30 days
3. 90 days
4. 30 days, optimistic
5. 30 days, pessimistic
`)
	choice, err := d.readLine("> ")
	if err != nil {
		return err
	}

	days := 30
	scenario := models.ScenarioBase
	switch choice {
	case "1":
		days = 7
	case "2":
	case "3":
		days = 90
	case "4":
		scenario = models.ScenarioOptimistic
	case "5":
		scenario = models.ScenarioPessimistic
	default:
		fmt.Fprintln(d.out, "unknown option")
		return nil
	}

	rows := d.sim.GetForecast(days, scenario)
	d.printTable(models.ForecastTable(rows))
	if len(rows) > 0 {
		fmt.Fprintf(d.out, "total predicted profit: %.2f\n", rows[len(rows)-1].CumulativeProfit)
	}
	return nil
}

func (d *Dashboard) compareScenarios() {
	results := d.sim.CompareScenarios()
	d.printTable(models.ScenarioTable(results))

	best := ""
	bestTotal := math.Inf(-1)
	for _, r := range results {
		if r.TotalProfit > bestTotal {
			best, bestTotal = r.Name, r.TotalProfit
		}
	}
	if best != "" {
		fmt.Fprintf(d.out, "best scenario: %s (%.2f over 30 days)\n", best, bestTotal)
	}
}

func (d *Dashboard) roiAnalysis() error {
	investment, err := d.readFloat("investment: ")
	if err != nil {
		return err
	}
	changeType, err := d.readLine("type (marketing/equipment/training/other): ")
	if err != nil {
		return err
	}

	roi := d.sim.GenerateROIAnalysis(investment, changeType)
	fmt.Fprintf(d.out, "\ninvestment:        %.2f\n", roi.Investment)
	fmt.Fprintf(d.out, "additional profit: %.2f\n", roi.AdditionalProfit)
	fmt.Fprintf(d.out, "ROI:               %.1f%%\n", roi.ROIPercent)
	if math.IsInf(roi.PaybackMonths, 1) {
		fmt.Fprintln(d.out, "payback:           never")
	} else {
		fmt.Fprintf(d.out, "payback:           %.1f months\n", roi.PaybackMonths)
	}
	fmt.Fprintf(d.out, "verdict:           %s\n", roi.Recommendation)
	return nil
}

func (d *Dashboard) showRecent() {
	d.printTable(models.TransactionsTable(d.sim.HistoricalTail(10)))
}

func (d *Dashboard) saveState() {
	paths := d.sim.SaveCurrentState("cafe_state")
	for kind, path := range paths {
		if path != "" {
			fmt.Fprintf(d.out, "saved %s: %s\n", kind, path)
		}
	}
}

func (d *Dashboard) printTable(table *models.Table) {
	fmt.Fprintln(d.out, strings.Join(table.Headers, " | "))
	for _, row := range table.Rows {
		fmt.Fprintln(d.out, strings.Join(row, " | "))
	}
}

func (d *Dashboard) readLine(prompt string) (string, error) {
	fmt.Fprint(d.out, prompt)
	line, err := d.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d *Dashboard) readFloat(prompt string) (float64, error) {
	line, err := d.readLine(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Fprintln(d.out, "expected a number, using 0")
		return 0, nil
	}
	return v, nil
}

func (d *Dashboard) readInt(prompt string) (int, error) {
	line, err := d.readLine(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintln(d.out, "expected a number, using 0")
		return 0, nil
	}
	return v, nil
}
