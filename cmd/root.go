package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/cafesim-io/cafedatasim/internal/output"
	"github.com/cafesim-io/cafedatasim/internal/simulator"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cafedatasim",
	Short: "Simulates cafe transaction data with forecasting and recommendations",
	Long: `cafedatasim generates synthetic cafe transaction datasets, lets you apply
business recommendations (price changes, promos, happy hours, menu and loyalty
changes) and projects their profit impact with simple what-if forecasts.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("error loading config")
		}

		sink, err := output.ForConfig(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("error creating output sink")
		}
		defer sink.Close()

		sim := simulator.NewSimulator(cfg, sink, logger)

		if viper.GetBool("demo") {
			runDemo(sim, logger)
			return
		}

		dashboard := simulator.NewDashboard(sim, os.Stdin, os.Stdout)
		if err := dashboard.Run(); err != nil {
			logger.Fatal().Err(err).Msg("dashboard session failed")
		}
	},
}

// runDemo walks a fixed scripted session: a couple of recommendations, the
// forecasts, the scenario comparison and a saved state bundle.
func runDemo(sim *simulator.Simulator, logger zerolog.Logger) {
	effects := []models.Effect{
		sim.ApplyPriceChange("coffee", 10),
		sim.ApplyPromoCampaign(15, 14),
	}
	for _, effect := range effects {
		fmt.Printf("%s (profit %+.1f%%, customers %+.1f%%)\n",
			effect.Description, effect.ProfitImpact*100, effect.CustomerImpact*100)
	}

	days := viper.GetInt("days")
	for _, scenario := range []models.Scenario{models.ScenarioBase, models.ScenarioOptimistic, models.ScenarioPessimistic} {
		rows := sim.GetForecast(days, scenario)
		label := string(scenario)
		if label == "" {
			label = "base"
		}
		if len(rows) > 0 {
			fmt.Printf("forecast %-12s %d days, total profit %.2f\n",
				label, days, rows[len(rows)-1].CumulativeProfit)
		}
		sim.SaveForecast(rows, "forecast_"+label)
	}

	for _, result := range sim.CompareScenarios() {
		fmt.Printf("scenario %-18s total %.2f  avg/day %.2f  growth %+.1f%%\n",
			result.Name, result.TotalProfit, result.AvgDaily, result.GrowthPct)
	}

	roi := sim.GenerateROIAnalysis(100000, "equipment")
	fmt.Printf("ROI on 100000 equipment: %.1f%% (%s)\n", roi.ROIPercent, roi.Recommendation)

	sim.SaveCurrentState("demo")
	logger.Info().Msg("demo session finished")
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.Flags().Int("seed", 42, "Random seed for the initial dataset")
	rootCmd.Flags().Int("rows", 500, "Number of transactions in the initial dataset")
	rootCmd.Flags().String("start-date", time.Now().AddDate(0, -2, 0).Format(time.RFC3339), "Start date the dataset spreads forward from")
	rootCmd.Flags().String("output", "console", "Output sink: console, file, parquet, postgres, kafka or s3")
	rootCmd.Flags().String("output-path", "output", "Base directory for file and parquet sinks")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list for the kafka sink")
	rootCmd.Flags().Bool("demo", false, "Run a scripted demo session instead of the dashboard")
	rootCmd.Flags().Int("days", 30, "Forecast horizon used by the demo session")

	viper.BindPFlags(rootCmd.Flags())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
