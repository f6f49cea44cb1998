package models

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CategorySettings describes the price band and economics of one menu category.
type CategorySettings struct {
	MinPrice   int      `mapstructure:"min_price" json:"min_price"`
	MaxPrice   int      `mapstructure:"max_price" json:"max_price"`
	CostPct    float64  `mapstructure:"cost_pct" json:"cost_pct"`
	Elasticity float64  `mapstructure:"demand_elasticity" json:"demand_elasticity"`
	Dishes     []string `mapstructure:"dishes" json:"dishes"`
}

// PrepTimeRange bounds preparation minutes for one category.
type PrepTimeRange struct {
	Min int `mapstructure:"min" json:"min"`
	Max int `mapstructure:"max" json:"max"`
}

type Config struct {
	Seed       int64     `mapstructure:"seed"`
	RegenSeed  int64     `mapstructure:"regen_seed"`
	Rows       int       `mapstructure:"rows"`
	StartDate  time.Time `mapstructure:"start_date"`
	SpreadDays int       `mapstructure:"spread_days"`

	Categories          map[string]CategorySettings `mapstructure:"categories" json:"categories"`
	PromoChance         float64                     `mapstructure:"promo_chance" json:"promo_chance"`
	LoyaltyChance       float64                     `mapstructure:"loyalty_chance" json:"loyalty_chance"`
	KnownCustomerChance float64                     `mapstructure:"known_customer_chance" json:"known_customer_chance"`
	AgeGroups           map[string]int              `mapstructure:"age_groups" json:"age_groups"`
	PeakHours           map[int]int                 `mapstructure:"peak_hours" json:"peak_hours"`
	PrepTimes           map[string]PrepTimeRange    `mapstructure:"prep_times" json:"prep_times"`

	Output     string `mapstructure:"output"`
	OutputPath string `mapstructure:"output_path"`

	PostgresConnString string `mapstructure:"postgres_conn_string"`
	KafkaBrokerList    string `mapstructure:"kafka_broker_list"`
	S3Bucket           string `mapstructure:"s3_bucket"`
	S3Region           string `mapstructure:"s3_region"`
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is not an error: the built-in defaults describe a working café.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	config.applyFallbacks()
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("seed", 42)
	viper.SetDefault("regen_seed", 42)
	viper.SetDefault("rows", 500)
	viper.SetDefault("spread_days", 60)
	viper.SetDefault("start_date", time.Now().AddDate(0, -2, 0).Format(time.RFC3339))
	viper.SetDefault("promo_chance", 30)
	viper.SetDefault("loyalty_chance", 60)
	viper.SetDefault("known_customer_chance", 70)
	viper.SetDefault("output", "console")
	viper.SetDefault("output_path", "output")
}

// applyFallbacks fills the table-valued settings a config file usually omits.
func (cfg *Config) applyFallbacks() {
	def := DefaultConfig()
	if len(cfg.Categories) == 0 {
		cfg.Categories = def.Categories
	}
	if len(cfg.AgeGroups) == 0 {
		cfg.AgeGroups = def.AgeGroups
	}
	if len(cfg.PeakHours) == 0 {
		cfg.PeakHours = def.PeakHours
	}
	if len(cfg.PrepTimes) == 0 {
		cfg.PrepTimes = def.PrepTimes
	}
	if cfg.StartDate.IsZero() {
		cfg.StartDate = def.StartDate
	}
}

// DefaultConfig returns the built-in café: seven categories with their price
// bands, cost percents and demand elasticities.
func DefaultConfig() *Config {
	return &Config{
		Seed:       42,
		RegenSeed:  42,
		Rows:       500,
		SpreadDays: 60,
		StartDate:  time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
		Categories: map[string]CategorySettings{
			"coffee": {MinPrice: 150, MaxPrice: 300, CostPct: 30, Elasticity: -1.2,
				Dishes: []string{"Cappuccino", "Latte", "Americano", "Espresso", "Raf", "Flat White", "Mocha"}},
			"bakery": {MinPrice: 80, MaxPrice: 180, CostPct: 30, Elasticity: -1.0,
				Dishes: []string{"Croissant", "Muffin", "Cookie", "Bagel", "Cinnamon Roll"}},
			"dessert": {MinPrice: 200, MaxPrice: 400, CostPct: 35, Elasticity: -0.8,
				Dishes: []string{"Tiramisu", "Cheesecake", "Brownie", "Macaron", "Eclair", "Panna Cotta", "Honey Cake"}},
			"sandwich": {MinPrice: 250, MaxPrice: 450, CostPct: 40, Elasticity: -1.5,
				Dishes: []string{"Chicken Sandwich", "Club Sandwich", "Veggie Sandwich", "Salmon Sandwich"}},
			"beverage": {MinPrice: 120, MaxPrice: 220, CostPct: 33, Elasticity: -1.3,
				Dishes: []string{"Lemonade", "Smoothie", "Iced Coffee", "Virgin Mojito", "Cocoa"}},
			"tea": {MinPrice: 100, MaxPrice: 200, CostPct: 30, Elasticity: -1.1,
				Dishes: []string{"Green Tea", "Mint Tea", "Black Tea", "Fruit Tea"}},
			"snack": {MinPrice: 180, MaxPrice: 350, CostPct: 38, Elasticity: -1.4,
				Dishes: []string{"Caesar Salad", "Cream Soup", "Quesadilla", "Greek Salad"}},
		},
		PromoChance:         30,
		LoyaltyChance:       60,
		KnownCustomerChance: 70,
		AgeGroups:           map[string]int{"18-24": 25, "25-34": 40, "35-44": 25, "45-54": 10},
		PeakHours: map[int]int{
			8: 2, 9: 5, 10: 4, 11: 6, 12: 8, 13: 7,
			14: 4, 15: 3, 16: 4, 17: 5, 18: 4, 19: 2,
		},
		PrepTimes: map[string]PrepTimeRange{
			"coffee":   {Min: 2, Max: 5},
			"bakery":   {Min: 1, Max: 3},
			"dessert":  {Min: 3, Max: 6},
			"sandwich": {Min: 5, Max: 10},
			"beverage": {Min: 2, Max: 4},
			"tea":      {Min: 1, Max: 3},
			"snack":    {Min: 4, Max: 8},
		},
		Output:     "console",
		OutputPath: "output",
	}
}

// CategoryNames returns the configured categories in a stable order so seeded
// sampling stays reproducible across runs.
func (cfg *Config) CategoryNames() []string {
	names := make([]string, 0, len(cfg.Categories))
	for name := range cfg.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasCategory reports whether the category is part of the menu configuration.
func (cfg *Config) HasCategory(name string) bool {
	_, ok := cfg.Categories[name]
	return ok
}

// ScaleCategoryPrices multiplies the category's price band by (1+pct/100),
// rounding to the nearest whole price. Returns false for unknown categories
// and leaves the configuration untouched.
func (cfg *Config) ScaleCategoryPrices(category string, pct float64) bool {
	settings, ok := cfg.Categories[category]
	if !ok {
		return false
	}
	factor := 1 + pct/100
	settings.MinPrice = int(math.Round(float64(settings.MinPrice) * factor))
	settings.MaxPrice = int(math.Round(float64(settings.MaxPrice) * factor))
	cfg.Categories[category] = settings
	return true
}

// BoostPromoChance raises the promo probability by delta percentage points,
// clamped to [0, 100].
func (cfg *Config) BoostPromoChance(delta float64) {
	cfg.PromoChance = clampChance(cfg.PromoChance + delta)
}

// BoostLoyaltyChance raises the loyalty-card probability by delta percentage
// points, clamped to [0, 100].
func (cfg *Config) BoostLoyaltyChance(delta float64) {
	cfg.LoyaltyChance = clampChance(cfg.LoyaltyChance + delta)
}

func clampChance(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Snapshot returns the serializable view persisted after every applied change.
func (cfg *Config) Snapshot() map[string]any {
	return map[string]any{
		"categories":            cfg.Categories,
		"promo_chance":          cfg.PromoChance,
		"loyalty_chance":        cfg.LoyaltyChance,
		"known_customer_chance": cfg.KnownCustomerChance,
		"age_groups":            cfg.AgeGroups,
		"saved_at":              time.Now().Format(time.RFC3339),
	}
}
