package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanConfig describes the subscription catalog an operator sells:
// which plan durations are valid and which channel packages exist.
type PlanConfig struct {
	Durations []int         `mapstructure:"durations"`
	Packages  []PackageSpec `mapstructure:"packages"`
}

type PackageSpec struct {
	Name        string `mapstructure:"name"`
	MonthlyRate int64  `mapstructure:"monthlyRate"`
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		Durations: []int{1, 3, 6, 12},
		Packages: []PackageSpec{
			{Name: "Basic HD Pack", MonthlyRate: 300},
			{Name: "Ultra HD Gold Pack", MonthlyRate: 450},
			{Name: "Premium Pack", MonthlyRate: 500},
		},
	}
}

type PlanConfigHolder struct {
	current atomic.Value // holds PlanConfig
}

// NewStaticPlanConfigHolder wraps a fixed catalog with no file watching.
// Used by tests and by callers that manage their own reloads.
func NewStaticPlanConfigHolder(cfg PlanConfig) *PlanConfigHolder {
	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewPlanConfigHolder() (*PlanConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/cablepro")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CABLEPRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlanConfig()
		v.SetDefault("plans.durations", defaults.Durations)
		v.SetDefault("plans.packages", defaults.Packages)
	}

	var cfg PlanConfig
	if err := v.UnmarshalKey("plans", &cfg); err != nil {
		return nil, err
	}
	if err := validatePlanConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlanConfig
		if err := v.UnmarshalKey("plans", &updated); err != nil {
			log.Printf("[plan-config] reload failed: %v", err)
			return
		}
		if err := validatePlanConfig(updated); err != nil {
			log.Printf("[plan-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plan-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PlanConfigHolder) Get() PlanConfig {
	return h.current.Load().(PlanConfig)
}

// ValidDuration reports whether a plan duration is part of the catalog.
func (h *PlanConfigHolder) ValidDuration(months int) bool {
	for _, d := range h.Get().Durations {
		if d == months {
			return true
		}
	}
	return false
}

func validatePlanConfig(cfg PlanConfig) error {
	if len(cfg.Durations) == 0 {
		return errors.New("plans.durations cannot be empty")
	}
	for _, d := range cfg.Durations {
		if d <= 0 {
			return errors.New("plans.durations must be positive month counts")
		}
	}
	for _, p := range cfg.Packages {
		if strings.TrimSpace(p.Name) == "" || p.MonthlyRate <= 0 {
			return errors.New("plans.packages entries need a name and positive monthlyRate")
		}
	}
	return nil
}
