package config

import (
	"context"
	"fmt"
	"strings"
)

// Validate rejects configs that would break the pipeline at runtime.
// It is installed as the Manager's validator so a bad edit never replaces a
// working config.
func Validate(_ context.Context, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if _, err := ParseDurationField("dispatch.phase_timeout", cfg.Dispatch.PhaseTimeout); err != nil {
		return err
	}
	if cfg.Dispatch.Attempts < 0 {
		return fmt.Errorf("dispatch.attempts: must be >= 0")
	}
	if cfg.Dispatch.RatePerSec < 0 {
		return fmt.Errorf("dispatch.rate_per_sec: must be >= 0")
	}
	if cfg.Notification.PriorityIDAdd < 0 {
		return fmt.Errorf("notification.priority_id_add: must be >= 0")
	}
	if u := strings.TrimSpace(cfg.Dispatch.APIBaseURL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("dispatch.api_base_url: must start with http:// or https://")
	}
	return nil
}
