package config

import "testing"

func TestFillDefaults(t *testing.T) {
	var cfg Config
	cfg.FillDefaults()

	if cfg.App.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.App.LogLevel)
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path empty")
	}
	if cfg.Sweep.IntervalMinutes != 5 || cfg.Sweep.WindowMinutes != 60 {
		t.Errorf("sweep cadence = %d/%d", cfg.Sweep.IntervalMinutes, cfg.Sweep.WindowMinutes)
	}
	if cfg.Sweep.KarmaThreshold != 100 || cfg.Sweep.MinInterestScore != 0.3 {
		t.Errorf("classification thresholds = %d/%v", cfg.Sweep.KarmaThreshold, cfg.Sweep.MinInterestScore)
	}
	if cfg.Monitor.IntervalHours != 6 || cfg.Monitor.SuccessThreshold != 100 {
		t.Errorf("monitor = %d/%d", cfg.Monitor.IntervalHours, cfg.Monitor.SuccessThreshold)
	}
}

func TestFillDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Sweep.WindowMinutes = 120
	cfg.Monitor.SuccessThreshold = 250
	cfg.FillDefaults()

	if cfg.Sweep.WindowMinutes != 120 {
		t.Errorf("WindowMinutes = %d", cfg.Sweep.WindowMinutes)
	}
	if cfg.Monitor.SuccessThreshold != 250 {
		t.Errorf("SuccessThreshold = %d", cfg.Monitor.SuccessThreshold)
	}
}
