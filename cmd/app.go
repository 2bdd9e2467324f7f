package cmd

import (
	"time"

	"github.com/redis/go-redis/v9"

	"hn-gems/internal/analyzer"
	"hn-gems/internal/config"
	"hn-gems/internal/github"
	"hn-gems/internal/hackernews"
	"hn-gems/internal/monitor"
	"hn-gems/internal/redisclient"
	"hn-gems/internal/store"
	"hn-gems/internal/sweep"
)

// app bundles the explicitly constructed services. There are no
// package-level singletons; every job receives what it needs from
// here.
type app struct {
	cfg      config.Config
	store    *store.Store
	source   *hackernews.Client
	github   *github.Client
	redis    *redis.Client
	analyzer *analyzer.Analyzer
	sweeper  *sweep.Sweeper
	monitor  *monitor.Monitor
}

// newApp wires the service graph from configuration.
func newApp(cfg config.Config) (*app, error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	rdb := redisclient.New(cfg.Redis)

	cacheTTL, err := time.ParseDuration(cfg.GitHub.CacheTTL)
	if err != nil {
		cacheTTL = 6 * time.Hour
	}
	gh := github.NewClient(cfg.GitHub.BaseAPI, cfg.GitHub.Token, rdb, cacheTTL)

	src := hackernews.NewClient(cfg.HN.BaseAPI)
	an := &analyzer.Analyzer{Repos: gh}

	return &app{
		cfg:      cfg,
		store:    st,
		source:   src,
		github:   gh,
		redis:    rdb,
		analyzer: an,
		sweeper:  sweep.New(src, st, an, cfg.Sweep),
		monitor:  monitor.New(src, st, cfg.Monitor.SuccessThreshold),
	}, nil
}

func (a *app) close() {
	_ = a.github.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.store.Close()
}
