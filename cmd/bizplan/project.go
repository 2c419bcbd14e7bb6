package main

import (
	"fmt"
	"io"

	"github.com/kingrea/bizplan/internal/config"
	"github.com/kingrea/bizplan/internal/draft"
	"github.com/kingrea/bizplan/internal/logbook"
	"github.com/kingrea/bizplan/internal/planner"
	"github.com/kingrea/bizplan/internal/summary"
)

// project bundles everything a headless command needs.
type project struct {
	cfg     *config.Config
	log     *logbook.Logbook
	store   *draft.Store
	ledger  *summary.Ledger
	client  *summary.Client
	session *planner.Session
	closer  io.Closer
}

func openProject(projectDir *string) (*project, error) {
	dir, err := resolveProject(*projectDir)
	if err != nil {
		return nil, err
	}
	if err := config.InitDir(dir); err != nil {
		return nil, fmt.Errorf("init .bizplan: %w", err)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return nil, err
	}
	backend, closer, err := draft.OpenBackend(cfg)
	if err != nil {
		return nil, err
	}
	store := draft.NewStore(backend, lb)
	ledger := summary.NewLedger(cfg.UsageLedgerPath(), lb)
	client := summary.FromConfig(cfg, ledger)
	session := planner.Open(store, planner.WithSummarizer(client), planner.WithLogbook(lb))
	return &project{
		cfg:     cfg,
		log:     lb,
		store:   store,
		ledger:  ledger,
		client:  client,
		session: session,
		closer:  closer,
	}, nil
}

func (p *project) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
