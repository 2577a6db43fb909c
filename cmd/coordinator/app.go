package main

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"clinic-shifts/internal/clock"
	"clinic-shifts/internal/config"
	"clinic-shifts/internal/db"
	"clinic-shifts/internal/export"
	"clinic-shifts/internal/logging"
	"clinic-shifts/internal/reconcile"
	"clinic-shifts/internal/registration"
	"clinic-shifts/internal/sheets"
	"clinic-shifts/internal/shifts"
	"clinic-shifts/internal/store"
)

// app wires configuration, storage, the gateway and the engines together
// for every command.
type app struct {
	cfg config.Config
	log *zap.Logger
	db  *sql.DB

	reconcile *reconcile.Engine
	shifts    *shifts.Engine
	export    *export.Engine
	reg       *registration.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	conn, err := db.Connect(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	repo := store.NewPostgresStore(conn)
	gateway := sheets.NewGateway(cfg.Sheets)
	clk := clock.System{}

	return &app{
		cfg:       cfg,
		log:       log,
		db:        conn,
		reconcile: reconcile.NewEngine(gateway, repo, repo, repo, repo, clk, log.Named("reconcile")),
		shifts:    shifts.NewEngine(repo, repo, clk, log.Named("shifts")),
		export:    export.NewEngine(repo, repo, gateway, clk),
		reg:       registration.NewService(repo, gateway, log.Named("registration")),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
	a.log.Sync()
}
