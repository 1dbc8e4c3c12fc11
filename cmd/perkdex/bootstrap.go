package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/perkdex/internal/config"
	dbRedis "github.com/kailas-cloud/perkdex/internal/db/redis"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/domain/search/request"
	"github.com/kailas-cloud/perkdex/internal/logger"
	fssource "github.com/kailas-cloud/perkdex/internal/source/fs"
	redissource "github.com/kailas-cloud/perkdex/internal/source/redis"
	cataloguc "github.com/kailas-cloud/perkdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/perkdex/internal/usecase/health"
)

// deps is the wired application graph shared by every command.
type deps struct {
	env     string
	cfg     config.Config
	log     *zap.Logger
	catalog *cataloguc.Service

	// fs is set for the fs driver; the watcher needs its directory and filter.
	fs *fssource.Source
	// pinger is the remote store behind the source, nil for fs.
	pinger healthuc.SourcePinger

	closers []func()
}

func bootstrap(c *cli.Context) (*deps, error) {
	env := c.String("env")

	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dir := c.String("dir"); dir != "" {
		cfg.Source.Dir = dir
	}

	level := cfg.Logging.Level
	if l := c.String("log-level"); l != "" {
		level = l
	}
	log, err := logger.NewLogger(env, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	d := &deps{env: env, cfg: cfg, log: log}
	src, err := d.source(c.Context)
	if err != nil {
		d.close()
		return nil, err
	}

	d.catalog = cataloguc.New(src, request.Defaults{
		TopK:    cfg.Search.DefaultTopK,
		MaxTopK: cfg.Search.MaxTopK,
		Mode:    mode.Mode(cfg.Search.Strategy),
	}, log)
	return d, nil
}

func (d *deps) source(ctx context.Context) (cataloguc.Source, error) {
	sc := d.cfg.Source
	switch sc.Driver {
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    sc.Redis.Addrs,
			Username: sc.Redis.Username,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		d.closers = append(d.closers, store.Close)

		timeout := time.Duration(sc.Redis.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		d.log.Info("Connected to redis", zap.Strings("addrs", sc.Redis.Addrs))
		d.pinger = store
		return redissource.New(store, sc.Redis.KeyPrefix, d.log), nil
	default:
		d.fs = fssource.New(fssource.Config{
			Dir:        sc.Dir,
			Extensions: sc.Extensions,
			Workers:    sc.Workers,
		}, d.log)
		return d.fs, nil
	}
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	_ = d.log.Sync()
}
