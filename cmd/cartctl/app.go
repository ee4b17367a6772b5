package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/floating-cart/internal/cart"
	"github.com/nikolayk812/floating-cart/internal/config"
	"github.com/nikolayk812/floating-cart/internal/money"
	"github.com/nikolayk812/floating-cart/internal/port"
	"github.com/nikolayk812/floating-cart/internal/repository"
	"github.com/nikolayk812/floating-cart/internal/summary"
	"github.com/sirupsen/logrus"
)

// app is one device session: storage, the hydrated cart and its summary widget.
type app struct {
	log   logrus.FieldLogger
	store *cart.Store
	view  *summary.View

	closers []func()
}

func newApp(ctx context.Context, cfg config.Config, log logrus.FieldLogger, out io.Writer) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			a.closeStorage()
		}
	}()

	kv, err := a.openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("openStorage: %w", err)
	}

	a.store = cart.New(kv, cart.WithLogger(log), cart.WithKey(cfg.StorageKey))
	a.closers = append(a.closers, func() {
		if err := a.store.Close(context.Background()); err != nil {
			log.WithError(err).Warn("cart close failed")
		}
	})

	// a broken stored cart is logged by the store and the session starts empty
	if err := a.store.Load(ctx); err != nil && !errors.Is(err, cart.ErrPersistenceRead) {
		return nil, fmt.Errorf("store.Load: %w", err)
	}

	a.view, err = summary.New(a.store, money.NewFormatter(cfg.Locale), newConsoleNavigator(a.store, out),
		summary.WithCurrency(cfg.Currency))
	if err != nil {
		return nil, fmt.Errorf("summary.New: %w", err)
	}

	return a, nil
}

func (a *app) openStorage(ctx context.Context, cfg config.Config) (port.KeyValueStore, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		return repository.NewPostgres(pool)

	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.RedisAddr)
		if err != nil {
			opts = &redis.Options{Addr: cfg.RedisAddr}
		}

		client := redis.NewClient(opts)
		a.closers = append(a.closers, func() {
			_ = client.Close()
		})

		return repository.NewRedis(client)

	default:
		return repository.NewMemory(), nil
	}
}

// close flushes the cart and releases storage. The flush error is returned
// so the command can report that the cart was not saved.
func (a *app) close(ctx context.Context) error {
	var err error
	if a.store != nil {
		if flushErr := a.store.Flush(ctx); flushErr != nil {
			err = fmt.Errorf("store.Flush: %w", flushErr)
		}
	}
	if a.view != nil {
		a.view.Close()
	}

	a.closeStorage()

	return err
}

func (a *app) closeStorage() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
