package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/resend/resend-go/v2"
	"google.golang.org/api/option"

	"riad/internal/config"
	"riad/internal/email"
	"riad/internal/infrastructure/clients"
	"riad/internal/repository"
)

// Deps are the outside-world collaborators. Tests replace them with mocks.
type Deps struct {
	Sheets repository.SheetClient
	Sender email.Sender

	// Redis is optional. Without it events stay in-process and only the
	// notes marker guards against duplicate reminders.
	Redis *redis.Client
}

// NewDeps connects the real clients described by cfg. The returned func
// releases them.
func NewDeps(ctx context.Context, cfg config.Config) (Deps, func(), error) {
	var opts []option.ClientOption
	if cfg.StoreEnabled() {
		ts, err := clients.ServiceAccountTokenSource(ctx, cfg.ServiceAccount)
		if err != nil {
			return Deps{}, nil, fmt.Errorf("google credentials: %w", err)
		}
		opts = append(opts, option.WithTokenSource(ts))
	}

	sheets, err := clients.NewSpreadsheetsClient(ctx, cfg.SpreadsheetID, opts...)
	if err != nil {
		return Deps{}, nil, err
	}

	deps := Deps{
		Sheets: sheets,
		Sender: clients.NewResendClient(resend.NewClient(cfg.ResendAPIKey)),
	}

	if cfg.RedisAddr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			_ = deps.Redis.Close()
			return Deps{}, nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	return deps, func() {
		if deps.Redis != nil {
			_ = deps.Redis.Close()
		}
	}, nil
}
