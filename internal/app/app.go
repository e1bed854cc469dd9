package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"riad/internal/application/usecases/intake"
	"riad/internal/application/usecases/prearrival"
	"riad/internal/config"
	"riad/internal/domain/bookings"
	"riad/internal/email"
	"riad/internal/infrastructure/event_publisher"
	"riad/internal/interfaces/events"
	"riad/internal/interfaces/http"
	"riad/internal/observability"
	"riad/internal/repository"
	"riad/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger    zerolog.Logger
	router    *message.Router
	srv       *http.Server
	transport event_publisher.Transport
	scheduler *scheduler.Daily

	Intake     *intake.Usecase
	PreArrival *prearrival.Job
}

func NewApp(
	watermillLogger watermill.LoggerAdapter,
	cfg config.Config,
	deps Deps,
) (*App, error) {
	var (
		transport event_publisher.Transport
		err       error
	)
	if deps.Redis != nil {
		transport, err = event_publisher.NewRedisTransport(deps.Redis, watermillLogger)
		if err != nil {
			return nil, fmt.Errorf("redis transport: %w", err)
		}
	} else {
		transport = event_publisher.NewGoChannelTransport(watermillLogger)
	}

	eventBus, err := events.NewEventBus(
		observability.PublisherWithTracing{Publisher: transport.Publisher},
		watermillLogger,
	)
	if err != nil {
		return nil, err
	}

	dispatcher := email.NewDispatcher(deps.Sender, email.Config{
		From:           cfg.EmailFrom,
		OperatorEmail:  cfg.OperatorEmail,
		ArrivalFormURL: cfg.ArrivalFormURL,
		AdminURL:       dashboardURL(cfg.DashboardURL),
		Location:       cfg.Location,
	})
	guestsRepo := repository.NewGuestsRepo(deps.Sheets, cfg.GuestsSheet)

	intakeUsecase := intake.NewUsecase(
		guestsRepo,
		dispatcher,
		repository.NewIntakeKeys(deps.Redis),
		eventBus,
		bookings.NewIDGenerator(nil),
	)
	preArrivalJob := prearrival.NewJob(
		guestsRepo,
		dispatcher,
		repository.NewReminderLedger(deps.Redis),
		eventBus,
		prearrival.Config{
			Days:     cfg.PreArrivalDays,
			Location: cfg.Location,
		},
	)

	router, err := events.NewRouter(watermillLogger)
	if err != nil {
		return nil, err
	}

	processor, err := events.NewEventProcessor(router, transport, watermillLogger)
	if err != nil {
		return nil, err
	}
	err = processor.AddHandlers(
		events.BookkeepingAlertHandler(dispatcher),
		events.ReminderLogHandler(),
	)
	if err != nil {
		return nil, err
	}

	srv := http.NewServer(
		commonHTTP.NewEcho(),
		http.Config{
			Addr:         cfg.HTTPAddr,
			CronSecret:   cfg.CronSecret,
			DashboardURL: cfg.DashboardURL,
		},
		intakeUsecase,
		preArrivalJob,
		router.IsRunning,
	)

	a := &App{
		logger:     zerolog.New(os.Stdout).With().Timestamp().Str("service", "riad").Logger(),
		router:     router,
		srv:        srv,
		transport:  transport,
		Intake:     intakeUsecase,
		PreArrival: preArrivalJob,
	}
	if cfg.PreArrivalSchedule {
		a.scheduler = scheduler.NewDaily(preArrivalJob, cfg.RunAt, cfg.Location)
	}

	return a, nil
}

func (a *App) Handler() *http.Server {
	return a.srv
}

func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting router")

		return a.router.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().Msg("router is running")

		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	if a.scheduler != nil {
		g.Go(func() error {
			select {
			case <-a.router.Running():
			case <-ctx.Done():
				return nil
			}
			a.logger.Info().Msg("starting pre-arrival scheduler")

			return a.scheduler.Run(ctx)
		})
	}

	g.Go(func() error {
		// Shut down
		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := a.srv.Stop(stopCtx)
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		return errors.Join(err, a.transport.Close())
	})

	// Will block until all goroutines finish
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases the event transport when the app was used without Run.
func (a *App) Close() error {
	return a.transport.Close()
}

func dashboardURL(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}
