package di

import (
	"context"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/the-user01/Study-Platform-Server/apps/api/echo"
	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/auth"
	"github.com/the-user01/Study-Platform-Server/core/booking"
	"github.com/the-user01/Study-Platform-Server/core/material"
	"github.com/the-user01/Study-Platform-Server/core/note"
	"github.com/the-user01/Study-Platform-Server/core/payment"
	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/core/user"
	emailsvc "github.com/the-user01/Study-Platform-Server/services/email"
	logsvc "github.com/the-user01/Study-Platform-Server/services/logger"
	"github.com/the-user01/Study-Platform-Server/services/metrics"
	paymentsvc "github.com/the-user01/Study-Platform-Server/services/payment"
	"github.com/the-user01/Study-Platform-Server/storage/database"
	inmemdb "github.com/the-user01/Study-Platform-Server/storage/database/inmem"
	mongorepos "github.com/the-user01/Study-Platform-Server/storage/database/mongo"
)

const (
	EngineMongo  = "mongo"
	EngineMemory = "memory"
)

type (
	// LoggerCloser flushes the application logger.
	LoggerCloser func()

	// StoreCloser releases the store connection.
	StoreCloser func(context.Context) error

	// StoreIndexer (re)creates the store indexes.
	StoreIndexer func(context.Context) error

	Repositories struct {
		dig.Out

		Users     user.Repository
		Sessions  session.Repository
		Materials material.Repository
		Notes     note.Repository
		Bookings  booking.Repository
		Closer    StoreCloser
		Indexer   StoreIndexer
	}

	serverParams struct {
		dig.In

		Conf        *core.Config
		Logger      core.Logger
		Validate    *validator.Validate
		Translator  ut.Translator
		Metrics     *metrics.Metrics
		Tokens      *auth.TokenService
		UserSvc     user.Service
		SessionSvc  session.Service
		MaterialSvc *material.Service
		NoteSvc     *note.Service
		BookingSvc  *booking.Service
		PaymentSvc  *payment.Service
	}
)

func newLogger(conf *core.Config) (core.Logger, LoggerCloser, error) {
	logger, closeFn, err := logsvc.New(conf)
	if err != nil {
		return nil, nil, errors.Wrap(err, "setting up logger")
	}
	return logger, closeFn, nil
}

// NewRepositories opens the store selected by database.engine.
func NewRepositories(conf *core.Config, logger core.Logger) (Repositories, error) {
	switch conf.Database.Engine {
	case EngineMemory:
		logger.Warn("using the in-memory store: data is lost on exit")
		db := inmemdb.Open()
		return Repositories{
			Users:     inmemdb.NewUserRepository(db),
			Sessions:  inmemdb.NewSessionRepository(db),
			Materials: inmemdb.NewMaterialRepository(db),
			Notes:     inmemdb.NewNoteRepository(db),
			Bookings:  inmemdb.NewBookingRepository(db),
			Closer:    func(context.Context) error { return nil },
			Indexer:   func(context.Context) error { return nil },
		}, nil

	case EngineMongo, "":
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()

		client, err := database.Open(ctx, conf)
		if err != nil {
			return Repositories{}, err
		}
		db := database.Database(client, conf)
		if err = database.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return Repositories{}, err
		}
		return Repositories{
			Users:     mongorepos.NewUserRepository(db),
			Sessions:  mongorepos.NewSessionRepository(db),
			Materials: mongorepos.NewMaterialRepository(db),
			Notes:     mongorepos.NewNoteRepository(db),
			Bookings:  mongorepos.NewBookingRepository(db),
			Closer:    client.Disconnect,
			Indexer:   func(ctx context.Context) error { return database.EnsureIndexes(ctx, db) },
		}, nil

	default:
		return Repositories{}, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newSessionFinder(svc session.Service) booking.SessionFinder { return svc }

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:        p.Conf,
		Logger:      p.Logger,
		Validate:    p.Validate,
		Translator:  p.Translator,
		Metrics:     p.Metrics,
		Tokens:      p.Tokens,
		UserSvc:     p.UserSvc,
		SessionSvc:  p.SessionSvc,
		MaterialSvc: p.MaterialSvc,
		NoteSvc:     p.NoteSvc,
		BookingSvc:  p.BookingSvc,
		PaymentSvc:  p.PaymentSvc,
	})
}

// New returns a new dependency injection dig.Container.
// configFn is provided in place of core.NewConfig when given.
func New(configFn ...func() *core.Config) *dig.Container {
	c := dig.New()

	newConfig := core.NewConfig
	if len(configFn) > 0 {
		newConfig = configFn[0]
	}

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(NewRepositories))
	must(c.Provide(emailsvc.New))
	must(c.Provide(paymentsvc.New))
	must(c.Provide(metrics.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(auth.NewTokenService))
	must(c.Provide(user.NewService))
	must(c.Provide(session.NewService))
	must(c.Provide(newSessionFinder))
	must(c.Provide(material.NewService))
	must(c.Provide(note.NewService))
	must(c.Provide(booking.NewService))
	must(c.Provide(payment.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
