package app

import (
	"context"
	"io"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/suxatcode/mindtree/db"
	"github.com/suxatcode/mindtree/db/postgres"
	"github.com/suxatcode/mindtree/internal/controller"
	"github.com/suxatcode/mindtree/layout"
)

type Config struct {
	Production bool `env:"PRODUCTION" envDefault:"false"`
	// Levels are {trace, debug, info, warn, error, fatal, panic}.
	// See github.com/rs/zerolog@v1.19.0/log.go for possible values.
	LogLevel string `env:"LOGLEVEL" envDefault:"info"`
}

func GetEnvConfig() Config {
	conf := Config{}
	env.Parse(&conf)
	return conf
}

// SetupLogging configures the global zerolog logger. Outside of production
// the output is human readable.
func SetupLogging(conf Config, w io.Writer) {
	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		println("failed to parse LogLevel: '" + conf.LogLevel + "', setting to debug")
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	if conf.Production {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
}

// RetryAtIntervals calls fn until it succeeds, sleeping intervals[i] after
// the i-th failure. The last interval repeats.
func RetryAtIntervals(ctx context.Context, fn func() error, intervals []time.Duration) error {
	err := fn()
	i := 0
	for err != nil {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "giving up, last error: %v", err)
		case <-time.After(intervals[i]):
		}
		if i < len(intervals)-1 {
			i++
		}
		err = fn()
	}
	return nil
}

var connectIntervals = []time.Duration{
	1 * time.Second,
	5 * time.Second,
	5 * time.Second,
	10 * time.Second,
}

// ConnectDB connects to postgres, retrying until ctx is done.
func ConnectDB(ctx context.Context, conf db.Config) (db.DB, error) {
	var (
		backend db.DB
		err     error
	)
	retryErr := RetryAtIntervals(ctx, func() error {
		backend, err = postgres.NewPostgresDB(conf)
		if err != nil {
			log.Error().Msgf("failed to connect to DB: %v", err)
		}
		return err
	}, connectIntervals)
	return backend, retryErr
}

// Setup wires the database and the layouter from the environment. Logging is
// expected to be set up already. The returned function stops all running
// re-arrangements.
func Setup(ctx context.Context) (*controller.Controller, func(), error) {
	layoutConf, err := layout.GetEnvConfig()
	if err != nil {
		return nil, nil, err
	}
	dbconf := db.GetEnvConfig()
	log.Info().Msgf("Config: {host: %s, port: %d, database: %s}", dbconf.PGHost, dbconf.PGPort, dbconf.PGDatabase)
	backend, err := ConnectDB(ctx, dbconf)
	if err != nil {
		return nil, nil, err
	}
	layouter := controller.NewForceSimulationLayouter(layoutConf, nil)
	return controller.NewController(backend, layouter, layoutConf), layouter.Close, nil
}
