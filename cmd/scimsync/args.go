package scimsync

import (
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

type arguments struct {
	sourceURL    string
	sourceToken  string
	targetURL    string
	targetToken  string
	resource     string
	pageSize     int
	deleteOrphan bool
	logLevel     string
}

func newArgs() *arguments {
	return &arguments{}
}

func (a *arguments) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "source-url",
			Usage:       "Base URL of the source SCIM server",
			EnvVars:     []string{"SCIMSYNC_SOURCE_URL"},
			Required:    true,
			Destination: &a.sourceURL,
		},
		&cli.StringFlag{
			Name:        "source-token",
			Usage:       "Bearer token for the source SCIM server",
			EnvVars:     []string{"SCIMSYNC_SOURCE_TOKEN"},
			Destination: &a.sourceToken,
		},
		&cli.StringFlag{
			Name:        "target-url",
			Usage:       "Base URL of the target SCIM server",
			EnvVars:     []string{"SCIMSYNC_TARGET_URL"},
			Required:    true,
			Destination: &a.targetURL,
		},
		&cli.StringFlag{
			Name:        "target-token",
			Usage:       "Bearer token for the target SCIM server",
			EnvVars:     []string{"SCIMSYNC_TARGET_TOKEN"},
			Destination: &a.targetToken,
		},
		&cli.StringFlag{
			Name:        "resource",
			Usage:       "Resource collection to synchronize: `Users` or `Groups`",
			Value:       "Users",
			Destination: &a.resource,
		},
		&cli.IntFlag{
			Name:        "page-size",
			Usage:       "Number of resources requested per page",
			Value:       100,
			Destination: &a.pageSize,
		},
		&cli.BoolFlag{
			Name:        "delete-orphans",
			Usage:       "Delete target resources no longer present in the source",
			Destination: &a.deleteOrphan,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Logger output level to `[INFO|ERROR|DEBUG|WARN|FATAL]`",
			EnvVars:     []string{"LOG_LEVEL"},
			Value:       "INFO",
			Destination: &a.logLevel,
		},
	}
}

func (a *arguments) logger() zerolog.Logger {
	var level zerolog.Level
	switch a.logLevel {
	case "ERROR":
		level = zerolog.ErrorLevel
	case "DEBUG":
		level = zerolog.DebugLevel
	case "WARN":
		level = zerolog.WarnLevel
	case "FATAL":
		level = zerolog.FatalLevel
	default:
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()
}
