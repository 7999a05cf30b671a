package logger

import (
	"log"
	"log/slog"
	"os"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the process logger: stdout in local, a log file
// otherwise, with debug level everywhere except prod.
func SetupLogger(env, logPath string) *slog.Logger {
	if env == envLocal {
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	} else if env != envDev {
		log.Fatal("invalid environment: ", env)
	}

	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatal("error opening log file: ", err)
	}
	log.Printf("env: %s; log file: %s", env, logPath)

	return slog.New(
		slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}),
	)
}
