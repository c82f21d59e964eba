package logging

import (
	"log"
	"strings"

	"go.uber.org/zap"
)

// Init installs the process-wide zap logger. Development gets the
// console encoder, everything else structured JSON. The returned
// cleanup flushes buffered entries and is safe to defer from main.
func Init(appEnv string) (*zap.Logger, func()) {
	var (
		logger *zap.Logger
		err    error
	)
	if appEnv == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	cleanup := func() {
		if err := logger.Sync(); err != nil && !isIgnorableSyncError(err) {
			log.Printf("failed to sync logger: %v", err)
		}
	}
	return logger, cleanup
}

// Syncing to a terminal fails with ENOTTY on some platforms; that is
// not worth reporting at shutdown.
func isIgnorableSyncError(err error) bool {
	return strings.Contains(err.Error(), "inappropriate ioctl for device")
}
