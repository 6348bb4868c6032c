package testutil

import (
	"io"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
