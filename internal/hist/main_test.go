package hist

import (
	"log/slog"
	"testing"

	"go.uber.org/goleak"

	"github.com/nan-1212/abipy/internal/logging"
)

// OpenRobot reads files on an errgroup; no reader may outlive it.
func TestMain(m *testing.M) {
	slog.SetDefault(logging.Discard())
	goleak.VerifyTestMain(m)
}
