package ui

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// ErrTooManyRestarts is returned once the UI crashed more than maxRestarts times.
var ErrTooManyRestarts = errors.New("UI crashed too many times")

var errPanic = errors.New("UI panic")

// RecoveryHandler restarts the program with a fresh model after a panic.
// Any other error ends the run.
type RecoveryHandler struct {
	logger       *zap.Logger
	restartDelay time.Duration
	maxRestarts  int
	restarts     int
	newModel     func() (tea.Model, error)
	opts         []tea.ProgramOption
}

// NewRecoveryHandler creates a new recovery handler
func NewRecoveryHandler(logger *zap.Logger, newModel func() (tea.Model, error), opts ...tea.ProgramOption) *RecoveryHandler {
	return &RecoveryHandler{
		logger:       logger,
		restartDelay: time.Second,
		maxRestarts:  3,
		newModel:     newModel,
		opts:         opts,
	}
}

// Run runs the UI until it exits normally or crashes too often.
func (rh *RecoveryHandler) Run() error {
	for {
		err := rh.runOnce()
		// only a recovered panic is worth a restart; bubbletea reports panics
		// inside the model as ErrProgramPanic
		if !errors.Is(err, errPanic) && !errors.Is(err, tea.ErrProgramPanic) {
			return err
		}

		rh.restarts++
		if rh.restarts > rh.maxRestarts {
			return fmt.Errorf("%w (%d): %v", ErrTooManyRestarts, rh.maxRestarts, err)
		}

		rh.logger.Error("UI crashed, restarting",
			zap.Error(err),
			zap.Int("restart_count", rh.restarts),
			zap.Duration("delay", rh.restartDelay))
		time.Sleep(rh.restartDelay)
	}
}

func (rh *RecoveryHandler) runOnce() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
			rh.logger.Error("UI panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	model, err := rh.newModel()
	if err != nil {
		return fmt.Errorf("failed to build model: %w", err)
	}

	if _, err := tea.NewProgram(model, rh.opts...).Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}
