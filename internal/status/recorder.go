package status

import (
	"context"
	"os"
	"time"

	"github.com/ytbean/ubean/pkg/lifecycle"
	"github.com/ytbean/ubean/pkg/log"
)

// Recorder is a lifecycle.Listener that saves every committed transition.
// Save failures are logged and never affect the component.
type Recorder struct {
	repo   *FileRepository
	name   string
	pid    int
	logger log.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder writing the named component's status to repo.
func NewRecorder(repo *FileRepository, name string, logger log.Logger) *Recorder {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Recorder{
		repo:   repo,
		name:   name,
		pid:    os.Getpid(),
		logger: logger,
		now:    time.Now,
	}
}

// OnStateChange implements lifecycle.Listener.
func (r *Recorder) OnStateChange(previous, current lifecycle.State) {
	st := Status{
		Name:      r.name,
		State:     current.String(),
		Previous:  previous.String(),
		PID:       r.pid,
		ChangedAt: r.now().UTC(),
	}
	if err := r.repo.Save(context.Background(), st); err != nil {
		r.logger.Warn("failed to save status",
			log.String("path", r.repo.Path(r.name)),
			log.Err(err),
		)
	}
}

var _ lifecycle.Listener = (*Recorder)(nil)
