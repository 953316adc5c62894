package customers

import (
	"context"
	"sync"
	"time"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
)

const saveTimeout = 5 * time.Second

// Saver writes contact snapshots on a dedicated worker goroutine. Failures
// go to the saver's own error channel and the log; they never reach the
// checkout path that enqueued the snapshot.
type Saver struct {
	repo customerRepository
	logg *logger.Logger

	jobs chan models.CustomerInfo
	errs chan error

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// NewSaver builds a saver with the given queue depth.
func NewSaver(repo customerRepository, logg *logger.Logger, buffer int) *Saver {
	if buffer < 1 {
		buffer = 16
	}
	return &Saver{
		repo: repo,
		logg: logg,
		jobs: make(chan models.CustomerInfo, buffer),
		errs: make(chan error, buffer),
		done: make(chan struct{}),
	}
}

// Start launches the worker goroutine. Safe to call once.
func (s *Saver) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Enqueue hands a snapshot to the worker without blocking. A full queue drops
// the snapshot; the save is best-effort by contract.
func (s *Saver) Enqueue(info models.CustomerInfo) bool {
	select {
	case s.jobs <- info:
		return true
	default:
		s.logg.Warn(context.Background(), "customer info queue full, snapshot dropped")
		return false
	}
}

// Errors exposes the worker's error channel for observers.
func (s *Saver) Errors() <-chan error {
	return s.errs
}

// Close stops accepting work and waits for the worker to drain the queue.
func (s *Saver) Close() {
	s.closeOnce.Do(func() {
		close(s.jobs)
		<-s.done
	})
}

func (s *Saver) run() {
	defer close(s.done)
	for info := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := s.repo.Create(ctx, &info)
		cancel()
		if err != nil {
			s.logg.Error(context.Background(), "customer info save failed", err)
			select {
			case s.errs <- err:
			default:
			}
		}
	}
}
