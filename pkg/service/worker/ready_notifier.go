package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
)

// ReadyMessage is posted when the daily lock expires
const ReadyMessage = "A new memory is waiting in the jar."

// StatusSource reports the daily gate state
type StatusSource interface {
	Status(ctx context.Context) (model.DailyStatus, error)
}

// ReadyNotifier watches the daily lock and sends a message when it expires.
//
// Only transitions observed by this process are reported: a lock that
// expires while the server is down is not announced on startup.
type ReadyNotifier struct {
	status   StatusSource
	notifier interfaces.Notifier
	interval time.Duration

	mu         sync.Mutex
	wasLocked  bool
	stopOnce   sync.Once
	stopCh     chan struct{}
	doneCh     chan struct{}
	startedRun bool
}

// NewReadyNotifier creates a new worker polling status every interval
func NewReadyNotifier(status StatusSource, notifier interfaces.Notifier, interval time.Duration) *ReadyNotifier {
	return &ReadyNotifier{
		status:   status,
		notifier: notifier,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background polling loop
func (w *ReadyNotifier) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("notify interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Ready notifier starting", "interval", w.interval.String())

	w.mu.Lock()
	w.startedRun = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ReadyNotifier) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})

	w.mu.Lock()
	started := w.startedRun
	w.mu.Unlock()
	if started {
		<-w.doneCh
	}
	logging.Default().Info("Ready notifier stopped")
}

func (w *ReadyNotifier) run(ctx context.Context) {
	defer close(w.doneCh)

	// First observation only records the state
	if locked, err := w.locked(ctx); err == nil {
		w.mu.Lock()
		w.wasLocked = locked
		w.mu.Unlock()
	} else {
		logging.Default().Error("Ready notifier status check failed (will retry next interval)", "error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.check(ctx); err != nil {
				logging.Default().Error("Ready notifier check failed (will retry next interval)", "error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *ReadyNotifier) locked(ctx context.Context) (bool, error) {
	status, err := w.status.Status(ctx)
	if err != nil {
		return false, goerr.Wrap(err, "failed to get daily status")
	}
	return status.IsLocked, nil
}

// check performs one poll and notifies on a locked to unlocked transition
func (w *ReadyNotifier) check(ctx context.Context) error {
	locked, err := w.locked(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	expired := w.wasLocked && !locked
	w.wasLocked = locked
	w.mu.Unlock()

	if !expired {
		return nil
	}

	if err := w.notifier.Notify(ctx, ReadyMessage); err != nil {
		return goerr.Wrap(err, "failed to send ready notification")
	}
	logging.Default().Info("Ready notification sent")
	return nil
}
