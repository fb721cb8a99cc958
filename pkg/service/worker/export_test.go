package worker

import "context"

// Check runs a single poll cycle
func (w *ReadyNotifier) Check(ctx context.Context) error {
	return w.check(ctx)
}
