package experiment

import (
	"context"
	"time"
)

// Run drives the Session in its own goroutine, ticking once per
// Interval until ctx is done or a tick fails. After every command, and
// after every tick taken while training or running, a Snapshot is sent
// on the returned channel, which is closed when Run stops. Commands
// received on commands are applied between ticks; a rejected command is
// logged and otherwise ignored.
//
// The Session must not be used by the caller while Run is active.
func (s *Session) Run(ctx context.Context,
	commands <-chan Command) <-chan Snapshot {
	out := make(chan Snapshot)

	go func() {
		defer close(out)

		interval := s.Interval()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		emit := func() bool {
			select {
			case out <- s.Snapshot():
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case c, ok := <-commands:
				if !ok {
					commands = nil
					continue
				}
				if err := s.Apply(c); err != nil {
					s.logger.Printf("run: %v", err)
				}
				if !emit() {
					return
				}

			case <-ticker.C:
				if !s.training && !s.running {
					continue
				}
				if err := s.Tick(); err != nil {
					s.logger.Printf("run: %v", err)
					return
				}
				if !emit() {
					return
				}
			}

			if next := s.Interval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}()

	return out
}
