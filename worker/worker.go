package worker

import (
	"github.com/getsentry/sentry-go"
)

// Go runs f on a new goroutine and returns a channel closed once f returns. A panic in f is reported to
// sentry and ends the goroutine instead of the process.
func Go(f func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer sentry.Recover()

		f()
	}()
	return done
}
