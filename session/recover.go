package session

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/rewind/oerror"
	"github.com/sirupsen/logrus"
)

// recoverPanic recovers a panic in the calling goroutine, logs it and reports it to sentry tagged with
// the connection it happened on. It must be deferred directly.
func recoverPanic(log *logrus.Logger, connType, remote string) {
	v := recover()
	if v == nil {
		return
	}

	log.Errorf("%s panic (%s): %v", connType, remote, v)
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("conn_type", connType)
		scope.SetTag("remote", remote)
	})
	hub.Recover(oerror.New(fmt.Sprintf("%v", v)))
	hub.Flush(time.Second * 5)
}
