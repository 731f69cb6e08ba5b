package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/getsentry/sentry-go"
)

func main() {
	slog.SetDefault(jsonLogger)
	err := newRootCmd().Execute()
	if err != nil {
		if !apierrors.IsSessionExpired(err) && !errors.Is(err, errNotLoggedIn) {
			sentry.CaptureException(err)
		}
		sentry.Flush(2 * time.Second)
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		os.Exit(1)
	}
	sentry.Flush(2 * time.Second)
}

func userMessage(err error) string {
	if apierrors.IsSessionExpired(err) {
		return "your session has expired, please log in again with `seniku login`"
	}
	return err.Error()
}
