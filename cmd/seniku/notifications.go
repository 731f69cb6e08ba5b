package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/config"
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"
)

// notificationWatcher prints every unread notification once.
type notificationWatcher struct {
	app  *app
	lock sync.Mutex
	seen map[string]bool
}

func newNotificationWatcher(a *app) *notificationWatcher {
	return &notificationWatcher{app: a, seen: map[string]bool{}}
}

// poll returns the number of new notifications that were printed.
func (w *notificationWatcher) poll(ctx context.Context) (int, error) {
	unread := false
	page, err := w.app.api.Notifications.List(ctx, models.NotificationFilter{IsRead: &unread, Limit: 50})
	if err != nil {
		return 0, err
	}
	w.lock.Lock()
	defer w.lock.Unlock()
	printed := 0
	for _, n := range page.Data {
		if w.seen[n.ID] {
			continue
		}
		w.seen[n.ID] = true
		fmt.Fprintf(w.app.out, "[%s] %s: %s\n", n.Type, n.Title, n.Message)
		printed++
	}
	return printed, nil
}

func (w *notificationWatcher) run(ctx context.Context, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var fatal error
	var fatalOnce sync.Once

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	_, err := s.Every(interval).Do(func() {
		_, err := w.poll(ctx)
		if err == nil {
			return
		}
		slog.Error("NOTIFICATIONS", "message", "polling notifications failed", "error", err)
		if apierrors.IsSessionExpired(err) {
			fatalOnce.Do(func() {
				fatal = err
				cancel()
			})
		}
	})
	if err != nil {
		return err
	}

	w.app.handler.HandleChanges(func(cfg config.Config, err error) {
		if err != nil {
			slog.Error("NOTIFICATIONS", "message", "reloading the configuration failed", "error", err)
			return
		}
		w.app.applyLogLevel(cfg)
	})
	w.app.handler.Watch()

	s.StartAsync()
	<-ctx.Done()
	s.Stop()
	return fatal
}

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification", "notif"},
		Short:   "Read and manage notifications",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			return a.requireLogin(cmd.Context())
		},
	}

	filter := models.NotificationFilter{}
	var unreadOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if unreadOnly {
				isRead := false
				filter.IsRead = &isRead
			}
			page, err := a.api.Notifications.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().IntVar(&filter.Page, "page", 1, "page number")
	list.Flags().IntVar(&filter.Limit, "limit", 10, "page size")
	list.Flags().StringVar(&filter.Type, "type", "", "filter by notification type")
	list.Flags().BoolVar(&unreadOnly, "unread", false, "only unread notifications")

	unread := &cobra.Command{
		Use:   "unread",
		Short: "Print the number of unread notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := a.api.Notifications.UnreadCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, count)
			return nil
		},
	}

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.api.Notifications.MarkRead(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(n)
		},
	}

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark all notifications as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := a.api.Notifications.MarkAllRead(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Marked %d notification(s) as read\n", count)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.api.Notifications.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted notification %s\n", args[0])
			return nil
		},
	}

	var interval time.Duration
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print new unread notifications until interrupted",
		Long: `Print new unread notifications until interrupted.

The configuration file is watched while running, changing debugMode takes effect immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval < time.Second {
				return fmt.Errorf("the interval must be at least one second")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return newNotificationWatcher(a).run(ctx, interval)
		},
	}
	watch.Flags().DurationVar(&interval, "interval", 30*time.Second, "polling interval")

	cmd.AddCommand(list, unread, read, readAll, del, watch)
	return cmd
}
