package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/autopeer-io/rover/internal/pkg/mqtt/paths"
	"github.com/autopeer-io/rover/internal/rover/listener"
	"github.com/autopeer-io/rover/pkg/mqtt"
	"github.com/autopeer-io/rover/pkg/mqtt/topic"
)

type watchOptions struct {
	broker   string
	username string
	password string
	roots    []string
	timeout  time.Duration
}

func newWatchCommand() *cobra.Command {
	o := &watchOptions{
		broker:  "tcp://localhost:1883",
		roots:   []string{"a4jflight", "a4jland"},
		timeout: 5 * time.Second,
	}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow recorded movements and controller events live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.broker, "broker", o.broker, "Broker URL.")
	fs.StringVar(&o.username, "username", o.username, "Broker username.")
	fs.StringVar(&o.password, "password", o.password, "Broker password.")
	fs.StringSliceVar(&o.roots, "roots", o.roots, "Top-level topics to follow.")
	fs.DurationVar(&o.timeout, "connect-timeout", o.timeout, "How long to wait for the broker.")
	return cmd
}

func (o *watchOptions) run(ctx context.Context, out io.Writer) error {
	client, err := mqtt.NewClient(&mqtt.ClientConfig{
		BrokerURL:      o.broker,
		ClientID:       "flightlog-" + uuid.NewString()[:8],
		Username:       o.username,
		Password:       o.password,
		ConnectTimeout: o.timeout,
		CleanStart:     true,
	})
	if err != nil {
		return err
	}

	if err := client.Start(ctx); err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	connectCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := client.AwaitConnection(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", o.broker, err)
	}

	// Handlers run on their own goroutines.
	var mu sync.Mutex
	for _, root := range o.roots {
		topics := topic.NewBuilder(root)
		handler := func(_ context.Context, t string, payload []byte) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(out, describe(topics.Root(), t, payload))
		}
		if err := client.Subscribe(ctx, topics.All(), 0, handler); err != nil {
			return err
		}
	}

	<-ctx.Done()
	return nil
}

// describe renders one telemetry message received under root as a single line.
func describe(root, t string, payload []byte) string {
	rest, ok := strings.CutPrefix(t, root+"/")
	if !ok {
		return fmt.Sprintf("%-10s %s %s", "?", t, payload)
	}

	switch strings.SplitN(rest, "/", 2)[0] {
	case paths.Movement:
		return fmt.Sprintf("%-10s %s", paths.Movement, payload)
	case paths.Status:
		return fmt.Sprintf("%-10s %s %s", paths.Status, root, payload)
	case paths.Controller:
		e, err := listener.DecodeEvent(payload)
		if err != nil {
			return fmt.Sprintf("%-10s %s undecodable: %v", paths.Controller, t, err)
		}
		return fmt.Sprintf("%-10s %s %s %d", paths.Controller, e.Timestamp.Format(time.RFC3339Nano), e.Type, e.Value)
	}
	return fmt.Sprintf("%-10s %s %s", "?", t, payload)
}
