package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"cancel-flow-be/internal/config"
	"cancel-flow-be/pkg/events"
	"cancel-flow-be/pkg/flowevents"
	pktNats "cancel-flow-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	eventType string
	durable   string
)

var rootCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail cancellation flow events from NATS JetStream",
	Long: `Print flow events as the relay forwards them to JetStream.
Requires the server to run with EVENT_BUS=nats.

Examples:
  events                                  # Every event type
  events --type DOWNSELL_ACCEPTED         # One type only
  events --durable audit                  # Resume a named consumer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		subject := pktNats.Subject(">")
		if eventType != "" {
			subject = pktNats.Subject(eventType)
		}

		if err := sub.Subscribe(ctx, subject, durable, printEvent); err != nil {
			return err
		}

		color.Cyan("Listening on %s (Ctrl+C to stop)", subject)
		<-ctx.Done()
		return nil
	},
}

func printEvent(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return err
	}

	header := color.New(color.FgGreen, color.Bold)
	if event.EventType() == flowevents.TypeDownsellDeclined {
		header = color.New(color.FgYellow, color.Bold)
	}
	header.Printf("%s ", event.Timestamp().Format("15:04:05"))
	header.Printf("%-28s", event.EventType())
	color.White(" %s", data)
	return nil
}

func init() {
	rootCmd.Flags().StringVar(&eventType, "type", "", "only show this event type")
	rootCmd.Flags().StringVar(&durable, "durable", "", "durable consumer name (default: ephemeral, new events only)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
