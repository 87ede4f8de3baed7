package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Walver-io/walver-sdk-go/models"
	"github.com/Walver-io/walver-sdk-go/webhook"
	"github.com/spf13/cobra"
)

func newWebhookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Receive webhook deliveries",
	}
	cmd.AddCommand(newWebhookServeCmd(a))
	return cmd
}

func newWebhookServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a server that verifies deliveries and prints each event as a JSON line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := buildWebhookServer(a, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, server)
		},
	}

	flags := cmd.Flags()
	flags.String("host", "0.0.0.0", "host to listen on")
	flags.Int("port", 8080, "port to listen on")
	flags.String("secret", "", "webhook secret (env WALVER_WEBHOOK_SECRET)")
	flags.String("signature-scheme", "hmac-sha256", "signature scheme: hmac-sha256 or jwt")
	flags.String("signature-header", webhook.SignatureHeader, "header carrying the delivery signature")
	flags.String("storage", "memory", "delivery storage: memory, redis or redis_sentinel")

	for key, flag := range map[string]string{
		"webhook.server_config.host": "host",
		"webhook.server_config.port": "port",
		"webhook.secret":             "secret",
		"webhook.signature_scheme":   "signature-scheme",
		"webhook.signature_header":   "signature-header",
		"webhook.storage_type":       "storage",
	} {
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

func buildWebhookServer(a *app, out io.Writer) (*webhook.Server, error) {
	config := a.config.Webhook

	verifier, err := webhook.NewSignatureVerifier(config.SignatureScheme, config.Secret, config.SignatureHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate signature verifier: %w", err)
	}

	store, err := createDeliveryStore(&config, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate delivery storage: %w", err)
	}

	metrics := webhook.NewMetrics()
	handler := webhook.NewHandler(verifier, newEventPrinter(out),
		webhook.WithDeliveryStore(store),
		webhook.WithMetrics(metrics),
		webhook.WithLogger(a.logger),
	)
	return webhook.NewServer(handler, metrics, config.ServerConfig), nil
}

// runServer serves until ctx is done, then shuts the server down.
func runServer(ctx context.Context, server *webhook.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to listen and serve: %w", err)
	case <-ctx.Done():
	}

	if err := server.Stop(); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type eventPrinter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newEventPrinter(out io.Writer) *eventPrinter {
	return &eventPrinter{enc: json.NewEncoder(out)}
}

func (p *eventPrinter) HandleEvent(_ context.Context, event models.WebhookEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enc.Encode(event)
}
