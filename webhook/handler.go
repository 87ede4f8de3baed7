package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Walver-io/walver-sdk-go/models"
)

const maxBodyBytes = 1 << 20

const (
	ERR_READ_BODY          = "failed to read request body"
	ERR_INVALID_EVENT      = "request body is not a valid webhook event"
	ERR_MISSING_ID         = "webhook event has no id"
	ERR_DELIVERY_STORE     = "failed to record delivery"
	ERR_HANDLER_FAILED     = "failed to handle webhook event"
	ERR_METHOD_NOT_ALLOWED = "method not allowed"
)

// EventHandler processes a verified, first-seen webhook event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event models.WebhookEvent) error
}

type EventHandlerFunc func(ctx context.Context, event models.WebhookEvent) error

func (f EventHandlerFunc) HandleEvent(ctx context.Context, event models.WebhookEvent) error {
	return f(ctx, event)
}

// Handler is the http.Handler receiving Walver webhook deliveries.
type Handler struct {
	verifier SignatureVerifier
	store    DeliveryStore
	handler  EventHandler
	metrics  *Metrics
	logger   *slog.Logger
}

type HandlerOption func(*Handler)

// WithDeliveryStore enables replay protection.
func WithDeliveryStore(store DeliveryStore) HandlerOption {
	return func(h *Handler) { h.store = store }
}

func WithMetrics(metrics *Metrics) HandlerOption {
	return func(h *Handler) { h.metrics = metrics }
}

func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

func NewHandler(verifier SignatureVerifier, handler EventHandler, opts ...HandlerOption) *Handler {
	h := &Handler{
		verifier: verifier,
		handler:  handler,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "webhook")
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.reject(w, http.StatusMethodNotAllowed, outcomeMethodNotAllowed, ERR_METHOD_NOT_ALLOWED)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer func() {
		if err := r.Body.Close(); err != nil {
			h.logger.Warn("failed to close request body", "error", err)
		}
	}()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, http.StatusRequestEntityTooLarge, outcomeMalformed, ERR_READ_BODY)
			return
		}
		h.reject(w, http.StatusBadRequest, outcomeMalformed, ERR_READ_BODY)
		return
	}

	if err := h.verifier.Verify(r.Header, body); err != nil {
		h.logger.Warn("Rejected webhook delivery", "error", err)
		h.reject(w, http.StatusUnauthorized, outcomeInvalidSignature, ErrInvalidSignature.Error())
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.reject(w, http.StatusBadRequest, outcomeMalformed, ERR_INVALID_EVENT)
		return
	}
	if event.ID == "" {
		h.reject(w, http.StatusBadRequest, outcomeMalformed, ERR_MISSING_ID)
		return
	}

	ctx := r.Context()
	if h.store != nil {
		first, err := h.store.MarkDelivered(ctx, event.ID)
		if err != nil {
			h.logger.Error(ERR_DELIVERY_STORE, "id", event.ID, "error", err)
			h.reject(w, http.StatusInternalServerError, outcomeFailed, ERR_DELIVERY_STORE)
			return
		}
		if !first {
			h.logger.Info("Duplicate webhook delivery acknowledged", "id", event.ID, "type", event.Type)
			h.acknowledge(w, outcomeDuplicate)
			return
		}
	}

	if err := h.handler.HandleEvent(ctx, event); err != nil {
		h.logger.Error(ERR_HANDLER_FAILED, "id", event.ID, "type", event.Type, "error", err)
		// let the sender's redelivery be processed
		if h.store != nil {
			if forgetErr := h.store.Forget(ctx, event.ID); forgetErr != nil {
				h.logger.Error("failed to forget delivery", "id", event.ID, "error", forgetErr)
			}
		}
		h.reject(w, http.StatusInternalServerError, outcomeFailed, ERR_HANDLER_FAILED)
		return
	}

	h.logger.Info("Webhook event handled", "id", event.ID, "type", event.Type, "verification_id", event.VerificationID)
	h.acknowledge(w, outcomeDelivered)
}

func (h *Handler) acknowledge(w http.ResponseWriter, outcome string) {
	h.metrics.observe(outcome)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true}, h.logger)
}

func (h *Handler) reject(w http.ResponseWriter, status int, outcome, message string) {
	h.metrics.observe(outcome)
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("error:%s", message)}, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write body to http response", "error", err)
	}
}
