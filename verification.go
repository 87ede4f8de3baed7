package walver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Walver-io/walver-sdk-go/models"
)

const newVerificationPath = "/new"

const missingSecretWarning = "webhook provided without a secret; signing webhook deliveries is highly recommended"

// CreateVerification validates req and creates a verification link. Invalid
// requests fail with a *ValidationError before anything is sent. A request
// whose ID is already taken fails with ErrDuplicateID; every other failure is
// returned as received from the transport.
func (c *Client) CreateVerification(ctx context.Context, req models.VerificationRequest) (*models.Verification, error) {
	payload := buildVerificationPayload(req)

	if err := validateVerification(payload, c.logger); err != nil {
		return nil, err
	}

	body, err := c.post(ctx, newVerificationPath, payload)
	if err != nil {
		if IsStatus(err, http.StatusConflict) {
			c.logger.Debug("Verification ID already exists", "id", req.ID)
			return nil, ErrDuplicateID
		}
		return nil, err
	}

	var verification models.Verification
	c.decodeInto(http.MethodPost, newVerificationPath, body, &verification)

	c.logger.Info("Verification created", "id", req.ID, "url", verification.URL)
	return &verification, nil
}

// buildVerificationPayload applies defaults and normalizes the expiration to
// an ISO-8601 string. Unset optional fields stay unset and are dropped when
// the payload is encoded.
func buildVerificationPayload(req models.VerificationRequest) models.VerificationRequest {
	payload := req

	if exp, ok := req.Expiration.Get(); ok {
		payload.Expiration = models.Some(models.ExpiresAtString(exp.String()))
	}
	if payload.CustomFields == nil {
		payload.CustomFields = []models.CustomField{}
	}

	return payload
}

type forceCheck struct {
	flag      string
	fieldType string
	enabled   bool
}

func forceChecks(req models.VerificationRequest) []forceCheck {
	return []forceCheck{
		{"force_email_verification", models.FieldTypeEmail, req.ForceEmailVerification},
		{"force_telegram_verification", models.FieldTypeTelegram, req.ForceTelegramVerification},
		{"force_twitter_verification", models.FieldTypeTwitter, req.ForceTwitterVerification},
		{"force_telephone_verification", models.FieldTypeTelephone, req.ForceTelephoneVerification},
		{"force_discord_verification", models.FieldTypeDiscord, req.ForceDiscordVerification},
	}
}

// validateVerification runs the checks in a fixed order and returns the first
// violation. A webhook without a secret is only logged.
func validateVerification(req models.VerificationRequest, logger *slog.Logger) error {
	folderID := req.FolderID.OrElse("")
	webhook := req.Webhook.OrElse("")

	if folderID == "" && webhook == "" {
		return &ValidationError{
			Field:   "folder_id",
			Message: "either folder_id or webhook must be provided",
		}
	}

	if webhook != "" && !strings.HasPrefix(webhook, "https://") {
		return &ValidationError{
			Field:   "webhook",
			Message: "webhook must be a valid https:// URL",
		}
	}

	if webhook != "" && req.Secret.OrElse("") == "" {
		logger.Warn(missingSecretWarning, "id", req.ID)
	}

	if req.TokenGate && (req.TokenAddress.OrElse("") == "" || req.TokenAmount.OrElse(0) == 0) {
		return &ValidationError{
			Field:   "token_gate",
			Message: "token_address and token_amount are required when token_gate is true",
		}
	}

	for _, check := range forceChecks(req) {
		if !check.enabled {
			continue
		}
		if len(req.CustomFields) == 0 || !models.HasFieldType(req.CustomFields, check.fieldType) {
			return &ValidationError{
				Field:   check.flag,
				Message: fmt.Sprintf("custom_fields must contain a field of type %q when %s is true", check.fieldType, check.flag),
			}
		}
	}

	return nil
}
