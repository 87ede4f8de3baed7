package walver

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Walver-io/walver-sdk-go/models"
	"github.com/stretchr/testify/require"
)

func baseRequest() models.VerificationRequest {
	return models.VerificationRequest{
		ID:          "v1",
		ServiceName: "Acme",
		Chain:       "ETH",
	}
}

func verificationResponse() map[string]any {
	return map[string]any{"id": "v1", "url": "https://walver.io/verify/v1"}
}

func TestCreateVerification_FolderOnly(t *testing.T) {
	server := newFakeWalver(t, http.StatusOK, verificationResponse())
	client := newTestClient(t, server.URL)

	req := baseRequest()
	req.FolderID = models.Some("f1")

	verification, err := client.CreateVerification(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "https://walver.io/verify/v1", verification.URL)
	require.JSONEq(t, `{"id":"v1","url":"https://walver.io/verify/v1"}`, string(verification.RawJSON()))

	sent := server.onlyRequest(t)
	require.Equal(t, http.MethodPost, sent.Method)
	require.Equal(t, "/new", sent.Path)

	body := sent.decodedBody(t)
	require.Equal(t, "v1", body["id"])
	require.Equal(t, "Acme", body["service_name"])
	require.Equal(t, "ETH", body["chain"])
	require.Equal(t, "f1", body["folder_id"])
	require.NotContains(t, body, "webhook")

	// defaults are always sent
	require.Equal(t, false, body["one_time"])
	require.Equal(t, false, body["token_gate"])
	require.Equal(t, false, body["is_nft"])
	require.Equal(t, []any{}, body["custom_fields"])
	for _, flag := range []string{
		"force_email_verification",
		"force_telegram_verification",
		"force_twitter_verification",
		"force_telephone_verification",
		"force_discord_verification",
	} {
		require.Equal(t, false, body[flag], flag)
	}
}

func TestCreateVerification_UnsetFieldsAreAbsent(t *testing.T) {
	server := newFakeWalver(t, http.StatusOK, verificationResponse())
	client := newTestClient(t, server.URL)

	req := baseRequest()
	req.FolderID = models.Some("f1")
	req.RedirectURL = models.Some("") // provided, even though empty

	_, err := client.CreateVerification(context.Background(), req)
	require.NoError(t, err)

	body := server.onlyRequest(t).decodedBody(t)
	for _, key := range []string{"internal_id", "webhook", "expiration", "secret", "token_address", "token_amount"} {
		require.NotContains(t, body, key)
	}
	require.Contains(t, body, "redirect_url")
	require.Equal(t, "", body["redirect_url"])
	for key, value := range body {
		require.NotNil(t, value, "key %s was sent as null", key)
	}
}

func TestCreateVerification_AllFields(t *testing.T) {
	server := newFakeWalver(t, http.StatusOK, verificationResponse())
	client := newTestClient(t, server.URL)

	req := baseRequest()
	req.InternalID = models.Some("order-42")
	req.Webhook = models.Some("https://hooks.example.com/walver")
	req.Secret = models.Some("s3cret")
	req.RedirectURL = models.Some("https://example.com/done")
	req.OneTime = true
	req.FolderID = models.Some("f1")
	req.TokenGate = true
	req.TokenAddress = models.Some("0xToken")
	req.TokenAmount = models.Some(1.5)
	req.IsNFT = true
	req.ForceEmailVerification = true
	req.CustomFields = []models.CustomField{
		models.NewCustomField(models.FieldTypeEmail, map[string]any{"label": "Email"}),
	}

	_, err := client.CreateVerification(context.Background(), req)
	require.NoError(t, err)

	body := server.onlyRequest(t).decodedBody(t)
	require.Equal(t, "order-42", body["internal_id"])
	require.Equal(t, "https://hooks.example.com/walver", body["webhook"])
	require.Equal(t, "s3cret", body["secret"])
	require.Equal(t, "https://example.com/done", body["redirect_url"])
	require.Equal(t, true, body["one_time"])
	require.Equal(t, true, body["token_gate"])
	require.Equal(t, "0xToken", body["token_address"])
	require.Equal(t, 1.5, body["token_amount"])
	require.Equal(t, true, body["is_nft"])
	require.Equal(t, true, body["force_email_verification"])
	require.Equal(t, []any{map[string]any{"type": "email", "label": "Email"}}, body["custom_fields"])
}

func TestCreateVerification_Expiration(t *testing.T) {
	tests := []struct {
		name       string
		expiration models.Expiration
		expected   string
	}{
		{
			name:       "time value is normalized to UTC ISO-8601",
			expiration: models.ExpiresAt(time.Date(2025, time.January, 31, 13, 30, 0, 0, time.FixedZone("CET", 3600))),
			expected:   "2025-01-31T12:30:00.000Z",
		},
		{
			name:       "milliseconds are kept",
			expiration: models.ExpiresAt(time.Date(2025, time.March, 1, 0, 0, 0, 250*int(time.Millisecond), time.UTC)),
			expected:   "2025-03-01T00:00:00.250Z",
		},
		{
			name:       "string is passed through",
			expiration: models.ExpiresAtString("2030-06-15T00:00:00+02:00"),
			expected:   "2030-06-15T00:00:00+02:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newFakeWalver(t, http.StatusOK, verificationResponse())
			client := newTestClient(t, server.URL)

			req := baseRequest()
			req.FolderID = models.Some("f1")
			req.Expiration = models.Some(tt.expiration)

			_, err := client.CreateVerification(context.Background(), req)
			require.NoError(t, err)

			body := server.onlyRequest(t).decodedBody(t)
			require.Equal(t, tt.expected, body["expiration"])
		})
	}
}

func TestCreateVerification_ValidationErrors(t *testing.T) {
	emailField := models.NewCustomField(models.FieldTypeEmail, nil)

	tests := []struct {
		name    string
		mutate  func(r *models.VerificationRequest)
		field   string
		message string
	}{
		{
			name:    "neither folder nor webhook",
			mutate:  func(r *models.VerificationRequest) {},
			field:   "folder_id",
			message: "either folder_id or webhook must be provided",
		},
		{
			name: "empty folder and webhook count as missing",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("")
				r.Webhook = models.Some("")
			},
			field:   "folder_id",
			message: "either folder_id or webhook must be provided",
		},
		{
			name: "plain http webhook",
			mutate: func(r *models.VerificationRequest) {
				r.Webhook = models.Some("http://example.com")
			},
			field:   "webhook",
			message: "webhook must be a valid https:// URL",
		},
		{
			name: "webhook scheme is case sensitive",
			mutate: func(r *models.VerificationRequest) {
				r.Webhook = models.Some("HTTPS://example.com")
			},
			field:   "webhook",
			message: "webhook must be a valid https:// URL",
		},
		{
			name: "token gate without address",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.TokenGate = true
				r.TokenAmount = models.Some(10.0)
			},
			field:   "token_gate",
			message: "token_address and token_amount are required when token_gate is true",
		},
		{
			name: "token gate without amount",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.TokenGate = true
				r.TokenAddress = models.Some("0xToken")
			},
			field:   "token_gate",
			message: "token_address and token_amount are required when token_gate is true",
		},
		{
			name: "token gate with zero amount",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.TokenGate = true
				r.TokenAddress = models.Some("0xToken")
				r.TokenAmount = models.Some(0.0)
			},
			field:   "token_gate",
			message: "token_address and token_amount are required when token_gate is true",
		},
		{
			name: "token gate with empty address",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.TokenGate = true
				r.TokenAddress = models.Some("")
				r.TokenAmount = models.Some(1.0)
			},
			field:   "token_gate",
			message: "token_address and token_amount are required when token_gate is true",
		},
		{
			name: "force email without custom fields",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.ForceEmailVerification = true
			},
			field:   "force_email_verification",
			message: `custom_fields must contain a field of type "email" when force_email_verification is true`,
		},
		{
			name: "force telegram with other field types only",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.ForceTelegramVerification = true
				r.CustomFields = []models.CustomField{emailField}
			},
			field:   "force_telegram_verification",
			message: `custom_fields must contain a field of type "telegram" when force_telegram_verification is true`,
		},
		{
			name: "force twitter",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.ForceTwitterVerification = true
				r.CustomFields = []models.CustomField{emailField}
			},
			field:   "force_twitter_verification",
			message: `custom_fields must contain a field of type "twitter" when force_twitter_verification is true`,
		},
		{
			name: "force telephone",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.ForceTelephoneVerification = true
			},
			field:   "force_telephone_verification",
			message: `custom_fields must contain a field of type "telephone" when force_telephone_verification is true`,
		},
		{
			name: "force discord",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.ForceDiscordVerification = true
				r.CustomFields = []models.CustomField{emailField}
			},
			field:   "force_discord_verification",
			message: `custom_fields must contain a field of type "discord" when force_discord_verification is true`,
		},
		{
			name: "first failing check wins",
			mutate: func(r *models.VerificationRequest) {
				r.Webhook = models.Some("http://example.com")
				r.TokenGate = true
				r.ForceEmailVerification = true
			},
			field:   "webhook",
			message: "webhook must be a valid https:// URL",
		},
		{
			name: "token gate checked before force flags",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.TokenGate = true
				r.ForceDiscordVerification = true
			},
			field:   "token_gate",
			message: "token_address and token_amount are required when token_gate is true",
		},
		{
			name: "force flags checked in order",
			mutate: func(r *models.VerificationRequest) {
				r.FolderID = models.Some("f1")
				r.ForceDiscordVerification = true
				r.ForceTwitterVerification = true
			},
			field:   "force_twitter_verification",
			message: `custom_fields must contain a field of type "twitter" when force_twitter_verification is true`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newFakeWalver(t, http.StatusOK, verificationResponse())
			client := newTestClient(t, server.URL)

			req := baseRequest()
			tt.mutate(&req)

			verification, err := client.CreateVerification(context.Background(), req)
			require.Error(t, err)
			require.Nil(t, verification)
			require.ErrorIs(t, err, ErrValidation)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			require.Equal(t, tt.field, validationErr.Field)
			require.Equal(t, tt.message, validationErr.Error())

			require.Empty(t, server.recorded(), "no request may be sent for an invalid verification")
		})
	}
}

func TestCreateVerification_ForceFlagsSatisfied(t *testing.T) {
	server := newFakeWalver(t, http.StatusOK, verificationResponse())
	client := newTestClient(t, server.URL)

	req := baseRequest()
	req.FolderID = models.Some("f1")
	req.ForceEmailVerification = true
	req.ForceTelegramVerification = true
	req.ForceTwitterVerification = true
	req.ForceTelephoneVerification = true
	req.ForceDiscordVerification = true
	req.CustomFields = []models.CustomField{
		models.NewCustomField(models.FieldTypeDiscord, nil),
		models.NewCustomField(models.FieldTypeTelephone, map[string]any{"required": true}),
		models.NewCustomField(models.FieldTypeTwitter, nil),
		models.NewCustomField(models.FieldTypeTelegram, nil),
		models.NewCustomField(models.FieldTypeEmail, map[string]any{"label": "Work email"}),
	}

	_, err := client.CreateVerification(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, server.recorded(), 1)
}

func TestCreateVerification_WebhookWithoutSecretWarns(t *testing.T) {
	server := newFakeWalver(t, http.StatusOK, verificationResponse())
	logger, logs := bufferLogger()

	client, err := New(Config{APIKey: testAPIKey, BaseURL: server.URL, Logger: logger})
	require.NoError(t, err)

	req := baseRequest()
	req.Webhook = models.Some("https://hooks.example.com/walver")

	_, err = client.CreateVerification(context.Background(), req)
	require.NoError(t, err)
	require.Contains(t, logs.String(), "level=WARN")
	require.Contains(t, logs.String(), "signing webhook deliveries is highly recommended")

	body := server.onlyRequest(t).decodedBody(t)
	require.Equal(t, "https://hooks.example.com/walver", body["webhook"])
	require.NotContains(t, body, "secret")
	require.NotContains(t, body, "folder_id")
}

func TestCreateVerification_WebhookWithSecretDoesNotWarn(t *testing.T) {
	server := newFakeWalver(t, http.StatusOK, verificationResponse())
	logger, logs := bufferLogger()

	client, err := New(Config{APIKey: testAPIKey, BaseURL: server.URL, Logger: logger})
	require.NoError(t, err)

	req := baseRequest()
	req.Webhook = models.Some("https://hooks.example.com/walver")
	req.Secret = models.Some("s3cret")

	_, err = client.CreateVerification(context.Background(), req)
	require.NoError(t, err)
	require.NotContains(t, logs.String(), "level=WARN")
}

func TestCreateVerification_DuplicateID(t *testing.T) {
	server := newFakeWalver(t, http.StatusConflict, `{"detail":"exists"}`)
	client := newTestClient(t, server.URL)

	req := baseRequest()
	req.FolderID = models.Some("f1")

	_, err := client.CreateVerification(context.Background(), req)
	require.ErrorIs(t, err, ErrDuplicateID)
	require.EqualError(t, err, "ID for the verification already exists. Choose another ID.")

	var dupErr *DuplicateIDError
	require.True(t, errors.As(err, &dupErr))
	require.Len(t, server.recorded(), 1)
}

func TestCreateVerification_UnexpectedResponseShapeStillSucceeds(t *testing.T) {
	response := `{"id":123,"url":"https://walver.io/verify/123"}`
	server := newFakeWalver(t, http.StatusOK, response)
	client := newTestClient(t, server.URL)

	req := baseRequest()
	req.FolderID = models.Some("f1")

	verification, err := client.CreateVerification(context.Background(), req)
	require.NoError(t, err, "the verification was created, a response shape mismatch must not hide that")
	require.Equal(t, "https://walver.io/verify/123", verification.URL)
	require.Empty(t, verification.ID)
	require.JSONEq(t, response, string(verification.RawJSON()))
	require.Len(t, server.recorded(), 1)
}

func TestCreateVerification_EmptyResponseBody(t *testing.T) {
	server := newFakeWalver(t, http.StatusCreated, nil)
	client := newTestClient(t, server.URL)

	req := baseRequest()
	req.FolderID = models.Some("f1")

	verification, err := client.CreateVerification(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, verification)
	require.Empty(t, verification.RawJSON())
}

func TestCreateVerification_OtherErrorsPassThrough(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := newFakeWalver(t, status, `{"detail":"nope"}`)
			client := newTestClient(t, server.URL)

			req := baseRequest()
			req.FolderID = models.Some("f1")

			_, err := client.CreateVerification(context.Background(), req)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrDuplicateID)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, status, apiErr.StatusCode)
			require.JSONEq(t, `{"detail":"nope"}`, string(apiErr.Body))
		})
	}
}

func TestCreateVerification_NetworkErrorPassesThrough(t *testing.T) {
	server := newFakeWalver(t, http.StatusOK, verificationResponse())
	client := newTestClient(t, server.URL)
	server.Close()

	req := baseRequest()
	req.FolderID = models.Some("f1")

	_, err := client.CreateVerification(context.Background(), req)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicateID)
	require.NotErrorIs(t, err, ErrValidation)
}

func TestBuildVerificationPayload_DoesNotMutateInput(t *testing.T) {
	req := baseRequest()
	at := time.Date(2025, time.May, 5, 5, 5, 5, 0, time.UTC)
	req.Expiration = models.Some(models.ExpiresAt(at))

	payload := buildVerificationPayload(req)

	exp, ok := req.Expiration.Get()
	require.True(t, ok)
	got, isTime := exp.Time()
	require.True(t, isTime)
	require.Equal(t, at, got)

	normalized, ok := payload.Expiration.Get()
	require.True(t, ok)
	_, isTime = normalized.Time()
	require.False(t, isTime)
	require.Equal(t, "2025-05-05T05:05:05.000Z", normalized.String())
	require.NotNil(t, payload.CustomFields)
	require.Nil(t, req.CustomFields)
}
