// Package walver is a Go client for the Walver wallet-verification API.
//
// A Client creates verification links, manages folders and manages API keys.
// Each method performs a single HTTPS request; nothing is retried or cached.
//
//	cfg, err := walver.ConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	client, err := walver.New(cfg)
//	if err != nil {
//	    return err
//	}
//	v, err := client.CreateVerification(ctx, models.VerificationRequest{
//	    ID:          "order-42",
//	    ServiceName: "Acme",
//	    Chain:       "ethereum",
//	    FolderID:    models.Some("f1"),
//	})
//
// # Errors
//
//   - [ConfigurationError]: no API key (matches [ErrMissingAPIKey]).
//   - [ValidationError]: the verification request was rejected locally (matches [ErrValidation]).
//   - [ErrDuplicateID]: Walver already has a verification with that ID.
//   - [APIError]: any other non-2xx response, with the body as received.
//
// Network errors are wrapped with %w and can be inspected with errors.Is.
package walver
