package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Walver-io/walver-sdk-go/models"
	"github.com/spf13/cobra"
)

func newVerificationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verification",
		Short: "Manage wallet verifications",
	}
	cmd.AddCommand(newVerificationCreateCmd(a))
	return cmd
}

type verificationFlags struct {
	file         string
	id           string
	serviceName  string
	chain        string
	internalID   string
	webhook      string
	expiration   string
	secret       string
	redirectURL  string
	oneTime      bool
	folderID     string
	customFields []string
	tokenGate    bool
	tokenAddress string
	tokenAmount  float64
	isNFT        bool
	force        []string
}

func newVerificationCreateCmd(a *app) *cobra.Command {
	f := &verificationFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a verification link",
		Example: `  walver verification create --id drop-42 --service-name Acme --chain ethereum --folder-id f1
  walver verification create --file request.json --expiration 2025-12-31T00:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}

			verification, err := client.CreateVerification(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), verification)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.file, "file", "", "JSON file with the verification request, flags override its values")
	flags.StringVar(&f.id, "id", "", "unique verification ID")
	flags.StringVar(&f.serviceName, "service-name", "", "service name shown to the wallet owner")
	flags.StringVar(&f.chain, "chain", "", "blockchain network, e.g. ethereum or solana")
	flags.StringVar(&f.internalID, "internal-id", "", "your own reference for the verification")
	flags.StringVar(&f.webhook, "webhook", "", "https:// URL receiving verification results")
	flags.StringVar(&f.expiration, "expiration", "", "expiration time, RFC 3339")
	flags.StringVar(&f.secret, "secret", "", "secret used to sign webhook deliveries")
	flags.StringVar(&f.redirectURL, "redirect-url", "", "URL the wallet owner is sent to afterwards")
	flags.BoolVar(&f.oneTime, "one-time", false, "allow the link to be used only once")
	flags.StringVar(&f.folderID, "folder-id", "", "folder the verification belongs to")
	flags.StringArrayVar(&f.customFields, "custom-field", nil, `custom field, a type ("email") or a JSON object; repeatable`)
	flags.BoolVar(&f.tokenGate, "token-gate", false, "require the wallet to hold a token")
	flags.StringVar(&f.tokenAddress, "token-address", "", "token contract address for token gating")
	flags.Float64Var(&f.tokenAmount, "token-amount", 0, "minimum token amount for token gating")
	flags.BoolVar(&f.isNFT, "is-nft", false, "the gating token is an NFT")
	flags.StringSliceVar(&f.force, "force", nil, "channels that must be verified: email, telegram, twitter, telephone, discord")

	return cmd
}

func (f *verificationFlags) request(cmd *cobra.Command) (models.VerificationRequest, error) {
	var req models.VerificationRequest
	if f.file != "" {
		b, err := os.ReadFile(f.file)
		if err != nil {
			return req, fmt.Errorf("failed to read request file: %w", err)
		}
		if err := json.Unmarshal(b, &req); err != nil {
			return req, fmt.Errorf("failed to parse request file: %w", err)
		}
	}

	changed := cmd.Flags().Changed
	if changed("id") {
		req.ID = f.id
	}
	if changed("service-name") {
		req.ServiceName = f.serviceName
	}
	if changed("chain") {
		req.Chain = f.chain
	}
	if changed("internal-id") {
		req.InternalID = models.Some(f.internalID)
	}
	if changed("webhook") {
		req.Webhook = models.Some(f.webhook)
	}
	if changed("expiration") {
		req.Expiration = models.Some(parseExpiration(f.expiration))
	}
	if changed("secret") {
		req.Secret = models.Some(f.secret)
	}
	if changed("redirect-url") {
		req.RedirectURL = models.Some(f.redirectURL)
	}
	if changed("one-time") {
		req.OneTime = f.oneTime
	}
	if changed("folder-id") {
		req.FolderID = models.Some(f.folderID)
	}
	if changed("token-gate") {
		req.TokenGate = f.tokenGate
	}
	if changed("token-address") {
		req.TokenAddress = models.Some(f.tokenAddress)
	}
	if changed("token-amount") {
		req.TokenAmount = models.Some(f.tokenAmount)
	}
	if changed("is-nft") {
		req.IsNFT = f.isNFT
	}

	for _, raw := range f.customFields {
		field, err := parseCustomField(raw)
		if err != nil {
			return req, err
		}
		req.CustomFields = append(req.CustomFields, field)
	}

	for _, channel := range f.force {
		switch strings.ToLower(strings.TrimSpace(channel)) {
		case models.FieldTypeEmail:
			req.ForceEmailVerification = true
		case models.FieldTypeTelegram:
			req.ForceTelegramVerification = true
		case models.FieldTypeTwitter:
			req.ForceTwitterVerification = true
		case models.FieldTypeTelephone:
			req.ForceTelephoneVerification = true
		case models.FieldTypeDiscord:
			req.ForceDiscordVerification = true
		default:
			return req, fmt.Errorf("%v is not a verifiable channel", channel)
		}
	}

	if req.ID == "" || req.ServiceName == "" || req.Chain == "" {
		return req, fmt.Errorf("id, service-name and chain are required")
	}
	return req, nil
}

// parseExpiration normalizes RFC 3339 input and passes anything else through.
func parseExpiration(s string) models.Expiration {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.ExpiresAt(t)
	}
	return models.ExpiresAtString(s)
}

// parseCustomField accepts a bare type name or a JSON object with a "type".
func parseCustomField(raw string) (models.CustomField, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return models.NewCustomField(raw, nil), nil
	}

	var field models.CustomField
	if err := json.Unmarshal([]byte(raw), &field); err != nil {
		return models.CustomField{}, fmt.Errorf("failed to parse custom field %q: %w", raw, err)
	}
	return field, nil
}
