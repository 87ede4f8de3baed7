package models

// VerificationRequest is the input to CreateVerification. ID, ServiceName and
// Chain are required; every Optional field that is left unset is omitted from
// the request sent to Walver. Boolean flags default to false and CustomFields
// to an empty list.
type VerificationRequest struct {
	ID          string `json:"id"`           // caller chosen, must be unique per creator
	ServiceName string `json:"service_name"` // shown to the wallet owner
	Chain       string `json:"chain"`        // e.g. "ethereum", "solana"

	InternalID  Optional[string]     `json:"internal_id,omitzero"`
	Webhook     Optional[string]     `json:"webhook,omitzero"` // must be https://
	Expiration  Optional[Expiration] `json:"expiration,omitzero"`
	Secret      Optional[string]     `json:"secret,omitzero"` // signs webhook deliveries
	RedirectURL Optional[string]     `json:"redirect_url,omitzero"`
	OneTime     bool                 `json:"one_time"`
	FolderID    Optional[string]     `json:"folder_id,omitzero"`

	CustomFields []CustomField `json:"custom_fields"`

	TokenGate    bool              `json:"token_gate"`
	TokenAddress Optional[string]  `json:"token_address,omitzero"`
	TokenAmount  Optional[float64] `json:"token_amount,omitzero"`
	IsNFT        bool              `json:"is_nft"`

	ForceEmailVerification     bool `json:"force_email_verification"`
	ForceTelegramVerification  bool `json:"force_telegram_verification"`
	ForceTwitterVerification   bool `json:"force_twitter_verification"`
	ForceTelephoneVerification bool `json:"force_telephone_verification"`
	ForceDiscordVerification   bool `json:"force_discord_verification"`
}
