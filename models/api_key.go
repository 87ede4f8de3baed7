package models

type CreateAPIKeyRequest struct {
	Name        string           `json:"name"`
	Description Optional[string] `json:"description,omitzero"`
}

type APIKey struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Key         string `json:"key,omitempty"` // only returned on creation
	CreatedAt   string `json:"created_at,omitempty"`

	Raw
}
