package models

type CreateFolderRequest struct {
	Name         string           `json:"name"`
	Description  Optional[string] `json:"description,omitzero"`
	CustomFields []CustomField    `json:"custom_fields,omitempty"`
}

type Folder struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	CustomFields []CustomField `json:"custom_fields,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`

	Raw
}

// FolderVerification is a verification as listed under a folder.
type FolderVerification struct {
	ID            string `json:"id"`
	ServiceName   string `json:"service_name,omitempty"`
	Chain         string `json:"chain,omitempty"`
	Status        string `json:"status,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`

	Raw
}
