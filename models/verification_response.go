package models

// Verification is the response of /new.
type Verification struct {
	ID  string `json:"id"`
	URL string `json:"url"` // link to send to the wallet owner

	Raw
}

// Message is a generic acknowledgement returned by mutating endpoints.
type Message struct {
	Message string `json:"message,omitempty"`

	Raw
}
