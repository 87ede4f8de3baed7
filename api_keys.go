package walver

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Walver-io/walver-sdk-go/models"
)

const apiKeysPath = "/creator/api-keys"

// CreateAPIKey creates a new API key. The secret key value is only present in
// this response.
func (c *Client) CreateAPIKey(ctx context.Context, req models.CreateAPIKeyRequest) (*models.APIKey, error) {
	body, err := c.post(ctx, apiKeysPath, req)
	if err != nil {
		return nil, err
	}

	var key models.APIKey
	c.decodeInto(http.MethodPost, apiKeysPath, body, &key)
	return &key, nil
}

func (c *Client) ListAPIKeys(ctx context.Context) (*models.List[models.APIKey], error) {
	body, err := c.get(ctx, apiKeysPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.APIKey](c, http.MethodGet, apiKeysPath, body), nil
}

func (c *Client) DeleteAPIKey(ctx context.Context, apiKeyID string) (*models.Message, error) {
	path := apiKeysPath + "/" + url.PathEscape(apiKeyID)
	body, err := c.delete(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var msg models.Message
	c.decodeInto(http.MethodDelete, path, body, &msg)
	return &msg, nil
}
