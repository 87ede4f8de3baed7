package walver

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Walver-io/walver-sdk-go/models"
)

const foldersPath = "/creator/folders"

// CreateFolder creates a folder verifications can be grouped under.
func (c *Client) CreateFolder(ctx context.Context, req models.CreateFolderRequest) (*models.Folder, error) {
	body, err := c.post(ctx, foldersPath, req)
	if err != nil {
		return nil, err
	}

	var folder models.Folder
	c.decodeInto(http.MethodPost, foldersPath, body, &folder)
	return &folder, nil
}

// ListFolders returns every folder owned by the API key's creator.
func (c *Client) ListFolders(ctx context.Context) (*models.List[models.Folder], error) {
	body, err := c.get(ctx, foldersPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Folder](c, http.MethodGet, foldersPath, body), nil
}

// GetFolder returns a single folder.
func (c *Client) GetFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	path := folderPath(folderID)
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var folder models.Folder
	c.decodeInto(http.MethodGet, path, body, &folder)
	return &folder, nil
}

// ListFolderVerifications returns the verifications created in a folder.
func (c *Client) ListFolderVerifications(ctx context.Context, folderID string) (*models.List[models.FolderVerification], error) {
	path := folderPath(folderID) + "/verifications"
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.FolderVerification](c, http.MethodGet, path, body), nil
}

func folderPath(folderID string) string {
	return foldersPath + "/" + url.PathEscape(folderID)
}
