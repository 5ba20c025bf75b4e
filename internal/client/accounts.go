package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

// AccountsClient implements gerrit.AccountsClient.
type AccountsClient struct {
	client *Client
}

// NewAccountsClient creates a new accounts client.
func NewAccountsClient(client *Client) *AccountsClient {
	return &AccountsClient{
		client: client,
	}
}

// IsActive implements gerrit.AccountsClient.IsActive. It runs in read-only
// mode too.
func (c *AccountsClient) IsActive(ctx context.Context, accountID string) (bool, error) {
	if accountID == "" {
		return false, gerrit.ErrAccountIDRequired
	}

	path := fmt.Sprintf(constants.EndpointAccountActive, url.PathEscape(accountID))

	resp, err := c.client.do(c.client.httpClient.Get(ctx, path, nil))
	if err != nil {
		return false, fmt.Errorf("checking account status: %w", err)
	}

	return resp.StatusCode == constants.HTTPStatusOK, nil
}
