package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

// CommitsClient implements gerrit.CommitsClient.
type CommitsClient struct {
	client *Client
}

// NewCommitsClient creates a new commits client.
func NewCommitsClient(client *Client) *CommitsClient {
	return &CommitsClient{
		client: client,
	}
}

func filesPath(project, commit string) (string, error) {
	if project == "" {
		return "", gerrit.ErrProjectRequired
	}

	if commit == "" {
		return "", gerrit.ErrCommitRequired
	}

	return fmt.Sprintf(constants.EndpointCommitFiles, url.QueryEscape(project), url.PathEscape(commit)), nil
}

// ListFiles implements gerrit.CommitsClient.ListFiles.
func (c *CommitsClient) ListFiles(ctx context.Context, project, commit string) (*gerrit.Value, error) {
	path, err := filesPath(project, commit)
	if err != nil {
		return nil, err
	}

	value, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	return value, nil
}

// ListFileInfos implements gerrit.CommitsClient.ListFileInfos.
func (c *CommitsClient) ListFileInfos(ctx context.Context, project, commit string) (*gerrit.OrderedMap[*gerrit.FileInfo], error) {
	value, err := c.ListFiles(ctx, project, commit)
	if err != nil {
		return nil, err
	}

	files, err := DecodeList[gerrit.FileInfo](value.JSON())
	if err != nil {
		return nil, fmt.Errorf("parsing files list: %w", err)
	}

	return files, nil
}
