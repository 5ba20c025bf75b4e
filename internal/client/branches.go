package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

// BranchesClient implements gerrit.BranchesClient.
type BranchesClient struct {
	client *Client
}

// NewBranchesClient creates a new branches client.
func NewBranchesClient(client *Client) *BranchesClient {
	return &BranchesClient{
		client: client,
	}
}

// List implements gerrit.BranchesClient.List.
func (c *BranchesClient) List(ctx context.Context, project string, opts *gerrit.BranchListOptions) (*gerrit.OrderedMap[*gerrit.BranchInfo], error) {
	if project == "" {
		return nil, gerrit.ErrProjectRequired
	}

	path := fmt.Sprintf(constants.EndpointBranches, url.QueryEscape(project))

	var query url.Values

	if opts != nil {
		query = url.Values{}

		if opts.Match != "" {
			query.Set(constants.QueryParamMatch, opts.Match)
		}

		if opts.Regex != "" {
			query.Set(constants.QueryParamRegex, opts.Regex)
		}
	}

	value, err := c.client.get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	if isJSONArray(value.JSON()) {
		return branchesByRef(value.JSON())
	}

	branches, err := DecodeList[gerrit.BranchInfo](value.JSON())
	if err != nil {
		return nil, fmt.Errorf("parsing branches list: %w", err)
	}

	return branches, nil
}

// branchesByRef keys an array of branches by their ref. Gerrit releases
// answer the listing with an array rather than an object.
func branchesByRef(data json.RawMessage) (*gerrit.OrderedMap[*gerrit.BranchInfo], error) {
	list, err := DecodeSlice[gerrit.BranchInfo](data)
	if err != nil {
		return nil, fmt.Errorf("parsing branches list: %w", err)
	}

	branches := gerrit.NewOrderedMap[*gerrit.BranchInfo]()
	for _, branch := range list {
		branches.Set(branch.Ref, branch)
	}

	return branches, nil
}

// Get implements gerrit.BranchesClient.Get. It lists the branches of project
// and looks ref up by exact key.
func (c *BranchesClient) Get(ctx context.Context, project, ref string) (*gerrit.BranchInfo, error) {
	if ref == "" {
		return nil, gerrit.ErrBranchRefRequired
	}

	branches, err := c.List(ctx, project, nil)
	if err != nil {
		return nil, err
	}

	branch, ok := branches.Get(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", gerrit.ErrBranchNotFound, ref, project)
	}

	return branch, nil
}

// Create implements gerrit.BranchesClient.Create. In read-only mode nothing
// is sent and Create returns nil without error.
func (c *BranchesClient) Create(ctx context.Context, project string, input *gerrit.BranchInput) (*gerrit.BranchInfo, error) {
	if project == "" {
		return nil, gerrit.ErrProjectRequired
	}

	if input == nil {
		return nil, gerrit.ErrBranchInputMissing
	}

	if input.Ref == "" {
		return nil, gerrit.ErrBranchRefRequired
	}

	path := fmt.Sprintf(constants.EndpointBranch, url.QueryEscape(project), url.QueryEscape(input.Ref))

	resp, skipped, err := c.client.put(ctx, path, input)
	if err != nil {
		return nil, fmt.Errorf("creating branch: %w", err)
	}

	if skipped {
		return nil, nil //nolint:nilnil // nothing was created in read-only mode
	}

	if resp.StatusCode != constants.HTTPStatusCreated {
		return nil, fmt.Errorf("creating branch %s: %w: %d", input.Ref, gerrit.ErrUnexpectedStatus, resp.StatusCode)
	}

	value, err := c.client.decode(resp)
	if err != nil {
		return nil, fmt.Errorf("parsing created branch: %w", err)
	}

	branch, err := DecodeOne[gerrit.BranchInfo](value.JSON())
	if err != nil {
		return nil, fmt.Errorf("parsing created branch: %w", err)
	}

	return branch, nil
}

// CreateRef implements gerrit.BranchesClient.CreateRef.
func (c *BranchesClient) CreateRef(ctx context.Context, project, ref string) (*gerrit.BranchInfo, error) {
	return c.Create(ctx, project, &gerrit.BranchInput{Ref: ref})
}

// Delete implements gerrit.BranchesClient.Delete. It reports whether the
// server answered 204.
func (c *BranchesClient) Delete(ctx context.Context, project, ref string) (bool, error) {
	if project == "" {
		return false, gerrit.ErrProjectRequired
	}

	if ref == "" {
		return false, gerrit.ErrBranchRefRequired
	}

	endpoint := constants.EndpointBranchUnauthenticated
	if c.client.authenticatedDeletePath {
		endpoint = constants.EndpointBranch
	}

	path := fmt.Sprintf(endpoint, url.QueryEscape(project), url.QueryEscape(ref))

	deleted, err := c.client.Delete(ctx, path)
	if err != nil {
		return false, fmt.Errorf("deleting branch: %w", err)
	}

	return deleted, nil
}

// DeleteMany implements gerrit.BranchesClient.DeleteMany with a single
// request to the bulk delete endpoint. Any answer but 204 is a
// *gerrit.StatusError.
func (c *BranchesClient) DeleteMany(ctx context.Context, project string, refs []string) error {
	if project == "" {
		return gerrit.ErrProjectRequired
	}

	if len(refs) == 0 {
		return nil
	}

	path := fmt.Sprintf(constants.EndpointBranchesDelete, url.QueryEscape(project))

	value, err := c.client.PostJSON(ctx, path, &gerrit.DeleteBranchesInput{Branches: refs})
	if err != nil {
		return fmt.Errorf("deleting branches: %w", err)
	}

	// A read-only skip answers with an empty value and no status.
	if value.StatusCode == 0 {
		return nil
	}

	if value.StatusCode != constants.HTTPStatusNoContent {
		return fmt.Errorf("deleting branches: %w", &gerrit.StatusError{
			StatusCode: value.StatusCode,
			Body:       value.Body,
		})
	}

	return nil
}
