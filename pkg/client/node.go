package client

import (
	"context"
	"fmt"
)

const blockHeaderByHeightRoute = "node/block_header_by_height/{height}"

// NodeClient is a read-only view of the node section of the gateway API.
type NodeClient struct {
	base *baseClient
}

// NewNodeClient creates a node client.
// If no options provided will use default.
func NewNodeClient(options ...Options) (*NodeClient, error) {
	opts, err := mergeOptions(options)
	if err != nil {
		return nil, err
	}
	base, err := newBaseClient(opts)
	if err != nil {
		return nil, err
	}
	return &NodeClient{base: base}, nil
}

// BaseURL returns the normalized base address.
func (a *NodeClient) BaseURL() string {
	return a.base.baseURL()
}

func (a *NodeClient) get(ctx context.Context, path string) (Value, *Response, error) {
	var out Value
	response, err := a.base.getJSON(ctx, path, &out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

// Health checks that the gateway is up.
func (a *NodeClient) Health(ctx context.Context) (Value, *Response, error) {
	return a.get(ctx, "health")
}

// Info returns general information about the node.
func (a *NodeClient) Info(ctx context.Context) (Value, *Response, error) {
	return a.get(ctx, "node/info")
}

// Height returns the current node height.
func (a *NodeClient) Height(ctx context.Context) (Value, *Response, error) {
	return a.get(ctx, "node/height")
}

// BlockCount returns the number of blocks known to the node.
func (a *NodeClient) BlockCount(ctx context.Context) (Value, *Response, error) {
	return a.get(ctx, "node/blockcount")
}

// LastBlockHeader returns the header of the top block.
func (a *NodeClient) LastBlockHeader(ctx context.Context) (Value, *Response, error) {
	return a.get(ctx, "node/last_block_header")
}

// BlockHeaderByHeight returns the header of the block at the given height.
// The height is not checked, the gateway rejects invalid values itself.
func (a *NodeClient) BlockHeaderByHeight(ctx context.Context, height uint64) (Value, *Response, error) {
	ctx = withRoute(ctx, blockHeaderByHeightRoute)
	return a.get(ctx, fmt.Sprintf("node/block_header_by_height/%d", height))
}
