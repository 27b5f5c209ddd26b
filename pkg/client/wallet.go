package client

import (
	"context"
)

// WalletClient gives access to the wallet section of the gateway API.
type WalletClient struct {
	base *baseClient
}

// NewWalletClient creates a wallet client.
// If no options provided will use default.
func NewWalletClient(options ...Options) (*WalletClient, error) {
	opts, err := mergeOptions(options)
	if err != nil {
		return nil, err
	}
	base, err := newBaseClient(opts)
	if err != nil {
		return nil, err
	}
	return &WalletClient{base: base}, nil
}

// BaseURL returns the normalized base address.
func (a *WalletClient) BaseURL() string {
	return a.base.baseURL()
}

// Destination is a single transfer output.
type Destination struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// TransferRequest is the body of wallet/transfer.
// Nil optional fields are left out of the payload, they are never sent as null.
type TransferRequest struct {
	Destinations []Destination `json:"destinations"`
	PaymentID    *string       `json:"payment_id,omitempty"`
	Mixin        *uint64       `json:"mixin,omitempty"`
	UnlockTime   *uint64       `json:"unlock_time,omitempty"`
	Messages     Value         `json:"messages,omitempty"`
	TTL          *uint64       `json:"ttl,omitempty"`
}

// NewTransferRequest creates a request without optional fields.
func NewTransferRequest(destinations ...Destination) TransferRequest {
	return TransferRequest{Destinations: destinations}
}

// WithPaymentID returns a copy of r with the payment ID set.
func (r TransferRequest) WithPaymentID(id string) TransferRequest {
	r.PaymentID = &id
	return r
}

// WithMixin returns a copy of r with the mixin set. Zero is sent as is.
func (r TransferRequest) WithMixin(mixin uint64) TransferRequest {
	r.Mixin = &mixin
	return r
}

// WithUnlockTime returns a copy of r with the unlock time set.
func (r TransferRequest) WithUnlockTime(unlockTime uint64) TransferRequest {
	r.UnlockTime = &unlockTime
	return r
}

// WithMessages returns a copy of r carrying messages as raw JSON.
func (r TransferRequest) WithMessages(messages Value) TransferRequest {
	r.Messages = messages
	return r
}

// WithTTL returns a copy of r with the transaction time-to-live set.
func (r TransferRequest) WithTTL(ttl uint64) TransferRequest {
	r.TTL = &ttl
	return r
}

func (a *WalletClient) get(ctx context.Context, path string) (Value, *Response, error) {
	var out Value
	response, err := a.base.getJSON(ctx, path, &out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

func (a *WalletClient) post(ctx context.Context, path string, body any) (Value, *Response, error) {
	var out Value
	response, err := a.base.postJSON(ctx, path, body, &out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

// Balance returns available and locked wallet balances.
func (a *WalletClient) Balance(ctx context.Context) (Value, *Response, error) {
	return a.get(ctx, "wallet/balance")
}

// Height returns the height the wallet is synchronized to.
func (a *WalletClient) Height(ctx context.Context) (Value, *Response, error) {
	return a.get(ctx, "wallet/height")
}

// Transfers posts the filter as is and returns the matching wallet transfers.
// A nil filter is sent as an empty object.
func (a *WalletClient) Transfers(ctx context.Context, filter any) (Value, *Response, error) {
	if filter == nil {
		filter = struct{}{}
	}
	return a.post(ctx, "wallet/transfers", filter)
}

// Transfer sends funds to the request destinations.
func (a *WalletClient) Transfer(ctx context.Context, req TransferRequest) (Value, *Response, error) {
	if req.Destinations == nil {
		req.Destinations = []Destination{}
	}
	return a.post(ctx, "wallet/transfer", req)
}

// Optimize asks the wallet to consolidate its outputs.
func (a *WalletClient) Optimize(ctx context.Context) (Value, *Response, error) {
	return a.post(ctx, "wallet/optimize", struct{}{})
}
