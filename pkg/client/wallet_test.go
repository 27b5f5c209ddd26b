package client

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestBody(t *testing.T, req *http.Request) string {
	require.NotNil(t, req)
	require.NotNil(t, req.Body)
	b, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	return string(b)
}

func TestWalletClient_Routes(t *testing.T) {
	g := newTestGateway(t)
	wc, err := NewWalletClient(Options{BaseURL: g.URL + "/api/", Client: g.Client()})
	require.NoError(t, err)
	assert.Equal(t, g.URL+"/api/", wc.BaseURL())

	ctx := context.Background()
	for _, test := range []struct {
		call   func() (Value, *Response, error)
		method string
		path   string
		route  string
		body   string
	}{
		{func() (Value, *Response, error) { return wc.Balance(ctx) }, http.MethodGet, "/api/wallet/balance", "balance", ""},
		{func() (Value, *Response, error) { return wc.Height(ctx) }, http.MethodGet, "/api/wallet/height", "wallet-height", ""},
		{func() (Value, *Response, error) { return wc.Transfers(ctx, nil) }, http.MethodPost, "/api/wallet/transfers", "transfers", `{}`},
		{func() (Value, *Response, error) { return wc.Optimize(ctx) }, http.MethodPost, "/api/wallet/optimize", "optimize", `{}`},
		{func() (Value, *Response, error) {
			return wc.Transfer(ctx, NewTransferRequest(Destination{Address: "X", Amount: 100}))
		}, http.MethodPost, "/api/wallet/transfer", "transfer", `{"destinations":[{"address":"X","amount":100}]}`},
	} {
		t.Run(test.route, func(t *testing.T) {
			v, resp, err := test.call()
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.JSONEq(t, `{"route":"`+test.route+`"}`, string(v))
			last := g.lastRequest()
			assert.Equal(t, test.method, last.Method)
			assert.Equal(t, test.path, last.Path)
			if test.body == "" {
				assert.Empty(t, last.Body)
			} else {
				assert.JSONEq(t, test.body, string(last.Body))
			}
		})
	}
}

func TestWalletClient_Transfers_FilterPassedThrough(t *testing.T) {
	doer := NewMockHttpRequestFromString(`{"transfers":[]}`, 200)
	c := client(t, doer)
	filter := json.RawMessage(`{"blockHash":"abc","blockCount":10,"unknown":{"nested":[1,2,3]}}`)
	v, resp, err := c.Wallet.Transfers(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/wallet/transfers", resp.Request.URL.String())
	assert.JSONEq(t, `{"transfers":[]}`, string(v))
	assert.JSONEq(t, string(filter), requestBody(t, doer.LastRequest()))

	doer = NewMockHttpRequestFromString(`{}`, 200)
	c = client(t, doer)
	_, _, err = c.Wallet.Transfers(context.Background(), map[string]any{"firstBlockIndex": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstBlockIndex":1}`, requestBody(t, doer.LastRequest()))
}

func TestTransferRequest_OptionalFieldsOmitted(t *testing.T) {
	dst := Destination{Address: "X", Amount: 100}
	for _, test := range []struct {
		name     string
		req      TransferRequest
		expected string
	}{
		{"none", NewTransferRequest(dst),
			`{"destinations":[{"address":"X","amount":100}]}`},
		{"payment id", NewTransferRequest(dst).WithPaymentID("pid"),
			`{"destinations":[{"address":"X","amount":100}],"payment_id":"pid"}`},
		{"zero mixin", NewTransferRequest(dst).WithMixin(0),
			`{"destinations":[{"address":"X","amount":100}],"mixin":0}`},
		{"unlock time", NewTransferRequest(dst).WithUnlockTime(7),
			`{"destinations":[{"address":"X","amount":100}],"unlock_time":7}`},
		{"messages", NewTransferRequest(dst).WithMessages(Value(`[{"address":"X","message":"hi"}]`)),
			`{"destinations":[{"address":"X","amount":100}],"messages":[{"address":"X","message":"hi"}]}`},
		{"ttl", NewTransferRequest(dst).WithTTL(3600),
			`{"destinations":[{"address":"X","amount":100}],"ttl":3600}`},
		{"all", NewTransferRequest(dst, Destination{Address: "Y", Amount: 18446744073709551615}).
			WithPaymentID("pid").WithMixin(5).WithUnlockTime(10).WithMessages(Value(`"m"`)).WithTTL(60),
			`{"destinations":[{"address":"X","amount":100},{"address":"Y","amount":18446744073709551615}],` +
				`"payment_id":"pid","mixin":5,"unlock_time":10,"messages":"m","ttl":60}`},
	} {
		t.Run(test.name, func(t *testing.T) {
			doer := NewMockHttpRequestFromString(`{"transactionHash":"h"}`, 200)
			c := client(t, doer)
			v, resp, err := c.Wallet.Transfer(context.Background(), test.req)
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:8080/api/wallet/transfer", resp.Request.URL.String())
			assert.JSONEq(t, `{"transactionHash":"h"}`, string(v))

			body := requestBody(t, doer.LastRequest())
			assert.JSONEq(t, test.expected, body)
			assert.NotContains(t, body, "null")
		})
	}
}

func TestTransferRequest_ExactEncoding(t *testing.T) {
	b, err := json.Marshal(NewTransferRequest(Destination{Address: "X", Amount: 100}))
	require.NoError(t, err)
	assert.Equal(t, `{"destinations":[{"address":"X","amount":100}]}`, string(b))
}

func TestWalletClient_Transfer_NoDestinations(t *testing.T) {
	doer := NewMockHttpRequestFromString(`{}`, 200)
	c := client(t, doer)
	_, _, err := c.Wallet.Transfer(context.Background(), TransferRequest{})
	require.NoError(t, err)
	assert.Equal(t, `{"destinations":[]}`, requestBody(t, doer.LastRequest()))
}

func TestWalletClient_Errors(t *testing.T) {
	c := client(t, NewMockHttpRequestFromString(`{"error":"not enough money","code":-7}`, 502))
	v, resp, err := c.Wallet.Transfer(context.Background(), NewTransferRequest(Destination{Address: "X", Amount: 1}))
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Nil(t, v)
	assert.True(t, IsHTTPError(err))
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))

	c = client(t, NewMockHttpRequestFromString(`{"available_balance":`, 200))
	v, _, err = c.Wallet.Balance(context.Background())
	require.Error(t, err)
	assert.Nil(t, v)
	assert.ErrorAs(t, err, new(*ParseError))
}

func TestWalletClient_UnmarshalableBody(t *testing.T) {
	for _, test := range []struct {
		name string
		call func(c *Client) (Value, *Response, error)
	}{
		{"filter", func(c *Client) (Value, *Response, error) {
			return c.Wallet.Transfers(context.Background(), math.Inf(1))
		}},
		{"messages", func(c *Client) (Value, *Response, error) {
			return c.Wallet.Transfer(context.Background(),
				NewTransferRequest(Destination{Address: "X", Amount: 1}).WithMessages(Value("{bad")))
		}},
	} {
		t.Run(test.name, func(t *testing.T) {
			doer := NewMockHttpRequestFromString(`{}`, 200)
			v, resp, err := test.call(client(t, doer))
			require.Error(t, err)
			assert.Nil(t, v)
			assert.Nil(t, resp)
			assert.True(t, IsHTTPError(err))
			assert.False(t, IsURLError(err))
			assert.ErrorAs(t, err, new(*RequestError))
			assert.Zero(t, StatusCode(err))
			assert.Contains(t, err.Error(), "failed to marshal request body")
			assert.Nil(t, doer.LastRequest())
		})
	}
}

var walletBalanceJson = `
{
  "available_balance": 1250000000,
  "locked_amount": 30000000
}
`

func TestWalletClient_Balance(t *testing.T) {
	c := client(t, NewMockHttpRequestFromString(walletBalanceJson, 200))
	v, resp, err := c.Wallet.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/wallet/balance", resp.Request.URL.String())
	b, err := Decode[BalanceInfo](v)
	require.NoError(t, err)
	assert.Equal(t, BalanceInfo{AvailableBalance: 1250000000, LockedAmount: 30000000}, b)
}
