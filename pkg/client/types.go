package client

import (
	"encoding/json"
)

// Value is an undecoded JSON document returned by the gateway.
// Its schema is not validated by the client.
type Value = json.RawMessage

// Decode projects a raw gateway value onto a concrete type.
func Decode[T any](v Value) (T, error) {
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		return out, newParseError(err)
	}
	return out, nil
}

// HeightInfo is the result of the node and wallet height endpoints.
type HeightInfo struct {
	Height uint64 `json:"height"`
	Status string `json:"status,omitempty"`
}

// BlockCountInfo is the result of node/blockcount.
type BlockCountInfo struct {
	Count  uint64 `json:"count"`
	Status string `json:"status"`
}

type BlockHeader struct {
	MajorVersion uint8  `json:"major_version"`
	MinorVersion uint8  `json:"minor_version"`
	Timestamp    uint64 `json:"timestamp"`
	PrevHash     string `json:"prev_hash"`
	Nonce        uint32 `json:"nonce"`
	OrphanStatus bool   `json:"orphan_status"`
	Height       uint64 `json:"height"`
	Depth        uint64 `json:"depth"`
	Hash         string `json:"hash"`
	Difficulty   uint64 `json:"difficulty"`
	Reward       uint64 `json:"reward"`
}

// BlockHeaderResult is the result of node/last_block_header and node/block_header_by_height.
type BlockHeaderResult struct {
	BlockHeader BlockHeader `json:"block_header"`
	Status      string      `json:"status"`
}

// BalanceInfo is the result of wallet/balance, amounts are in atomic units.
type BalanceInfo struct {
	AvailableBalance uint64 `json:"available_balance"`
	LockedAmount     uint64 `json:"locked_amount"`
}
