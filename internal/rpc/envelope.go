package rpc

import (
	"encoding/json"
	"strconv"
)

// Request is a JSON-RPC 2.0 call envelope. The id is fixed at 1 because
// every call gets its own round trip, so replies never interleave.
type Request struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// Response is a JSON-RPC 2.0 reply envelope. A conforming endpoint sets
// exactly one of Result and Error; an Error object is an answer, not a
// transport failure.
type Response struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// Error is the error member of a JSON-RPC reply.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func toHex(n uint64) string { return "0x" + strconv.FormatUint(n, 16) }

// LogFilter builds the positional params of an eth_getLogs call scoped to
// one contract address over an inclusive block range.
func LogFilter(address string, from, to uint64) []any {
	return []any{map[string]string{
		"address":   address,
		"fromBlock": toHex(from),
		"toBlock":   toHex(to),
	}}
}
