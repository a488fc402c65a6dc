package entity

// ErrorKind classifies the failure recorded on a ProbeResult.
type ErrorKind string

const (
	// ErrorNone marks a result without a recorded failure.
	ErrorNone ErrorKind = ""

	// ErrorTransport covers connection failures, timeouts, non-OK HTTP
	// statuses and undecodable reply bodies.
	ErrorTransport ErrorKind = "transport"

	// ErrorProtocol covers JSON-RPC error objects returned by the endpoint.
	ErrorProtocol ErrorKind = "protocol"

	// ErrorHeuristic covers synthesized failures such as the silent-pruning
	// detection, where the endpoint answered but the answer is suspect.
	ErrorHeuristic ErrorKind = "heuristic"
)

// MaxErrorLen bounds the error text stored on a ProbeResult so that tabular
// reports stay readable. Longer messages are cut, not wrapped.
const MaxErrorLen = 60

// ProbeResult is the outcome of probing a single RPC endpoint. It is
// produced once by the prober and not mutated afterwards.
//
// Field relationships: Archive implies Reachable, MaxRange > 0 implies
// Archive, and a non-empty Error implies the endpoint is unreachable or not
// archive-capable. Unreachable endpoints carry no latency.
type ProbeResult struct {
	URL       string    `json:"url"`
	Reachable bool      `json:"reachable"`
	LatencyMs float64   `json:"latencyMs"`
	Archive   bool      `json:"archive"`
	LogCount  int       `json:"logCount"`
	MaxRange  int       `json:"maxRange"`
	Error     string    `json:"error,omitempty"`
	ErrKind   ErrorKind `json:"errorKind,omitempty"`
}

// SetError records a failure on the result, truncating the message to
// MaxErrorLen bytes.
func (r *ProbeResult) SetError(kind ErrorKind, msg string) {
	if len(msg) > MaxErrorLen {
		msg = msg[:MaxErrorLen]
	}
	r.Error = msg
	r.ErrKind = kind
}

// ResultSet groups finished probe results by chain ID. Each slice holds one
// entry per configured endpoint of that chain, in configuration order until
// ranked.
type ResultSet map[uint64][]ProbeResult
