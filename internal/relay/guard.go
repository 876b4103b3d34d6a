package relay

import (
	"encoding/json"
	"net/url"
)

// Admission states for one inbound sync connection attempt. Rejected is
// terminal: the attempt is refused before any data is exchanged.
type State string

const (
	StateReceived   State = "received"
	StateValidating State = "validating"
	StateAdmitted   State = "admitted"
	StateRejected   State = "rejected"
)

// Payload is the caller-supplied sync payload. The browser client
// serializes it into the WebSocket URL as a JSON `payload` query
// parameter; bare `authToken`/`storeId` parameters are accepted too.
type Payload struct {
	AuthToken string `json:"authToken"`
	StoreID   string `json:"storeId,omitempty"`
}

func ParsePayload(query url.Values) Payload {
	var p Payload
	if raw := query.Get("payload"); raw != "" {
		// Malformed JSON leaves the payload empty and the guard rejects
		// it as token-less; a bad payload must never panic the handler.
		_ = json.Unmarshal([]byte(raw), &p)
	}
	if p.AuthToken == "" {
		p.AuthToken = query.Get("authToken")
	}
	if p.StoreID == "" {
		p.StoreID = query.Get("storeId")
	}

	return p
}

// Admission is the per-connection outcome: either an admitted identity
// or a terminal rejection reason.
type Admission struct {
	State  State
	Email  string
	Reason string
}

type tokenVerifier interface {
	Verify(token string) (string, error)
}

// Guard gates every inbound sync connection on a valid bearer token
// before the relay sees it.
type Guard struct {
	tokens tokenVerifier
}

func NewGuard(tokens tokenVerifier) *Guard {
	return &Guard{tokens: tokens}
}

// Admit runs the admission state machine over one connection attempt:
// received -> validating -> admitted|rejected.
func (g *Guard) Admit(p Payload) Admission {
	if p.AuthToken == "" {
		return Admission{State: StateRejected, Reason: "no auth token provided"}
	}

	email, err := g.tokens.Verify(p.AuthToken)
	if err != nil {
		return Admission{State: StateRejected, Reason: "invalid or expired token"}
	}

	return Admission{State: StateAdmitted, Email: email}
}
