package protocol

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/goccy/go-json"
)

const (
	keyType  = "type"
	keyID    = "id"
	keyPeers = "peers"
	keyData  = "data"
	keyTo    = "to"
	keyFrom  = "from"
)

var errMissing = errors.New("missing")

// Decode parses one text frame. Every failure is a *DecodeError.
// Unknown types decode successfully with only Type set.
func Decode(data []byte) (*Envelope, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, decodeErr("malformed json", err)
	}
	if top == nil {
		return nil, decodeErr("not an object", nil)
	}

	var typ string
	if err := unmarshalField(top, keyType, &typ); err != nil {
		return nil, decodeErr("type", err)
	}

	env := &Envelope{Type: Type(typ)}
	switch env.Type {
	case TypeID:
		id, err := intField(top, keyID)
		if err != nil {
			return nil, decodeErr("id", err)
		}
		env.ID = domain.PeerID(id)
	case TypePeers:
		if err := unmarshalField(top, keyPeers, &env.Peers); err != nil {
			return nil, decodeErr("peers", err)
		}
	case TypeChat:
		if err := decodeChat(env, top); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func decodeChat(env *Envelope, top map[string]json.RawMessage) error {
	var payload map[string]json.RawMessage
	if err := unmarshalField(top, keyData, &payload); err != nil {
		return decodeErr("data", err)
	}
	if payload == nil {
		return decodeErr("data", errMissing)
	}
	to, err := intField(payload, keyTo)
	if err != nil {
		return decodeErr("data.to", err)
	}
	env.To = domain.PeerID(to)
	// A client-supplied from is never trusted; it is dropped here and
	// restored by whoever relays the envelope.
	delete(payload, keyTo)
	delete(payload, keyFrom)
	env.Data = payload

	for k, v := range top {
		if k == keyType || k == keyData {
			continue
		}
		if env.Extra == nil {
			env.Extra = make(map[string]json.RawMessage)
		}
		env.Extra[k] = v
	}
	return nil
}

// Encode serializes env. Key order is not significant on the wire.
func Encode(env *Envelope) ([]byte, error) {
	switch env.Type {
	case TypeID:
		return json.Marshal(struct {
			Type Type          `json:"type"`
			ID   domain.PeerID `json:"id"`
		}{TypeID, env.ID})
	case TypePeers:
		peers := env.Peers
		if peers == nil {
			peers = []domain.Peer{}
		}
		return json.Marshal(struct {
			Type  Type          `json:"type"`
			Peers []domain.Peer `json:"peers"`
		}{TypePeers, peers})
	}

	out := make(map[string]json.RawMessage, len(env.Extra)+2)
	for k, v := range env.Extra {
		out[k] = v
	}
	typ, err := json.Marshal(env.Type)
	if err != nil {
		return nil, err
	}
	out[keyType] = typ
	if env.Type == TypeChat {
		payload := make(map[string]json.RawMessage, len(env.Data)+2)
		for k, v := range env.Data {
			payload[k] = v
		}
		payload[keyTo] = intRaw(int64(env.To))
		payload[keyFrom] = intRaw(int64(env.From))
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		out[keyData] = raw
	}
	return json.Marshal(out)
}

func unmarshalField(m map[string]json.RawMessage, key string, v any) error {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return errMissing
	}
	return json.Unmarshal(raw, v)
}

func intField(m map[string]json.RawMessage, key string) (int64, error) {
	var n int64
	if err := unmarshalField(m, key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func intRaw(n int64) json.RawMessage {
	return strconv.AppendInt(nil, n, 10)
}
