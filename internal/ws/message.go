package ws

import "encoding/json"

// envelope is the wire format of every real-time message
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// inboundMessage is the subset of a client message the server acts on
type inboundMessage struct {
	Type string `json:"type"`
}

func encode(msgType string, payload any) ([]byte, error) {
	return json.Marshal(envelope{Type: msgType, Payload: payload})
}
