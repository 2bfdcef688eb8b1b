package ingress

import (
	"github.com/lootrush/lootrush/pkg/game"
)

type MessageOp int

const (
	// server -> client
	EventOp MessageOp = iota
	ResponseOp
	ServerMessageOp

	// client -> server
	CommandOp
)

// EventMessage carries one orchestrator event to every connected client.
type EventMessage struct {
	Op    MessageOp  `cbor:"op"`
	Event game.Event `cbor:"event"`
}

// CommandMessage is an operator command line sent by a client. Id is echoed
// back on the response so the client can match them up.
type CommandMessage struct {
	Op      MessageOp `cbor:"op"`
	Id      int       `cbor:"id"`
	Command string    `cbor:"command"`
}

type ResponseMessage struct {
	Op       MessageOp `cbor:"op"`
	Id       int       `cbor:"id"`
	Success  bool      `cbor:"success"`
	Response string    `cbor:"response"`
}

// ServerMessage is unsolicited operator-facing text, like status output.
type ServerMessage struct {
	Op      MessageOp `cbor:"op"`
	Message string    `cbor:"message"`
}
