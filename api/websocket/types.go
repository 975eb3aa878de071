package websocket

import (
	"time"

	"github.com/pharmassist/server/internal/rag"
)

const (
	// time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next query from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxQueryBytes = 16 << 10
)

// frame types exchanged over the streaming chat socket
const (
	TypeQuery = "query"
	TypeChunk = "chunk"
	TypeDone  = "done"
	TypeError = "error"
)

// QueryFrame is sent by the client to ask a question
type QueryFrame struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	Tier           string `json:"tier,omitempty"`
}

// ChunkFrame carries one streamed piece of the answer
type ChunkFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// DoneFrame closes one answer with its metadata
type DoneFrame struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversation_id"`
	Result         *rag.Result `json:"result"`
}

// ErrorFrame reports a request-level failure
type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
