package telegram

import "encoding/json"

// APIResponse is the envelope every Bot API method returns.
type APIResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Message is the subset of the sent message we keep.
type Message struct {
	MessageID int64 `json:"message_id"`
	Date      int64 `json:"date"`
}
