package near

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CauseUnknownAccount is the structured cause name nodes report for a missing account
const CauseUnknownAccount = "UNKNOWN_ACCOUNT"

// ErrorCause is the structured part of a NEAR RPC handler error
type ErrorCause struct {
	Name string          `json:"name"`
	Info json.RawMessage `json:"info,omitempty"`
}

// RPCError is a JSON-RPC error returned by a NEAR node
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Name    string          `json:"name,omitempty"`
	Cause   *ErrorCause     `json:"cause,omitempty"`
}

func (e *RPCError) Error() string {
	msg := fmt.Sprintf("[%d] %s", e.Code, e.Message)
	if detail := e.detail(); detail != "" {
		msg += ": " + detail
	}
	if e.Cause != nil && e.Cause.Name != "" {
		msg += " (" + e.Cause.Name + ")"
	}
	return msg
}

func (e *RPCError) detail() string {
	if len(e.Data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Data, &s); err == nil {
		return s
	}
	return string(e.Data)
}

// IsAccountNotFound reports whether err means the queried account does not
// exist. The structured cause is checked first; nodes that only return text
// are matched on "does not exist".
func IsAccountNotFound(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Cause != nil && rpcErr.Cause.Name != "" {
		return rpcErr.Cause.Name == CauseUnknownAccount
	}
	return strings.Contains(err.Error(), "does not exist")
}
