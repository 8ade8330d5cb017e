package types

import (
	"github.com/cybernft/marketplace-sdk/core/util"
)

// SessionState is the wallet session's state tag. States are mutually
// exclusive; the UI never observes "connected" and "connecting" at once.
type SessionState int

const (
	SessionDisconnected SessionState = iota
	SessionConnecting
	SessionConnected
	SessionError
)

func (s SessionState) String() string {
	switch s {
	case SessionDisconnected:
		return "disconnected"
	case SessionConnecting:
		return "connecting"
	case SessionConnected:
		return "connected"
	case SessionError:
		return "error"
	default:
		return "unknown"
	}
}

// Session is a point-in-time view of the wallet connection. Address and
// ChainID are meaningful only in SessionConnected; Reason only in
// SessionError. Seq increases on every transition and is used to discard
// results of superseded asynchronous provider calls.
type Session struct {
	State     SessionState
	Address   util.EthereumAddress
	ChainID   int64
	Supported bool // chain is in the configured allow-list
	Reason    error
	Seq       uint64
}

// CanTransact reports whether purchase and mint actions are enabled:
// connected on an allow-listed chain, nothing else.
func (s Session) CanTransact() bool {
	return s.State == SessionConnected && s.Supported
}
