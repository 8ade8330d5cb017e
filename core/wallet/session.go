// Package wallet tracks the wallet connection lifecycle as an explicit state
// machine. States are mutually exclusive tagged values, transitions are
// applied by a single writer, and every transition bumps a sequence number
// used to discard results of superseded asynchronous provider calls.
package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cybernft/marketplace-sdk/core/types"
	"github.com/cybernft/marketplace-sdk/core/util"
)

// Listener observes every session transition, in order. Transient Error
// states are surfaced here before the automatic revert to Disconnected.
type Listener func(types.Session)

// Manager is the sole writer of the wallet session. All provider events
// funnel through its methods; each takes the lock and applies one
// transition, so observers see transitions in exactly the order events were
// observed. The listener runs under the lock and must not call back into
// the manager.
type Manager struct {
	provider Provider
	allowed  map[int64]struct{}
	timeout  time.Duration
	listener Listener
	logger   *zap.Logger

	mu   sync.Mutex
	sess types.Session
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithListener registers the transition observer.
func WithListener(l Listener) ManagerOption {
	return func(m *Manager) { m.listener = l }
}

// WithTimeout bounds connect attempts; past it the attempt fails with
// types.ErrProviderTimeout.
func WithTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.timeout = d }
}

// WithLogger sets the manager's logger.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// NewManager builds a manager in the Disconnected state. allowedChains is
// the chain ID allow-list gating purchase actions.
func NewManager(provider Provider, allowedChains []int64, opts ...ManagerOption) (*Manager, error) {
	if provider == nil {
		return nil, errors.New("wallet provider is required")
	}
	allowed := make(map[int64]struct{}, len(allowedChains))
	for _, id := range allowedChains {
		allowed[id] = struct{}{}
	}
	m := &Manager{
		provider: provider,
		allowed:  allowed,
		timeout:  30 * time.Second,
		logger:   zap.NewNop(),
		sess:     types.Session{State: types.SessionDisconnected},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Session returns the current session value.
func (m *Manager) Session() types.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// CanTransact reports whether purchase actions are enabled right now.
func (m *Manager) CanTransact() bool {
	return m.Session().CanTransact()
}

// RequestConnect transitions Disconnected → Connecting and issues the
// asynchronous provider call. The sequence number captured here tags the
// outcome; if the session has moved on by the time the provider answers,
// the answer is discarded. The manager never retries on its own.
func (m *Manager) RequestConnect(ctx context.Context) error {
	m.mu.Lock()
	if m.sess.State != types.SessionDisconnected {
		state := m.sess.State
		m.mu.Unlock()
		return errors.Errorf("cannot connect from %s state", state)
	}
	seq := m.transition(types.Session{State: types.SessionConnecting})
	m.mu.Unlock()

	timer := time.AfterFunc(m.timeout, func() {
		m.rejectConnect(seq, types.ErrProviderTimeout)
	})
	m.provider.RequestConnect(ctx,
		func(res ConnectResult) {
			timer.Stop()
			m.resolveConnect(seq, res)
		},
		func(err error) {
			timer.Stop()
			m.rejectConnect(seq, err)
		},
	)
	return nil
}

// resolveConnect applies a successful provider outcome tagged with the
// sequence number captured at call time.
func (m *Manager) resolveConnect(seq uint64, res ConnectResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.Seq != seq {
		m.logger.Debug("discarding stale connect result",
			zap.Uint64("result_seq", seq),
			zap.Uint64("current_seq", m.sess.Seq))
		return
	}
	_, supported := m.allowed[res.ChainID]
	m.transition(types.Session{
		State:     types.SessionConnected,
		Address:   res.Address,
		ChainID:   res.ChainID,
		Supported: supported,
	})
}

// rejectConnect applies a failed provider outcome. The Error state is
// transient: it is surfaced to the listener, then the session reverts to
// Disconnected in the same handler turn.
func (m *Manager) rejectConnect(seq uint64, reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.Seq != seq {
		m.logger.Debug("discarding stale connect failure",
			zap.Uint64("result_seq", seq),
			zap.Uint64("current_seq", m.sess.Seq))
		return
	}
	m.transition(types.Session{State: types.SessionError, Reason: reason})
	m.transition(types.Session{State: types.SessionDisconnected})
}

// ChainChanged recomputes chain support in place; no re-prompt, no
// disconnect. Switching to an unsupported chain keeps the session Connected
// with Supported=false, which disables purchase actions.
func (m *Manager) ChainChanged(chainID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.State != types.SessionConnected {
		return
	}
	_, supported := m.allowed[chainID]
	next := m.sess
	next.ChainID = chainID
	next.Supported = supported
	m.transition(next)
}

// AccountsChanged follows the provider's account switch. An empty account
// list means the provider dropped the wallet: the session disconnects.
func (m *Manager) AccountsChanged(accounts []util.EthereumAddress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.State != types.SessionConnected {
		return
	}
	if len(accounts) == 0 {
		m.transition(types.Session{State: types.SessionDisconnected})
		return
	}
	next := m.sess
	next.Address = accounts[0]
	m.transition(next)
}

// Disconnect tears the session down from any state.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transition(types.Session{State: types.SessionDisconnected})
}

// transition installs the next session value, bumps the sequence number and
// notifies the listener. Callers hold the lock; the listener runs inside it
// so observers see transitions in exactly the order they were applied.
func (m *Manager) transition(next types.Session) uint64 {
	next.Seq = m.sess.Seq + 1
	m.sess = next
	m.logger.Debug("session transition",
		zap.String("state", next.State.String()),
		zap.Uint64("seq", next.Seq),
		zap.Bool("supported", next.Supported))
	if m.listener != nil {
		m.listener(next)
	}
	return next.Seq
}
