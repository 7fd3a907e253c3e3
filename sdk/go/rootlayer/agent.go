package rootlayer

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"PIN-RootLayer/internal/encoding"
	xerrors "PIN-RootLayer/internal/errors"
	"PIN-RootLayer/internal/relay"
	"PIN-RootLayer/internal/signing"
)

// ClientVersion identifies this SDK in connect handshakes.
const ClientVersion = "pin-rootlayer-sdk-go"

// DefaultHeartbeatInterval is the period used by StartHeartbeat callers that
// have no specific requirement.
const DefaultHeartbeatInterval = 10 * time.Second

// DefaultJoinTimeout bounds how long StopHeartbeat waits for the background
// loop to exit.
const DefaultJoinTimeout = 2 * time.Second

// ErrStreamClosed signals that the server closed the push stream cleanly.
// The foreground receiver decides whether to reconnect.
var ErrStreamClosed = relay.ErrStreamClosed

// AgentClient opens signed agent sessions against the relay service.
type AgentClient struct {
	transport     relay.Transport
	signer        signing.Signer
	clientVersion string
	logger        *slog.Logger
}

// AgentOption configures an AgentClient.
type AgentOption func(*AgentClient)

// WithClientVersion overrides the client version sent in handshakes.
func WithClientVersion(version string) AgentOption {
	return func(c *AgentClient) {
		if version != "" {
			c.clientVersion = version
		}
	}
}

// WithAgentLogger overrides the session logger.
func WithAgentLogger(logger *slog.Logger) AgentOption {
	return func(c *AgentClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewAgentClient wraps a relay transport with handshake signing.
func NewAgentClient(transport relay.Transport, signer signing.Signer, opts ...AgentOption) (*AgentClient, error) {
	if transport == nil {
		return nil, xerrors.New(xerrors.CodeConfigurationFailure, "transport is required")
	}
	if signer == nil {
		return nil, xerrors.New(xerrors.CodeConfigurationFailure, "signer is required")
	}
	client := &AgentClient{
		transport:     transport,
		signer:        signer,
		clientVersion: ClientVersion,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// DialAgent connects to the relay target and wraps it in an AgentClient.
func DialAgent(target string, signer signing.Signer, dialOpts []relay.DialOption, opts ...AgentOption) (*AgentClient, error) {
	transport, err := relay.Dial(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewAgentClient(transport, signer, opts...)
}

// Close releases the underlying transport. Sessions opened from this client
// stop working afterwards.
func (c *AgentClient) Close() error {
	return c.transport.Close()
}

// Connect performs the signed identity handshake and opens the push stream.
// The agent id is normalized to a canonical decimal string and must fit in
// the uint256 range. A fresh random 32-byte nonce guards against handshake
// replay.
func (c *AgentClient) Connect(ctx context.Context, agentID any) (*AgentSession, error) {
	idNorm, err := normalizeAgentID(agentID)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Unix()
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "generate handshake nonce")
	}

	digest, err := signing.AgentConnectDigest(signing.AgentConnectParams{
		AgentAddress: c.signer.Address(),
		Timestamp:    timestamp,
		RandomNonce:  nonce,
		AgentID:      idNorm,
	})
	if err != nil {
		return nil, err
	}
	signature, err := c.signer.SignDigest32(digest)
	if err != nil {
		return nil, err
	}

	stream, err := c.transport.AgentConnect(ctx, &relay.ConnectRequest{
		AgentAddress:  c.signer.Address(),
		Signature:     signature,
		ClientVersion: c.clientVersion,
		Timestamp:     timestamp,
		RandomNonce:   nonce,
		AgentID:       idNorm,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("agent connected",
		slog.String("agent_address", c.signer.Address()),
		slog.String("agent_id", idNorm))

	return &AgentSession{
		agentAddress: c.signer.Address(),
		agentID:      idNorm,
		transport:    c.transport,
		stream:       stream,
		logger:       c.logger,
		joinTimeout:  DefaultJoinTimeout,
	}, nil
}

func normalizeAgentID(agentID any) (string, error) {
	n, err := encoding.ParseUint256(agentID)
	if err != nil {
		return "", err
	}
	if n.BitLen() > 256 {
		return "", xerrors.New(xerrors.CodeEncodingFailure, "agent id exceeds uint256 range")
	}
	return n.String(), nil
}

// AgentSession is a live connection to the relay. The foreground owner
// drives Recv in a loop; at most one background heartbeat loop runs
// concurrently and shares only the read-only session identity with it.
type AgentSession struct {
	agentAddress string
	agentID      string
	transport    relay.Transport
	stream       relay.PushStream
	logger       *slog.Logger
	joinTimeout  time.Duration

	closed atomic.Bool

	hbMu   sync.Mutex
	hbStop chan struct{}
	hbDone chan struct{}
}

// AgentAddress returns the session's signing identity.
func (s *AgentSession) AgentAddress() string { return s.agentAddress }

// AgentID returns the session's agent id as a canonical decimal string.
func (s *AgentSession) AgentID() string { return s.agentID }

// Recv blocks until the next pushed work item arrives. A clean server-side
// close surfaces as ErrStreamClosed rather than a generic failure.
func (s *AgentSession) Recv() (*relay.IntentPush, error) {
	if s.closed.Load() {
		return nil, xerrors.New(xerrors.CodeSessionClosed, "session is closed")
	}
	return s.stream.Recv()
}

// Heartbeat reports liveness once. The connect handshake already established
// identity, so no signature is attached.
func (s *AgentSession) Heartbeat(ctx context.Context) error {
	if s.closed.Load() {
		return xerrors.New(xerrors.CodeSessionClosed, "session is closed")
	}
	return s.transport.Heartbeat(ctx, &relay.HeartbeatRequest{
		AgentAddress: s.agentAddress,
		Timestamp:    time.Now().Unix(),
		AgentID:      s.agentID,
	})
}

// SubmitDirectResult reports the outcome of a direct intent execution.
func (s *AgentSession) SubmitDirectResult(ctx context.Context, req *relay.ResultRequest) (*relay.ResultResponse, error) {
	if s.closed.Load() {
		return nil, xerrors.New(xerrors.CodeSessionClosed, "session is closed")
	}
	return s.transport.SubmitDirectResult(ctx, req)
}

// SubmitDirectResultFromPush builds the result request from a received push,
// filling identity, timestamp, and routing fields.
func (s *AgentSession) SubmitDirectResultFromPush(ctx context.Context, push *relay.IntentPush, resultData []byte, success bool, errorMessage string) (*relay.ResultResponse, error) {
	if push == nil {
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "nil push")
	}
	return s.SubmitDirectResult(ctx, &relay.ResultRequest{
		IntentID:      push.IntentID,
		AgentAddress:  s.agentAddress,
		Success:       success,
		ResultData:    resultData,
		ErrorMessage:  errorMessage,
		Timestamp:     time.Now().Unix(),
		TargetAgentID: push.TargetAgentID,
		SubnetID:      push.SubnetID,
	})
}

// StartHeartbeat launches the background heartbeat loop. Calling it while a
// loop is already running is a no-op. Heartbeat RPC failures are swallowed:
// a dead connection is discovered by Recv returning ErrStreamClosed, not by
// a missed keepalive.
func (s *AgentSession) StartHeartbeat(interval time.Duration) error {
	if interval <= 0 {
		return xerrors.New(xerrors.CodeInvalidArgument, "heartbeat interval must be positive")
	}
	if s.closed.Load() {
		return xerrors.New(xerrors.CodeSessionClosed, "session is closed")
	}

	s.hbMu.Lock()
	defer s.hbMu.Unlock()
	if s.hbStop != nil {
		return nil
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.hbStop = stop
	s.hbDone = done

	go s.heartbeatLoop(interval, stop, done)
	return nil
}

func (s *AgentSession) heartbeatLoop(interval time.Duration, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := s.Heartbeat(context.Background()); err != nil {
			s.logger.Debug("heartbeat failed",
				slog.String("agent_id", s.agentID),
				slog.String("error", err.Error()))
		}
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// StopHeartbeat signals the loop to stop and waits up to the join timeout
// for it to exit. Safe to call when no heartbeat is running.
func (s *AgentSession) StopHeartbeat() {
	s.hbMu.Lock()
	stop := s.hbStop
	done := s.hbDone
	s.hbStop = nil
	s.hbDone = nil
	s.hbMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	select {
	case <-done:
	case <-time.After(s.joinTimeout):
		s.logger.Warn("heartbeat loop did not exit within join timeout",
			slog.String("agent_id", s.agentID))
	}
}

// Close stops the heartbeat and cancels the push stream. Idempotent; all
// session operations fail after the first call.
func (s *AgentSession) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.StopHeartbeat()
	s.stream.Cancel()
	s.logger.Info("agent session closed", slog.String("agent_id", s.agentID))
	return nil
}
