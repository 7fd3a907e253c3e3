package relay

import (
	"context"

	xerrors "PIN-RootLayer/internal/errors"
)

// ErrStreamClosed 表示服务端正常关闭推送流，是一种终态信号而非一般性错误。
// 前台接收方据此决定是否重连。
var ErrStreamClosed = xerrors.New(xerrors.CodeStreamClosed, "")

// ConnectRequest 是执行体连接握手的请求载荷。
type ConnectRequest struct {
	AgentAddress  string
	Signature     []byte
	ClientVersion string
	Timestamp     int64
	RandomNonce   []byte
	AgentID       string
}

// HeartbeatRequest 是心跳请求载荷。连接身份已在握手阶段确立，心跳无需签名。
type HeartbeatRequest struct {
	AgentAddress string
	Timestamp    int64
	AgentID      string
}

// IntentPush 是服务端推送给执行体的直连意图任务。
type IntentPush struct {
	IntentID      string
	SubnetID      string
	Requester     string
	IntentType    string
	IntentRaw     []byte
	Metadata      []byte
	Deadline      int64
	PaymentToken  string
	Amount        string
	TargetAgentID string
}

// ResultRequest 是执行体上报直连执行结果的请求载荷。
type ResultRequest struct {
	IntentID      string
	AgentAddress  string
	Success       bool
	ResultData    []byte
	ErrorMessage  string
	Timestamp     int64
	TargetAgentID string
	SubnetID      string
}

// ResultResponse 是结果上报的应答。
type ResultResponse struct {
	OK         bool
	Msg        string
	ResultHash string
}

// PushStream 抽象服务端到执行体的推送通道。
type PushStream interface {
	// Recv 阻塞接收下一条推送任务。服务端正常关闭时返回 ErrStreamClosed。
	Recv() (*IntentPush, error)
	// Cancel 取消并释放底层流。
	Cancel()
}

// Transport 抽象执行体与中继服务之间的传输能力：
// 一次建流（AgentConnect）加两类一元调用。重试策略由上层协作方负责。
type Transport interface {
	AgentConnect(ctx context.Context, req *ConnectRequest) (PushStream, error)
	Heartbeat(ctx context.Context, req *HeartbeatRequest) error
	SubmitDirectResult(ctx context.Context, req *ResultRequest) (*ResultResponse, error)
	Close() error
}
