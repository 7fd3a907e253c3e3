package relay

import (
	"context"
	"crypto/tls"
	stdErrors "errors"
	"io"

	"PIN-RootLayer/internal/encoding"
	xerrors "PIN-RootLayer/internal/errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// 本包有意使用 protobuf 的 Struct 通用消息承载 RPC 载荷，
// 以避免引入 protoc 代码生成工具链；字节字段以 base64 字符串传输。
// 服务定义：rootlayer.v1.RelayerService。
const (
	methodAgentConnect = "/rootlayer.v1.RelayerService/AgentConnect"
	methodHeartbeat    = "/rootlayer.v1.RelayerService/Heartbeat"
	methodSubmitResult = "/rootlayer.v1.RelayerService/SubmitDirectResult"
)

var agentConnectStreamDesc = &grpc.StreamDesc{
	StreamName:    "AgentConnect",
	ServerStreams: true,
}

// GRPCTransport 基于 gRPC 通道实现 Transport。
type GRPCTransport struct {
	conn *grpc.ClientConn
}

// DialOption 定义建连的可选配置。
type DialOption func(*dialSettings)

type dialSettings struct {
	tlsConfig *tls.Config
	grpcOpts  []grpc.DialOption
}

// WithTLS 启用 TLS 传输加密。
func WithTLS(cfg *tls.Config) DialOption {
	return func(s *dialSettings) {
		if cfg == nil {
			cfg = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		s.tlsConfig = cfg
	}
}

// WithGRPCOptions 透传额外的 gRPC 建连参数。
func WithGRPCOptions(opts ...grpc.DialOption) DialOption {
	return func(s *dialSettings) {
		s.grpcOpts = append(s.grpcOpts, opts...)
	}
}

// Dial 建立到中继服务的 gRPC 通道，默认明文连接。
func Dial(target string, opts ...DialOption) (*GRPCTransport, error) {
	settings := &dialSettings{}
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}

	creds := insecure.NewCredentials()
	if settings.tlsConfig != nil {
		creds = credentials.NewTLS(settings.tlsConfig)
	}
	grpcOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, settings.grpcOpts...)

	conn, err := grpc.NewClient(target, grpcOpts...)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "建立中继连接失败")
	}
	return &GRPCTransport{conn: conn}, nil
}

// AgentConnect 发起握手并返回服务端推送流。
func (t *GRPCTransport) AgentConnect(ctx context.Context, req *ConnectRequest) (PushStream, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := t.conn.NewStream(streamCtx, agentConnectStreamDesc, methodAgentConnect)
	if err != nil {
		cancel()
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "打开推送流失败")
	}

	msg, err := structpb.NewStruct(map[string]any{
		"agentAddress":  req.AgentAddress,
		"signature":     encoding.BytesToBase64(req.Signature),
		"clientVersion": req.ClientVersion,
		"timestamp":     req.Timestamp,
		"randomNonce":   encoding.BytesToBase64(req.RandomNonce),
		"agentId":       req.AgentID,
	})
	if err != nil {
		cancel()
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "构造握手消息失败")
	}
	if err := stream.SendMsg(msg); err != nil {
		cancel()
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "发送握手消息失败")
	}
	if err := stream.CloseSend(); err != nil {
		cancel()
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "关闭发送端失败")
	}

	return &grpcPushStream{stream: stream, cancel: cancel}, nil
}

// Heartbeat 上报一次心跳。
func (t *GRPCTransport) Heartbeat(ctx context.Context, req *HeartbeatRequest) error {
	msg, err := structpb.NewStruct(map[string]any{
		"agentAddress": req.AgentAddress,
		"timestamp":    req.Timestamp,
		"agentId":      req.AgentID,
	})
	if err != nil {
		return xerrors.Wrap(xerrors.CodeTransportFailure, err, "构造心跳消息失败")
	}
	if err := t.conn.Invoke(ctx, methodHeartbeat, msg, new(emptypb.Empty)); err != nil {
		return xerrors.Wrap(xerrors.CodeTransportFailure, err, "心跳调用失败")
	}
	return nil
}

// SubmitDirectResult 上报直连执行结果。
func (t *GRPCTransport) SubmitDirectResult(ctx context.Context, req *ResultRequest) (*ResultResponse, error) {
	msg, err := structpb.NewStruct(map[string]any{
		"intentId":      req.IntentID,
		"agentAddress":  req.AgentAddress,
		"success":       req.Success,
		"resultData":    encoding.BytesToBase64(req.ResultData),
		"errorMessage":  req.ErrorMessage,
		"timestamp":     req.Timestamp,
		"targetAgentId": req.TargetAgentID,
		"subnetId":      req.SubnetID,
	})
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "构造结果消息失败")
	}
	out := new(structpb.Struct)
	if err := t.conn.Invoke(ctx, methodSubmitResult, msg, out); err != nil {
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "结果上报调用失败")
	}
	return &ResultResponse{
		OK:         fieldBool(out, "ok"),
		Msg:        fieldString(out, "msg"),
		ResultHash: fieldString(out, "resultHash"),
	}, nil
}

// Close 关闭底层 gRPC 通道。
func (t *GRPCTransport) Close() error {
	if t == nil || t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

type grpcPushStream struct {
	stream grpc.ClientStream
	cancel context.CancelFunc
}

func (s *grpcPushStream) Recv() (*IntentPush, error) {
	msg := new(structpb.Struct)
	if err := s.stream.RecvMsg(msg); err != nil {
		if stdErrors.Is(err, io.EOF) {
			return nil, ErrStreamClosed
		}
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "接收推送失败")
	}

	intentRaw, err := fieldBytes(msg, "intentRaw")
	if err != nil {
		return nil, err
	}
	metadata, err := fieldBytes(msg, "metadata")
	if err != nil {
		return nil, err
	}
	return &IntentPush{
		IntentID:      fieldString(msg, "intentId"),
		SubnetID:      fieldString(msg, "subnetId"),
		Requester:     fieldString(msg, "requester"),
		IntentType:    fieldString(msg, "intentType"),
		IntentRaw:     intentRaw,
		Metadata:      metadata,
		Deadline:      fieldInt64(msg, "deadline"),
		PaymentToken:  fieldString(msg, "paymentToken"),
		Amount:        fieldString(msg, "amount"),
		TargetAgentID: fieldString(msg, "targetAgentId"),
	}, nil
}

func (s *grpcPushStream) Cancel() {
	s.cancel()
}

func fieldString(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s.GetFields()[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func fieldInt64(s *structpb.Struct, key string) int64 {
	if s == nil {
		return 0
	}
	if v, ok := s.GetFields()[key]; ok {
		return int64(v.GetNumberValue())
	}
	return 0
}

func fieldBool(s *structpb.Struct, key string) bool {
	if s == nil {
		return false
	}
	if v, ok := s.GetFields()[key]; ok {
		return v.GetBoolValue()
	}
	return false
}

func fieldBytes(s *structpb.Struct, key string) ([]byte, error) {
	raw := fieldString(s, key)
	if raw == "" {
		return nil, nil
	}
	b, err := encoding.ParseBytes(raw)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "推送消息字节字段非法: "+key)
	}
	return b, nil
}
