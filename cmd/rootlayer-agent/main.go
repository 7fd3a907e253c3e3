package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"PIN-RootLayer/internal/config"
	"PIN-RootLayer/internal/relay"
	"PIN-RootLayer/internal/signing"
	"PIN-RootLayer/pkg/logger"
	"PIN-RootLayer/sdk/go/rootlayer"
)

// main 是执行体示例的入口：连接中继服务，接收直连意图并回传执行结果。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("rootlayer-agent 运行失败: %v", err)
	}
}

func run(ctx context.Context) error {
	configPath := os.Getenv("ROOTLAYER_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("configs", "rootlayer.json")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	}); err != nil {
		return err
	}
	defer logger.Sync()
	lg := logger.Named("agent")

	privateKey, err := cfg.PrivateKey()
	if err != nil {
		return err
	}
	signer, err := signing.NewPrivateKeySigner(privateKey)
	if err != nil {
		return err
	}

	var dialOpts []relay.DialOption
	if cfg.Relay.UseTLS {
		dialOpts = append(dialOpts, relay.WithTLS(nil))
	}
	agentOpts := []rootlayer.AgentOption{rootlayer.WithAgentLogger(lg)}
	if cfg.Agent.ClientVersion != "" {
		agentOpts = append(agentOpts, rootlayer.WithClientVersion(cfg.Agent.ClientVersion))
	}
	client, err := rootlayer.DialAgent(cfg.Relay.Target, signer, dialOpts, agentOpts...)
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.Connect(ctx, cfg.Agent.AgentID)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.StartHeartbeat(cfg.HeartbeatInterval()); err != nil {
		return err
	}

	// 收到退出信号时关闭会话，令阻塞中的 Recv 返回。
	go func() {
		<-ctx.Done()
		session.Close()
	}()

	for {
		push, err := session.Recv()
		if err != nil {
			if errors.Is(err, rootlayer.ErrStreamClosed) {
				lg.Info("推送流已关闭，退出")
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		lg.Info("收到直连意图",
			"intent_id", push.IntentID,
			"intent_type", push.IntentType,
			"deadline", push.Deadline)

		// 示例执行体：原样回显负载。
		resp, err := session.SubmitDirectResultFromPush(ctx, push, push.IntentRaw, true, "")
		if err != nil {
			lg.Error("结果上报失败", "intent_id", push.IntentID, "error", err)
			continue
		}
		lg.Info("结果已上报",
			"intent_id", push.IntentID,
			"ok", resp.OK,
			"result_hash", resp.ResultHash)
	}
}
