package main

import (
	"context"
	"crypto/rand"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"PIN-RootLayer/internal/chains"
	"PIN-RootLayer/internal/config"
	"PIN-RootLayer/internal/encoding"
	"PIN-RootLayer/internal/signing"
	"PIN-RootLayer/pkg/logger"
	"PIN-RootLayer/sdk/go/rootlayer"
)

// main 是直连意图提交示例的入口：签名一条直连意图并提交给网关。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("rootlayer-submit 运行失败: %v", err)
	}
}

func run(ctx context.Context) error {
	var (
		settleChain = flag.String("chain", "", "结算链名称（默认取配置中的 default_chain）")
		subnetID    = flag.String("subnet", "0x0000000000000000000000000000000000000000000000000000000000000001", "子网 ID（32 字节十六进制）")
		intentType  = flag.String("type", "test", "意图类型")
		payload     = flag.String("payload", "pingraw", "意图负载")
		metadata    = flag.String("metadata", "", "意图元数据")
		targetAgent = flag.String("target-agent", "", "目标执行体地址")
		targetID    = flag.String("target-agent-id", "1", "目标执行体 ID（十进制）")
		amount      = flag.String("amount", "0", "支付金额（十进制）")
		ttl         = flag.Duration("ttl", time.Hour, "意图有效期")
	)
	flag.Parse()

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
	lg := logger.Named("submit")

	privateKey, err := cfg.PrivateKey()
	if err != nil {
		return err
	}
	signer, err := signing.NewPrivateKeySigner(privateKey)
	if err != nil {
		return err
	}

	registry, err := chains.LoadRegistry(cfg.Chains.DefinitionsPath)
	if err != nil {
		return err
	}

	client, err := rootlayer.NewClient(cfg.RootLayer.BaseURL,
		rootlayer.WithSigner(signer),
		rootlayer.WithChains(registry),
		rootlayer.WithTimeout(cfg.HTTPTimeout()),
		rootlayer.WithLogger(lg),
	)
	if err != nil {
		return err
	}

	health, err := client.Check(ctx)
	if err != nil {
		return err
	}
	lg.Info("网关健康检查通过", "status", health.Status, "service", health.Service)

	chain := *settleChain
	if chain == "" {
		chain = cfg.Chains.DefaultChain
	}

	// 每次提交使用新生成的意图 ID。
	intentID := make([]byte, 32)
	if _, err := rand.Read(intentID); err != nil {
		return err
	}

	req := &rootlayer.SubmitDirectIntentRequest{
		IntentID:      encoding.Hash32(encoding.BytesToHex(intentID)),
		SubnetID:      encoding.Hash32(*subnetID),
		SettleChain:   chain,
		IntentType:    *intentType,
		Params:        rootlayer.IntentParams{IntentRaw: []byte(*payload), Metadata: []byte(*metadata)},
		Amount:        encoding.Uint256(*amount),
		Deadline:      time.Now().Add(*ttl).Unix(),
		TargetAgent:   *targetAgent,
		TargetAgentID: encoding.Uint256(*targetID),
	}

	resp, err := client.SubmitDirectIntent(ctx, req)
	if err != nil {
		return err
	}
	lg.Info("直连意图已提交",
		"ok", resp.OK,
		"intent_id", resp.IntentID,
		"status", resp.Status,
		"msg", resp.Msg)
	if resp.Result != nil {
		lg.Info("执行结果",
			"success", resp.Result.Success,
			"result_hash", resp.Result.ResultHash,
			"result_data", string(resp.Result.ResultData))
	}
	return nil
}
