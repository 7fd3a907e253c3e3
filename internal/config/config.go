package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	xerrors "PIN-RootLayer/internal/errors"
)

// Config 汇总示例程序运行所需的全部配置。
type Config struct {
	RootLayer RootLayerConfig `json:"rootlayer"`
	Relay     RelayConfig     `json:"relay"`
	Chains    ChainsConfig    `json:"chains"`
	Signer    SignerConfig    `json:"signer"`
	Agent     AgentConfig     `json:"agent"`
	Log       LogConfig       `json:"log"`
}

// RootLayerConfig 描述意图网关的 HTTP 接入配置。
type RootLayerConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// RelayConfig 描述中继服务的 gRPC 接入配置。
type RelayConfig struct {
	Target string `json:"target"`
	UseTLS bool   `json:"use_tls"`
}

// ChainsConfig 指定结算链定义文件的路径。
type ChainsConfig struct {
	DefinitionsPath string `json:"definitions_path"`
	DefaultChain    string `json:"default_chain"`
}

// SignerConfig 指定签名私钥的来源。
// 私钥只经环境变量传递，不落在配置文件里。
type SignerConfig struct {
	PrivateKeyEnv string `json:"private_key_env"`
}

// AgentConfig 描述执行体的会话参数。
type AgentConfig struct {
	AgentID            string `json:"agent_id"`
	HeartbeatSeconds   int    `json:"heartbeat_seconds"`
	JoinTimeoutSeconds int    `json:"join_timeout_seconds"`
	ClientVersion      string `json:"client_version"`
}

// LogConfig 描述日志输出配置。
type LogConfig struct {
	Level       string   `json:"level"`
	Format      string   `json:"format"`
	OutputPaths []string `json:"output_paths"`
}

// Load 从 JSON 文件加载配置并补齐默认值。路径为空时返回纯默认配置。
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.CodeConfigurationFailure, err, "读取配置文件失败")
		}
		if err := json.Unmarshal(content, cfg); err != nil {
			return nil, xerrors.Wrap(xerrors.CodeConfigurationFailure, err, "解析配置文件失败")
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RootLayer.BaseURL == "" {
		c.RootLayer.BaseURL = "http://localhost:8080"
	}
	if c.RootLayer.TimeoutSeconds <= 0 {
		c.RootLayer.TimeoutSeconds = 30
	}
	if c.Relay.Target == "" {
		c.Relay.Target = "localhost:9090"
	}
	if c.Signer.PrivateKeyEnv == "" {
		c.Signer.PrivateKeyEnv = "ROOTLAYER_PRIVATE_KEY"
	}
	if c.Agent.HeartbeatSeconds <= 0 {
		c.Agent.HeartbeatSeconds = 10
	}
	if c.Agent.JoinTimeoutSeconds <= 0 {
		c.Agent.JoinTimeoutSeconds = 2
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stderr"}
	}
}

// Validate 校验配置的基本合法性。
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.RootLayer.BaseURL, "http://") && !strings.HasPrefix(c.RootLayer.BaseURL, "https://") {
		return xerrors.Newf(xerrors.CodeConfigurationFailure, "rootlayer.base_url 必须以 http:// 或 https:// 开头: %s", c.RootLayer.BaseURL)
	}
	if strings.TrimSpace(c.Relay.Target) == "" {
		return xerrors.New(xerrors.CodeConfigurationFailure, "relay.target 不能为空")
	}
	return nil
}

// HTTPTimeout 返回 HTTP 客户端超时时长。
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.RootLayer.TimeoutSeconds) * time.Second
}

// HeartbeatInterval 返回心跳间隔时长。
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.Agent.HeartbeatSeconds) * time.Second
}

// PrivateKey 从环境变量读取签名私钥。
func (c *Config) PrivateKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(c.Signer.PrivateKeyEnv))
	if key == "" {
		return "", xerrors.Newf(xerrors.CodeConfigurationFailure, "环境变量 %s 未设置签名私钥", c.Signer.PrivateKeyEnv)
	}
	return key, nil
}
