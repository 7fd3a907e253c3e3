package chains

import (
	"sort"

	"PIN-RootLayer/internal/encoding"
	xerrors "PIN-RootLayer/internal/errors"
)

// Config 描述一条结算链：链 ID 与验证合约（IntentManager）地址。
type Config struct {
	ChainID              int64  `json:"chainId" yaml:"chain_id"`
	IntentManagerAddress string `json:"intentManagerAddress" yaml:"intent_manager_address"`
}

// normalized 校验并归一化链配置。链 ID 必须为正，地址归一化为校验和形式。
func (c Config) normalized() (Config, error) {
	if c.ChainID <= 0 {
		return Config{}, xerrors.Newf(xerrors.CodeConfigurationFailure, "链 ID 必须大于 0，实际 %d", c.ChainID)
	}
	addr, err := encoding.NormalizeAddress(c.IntentManagerAddress)
	if err != nil {
		return Config{}, xerrors.Wrap(xerrors.CodeConfigurationFailure, err, "非法验证合约地址")
	}
	return Config{ChainID: c.ChainID, IntentManagerAddress: addr}, nil
}

// Registry 维护结算链名称到链配置的只读映射。
// 构建完成后不再变更，可被多个签名流程并发读取。
type Registry struct {
	chains map[string]Config
}

// NewRegistry 从调用方提供的配置构建注册表。
// 名称在插入时做大小写与空白归一化；配置校验在注册阶段完成，而非查询阶段。
func NewRegistry(configs map[string]Config) (*Registry, error) {
	chains := make(map[string]Config, len(configs))
	for name, cfg := range configs {
		normalized, err := cfg.normalized()
		if err != nil {
			return nil, xerrors.Wrap(xerrors.CodeConfigurationFailure, err, "链 "+name+" 配置非法")
		}
		chains[encoding.NormalizeChainKey(name)] = normalized
	}
	return &Registry{chains: chains}, nil
}

// Resolve 按名称查询链配置，名称不存在时返回 CONFIGURATION_FAILURE。
func (r *Registry) Resolve(name string) (Config, error) {
	if r == nil {
		return Config{}, xerrors.New(xerrors.CodeConfigurationFailure, "链注册表未初始化")
	}
	cfg, ok := r.chains[encoding.NormalizeChainKey(name)]
	if !ok {
		return Config{}, xerrors.Newf(xerrors.CodeConfigurationFailure, "未知结算链: %s", name)
	}
	return cfg, nil
}

// Names 返回已注册的链名称（归一化后），按字典序排列。
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.chains))
	for name := range r.chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 返回已注册的链数量。
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.chains)
}
