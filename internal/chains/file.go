package chains

import (
	"os"
	"strings"

	xerrors "PIN-RootLayer/internal/errors"

	"gopkg.in/yaml.v3"
)

// Definitions 对应链定义文件 chains.yaml 的结构。
type Definitions struct {
	Chains map[string]Definition `yaml:"chains"`
}

// Definition 描述单条链的配置项。
type Definition struct {
	ChainID              int64  `yaml:"chain_id"`
	IntentManagerAddress string `yaml:"intent_manager_address"`
	Description          string `yaml:"description"`
}

// LoadDefinitions 解析链定义 YAML 文件。路径为空时返回空定义。
func LoadDefinitions(path string) (Definitions, error) {
	if strings.TrimSpace(path) == "" {
		return Definitions{Chains: map[string]Definition{}}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Definitions{}, xerrors.Wrap(xerrors.CodeConfigurationFailure, err, "读取链定义文件失败")
	}

	var defs Definitions
	if err := yaml.Unmarshal(content, &defs); err != nil {
		return Definitions{}, xerrors.Wrap(xerrors.CodeConfigurationFailure, err, "解析链定义文件失败")
	}
	if defs.Chains == nil {
		defs.Chains = map[string]Definition{}
	}
	return defs, nil
}

// LoadRegistry 从链定义文件直接构建注册表。
func LoadRegistry(path string) (*Registry, error) {
	defs, err := LoadDefinitions(path)
	if err != nil {
		return nil, err
	}
	configs := make(map[string]Config, len(defs.Chains))
	for name, def := range defs.Chains {
		configs[name] = Config{
			ChainID:              def.ChainID,
			IntentManagerAddress: def.IntentManagerAddress,
		}
	}
	return NewRegistry(configs)
}
