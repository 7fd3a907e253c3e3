package signing

import (
	"math/big"

	"PIN-RootLayer/internal/encoding"
	xerrors "PIN-RootLayer/internal/errors"

	"github.com/ethereum/go-ethereum/common"
)

// toBytes32 将任意 32 字节表示转为 ABI 槽位值。
func toBytes32(value any) ([32]byte, error) {
	var out [32]byte
	raw, err := encoding.ParseBytes32(value)
	if err != nil {
		return out, err
	}
	copy(out[:], raw)
	return out, nil
}

// toAddress 归一化地址并转为 ABI 槽位值。
func toAddress(addr string) (common.Address, error) {
	normalized, err := encoding.NormalizeAddress(addr)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(normalized), nil
}

// toUint256 解析整数并校验其落在 uint256 取值范围内。
func toUint256(value any) (*big.Int, error) {
	n, err := encoding.ParseUint256(value)
	if err != nil {
		return nil, err
	}
	if n.BitLen() > 256 {
		return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 超出取值范围")
	}
	return n, nil
}

// IntentParams 是标准意图消息的摘要输入。
// bytes32 字段兼容 0x 十六进制、base64 与原始字节；整数字段兼容十进制/0x 字符串与原生整数。
type IntentParams struct {
	IntentID      any
	SubnetID      any
	Requester     string
	IntentType    string
	ParamsHash    any
	Deadline      any
	BudgetToken   string
	Budget        any
	IntentManager string
	ChainID       any
}

// IntentDigest 构造标准意图的 32 字节待签摘要。
func IntentDigest(p IntentParams) ([]byte, error) {
	typeHash, _ := toBytes32(IntentTypeHash)
	intentID, err := toBytes32(p.IntentID)
	if err != nil {
		return nil, err
	}
	subnetID, err := toBytes32(p.SubnetID)
	if err != nil {
		return nil, err
	}
	requester, err := toAddress(p.Requester)
	if err != nil {
		return nil, err
	}
	intentType, _ := toBytes32(encoding.KeccakText(p.IntentType))
	paramsHash, err := toBytes32(p.ParamsHash)
	if err != nil {
		return nil, err
	}
	deadline, err := toUint256(p.Deadline)
	if err != nil {
		return nil, err
	}
	budgetToken, err := toAddress(p.BudgetToken)
	if err != nil {
		return nil, err
	}
	budget, err := toUint256(p.Budget)
	if err != nil {
		return nil, err
	}
	intentManager, err := toAddress(p.IntentManager)
	if err != nil {
		return nil, err
	}
	chainID, err := toUint256(p.ChainID)
	if err != nil {
		return nil, err
	}

	encoded, err := intentArgs.Pack(
		typeHash, intentID, subnetID, requester, intentType, paramsHash,
		deadline, budgetToken, budget, intentManager, chainID,
	)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "意图摘要 ABI 编码失败")
	}
	return encoding.Keccak256(encoded), nil
}

// AssignmentParams 是分配消息的摘要输入。
type AssignmentParams struct {
	AssignmentID  any
	IntentID      any
	BidID         any
	Agent         string
	Status        uint8
	Matcher       string
	IntentManager string
	ChainID       any
}

// AssignmentDigest 构造分配消息的 32 字节待签摘要。
func AssignmentDigest(p AssignmentParams) ([]byte, error) {
	typeHash, _ := toBytes32(AssignmentTypeHash)
	assignmentID, err := toBytes32(p.AssignmentID)
	if err != nil {
		return nil, err
	}
	intentID, err := toBytes32(p.IntentID)
	if err != nil {
		return nil, err
	}
	bidID, err := toBytes32(p.BidID)
	if err != nil {
		return nil, err
	}
	agent, err := toAddress(p.Agent)
	if err != nil {
		return nil, err
	}
	matcher, err := toAddress(p.Matcher)
	if err != nil {
		return nil, err
	}
	intentManager, err := toAddress(p.IntentManager)
	if err != nil {
		return nil, err
	}
	chainID, err := toUint256(p.ChainID)
	if err != nil {
		return nil, err
	}

	encoded, err := assignmentArgs.Pack(
		typeHash, assignmentID, intentID, bidID, agent, p.Status,
		matcher, intentManager, chainID,
	)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "分配摘要 ABI 编码失败")
	}
	return encoding.Keccak256(encoded), nil
}

// ValidationParams 是单条验证消息的摘要输入。
type ValidationParams struct {
	IntentID      any
	AssignmentID  any
	SubnetID      any
	Agent         string
	ResultHash    any
	ProofHash     any
	RootHeight    uint64
	RootHash      any
	IntentManager string
	ChainID       any
}

// ValidationDigest 构造验证消息的 32 字节待签摘要。
func ValidationDigest(p ValidationParams) ([]byte, error) {
	typeHash, _ := toBytes32(ValidationTypeHash)
	intentID, err := toBytes32(p.IntentID)
	if err != nil {
		return nil, err
	}
	assignmentID, err := toBytes32(p.AssignmentID)
	if err != nil {
		return nil, err
	}
	subnetID, err := toBytes32(p.SubnetID)
	if err != nil {
		return nil, err
	}
	agent, err := toAddress(p.Agent)
	if err != nil {
		return nil, err
	}
	resultHash, err := toBytes32(p.ResultHash)
	if err != nil {
		return nil, err
	}
	proofHash, err := toBytes32(p.ProofHash)
	if err != nil {
		return nil, err
	}
	rootHash, err := toBytes32(p.RootHash)
	if err != nil {
		return nil, err
	}
	intentManager, err := toAddress(p.IntentManager)
	if err != nil {
		return nil, err
	}
	chainID, err := toUint256(p.ChainID)
	if err != nil {
		return nil, err
	}

	encoded, err := validationArgs.Pack(
		typeHash, intentID, assignmentID, subnetID, agent, resultHash,
		proofHash, p.RootHeight, rootHash, intentManager, chainID,
	)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "验证摘要 ABI 编码失败")
	}
	return encoding.Keccak256(encoded), nil
}

// ValidationBatchParams 是批量验证消息的摘要输入。
type ValidationBatchParams struct {
	SubnetID      any
	ItemsHash     any
	RootHeight    uint64
	RootHash      any
	IntentManager string
	ChainID       any
}

// ValidationBatchDigest 构造批量验证消息的 32 字节待签摘要。
func ValidationBatchDigest(p ValidationBatchParams) ([]byte, error) {
	typeHash, _ := toBytes32(ValidationBatchTypeHash)
	subnetID, err := toBytes32(p.SubnetID)
	if err != nil {
		return nil, err
	}
	itemsHash, err := toBytes32(p.ItemsHash)
	if err != nil {
		return nil, err
	}
	rootHash, err := toBytes32(p.RootHash)
	if err != nil {
		return nil, err
	}
	intentManager, err := toAddress(p.IntentManager)
	if err != nil {
		return nil, err
	}
	chainID, err := toUint256(p.ChainID)
	if err != nil {
		return nil, err
	}

	encoded, err := validationBatchArgs.Pack(
		typeHash, subnetID, itemsHash, p.RootHeight, rootHash, intentManager, chainID,
	)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "批量验证摘要 ABI 编码失败")
	}
	return encoding.Keccak256(encoded), nil
}

// DirectIntentParams 是直连意图消息的摘要输入。
type DirectIntentParams struct {
	IntentID      any
	SubnetID      any
	Requester     string
	IntentType    string
	ParamsHash    any
	Deadline      any
	PaymentToken  string
	Amount        any
	TargetAgent   string
	IntentManager string
	ChainID       any
}

// DirectIntentDigest 构造直连意图的 32 字节待签摘要。
func DirectIntentDigest(p DirectIntentParams) ([]byte, error) {
	typeHash, _ := toBytes32(DirectIntentTypeHash)
	intentID, err := toBytes32(p.IntentID)
	if err != nil {
		return nil, err
	}
	subnetID, err := toBytes32(p.SubnetID)
	if err != nil {
		return nil, err
	}
	requester, err := toAddress(p.Requester)
	if err != nil {
		return nil, err
	}
	intentType, _ := toBytes32(encoding.KeccakText(p.IntentType))
	paramsHash, err := toBytes32(p.ParamsHash)
	if err != nil {
		return nil, err
	}
	deadline, err := toUint256(p.Deadline)
	if err != nil {
		return nil, err
	}
	paymentToken, err := toAddress(p.PaymentToken)
	if err != nil {
		return nil, err
	}
	amount, err := toUint256(p.Amount)
	if err != nil {
		return nil, err
	}
	targetAgent, err := toAddress(p.TargetAgent)
	if err != nil {
		return nil, err
	}
	intentManager, err := toAddress(p.IntentManager)
	if err != nil {
		return nil, err
	}
	chainID, err := toUint256(p.ChainID)
	if err != nil {
		return nil, err
	}

	encoded, err := directIntentArgs.Pack(
		typeHash, intentID, subnetID, requester, intentType, paramsHash,
		deadline, paymentToken, amount, targetAgent, intentManager, chainID,
	)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "直连意图摘要 ABI 编码失败")
	}
	return encoding.Keccak256(encoded), nil
}

// AgentConnectParams 是执行体连接握手的摘要输入。
// RandomNonce 必须是调用方新生成的 32 字节加密随机数，防止握手重放。
type AgentConnectParams struct {
	AgentAddress string
	Timestamp    any
	RandomNonce  any
	AgentID      any
}

// AgentConnectDigest 构造连接握手的 32 字节待签摘要。
func AgentConnectDigest(p AgentConnectParams) ([]byte, error) {
	typeHash, _ := toBytes32(AgentConnectTypeHash)
	agentAddress, err := toAddress(p.AgentAddress)
	if err != nil {
		return nil, err
	}
	timestamp, err := toUint256(p.Timestamp)
	if err != nil {
		return nil, err
	}
	nonce, err := toBytes32(p.RandomNonce)
	if err != nil {
		return nil, err
	}
	agentID, err := toUint256(p.AgentID)
	if err != nil {
		return nil, err
	}

	encoded, err := agentConnectArgs.Pack(typeHash, agentAddress, timestamp, nonce, agentID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "连接握手摘要 ABI 编码失败")
	}
	return encoding.Keccak256(encoded), nil
}
