package signing

import (
	"PIN-RootLayer/internal/encoding"
	xerrors "PIN-RootLayer/internal/errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ValidationItem 是批量验证中的单条目，五元组顺序与链上定义一致。
type ValidationItem struct {
	IntentID     any
	AssignmentID any
	Agent        string
	ResultHash   any
	ProofHash    any
}

// abiValidationItem 是 ValidationItem 的 ABI 反射形态，字段顺序不可调整。
type abiValidationItem struct {
	IntentId     [32]byte
	AssignmentId [32]byte
	Agent        common.Address
	ResultHash   [32]byte
	ProofHash    [32]byte
}

var itemsArgs = abi.Arguments{
	{Type: mustType("tuple[]", []abi.ArgumentMarshaling{
		{Name: "intentId", Type: "bytes32"},
		{Name: "assignmentId", Type: "bytes32"},
		{Name: "agent", Type: "address"},
		{Name: "resultHash", Type: "bytes32"},
		{Name: "proofHash", Type: "bytes32"},
	})},
}

// ItemsHash 计算批量验证条目数组的摘要：对动态数组做 ABI 编码后取 keccak256。
// 条目顺序敏感，重排会改变结果；空数组被拒绝。
func ItemsHash(items []ValidationItem) ([]byte, error) {
	if len(items) == 0 {
		return nil, xerrors.New(xerrors.CodeSigningFailure, "验证条目不能为空")
	}

	tuples := make([]abiValidationItem, 0, len(items))
	for _, item := range items {
		intentID, err := toBytes32(item.IntentID)
		if err != nil {
			return nil, err
		}
		assignmentID, err := toBytes32(item.AssignmentID)
		if err != nil {
			return nil, err
		}
		agent, err := toAddress(item.Agent)
		if err != nil {
			return nil, err
		}
		resultHash, err := toBytes32(item.ResultHash)
		if err != nil {
			return nil, err
		}
		proofHash, err := toBytes32(item.ProofHash)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, abiValidationItem{
			IntentId:     intentID,
			AssignmentId: assignmentID,
			Agent:        agent,
			ResultHash:   resultHash,
			ProofHash:    proofHash,
		})
	}

	encoded, err := itemsArgs.Pack(tuples)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "验证条目 ABI 编码失败")
	}
	return encoding.Keccak256(encoded), nil
}
