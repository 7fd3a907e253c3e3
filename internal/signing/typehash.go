package signing

import (
	"fmt"

	"PIN-RootLayer/internal/encoding"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// 类型签名字符串与链上验证合约保持逐字节一致，任何改动都会使签名失效。
const (
	IntentTypeHashDef          = "PIN_INTENT_V1(bytes32,bytes32,address,bytes32,bytes32,uint256,address,uint256,address,uint256)"
	AssignmentTypeHashDef      = "PIN_ASSIGNMENT_V1(bytes32,bytes32,bytes32,address,uint8,address,address,uint256)"
	ValidationTypeHashDef      = "PIN_VALIDATION_V1(bytes32,bytes32,bytes32,address,bytes32,bytes32,uint64,bytes32,address,uint256)"
	ValidationBatchTypeHashDef = "PIN_VALIDATION_BATCH_V1(bytes32,bytes32,uint64,bytes32,address,uint256)"
	DirectIntentTypeHashDef    = "PIN_DIRECT_INTENT_V1(bytes32,bytes32,address,bytes32,bytes32,uint256,address,uint256,address,address,uint256)"
	AgentConnectTypeHashDef    = "PIN_AGENT_CONNECT_V1(address,uint256,bytes32,uint256)"
)

// 各消息类型的域类型哈希，进程启动时计算一次，之后只读。
var (
	IntentTypeHash          = encoding.KeccakText(IntentTypeHashDef)
	AssignmentTypeHash      = encoding.KeccakText(AssignmentTypeHashDef)
	ValidationTypeHash      = encoding.KeccakText(ValidationTypeHashDef)
	ValidationBatchTypeHash = encoding.KeccakText(ValidationBatchTypeHashDef)
	DirectIntentTypeHash    = encoding.KeccakText(DirectIntentTypeHashDef)
	AgentConnectTypeHash    = encoding.KeccakText(AgentConnectTypeHashDef)
)

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(fmt.Sprintf("signing: 构建 ABI 类型 %s 失败: %v", t, err))
	}
	return typ
}

var (
	typeBytes32 = mustType("bytes32", nil)
	typeAddress = mustType("address", nil)
	typeUint256 = mustType("uint256", nil)
	typeUint64  = mustType("uint64", nil)
	typeUint8   = mustType("uint8", nil)
)

// 每种消息类型的 ABI 元组布局，首位恒为类型哈希。
var (
	intentArgs = abi.Arguments{
		{Type: typeBytes32}, // typeHash
		{Type: typeBytes32}, // intentId
		{Type: typeBytes32}, // subnetId
		{Type: typeAddress}, // requester
		{Type: typeBytes32}, // keccak256(intentType)
		{Type: typeBytes32}, // paramsHash
		{Type: typeUint256}, // deadline
		{Type: typeAddress}, // budgetToken
		{Type: typeUint256}, // budget
		{Type: typeAddress}, // intentManager
		{Type: typeUint256}, // chainId
	}

	assignmentArgs = abi.Arguments{
		{Type: typeBytes32}, // typeHash
		{Type: typeBytes32}, // assignmentId
		{Type: typeBytes32}, // intentId
		{Type: typeBytes32}, // bidId
		{Type: typeAddress}, // agent
		{Type: typeUint8},   // status
		{Type: typeAddress}, // matcher
		{Type: typeAddress}, // intentManager
		{Type: typeUint256}, // chainId
	}

	validationArgs = abi.Arguments{
		{Type: typeBytes32}, // typeHash
		{Type: typeBytes32}, // intentId
		{Type: typeBytes32}, // assignmentId
		{Type: typeBytes32}, // subnetId
		{Type: typeAddress}, // agent
		{Type: typeBytes32}, // resultHash
		{Type: typeBytes32}, // proofHash
		{Type: typeUint64},  // rootHeight
		{Type: typeBytes32}, // rootHash
		{Type: typeAddress}, // intentManager
		{Type: typeUint256}, // chainId
	}

	validationBatchArgs = abi.Arguments{
		{Type: typeBytes32}, // typeHash
		{Type: typeBytes32}, // subnetId
		{Type: typeBytes32}, // itemsHash
		{Type: typeUint64},  // rootHeight
		{Type: typeBytes32}, // rootHash
		{Type: typeAddress}, // intentManager
		{Type: typeUint256}, // chainId
	}

	directIntentArgs = abi.Arguments{
		{Type: typeBytes32}, // typeHash
		{Type: typeBytes32}, // intentId
		{Type: typeBytes32}, // subnetId
		{Type: typeAddress}, // requester
		{Type: typeBytes32}, // keccak256(intentType)
		{Type: typeBytes32}, // paramsHash
		{Type: typeUint256}, // deadline
		{Type: typeAddress}, // paymentToken
		{Type: typeUint256}, // amount
		{Type: typeAddress}, // targetAgent
		{Type: typeAddress}, // intentManager
		{Type: typeUint256}, // chainId
	}

	agentConnectArgs = abi.Arguments{
		{Type: typeBytes32}, // typeHash
		{Type: typeAddress}, // agentAddress
		{Type: typeUint256}, // timestamp
		{Type: typeBytes32}, // randomNonce
		{Type: typeUint256}, // agentId
	}
)
