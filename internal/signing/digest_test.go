package signing

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"PIN-RootLayer/internal/encoding"
)

// 测试夹具与链上验证方使用的公开样例保持一致。
const (
	testIntentID      = "0x1111111111111111111111111111111111111111111111111111111111111111"
	testSubnetID      = "0x0000000000000000000000000000000000000000000000000000000000000001"
	testRequester     = "0xf39Fd6e51aad88F6F4ce6aB8827279cfFFb92266"
	testAgent         = "0x9290085Cd66bD1A3C7D277EF7DBcbD2e98457b6f"
	testIntentManager = "0xB7f8BC63BbcaD18155201308C8f3540b07f84F5e"
	testChainID       = 31337
	testDeadline      = 1822275330
)

// slot 系列辅助函数独立于 ABI 库拼装 32 字节槽位，用于交叉验证摘要编码。
func slotBytes32(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := encoding.ParseBytes32(v)
	if err != nil {
		t.Fatalf("slot bytes32: %v", err)
	}
	return raw
}

func slotAddress(t *testing.T, addr string) []byte {
	t.Helper()
	raw, err := encoding.AddressTo32(addr)
	if err != nil {
		t.Fatalf("slot address: %v", err)
	}
	return raw
}

func slotUint(t *testing.T, v int64) []byte {
	t.Helper()
	raw, err := encoding.UintTo32(big.NewInt(v))
	if err != nil {
		t.Fatalf("slot uint: %v", err)
	}
	return raw
}

func mustParamsHash(t *testing.T) []byte {
	t.Helper()
	ph, err := ParamsHash([]byte("pingraw"), []byte("-test meta-"))
	if err != nil {
		t.Fatalf("params hash: %v", err)
	}
	return ph
}

func TestIntentDigestMatchesManualEncoding(t *testing.T) {
	ph := mustParamsHash(t)
	digest, err := IntentDigest(IntentParams{
		IntentID:      testIntentID,
		SubnetID:      testSubnetID,
		Requester:     strings.ToLower(testRequester), // 归一化由摘要构造内部完成
		IntentType:    "test",
		ParamsHash:    ph,
		Deadline:      testDeadline,
		BudgetToken:   encoding.ZeroAddress,
		Budget:        0,
		IntentManager: testIntentManager,
		ChainID:       testChainID,
	})
	if err != nil {
		t.Fatalf("intent digest: %v", err)
	}

	manual := encoding.Keccak256(
		IntentTypeHash,
		slotBytes32(t, testIntentID),
		slotBytes32(t, testSubnetID),
		slotAddress(t, testRequester),
		encoding.KeccakText("test"),
		ph,
		slotUint(t, testDeadline),
		slotAddress(t, encoding.ZeroAddress),
		slotUint(t, 0),
		slotAddress(t, testIntentManager),
		slotUint(t, testChainID),
	)
	if !bytes.Equal(digest, manual) {
		t.Fatalf("digest mismatch:\n got %x\nwant %x", digest, manual)
	}
}

func TestDirectIntentDigestMatchesManualEncoding(t *testing.T) {
	ph := mustParamsHash(t)
	digest, err := DirectIntentDigest(DirectIntentParams{
		IntentID:      testIntentID,
		SubnetID:      testSubnetID,
		Requester:     testRequester,
		IntentType:    "test",
		ParamsHash:    ph,
		Deadline:      testDeadline,
		PaymentToken:  encoding.ZeroAddress,
		Amount:        "0",
		TargetAgent:   testAgent,
		IntentManager: testIntentManager,
		ChainID:       testChainID,
	})
	if err != nil {
		t.Fatalf("direct intent digest: %v", err)
	}

	manual := encoding.Keccak256(
		DirectIntentTypeHash,
		slotBytes32(t, testIntentID),
		slotBytes32(t, testSubnetID),
		slotAddress(t, testRequester),
		encoding.KeccakText("test"),
		ph,
		slotUint(t, testDeadline),
		slotAddress(t, encoding.ZeroAddress),
		slotUint(t, 0),
		slotAddress(t, testAgent),
		slotAddress(t, testIntentManager),
		slotUint(t, testChainID),
	)
	if !bytes.Equal(digest, manual) {
		t.Fatalf("digest mismatch:\n got %x\nwant %x", digest, manual)
	}
}

func TestAssignmentDigestMatchesManualEncoding(t *testing.T) {
	assignmentID := "0x" + strings.Repeat("22", 32)
	bidID := "0x" + strings.Repeat("33", 32)

	digest, err := AssignmentDigest(AssignmentParams{
		AssignmentID:  assignmentID,
		IntentID:      testIntentID,
		BidID:         bidID,
		Agent:         testAgent,
		Status:        2,
		Matcher:       testRequester,
		IntentManager: testIntentManager,
		ChainID:       testChainID,
	})
	if err != nil {
		t.Fatalf("assignment digest: %v", err)
	}

	manual := encoding.Keccak256(
		AssignmentTypeHash,
		slotBytes32(t, assignmentID),
		slotBytes32(t, testIntentID),
		slotBytes32(t, bidID),
		slotAddress(t, testAgent),
		slotUint(t, 2),
		slotAddress(t, testRequester),
		slotAddress(t, testIntentManager),
		slotUint(t, testChainID),
	)
	if !bytes.Equal(digest, manual) {
		t.Fatalf("digest mismatch:\n got %x\nwant %x", digest, manual)
	}
}

func TestValidationDigestMatchesManualEncoding(t *testing.T) {
	assignmentID := "0x" + strings.Repeat("22", 32)
	resultHash := "0x" + strings.Repeat("44", 32)
	proofHash := "0x" + strings.Repeat("55", 32)
	rootHash := "0x" + strings.Repeat("66", 32)

	digest, err := ValidationDigest(ValidationParams{
		IntentID:      testIntentID,
		AssignmentID:  assignmentID,
		SubnetID:      testSubnetID,
		Agent:         testAgent,
		ResultHash:    resultHash,
		ProofHash:     proofHash,
		RootHeight:    7,
		RootHash:      rootHash,
		IntentManager: testIntentManager,
		ChainID:       testChainID,
	})
	if err != nil {
		t.Fatalf("validation digest: %v", err)
	}

	manual := encoding.Keccak256(
		ValidationTypeHash,
		slotBytes32(t, testIntentID),
		slotBytes32(t, assignmentID),
		slotBytes32(t, testSubnetID),
		slotAddress(t, testAgent),
		slotBytes32(t, resultHash),
		slotBytes32(t, proofHash),
		slotUint(t, 7),
		slotBytes32(t, rootHash),
		slotAddress(t, testIntentManager),
		slotUint(t, testChainID),
	)
	if !bytes.Equal(digest, manual) {
		t.Fatalf("digest mismatch:\n got %x\nwant %x", digest, manual)
	}
}

func TestValidationBatchDigestMatchesManualEncoding(t *testing.T) {
	items := []ValidationItem{{
		IntentID:     testIntentID,
		AssignmentID: "0x" + strings.Repeat("22", 32),
		Agent:        testAgent,
		ResultHash:   "0x" + strings.Repeat("44", 32),
		ProofHash:    "0x" + strings.Repeat("55", 32),
	}}
	itemsHash, err := ItemsHash(items)
	if err != nil {
		t.Fatalf("items hash: %v", err)
	}
	rootHash := "0x" + strings.Repeat("66", 32)

	digest, err := ValidationBatchDigest(ValidationBatchParams{
		SubnetID:      testSubnetID,
		ItemsHash:     itemsHash,
		RootHeight:    7,
		RootHash:      rootHash,
		IntentManager: testIntentManager,
		ChainID:       testChainID,
	})
	if err != nil {
		t.Fatalf("validation batch digest: %v", err)
	}

	manual := encoding.Keccak256(
		ValidationBatchTypeHash,
		slotBytes32(t, testSubnetID),
		itemsHash,
		slotUint(t, 7),
		slotBytes32(t, rootHash),
		slotAddress(t, testIntentManager),
		slotUint(t, testChainID),
	)
	if !bytes.Equal(digest, manual) {
		t.Fatalf("digest mismatch:\n got %x\nwant %x", digest, manual)
	}
}

func TestAgentConnectDigestMatchesManualEncoding(t *testing.T) {
	nonce := bytes.Repeat([]byte{0xab}, 32)

	digest, err := AgentConnectDigest(AgentConnectParams{
		AgentAddress: testAgent,
		Timestamp:    testDeadline,
		RandomNonce:  nonce,
		AgentID:      "1",
	})
	if err != nil {
		t.Fatalf("agent connect digest: %v", err)
	}

	manual := encoding.Keccak256(
		AgentConnectTypeHash,
		slotAddress(t, testAgent),
		slotUint(t, testDeadline),
		nonce,
		slotUint(t, 1),
	)
	if !bytes.Equal(digest, manual) {
		t.Fatalf("digest mismatch:\n got %x\nwant %x", digest, manual)
	}
}

func TestDigestRejectsInvalidFields(t *testing.T) {
	ph := mustParamsHash(t)
	base := IntentParams{
		IntentID:      testIntentID,
		SubnetID:      testSubnetID,
		Requester:     testRequester,
		IntentType:    "test",
		ParamsHash:    ph,
		Deadline:      testDeadline,
		BudgetToken:   encoding.ZeroAddress,
		Budget:        0,
		IntentManager: testIntentManager,
		ChainID:       testChainID,
	}

	bad := base
	bad.IntentID = "0x1234"
	if _, err := IntentDigest(bad); err == nil {
		t.Fatal("expected error for short intent id")
	}

	bad = base
	bad.Requester = "not-an-address"
	if _, err := IntentDigest(bad); err == nil {
		t.Fatal("expected error for malformed requester")
	}

	bad = base
	bad.Deadline = -1
	if _, err := IntentDigest(bad); err == nil {
		t.Fatal("expected error for negative deadline")
	}

	bad = base
	bad.Budget = true
	if _, err := IntentDigest(bad); err == nil {
		t.Fatal("expected error for boolean budget")
	}
}
