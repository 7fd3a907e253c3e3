package signing

import (
	"crypto/ecdsa"
	"strings"

	"PIN-RootLayer/internal/encoding"
	xerrors "PIN-RootLayer/internal/errors"

	"github.com/ethereum/go-ethereum/crypto"
)

// personalMessagePrefix 是 EIP-191 个人消息前缀。待签负载不是裸摘要，
// 而是 keccak256(前缀 ‖ 摘要)，必须与验证方约定保持一致。
const personalMessagePrefix = "\x19Ethereum Signed Message:\n32"

// Signer 抽象了对 32 字节摘要的签名能力。私钥材料由实现独占持有。
type Signer interface {
	// Address 返回签名者的 EIP-55 校验和地址。
	Address() string
	// SignDigest32 对 32 字节摘要做 EIP-191 个人消息签名，返回 65 字节 r‖s‖v。
	SignDigest32(digest any) ([]byte, error)
}

// PrivateKeySigner 基于 secp256k1 私钥实现 Signer。
type PrivateKeySigner struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewPrivateKeySigner 从十六进制私钥（可带 0x 前缀）构建签名者。
func NewPrivateKeySigner(privateKey string) (*PrivateKeySigner, error) {
	hexKey := strings.TrimSpace(privateKey)
	if strings.HasPrefix(hexKey, "0x") || strings.HasPrefix(hexKey, "0X") {
		hexKey = hexKey[2:]
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "非法私钥")
	}
	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}, nil
}

// Address 返回签名者地址，构建时计算一次。
func (s *PrivateKeySigner) Address() string {
	return s.address
}

// SignDigest32 对 32 字节摘要签名。非 32 字节输入直接拒绝。
func (s *PrivateKeySigner) SignDigest32(digest any) ([]byte, error) {
	d, err := encoding.ParseBytes32(digest)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "待签摘要必须为 32 字节")
	}
	sig, err := crypto.Sign(personalHash(d), s.key)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeSigningFailure, err, "签名失败")
	}
	if len(sig) != 65 {
		return nil, xerrors.Newf(xerrors.CodeSigningFailure, "签名长度异常: %d", len(sig))
	}
	// go-ethereum 返回 v∈{0,1}，链上验证方期望 v∈{27,28}。
	sig[64] += 27
	return sig, nil
}

// RecoverAddress 从摘要与 65 字节签名中恢复签名者地址，是 SignDigest32 的逆操作。
func RecoverAddress(digest, signature any) (string, error) {
	d, err := encoding.ParseBytes32(digest)
	if err != nil {
		return "", xerrors.Wrap(xerrors.CodeSigningFailure, err, "摘要必须为 32 字节")
	}
	sig, err := encoding.ParseBytes(signature)
	if err != nil {
		return "", err
	}
	if len(sig) != 65 {
		return "", xerrors.Newf(xerrors.CodeSigningFailure, "签名必须为 65 字节，实际 %d 字节", len(sig))
	}
	normalized := make([]byte, 65)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pub, err := crypto.SigToPub(personalHash(d), normalized)
	if err != nil {
		return "", xerrors.Wrap(xerrors.CodeSigningFailure, err, "恢复签名者失败")
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

func personalHash(digest []byte) []byte {
	return encoding.Keccak256([]byte(personalMessagePrefix), digest)
}
