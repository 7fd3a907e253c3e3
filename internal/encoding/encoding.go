package encoding

import (
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strings"

	xerrors "PIN-RootLayer/internal/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroAddress 表示"无代币/原生资产"的全零地址。
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// maxUintBits 是 uint256 的位宽上限。
const maxUintBits = 256

// Ensure0x 统一十六进制字符串的 0x 前缀（兼容 0X）。
func Ensure0x(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return "0x" + s[2:]
	}
	return "0x" + s
}

// NormalizeAddress 将任意大小写、可缺省 0x 前缀的地址归一化为 EIP-55 校验和形式。
// 仅有 "0x" 时返回全零地址；其余非法输入返回 ENCODING_FAILURE。
func NormalizeAddress(addr string) (string, error) {
	s := Ensure0x(addr)
	if s == "0x" {
		return ZeroAddress, nil
	}
	if !common.IsHexAddress(s) {
		return "", xerrors.Newf(xerrors.CodeEncodingFailure, "非法地址: %s", addr)
	}
	return common.HexToAddress(s).Hex(), nil
}

// NormalizeHash32Hex 将 32 字节哈希的十六进制表示归一化为小写 0x 形式。
func NormalizeHash32Hex(v string) (string, error) {
	s := strings.ToLower(Ensure0x(v))
	if len(s) != 66 {
		return "", xerrors.Newf(xerrors.CodeEncodingFailure, "期望 32 字节十六进制串，实际长度 %d: %s", len(s), v)
	}
	if _, err := hex.DecodeString(s[2:]); err != nil {
		return "", xerrors.Wrap(xerrors.CodeEncodingFailure, err, "非法十六进制串: "+v)
	}
	return s, nil
}

// ParseBytes 将调用方提供的任意字节表示解析为原始字节。
// 支持 nil/空串（返回空）、原始字节、0x 十六进制串与严格 base64。
func ParseBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case Bytes:
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return []byte{}, nil
		}
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			raw, err := hex.DecodeString(s[2:])
			if err != nil {
				return nil, xerrors.Wrap(xerrors.CodeEncodingFailure, err, "非法 0x 十六进制字节串: "+v)
			}
			return raw, nil
		}
		raw, err := base64.StdEncoding.Strict().DecodeString(s)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.CodeEncodingFailure, err, "非法 base64 字节串: "+v)
		}
		return raw, nil
	default:
		return nil, xerrors.Newf(xerrors.CodeEncodingFailure, "不支持的字节类型: %T", value)
	}
}

// ParseBytes32 在 ParseBytes 的基础上要求解析结果恰为 32 字节。
func ParseBytes32(value any) ([]byte, error) {
	raw, err := ParseBytes(value)
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, xerrors.Newf(xerrors.CodeEncodingFailure, "期望 32 字节，实际 %d 字节", len(raw))
	}
	return raw, nil
}

// ParseUint256 将调用方提供的整数表示解析为非负大整数。
// 布尔值被显式拒绝；浮点数必须表示精确整数；0x 前缀按 16 进制解析，否则按 10 进制。
func ParseUint256(value any) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return new(big.Int), nil
	case bool:
		return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 不接受布尔值")
	case int:
		return uintFromInt64(int64(v))
	case int8:
		return uintFromInt64(int64(v))
	case int16:
		return uintFromInt64(int64(v))
	case int32:
		return uintFromInt64(int64(v))
	case int64:
		return uintFromInt64(v)
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case *big.Int:
		if v == nil {
			return new(big.Int), nil
		}
		if v.Sign() < 0 {
			return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 不能为负数")
		}
		return new(big.Int).Set(v), nil
	case float64:
		return uintFromFloat(v)
	case float32:
		return uintFromFloat(float64(v))
	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s = s[2:]
			base = 16
		}
		n, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, xerrors.Newf(xerrors.CodeEncodingFailure, "非法 uint256 字符串: %s", v)
		}
		if n.Sign() < 0 {
			return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 不能为负数")
		}
		return n, nil
	default:
		return nil, xerrors.Newf(xerrors.CodeEncodingFailure, "不支持的 uint256 类型: %T", value)
	}
}

func uintFromInt64(v int64) (*big.Int, error) {
	if v < 0 {
		return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 不能为负数")
	}
	return big.NewInt(v), nil
}

func uintFromFloat(f float64) (*big.Int, error) {
	n, acc := new(big.Float).SetFloat64(f).Int(nil)
	if acc != big.Exact {
		return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 必须为精确整数")
	}
	if n.Sign() < 0 {
		return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 不能为负数")
	}
	return n, nil
}

// Uint256ToDecimal 将任意整数表示归一化为十进制字符串，用于对外序列化。
func Uint256ToDecimal(value any) (string, error) {
	n, err := ParseUint256(value)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

// LeftPad32 在左侧补零到 32 字节；超长输入返回错误，绝不截断。
func LeftPad32(b []byte) ([]byte, error) {
	if len(b) > 32 {
		return nil, xerrors.Newf(xerrors.CodeEncodingFailure, "无法左补齐超过 32 字节的输入（%d 字节）", len(b))
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out, nil
}

// UintTo32 输出整数的 32 字节大端表示。
func UintTo32(value *big.Int) ([]byte, error) {
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 不能为负数")
	}
	if value.BitLen() > maxUintBits {
		return nil, xerrors.New(xerrors.CodeEncodingFailure, "uint256 超出取值范围")
	}
	return value.FillBytes(make([]byte, 32)), nil
}

// AddressTo32 输出地址的 32 字节 ABI 槽位表示（左补零）。
func AddressTo32(addr string) ([]byte, error) {
	normalized, err := NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}
	return LeftPad32(common.HexToAddress(normalized).Bytes())
}

// Bytes32To32 输出 32 字节摘要的槽位表示（原样透传）。
func Bytes32To32(value any) ([]byte, error) {
	return ParseBytes32(value)
}

// Keccak256 计算若干字节片段拼接后的 keccak256 哈希。
func Keccak256(chunks ...[]byte) []byte {
	return crypto.Keccak256(chunks...)
}

// KeccakText 计算 UTF-8 文本的 keccak256 哈希。
func KeccakText(text string) []byte {
	return crypto.Keccak256([]byte(text))
}

// BytesToHex 输出 0x 前缀的十六进制表示。
func BytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// BytesToBase64 输出标准 base64 表示。
func BytesToBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// NormalizeChainKey 归一化结算链名称（去空白并转小写）。
func NormalizeChainKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
