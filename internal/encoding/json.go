package encoding

import (
	"encoding/json"

	xerrors "PIN-RootLayer/internal/errors"
)

// Bytes 是对外传输的字节负载：入站兼容 0x 十六进制与 base64，出站统一 base64。
type Bytes []byte

// MarshalJSON 实现 json.Marshaler。
func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(BytesToBase64(b))
}

// UnmarshalJSON 实现 json.Unmarshaler。
func (b *Bytes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return xerrors.Wrap(xerrors.CodeEncodingFailure, err, "字节字段必须为字符串")
	}
	raw, err := ParseBytes(s)
	if err != nil {
		return err
	}
	*b = raw
	return nil
}

// Hash32 是 32 字节摘要的十六进制传输形式，始终保持小写 0x 表示。
type Hash32 string

// NewHash32 归一化任意 32 字节表示。
func NewHash32(value any) (Hash32, error) {
	raw, err := ParseBytes32(value)
	if err != nil {
		return "", err
	}
	return Hash32(BytesToHex(raw)), nil
}

// Bytes 返回底层的 32 字节。
func (h Hash32) Bytes() ([]byte, error) {
	return ParseBytes32(string(h))
}

// UnmarshalJSON 实现 json.Unmarshaler，入站即完成归一化校验。
func (h *Hash32) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return xerrors.Wrap(xerrors.CodeEncodingFailure, err, "哈希字段必须为字符串")
	}
	normalized, err := NormalizeHash32Hex(s)
	if err != nil {
		return err
	}
	*h = Hash32(normalized)
	return nil
}

// Uint256 是 256 位无符号整数的传输形式：入站兼容数字与字符串（十进制或 0x 十六进制），
// 出站统一为十进制字符串，避免 JSON 数字的精度丢失。
type Uint256 string

// NewUint256 归一化任意整数表示。
func NewUint256(value any) (Uint256, error) {
	s, err := Uint256ToDecimal(value)
	if err != nil {
		return "", err
	}
	return Uint256(s), nil
}

// String 返回十进制表示，空值视为 0。
func (u Uint256) String() string {
	if u == "" {
		return "0"
	}
	return string(u)
}

// MarshalJSON 实现 json.Marshaler。
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON 实现 json.Unmarshaler。
func (u *Uint256) UnmarshalJSON(data []byte) error {
	token := string(data)
	if token == "null" {
		*u = ""
		return nil
	}
	if len(token) >= 2 && token[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return xerrors.Wrap(xerrors.CodeEncodingFailure, err, "非法 uint256 字段")
		}
		token = s
	}
	normalized, err := Uint256ToDecimal(token)
	if err != nil {
		return err
	}
	*u = Uint256(normalized)
	return nil
}
