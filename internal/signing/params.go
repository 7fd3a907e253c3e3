package signing

import (
	"PIN-RootLayer/internal/encoding"
	xerrors "PIN-RootLayer/internal/errors"
)

// ParamsHash 将请求负载与元数据绑定为单个 32 字节摘要。
// 负载不能为空；元数据可为空。
func ParamsHash(intentRaw, metadata any) ([]byte, error) {
	raw, err := encoding.ParseBytes(intentRaw)
	if err != nil {
		return nil, err
	}
	meta, err := encoding.ParseBytes(metadata)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, xerrors.New(xerrors.CodeSigningFailure, "params.intentRaw 不能为空")
	}
	return encoding.Keccak256(raw, meta), nil
}
