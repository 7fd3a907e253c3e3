package signing

import (
	"bytes"
	"testing"

	"PIN-RootLayer/internal/encoding"
	xerrors "PIN-RootLayer/internal/errors"
)

func TestParamsHashBindsPayloadAndMetadata(t *testing.T) {
	got, err := ParamsHash([]byte("pingraw"), []byte("-test meta-"))
	if err != nil {
		t.Fatalf("params hash: %v", err)
	}
	want := encoding.Keccak256([]byte("pingraw-test meta-"))
	if !bytes.Equal(got, want) {
		t.Fatalf("expected keccak256 of concatenation:\n got %x\nwant %x", got, want)
	}

	// 元数据不同则摘要不同。
	other, err := ParamsHash([]byte("pingraw"), []byte("other"))
	if err != nil {
		t.Fatalf("params hash: %v", err)
	}
	if bytes.Equal(got, other) {
		t.Fatal("expected different metadata to change the hash")
	}
}

func TestParamsHashAcceptsTextualForms(t *testing.T) {
	want, err := ParamsHash([]byte("pingraw"), nil)
	if err != nil {
		t.Fatalf("params hash: %v", err)
	}
	got, err := ParamsHash("0x70696e67726177", "")
	if err != nil {
		t.Fatalf("params hash from hex: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("expected hex payload to hash identically to raw bytes")
	}
}

func TestParamsHashRejectsEmptyPayload(t *testing.T) {
	for _, metadata := range []any{nil, []byte{}, []byte("meta"), "0xabcd"} {
		if _, err := ParamsHash(nil, metadata); err == nil {
			t.Fatalf("expected error for empty payload with metadata %v", metadata)
		} else if !xerrors.IsCode(err, xerrors.CodeSigningFailure) {
			t.Fatalf("expected SIGNING_FAILURE, got %v", err)
		}
	}
}
