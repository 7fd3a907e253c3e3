package encoding

import (
	"bytes"
	"math/big"
	"strings"
	"testing"
)

const (
	checksumAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cfFFb92266"
)

func TestNormalizeAddressCaseInsensitive(t *testing.T) {
	variants := []string{
		checksumAddr,
		strings.ToLower(checksumAddr),
		"0x" + strings.ToUpper(checksumAddr[2:]),
		checksumAddr[2:], // 0x 前缀可缺省
	}
	for _, input := range variants {
		got, err := NormalizeAddress(input)
		if err != nil {
			t.Fatalf("normalize %q: %v", input, err)
		}
		if got != checksumAddr {
			t.Fatalf("normalize %q: expected %s, got %s", input, checksumAddr, got)
		}
	}
}

func TestNormalizeAddressIdempotent(t *testing.T) {
	once, err := NormalizeAddress(strings.ToLower(checksumAddr))
	if err != nil {
		t.Fatalf("first normalize: %v", err)
	}
	twice, err := NormalizeAddress(once)
	if err != nil {
		t.Fatalf("second normalize: %v", err)
	}
	if once != twice {
		t.Fatalf("expected idempotent normalization, got %s then %s", once, twice)
	}
}

func TestNormalizeAddressZeroAndInvalid(t *testing.T) {
	got, err := NormalizeAddress("0x")
	if err != nil {
		t.Fatalf("normalize 0x: %v", err)
	}
	if got != ZeroAddress {
		t.Fatalf("expected zero address, got %s", got)
	}

	for _, input := range []string{"0x1234", "not-an-address", "0x" + strings.Repeat("zz", 20)} {
		if _, err := NormalizeAddress(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestParseBytesForms(t *testing.T) {
	raw, err := ParseBytes("0x70696e67726177")
	if err != nil {
		t.Fatalf("parse hex: %v", err)
	}
	if string(raw) != "pingraw" {
		t.Fatalf("expected pingraw, got %q", raw)
	}

	raw, err = ParseBytes("cGluZ3Jhdw==")
	if err != nil {
		t.Fatalf("parse base64: %v", err)
	}
	if string(raw) != "pingraw" {
		t.Fatalf("expected pingraw, got %q", raw)
	}

	raw, err = ParseBytes([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("parse raw bytes: %v", err)
	}
	if !bytes.Equal(raw, []byte{1, 2, 3}) {
		t.Fatalf("unexpected bytes: %v", raw)
	}

	raw, err = ParseBytes(nil)
	if err != nil {
		t.Fatalf("parse nil: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected empty blob, got %v", raw)
	}

	if _, err := ParseBytes("!!not base64!!"); err == nil {
		t.Fatal("expected error for malformed input")
	}
	if _, err := ParseBytes(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestParseBytes32Length(t *testing.T) {
	hex32 := "0x" + strings.Repeat("11", 32)
	raw, err := ParseBytes32(hex32)
	if err != nil {
		t.Fatalf("parse 32 bytes: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(raw))
	}

	if _, err := ParseBytes32("0x1111"); err == nil {
		t.Fatal("expected error for short input")
	}
	if _, err := ParseBytes32("0x" + strings.Repeat("11", 33)); err == nil {
		t.Fatal("expected error for long input")
	}
}

func TestParseUint256(t *testing.T) {
	for _, input := range []any{"0x7b", "123", 123, int64(123), uint64(123), big.NewInt(123), float64(123)} {
		n, err := ParseUint256(input)
		if err != nil {
			t.Fatalf("parse %v (%T): %v", input, input, err)
		}
		if n.Int64() != 123 {
			t.Fatalf("parse %v: expected 123, got %s", input, n)
		}
	}
}

func TestParseUint256Rejections(t *testing.T) {
	for _, input := range []any{true, false, -1, int64(-5), big.NewInt(-1), float64(1.5), "abc", "-7", struct{}{}} {
		if _, err := ParseUint256(input); err == nil {
			t.Fatalf("expected error for %v (%T)", input, input)
		}
	}
}

func TestLeftPad32(t *testing.T) {
	out, err := LeftPad32([]byte{0xab})
	if err != nil {
		t.Fatalf("pad: %v", err)
	}
	if len(out) != 32 || out[31] != 0xab || out[0] != 0 {
		t.Fatalf("unexpected padding: %x", out)
	}

	if _, err := LeftPad32(make([]byte, 33)); err == nil {
		t.Fatal("expected error for oversized input")
	}
}

func TestUintTo32(t *testing.T) {
	out, err := UintTo32(big.NewInt(256))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out[30] != 1 || out[31] != 0 {
		t.Fatalf("unexpected big-endian encoding: %x", out)
	}

	over := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := UintTo32(over); err == nil {
		t.Fatal("expected error for 2^256")
	}
}

func TestNormalizeChainKey(t *testing.T) {
	if got := NormalizeChainKey("  Anvil "); got != "anvil" {
		t.Fatalf("expected anvil, got %q", got)
	}
}
