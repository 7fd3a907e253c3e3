package encoding

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBytesJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Bytes("pingraw"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"cGluZ3Jhdw=="` {
		t.Fatalf("expected base64 output, got %s", out)
	}

	var fromBase64 Bytes
	if err := json.Unmarshal(out, &fromBase64); err != nil {
		t.Fatalf("unmarshal base64: %v", err)
	}
	if string(fromBase64) != "pingraw" {
		t.Fatalf("expected pingraw, got %q", fromBase64)
	}

	var fromHex Bytes
	if err := json.Unmarshal([]byte(`"0x70696e67726177"`), &fromHex); err != nil {
		t.Fatalf("unmarshal hex: %v", err)
	}
	if string(fromHex) != "pingraw" {
		t.Fatalf("expected pingraw, got %q", fromHex)
	}

	var fromNull Bytes
	if err := json.Unmarshal([]byte("null"), &fromNull); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if fromNull != nil {
		t.Fatalf("expected nil, got %v", fromNull)
	}
}

func TestHash32Normalization(t *testing.T) {
	upper := `"0x` + strings.Repeat("AB", 32) + `"`
	var h Hash32
	if err := json.Unmarshal([]byte(upper), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(h) != "0x"+strings.Repeat("ab", 32) {
		t.Fatalf("expected lowercase form, got %s", h)
	}

	var bad Hash32
	if err := json.Unmarshal([]byte(`"0x1234"`), &bad); err == nil {
		t.Fatal("expected error for short hash")
	}
}

func TestUint256JSON(t *testing.T) {
	out, err := json.Marshal(Uint256("123"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"123"` {
		t.Fatalf("expected quoted decimal, got %s", out)
	}

	// 空值序列化为 "0"，避免裸数字造成精度歧义。
	out, err = json.Marshal(Uint256(""))
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(out) != `"0"` {
		t.Fatalf("expected \"0\", got %s", out)
	}

	var fromNumber Uint256
	if err := json.Unmarshal([]byte("456"), &fromNumber); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if fromNumber != "456" {
		t.Fatalf("expected 456, got %s", fromNumber)
	}

	var fromHex Uint256
	if err := json.Unmarshal([]byte(`"0x7b"`), &fromHex); err != nil {
		t.Fatalf("unmarshal hex: %v", err)
	}
	if fromHex != "123" {
		t.Fatalf("expected 123, got %s", fromHex)
	}

	var bad Uint256
	if err := json.Unmarshal([]byte(`"-1"`), &bad); err == nil {
		t.Fatal("expected error for negative value")
	}
}
