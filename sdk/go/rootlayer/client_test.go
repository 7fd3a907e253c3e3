package rootlayer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"PIN-RootLayer/internal/encoding"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append(opts, WithHTTPClient(srv.Client()))
	client, err := NewClient(srv.URL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestSubmitDirectIntentWireFormat(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/direct/intents" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected X-Request-ID header")
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(SubmitDirectIntentResponse{OK: true, IntentID: testIntentID})
	}, WithSigner(testSigner(t)), WithChains(testRegistry(t)))

	resp, err := client.SubmitDirectIntent(context.Background(), &SubmitDirectIntentRequest{
		IntentID:      encoding.Hash32(testIntentID),
		SubnetID:      encoding.Hash32(testSubnetID),
		SettleChain:   "anvil",
		IntentType:    "test",
		Params:        IntentParams{IntentRaw: []byte("pingraw"), Metadata: []byte("-test meta-")},
		Amount:        "0",
		Deadline:      1822275330,
		TargetAgent:   testAgentAddress,
		TargetAgentID: "1",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !resp.OK || resp.IntentID != testIntentID {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// 线上契约：驼峰字段名，字节走 base64，整数走十进制字符串。
	if body["intentId"] != testIntentID {
		t.Fatalf("unexpected intentId: %v", body["intentId"])
	}
	if body["targetAgentId"] != "1" {
		t.Fatalf("expected decimal string targetAgentId, got %v (%T)", body["targetAgentId"], body["targetAgentId"])
	}
	if body["amount"] != "0" {
		t.Fatalf("expected decimal string amount, got %v", body["amount"])
	}
	params, ok := body["params"].(map[string]any)
	if !ok {
		t.Fatalf("missing params: %v", body)
	}
	if params["intentRaw"] != "cGluZ3Jhdw==" {
		t.Fatalf("expected base64 payload, got %v", params["intentRaw"])
	}
	if sig, ok := body["signature"].(string); !ok || sig == "" {
		t.Fatal("expected base64 signature in body")
	}
	if body["requester"] != testSignerAddress {
		t.Fatalf("expected defaulted requester, got %v", body["requester"])
	}
}

func TestSubmitIntentPreSignedNeedsNoSigner(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(SubmitIntentResponse{OK: true, IntentID: testIntentID})
	})

	req := testIntentRequest()
	req.Requester = testSignerAddress
	req.Signature = make([]byte, 65)
	if _, err := client.SubmitIntent(context.Background(), req); err != nil {
		t.Fatalf("submit pre-signed: %v", err)
	}
}

func TestSubmitIntentWithoutSignerFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unsigned request must fail before reaching the network")
	})
	if _, err := client.SubmitIntent(context.Background(), testIntentRequest()); err == nil {
		t.Fatal("expected error without signer")
	}
}

func TestGetIntentsQueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("subnet_id") != testSubnetID || q.Get("page") != "2" || q.Get("page_size") != "10" {
			t.Fatalf("unexpected query: %v", q)
		}
		_ = json.NewEncoder(w).Encode(GetIntentsResponse{Page: 2, PageSize: 10})
	})

	resp, err := client.GetIntents(context.Background(), &GetIntentsRequest{
		SubnetID: testSubnetID,
		Page:     2,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("get intents: %v", err)
	}
	if resp.Page != 2 {
		t.Fatalf("unexpected page: %d", resp.Page)
	}
}

func TestGetIntentByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/intents/query/"+testIntentID {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Intent{IntentID: testIntentID, SettleChain: "anvil"})
	})

	intent, err := client.GetIntent(context.Background(), testIntentID)
	if err != nil {
		t.Fatalf("get intent: %v", err)
	}
	if intent.IntentID != testIntentID {
		t.Fatalf("unexpected intent: %+v", intent)
	}
}

func TestPostAssignmentEndpoints(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_ = json.NewEncoder(w).Encode(Ack{OK: true})
	})

	assignment := &Assignment{
		AssignmentID: encoding.Hash32(testIntentID),
		IntentID:     encoding.Hash32(testIntentID),
		AgentID:      testAgentAddress,
		BidID:        encoding.Hash32(testSubnetID),
		Status:       2,
		MatcherID:    testSignerAddress,
	}
	if _, err := client.PostAssignment(context.Background(), assignment); err != nil {
		t.Fatalf("post assignment: %v", err)
	}
	if _, err := client.PostAssignmentBatch(context.Background(), &AssignmentBatch{
		Assignments: []Assignment{*assignment},
	}); err != nil {
		t.Fatalf("post assignment batch: %v", err)
	}

	if len(paths) != 2 ||
		paths[0] != "/api/v1/callbacks/assignment/submit" ||
		paths[1] != "/api/v1/callbacks/assignments/submit" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestHealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(HealthCheckResponse{Status: "ok", Service: "rootlayer"})
	})

	health, err := client.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if health.Status != "ok" {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestAPIErrorDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": {"code": "INVALID_DEADLINE", "message": "deadline in the past"}}`))
	})

	_, err := client.Check(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Code != "INVALID_DEADLINE" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}
