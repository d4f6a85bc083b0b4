package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func rpcServer(t *testing.T, handler func(method string, params []interface{}) (interface{}, *rpcError)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		result, rpcErr := handler(req.Method, req.Params)

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fastClient(endpoint string) *HTTPClient {
	return NewHTTPClient(endpoint, WithMaxRetries(2), WithRetryDelay(time.Millisecond))
}

func TestGetSlot(t *testing.T) {
	srv := rpcServer(t, func(method string, _ []interface{}) (interface{}, *rpcError) {
		if method != "getSlot" {
			t.Errorf("method = %q, want getSlot", method)
		}
		return 12345, nil
	})

	slot, err := fastClient(srv.URL).GetSlot(context.Background())
	if err != nil {
		t.Fatalf("GetSlot() error = %v", err)
	}
	if slot != 12345 {
		t.Errorf("slot = %d, want 12345", slot)
	}
}

func TestGetBlockTime(t *testing.T) {
	srv := rpcServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		if method != "getBlockTime" {
			t.Errorf("method = %q, want getBlockTime", method)
		}
		if len(params) != 1 {
			t.Errorf("params = %v, want [slot]", params)
		}
		return 1_700_000_000, nil
	})

	ts, err := fastClient(srv.URL).GetBlockTime(context.Background(), 12345)
	if err != nil {
		t.Fatalf("GetBlockTime() error = %v", err)
	}
	if ts != 1_700_000_000 {
		t.Errorf("timestamp = %d, want 1700000000", ts)
	}
}

func TestGetBlockTimeUnavailable(t *testing.T) {
	srv := rpcServer(t, func(_ string, _ []interface{}) (interface{}, *rpcError) {
		return nil, nil
	})

	ts, err := fastClient(srv.URL).GetBlockTime(context.Background(), 99999)
	if err != nil {
		t.Fatalf("GetBlockTime() error = %v", err)
	}
	if ts != 0 {
		t.Errorf("timestamp = %d, want 0 for pruned slot", ts)
	}
}

func TestGetBalance(t *testing.T) {
	srv := rpcServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		if method != "getBalance" {
			t.Errorf("method = %q, want getBalance", method)
		}
		if len(params) < 1 || params[0] != "wallet1" {
			t.Errorf("params = %v", params)
		}
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 100},
			"value":   5_000_000_000,
		}, nil
	})

	balance, err := fastClient(srv.URL).GetBalance(context.Background(), "wallet1")
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if balance != 5_000_000_000 {
		t.Errorf("balance = %d, want 5000000000", balance)
	}
}

func TestRequestAirdrop(t *testing.T) {
	srv := rpcServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		if method != "requestAirdrop" {
			t.Errorf("method = %q, want requestAirdrop", method)
		}
		if len(params) != 2 {
			t.Errorf("params = %v, want [pubkey, lamports]", params)
		}
		return "airdrop_sig", nil
	})

	sig, err := fastClient(srv.URL).RequestAirdrop(context.Background(), "wallet1", 1_000_000_000)
	if err != nil {
		t.Fatalf("RequestAirdrop() error = %v", err)
	}
	if sig != "airdrop_sig" {
		t.Errorf("signature = %q", sig)
	}
}

func TestGetSignatureStatuses(t *testing.T) {
	srv := rpcServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		if method != "getSignatureStatuses" {
			t.Errorf("method = %q", method)
		}
		return map[string]interface{}{
			"value": []interface{}{
				map[string]interface{}{"slot": 10, "confirmationStatus": "finalized", "err": nil},
				nil,
			},
		}, nil
	})

	statuses, err := fastClient(srv.URL).GetSignatureStatuses(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("GetSignatureStatuses() error = %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	if !statuses[0].Confirmed() {
		t.Error("finalized status not confirmed")
	}
	if statuses[1] != nil {
		t.Error("unknown signature should yield nil status")
	}
	if statuses[1].Confirmed() {
		t.Error("nil status must not report confirmed")
	}
}

func TestGetAccountInfoMissing(t *testing.T) {
	srv := rpcServer(t, func(_ string, _ []interface{}) (interface{}, *rpcError) {
		return map[string]interface{}{"value": nil}, nil
	})

	info, err := fastClient(srv.URL).GetAccountInfo(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetAccountInfo() error = %v", err)
	}
	if info != nil {
		t.Errorf("info = %+v, want nil for missing account", info)
	}
}

func TestCallRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":77}`)
	}))
	defer srv.Close()

	slot, err := fastClient(srv.URL).GetSlot(context.Background())
	if err != nil {
		t.Fatalf("GetSlot() error = %v", err)
	}
	if slot != 77 {
		t.Errorf("slot = %d, want 77", slot)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestCallRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":5}`)
	}))
	defer srv.Close()

	if _, err := fastClient(srv.URL).GetSlot(context.Background()); err != nil {
		t.Fatalf("GetSlot() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestCallDoesNotRetryRPCErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`)
	}))
	defer srv.Close()

	_, err := fastClient(srv.URL).GetBalance(context.Background(), "bad")
	if err == nil {
		t.Fatal("expected RPC error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, RPC errors must not retry", calls.Load())
	}
}

func TestCallGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := fastClient(srv.URL).GetSlot(context.Background()); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	// Initial attempt plus two retries.
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}
