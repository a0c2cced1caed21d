package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNarrativeService_FallbackWithoutKey(t *testing.T) {
	svc := NewNarrativeService("")
	in := sampleLotDevelopment()
	r := CalculateLotDevelopment(in)

	text := svc.LotDevelopmentSummary(context.Background(), in, r)
	if !strings.Contains(text, "Developing 20 lots") {
		t.Errorf("unexpected fallback: %q", text)
	}
	if !strings.Contains(text, "breaks even after 16 lots in month 6") {
		t.Errorf("fallback is missing breakeven: %q", text)
	}
}

func TestNarrativeService_UsesChatResponse(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Solid deal.  "}}]}`))
	}))
	defer server.Close()

	svc := NewNarrativeService("test-key").WithEndpoint(server.URL)
	in := sampleLotPurchase()
	text := svc.LotPurchaseSummary(context.Background(), in, CalculateLotPurchase(in))

	if text != "Solid deal." {
		t.Errorf("summary = %q, want %q", text, "Solid deal.")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != defaultChatModel || len(gotReq.Messages) != 2 {
		t.Errorf("unexpected request: %+v", gotReq)
	}
}

func TestNarrativeService_FallbackOnError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"empty message", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			svc := NewNarrativeService("test-key").WithEndpoint(server.URL)
			in := sampleLotPurchase()
			r := CalculateLotPurchase(in)

			if got, want := svc.LotPurchaseSummary(context.Background(), in, r), lotPurchaseFallback(in, r); got != want {
				t.Errorf("summary = %q, want fallback %q", got, want)
			}
		})
	}
}
