package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/webhook"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		json.NewEncoder(w).Encode(webhook.ScrapeResponse{Success: true, Message: "Scraper completed", Entries: 12})
	}))
	defer srv.Close()

	ctx := context.Background()
	resp, err := webhook.NewClient(ctx, srv.URL+"/", "tok").Scrape(ctx)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if !resp.Success || resp.Entries != 12 {
		t.Errorf("response = %+v", resp)
	}
}

func TestClientStatus(t *testing.T) {
	last := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"running":false,"lastRun":"2026-01-15T08:00:00Z","lastResult":"success","lastError":null}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	st, err := webhook.NewClient(ctx, srv.URL, "").Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Running || st.LastRun == nil || !st.LastRun.Equal(last) {
		t.Errorf("status = %+v", st)
	}
	if st.LastResult == nil || *st.LastResult != webhook.ResultSuccess || st.LastError != nil {
		t.Errorf("result fields = %v, %v", st.LastResult, st.LastError)
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"Unauthorized"}`, want: webhook.ErrUnauthorized},
		{name: "busy", status: http.StatusConflict, body: `{"success":false,"error":"scraper already running"}`, want: webhook.ErrAlreadyRunning},
		{name: "run failed", status: http.StatusInternalServerError, body: `{"success":false,"error":"login failed"}`, msg: "login failed"},
		{name: "plain text", status: http.StatusBadGateway, body: "bad gateway\n", msg: "bad gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			ctx := context.Background()
			_, err := webhook.NewClient(ctx, srv.URL, "tok").Scrape(ctx)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Errorf("error = %v, want %v", err, tt.want)
				}
				return
			}
			var apiErr *webhook.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Message != tt.msg {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}
