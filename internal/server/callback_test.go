package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/genmix/internal/shared"
)

func startReceiver(t *testing.T) *Receiver {
	t.Helper()
	rc := NewReceiver("127.0.0.1", 0)
	if err := rc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { rc.Stop() })
	return rc
}

func TestReceiver(t *testing.T) {
	t.Run("delivers callback parameters once", func(t *testing.T) {
		rc := startReceiver(t)

		url := fmt.Sprintf("http://%s/callback?code=auth-code&state=nonce42", rc.Addr())
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("callback request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "Authorization Successful") {
			t.Error("expected success page in response body")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		params, err := rc.Await(ctx)
		if err != nil {
			t.Fatalf("Await failed: %v", err)
		}
		if params.Code != "auth-code" || params.State != "nonce42" {
			t.Errorf("unexpected params: %+v", params)
		}
		if params.Failed() {
			t.Error("expected Failed()=false")
		}
	})

	t.Run("rejects a second request", func(t *testing.T) {
		rc := startReceiver(t)

		first, err := http.Get(fmt.Sprintf("http://%s/callback?code=c1&state=s1", rc.Addr()))
		if err != nil {
			t.Fatalf("first request failed: %v", err)
		}
		first.Body.Close()

		second, err := http.Get(fmt.Sprintf("http://%s/callback?code=c2&state=s2", rc.Addr()))
		if err != nil {
			t.Fatalf("second request failed: %v", err)
		}
		defer second.Body.Close()
		if second.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", second.StatusCode)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		params, err := rc.Await(ctx)
		if err != nil {
			t.Fatalf("Await failed: %v", err)
		}
		if params.Code != "c1" {
			t.Errorf("expected first request's code, got %q", params.Code)
		}
	})

	t.Run("captures provider error parameters", func(t *testing.T) {
		rc := startReceiver(t)

		resp, err := http.Get(fmt.Sprintf("http://%s/callback?error=access_denied&error_description=user+declined&state=s1", rc.Addr()))
		if err != nil {
			t.Fatalf("callback request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		params, err := rc.Await(ctx)
		if err != nil {
			t.Fatalf("Await failed: %v", err)
		}
		if !params.Failed() {
			t.Error("expected Failed()=true")
		}
		if params.ErrorCode != "access_denied" || params.ErrorDescription != "user declined" {
			t.Errorf("unexpected params: %+v", params)
		}
	})

	t.Run("reports bind failure", func(t *testing.T) {
		occupied, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("could not occupy port: %v", err)
		}
		defer occupied.Close()

		port := occupied.Addr().(*net.TCPAddr).Port
		rc := NewReceiver("127.0.0.1", port)
		if err := rc.Start(); !errors.Is(err, shared.ErrListenerBind) {
			t.Errorf("expected ErrListenerBind, got %v", err)
		}
	})

	t.Run("await honors the context deadline", func(t *testing.T) {
		rc := startReceiver(t)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := rc.Await(ctx)
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		rc := startReceiver(t)
		if err := rc.Stop(); err != nil {
			t.Errorf("first Stop failed: %v", err)
		}
		if err := rc.Stop(); err != nil {
			t.Errorf("second Stop failed: %v", err)
		}
	})

	t.Run("redirect uri matches configuration", func(t *testing.T) {
		rc := NewReceiver("localhost", 8080)
		if got := rc.RedirectURI(); got != "http://localhost:8080/callback" {
			t.Errorf("unexpected redirect uri %q", got)
		}
	})
}
