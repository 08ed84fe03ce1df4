package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func TestRemoteKeySetLoadsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"keys":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ks := NewRemoteKeySet(ctx, srv.URL, zap.NewNop().Sugar())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys, err := ks.Get(context.Background())
			if err == nil && keys == nil {
				t.Error("nil key set without error")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("JWKS fetched %d times, want 1", n)
	}
}

func TestRemoteKeySetWithoutURL(t *testing.T) {
	ks := NewRemoteKeySet(context.Background(), "", zap.NewNop().Sugar())
	if _, err := ks.Get(context.Background()); err == nil {
		t.Fatal("expected error without a JWKS URL")
	}
}
