package generation

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func exercise(t *testing.T, tr Tracker) {
	t.Helper()
	ctx := context.Background()

	if cur, err := tr.Current(ctx, "s1"); err != nil || cur != 0 {
		t.Fatalf("Current on new key = %d, %v", cur, err)
	}

	for want := int64(1); want <= 3; want++ {
		got, err := tr.Next(ctx, "s1")
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Errorf("Next = %d, want %d", got, want)
		}
	}

	if cur, _ := tr.Current(ctx, "s1"); cur != 3 {
		t.Errorf("Current = %d, want 3", cur)
	}
	if cur, _ := tr.Current(ctx, "s2"); cur != 0 {
		t.Errorf("sessions are not isolated: s2 = %d", cur)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryConcurrent(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Next(context.Background(), "s")
		}()
	}
	wg.Wait()
	if cur, _ := m.Current(context.Background(), "s"); cur != 50 {
		t.Errorf("Current = %d, want 50", cur)
	}
}

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := NewRedis(mr.Addr(), "", 0, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, mr
}

func TestRedis(t *testing.T) {
	r, _ := newRedis(t)
	exercise(t, r)

	if err := r.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestRedisExpiresIdleSessions(t *testing.T) {
	r, mr := newRedis(t)
	ctx := context.Background()

	if _, err := r.Next(ctx, "s1"); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ttl := mr.TTL(SessionKey("s1")); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if cur, _ := r.Current(ctx, "s1"); cur != 0 {
		t.Errorf("Current after expiry = %d, want 0", cur)
	}
}

func TestRedisCorruptValue(t *testing.T) {
	r, mr := newRedis(t)
	mr.Set(SessionKey("s1"), "not-a-number")

	if _, err := r.Current(context.Background(), "s1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedis(addr, "", 0, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected connection error")
	}
}
