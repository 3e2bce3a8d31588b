package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m3rciful/quizbot/internal/storage"
)

func TestGetMissing(t *testing.T) {
	s := New()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get = %v, want ErrNotFound", err)
	}
}

func TestSetNX(t *testing.T) {
	s := New()
	ctx := context.Background()

	ok, err := s.SetNX(ctx, "k", "v1", 0)
	if err != nil || !ok {
		t.Fatalf("first setnx = %v, %v", ok, err)
	}
	ok, err = s.SetNX(ctx, "k", "v2", 0)
	if err != nil || ok {
		t.Fatalf("second setnx = %v, %v, want false", ok, err)
	}
	got, _ := s.Get(ctx, "k")
	if got != "v1" {
		t.Fatalf("value = %q, want v1", got)
	}
}

func TestUpdateMissingKey(t *testing.T) {
	s := New()
	err := s.Update(context.Background(), "nope", 0, func(string) (string, error) {
		t.Fatal("fn must not run for a missing key")
		return "", nil
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update = %v, want ErrNotFound", err)
	}
}

func TestUpdateAborted(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Set(ctx, "k", "v1", 0)

	boom := errors.New("boom")
	err := s.Update(ctx, "k", 0, func(string) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("update = %v, want boom", err)
	}
	got, _ := s.Get(ctx, "k")
	if got != "v1" {
		t.Fatalf("aborted update changed value: %q", got)
	}
}

func TestUpdateSerialized(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Set(ctx, "n", "0", 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, "n", 0, func(cur string) (string, error) {
				// Cheap increment without strconv noise: lengths encode the count.
				return cur + "x", nil
			})
		}()
	}
	wg.Wait()

	got, _ := s.Get(ctx, "n")
	if len(got) != 51 {
		t.Fatalf("applied %d updates, want 50", len(got)-1)
	}
}

func TestTTLExpiry(t *testing.T) {
	s := New()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }
	_ = s.Set(ctx, "k", "v", time.Minute)

	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := s.Get(ctx, "k"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get after expiry = %v, want ErrNotFound", err)
	}
	// An expired key is free for SetNX again.
	ok, err := s.SetNX(ctx, "k", "v2", 0)
	if err != nil || !ok {
		t.Fatalf("setnx after expiry = %v, %v", ok, err)
	}
}
