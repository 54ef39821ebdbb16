package gate

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTryAdmitFirstWins(t *testing.T) {
	g := New(nil)

	t1 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	if !g.TryAdmit("a@b.com", t1) {
		t.Fatal("first admission should succeed")
	}
	if g.TryAdmit("a@b.com", t2) {
		t.Fatal("second admission for the same email should fail")
	}

	ts, ok := g.AdmittedAt("a@b.com")
	if !ok {
		t.Fatal("email should be in the index")
	}
	if !ts.Equal(t1) {
		t.Errorf("timestamp changed by rejected admission: got %v want %v", ts, t1)
	}
}

func TestTryAdmitSeeded(t *testing.T) {
	seed := map[string]time.Time{
		"seeded@example.com": time.Now().UTC(),
	}
	g := New(seed)

	if g.TryAdmit("seeded@example.com", time.Now().UTC()) {
		t.Fatal("seeded email must not be admitted again")
	}
	if !g.TryAdmit("fresh@example.com", time.Now().UTC()) {
		t.Fatal("unseen email should be admitted")
	}
	if g.Len() != 2 {
		t.Errorf("Len = %d, want 2", g.Len())
	}
}

func TestTryAdmitConcurrent(t *testing.T) {
	g := New(nil)

	const workers = 64
	var admitted atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAdmit("race@example.com", time.Now().UTC()) {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if admitted.Load() != 1 {
		t.Fatalf("exactly one concurrent admission expected, got %d", admitted.Load())
	}
}

func TestTryAdmitDistinctEmails(t *testing.T) {
	g := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", i)
			if !g.TryAdmit(email, time.Now().UTC()) {
				t.Errorf("admission for distinct email %s failed", email)
			}
		}(i)
	}
	wg.Wait()

	if g.Len() != 32 {
		t.Errorf("Len = %d, want 32", g.Len())
	}
}
