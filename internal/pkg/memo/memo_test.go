package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock 手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestGetSet(t *testing.T) {
	clk := newFakeClock()
	c := New(5*time.Minute, clk.Now)

	c.Set("k", "v")
	v, ok := c.Get("k")
	if !ok || v.(string) != "v" {
		t.Fatalf("expected hit with v, got %v %v", v, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("missing key must miss")
	}
}

func TestLazyExpiry(t *testing.T) {
	clk := newFakeClock()
	c := New(5*time.Minute, clk.Now)

	c.Set("k", 1)
	clk.Advance(5*time.Minute + time.Second)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry must miss before sweep runs")
	}
	// 惰性淘汰应当已把条目删掉
	if c.Len() != 0 {
		t.Fatalf("lazy eviction must remove the entry, len=%d", c.Len())
	}
}

func TestSweep(t *testing.T) {
	clk := newFakeClock()
	c := New(5*time.Minute, clk.Now)

	c.Set("a", 1)
	c.Set("b", 2)
	c.SetTTL("c", 3, time.Hour)

	clk.Advance(10 * time.Minute)

	if n := c.Sweep(); n != 2 {
		t.Fatalf("sweep must remove 2 expired entries, removed %d", n)
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("long-ttl entry must survive sweep")
	}
}

func TestDoMemoizes(t *testing.T) {
	clk := newFakeClock()
	c := New(5*time.Minute, clk.Now)

	var calls int32
	loader := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "data", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Do("key", loader)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		if v.(string) != "data" {
			t.Fatalf("wrong value: %v", v)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("loader must run exactly once, ran %d times", n)
	}

	// TTL 过后重新回源
	clk.Advance(6 * time.Minute)
	if _, err := c.Do("key", loader); err != nil {
		t.Fatalf("do after expiry: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("loader must run again after ttl, ran %d times", n)
	}
}

func TestDoError(t *testing.T) {
	clk := newFakeClock()
	c := New(5*time.Minute, clk.Now)

	wantErr := errors.New("db down")
	_, err := c.Do("key", func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
	// 失败不落缓存
	if _, ok := c.Get("key"); ok {
		t.Fatal("failed load must not be cached")
	}
}

func TestDoCollapsesConcurrent(t *testing.T) {
	clk := newFakeClock()
	c := New(5*time.Minute, clk.Now)

	var calls int32
	release := make(chan struct{})
	loader := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Do("hot", loader)
			if err != nil || v.(int) != 42 {
				t.Errorf("do: %v %v", v, err)
			}
		}()
	}

	// 给 goroutine 一点起跑时间再放行
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("concurrent identical loads must collapse to one, got %d", n)
	}
}

func TestCachedTyped(t *testing.T) {
	clk := newFakeClock()
	c := New(5*time.Minute, clk.Now)

	var calls int
	v, err := Cached(c, "list", func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	})
	if err != nil || len(v) != 2 {
		t.Fatalf("cached: %v %v", v, err)
	}

	v, _ = Cached(c, "list", func() ([]string, error) {
		calls++
		return nil, nil
	})
	if len(v) != 2 || calls != 1 {
		t.Fatalf("second call must hit cache: v=%v calls=%d", v, calls)
	}
}

func TestFlushAndDelete(t *testing.T) {
	clk := newFakeClock()
	c := New(5*time.Minute, clk.Now)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted key must miss")
	}
	c.Flush()
	if c.Len() != 0 {
		t.Fatal("flush must empty the cache")
	}
}
