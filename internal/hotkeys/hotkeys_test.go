package hotkeys

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRecordAndTop(t *testing.T) {
	tr := New(10, 0)
	defer tr.Close()

	for i := 0; i < 5; i++ {
		tr.Record("a")
	}
	for i := 0; i < 3; i++ {
		tr.Record("b")
	}
	tr.Record("c")

	top := tr.Top(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Key != "a" || top[0].Count != 5 {
		t.Errorf("expected a:5 first, got %s:%d", top[0].Key, top[0].Count)
	}
	if top[1].Key != "b" || top[1].Count != 3 {
		t.Errorf("expected b:3 second, got %s:%d", top[1].Key, top[1].Count)
	}
	if top[2].Key != "c" || top[2].Count != 1 {
		t.Errorf("expected c:1 third, got %s:%d", top[2].Key, top[2].Count)
	}
}

func TestTopLimitsN(t *testing.T) {
	tr := New(100, 0)
	defer tr.Close()

	for i := 0; i < 20; i++ {
		tr.Record(fmt.Sprintf("key-%d", i))
	}

	if got := len(tr.Top(5)); got != 5 {
		t.Errorf("expected 5 entries, got %d", got)
	}
	if got := tr.Size(); got != 20 {
		t.Errorf("expected 20 tracked keys, got %d", got)
	}
}

func TestTopDefaultsToConfiguredN(t *testing.T) {
	tr := New(3, 0)
	defer tr.Close()

	for i := 0; i < 10; i++ {
		tr.Record(fmt.Sprintf("key-%d", i))
	}

	if got := len(tr.Top(0)); got != 3 {
		t.Errorf("expected 3 entries, got %d", got)
	}
}

func TestDecay(t *testing.T) {
	tr := New(10, 20*time.Millisecond)
	defer tr.Close()

	tr.Record("once")
	for i := 0; i < 100; i++ {
		tr.Record("busy")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		top := tr.Top(10)
		if len(top) == 1 && top[0].Key == "busy" && top[0].Count < 100 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("counters did not decay in time")
}

func TestConcurrentRecord(t *testing.T) {
	tr := New(10, 0)
	defer tr.Close()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				tr.Record("shared")
			}
		}()
	}
	wg.Wait()

	top := tr.Top(1)
	if len(top) != 1 || top[0].Count != 8000 {
		t.Fatalf("expected shared:8000, got %+v", top)
	}
}
