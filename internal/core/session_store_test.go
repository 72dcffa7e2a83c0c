package core_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"dokumen-agent/internal/core"
)

func TestSessionStoreIsolatesKeys(t *testing.T) {
	st := core.NewSessionStore(time.Hour)

	err := st.WithSession("a", func(s *core.Session) error {
		s.Type = core.DocumentInvoice
		s.Step = core.Step("inv_item_qty")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := st.Snapshot("b"); got.Step != core.StepIdle {
		t.Errorf("fresh session step = %q, want idle", got.Step)
	}
	if got := st.Snapshot("a"); got.Type != core.DocumentInvoice {
		t.Errorf("session a type = %q", got.Type)
	}
}

func TestSessionStoreSerializesTurnsPerKey(t *testing.T) {
	st := core.NewSessionStore(time.Hour)

	const turns = 50
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.WithSession("same", func(s *core.Session) error {
				// Non-atomic increment; only safe if turns are serialized.
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != turns {
		t.Errorf("counter = %d, want %d", counter, turns)
	}
}

func TestSessionStoreCallbackErrorPropagates(t *testing.T) {
	st := core.NewSessionStore(time.Hour)
	want := errors.New("boom")
	if got := st.WithSession("x", func(*core.Session) error { return want }); got != want {
		t.Errorf("error = %v, want %v", got, want)
	}
}
