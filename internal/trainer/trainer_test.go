package trainer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type scriptedSource struct {
	mu    sync.Mutex
	rows  []Row
	fails []bool // fails[i] == true means the i-th Next call errors instead of returning rows[pos]
	pos   int
	calls int
}

func (s *scriptedSource) Next(context.Context) (Row, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calls < len(s.fails) && s.fails[s.calls] {
		s.calls++
		return Row{}, false, errors.New("transient warehouse error")
	}
	s.calls++

	if s.pos >= len(s.rows) {
		return Row{}, false, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true, nil
}

type recordingEngine struct {
	mu   sync.Mutex
	rows []Row
}

func (e *recordingEngine) UpdateItem(_ context.Context, item int64, users ...int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, Row{Item: item, Users: append([]int64{}, users...)})
	return nil
}

func TestTrainerDrainsAllRows(t *testing.T) {
	src := &scriptedSource{rows: []Row{{Item: 1, Users: []int64{10}}, {Item: 2, Users: []int64{20, 21}}}}
	eng := &recordingEngine{}
	tr := New(src, eng, nil)
	tr.retryBaseline = time.Millisecond

	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(eng.rows) != 2 {
		t.Fatalf("got %d rows processed, want 2", len(eng.rows))
	}
	if eng.rows[0].Item != 1 || eng.rows[1].Item != 2 {
		t.Fatalf("rows processed out of order: %+v", eng.rows)
	}
}

func TestTrainerRetriesTransientErrorsThenResumes(t *testing.T) {
	src := &scriptedSource{
		rows:  []Row{{Item: 1, Users: []int64{10}}},
		fails: []bool{true, true}, // two transient failures before the row finally comes through
	}
	eng := &recordingEngine{}
	tr := New(src, eng, nil)
	tr.retryBaseline = time.Millisecond

	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(eng.rows) != 1 || eng.rows[0].Item != 1 {
		t.Fatalf("got %+v, want a single row for item 1", eng.rows)
	}
}

func TestTrainerExitsFatalAfterRetryBudget(t *testing.T) {
	src := &scriptedSource{
		fails: []bool{true, true, true, true, true, true, true, true},
	}
	eng := &recordingEngine{}
	tr := New(src, eng, nil)
	tr.retryBaseline = time.Millisecond
	tr.maxRetries = 3

	err := tr.Run(context.Background())
	if err == nil {
		t.Fatal("expected fatal error after exhausting retry budget")
	}
}
