package cpr

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/termquery-dev/termquery/internal/alarm"
)

type fakeGuard struct {
	rawErr     error
	restoreErr error
	rawCalls   int
	restores   int
}

func (g *fakeGuard) SetRaw() error  { g.rawCalls++; return g.rawErr }
func (g *fakeGuard) Restore() error { g.restores++; return g.restoreErr }

// fakeTerminal wires the package seams to a pair of pipes standing in for
// the terminal: Query reads replies from in, and the "terminal" sees the CPR
// query on qr and answers on pw.
type fakeTerminal struct {
	in    *os.File
	pw    *os.File
	qr    *os.File
	guard *fakeGuard
}

func newFakeTerminal(t *testing.T) *fakeTerminal {
	t.Helper()

	inR, inW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	qR, qW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	ft := &fakeTerminal{in: inR, pw: inW, qr: qR, guard: &fakeGuard{}}

	origTty, origGuard, origFlush, origWriter := isTerminal, newGuard, flushInput, openWriter
	t.Cleanup(func() {
		isTerminal, newGuard, flushInput, openWriter = origTty, origGuard, origFlush, origWriter
		inR.Close()
		inW.Close()
		qR.Close()
		qW.Close()
	})

	isTerminal = func(fd int) bool { return true }
	newGuard = func(fd int) (settingsGuard, error) { return ft.guard, nil }
	flushInput = func(fd int) error { return nil }
	openWriter = func(in *os.File) (*os.File, error) { return qW, nil }

	return ft
}

// respond consumes the CPR query and answers with each chunk in order,
// pausing briefly between chunks.
func (ft *fakeTerminal) respond(t *testing.T, chunks ...string) {
	t.Helper()
	go func() {
		buf := make([]byte, 16)
		n, err := ft.qr.Read(buf)
		if err != nil {
			t.Errorf("reading CPR query: %v", err)
			return
		}
		if got := string(buf[:n]); got != request {
			t.Errorf("terminal received %q, want %q", got, request)
		}
		for i, c := range chunks {
			if i > 0 {
				time.Sleep(20 * time.Millisecond)
			}
			if _, err := ft.pw.WriteString(c); err != nil {
				t.Errorf("writing reply chunk: %v", err)
				return
			}
		}
	}()
}

func TestQuerySuccess(t *testing.T) {
	ft := newFakeTerminal(t)
	ft.respond(t, "\x1b[10;3R")

	pos, err := Query(ft.in, Options{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if (pos != Position{10, 3}) {
		t.Fatalf("Query = %+v, want {10 3}", pos)
	}
	if ft.guard.rawCalls != 1 || ft.guard.restores != 1 {
		t.Fatalf("raw/restore calls = %d/%d, want 1/1", ft.guard.rawCalls, ft.guard.restores)
	}
}

func TestQueryReplySplitAcrossReads(t *testing.T) {
	ft := newFakeTerminal(t)
	ft.respond(t, "\x1b[10;", "3R")

	pos, err := Query(ft.in, Options{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if (pos != Position{10, 3}) {
		t.Fatalf("Query = %+v, want {10 3}", pos)
	}
}

func TestQuerySkipsForeignEscapeSequence(t *testing.T) {
	ft := newFakeTerminal(t)
	ft.respond(t, "\x1b[?1;2c\x1b[5;9R")

	pos, err := Query(ft.in, Options{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if (pos != Position{5, 9}) {
		t.Fatalf("Query = %+v, want {5 9}", pos)
	}
}

func TestQueryImplausibleReply(t *testing.T) {
	ft := newFakeTerminal(t)
	ft.respond(t, "\x1b[0;0R")

	_, err := Query(ft.in, Options{})
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition, got %v", err)
	}
	if ft.guard.restores != 1 {
		t.Fatal("terminal settings must be restored on failure")
	}
}

func TestQueryTimeout(t *testing.T) {
	ft := newFakeTerminal(t)
	ft.respond(t) // consume the query, never answer

	start := time.Now()
	_, err := Query(ft.in, Options{Timeout: 50 * time.Millisecond})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("expected ErrTimedOut, got %v", err)
	}
	if elapsed > time.Second {
		t.Fatalf("timeout took %v, want roughly the configured 50ms", elapsed)
	}
	if ft.guard.restores != 1 {
		t.Fatal("terminal settings must be restored on timeout")
	}
}

func TestQueryEOF(t *testing.T) {
	ft := newFakeTerminal(t)
	go func() {
		buf := make([]byte, 16)
		ft.qr.Read(buf)
		ft.pw.Close() // hang up without answering
	}()

	_, err := Query(ft.in, Options{})
	if !errors.Is(err, ErrNoReply) {
		t.Fatalf("expected ErrNoReply, got %v", err)
	}
	if ft.guard.restores != 1 {
		t.Fatal("terminal settings must be restored on read error")
	}
}

func TestQueryBufferExhaustedWithoutEscape(t *testing.T) {
	ft := newFakeTerminal(t)
	ft.respond(t, strings.Repeat("x", 3*replyBufSize))

	_, err := Query(ft.in, Options{})
	if !errors.Is(err, ErrNoReply) {
		t.Fatalf("expected ErrNoReply, got %v", err)
	}
}

func TestQueryNotATty(t *testing.T) {
	origTty, origGuard := isTerminal, newGuard
	t.Cleanup(func() { isTerminal, newGuard = origTty, origGuard })
	isTerminal = func(fd int) bool { return false }
	newGuard = func(fd int) (settingsGuard, error) {
		t.Error("settings must not be touched when stdin is not a tty")
		return nil, nil
	}

	devnull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatal(err)
	}
	defer devnull.Close()

	if _, err := Query(devnull, Options{}); !errors.Is(err, ErrNotATty) {
		t.Fatalf("expected ErrNotATty, got %v", err)
	}
}

func TestQueryRestoresAfterRawModeFailure(t *testing.T) {
	ft := newFakeTerminal(t)
	ft.guard.rawErr = errors.New("tcsetattr refused")

	_, err := Query(ft.in, Options{})
	if !errors.Is(err, ErrAttrWrite) {
		t.Fatalf("expected ErrAttrWrite, got %v", err)
	}
	if ft.guard.restores != 1 {
		t.Fatal("terminal settings must be restored after a failed apply")
	}
}

func TestQueryRestoresAfterFlushFailure(t *testing.T) {
	ft := newFakeTerminal(t)
	origFlush := flushInput
	t.Cleanup(func() { flushInput = origFlush })
	flushInput = func(fd int) error { return errors.New("tcflush refused") }

	_, err := Query(ft.in, Options{})
	if !errors.Is(err, ErrFlush) {
		t.Fatalf("expected ErrFlush, got %v", err)
	}
	if ft.guard.restores != 1 {
		t.Fatal("terminal settings must be restored after a failed flush")
	}
}

func TestQueryRestoresAfterWriteFailure(t *testing.T) {
	ft := newFakeTerminal(t)
	origWriter := openWriter
	t.Cleanup(func() { openWriter = origWriter })
	openWriter = func(in *os.File) (*os.File, error) {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		r.Close()
		w.Close() // writing the query will fail
		return w, nil
	}

	_, err := Query(ft.in, Options{})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if ft.guard.restores != 1 {
		t.Fatal("terminal settings must be restored after a failed write")
	}
}

// A terminal that keeps typing without ever producing an escape byte burns
// through the iteration budget and is reported as a read failure, not a
// hang.
func TestAwaitReportIterationBudget(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	done := make(chan struct{})
	defer func() { close(done); w.Close() }()
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			if _, err := w.WriteString("z"); err != nil {
				return
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()

	a := alarm.Set(time.Minute, func() {})
	defer a.Stop()

	if _, err := awaitReport(r, a); !errors.Is(err, ErrNoReply) {
		t.Fatalf("expected ErrNoReply, got %v", err)
	}
}

// A reply that is already buffered when the alarm has fired must still be
// reported as a timeout.
func TestTimeoutTakesPrecedenceOverBufferedReply(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if _, err := w.WriteString("\x1b[10;3R"); err != nil {
		t.Fatal(err)
	}

	a := alarm.Set(time.Nanosecond, func() {})
	for !a.Fired() {
		time.Sleep(time.Millisecond)
	}

	if _, err := awaitReport(r, a); !errors.Is(err, ErrTimedOut) {
		t.Fatalf("expected ErrTimedOut, got %v", err)
	}
}
