package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/cflow/internal/ledger"
)

func newTestServer(t *testing.T, cfg Config) (*Service, *httptest.Server) {
	t.Helper()
	s := New(cfg)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func postRecord(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/transactions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func getJSON[T any](t *testing.T, srv *httptest.Server, path string) T {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return decode[T](t, resp)
}

func TestRecordEndpoint(t *testing.T) {
	_, srv := newTestServer(t, Config{})

	resp := postRecord(t, srv, `{"amount":"100","direction":"inflow"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	res := decode[ledger.RecordResult](t, resp)
	if res.Transaction.Sequence != 0 || res.Balance.String() != "100" {
		t.Errorf("result = %+v", res)
	}

	resp = postRecord(t, srv, `{"amount":"30","direction":"out"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	bal := getJSON[Balance](t, srv, "/v1/balance")
	if bal.Balance.String() != "70" || bal.Records != 2 {
		t.Errorf("balance = %+v, want 70 over 2 records", bal)
	}
	if bal.Totals.InCount != 1 || bal.Totals.OutCount != 1 {
		t.Errorf("totals = %+v", bal.Totals)
	}

	history := getJSON[[]ledger.Transaction](t, srv, "/v1/transactions")
	if len(history) != 2 || history[1].Direction != ledger.Outflow {
		t.Errorf("history = %+v", history)
	}

	out := getJSON[[]ledger.Point](t, srv, "/v1/series/outflow")
	if len(out) != 1 || out[0].Sequence != 1 {
		t.Errorf("outflow series = %+v, want one point at sequence 1", out)
	}
}

func TestRecordEndpointRejects(t *testing.T) {
	s, srv := newTestServer(t, Config{})

	cases := []string{
		`{"amount":"-5","direction":"outflow"}`,
		`{"amount":"","direction":"inflow"}`,
		`{"amount":"abc","direction":"inflow"}`,
		`{"amount":"5","direction":"sideways"}`,
		`not json`,
	}
	for _, body := range cases {
		resp := postRecord(t, srv, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %s: status = %d, want 400", body, resp.StatusCode)
		}
		if e := decode[errorResponse](t, resp); e.Error == "" {
			t.Errorf("POST %s: empty error body", body)
		}
	}

	st := s.snapshotStatus()
	if st.Records != 0 || !st.Balance.IsZero() {
		t.Errorf("status after rejects = %+v, want untouched ledger", st)
	}
	if st.Rejected != 3 {
		t.Errorf("Rejected = %d, want 3", st.Rejected)
	}
	if st.EventCount != 0 {
		t.Errorf("EventCount = %d, want 0", st.EventCount)
	}
}

func TestSeriesUnknownDirection(t *testing.T) {
	_, srv := newTestServer(t, Config{})

	resp, err := http.Get(srv.URL + "/v1/series/sideways")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t, Config{})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestSeededLedgerIsServed(t *testing.T) {
	l := ledger.New()
	if _, err := l.Record("42", ledger.Inflow); err != nil {
		t.Fatal(err)
	}
	_, srv := newTestServer(t, Config{Ledger: l})

	st := getJSON[Status](t, srv, "/v1/status")
	if st.Records != 1 || st.Balance.String() != "42" {
		t.Errorf("status = %+v", st)
	}
}

func TestRecordPublishesEvents(t *testing.T) {
	s := New(Config{EventsBuffer: 10})

	if _, err := s.Record("5", ledger.Inflow); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record("x", ledger.Inflow); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := s.Record("2", ledger.Outflow); err != nil {
		t.Fatal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	last := s.events[1]
	if last.ID != 2 || last.Type != "record" || last.Balance.String() != "3" {
		t.Errorf("last event = %+v", last)
	}
	if last.Transaction == nil || last.Transaction.Sequence != 1 {
		t.Errorf("last event transaction = %+v", last.Transaction)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestStreamDeliversRecords(t *testing.T) {
	_, srv := newTestServer(t, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	if typ, _ := readSSE(t, r); typ != "snapshot" {
		t.Fatalf("first event = %q, want snapshot", typ)
	}

	postRecord(t, srv, `{"amount":"12.50","direction":"inflow"}`)

	typ, data := readSSE(t, r)
	if typ != "record" {
		t.Fatalf("event = %q, want record", typ)
	}
	var ev Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Balance.String() != "12.5" || ev.Transaction == nil || ev.Transaction.Direction != ledger.Inflow {
		t.Errorf("event = %+v", ev)
	}
}

// readSSE reads one "event:/data:" frame.
func readSSE(t *testing.T, r *bufio.Reader) (typ, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			typ = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && typ != "":
			return typ, data
		}
	}
}
