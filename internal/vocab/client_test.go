package vocab

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRandom_Success(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/random" {
			t.Errorf("Expected path /random, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"traditional":"你好","simplified":"你好","pinyin":"nǐ hǎo","meaning":"hello"}`))
	})

	client := NewClient(srv.URL + "/")
	entry, err := client.Random(context.Background())
	if err != nil {
		t.Fatalf("Random() error = %v", err)
	}

	want := Entry{Traditional: "你好", Simplified: "你好", Pinyin: "nǐ hǎo", Meaning: "hello"}
	if entry != want {
		t.Errorf("Random() = %+v, want %+v", entry, want)
	}
}

func TestRandom_NoTransformation(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"traditional":" 繁體 ","simplified":"简体\t","pinyin":"fán tǐ","meaning":"traditional; (of characters) complex "}`))
	})

	entry, err := NewClient(srv.URL).Random(context.Background())
	if err != nil {
		t.Fatalf("Random() error = %v", err)
	}
	if entry.Traditional != " 繁體 " || entry.Simplified != "简体\t" {
		t.Errorf("Fields were transformed: %+v", entry)
	}
	if entry.Meaning != "traditional; (of characters) complex " {
		t.Errorf("Meaning was transformed: %q", entry.Meaning)
	}
}

func TestRandom_StatusError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such thing", http.StatusNotFound)
	})

	_, err := NewClient(srv.URL).Random(context.Background())
	if err == nil {
		t.Fatal("Expected error for 404")
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *StatusError, got %T", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("Expected code 404, got %d", se.Code)
	}
	if err.Error() != "404" {
		t.Errorf("Expected message '404', got %q", err.Error())
	}
	if !strings.Contains(se.Body, "no such thing") {
		t.Errorf("Expected body to be kept, got %q", se.Body)
	}
}

func TestRandom_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := NewClient(srv.URL).Random(context.Background())
	if err == nil {
		t.Fatal("Expected decode error")
	}
	if !strings.Contains(err.Error(), "failed to decode entry") {
		t.Errorf("Unexpected error: %v", err)
	}
	if StatusCode(err) != 0 {
		t.Errorf("Decode error should carry no status code")
	}
}

func TestRandom_IncompleteEntry(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"traditional":"貓","simplified":"猫","pinyin":"māo"}`))
	})

	_, err := NewClient(srv.URL).Random(context.Background())
	if !errors.Is(err, ErrIncompleteEntry) {
		t.Fatalf("Expected ErrIncompleteEntry, got %v", err)
	}
	if !strings.Contains(err.Error(), "meaning") {
		t.Errorf("Expected error to name the empty field, got %v", err)
	}
}

func TestRandom_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL).Random(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRandom_BreakerOpensOnServerErrors(t *testing.T) {
	var hits int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	st := DefaultBreakerSettings()
	st.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 2 }
	st.Timeout = time.Minute
	client := NewClient(srv.URL, WithBreaker(st))

	for i := 0; i < 2; i++ {
		if _, err := client.Random(context.Background()); StatusCode(err) != 500 {
			t.Fatalf("call %d: expected 500, got %v", i, err)
		}
	}

	if client.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("Expected breaker to be open, got %s", client.BreakerState())
	}

	_, err := client.Random(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("Expected 2 requests to reach the server, got %d", got)
	}
}

func TestRandom_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	st := DefaultBreakerSettings()
	st.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 1 }
	client := NewClient(srv.URL, WithBreaker(st))

	for i := 0; i < 3; i++ {
		if _, err := client.Random(context.Background()); StatusCode(err) != 404 {
			t.Fatalf("call %d: expected 404, got %v", i, err)
		}
	}
	if client.BreakerState() != gobreaker.StateClosed {
		t.Errorf("Expected breaker closed, got %s", client.BreakerState())
	}
}

func TestNewClient_Options(t *testing.T) {
	hc := &http.Client{}
	client := NewClient("http://example.com/", WithHTTPClient(hc), WithTimeout(5*time.Second))

	if client.BasePath() != "http://example.com" {
		t.Errorf("Expected trimmed base path, got %s", client.BasePath())
	}
	if client.httpClient != hc {
		t.Error("Expected custom HTTP client to be used")
	}
	if hc.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", hc.Timeout)
	}
}
