package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/snonux/notecard/internal/vocab"
)

// SampleEntry is the entry used throughout the tests
var SampleEntry = vocab.Entry{
	Traditional: "你好",
	Simplified:  "你好",
	Pinyin:      "nǐ hǎo",
	Meaning:     "hello",
}

// DistinctEntry has different traditional and simplified characters
var DistinctEntry = vocab.Entry{
	Traditional: "繁體",
	Simplified:  "繁体",
	Pinyin:      "fán tǐ",
	Meaning:     "traditional form",
}

// Response is one canned reply of a VocabServer
type Response struct {
	Status int
	Body   string
}

// EntryResponse returns a 200 response carrying entry as JSON
func EntryResponse(t *testing.T, entry vocab.Entry) Response {
	t.Helper()

	body, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Failed to marshal entry: %v", err)
	}
	return Response{Status: http.StatusOK, Body: string(body)}
}

// VocabServer is an httptest vocabulary service serving /random
type VocabServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses []Response
	requests  []*http.Request
}

// NewVocabServer starts a server replying with responses in order, repeating
// the last one. It is closed when the test ends.
func NewVocabServer(t *testing.T, responses ...Response) *VocabServer {
	t.Helper()

	vs := &VocabServer{responses: responses}
	vs.Server = httptest.NewServer(http.HandlerFunc(vs.handle))
	t.Cleanup(vs.Close)
	return vs
}

func (vs *VocabServer) handle(w http.ResponseWriter, r *http.Request) {
	vs.mu.Lock()
	idx := len(vs.requests)
	vs.requests = append(vs.requests, r)
	if idx >= len(vs.responses) {
		idx = len(vs.responses) - 1
	}
	var resp Response
	if idx >= 0 {
		resp = vs.responses[idx]
	} else {
		resp = Response{Status: http.StatusNotFound, Body: "no responses configured"}
	}
	vs.mu.Unlock()

	if r.URL.Path != "/random" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	io.WriteString(w, resp.Body)
}

// Requests returns the requests received so far
func (vs *VocabServer) Requests() []*http.Request {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return append([]*http.Request(nil), vs.requests...)
}

// Eventually polls cond until it holds or the timeout expires
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Condition not met within %v: %s", timeout, msg)
}

// CaptureOutput captures stdout/stderr during test execution
func CaptureOutput(t *testing.T, f func()) (stdout, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	var outBuf, errBuf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); io.Copy(&outBuf, rOut) }()
	go func() { defer wg.Done(); io.Copy(&errBuf, rErr) }()

	defer func() {
		os.Stdout = oldStdout
		os.Stderr = oldStderr
	}()
	f()

	wOut.Close()
	wErr.Close()
	wg.Wait()

	return outBuf.String(), errBuf.String()
}

// AssertContains fails the test when s does not contain substr
func AssertContains(t *testing.T, s, substr string) {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("Expected %q to contain %q", s, substr)
	}
}
