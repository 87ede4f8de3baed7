package walver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

type recordedRequest struct {
	Method  string
	Path    string
	RawPath string
	Query   url.Values
	Header  http.Header
	Body    []byte
}

// decodedBody unmarshals the recorded JSON body into a generic map so tests
// can check for absent keys.
func (r recordedRequest) decodedBody(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &m), "body: %s", r.Body)
	return m
}

// fakeWalver is a stand-in for the Walver API that records every request and
// answers with a fixed status and body.
type fakeWalver struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response []byte
}

func newFakeWalver(t *testing.T, status int, response any) *fakeWalver {
	t.Helper()

	var body []byte
	switch v := response.(type) {
	case nil:
	case string:
		body = []byte(v)
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		body = b
	}

	f := &fakeWalver{status: status, response: body}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqBody, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			RawPath: r.URL.EscapedPath(),
			Query:   r.URL.Query(),
			Header:  r.Header.Clone(),
			Body:    reqBody,
		})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write(f.response)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeWalver) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeWalver) onlyRequest(t *testing.T) recordedRequest {
	t.Helper()
	reqs := f.recorded()
	require.Len(t, reqs, 1, "expected exactly one request")
	return reqs[0]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Config{
		APIKey:  testAPIKey,
		BaseURL: baseURL,
		Logger:  discardLogger(),
	})
	require.NoError(t, err)
	return client
}
