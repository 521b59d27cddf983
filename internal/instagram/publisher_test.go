package instagram

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/throneclash/video-service/internal/video"
)

// graphStub fakes the three Graph API endpoints and counts every request
type graphStub struct {
	server        *httptest.Server
	calls         atomic.Int64
	initStatus    int
	initBody      string
	publishStatus int
	publishBody   string
	uploadedSize  string
	uploadAuth    string
	publishQuery  map[string]string
}

func newGraphStub(t *testing.T) *graphStub {
	t.Helper()
	s := &graphStub{
		initStatus:    http.StatusOK,
		publishStatus: http.StatusOK,
		publishBody:   `{"id": "published-789"}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /acct-1/media", func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if s.initStatus != http.StatusOK {
			w.WriteHeader(s.initStatus)
			w.Write([]byte(s.initBody))
			return
		}
		w.Write([]byte(`{"uri": "` + s.server.URL + `/upload-session", "id": "creation-456"}`))
	})
	mux.HandleFunc("POST /upload-session", func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.uploadedSize = r.Header.Get("file_size")
		s.uploadAuth = r.Header.Get("Authorization")
	})
	mux.HandleFunc("POST /acct-1/media_publish", func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.publishQuery = map[string]string{
			"creation_id":  r.URL.Query().Get("creation_id"),
			"caption":      r.URL.Query().Get("caption"),
			"access_token": r.URL.Query().Get("access_token"),
		}
		if s.publishStatus != http.StatusOK {
			w.WriteHeader(s.publishStatus)
			w.Write([]byte(s.publishBody))
			return
		}
		w.Write([]byte(s.publishBody))
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func newTestPublisher(stub *graphStub, br, global Credentials) *Publisher {
	cfg := &Config{
		BR:          br,
		Global:      global,
		SettleDelay: -1, // negative sleeps return immediately in tests
		Logger:      slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	if stub != nil {
		cfg.GraphAPIBaseURL = stub.server.URL
		cfg.VideoAPIBaseURL = stub.server.URL
	}
	return NewPublisher(cfg)
}

func writeVideoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "br_video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video bytes"), 0644))
	return path
}

func brCreds() Credentials {
	return Credentials{AccessToken: "token-br", AccountID: "acct-1"}
}

func TestPublisher_Publish_Success(t *testing.T) {
	stub := newGraphStub(t)
	p := newTestPublisher(stub, brCreds(), Credentials{})

	outcome := p.Publish(context.Background(), video.Result{
		VideoID:   "vid-1",
		VideoPath: writeVideoFile(t),
		Region:    "BR",
		KingName:  "Ana",
		Amount:    "500,00",
	})

	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.Error)
	assert.Equal(t, "published-789", outcome.PublishedID)
	assert.EqualValues(t, 3, stub.calls.Load())

	// Upload step declared the file size and OAuth authorization
	assert.Equal(t, "11", stub.uploadedSize)
	assert.Equal(t, "OAuth token-br", stub.uploadAuth)

	// Publish step carried the creation id, caption and token
	assert.Equal(t, "creation-456", stub.publishQuery["creation_id"])
	assert.Equal(t, "token-br", stub.publishQuery["access_token"])
	assert.Contains(t, stub.publishQuery["caption"], "👑 Ana - 500,00")
	assert.Contains(t, stub.publishQuery["caption"], "#ganhador")
}

func TestPublisher_Publish_GlobalHashtags(t *testing.T) {
	stub := newGraphStub(t)
	p := newTestPublisher(stub, Credentials{}, brCreds())

	outcome := p.Publish(context.Background(), video.Result{
		VideoID:   "vid-2",
		VideoPath: writeVideoFile(t),
		Region:    "GLOBAL",
		KingName:  "Kai",
		Amount:    "1,234.50",
	})

	assert.True(t, outcome.Success)
	assert.Contains(t, stub.publishQuery["caption"], "#crypto")
	assert.NotContains(t, stub.publishQuery["caption"], "#pix")
}

func TestPublisher_Publish_MissingCredentials(t *testing.T) {
	stub := newGraphStub(t)
	p := newTestPublisher(stub, Credentials{}, Credentials{})

	outcome := p.Publish(context.Background(), video.Result{
		VideoPath: writeVideoFile(t),
		Region:    "BR",
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, "credentials not found for region BR", outcome.Error)
	// Short-circuited before any network call
	assert.EqualValues(t, 0, stub.calls.Load())
}

func TestPublisher_Publish_MissingFile(t *testing.T) {
	stub := newGraphStub(t)
	p := newTestPublisher(stub, brCreds(), Credentials{})

	outcome := p.Publish(context.Background(), video.Result{
		VideoPath: filepath.Join(t.TempDir(), "nope.mp4"),
		Region:    "BR",
	})

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "video file not found")
	assert.EqualValues(t, 0, stub.calls.Load())
}

func TestPublisher_Publish_InitFailure(t *testing.T) {
	stub := newGraphStub(t)
	stub.initStatus = http.StatusBadRequest
	stub.initBody = `{"error": "invalid token"}`
	p := newTestPublisher(stub, brCreds(), Credentials{})

	outcome := p.Publish(context.Background(), video.Result{
		VideoPath: writeVideoFile(t),
		Region:    "BR",
	})

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "Init error")
	assert.Contains(t, outcome.Error, "invalid token")
	// Init only, upload and publish never attempted
	assert.EqualValues(t, 1, stub.calls.Load())
}

func TestPublisher_Publish_PublishFailure(t *testing.T) {
	stub := newGraphStub(t)
	stub.publishStatus = http.StatusInternalServerError
	stub.publishBody = `{"error": "media not ready"}`
	p := newTestPublisher(stub, brCreds(), Credentials{})

	outcome := p.Publish(context.Background(), video.Result{
		VideoPath: writeVideoFile(t),
		Region:    "BR",
	})

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "Publish error")
	assert.Contains(t, outcome.Error, "media not ready")
	assert.EqualValues(t, 3, stub.calls.Load())
}

func TestPublisher_Publish_TransportErrorIsCaptured(t *testing.T) {
	// A dead endpoint must produce a failure outcome, never a panic or
	// propagated error.
	p := NewPublisher(&Config{
		BR:              brCreds(),
		GraphAPIBaseURL: "http://127.0.0.1:1",
		VideoAPIBaseURL: "http://127.0.0.1:1",
		SettleDelay:     -1,
		Logger:          slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})

	outcome := p.Publish(context.Background(), video.Result{
		VideoPath: writeVideoFile(t),
		Region:    "BR",
	})

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "Init error")
}

func TestPublisher_Publish_MalformedEndpoint(t *testing.T) {
	// An unparsable base URL fails request construction before any network
	// activity; the outcome carries a plain wrapped error, not a step prefix.
	p := NewPublisher(&Config{
		BR:              brCreds(),
		GraphAPIBaseURL: "http://bad host",
		VideoAPIBaseURL: "http://bad host",
		SettleDelay:     -1,
		Logger:          slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})

	outcome := p.Publish(context.Background(), video.Result{
		VideoPath: writeVideoFile(t),
		Region:    "BR",
	})

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "failed to create init request")
}

func TestPublisher_UnknownRegionFallsBackToBR(t *testing.T) {
	stub := newGraphStub(t)
	p := newTestPublisher(stub, brCreds(), Credentials{})

	outcome := p.Publish(context.Background(), video.Result{
		VideoPath: writeVideoFile(t),
		Region:    "FR",
		KingName:  "Lou",
		Amount:    "9,99",
	})

	assert.True(t, outcome.Success)
	// BR hashtags apply to any non-GLOBAL region
	assert.Contains(t, stub.publishQuery["caption"], "#pix")
}
