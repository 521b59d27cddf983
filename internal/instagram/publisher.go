package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/throneclash/video-service/internal/locale"
	"github.com/throneclash/video-service/internal/video"
)

// Graph API defaults. The publish step and the resumable-upload session live
// on different hosts.
const (
	DefaultGraphAPIBaseURL = "https://graph.facebook.com/v18.0"
	DefaultVideoAPIBaseURL = "https://graph-video.facebook.com/v18.0"

	// DefaultSettleDelay is the documented wait between upload and publish
	// so the platform finishes server-side processing. It is not a retry
	// loop.
	DefaultSettleDelay = 15 * time.Second
)

// Region-specific caption hashtag suffixes
const (
	hashtagsGlobal = "\n\n#throneclash #crypto #game #winner"
	hashtagsBR     = "\n\n#throneclash #ganhador #leilao #pix"
)

// Credentials is one region's access-token + account-id pair
type Credentials struct {
	AccessToken string
	AccountID   string
}

// Complete reports whether both halves of the pair are present
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.AccountID != ""
}

// Outcome is the structured result of a publish attempt
type Outcome struct {
	Success     bool
	Error       string
	PublishedID string
}

// Config holds publisher credentials and endpoints. Base URLs are
// overridable so tests can point at a local server.
type Config struct {
	BR              Credentials
	Global          Credentials
	GraphAPIBaseURL string
	VideoAPIBaseURL string
	SettleDelay     time.Duration
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// Publisher executes the three-step resumable upload/publish protocol
// against a region-selected Instagram account
type Publisher struct {
	br           Credentials
	global       Credentials
	graphAPIBase string
	videoAPIBase string
	settleDelay  time.Duration
	client       *http.Client
	logger       *slog.Logger
}

// NewPublisher creates a publisher from config, applying endpoint and delay
// defaults
func NewPublisher(cfg *Config) *Publisher {
	graphBase := cfg.GraphAPIBaseURL
	if graphBase == "" {
		graphBase = DefaultGraphAPIBaseURL
	}
	videoBase := cfg.VideoAPIBaseURL
	if videoBase == "" {
		videoBase = DefaultVideoAPIBaseURL
	}
	settleDelay := cfg.SettleDelay
	if settleDelay == 0 {
		settleDelay = DefaultSettleDelay
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}

	return &Publisher{
		br:           cfg.BR,
		global:       cfg.Global,
		graphAPIBase: graphBase,
		videoAPIBase: videoBase,
		settleDelay:  settleDelay,
		client:       client,
		logger:       cfg.Logger,
	}
}

// HasAnyCredentials reports whether at least one region pair is fully
// configured. Used for the startup warning; an incomplete configuration is
// never fatal.
func (p *Publisher) HasAnyCredentials() bool {
	return p.br.Complete() || p.global.Complete()
}

// credentialsFor selects the account pair by region: GLOBAL uses the global
// pair, everything else falls back to BR
func (p *Publisher) credentialsFor(region string) Credentials {
	if region == locale.RegionGlobal {
		return p.global
	}
	return p.br
}

// Publish uploads the rendered reel and publishes it. Every failure is
// converted into a failure Outcome; nothing propagates as an error. Steps
// are sequential and non-retried: the first failure short-circuits the rest.
func (p *Publisher) Publish(ctx context.Context, result video.Result) Outcome {
	region := result.Region
	creds := p.credentialsFor(region)

	if !creds.Complete() {
		return p.failure(fmt.Sprintf("credentials not found for region %s", region))
	}

	fileInfo, err := os.Stat(result.VideoPath)
	if result.VideoPath == "" || err != nil {
		return p.failure(fmt.Sprintf("video file not found: %s", result.VideoPath))
	}

	p.logger.Info("Starting Instagram upload",
		slog.String("region", region),
		slog.String("video_id", result.VideoID),
	)

	sessionURI, creationID, err := p.initUpload(ctx, creds)
	if err != nil {
		return p.failure(err.Error())
	}

	if err := p.uploadFile(ctx, creds, sessionURI, result.VideoPath, fileInfo.Size()); err != nil {
		return p.failure(err.Error())
	}

	// Give the platform time to process the upload before publishing.
	time.Sleep(p.settleDelay)

	publishedID, err := p.publishMedia(ctx, creds, creationID, p.caption(result))
	if err != nil {
		return p.failure(err.Error())
	}

	p.logger.Info("Published to Instagram",
		slog.String("region", region),
		slog.String("published_id", publishedID),
	)
	return Outcome{Success: true, PublishedID: publishedID}
}

// initUpload requests a resumable upload session for a reel
func (p *Publisher) initUpload(ctx context.Context, creds Credentials) (sessionURI, creationID string, err error) {
	endpoint := fmt.Sprintf("%s/%s/media?upload_type=resumable&media_type=REELS", p.videoAPIBase, creds.AccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create init request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("Init error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("Init error: %s", string(body))
	}

	var initResp struct {
		URI string `json:"uri"`
		ID  string `json:"id"`
	}
	if err := json.Unmarshal(body, &initResp); err != nil {
		return "", "", fmt.Errorf("Init error: %v", err)
	}
	return initResp.URI, initResp.ID, nil
}

// uploadFile streams the raw video bytes to the session URI
func (p *Publisher) uploadFile(ctx context.Context, creds Credentials, sessionURI, path string, size int64) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sessionURI, file)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Authorization", "OAuth "+creds.AccessToken)
	req.Header.Set("offset", "0")
	req.Header.Set("file_size", strconv.FormatInt(size, 10))

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("Upload error: %v", err)
	}
	resp.Body.Close()
	return nil
}

// publishMedia requests publish of the uploaded creation id
func (p *Publisher) publishMedia(ctx context.Context, creds Credentials, creationID, caption string) (string, error) {
	params := url.Values{}
	params.Set("creation_id", creationID)
	params.Set("caption", caption)
	params.Set("access_token", creds.AccessToken)
	endpoint := fmt.Sprintf("%s/%s/media_publish?%s", p.graphAPIBase, creds.AccountID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create publish request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Publish error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Publish error: %s", string(body))
	}

	var publishResp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &publishResp); err != nil {
		return "", fmt.Errorf("Publish error: %v", err)
	}
	return publishResp.ID, nil
}

// caption builds the reel caption from the king name, formatted amount and
// the region's hashtag set
func (p *Publisher) caption(result video.Result) string {
	caption := fmt.Sprintf("👑 %s - %s", result.KingName, result.Amount)
	if result.Region == locale.RegionGlobal {
		return caption + hashtagsGlobal
	}
	return caption + hashtagsBR
}

func (p *Publisher) failure(msg string) Outcome {
	p.logger.Error("Instagram publish failed", slog.String("error", msg))
	return Outcome{Success: false, Error: msg}
}
