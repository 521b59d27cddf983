package video

import "github.com/throneclash/video-service/internal/locale"

// Default parameter values for the dynamic template
const (
	DefaultEventType   = "GOLPE NO TRONO"
	DefaultHook        = "O REI CAIU!"
	DefaultCTA         = "QUEM VAI DESAFIAR?"
	DefaultVictimCause = "EMPURRADO"
	DefaultOldPosition = 9
)

// Victim is one entry of the eliminated-players frame
type Victim struct {
	Name        string `json:"name"`
	PhotoURL    string `json:"photo_url"`
	Cause       string `json:"cause"`
	OldPosition int    `json:"old_position"`
}

// Params is the validated request for one dynamic-template video. The HTTP
// boundary binds and defaults it before it enters the pipeline.
type Params struct {
	Region             string   `json:"region"`
	EventType          string   `json:"event_type"`
	Hook               string   `json:"hook"`
	Amount             float64  `json:"amount"`
	KingName           string   `json:"king_name"`
	KingPhotoURL       string   `json:"king_photo_url"`
	Message            string   `json:"message,omitempty"`
	DethronedName      string   `json:"dethroned_name,omitempty"`
	DethronedPhotoURL  string   `json:"dethroned_photo_url,omitempty"`
	DethronedReignDays int      `json:"dethroned_reign_days,omitempty"`
	Victims            []Victim `json:"victims,omitempty"`
	CTA                string   `json:"cta"`
	PersistFile        bool     `json:"persist_file"`
	PublishInstagram   bool     `json:"publish_instagram"`
}

// ApplyDefaults fills empty optional fields with the template defaults and
// normalizes the region code
func (p *Params) ApplyDefaults() {
	p.Region = locale.Normalize(p.Region)
	if p.EventType == "" {
		p.EventType = DefaultEventType
	}
	if p.Hook == "" {
		p.Hook = DefaultHook
	}
	if p.CTA == "" {
		p.CTA = DefaultCTA
	}
	for i := range p.Victims {
		if p.Victims[i].Cause == "" {
			p.Victims[i].Cause = DefaultVictimCause
		}
		if p.Victims[i].OldPosition == 0 {
			p.Victims[i].OldPosition = DefaultOldPosition
		}
	}
}

// Result statuses
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Result is the structured outcome of one pipeline run. OriginalParams is
// carried so a later publish failure can persist the full payload.
type Result struct {
	VideoID        string
	Status         string
	VideoPath      string
	Region         string
	KingName       string
	Amount         string
	PersistFile    bool
	Error          string
	OriginalParams Params
}

// Completed reports whether the pipeline produced a playable file
func (r Result) Completed() bool {
	return r.Status == StatusCompleted
}

// AsMap converts the result into the job-result payload exposed by the API
func (r Result) AsMap() map[string]interface{} {
	var videoPath interface{}
	if r.VideoPath != "" {
		videoPath = r.VideoPath
	}
	return map[string]interface{}{
		"video_id":     r.VideoID,
		"status":       r.Status,
		"video_path":   videoPath,
		"region":       r.Region,
		"king_name":    r.KingName,
		"amount":       r.Amount,
		"persist_file": r.PersistFile,
	}
}
