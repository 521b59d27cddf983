package dto

import "github.com/throneclash/video-service/internal/video"

// VictimDTO is one eliminated player in the request payload
type VictimDTO struct {
	Name        string `json:"name" binding:"required"`
	PhotoURL    string `json:"photo_url" binding:"required"`
	Cause       string `json:"cause"`
	OldPosition int    `json:"old_position"`
}

// TemplateDynamicParams is the request payload for the dynamic template
type TemplateDynamicParams struct {
	Region             string      `json:"region"`
	EventType          string      `json:"event_type"`
	Hook               string      `json:"hook"`
	Amount             float64     `json:"amount"`
	KingName           string      `json:"king_name" binding:"required"`
	KingPhotoURL       string      `json:"king_photo_url" binding:"required"`
	Message            string      `json:"message"`
	DethronedName      string      `json:"dethroned_name"`
	DethronedPhotoURL  string      `json:"dethroned_photo_url"`
	DethronedReignDays int         `json:"dethroned_reign_days"`
	Victims            []VictimDTO `json:"victims"`
	CTA                string      `json:"cta"`
	PersistFile        bool        `json:"persist_file"`
	PublishInstagram   *bool       `json:"publish_instagram"`
}

// ToParams converts the payload into the pipeline's typed parameters,
// applying defaults. publish_instagram defaults to true when omitted.
func (p *TemplateDynamicParams) ToParams() video.Params {
	publish := true
	if p.PublishInstagram != nil {
		publish = *p.PublishInstagram
	}

	victims := make([]video.Victim, len(p.Victims))
	for i, v := range p.Victims {
		victims[i] = video.Victim{
			Name:        v.Name,
			PhotoURL:    v.PhotoURL,
			Cause:       v.Cause,
			OldPosition: v.OldPosition,
		}
	}

	params := video.Params{
		Region:             p.Region,
		EventType:          p.EventType,
		Hook:               p.Hook,
		Amount:             p.Amount,
		KingName:           p.KingName,
		KingPhotoURL:       p.KingPhotoURL,
		Message:            p.Message,
		DethronedName:      p.DethronedName,
		DethronedPhotoURL:  p.DethronedPhotoURL,
		DethronedReignDays: p.DethronedReignDays,
		Victims:            victims,
		CTA:                p.CTA,
		PersistFile:        p.PersistFile,
		PublishInstagram:   publish,
	}
	params.ApplyDefaults()
	return params
}

// CreateVideoRequest is the generic submission envelope
type CreateVideoRequest struct {
	Template string                `json:"template" binding:"required"`
	Params   TemplateDynamicParams `json:"params" binding:"required"`
}

// CreateVideoResponse acknowledges an accepted job
type CreateVideoResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	VideoID string `json:"video_id"`
}

// ListVideosResponse wraps the job listing
type ListVideosResponse struct {
	Total int                      `json:"total"`
	Jobs  []map[string]interface{} `json:"jobs"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
