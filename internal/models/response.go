package models

import "time"

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

type InterestResponse struct {
	ID          string         `json:"id"`
	FilmmakerID string         `json:"filmmaker_id"`
	Status      InterestStatus `json:"status"`
	Notes       string         `json:"notes,omitempty"`
	StageName   string         `json:"stage_name,omitempty"`
	PhotoURL    string         `json:"photo_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewInterestResponse(i Interest) InterestResponse {
	return InterestResponse{
		ID:          i.ID.String(),
		FilmmakerID: i.FilmmakerID.String(),
		Status:      i.Status,
		Notes:       i.Notes.String,
		StageName:   i.StageName.String,
		PhotoURL:    i.PhotoURL.String,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

type InterestListResponse struct {
	Interests []InterestResponse `json:"interests"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	IsProducer bool   `json:"is_producer"`
}

type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthResponse struct {
	User    UserResponse     `json:"user"`
	Session *SessionResponse `json:"session,omitempty"`
}

type UploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type ClickCountResponse struct {
	Category string `json:"category"`
	TargetID string `json:"target_id"`
	Count    int64  `json:"count"`
}

type AnalyticsResponse struct {
	FilmmakerID string               `json:"filmmaker_id"`
	Total       int64                `json:"total"`
	ByCategory  map[string]int64     `json:"by_category"`
	Targets     []ClickCountResponse `json:"targets"`
}

// NewAnalyticsResponse folds click buckets into per-category totals.
func NewAnalyticsResponse(filmmakerID string, counts []ClickCount) AnalyticsResponse {
	resp := AnalyticsResponse{
		FilmmakerID: filmmakerID,
		ByCategory: map[string]int64{
			ClickSocial: 0, ClickInfo: 0, ClickWatch: 0, ClickTrailer: 0,
		},
		Targets: make([]ClickCountResponse, 0, len(counts)),
	}
	for _, c := range counts {
		resp.Total += c.Count
		resp.ByCategory[c.Category] += c.Count
		resp.Targets = append(resp.Targets, ClickCountResponse{Category: c.Category, TargetID: c.TargetID, Count: c.Count})
	}
	return resp
}

type ProcessAIResponse struct {
	FilmmakerID string `json:"filmmaker_id"`
	Dimensions  int    `json:"dimensions"`
	Status      string `json:"status"`
}

type PublishResponse struct {
	FilmmakerID string    `json:"filmmaker_id"`
	PublishedAt time.Time `json:"published_at"`
}
