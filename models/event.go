package models

import "time"

// Event types emitted by the waitlist funnel pages.
const (
	EventPageView    = "page_view"
	EventFormStart   = "form_start"
	EventFormSubmit  = "form_submit"
	EventFormSuccess = "form_success"
	EventFormError   = "form_error"
)

// AnalyticsEvent represents a single funnel event. Events are immutable
// once written; there is no update or delete path.
type AnalyticsEvent struct {
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	Source    string    `json:"source"`
	Page      string    `json:"page"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	Country   *string   `json:"country,omitempty"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackRequest is the inbound ingestion payload. Source carries the raw
// referrer or UTM-tagged URL; classification happens server-side.
type TrackRequest struct {
	Type      string `json:"type" binding:"required,oneof=page_view form_start form_submit form_success form_error"`
	Page      string `json:"page" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
	Source    string `json:"source"`
}

// ConversionFunnel is a derived per-source view, recomputed on every read.
type ConversionFunnel struct {
	Source            string  `json:"source"`
	PageViews         uint64  `json:"pageViews"`
	FormStarts        uint64  `json:"formStarts"`
	FormSubmissions   uint64  `json:"formSubmissions"`
	SuccessfulSignups uint64  `json:"successfulSignups"`
	ConversionRate    float64 `json:"conversionRate"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  uint64 `json:"count"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   uint64 `json:"count"`
}

// WindowCounts holds event counts for one time window. Events includes
// form_error; the four funnel counters do not.
type WindowCounts struct {
	Events            uint64 `json:"events"`
	PageViews         uint64 `json:"pageViews"`
	FormStarts        uint64 `json:"formStarts"`
	FormSubmissions   uint64 `json:"formSubmissions"`
	SuccessfulSignups uint64 `json:"successfulSignups"`
}

// Summary is the default dashboard view: total/today/week windows plus the
// current funnel and top-N breakdowns.
type Summary struct {
	Total        WindowCounts       `json:"total"`
	Today        WindowCounts       `json:"today"`
	Week         WindowCounts       `json:"week"`
	Funnels      []ConversionFunnel `json:"funnels"`
	TopSources   []SourceCount      `json:"topSources"`
	TopCountries []CountryCount     `json:"topCountries"`
}
