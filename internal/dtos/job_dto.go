package dtos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/job-tracker/internal/models"
)

// JobCreationRequest is the body of POST /api/jobs. userId is never read
// from the body; the owner always comes from the session.
type JobCreationRequest struct {
	Title   string `json:"title" binding:"required"`
	Company string `json:"company" binding:"required"`

	// Optional Fields
	Location    string                 `json:"location"`
	URL         string                 `json:"url"`
	JDText      string                 `json:"jdText"`
	Salary      string                 `json:"salary"`
	Status      string                 `json:"status" binding:"omitempty,jobstatus"` // Defaults to "wishlist" if empty
	Source      string                 `json:"source" binding:"omitempty,jobsource"` // Defaults to "manual" if empty
	DateApplied *FlexTime              `json:"dateApplied"`
	Notes       NoteList               `json:"notes"`
	Timeline    []models.TimelineEntry `json:"timeline"`
	ResumeFile  *models.ResumeFile     `json:"resumeFile"`
}

// JobUpdateRequest is the body of PUT /api/jobs/:id. Absent keys keep their
// stored value.
type JobUpdateRequest struct {
	Title       *string                 `json:"title"`
	Company     *string                 `json:"company"`
	Location    *string                 `json:"location"`
	URL         *string                 `json:"url"`
	JDText      *string                 `json:"jdText"`
	Salary      *string                 `json:"salary"`
	Status      *string                 `json:"status" binding:"omitempty,jobstatus"`
	Source      *string                 `json:"source" binding:"omitempty,jobsource"`
	DateApplied *FlexTime               `json:"dateApplied"`
	Notes       *NoteList               `json:"notes"`
	Timeline    *[]models.TimelineEntry `json:"timeline"`
	ResumeFile  *models.ResumeFile      `json:"resumeFile"`
}

type JobListQuery struct {
	Status  string `form:"status"`
	Company string `form:"company"`
	Sort    string `form:"sort"`
}

// ExtensionSaveRequest wraps whatever the content script scraped.
type ExtensionSaveRequest struct {
	Job ExtensionJob `json:"job"`
}

type ExtensionJob struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	JDText      string `json:"jdText"`
	Description string `json:"description"`
	Salary      string `json:"salary"`
	Source      string `json:"source"`
	Status      string `json:"status"`
}

// JobExtractionRequest is the body of POST /api/jobs/extract.
type JobExtractionRequest struct {
	RawText string `json:"rawText"`
	RawHTML string `json:"raw_html"`
	URL     string `json:"url"`
}

// Content returns whichever of the two payload keys was sent.
func (r JobExtractionRequest) Content() string {
	if strings.TrimSpace(r.RawText) != "" {
		return r.RawText
	}
	return r.RawHTML
}

// FlexTime accepts RFC 3339 timestamps and plain dates (2006-01-02), which is
// what a date input on the dashboard produces.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// Ptr returns nil for an absent or zero value.
func (t *FlexTime) Ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// NoteList accepts either a list of notes or a single free-text string (the
// dashboard's notes tab sends the latter).
type NoteList []models.Note

func (n *NoteList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			*n = NoteList{}
			return nil
		}
		*n = NoteList{{Text: text}}
		return nil
	}
	var notes []models.Note
	if err := json.Unmarshal(trimmed, &notes); err != nil {
		return err
	}
	*n = notes
	return nil
}
