package models

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// DevUserID owns the seeded fallback records and backs the development
// identity when DEV_AUTH is enabled.
const (
	DevUserID    = "507f1f77bcf86cd799439011"
	DevUserEmail = "dev@test.com"
)

type Status string

const (
	StatusWishlist     Status = "wishlist"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusRejected     Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWishlist, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return true
	}
	return false
}

type Source string

const (
	SourceLinkedIn  Source = "linkedin"
	SourceIndeed    Source = "indeed"
	SourceGlassdoor Source = "glassdoor"
	SourceManual    Source = "manual"
)

func (s Source) Valid() bool {
	switch s {
	case SourceLinkedIn, SourceIndeed, SourceGlassdoor, SourceManual:
		return true
	}
	return false
}

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GoogleID string `gorm:"uniqueIndex;not null" json:"googleId"`
	Email    string `gorm:"not null" json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
}

// PseudoUserID derives a stable 24-character id from an email address. It is
// used when the user table cannot be reached so that a session still maps to
// the same owner for the lifetime of the fallback store.
func PseudoUserID(email string) string {
	id := hex.EncodeToString([]byte(email))
	if len(id) < 24 {
		id += strings.Repeat("0", 24-len(id))
	}
	return id[:24]
}

type Note struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// TimelineEntry types used by the service; clients may add their own.
const (
	TimelineCreated      = "created"
	TimelineStatusChange = "status_change"
	TimelineNote         = "note"
	TimelineInterview    = "interview"
)

type TimelineEntry struct {
	Type string    `json:"type"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

type ResumeFile struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Data        string    `json:"data"` // base64
	UploadedAt  time.Time `json:"uploadedAt"`
}

type Job struct {
	// Serialized as _id: the dashboard and the extension key records by it.
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`

	UserID string `gorm:"index;not null" json:"userId"`

	Title       string          `gorm:"not null" json:"title"`
	Company     string          `gorm:"not null" json:"company"`
	Location    string          `json:"location,omitempty"`
	URL         string          `json:"url,omitempty"`
	JDText      string          `gorm:"type:text" json:"jdText,omitempty"`
	Salary      string          `json:"salary,omitempty"`
	Status      Status          `gorm:"index;not null" json:"status"`
	Source      Source          `gorm:"not null" json:"source"`
	DateApplied *time.Time      `json:"dateApplied,omitempty"`
	Notes       []Note          `gorm:"serializer:json;type:text" json:"notes"`
	Timeline    []TimelineEntry `gorm:"serializer:json;type:text" json:"timeline"`
	ResumeFile  *ResumeFile     `gorm:"serializer:json;type:text" json:"resumeFile,omitempty"`
}

// JobPatch carries a partial update. Nil fields keep their current value.
type JobPatch struct {
	Title       *string
	Company     *string
	Location    *string
	URL         *string
	JDText      *string
	Salary      *string
	Status      *Status
	Source      *Source
	DateApplied *time.Time
	Notes       *[]Note
	Timeline    *[]TimelineEntry
	ResumeFile  *ResumeFile
}

// Apply merges p into j. A status change appends a status_change timeline
// entry unless the patch replaces the timeline itself, so applying the same
// patch twice leaves the record unchanged.
func (j *Job) Apply(p JobPatch, now time.Time) {
	setString(&j.Title, p.Title)
	setString(&j.Company, p.Company)
	setString(&j.Location, p.Location)
	setString(&j.URL, p.URL)
	setString(&j.JDText, p.JDText)
	setString(&j.Salary, p.Salary)

	if p.Source != nil {
		j.Source = *p.Source
	}
	if p.DateApplied != nil {
		d := *p.DateApplied
		j.DateApplied = &d
	}
	if p.Notes != nil {
		j.Notes = StampNotes(keepNoteDates(*p.Notes, j.Notes), now)
	}
	if p.Timeline != nil {
		j.Timeline = StampTimeline(keepTimelineDates(*p.Timeline, j.Timeline), now)
	}
	if p.ResumeFile != nil {
		rf := *p.ResumeFile
		if rf.UploadedAt.IsZero() {
			rf.UploadedAt = now
			if old := j.ResumeFile; old != nil && old.Filename == rf.Filename && old.Data == rf.Data {
				rf.UploadedAt = old.UploadedAt
			}
		}
		j.ResumeFile = &rf
	}
	if p.Status != nil && *p.Status != j.Status {
		if p.Timeline == nil {
			j.Timeline = append(j.Timeline, TimelineEntry{
				Type: TimelineStatusChange,
				Text: fmt.Sprintf("Status changed from %s to %s", j.Status, *p.Status),
				Date: now,
			})
		}
		j.Status = *p.Status
	}
	j.UpdatedAt = now
}

// Clone returns a deep copy so stores never share slices with callers.
func (j Job) Clone() Job {
	out := j
	if j.Notes != nil {
		out.Notes = append([]Note(nil), j.Notes...)
	}
	if j.Timeline != nil {
		out.Timeline = append([]TimelineEntry(nil), j.Timeline...)
	}
	if j.DateApplied != nil {
		d := *j.DateApplied
		out.DateApplied = &d
	}
	if j.ResumeFile != nil {
		rf := *j.ResumeFile
		out.ResumeFile = &rf
	}
	return out
}

// StampNotes fills missing note dates with now.
func StampNotes(notes []Note, now time.Time) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		if n.Date.IsZero() {
			n.Date = now
		}
		out[i] = n
	}
	return out
}

func StampTimeline(entries []TimelineEntry, now time.Time) []TimelineEntry {
	out := make([]TimelineEntry, len(entries))
	for i, e := range entries {
		if e.Date.IsZero() {
			e.Date = now
		}
		out[i] = e
	}
	return out
}

// keepNoteDates gives undated notes the date of a stored note with the same
// text, so resending an unchanged list does not restamp it.
func keepNoteDates(notes, stored []Note) []Note {
	dates := make(map[string]time.Time, len(stored))
	for _, n := range stored {
		if _, ok := dates[n.Text]; !ok {
			dates[n.Text] = n.Date
		}
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		if n.Date.IsZero() {
			n.Date = dates[n.Text]
		}
		out[i] = n
	}
	return out
}

func keepTimelineDates(entries, stored []TimelineEntry) []TimelineEntry {
	type key struct{ typ, text string }
	dates := make(map[key]time.Time, len(stored))
	for _, e := range stored {
		k := key{e.Type, e.Text}
		if _, ok := dates[k]; !ok {
			dates[k] = e.Date
		}
	}
	out := make([]TimelineEntry, len(entries))
	for i, e := range entries {
		if e.Date.IsZero() {
			e.Date = dates[key{e.Type, e.Text}]
		}
		out[i] = e
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
