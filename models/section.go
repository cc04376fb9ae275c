package models

import (
	"net/url"
	"time"
)

// Video error categories persisted with a failed transcode result.
const (
	VideoErrorTranscode = "transcode"
	VideoErrorUpload    = "upload"
	VideoErrorUnknown   = "unknown"
)

// VideoResult is the persisted outcome of a transcode job. Exactly one of
// URL or the error pair is set. A nil *VideoResult on a Section means no
// job has ever written a result for it.
type VideoResult struct {
	URL           string `json:"url,omitempty"`
	ErrorCategory string `json:"errorCategory,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// VideoSuccess builds the result written when transcode and upload both
// succeeded and the master playlist is publicly reachable at addr.
func VideoSuccess(addr string) *VideoResult {
	return &VideoResult{URL: addr}
}

// VideoFailure builds the result written when any stage of the job failed.
// The message carries the underlying diagnostic verbatim.
func VideoFailure(category, message string) *VideoResult {
	return &VideoResult{ErrorCategory: category, ErrorMessage: message}
}

// Failed reports whether the result records a failure.
func (r *VideoResult) Failed() bool {
	return r.ErrorCategory != "" || r.ErrorMessage != ""
}

// Category returns the error category, mapping anything unrecognized to
// unknown so a malformed record still derives a sane status.
func (r *VideoResult) Category() string {
	switch r.ErrorCategory {
	case VideoErrorTranscode, VideoErrorUpload, VideoErrorUnknown:
		return r.ErrorCategory
	default:
		return VideoErrorUnknown
	}
}

// ValidURL reports whether the result holds a well-formed https address.
func (r *VideoResult) ValidURL() bool {
	if r.URL == "" {
		return false
	}
	parsed, err := url.Parse(r.URL)
	if err != nil {
		return false
	}
	return parsed.Scheme == "https" && parsed.Host != ""
}

// Section is a course chapter. Video holds the transcode outcome for its
// lecture video; only the job that owns a section's transcode may write it.
type Section struct {
	ID          string       `json:"id"`
	CourseID    string       `json:"courseId"`
	Title       string       `json:"title"`
	Content     string       `json:"content,omitempty"`
	Video       *VideoResult `json:"video,omitempty"`
	IsPublished bool         `json:"isPublished"`
	OrderIndex  int          `json:"orderIndex"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Course carries the ownership information the video endpoints check.
type Course struct {
	ID           string    `json:"id"`
	InstructorID string    `json:"instructorId"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
}
