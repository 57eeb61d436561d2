// Package video defines the canonical VideoRecord that crosses every
// stage boundary (spec.md section 3) and the binary interchange codec
// the pipeline's blobs are written in (spec.md section 6).
package video

import (
	"strings"
	"time"

	"github.com/anatawa12/nico-ranking-tools/nicoapi"
)

// Record is spec.md section 3's VideoRecord.
type Record struct {
	ContentID string

	Title        string
	Description  string
	ThumbnailURL string
	LastResBody  string
	CategoryTags string
	Genre        string

	ViewCounter    uint32
	MylistCounter  uint32
	CommentCounter uint32
	LengthSeconds  uint32

	StartTime       time.Time
	LastCommentTime *time.Time

	Tags []string

	// LastModified carries the snapshot version this record was observed
	// under (invariant: stable across stages, not stable across
	// re-harvests; spec.md section 3).
	LastModified time.Time
}

// FromAPI converts one API-wire video into the canonical Record, stamping
// it with the snapshot version the page it came from was fetched under.
func FromAPI(v nicoapi.VideoData, lastModified time.Time) Record {
	return Record{
		ContentID:       v.ContentID,
		Title:           v.Title,
		Description:     v.Description,
		ThumbnailURL:    v.ThumbnailURL,
		LastResBody:     v.LastResBody,
		CategoryTags:    v.CategoryTags,
		Genre:           v.Genre,
		ViewCounter:     v.ViewCounter,
		MylistCounter:   v.MylistCounter,
		CommentCounter:  v.CommentCounter,
		LengthSeconds:   v.LengthSeconds,
		StartTime:       v.StartTime,
		LastCommentTime: v.LastCommentTime,
		Tags:            splitTags(v.Tags),
		LastModified:    lastModified,
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	fields := strings.Fields(raw)
	return fields
}

// HasTag reports whether tag is present, exact string match (used by the
// `in_tags` filter-expression predicate, spec.md section 4.3).
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
