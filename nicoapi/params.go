// Package nicoapi is a client for the nicovideo snapshot search API: the
// two endpoints spec.md section 6 names (the paginated content search and
// the snapshot-version check) plus the JSON filter expression language
// that rides along with a search request.
package nicoapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// RankingSorting names one of the server's sortable/filterable columns.
// Field names and the set of sortable columns are pinned from
// nico-snapshot-api/src/query_params.rs's `string_enum!` invocation.
type RankingSorting string

const (
	SortViewCounter     RankingSorting = "viewCounter"
	SortMylistCounter   RankingSorting = "mylistCounter"
	SortLengthSeconds   RankingSorting = "lengthSeconds"
	SortStartTime       RankingSorting = "startTime"
	SortCommentCounter  RankingSorting = "commentCounter"
	SortLastCommentTime RankingSorting = "lastCommentTime"
)

// SortingWithOrder is the `_sort` query parameter: a field name prefixed
// with `+` (ascending) or `-` (descending).
//
// The original Rust source defines both `decreasing()` and `increasing()`
// constructors on RankingSorting, but `increasing()`'s body is a
// copy-paste of `decreasing()` and returns the wrong variant. spec.md's
// Design Notes calls this out as an ambiguity to resolve, not copy:
// `+` means ascending and `-` means descending here.
type SortingWithOrder struct {
	Field      RankingSorting
	Descending bool
}

func Ascending(field RankingSorting) SortingWithOrder {
	return SortingWithOrder{Field: field, Descending: false}
}

func Descending(field RankingSorting) SortingWithOrder {
	return SortingWithOrder{Field: field, Descending: true}
}

func (s SortingWithOrder) String() string {
	if s.Descending {
		return "-" + string(s.Field)
	}
	return "+" + string(s.Field)
}

// QueryParams is the full parameter set for a search request
// (nico-snapshot-api/src/query_params.rs's `QueryParams`).
type QueryParams struct {
	Query   string
	Targets []string
	Fields  []string
	Filter  *Filter
	Sort    SortingWithOrder
	Offset  uint32
	Limit   uint32
	Context string
}

// NewQueryParams mirrors QueryParams::new: the given query and sort, limit
// defaults to 10 (the server default), no filter.
func NewQueryParams(query string, sort SortingWithOrder) QueryParams {
	return QueryParams{Query: query, Sort: sort, Limit: 10}
}

// SetOffset validates against the server's documented 0..=100000 range.
func (p *QueryParams) SetOffset(offset uint32) error {
	if offset > 100000 {
		return fmt.Errorf("offset out of range: must be in 0..=100000, got %d", offset)
	}
	p.Offset = offset
	return nil
}

// SetLimit validates against the server's documented 0..=100 range.
func (p *QueryParams) SetLimit(limit uint32) error {
	if limit > 100 {
		return fmt.Errorf("limit out of range: must be in 0..=100, got %d", limit)
	}
	p.Limit = limit
	return nil
}

// SetContext validates the server's 40-character cap on `_context`.
func (p *QueryParams) SetContext(ctx string) error {
	if len(ctx) > 40 {
		return fmt.Errorf("context too long: must be <= 40 chars, got %d", len(ctx))
	}
	p.Context = ctx
	return nil
}

// Encode renders the query parameters per the wire shapes in section 6.
func (p QueryParams) Encode() (url.Values, error) {
	v := url.Values{}
	v.Set("q", p.Query)
	if len(p.Targets) > 0 {
		v.Set("targets", strings.Join(p.Targets, ","))
	}
	if len(p.Fields) > 0 {
		v.Set("fields", strings.Join(p.Fields, ","))
	}
	if p.Filter != nil {
		raw, err := p.Filter.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encoding jsonFilter: %w", err)
		}
		v.Set("jsonFilter", string(raw))
	}
	v.Set("_sort", p.Sort.String())
	if p.Offset != 0 {
		v.Set("_offset", strconv.FormatUint(uint64(p.Offset), 10))
	}
	if p.Limit != 10 {
		v.Set("_limit", strconv.FormatUint(uint64(p.Limit), 10))
	}
	if p.Context != "" {
		v.Set("_context", p.Context)
	}
	return v, nil
}

// AllFields lists every column the server can return; the harvester always
// requests them all (spec.md section 4.1: "fields = all available
// columns").
func AllFields() []string {
	return []string{
		"contentId", "title", "description", "thumbnailUrl", "lastResBody",
		"categoryTags", "genre", "viewCounter", "mylistCounter",
		"commentCounter", "lengthSeconds", "startTime", "lastCommentTime",
		"tags",
	}
}
