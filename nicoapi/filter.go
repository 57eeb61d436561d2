package nicoapi

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var filterJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// FilterField names a column a filter can act on. Numeric/time fields
// support `equal` and `range`; string fields support `equal` only, per
// filter_json.rs's two `filters!` macro groups.
type FilterField string

const (
	FieldViewCounter     FilterField = "viewCounter"
	FieldMylistCounter   FilterField = "mylistCounter"
	FieldLengthSeconds   FilterField = "lengthSeconds"
	FieldStartTime       FilterField = "startTime"
	FieldCommentCounter  FilterField = "commentCounter"
	FieldLastCommentTime FilterField = "lastCommentTime"
	FieldCategoryTags    FilterField = "categoryTags"
	FieldTags            FilterField = "tags"
	FieldGenre           FilterField = "genre"
	FieldGenreKeyword    FilterField = "genreKeyword"
)

// Filter is the JSON filter expression sum type from section 6: a tagged
// union over {equal, range, or, and, not}. Exactly one of the variant
// fields below is populated; which one is implied by Kind.
type Filter struct {
	Kind FilterKind

	// equal
	EqualField FilterField
	EqualValue any // string, uint64, or time.Time depending on EqualField

	// range
	RangeField   FilterField
	From, To     any // uint64 or time.Time
	IncludeLower bool
	IncludeUpper bool

	// or / and
	Filters []Filter

	// not
	Inner *Filter
}

type FilterKind string

const (
	KindEqual FilterKind = "equal"
	KindRange FilterKind = "range"
	KindOr    FilterKind = "or"
	KindAnd   FilterKind = "and"
	KindNot   FilterKind = "not"
)

func Equal(field FilterField, value any) Filter {
	return Filter{Kind: KindEqual, EqualField: field, EqualValue: value}
}

// Range builds a half-open-by-default range filter; call IncludeLowerBound
// / IncludeUpperBound to widen either edge, matching RangeFilter's
// `include_lower`/`include_upper` builder methods.
func Range(field FilterField, from, to any) Filter {
	return Filter{Kind: KindRange, RangeField: field, From: from, To: to}
}

func (f Filter) IncludeLowerBound() Filter {
	f.IncludeLower = true
	return f
}

func (f Filter) IncludeUpperBound() Filter {
	f.IncludeUpper = true
	return f
}

func Or(filters ...Filter) Filter  { return Filter{Kind: KindOr, Filters: filters} }
func And(filters ...Filter) Filter { return Filter{Kind: KindAnd, Filters: filters} }
func Not(inner Filter) Filter      { return Filter{Kind: KindNot, Inner: &inner} }

// wire shapes matching the `#[serde(tag = ...)]` layouts in filter_json.rs.
type wireEqual struct {
	Type  string      `json:"type"`
	Field FilterField `json:"field"`
	Value any         `json:"value"`
}

type wireRange struct {
	Type         string      `json:"type"`
	Field        FilterField `json:"field"`
	From         any         `json:"from"`
	To           any         `json:"to"`
	IncludeLower bool        `json:"include_lower,omitempty"`
	IncludeUpper bool        `json:"include_upper,omitempty"`
}

type wireCombinator struct {
	Type    string   `json:"type"`
	Filters []Filter `json:"filters"`
}

type wireNot struct {
	Type   string `json:"type"`
	Filter Filter `json:"filter"`
}

func (f Filter) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case KindEqual:
		return filterJSON.Marshal(wireEqual{Type: "equal", Field: f.EqualField, Value: f.EqualValue})
	case KindRange:
		return filterJSON.Marshal(wireRange{
			Type: "range", Field: f.RangeField, From: f.From, To: f.To,
			IncludeLower: f.IncludeLower, IncludeUpper: f.IncludeUpper,
		})
	case KindOr:
		return filterJSON.Marshal(wireCombinator{Type: "or", Filters: f.Filters})
	case KindAnd:
		return filterJSON.Marshal(wireCombinator{Type: "and", Filters: f.Filters})
	case KindNot:
		if f.Inner == nil {
			return nil, fmt.Errorf("not filter missing inner filter")
		}
		return filterJSON.Marshal(wireNot{Type: "not", Filter: *f.Inner})
	default:
		return nil, fmt.Errorf("unknown filter kind %q", f.Kind)
	}
}

func (f *Filter) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type string `json:"type"`
	}
	if err := filterJSON.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag.Type {
	case "equal":
		var w wireEqual
		if err := filterJSON.Unmarshal(data, &w); err != nil {
			return err
		}
		*f = Filter{Kind: KindEqual, EqualField: w.Field, EqualValue: w.Value}
	case "range":
		var w wireRange
		if err := filterJSON.Unmarshal(data, &w); err != nil {
			return err
		}
		*f = Filter{
			Kind: KindRange, RangeField: w.Field, From: w.From, To: w.To,
			IncludeLower: w.IncludeLower, IncludeUpper: w.IncludeUpper,
		}
	case "or":
		var w wireCombinator
		if err := filterJSON.Unmarshal(data, &w); err != nil {
			return err
		}
		*f = Filter{Kind: KindOr, Filters: w.Filters}
	case "and":
		var w wireCombinator
		if err := filterJSON.Unmarshal(data, &w); err != nil {
			return err
		}
		*f = Filter{Kind: KindAnd, Filters: w.Filters}
	case "not":
		var w wireNot
		if err := filterJSON.Unmarshal(data, &w); err != nil {
			return err
		}
		*f = Filter{Kind: KindNot, Inner: &w.Filter}
	default:
		return fmt.Errorf("unknown filter type %q", tag.Type)
	}
	return nil
}
