// Package harvest drives the paginated, rate-limited, version-consistent
// crawl of the remote snapshot API (spec.md section 4.1) — the piece
// spec.md section 1 calls "the hard engineering" in this pipeline.
package harvest

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/anatawa12/nico-ranking-tools/cmn/nlog"
	"github.com/anatawa12/nico-ranking-tools/nicoapi"
	"github.com/anatawa12/nico-ranking-tools/ratelimit"
	"github.com/anatawa12/nico-ranking-tools/retry"
	"github.com/anatawa12/nico-ranking-tools/video"
)

// Per-call-site retry backoffs (spec.md section 4.1: "5/1 for regular
// searches, 1/1 for version checks").
const (
	searchSleep5xx      = 5 * time.Minute
	searchSleepUnknown  = 1 * time.Minute
	versionSleep5xx     = 1 * time.Minute
	versionSleepUnknown = 1 * time.Minute

	pageLimit = 100
	// versionRecheckEvery: "If loop_counter is a positive multiple of
	// 100, refetch the snapshot version" (spec.md section 4.1).
	versionRecheckEvery = 100
)

// apiClient is the subset of *nicoapi.Client the harvester calls; tests
// substitute a stub implementing this instead of a live server.
type apiClient interface {
	Search(ctx context.Context, params nicoapi.QueryParams) (nicoapi.ResponseJSON, time.Duration, error)
	Version(ctx context.Context) (nicoapi.Version, time.Duration, error)
}

// gate is the subset of *ratelimit.Gate the harvester calls; tests
// substitute a zero-wait fake so the 1-request-per-second floor doesn't
// make every test take minutes.
type gate interface {
	BeforeRequest() time.Time
	AfterRequest(start time.Time, latency time.Duration)
}

// Harvester crawls one [since, until) interval window by window. A single
// Harvester instance owns one rate-limit Gate for its entire crawl and is
// not safe for concurrent use (spec.md section 5: "one logical crawl
// thread that issues HTTP requests sequentially").
type Harvester struct {
	Client apiClient
	Gate   gate

	// UserFilter, if set, is AND'd into every window's start_time range
	// filter (spec.md section 4.1 step 3).
	UserFilter *nicoapi.Filter

	Progress *Progress
}

func New(client *nicoapi.Client) *Harvester {
	return &Harvester{Client: client, Gate: ratelimit.NewGate()}
}

// HarvestWindow runs the per-window consistency protocol (spec.md section
// 4.1's numbered algorithm, and the state machine it names: Preflight ->
// Paging -> Postflight -> Emitted | Restart). It only returns an error on
// context cancellation or a Configuration-class failure in building the
// request; every HTTP-layer failure is retried indefinitely (by retry.Do,
// or for a malformed page by the paging loop itself) and never surfaces
// here.
func (h *Harvester) HarvestWindow(ctx context.Context, win Window) (video.WindowBatch, error) {
	if _, err := h.searchParams(win, 0).Encode(); err != nil {
		return video.WindowBatch{}, errors.Wrap(err, "building search request")
	}

	var bar *WindowBar
	if h.Progress != nil {
		bar = h.Progress.NewWindowBar(win.Start.Format("2006-01-02"))
		defer bar.Done()
	}

	for {
		// Preflight
		preVersion, err := h.fetchVersion(ctx, "preflight version")
		if err != nil {
			return video.WindowBatch{}, err
		}

		records, totalCount, pagesReceived, restart, err := h.page(ctx, win, preVersion, bar)
		if err != nil {
			return video.WindowBatch{}, err
		}
		if restart {
			nlog.Infof("window %s: snapshot drifted mid-stream, restarting", win.Start)
			continue
		}

		// Postflight
		postVersion, err := h.fetchVersion(ctx, "postflight version")
		if err != nil {
			return video.WindowBatch{}, err
		}
		if !postVersion.Equal(preVersion) {
			nlog.Infof("window %s: snapshot drifted at postflight, restarting", win.Start)
			continue
		}

		// Emitted
		return video.WindowBatch{
			WindowStart:   win.Start,
			WindowEnd:     win.End,
			LastModified:  preVersion.Time(),
			Records:       records,
			TotalCount:    totalCount,
			PagesReceived: pagesReceived,
		}, nil
	}
}

// page runs the Paging state: repeated offset-paginated fetches until the
// window is exhausted or a mid-stream version check detects drift.
func (h *Harvester) page(ctx context.Context, win Window, preVersion nicoapi.Version, bar *WindowBar) (records []video.Record, totalCount int, pagesReceived int, restart bool, err error) {
	var (
		got, fullCount uint32 = 0, 1
		loopCounter    uint32
	)
	accumulator := make([]video.Record, 0, pageLimit)

	for got < fullCount {
		loopCounter++
		if loopCounter%versionRecheckEvery == 0 {
			cur, err := h.fetchVersion(ctx, "mid-stream version")
			if err != nil {
				return nil, 0, 0, false, err
			}
			if !cur.Equal(preVersion) {
				return nil, 0, 0, true, nil
			}
		}

		params := h.searchParams(win, got)
		start := h.Gate.BeforeRequest()
		resp, latency, err := retry.Do(ctx, "search", searchSleep5xx, searchSleepUnknown,
			func() (nicoapi.ResponseJSON, time.Duration, error) {
				return h.Client.Search(ctx, params)
			})
		if err != nil {
			var de *retry.DecodeError
			if errors.As(err, &de) {
				// MalformedPayload (spec.md section 7): the page counts as
				// zero records, not a dropped connection — retrying the
				// identical request would only decode-fail again, so move
				// on and let the next loop iteration re-request this same
				// offset at the normal rate-limited pace.
				nlog.Warningf("window %s: malformed page at offset %d, treating as zero records: %v", win.Start, got, err)
				h.Gate.AfterRequest(start, latency)
				pagesReceived++
				continue
			}
			return nil, 0, 0, false, errors.Wrap(err, "search")
		}
		h.Gate.AfterRequest(start, latency)

		for _, v := range resp.Data {
			accumulator = append(accumulator, video.FromAPI(v, preVersion.Time()))
		}
		got += uint32(len(resp.Data))
		fullCount = uint32(resp.Meta.TotalCount)
		pagesReceived++
		if bar != nil {
			bar.Update(got, fullCount)
		}
		if len(resp.Data) == 0 {
			break
		}
	}
	return accumulator, int(fullCount), pagesReceived, false, nil
}

func (h *Harvester) fetchVersion(ctx context.Context, name string) (nicoapi.Version, error) {
	v, _, err := retry.Do(ctx, name, versionSleep5xx, versionSleepUnknown,
		func() (nicoapi.Version, time.Duration, error) {
			return h.Client.Version(ctx)
		})
	if err != nil {
		return nicoapi.Version{}, errors.Wrap(err, name)
	}
	return v, nil
}

// searchParams builds the fixed query shape spec.md section 4.1 step 3
// names: empty text, start_time ascending, lower-inclusive window range
// AND'd with the optional user filter, all columns, limit 100.
func (h *Harvester) searchParams(win Window, offset uint32) nicoapi.QueryParams {
	timeFilter := nicoapi.Range(
		nicoapi.FieldStartTime,
		win.Start.Format(time.RFC3339),
		win.End.Format(time.RFC3339),
	).IncludeLowerBound()

	filter := timeFilter
	if h.UserFilter != nil {
		filter = nicoapi.And(timeFilter, *h.UserFilter)
	}

	params := nicoapi.NewQueryParams("", nicoapi.Ascending(nicoapi.SortStartTime))
	params.Fields = nicoapi.AllFields()
	params.Filter = &filter
	_ = params.SetLimit(pageLimit)
	_ = params.SetOffset(offset)
	return params
}
