// Command get-nico-data is the Harvester stage (spec.md section 4.1): it
// crawls [since, until) window by window against the snapshot API and
// merges the results inline via the spec's harvester->merger channel
// (spec.md section 5), writing merged_K.bin blobs. With --debug-dir set
// it additionally persists each window as a directory merge-nico-data
// can later replay (spec.md section 6's "Persisted state").
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/anatawa12/nico-ranking-tools/cmn/humandur"
	"github.com/anatawa12/nico-ranking-tools/cmn/nlog"
	"github.com/anatawa12/nico-ranking-tools/cmn/windowfile"
	"github.com/anatawa12/nico-ranking-tools/harvest"
	"github.com/anatawa12/nico-ranking-tools/merge"
	"github.com/anatawa12/nico-ranking-tools/nicoapi"
	"github.com/anatawa12/nico-ranking-tools/video"
)

var buildTime string

// jst is the timezone --since/--until dates are interpreted in, matching
// the original's `FixedOffset::east(9 * 3600)`.
var jst = time.FixedZone("JST", 9*3600)

const dateLayout = "2006/01/02"

func main() {
	app := cli.NewApp()
	app.Name = "get-nico-data"
	app.Usage = "harvest video records from the snapshot search API"
	app.Version = buildTime
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "since", Value: "2007/03/06", Usage: "begin date of the find range, YYYY/MM/DD"},
		cli.StringFlag{Name: "until", Value: "now", Usage: "end date of the find range, YYYY/MM/DD or \"now\""},
		cli.StringFlag{Name: "duration", Value: "1 week", Usage: "window width, e.g. \"1 weeks\", \"3 days\""},
		cli.StringFlag{Name: "filter", Usage: "path to a JSON file matching the filter schema"},
		cli.StringFlag{Name: "merged-dir", Value: "merged", Usage: "directory to write merged_K.bin into"},
		cli.StringFlag{Name: "debug-dir", Value: "", Usage: "if set, also persist each window under this directory"},
		cli.BoolFlag{Name: "per-window", Usage: "emit one blob per window instead of grouping by snapshot version"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		nlog.Fatal("%v", err)
	}
}

func run(c *cli.Context) error {
	since, err := parseDate(c.String("since"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("since: %v", err), 1)
	}

	var until time.Time
	if u := c.String("until"); u == "" || u == "now" {
		until = time.Now()
	} else if until, err = parseDate(u); err != nil {
		return cli.NewExitError(fmt.Sprintf("until: %v", err), 1)
	}

	delta, err := humandur.Parse(c.String("duration"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("duration: %v", err), 1)
	}

	var filter *nicoapi.Filter
	if path := c.String("filter"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("filter: %v", err), 1)
		}
		var parsed nicoapi.Filter
		decodeErr := json.NewDecoder(f).Decode(&parsed)
		_ = f.Close()
		if decodeErr != nil {
			return cli.NewExitError(fmt.Sprintf("filter: %v", decodeErr), 1)
		}
		filter = &parsed
	}

	windows := harvest.Windows(since, until, delta, time.Now())
	nlog.Infof("harvesting %d windows from %s to %s", len(windows), since.Format(dateLayout), until.Format(dateLayout))

	mergedDir := c.String("merged-dir")
	if err := os.MkdirAll(mergedDir, 0o755); err != nil {
		return err
	}
	debugDir := c.String("debug-dir")
	if debugDir != "" {
		if err := os.MkdirAll(debugDir, 0o755); err != nil {
			return err
		}
	}

	progress := harvest.NewProgress()
	h := harvest.New(nicoapi.NewClient())
	h.UserFilter = filter
	h.Progress = progress

	ch := make(chan video.WindowBatch)
	group, ctx := errgroup.WithContext(context.Background())

	group.Go(func() error {
		defer close(ch)
		for _, win := range windows {
			batch, err := h.HarvestWindow(ctx, win)
			if err != nil {
				return err
			}
			if debugDir != "" {
				if err := windowfile.Write(debugDir, batch); err != nil {
					nlog.Errorf("writing debug artifacts for window %s: %v", win.Start, err)
				}
			}
			select {
			case ch <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		select {
		case ch <- video.SentinelBatch():
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})

	group.Go(func() error {
		m := &merge.Merger{PerWindow: c.Bool("per-window")}
		return m.Run(ctx, ch, func(n int, blob *video.AggregatedBlob) error {
			path := filepath.Join(mergedDir, fmt.Sprintf("merged_%d.bin", n))
			nlog.Infof("writing %s (%d records)", path, len(blob.Records))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			return video.WriteBlob(f, blob)
		})
	})

	err = group.Wait()
	progress.Wait()
	return err
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, jst)
}
