// Command sort-ranking is the Sorter/Filter stage (spec.md section 4.3):
// it reads one AggregatedBlob, scores and optionally filters its
// records, and writes a SortedBlob ordered descending by key.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/anatawa12/nico-ranking-tools/cmn/nlog"
	"github.com/anatawa12/nico-ranking-tools/ranksort"
	"github.com/anatawa12/nico-ranking-tools/video"
)

var buildTime string

func main() {
	app := cli.NewApp()
	app.Name = "sort-ranking"
	app.Usage = "sort and filter one aggregated blob into a ranking-ordered blob"
	app.ArgsUsage = "<input bin> <output bin> <ranking-type> [filter expression...]"
	app.Version = buildTime
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		nlog.Fatal("%v", err)
	}
}

func run(c *cli.Context) error {
	args := c.Args()
	if len(args) < 3 {
		return cli.NewExitError(fmt.Sprintf("usage: %s %s", c.App.Name, c.App.ArgsUsage), 1)
	}
	inputBin, outputBin, rankingType := args[0], args[1], args[2]

	mode, err := ranksort.ParseMode(rankingType)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	filter, err := ranksort.Parse(args[3:])
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	nlog.Infof("reading %s", inputBin)
	start := time.Now()
	in, err := os.Open(inputBin)
	if err != nil {
		return err
	}
	blob, err := video.ReadBlob(in)
	_ = in.Close()
	if err != nil {
		return err
	}
	nlog.Infof("reading took %s", time.Since(start))

	nlog.Infof("sorting %d records", len(blob.Records))
	start = time.Now()
	sorted, err := ranksort.Sort(mode, filter, blob)
	if err != nil {
		return err
	}
	nlog.Infof("sorting took %s", time.Since(start))

	nlog.Infof("writing %s", outputBin)
	out, err := os.Create(outputBin)
	if err != nil {
		return err
	}
	defer out.Close()
	return video.WriteSortedBlob(out, sorted)
}
