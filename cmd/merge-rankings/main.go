// Command merge-rankings is the Ranking Merger stage (spec.md section
// 4.4): it k-way merges several SortedBlobs, each already sorted
// descending by its own carried key, into one ranking CSV.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/anatawa12/nico-ranking-tools/cmn/nlog"
	"github.com/anatawa12/nico-ranking-tools/ranksort"
	"github.com/anatawa12/nico-ranking-tools/video"
)

var buildTime string

func main() {
	app := cli.NewApp()
	app.Name = "merge-rankings"
	app.Usage = "k-way merge sorted blobs into one ranking CSV"
	app.ArgsUsage = "<out.csv> <in.bin...>"
	app.Version = buildTime
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		nlog.Fatal("%v", err)
	}
}

func run(c *cli.Context) error {
	args := c.Args()
	if len(args) < 2 {
		return cli.NewExitError(fmt.Sprintf("usage: %s %s", c.App.Name, c.App.ArgsUsage), 1)
	}
	outCSV, inputBins := args[0], args[1:]

	blobs := make([]*video.SortedBlob, len(inputBins))
	for i, path := range inputBins {
		nlog.Infof("reading %s", path)
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		blob, err := video.ReadSortedBlob(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		blobs[i] = blob
	}

	out, err := os.Create(outCSV)
	if err != nil {
		return err
	}
	defer out.Close()

	nlog.Infof("merging %d blobs into %s", len(blobs), outCSV)
	return ranksort.MergeRankings(out, blobs)
}
