// Command merge-nico-data is the Window Merger stage's directory-based
// replay path (spec.md section 4.2, supplemented per SPEC_FULL.md
// section 7): it groups already-harvested window directories
// (out/<YYYY-MM-DD>/, written by get-nico-data's --debug-dir option)
// into merged_K.bin blobs, the same grouping logic the harvester's
// in-process channel path runs inline.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/anatawa12/nico-ranking-tools/cmn/nlog"
	"github.com/anatawa12/nico-ranking-tools/cmn/windowfile"
	"github.com/anatawa12/nico-ranking-tools/merge"
	"github.com/anatawa12/nico-ranking-tools/video"
)

var buildTime string

func main() {
	app := cli.NewApp()
	app.Name = "merge-nico-data"
	app.Usage = "merge harvested window directories into aggregated blobs"
	app.ArgsUsage = "<out-dir>"
	app.Version = buildTime
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "a", Usage: "merge across windows sharing a snapshot version (default: emit one blob per window)"},
		cli.BoolFlag{Name: "d", Usage: "delete consumed window directories after merging"},
		cli.StringFlag{Name: "merged-dir", Value: "merged", Usage: "directory to write merged_K.bin into"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		nlog.Fatal("%v", err)
	}
}

func run(c *cli.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return cli.NewExitError(fmt.Sprintf("usage: %s %s", c.App.Name, c.App.ArgsUsage), 1)
	}
	outDir := args[0]
	mergedDir := c.String("merged-dir")

	if err := os.MkdirAll(mergedDir, 0o755); err != nil {
		return err
	}

	names, err := windowfile.List(outDir)
	if err != nil {
		return err
	}
	nlog.Infof("found %d window directories under %s", len(names), outDir)

	ch := make(chan video.WindowBatch)
	go func() {
		defer close(ch)
		for _, name := range names {
			batch, err := windowfile.Read(outDir, name)
			if err != nil {
				nlog.Errorf("reading window %s: %v", name, err)
				continue
			}
			ch <- batch
		}
		ch <- video.SentinelBatch()
	}()

	m := &merge.Merger{PerWindow: !c.Bool("a")}
	err = m.Run(context.Background(), ch, func(n int, blob *video.AggregatedBlob) error {
		path := filepath.Join(mergedDir, fmt.Sprintf("merged_%d.bin", n))
		nlog.Infof("writing %s (%d records)", path, len(blob.Records))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return video.WriteBlob(f, blob)
	})
	if err != nil {
		return err
	}

	if c.Bool("d") {
		for _, name := range names {
			nlog.Infof("removing %s", name)
			if err := windowfile.Remove(outDir, name); err != nil {
				nlog.Errorf("removing window %s: %v", name, err)
			}
		}
	}
	return nil
}
