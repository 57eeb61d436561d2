// Command html-gen is the HTML Renderer stage (spec.md section 4.5): it
// reads a ranking CSV (or, as a supplemented feature, a SortedBlob
// directly) and writes paginated HTML to an output directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/anatawa12/nico-ranking-tools/cmn/nlog"
	"github.com/anatawa12/nico-ranking-tools/htmlgen"
)

var buildTime string

func main() {
	app := cli.NewApp()
	app.Name = "html-gen"
	app.Usage = "render a ranking into paginated HTML"
	app.ArgsUsage = "<input csv|bin> <output dir>"
	app.Version = buildTime
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		nlog.Fatal("%v", err)
	}
}

func run(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.NewExitError(fmt.Sprintf("usage: %s %s", c.App.Name, c.App.ArgsUsage), 1)
	}
	inputPath, outDir := args[0], args[1]

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	nlog.Infof("reading %s", inputPath)
	var rows []htmlgen.Row
	if strings.HasSuffix(inputPath, ".bin") {
		rows, err = htmlgen.LoadSortedBlob(f)
	} else {
		rows, err = htmlgen.LoadCSV(f)
	}
	if err != nil {
		return err
	}

	pages := htmlgen.Paginate(rows)
	nlog.Infof("rendering %d pages to %s", len(pages), outDir)
	if err := htmlgen.RenderPages(outDir, pages); err != nil {
		return err
	}
	if err := htmlgen.RenderIndex(outDir, pages); err != nil {
		return err
	}
	nlog.Infof("wrote %s", filepath.Join(outDir, "index.html"))
	return nil
}
