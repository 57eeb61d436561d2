// Command nico-ranking is the orchestrator (spec.md section 6): it
// drives the five pipeline stages as phases, resuming from --phase when
// asked, each phase run as its own sibling executable — matching the
// original's get_exec_path-based process spawning
// (original_source/nico-ranking/src/{main,util}.rs).
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/anatawa12/nico-ranking-tools/cmn/nlog"
)

var buildTime string

// phase names the CLI surface's `--phase` values in pipeline order
// (spec.md section 6).
var phase = []string{"get-nico-data", "merge-nico-data", "sort-ranking", "merge-rankings", "html-gen"}

func phaseIndex(name string) int {
	for i, p := range phase {
		if p == name {
			return i
		}
	}
	return -1
}

func main() {
	app := cli.NewApp()
	app.Name = "nico-ranking"
	app.Usage = "run the full harvest-to-HTML ranking pipeline"
	app.Version = buildTime
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "since", Usage: "begin date of the find range, YYYY/MM/DD"},
		cli.StringFlag{Name: "until", Usage: "end date of the find range, YYYY/MM/DD or \"now\""},
		cli.StringFlag{Name: "duration", Usage: "window width, e.g. \"1 weeks\""},
		cli.StringFlag{Name: "filter", Usage: "path to a JSON file matching the filter schema"},
		cli.StringFlag{Name: "ranking-type", Usage: "watch-sum, watch-cnt, or watch-lng"},
		cli.StringFlag{Name: "phase", Value: "get-nico-data", Usage: "resume from this phase"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		nlog.Fatal("%v", err)
	}
}

func run(c *cli.Context) error {
	rankingType := c.String("ranking-type")
	if rankingType == "" {
		return cli.NewExitError("--ranking-type is required", 1)
	}
	startAt := phaseIndex(c.String("phase"))
	if startAt < 0 {
		return cli.NewExitError(fmt.Sprintf("invalid --phase %q", c.String("phase")), 1)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return err
	}
	mergedDir := filepath.Join(workDir, "merged")
	sortedDir := filepath.Join(workDir, "sorted")
	rankingCSV := filepath.Join(workDir, "ranking.csv")
	htmlDir := filepath.Join(workDir, "html")

	if startAt <= phaseIndex("get-nico-data") {
		args := []string{"--merged-dir", mergedDir}
		if v := c.String("since"); v != "" {
			args = append(args, "--since", v)
		}
		if v := c.String("until"); v != "" {
			args = append(args, "--until", v)
		}
		if v := c.String("duration"); v != "" {
			args = append(args, "--duration", v)
		}
		if v := c.String("filter"); v != "" {
			args = append(args, "--filter", v)
		}
		if err := runSibling("get-nico-data", args...); err != nil {
			return err
		}
	} else if startAt == phaseIndex("merge-nico-data") {
		// Resuming exactly at merge-nico-data: get-nico-data's own inline
		// merge didn't run this time, so replay its debug-artifact
		// directory instead (spec.md section 6's "out/<YYYY-MM-DD>/").
		if err := runSibling("merge-nico-data", "-a", "--merged-dir", mergedDir, filepath.Join(workDir, "out")); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(sortedDir, 0o755); err != nil {
		return err
	}
	if startAt <= phaseIndex("sort-ranking") {
		entries, err := os.ReadDir(mergedDir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if filepath.Ext(e.Name()) != ".bin" {
				continue
			}
			in := filepath.Join(mergedDir, e.Name())
			out := filepath.Join(sortedDir, e.Name())
			if err := runSibling("sort-ranking", in, out, rankingType); err != nil {
				return err
			}
		}
	}

	sortedBins, err := binsIn(sortedDir)
	if err != nil {
		return err
	}

	if startAt <= phaseIndex("merge-rankings") {
		mergeArgs := append([]string{rankingCSV}, sortedBins...)
		if err := runSibling("merge-rankings", mergeArgs...); err != nil {
			return err
		}
	}

	if startAt <= phaseIndex("html-gen") {
		if err := runSibling("html-gen", rankingCSV, htmlDir); err != nil {
			return err
		}
	}
	return nil
}

func binsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".bin" {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// runSibling execs name (a sibling binary installed next to this one)
// with args, streaming its stdout/stderr through.
func runSibling(name string, args ...string) error {
	path, err := execPath(name)
	if err != nil {
		return err
	}
	nlog.Infof("running %s...", name)
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func execPath(name string) (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", err
	}
	path := filepath.Join(filepath.Dir(self), name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("locating sibling executable %q: %w", name, err)
	}
	return path, nil
}
