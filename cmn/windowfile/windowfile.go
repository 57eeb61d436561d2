// Package windowfile persists one harvested WindowBatch as a directory
// on disk — the optional debug-artifact layout spec.md section 6 names
// (`out/<YYYY-MM-DD>/`) and the directory merge-nico-data can later
// replay instead of consuming the harvester's live channel, matching the
// original's per-week directory of a version.json plus ranking data
// (original_source/merge-nico-data/src/{common,per_week,util}.rs).
package windowfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/anatawa12/nico-ranking-tools/video"
)

// dirNameRegex matches a window directory's name, grounded on
// util.rs's WEEK_DIR_NAME_REGEX.
var dirNameRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type versionJSON struct {
	LastModified  time.Time `json:"last_modified"`
	TotalCount    int       `json:"total_count"`
	PagesReceived int       `json:"pages_received"`
}

// Write persists batch under outDir/<window-start-date>/, skipping the
// harvester->merger sentinel (nothing to persist for end-of-stream).
func Write(outDir string, batch video.WindowBatch) error {
	if batch.IsSentinel() {
		return nil
	}
	dir := filepath.Join(outDir, batch.WindowStart.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating window dir %s", dir)
	}

	vj := versionJSON{LastModified: batch.LastModified, TotalCount: batch.TotalCount, PagesReceived: batch.PagesReceived}
	vf, err := os.Create(filepath.Join(dir, "version.json"))
	if err != nil {
		return err
	}
	defer vf.Close()
	if err := json.NewEncoder(vf).Encode(&vj); err != nil {
		return errors.Wrap(err, "writing version.json")
	}

	rf, err := os.Create(filepath.Join(dir, "records.bin"))
	if err != nil {
		return err
	}
	defer rf.Close()
	blob := &video.AggregatedBlob{LastModified: batch.LastModified, Records: batch.Records}
	if err := video.WriteBlob(rf, blob); err != nil {
		return errors.Wrap(err, "writing records.bin")
	}
	return nil
}

// List returns every window directory under outDir, sorted by name
// (ascending window_start, since names are YYYY-MM-DD), grounded on
// util.rs's sorted_ls_matches_regex.
func List(outDir string) ([]string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && dirNameRegex.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read loads one window directory back into a WindowBatch. WindowStart is
// parsed from the directory name; WindowEnd is left zero since it isn't
// needed past the harvester.
func Read(outDir, name string) (video.WindowBatch, error) {
	dir := filepath.Join(outDir, name)
	vf, err := os.Open(filepath.Join(dir, "version.json"))
	if err != nil {
		return video.WindowBatch{}, err
	}
	defer vf.Close()
	var vj versionJSON
	if err := json.NewDecoder(vf).Decode(&vj); err != nil {
		return video.WindowBatch{}, errors.Wrap(err, "reading version.json")
	}

	rf, err := os.Open(filepath.Join(dir, "records.bin"))
	if err != nil {
		return video.WindowBatch{}, err
	}
	defer rf.Close()
	blob, err := video.ReadBlob(rf)
	if err != nil {
		return video.WindowBatch{}, errors.Wrap(err, "reading records.bin")
	}

	windowStart, err := time.Parse("2006-01-02", name)
	if err != nil {
		return video.WindowBatch{}, errors.Wrapf(err, "parsing window dir name %q", name)
	}

	return video.WindowBatch{
		WindowStart:   windowStart,
		LastModified:  vj.LastModified,
		Records:       blob.Records,
		TotalCount:    vj.TotalCount,
		PagesReceived: vj.PagesReceived,
	}, nil
}

// Remove deletes one already-consumed window directory (spec.md section
// 6's `-d` / delete-consumed-windows flag).
func Remove(outDir, name string) error {
	return os.RemoveAll(filepath.Join(outDir, name))
}
