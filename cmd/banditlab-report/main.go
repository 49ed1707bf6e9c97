package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"banditlab/internal/benchmark"
	"banditlab/internal/chart"
	"banditlab/internal/report"
	"banditlab/internal/util"
)

// RunEntry is one saved run rebuilt from its on-disk artifacts. The full
// reward trajectories stay out of runs.json; they feed the per-run chart.
type RunEntry struct {
	Manifest report.Manifest    `json:"manifest"`
	Dir      string             `json:"dir"`
	Chart    string             `json:"chart,omitempty"`
	Results  []benchmark.Result `json:"-"`
}

// SiteData is the payload behind the generated comparison site.
type SiteData struct {
	GeneratedAt string     `json:"generated_at"`
	Source      string     `json:"source"`
	Runs        []RunEntry `json:"runs"`
}

func main() {
	runsDir := flag.String("runs", "runs", "directory containing saved run directories")
	out := flag.String("out", "site", "output directory for the comparison site")
	serve := flag.String("serve", "", "optional address to serve the generated site, for example :8089")
	flag.Parse()

	entries, err := loadRuns(*runsDir)
	if err != nil {
		fail("load runs: %v", err)
	}
	if len(entries) == 0 {
		fail("no complete runs under %s", *runsDir)
	}
	sortRuns(entries)

	site := SiteData{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Source:      *runsDir,
		Runs:        entries,
	}
	if err := buildSite(*out, &site); err != nil {
		fail("build site: %v", err)
	}
	fmt.Printf("site with %d run(s) written to %s\n", len(site.Runs), *out)

	if *serve != "" {
		fmt.Printf("serving %s on http://%s\n", *out, *serve)
		if err := http.ListenAndServe(*serve, http.FileServer(http.Dir(*out))); err != nil {
			fail("serve site: %v", err)
		}
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// loadRuns scans root for run directories. Directories without a readable
// manifest and reward trace are skipped, so half-written runs never break
// the site build.
func loadRuns(root string) ([]RunEntry, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	entries := make([]RunEntry, 0, len(dirs))
	for _, dirEntry := range dirs {
		if !dirEntry.IsDir() {
			continue
		}
		dir := filepath.Join(root, dirEntry.Name())
		manifest, err := report.ReadManifest(dir)
		if err != nil {
			continue
		}
		results, err := report.ReadRewards(dir)
		if err != nil {
			continue
		}
		entries = append(entries, RunEntry{
			Manifest: manifest,
			Dir:      dirEntry.Name(),
			Results:  results,
		})
	}
	return entries, nil
}

// sortRuns orders entries newest first. Manifest timestamps are RFC3339, so
// a plain string compare sorts chronologically.
func sortRuns(entries []RunEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Manifest.Timestamp > entries[j].Manifest.Timestamp
	})
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func chartRelPath(runID string) string {
	return "charts/" + unsafePathChars.ReplaceAllString(runID, "_") + ".html"
}

// buildSite writes the static site: one chart page per run, an index table
// and a runs.json manifest of everything on it.
func buildSite(out string, site *SiteData) error {
	if err := os.MkdirAll(filepath.Join(out, "charts"), 0o755); err != nil {
		return err
	}
	for i := range site.Runs {
		entry := &site.Runs[i]
		id := entry.Manifest.RunID
		if id == "" {
			id = entry.Dir
		}
		entry.Chart = chartRelPath(id)
		if err := chart.WriteFile(filepath.Join(out, filepath.FromSlash(entry.Chart)), entry.Manifest.Name, entry.Results); err != nil {
			return err
		}
	}
	if err := writeIndex(filepath.Join(out, "index.html"), site); err != nil {
		return err
	}
	return writeJSONFile(filepath.Join(out, "runs.json"), site)
}

func writeIndex(path string, site *SiteData) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, &err, "site index")
	return indexTemplate.Execute(f, site)
}

func writeJSONFile(path string, site *SiteData) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, &err, "site json")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(site)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>banditlab runs</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; vertical-align: top; }
th { background: #f0f0f0; }
</style>
</head>
<body>
<h1>banditlab runs</h1>
<p>Generated {{.GeneratedAt}} from {{.Source}}.</p>
<table>
<tr><th>Experiment</th><th>Timestamp</th><th>Seed</th><th>Epochs</th><th>Arms</th><th>Players</th><th>Chart</th></tr>
{{range .Runs}}<tr>
<td>{{.Manifest.Name}}<br><small>{{.Manifest.RunID}}</small></td>
<td>{{.Manifest.Timestamp}}</td>
<td>{{.Manifest.Seed}}</td>
<td>{{.Manifest.Epochs}}</td>
<td>{{.Manifest.Arms}}</td>
<td>{{range .Manifest.Players}}{{.Name}} ({{.Strategy}}, tail mean {{printf "%.3f" .TailMean}})<br>{{end}}</td>
<td>{{if .Chart}}<a href="{{.Chart}}">chart</a>{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))
