package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// FileRenderer materializes chart configs as PNG files under the state
// directory, one file per slot. Server-supplied images are written as
// is; histories are drawn with go-chart.
type FileRenderer struct {
	dir string
}

func NewFileRenderer(stateDir string) (*FileRenderer, error) {
	dir := filepath.Join(stateDir, "charts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	return &FileRenderer{dir: dir}, nil
}

func (r *FileRenderer) Render(slot string, cfg Config) (string, error) {
	path := filepath.Join(r.dir, "chart-"+slot+".png")

	if len(cfg.Image) > 0 {
		if err := os.WriteFile(path, cfg.Image, 0o644); err != nil {
			return "", fmt.Errorf("write chart image: %w", err)
		}
		return path, nil
	}
	if len(cfg.History) == 0 {
		return "", fmt.Errorf("nothing to render for slot %s", slot)
	}

	graph := gochart.Chart{
		Title:  cfg.Title,
		Width:  800,
		Height: 400,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 10},
		},
		Series: []gochart.Series{historySeries(cfg)},
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := graph.Render(gochart.PNG, f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return path, nil
}

func (r *FileRenderer) Destroy(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// historySeries prefers real dates on the X axis and falls back to the
// point index when any date fails to parse.
func historySeries(cfg Config) gochart.Series {
	times := make([]time.Time, 0, len(cfg.History))
	moods := make([]float64, 0, len(cfg.History))
	parseable := true
	for _, p := range cfg.History {
		ts, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			parseable = false
			break
		}
		times = append(times, ts)
		moods = append(moods, p.Mood)
	}
	if parseable {
		return gochart.TimeSeries{Name: cfg.Title, XValues: times, YValues: moods}
	}

	xs := make([]float64, 0, len(cfg.History))
	ys := make([]float64, 0, len(cfg.History))
	for i, p := range cfg.History {
		xs = append(xs, float64(i))
		ys = append(ys, p.Mood)
	}
	return gochart.ContinuousSeries{Name: cfg.Title, XValues: xs, YValues: ys}
}
