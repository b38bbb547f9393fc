package analyzer

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Mock is a fixture-backed Analyzer. It picks a canned result
// deterministically from the note content and simulates inference
// latency with a configurable delay. Result sets come from an optional
// YAML fixtures file that can be hot-reloaded at runtime.
type Mock struct {
	delay time.Duration
	path  string

	mu      sync.RWMutex
	results []Result
}

// fixtureFile is the on-disk shape of the fixtures YAML.
type fixtureFile struct {
	Results []Result `yaml:"results"`
}

// NewMock creates a mock analyzer. If fixturesPath is empty the built-in
// result set is used.
func NewMock(fixturesPath string, delay time.Duration) (*Mock, error) {
	m := &Mock{delay: delay, path: fixturesPath, results: defaultResults()}
	if fixturesPath != "" {
		if err := m.Reload(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Analyze returns a canned result after the configured delay. The pick
// is a stable function of the content so re-analyzing unchanged text
// yields the same result.
func (m *Mock) Analyze(ctx context.Context, content string) (*Result, error) {
	if m.delay > 0 {
		t := time.NewTimer(m.delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.results) == 0 {
		return nil, fmt.Errorf("analyzer: no results configured")
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	picked := m.results[int(h.Sum32())%len(m.results)]

	// Copy so callers cannot mutate the shared fixture.
	out := Result{
		AwarenessPoints:     append([]string(nil), picked.AwarenessPoints...),
		CounselorTopics:     append([]string(nil), picked.CounselorTopics...),
		EmotionDistribution: make(map[string]float64, len(picked.EmotionDistribution)),
	}
	for k, v := range picked.EmotionDistribution {
		out.EmotionDistribution[k] = v
	}
	return &out, nil
}

// Reload re-reads the fixtures file.
func (m *Mock) Reload() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("analyzer: read fixtures: %w", err)
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("analyzer: parse fixtures: %w", err)
	}
	if len(f.Results) == 0 {
		return fmt.Errorf("analyzer: fixtures file has no results")
	}
	m.mu.Lock()
	m.results = f.Results
	m.mu.Unlock()
	return nil
}

// Watch reloads the fixtures file whenever it changes on disk, until
// ctx is cancelled. Events are debounced since editors often emit
// several writes per save. Returns immediately when no fixtures file is
// configured.
func (m *Mock) Watch(ctx context.Context, logger *slog.Logger) error {
	if m.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: some editors replace the file on save, which
	// would drop a watch on the file itself.
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		return err
	}

	logger.Info("analyzer: watching fixtures", slog.String("path", m.path))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("analyzer: fixtures watcher stopped")
			return nil

		case <-reloadCh:
			if err := m.Reload(); err != nil {
				logger.Warn("analyzer: fixtures reload failed", slog.String("error", err.Error()))
			} else {
				logger.Info("analyzer: fixtures reloaded", slog.String("path", m.path))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(m.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("analyzer: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// defaultResults mirrors the canned result set the product shipped with
// before fixtures were configurable.
func defaultResults() []Result {
	return []Result{
		{
			AwarenessPoints: []string{
				"You tend to describe events before describing how they made you feel.",
				"Recurring mentions of deadlines suggest time pressure is a theme this week.",
			},
			CounselorTopics: []string{
				"Managing workload-related stress",
				"Naming emotions as they occur",
			},
			EmotionDistribution: map[string]float64{
				"stress": 40, "happiness": 30, "anxiety": 20, "other": 10,
			},
		},
		{
			AwarenessPoints: []string{
				"Positive moments appear mostly in entries about other people.",
				"You often minimize your own accomplishments.",
			},
			CounselorTopics: []string{
				"Self-compassion practices",
				"Celebrating small wins",
			},
			EmotionDistribution: map[string]float64{
				"happiness": 45, "stress": 25, "anxiety": 15, "other": 15,
			},
		},
		{
			AwarenessPoints: []string{
				"Sleep quality comes up repeatedly alongside low-energy days.",
			},
			CounselorTopics: []string{
				"Sleep hygiene and evening routines",
			},
			EmotionDistribution: map[string]float64{
				"anxiety": 35, "stress": 30, "happiness": 20, "other": 15,
			},
		},
	}
}
