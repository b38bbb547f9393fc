package analyzer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyzeDeterministic(t *testing.T) {
	m, err := NewMock("", 0)
	if err != nil {
		t.Fatal(err)
	}

	first, err := m.Analyze(context.Background(), "today was stressful")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := m.Analyze(context.Background(), "today was stressful")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same content produced different results")
	}
	if len(first.AwarenessPoints) == 0 || len(first.EmotionDistribution) == 0 {
		t.Errorf("result incomplete: %+v", first)
	}
}

func TestAnalyzeResultIsACopy(t *testing.T) {
	m, err := NewMock("", 0)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Analyze(context.Background(), "entry")
	if err != nil {
		t.Fatal(err)
	}
	res.AwarenessPoints[0] = "mutated"
	res.EmotionDistribution["stress"] = -1

	again, err := m.Analyze(context.Background(), "entry")
	if err != nil {
		t.Fatal(err)
	}
	if again.AwarenessPoints[0] == "mutated" {
		t.Error("caller mutation leaked into the fixture")
	}
	if again.EmotionDistribution["stress"] == -1 {
		t.Error("caller map mutation leaked into the fixture")
	}
}

func TestAnalyzeHonorsContextDuringDelay(t *testing.T) {
	m, err := NewMock("", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := m.Analyze(ctx, "x"); err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > time.Second {
		t.Error("Analyze did not return promptly on cancellation")
	}
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")
	fixtures := `results:
  - awareness_points: ["only point"]
    counselor_topics: ["only topic"]
    emotion_distribution:
      calm: 100
`
	if err := os.WriteFile(path, []byte(fixtures), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewMock(path, 0)
	if err != nil {
		t.Fatalf("NewMock: %v", err)
	}
	res, err := m.Analyze(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if res.AwarenessPoints[0] != "only point" || res.EmotionDistribution["calm"] != 100 {
		t.Errorf("result = %+v", res)
	}
}

func TestLoadFixturesInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")

	if _, err := NewMock(filepath.Join(dir, "missing.yaml"), 0); err == nil {
		t.Error("missing fixtures file accepted")
	}

	if err := os.WriteFile(path, []byte("results: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMock(path, 0); err == nil {
		t.Error("empty result set accepted")
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")
	v1 := `results:
  - awareness_points: ["v1"]
    emotion_distribution: {calm: 100}
`
	if err := os.WriteFile(path, []byte(v1), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewMock(path, 0)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = m.Watch(ctx, testLogger())
		close(done)
	}()

	// Give the watcher time to register, then rewrite the file.
	time.Sleep(100 * time.Millisecond)
	v2 := `results:
  - awareness_points: ["v2"]
    emotion_distribution: {calm: 100}
`
	if err := os.WriteFile(path, []byte(v2), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		res, err := m.Analyze(context.Background(), "x")
		if err == nil && res.AwarenessPoints[0] == "v2" {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("fixtures were not reloaded after file change")
}
