package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"argus-bot/internal/domain/catalog"
	"argus-bot/internal/domain/entity"
	"argus-bot/internal/infrastructure/vision"
)

func newTestController(t *testing.T, classifier ImageClassifier, rng Random, cfg DemoConfig) (*DemoController, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	d := NewDemoController(classifier, NewFallbackGenerator(rng), notifier, NewStatsService(), rng, cfg, zaptest.NewLogger(t))
	return d, notifier
}

func failingClassifier(err error) stubClassifier {
	return stubClassifier{classify: func(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
		return entity.InjuryRecord{}, err
	}}
}

func TestDemo_SampleWithUnloadedClassifier(t *testing.T) {
	classifier := NewClassifier(&fakeLoader{}, vision.NewPreprocessor(0), nil, nil, nil)
	d, notifier := newTestController(t, classifier, NewRandom(1), quickConfig())

	require.NoError(t, d.Select(entity.ImageRef{Hint: "sample1.jpg", Data: pngBytes(t)}))
	rec, err := d.Analyze(context.Background())
	require.NoError(t, err)

	require.Equal(t, entity.CategoryLaceration, rec.Category)
	require.Equal(t, "S61.0", rec.Code)
	require.Contains(t, rec.Treatment, "pressure dressing")
	require.Equal(t, entity.SourceFallback, rec.Source)
	require.False(t, d.Analyzing())
	require.True(t, notifier.has("Injury detected: Laceration", entity.LevelSuccess))
}

func TestDemo_UploadedWithThrowingClassifier(t *testing.T) {
	d, notifier := newTestController(t, failingClassifier(fmtInference("boom")), NewRandom(9), quickConfig())
	subset := catalog.FallbackSubset()

	for i := 0; i < 20; i++ {
		require.NoError(t, d.Select(entity.ImageRef{Hint: entity.HintUploaded, Data: []byte("img")}))
		rec, err := d.Analyze(context.Background())
		require.NoError(t, err)
		require.Contains(t, subset, rec.Category)
		require.GreaterOrEqual(t, rec.Confidence, 0.85)
		require.Less(t, rec.Confidence, 1.0)
		require.True(t, catalog.Lookup(rec.Category).AllowsSeverity(rec.Severity))
	}
	require.True(t, notifier.has("AI Model Error: inference error: boom", entity.LevelError))

	stats := d.Stats()
	require.Equal(t, 20, stats.ImagesAnalyzed)
	require.Equal(t, 20, stats.FallbackRuns)
}

func fmtInference(msg string) error {
	return fmt.Errorf("%w: %s", ErrInference, msg)
}

func TestDemo_FailureEqualsFallback(t *testing.T) {
	ignore := cmpopts.IgnoreFields(entity.InjuryRecord{}, "ID", "CreatedAt")

	for _, err := range []error{ErrNotReady, ErrBusy, fmtInference("bad tensor")} {
		for _, hint := range []string{"sample2.jpg", "Burn", entity.HintUploaded, "random.png"} {
			d, _ := newTestController(t, failingClassifier(err), newSequenceRandom(3, 1, 4), quickConfig())
			want := NewFallbackGenerator(newSequenceRandom(3, 1, 4)).Generate(hint)

			require.NoError(t, d.Select(entity.ImageRef{Hint: hint, Data: []byte("x")}))
			got, aerr := d.Analyze(context.Background())
			require.NoError(t, aerr)
			require.Empty(t, cmp.Diff(want, got, ignore), "%v / %s", err, hint)
		}
	}
}

func TestDemo_AnalyzeWithoutImage(t *testing.T) {
	d, notifier := newTestController(t, failingClassifier(ErrNotReady), NewRandom(1), quickConfig())

	_, err := d.Analyze(context.Background())
	require.ErrorIs(t, err, ErrNoImage)
	require.False(t, d.Analyzing())
	require.Equal(t, []entity.Notification{{
		Message: "Please upload an image or select a sample image first.",
		Level:   entity.LevelInfo,
	}}, notifier.all())
}

func TestDemo_SecondAnalyzeRejected(t *testing.T) {
	release := make(chan struct{})
	classifier := stubClassifier{classify: func(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
		<-release
		return entity.InjuryRecord{}, ErrNotReady
	}}
	d, notifier := newTestController(t, classifier, NewRandom(2), quickConfig())
	require.NoError(t, d.Select(entity.ImageRef{Hint: "sample5.jpg", Data: []byte("x")}))

	var (
		wg      sync.WaitGroup
		records []entity.InjuryRecord
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		rec, err := d.Analyze(context.Background())
		if err == nil {
			records = append(records, rec)
		}
	}()

	require.Eventually(t, d.Analyzing, time.Second, time.Millisecond)

	_, err := d.Analyze(context.Background())
	require.ErrorIs(t, err, ErrAnalysisInProgress)
	require.True(t, d.Analyzing())
	require.True(t, notifier.has("Analysis already in progress...", entity.LevelInfo))

	require.ErrorIs(t, d.Select(entity.ImageRef{Hint: "sample1.jpg"}), ErrAnalysisInProgress)
	ref, ok := d.CurrentImage()
	require.True(t, ok)
	require.Equal(t, "sample5.jpg", ref.Hint)

	close(release)
	wg.Wait()

	require.Len(t, records, 1)
	require.Equal(t, entity.CategoryCut, records[0].Category)
	require.Equal(t, 1, d.Stats().ImagesAnalyzed)
}

func TestDemo_Reset(t *testing.T) {
	d, notifier := newTestController(t, failingClassifier(ErrNotReady), NewRandom(1), quickConfig())

	require.NoError(t, d.Select(entity.ImageRef{Hint: "sample2.jpg"}))
	d.Reset()
	d.Reset()

	_, ok := d.CurrentImage()
	require.False(t, ok)
	require.False(t, d.Analyzing())
	require.True(t, notifier.has("Demo reset successfully.", entity.LevelInfo))

	_, err := d.Analyze(context.Background())
	require.ErrorIs(t, err, ErrNoImage)
}

func TestDemo_ResetDuringAnalysis(t *testing.T) {
	release := make(chan struct{})
	classifier := stubClassifier{classify: func(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
		<-release
		return entity.InjuryRecord{}, ErrNotReady
	}}
	d, _ := newTestController(t, classifier, NewRandom(2), quickConfig())
	require.NoError(t, d.Select(entity.ImageRef{Hint: "sample1.jpg", Data: []byte("x")}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = d.Analyze(context.Background())
	}()
	require.Eventually(t, d.Analyzing, time.Second, time.Millisecond)

	d.Reset()
	require.False(t, d.Analyzing())

	require.NoError(t, d.Select(entity.ImageRef{Hint: "sample2.jpg"}))
	close(release)
	<-done

	ref, ok := d.CurrentImage()
	require.True(t, ok)
	require.Equal(t, "sample2.jpg", ref.Hint)
	require.False(t, d.Analyzing())
}

func TestDemo_Timeout(t *testing.T) {
	release := make(chan struct{})
	returned := make(chan struct{})
	classifier := stubClassifier{classify: func(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
		defer close(returned)
		<-release
		return entity.InjuryRecord{Category: entity.CategoryAmputation, Source: entity.SourceModel}, nil
	}}
	d, notifier := newTestController(t, classifier, NewRandom(4), quickConfig())
	d.logger = zap.NewNop()

	fire := make(chan time.Time, 1)
	d.after = func(time.Duration) <-chan time.Time { return fire }
	fire <- time.Now()

	require.NoError(t, d.Select(entity.ImageRef{Hint: "sample2.jpg", Data: []byte("x")}))
	rec, err := d.Analyze(context.Background())
	require.NoError(t, err)

	require.Equal(t, entity.CategoryBurn, rec.Category)
	require.Equal(t, entity.SourceFallback, rec.Source)
	require.True(t, notifier.has("Analysis timed out - please try again", entity.LevelWarning))
	require.False(t, d.Analyzing())
	require.Equal(t, 1, d.Stats().Timeouts)

	// поздний ответ модели отбрасывается, горутина завершается
	close(release)
	<-returned
	require.Equal(t, 1, d.Stats().ImagesAnalyzed)
	require.Zero(t, d.Stats().ModelRuns)
}

func TestDemo_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	classifier := stubClassifier{classify: func(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
		<-release
		return entity.InjuryRecord{}, ErrNotReady
	}}
	d, _ := newTestController(t, classifier, NewRandom(4), quickConfig())
	d.logger = zap.NewNop()
	require.NoError(t, d.Select(entity.ImageRef{Hint: "sample1.jpg", Data: []byte("x")}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Analyze(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, d.Analyzing())
}

func TestDemo_SampleWithoutFileSkipsClassifier(t *testing.T) {
	classifier := stubClassifier{classify: func(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
		t.Fatal("classifier must not be called")
		return entity.InjuryRecord{}, nil
	}}
	d, _ := newTestController(t, classifier, NewRandom(4), quickConfig())
	require.NoError(t, d.Select(entity.ImageRef{Hint: "sample2.jpg"}))

	rec, err := d.Analyze(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.CategoryBurn, rec.Category)
	require.Equal(t, entity.SeverityModerateToSevere, rec.Severity)
}

func TestDemo_ModelSuccess(t *testing.T) {
	want := entity.InjuryRecord{ID: "r1", Category: entity.CategoryBruise, Confidence: 0.77, Source: entity.SourceModel}
	classifier := stubClassifier{classify: func(ctx context.Context, data []byte) (entity.InjuryRecord, error) {
		return want, nil
	}}
	d, notifier := newTestController(t, classifier, NewRandom(4), quickConfig())
	require.NoError(t, d.Select(entity.ImageRef{Hint: entity.HintUploaded, Data: []byte("x")}))

	rec, err := d.Analyze(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, rec)
	require.True(t, notifier.has("Injury detected: Bruise (Contusion)", entity.LevelSuccess))
	require.Equal(t, 1, d.Stats().ModelRuns)
}

func TestDemo_FallbackDelay(t *testing.T) {
	cfg := DemoConfig{
		Timeout:          time.Minute,
		FallbackDelayMin: 2 * time.Second,
		FallbackDelayMax: 4 * time.Second,
		ModelErrorDelay:  time.Second,
	}

	tests := []struct {
		name string
		err  error
		min  time.Duration
		max  time.Duration
	}{
		{name: "not ready", err: ErrNotReady, min: 2 * time.Second, max: 4 * time.Second},
		{name: "model error", err: fmtInference("x"), min: time.Second, max: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestController(t, failingClassifier(tt.err), NewRandom(8), cfg)

			var (
				mu     sync.Mutex
				delays []time.Duration
			)
			d.after = func(delay time.Duration) <-chan time.Time {
				mu.Lock()
				delays = append(delays, delay)
				mu.Unlock()
				if delay == cfg.Timeout {
					return nil
				}
				ch := make(chan time.Time, 1)
				ch <- time.Now()
				return ch
			}

			require.NoError(t, d.Select(entity.ImageRef{Hint: "sample1.jpg", Data: []byte("x")}))
			_, err := d.Analyze(context.Background())
			require.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			require.Len(t, delays, 2)
			require.GreaterOrEqual(t, delays[1], tt.min)
			require.LessOrEqual(t, delays[1], tt.max)
		})
	}
}
