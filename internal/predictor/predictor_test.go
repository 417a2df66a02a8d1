// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package predictor

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cohortcast/internal/logging"
	"github.com/tomtom215/cohortcast/internal/models"
	"github.com/tomtom215/cohortcast/internal/statestore"
)

func sampleCohorts(n int) []models.CohortData {
	cohorts := make([]models.CohortData, n)
	for i := range cohorts {
		shift := float64(i) * 0.01
		cohorts[i] = models.CohortData{
			CohortID: "c" + string(rune('a'+i)),
			Retention: map[int]float64{
				0: 1,
				1: 0.40 + shift,
				3: 0.30 + shift,
				7: 0.20 + shift,
				14: 0.15,
				30: 0.10,
			},
		}
	}
	return cohorts
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	p := New(Config{GameType: "Battle Royale", ValidationSplit: 2, MinDataPoints: -1}, nil, zerolog.Nop())

	if p.GameType() != GameTypeBattleRoyale {
		t.Errorf("GameType = %q", p.GameType())
	}
	if p.cfg.ValidationSplit != 0.2 {
		t.Errorf("ValidationSplit = %v, want default 0.2", p.cfg.ValidationSplit)
	}
	if p.cfg.StateKey != DefaultStateKey {
		t.Errorf("StateKey = %q", p.cfg.StateKey)
	}
	if p.MinCohorts() != 0 {
		t.Errorf("MinCohorts = %d, want 0", p.MinCohorts())
	}
	if p.TrainedCurve() != nil {
		t.Error("untrained predictor should have a nil curve")
	}
}

func TestTrain_InsufficientData(t *testing.T) {
	t.Parallel()
	p := New(DefaultConfig(), nil, zerolog.Nop())

	err := p.Train(sampleCohorts(4))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Train error = %v, want ErrInsufficientData", err)
	}
	if p.TrainedCurve() != nil {
		t.Error("failed training should leave the model untouched")
	}
	if p.Changed() {
		t.Error("failed training should not mark the model changed")
	}
}

func TestTrain_AveragesAndFillsGaps(t *testing.T) {
	t.Parallel()
	p := New(DefaultConfig(), nil, zerolog.Nop())

	if err := p.Train(sampleCohorts(5)); err != nil {
		t.Fatalf("Train: %v", err)
	}
	curve := p.TrainedCurve()
	if len(curve) != models.CurveLength {
		t.Fatalf("len(curve) = %d", len(curve))
	}

	checks := map[int]float64{
		0:  1,
		1:  0.42, // mean of 0.40..0.44
		2:  0.42 * 0.9,
		7:  0.22,
		8:  0.22 * 0.9,
		9:  0.22 * 0.81,
		30: 0.10,
	}
	for day, want := range checks {
		if math.Abs(curve[day]-want) > 1e-9 {
			t.Errorf("curve[%d] = %v, want %v", day, curve[day], want)
		}
	}
	if !p.Changed() {
		t.Error("training should mark the model changed")
	}
	if p.State().TrainedOn != 5 {
		t.Errorf("TrainedOn = %d", p.State().TrainedOn)
	}

	// The caller's copy is detached.
	curve[1] = 99
	if p.TrainedCurve()[1] == 99 {
		t.Error("TrainedCurve returned internal storage")
	}
}

func TestTrain_MissingDayZero(t *testing.T) {
	t.Parallel()
	p := New(Config{MinDataPoints: 100}, nil, zerolog.Nop())

	if err := p.Train([]models.CohortData{{CohortID: "x", Retention: map[int]float64{1: 0.5}}}); err != nil {
		t.Fatal(err)
	}
	curve := p.TrainedCurve()
	if curve[0] != 1 {
		t.Errorf("curve[0] = %v, want 1", curve[0])
	}
	if math.Abs(curve[30]-0.5*math.Pow(0.9, 29)) > 1e-12 {
		t.Errorf("curve[30] = %v", curve[30])
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	p := New(DefaultConfig(), nil, zerolog.Nop())

	if m := p.Evaluate(nil); m != (models.ModelMetrics{}) {
		t.Errorf("Evaluate(nil) = %+v, want zero", m)
	}
	if m := p.Evaluate(sampleCohorts(1)); m != (models.ModelMetrics{}) {
		t.Errorf("Evaluate(1 cohort) = %+v, want zero", m)
	}

	// 5 cohorts at split 0.2 hold out one cohort with 6 days: 3 known, 3 predicted.
	m := p.Evaluate(sampleCohorts(5))
	if m.Samples != 3 {
		t.Fatalf("Samples = %d, want 3", m.Samples)
	}
	if m.MSE < 0 || m.MAE < 0 {
		t.Errorf("negative error: %+v", m)
	}
	if math.Abs(m.R2-(1-m.MSE)) > 1e-12 {
		t.Errorf("R2 = %v, want 1-MSE = %v", m.R2, 1-m.MSE)
	}
	if m.EvaluatedAt.IsZero() {
		t.Error("EvaluatedAt not set")
	}
	if p.State().Metrics.Samples != 3 {
		t.Error("evaluation metrics not stored on the model")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := statestore.NewMemoryStore()

	p := New(Config{GameType: GameTypeIdle, MinDataPoints: 100}, store, zerolog.Nop())
	if err := p.Train(sampleCohorts(3)); err != nil {
		t.Fatal(err)
	}
	if err := p.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p.Changed() {
		t.Error("Save should clear the changed flag")
	}

	raw, err := store.Get(ctx, DefaultStateKey)
	if err != nil {
		t.Fatal(err)
	}
	var state models.ModelState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("stored state is not JSON: %v", err)
	}
	if state.SavedAt.IsZero() || state.GameType != GameTypeIdle {
		t.Errorf("stored state = %+v", state)
	}

	restored := New(DefaultConfig(), store, zerolog.Nop())
	if !restored.Initialize(ctx) {
		t.Fatal("Initialize did not restore saved state")
	}
	if restored.GameType() != GameTypeIdle {
		t.Errorf("GameType = %q, want idle", restored.GameType())
	}
	want, got := p.TrainedCurve(), restored.TrainedCurve()
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("curve[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if restored.Changed() {
		t.Error("freshly loaded model should not be marked changed")
	}
}

// blockingStore holds every Set until release is closed.
type blockingStore struct {
	*statestore.MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Set(ctx context.Context, key string, value []byte) error {
	b.entered <- struct{}{}
	<-b.release
	return b.MemoryStore.Set(ctx, key, value)
}

func TestSave_ChangeDuringWriteStaysPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &blockingStore{
		MemoryStore: statestore.NewMemoryStore(),
		entered:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	p := New(Config{MinDataPoints: 100}, store, zerolog.Nop())
	p.SetGameType(GameTypePuzzle)

	saved := make(chan error, 1)
	go func() { saved <- p.Save(ctx) }()
	<-store.entered

	if err := p.Train(sampleCohorts(2)); err != nil {
		t.Fatalf("Train: %v", err)
	}
	close(store.release)
	if err := <-saved; err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !p.Changed() {
		t.Fatal("training finished during Save was marked as persisted")
	}

	// The next save persists the trained curve and clears the flag.
	go func() { saved <- p.Save(ctx) }()
	<-store.entered
	if err := <-saved; err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if p.Changed() {
		t.Error("second Save should clear the changed flag")
	}

	raw, err := store.Get(ctx, DefaultStateKey)
	if err != nil {
		t.Fatal(err)
	}
	var state models.ModelState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatal(err)
	}
	if len(state.TrainedCurve) != models.CurveLength {
		t.Errorf("persisted curve length = %d, want %d", len(state.TrainedCurve), models.CurveLength)
	}
}

func TestMinCohorts_IntegerDivision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minDataPoints int
		want          int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{199, 1},
		{500, 5},
	}
	for _, tt := range tests {
		p := New(Config{MinDataPoints: tt.minDataPoints}, nil, zerolog.Nop())
		if got := p.MinCohorts(); got != tt.want {
			t.Errorf("MinDataPoints %d: MinCohorts = %d, want %d", tt.minDataPoints, got, tt.want)
		}
	}
}

func TestTrain_NoCohortsBelowHundredDataPoints(t *testing.T) {
	t.Parallel()
	p := New(Config{MinDataPoints: 50}, nil, zerolog.Nop())

	if err := p.Train(nil); err != nil {
		t.Fatalf("Train(nil) = %v, want nil with MinDataPoints 50", err)
	}
	curve := p.TrainedCurve()
	if curve[0] != 1 || math.Abs(curve[1]-0.9) > 1e-12 {
		t.Errorf("curve head = %v, %v; want 1, 0.9", curve[0], curve[1])
	}
}

func TestSave_NoStore(t *testing.T) {
	t.Parallel()
	p := New(DefaultConfig(), nil, zerolog.Nop())
	if err := p.Save(context.Background()); !errors.Is(err, ErrNoStore) {
		t.Errorf("Save error = %v, want ErrNoStore", err)
	}
	if p.Load(context.Background()) {
		t.Error("Load without a store should report false")
	}
}

func TestLoad_RejectsBadState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{broken"},
		{name: "short curve", data: `{"trained_curve":[1,0.5,0.4],"game_type":"puzzle"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := statestore.NewMemoryStore()
			if err := store.Set(ctx, DefaultStateKey, []byte(tt.data)); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			p := New(Config{GameType: GameTypeGachaRPG}, store, logging.NewTestLogger(&buf))
			if p.Load(ctx) {
				t.Fatal("Load accepted bad state")
			}
			if p.GameType() != GameTypeGachaRPG {
				t.Errorf("GameType changed to %q", p.GameType())
			}
			if !strings.Contains(buf.String(), `"level":"warn"`) {
				t.Errorf("expected a warning log, got %s", buf.String())
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()
	p := New(DefaultConfig(), statestore.NewMemoryStore(), zerolog.Nop())
	if p.Initialize(context.Background()) {
		t.Error("Initialize reported restored state on an empty store")
	}
}

func TestSetGameType(t *testing.T) {
	t.Parallel()
	p := New(DefaultConfig(), nil, zerolog.Nop())

	p.SetGameType("default")
	if p.Changed() {
		t.Error("setting the same game type should not mark the model changed")
	}
	p.SetGameType("Puzzle")
	if p.GameType() != GameTypePuzzle || !p.Changed() {
		t.Errorf("GameType = %q changed = %v", p.GameType(), p.Changed())
	}
}

func TestFeatureImportance(t *testing.T) {
	t.Parallel()
	p := New(DefaultConfig(), nil, zerolog.Nop())

	fi := p.FeatureImportance()
	if len(fi) != 6 {
		t.Fatalf("len = %d, want 6", len(fi))
	}
	var sum float64
	for i, f := range fi {
		sum += f.Importance
		if i > 0 && f.Importance > fi[i-1].Importance {
			t.Errorf("not sorted at %d", i)
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
	fi[0].Importance = 0
	if p.FeatureImportance()[0].Importance == 0 {
		t.Error("FeatureImportance returned shared storage")
	}
}
