package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/reflectd/internal/memory"
)

// fakeSource returns a canned similar-pattern result set.
type fakeSource struct {
	results []memory.SimilarPattern
}

func (f *fakeSource) RetrieveSimilar(ctx context.Context, pointName, deviceType string, threshold float64, limit int) []memory.SimilarPattern {
	return f.results
}

func patternWithExamples(examples ...memory.Example) memory.SimilarPattern {
	return memory.SimilarPattern{
		Pattern:    memory.MappingPattern{Examples: examples},
		Similarity: 1.0,
	}
}

func example(strategyID, result string) memory.Example {
	return memory.Example{
		Result:  result,
		Context: &memory.ExampleContext{Strategy: strategyID},
	}
}

func TestSelector_Select_DefaultOnMissingInput(t *testing.T) {
	selector := NewSelector(&fakeSource{}, nil)

	tests := []struct {
		name  string
		point Point
	}{
		{name: "empty point", point: Point{}},
		{name: "missing name", point: Point{DeviceType: "AHU"}},
		{name: "missing device", point: Point{PointName: "AHU.SA-TEMP"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := selector.Select(context.Background(), tt.point)
			assert.Equal(t, Hybrid, sel.Strategy.ID)
			assert.InDelta(t, 0.6, sel.Score, 1e-9)
			assert.Equal(t, ReasonDefault, sel.Reason)
		})
	}
}

func TestSelector_Select_EvidenceBased(t *testing.T) {
	// direct_pattern succeeds every time, clearing its 0.9 threshold;
	// hybrid runs at 0.5 which also qualifies, but with a lower rate.
	source := &fakeSource{results: []memory.SimilarPattern{
		patternWithExamples(
			example(DirectPattern, memory.ResultSuccess),
			example(DirectPattern, memory.ResultSuccess),
			example(Hybrid, memory.ResultSuccess),
			example(Hybrid, memory.ResultFailure),
		),
	}}
	selector := NewSelector(source, nil)

	sel := selector.Select(context.Background(), Point{PointName: "AHU.SA-TEMP", DeviceType: "AHU"})
	assert.Equal(t, DirectPattern, sel.Strategy.ID)
	assert.InDelta(t, 1.0, sel.Score, 1e-9)
	assert.Contains(t, sel.Reason, "Historical success rate")
}

func TestSelector_Select_BelowOwnThresholdDisqualifies(t *testing.T) {
	// 2/3 success rate is below direct_pattern's 0.9 threshold, so the
	// evidence does not qualify and selection falls back to the device
	// preference head.
	source := &fakeSource{results: []memory.SimilarPattern{
		patternWithExamples(
			example(DirectPattern, memory.ResultSuccess),
			example(DirectPattern, memory.ResultSuccess),
			example(DirectPattern, memory.ResultFailure),
		),
	}}
	selector := NewSelector(source, nil)

	sel := selector.Select(context.Background(), Point{PointName: "AHU.SA-TEMP", DeviceType: "AHU"})
	assert.Equal(t, DirectPattern, sel.Strategy.ID, "AHU preference head")
	assert.InDelta(t, 0.7, sel.Score, 1e-9)
	assert.Contains(t, sel.Reason, "Preferred strategy for device type AHU")
}

func TestSelector_Select_UntaggedExamplesIgnored(t *testing.T) {
	source := &fakeSource{results: []memory.SimilarPattern{
		patternWithExamples(
			memory.Example{Result: memory.ResultSuccess},
			memory.Example{Result: memory.ResultSuccess, Context: &memory.ExampleContext{}},
		),
	}}
	selector := NewSelector(source, nil)

	sel := selector.Select(context.Background(), Point{PointName: "FCU.RoomTemp", DeviceType: "FCU"})
	assert.Equal(t, DirectPattern, sel.Strategy.ID, "FCU preference head")
	assert.InDelta(t, 0.7, sel.Score, 1e-9)
}

func TestSelector_Select_UnknownDeviceFallsBackToDefault(t *testing.T) {
	selector := NewSelector(&fakeSource{}, nil)

	sel := selector.Select(context.Background(), Point{PointName: "X.Temp", DeviceType: "GIZMO"})
	assert.Equal(t, Hybrid, sel.Strategy.ID)
	assert.InDelta(t, 0.6, sel.Score, 1e-9)
	assert.Equal(t, ReasonDefault, sel.Reason)
}

func TestSelector_UpdatePerformanceAndStats(t *testing.T) {
	selector := NewSelector(nil, nil)

	selector.UpdatePerformance(Hybrid, true, "AHU", "ahu_sa_temp")
	selector.UpdatePerformance(Hybrid, true, "AHU", "ahu_sa_temp")
	selector.UpdatePerformance(Hybrid, false, "FCU", "fcu_roomtemp")
	selector.UpdatePerformance(DirectPattern, true, "", "")
	selector.UpdatePerformance("bogus", true, "AHU", "x")

	stats := selector.Stats()
	require.Len(t, stats, 2)

	hybrid := stats[Hybrid]
	assert.Equal(t, 3, hybrid.TotalUses)
	assert.Equal(t, 2, hybrid.Successes)
	assert.Equal(t, 1, hybrid.Failures)
	assert.InDelta(t, 2.0/3.0, hybrid.SuccessRate, 1e-9)
	require.Contains(t, hybrid.Devices, "AHU")
	assert.Equal(t, 2, hybrid.Devices["AHU"].Uses)
	assert.InDelta(t, 1.0, hybrid.Devices["AHU"].SuccessRate, 1e-9)
	assert.InDelta(t, 0.0, hybrid.Devices["FCU"].SuccessRate, 1e-9)

	direct := stats[DirectPattern]
	assert.Equal(t, 1, direct.TotalUses)
	assert.Empty(t, direct.Devices)
}

func TestCatalog_Immutable(t *testing.T) {
	first := Catalog()
	first[0].ID = "mutated"

	second := Catalog()
	assert.Equal(t, DirectPattern, second[0].ID)
}

func TestLookup(t *testing.T) {
	desc, ok := Lookup(SchemaGuided)
	require.True(t, ok)
	assert.Equal(t, "Schema Guided", desc.Name)
	assert.InDelta(t, 0.75, desc.ConfidenceThreshold, 1e-9)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
