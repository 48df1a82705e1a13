package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ExtractPatterns(t *testing.T) {
	engine := NewEngine(nil)

	points := []Point{
		{Name: "AHU-1.SA-TEMP", DeviceType: "AHU"},
		{Name: "AHU-2.SA-TEMP", DeviceType: "AHU"},
		{Name: "AHU-3.RA-TEMP", DeviceType: "AHU"},
		{Name: "FCU_01.RoomTemp", DeviceType: "FCU"},
		{Name: "", DeviceType: "AHU"},
	}

	report := engine.ExtractPatterns(points)
	assert.Equal(t, 5, report.PointCount)

	require.NotEmpty(t, report.Prefixes)
	assert.Equal(t, TokenCount{Token: "ahu", Count: 3}, report.Prefixes[0])

	require.NotEmpty(t, report.Suffixes)
	assert.Equal(t, "temp", report.Suffixes[0].Token)
	assert.Equal(t, 3, report.Suffixes[0].Count)

	// "temp" appears in three AHU names; "ahu" ties at 3 and sorts first.
	require.GreaterOrEqual(t, len(report.Tokens), 2)
	assert.Equal(t, "ahu", report.Tokens[0].Token)
	assert.Equal(t, "temp", report.Tokens[1].Token)
}

func TestEngine_ExtractPatterns_DeviceNgrams(t *testing.T) {
	engine := NewEngine(nil)

	// 3 AHU points share the bigram "sa_temp" twice; FCU has one point
	// so it gets no n-gram mining at all.
	points := []Point{
		{Name: "AHU.SA-TEMP", DeviceType: "AHU"},
		{Name: "AHU.SA-TEMP-SP", DeviceType: "AHU"},
		{Name: "AHU.RA-TEMP", DeviceType: "AHU"},
		{Name: "FCU.RoomTemp", DeviceType: "FCU"},
	}

	report := engine.ExtractPatterns(points)

	_, hasFCU := report.DeviceNgrams["FCU"]
	assert.False(t, hasFCU)

	ahu, ok := report.DeviceNgrams["AHU"]
	require.True(t, ok)
	assert.Equal(t, 2, ahu.Threshold)
	assert.Equal(t, 3, ahu.PointCount)
	assert.Positive(t, ahu.UniqueCount)

	grams := make(map[string]int)
	for _, g := range ahu.Ngrams {
		grams[g.Token] = g.Count
	}
	assert.Equal(t, 2, grams["ahu_sa_temp"])
	assert.Equal(t, 2, grams["sa_temp"])
	_, hasRA := grams["ra_temp"]
	assert.False(t, hasRA, "ra_temp occurs once, below the threshold")
}

func TestEngine_ExtractPatterns_ThresholdScalesWithCorpus(t *testing.T) {
	engine := NewEngine(nil)

	var points []Point
	for i := 0; i < 40; i++ {
		points = append(points, Point{
			Name:       fmt.Sprintf("CH-%d.CHW-TEMP", i),
			DeviceType: "CHILLER",
		})
	}

	report := engine.ExtractPatterns(points)
	ch := report.DeviceNgrams["CHILLER"]
	assert.Equal(t, 4, ch.Threshold)
}

func TestEngine_ExtractPatterns_Empty(t *testing.T) {
	engine := NewEngine(nil)

	report := engine.ExtractPatterns(nil)
	assert.Zero(t, report.PointCount)
	assert.Empty(t, report.Prefixes)
	assert.Empty(t, report.Tokens)
	assert.Empty(t, report.DeviceNgrams)
}

func TestEngine_IdentifyPatternFamilies(t *testing.T) {
	engine := NewEngine(nil)

	mappings := []Mapping{
		{SourcePoint: "FCU_01.RoomTemp", TargetPoint: "FCU_raw_zone_air_temp", DeviceType: "FCU", Success: true},
		{SourcePoint: "FCU_02.RoomTemp", TargetPoint: "FCU_raw_zone_air_temp", DeviceType: "FCU", Success: true},
		{SourcePoint: "FCU_03.FanStatus", TargetPoint: "FCU_raw_fan_status", DeviceType: "FCU", Success: true},
		{SourcePoint: "FCU_04.Mode", TargetPoint: "", DeviceType: "FCU", Success: false},
	}

	families := engine.IdentifyPatternFamilies(mappings)
	require.Contains(t, families, "FCU")
	require.Len(t, families["FCU"], 1, "singleton fan_status group is dropped")

	fam := families["FCU"][0]
	assert.Equal(t, "fcu_raw_zone_air_temp", fam.TargetPattern)
	require.Len(t, fam.Members, 2)
	assert.Equal(t, "fcu_roomtemp", fam.Members[0].SourcePattern)
}

func TestEngine_IdentifyPatternFamilies_MinimumsEnforced(t *testing.T) {
	engine := NewEngine(nil)

	// Only 2 successful FCU mappings out of 3: below the success floor.
	mappings := []Mapping{
		{SourcePoint: "FCU_01.RoomTemp", TargetPoint: "FCU_raw_zone_air_temp", DeviceType: "FCU", Success: true},
		{SourcePoint: "FCU_02.RoomTemp", TargetPoint: "FCU_raw_zone_air_temp", DeviceType: "FCU", Success: true},
		{SourcePoint: "FCU_03.Mode", TargetPoint: "", DeviceType: "FCU", Success: false},
	}
	assert.Empty(t, engine.IdentifyPatternFamilies(mappings))

	// Only 2 AHU mappings total: below the total floor even though both
	// succeeded.
	mappings = []Mapping{
		{SourcePoint: "AHU.SA-TEMP", TargetPoint: "AHU_raw_supply_air_temp", DeviceType: "AHU", Success: true},
		{SourcePoint: "AHU.SA-TEMP2", TargetPoint: "AHU_raw_supply_air_temp", DeviceType: "AHU", Success: true},
	}
	assert.Empty(t, engine.IdentifyPatternFamilies(mappings))
}

func TestEngine_IdentifyPatternFamilies_OrderedBySize(t *testing.T) {
	engine := NewEngine(nil)

	var mappings []Mapping
	for i := 0; i < 3; i++ {
		mappings = append(mappings, Mapping{
			SourcePoint: fmt.Sprintf("AHU_%d.SA-TEMP", i),
			TargetPoint: "AHU_raw_supply_air_temp",
			DeviceType:  "AHU", Success: true,
		})
	}
	for i := 0; i < 2; i++ {
		mappings = append(mappings, Mapping{
			SourcePoint: fmt.Sprintf("AHU_%d.FanStatus", i),
			TargetPoint: "AHU_raw_fan_status",
			DeviceType:  "AHU", Success: true,
		})
	}

	families := engine.IdentifyPatternFamilies(mappings)
	require.Len(t, families["AHU"], 2)
	assert.Equal(t, "ahu_raw_supply_air_temp", families["AHU"][0].TargetPattern)
	assert.Equal(t, "ahu_raw_fan_status", families["AHU"][1].TargetPattern)
}
