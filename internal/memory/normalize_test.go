package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "energy total cwp kw",
			input: "Energy.TotalCwp-kW",
			want:  "energy_cooling_water_pump_power",
		},
		{
			name:  "ahu supply air temp with instance id",
			input: "AHU-1.SA-TEMP",
			want:  "ahu_sa_temp",
		},
		{
			name:  "fcu room temp instance 01",
			input: "FCU_01.RoomTemp",
			want:  "fcu_roomtemp",
		},
		{
			name:  "fcu room temp instance 02 collapses to same shape",
			input: "FCU_02.RoomTemp",
			want:  "fcu_roomtemp",
		},
		{
			name:  "chilled water pump synonym",
			input: "TotalChwp.Power-kWh",
			want:  "chilled_water_pump_power_energy",
		},
		{
			name:  "kwh rewrites before kw",
			input: "Meter_kWh",
			want:  "meter_energy",
		},
		{
			name:  "trailing kw without delimiter",
			input: "SupplyFanKW",
			want:  "supplyfan_power",
		},
		{
			name:  "spaces and repeated separators",
			input: "  Pump  2 . Status ",
			want:  "pump_status",
		},
		{
			name:  "empty name",
			input: "",
			want:  "",
		},
		{
			name:  "digits only",
			input: "12345",
			want:  "",
		},
		{
			name:  "embedded digits are kept",
			input: "CO2.Level",
			want:  "co2_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPattern(tt.input))
		})
	}
}

func TestExtractPattern_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "energy_cooling_water_pump_power", ExtractPattern("Energy.TotalCwp-kW"))
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical nonempty", a: "ahu_sa_temp", b: "ahu_sa_temp", want: 1.0},
		{name: "empty right", a: "ahu_sa_temp", b: "", want: 0.0},
		{name: "empty left", a: "", b: "ahu_sa_temp", want: 0.0},
		{name: "both empty", a: "", b: "", want: 0.0},
		{name: "disjoint", a: "ahu_temp", b: "pump_status", want: 0.0},
		{name: "half overlap", a: "ahu_sa_temp", b: "ahu_ra_temp", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"ahu", "sa", "temp"}, Tokens("ahu_sa_temp"))
	assert.Nil(t, Tokens(""))
}

func TestPatternID_Deterministic(t *testing.T) {
	a := PatternID("fcu_roomtemp", "FCU")
	b := PatternID("fcu_roomtemp", "FCU")
	c := PatternID("fcu_roomtemp", "AHU")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
