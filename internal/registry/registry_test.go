package registry

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cell-monitor/internal/model"
)

// seqSampler returns its values in order, repeating the last one.
type seqSampler struct {
	vals []float64
	i    int
}

func (s *seqSampler) Float64() float64 {
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v
}

func newTestRegistry(t *testing.T, vals ...float64) *Registry {
	t.Helper()
	if len(vals) == 0 {
		vals = []float64{0.4}
	}
	logger, _ := logtest.NewNullLogger()
	return New(WithSampler(&seqSampler{vals: vals}), WithLogger(logger))
}

func setup(t *testing.T, r *Registry, labels ...string) {
	t.Helper()
	r.Declare(len(labels))
	require.NoError(t, r.SetChemistries(labels))
	r.Materialize()
}

func TestScenarioSingleLFP(t *testing.T) {
	r := newTestRegistry(t)
	setup(t, r, "lfp")

	require.Equal(t, []string{"cell_1_lfp"}, r.IDs())
	c, ok := r.Get("cell_1_lfp")
	require.True(t, ok)
	assert.Equal(t, 3.2, c.Voltage)
	assert.Equal(t, 2.8, c.MinVoltage)
	assert.Equal(t, 3.6, c.MaxVoltage)
	assert.Equal(t, 0.0, c.Current)
	assert.Equal(t, 0.0, c.Capacity)
	assert.Equal(t, 31.0, c.Temperature)

	require.NoError(t, r.SetCurrent("cell_1_lfp", 2.0))
	c, _ = r.Get("cell_1_lfp")
	assert.Equal(t, 6.4, c.Capacity)
	assert.Equal(t, 3.2, c.Voltage)
	assert.Equal(t, 31.0, c.Temperature)
}

func TestScenarioMixedSummary(t *testing.T) {
	r := newTestRegistry(t, 0.4, 0.5)
	setup(t, r, "lfp", "nmc")

	require.Equal(t, []string{"cell_1_lfp", "cell_2_nmc"}, r.IDs())
	for _, id := range r.IDs() {
		require.NoError(t, r.SetCurrent(id, 1.5))
	}

	var caps []float64
	for row := range r.Rows() {
		caps = append(caps, row.Capacity)
	}
	assert.Equal(t, []float64{4.8, 5.4}, caps)

	s, ok := r.Summary()
	require.True(t, ok)
	assert.Equal(t, 2, s.TotalCells)
	assert.InDelta(t, 10.2, s.TotalCapacity, 1e-9)
	assert.InDelta(t, 3.4, s.AvgVoltage, 1e-9)
	assert.InDelta(t, 31.75, s.AvgTemperature, 1e-9)
}

func TestSummaryEmpty(t *testing.T) {
	r := newTestRegistry(t)
	_, ok := r.Summary()
	assert.False(t, ok)

	r.Declare(3)
	_, ok = r.Summary()
	assert.False(t, ok)
}

func TestMaterializeBoundsForEveryChemistry(t *testing.T) {
	r := newTestRegistry(t)
	setup(t, r, "LFP", "nmc", "Nmc", "lfp")

	for row := range r.Rows() {
		want := row.Chemistry.Bounds()
		assert.Equal(t, want.Nominal, row.Voltage, row.ID)
		assert.Equal(t, want.Min, row.MinVoltage, row.ID)
		assert.Equal(t, want.Max, row.MaxVoltage, row.ID)
	}
}

func TestIDsFollowDeclarationOrder(t *testing.T) {
	for n := 1; n <= 20; n++ {
		labels := make([]string, n)
		for i := range labels {
			labels[i] = []string{"lfp", "nmc"}[i%2]
		}
		r := newTestRegistry(t)
		setup(t, r, labels...)

		ids := r.IDs()
		require.Len(t, ids, n)
		seen := map[string]bool{}
		for i, id := range ids {
			assert.Equal(t, fmt.Sprintf("cell_%d_%s", i+1, labels[i]), id)
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	}
}

func TestSetChemistriesCountMismatch(t *testing.T) {
	r := newTestRegistry(t)
	r.Declare(2)
	err := r.SetChemistries([]string{"lfp"})
	require.ErrorIs(t, err, ErrCountMismatch)
	assert.Empty(t, r.Staged())

	r.Materialize()
	assert.Equal(t, 0, r.Len())
}

func TestSetChemistriesUnrecognizedFallsBackToNMC(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	r := New(WithSampler(&seqSampler{vals: []float64{0}}), WithLogger(logger))
	r.Declare(1)
	require.NoError(t, r.SetChemistries([]string{" Li-Ion "}))
	assert.Equal(t, []string{"li-ion"}, r.Staged())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "li-ion", hook.LastEntry().Data["label"])

	r.Materialize()
	c, ok := r.Get("cell_1_li-ion")
	require.True(t, ok)
	assert.Equal(t, model.ChemistryUnrecognized, c.Chemistry)
	assert.Equal(t, 3.6, c.Voltage)
	assert.Equal(t, 3.2, c.MinVoltage)
	assert.Equal(t, 4.0, c.MaxVoltage)
	assert.Equal(t, 25.0, c.Temperature)
}

func TestMaterializeResetsCurrents(t *testing.T) {
	r := newTestRegistry(t, 0.1, 0.2, 0.3)
	setup(t, r, "lfp")
	require.NoError(t, r.SetCurrent("cell_1_lfp", 3))

	r.Materialize()
	c, _ := r.Get("cell_1_lfp")
	assert.Equal(t, 0.0, c.Current)
	assert.Equal(t, 0.0, c.Capacity)
	assert.Equal(t, 28.0, c.Temperature)
}

func TestDeclareResets(t *testing.T) {
	r := newTestRegistry(t)
	setup(t, r, "lfp", "nmc")
	r.Declare(1)
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Staged())
}

func TestSetCurrentOnlyTouchesOneCell(t *testing.T) {
	r := newTestRegistry(t)
	setup(t, r, "lfp", "nmc")
	require.NoError(t, r.SetCurrent("cell_2_nmc", 2))
	require.NoError(t, r.SetCurrent("cell_2_nmc", 1))

	a, _ := r.Get("cell_1_lfp")
	b, _ := r.Get("cell_2_nmc")
	assert.Equal(t, 0.0, a.Capacity)
	assert.Equal(t, 1.0, b.Current)
	assert.Equal(t, 3.6, b.Capacity)
}

func TestSetCurrentUnknownCell(t *testing.T) {
	r := newTestRegistry(t)
	setup(t, r, "lfp")
	assert.ErrorIs(t, r.SetCurrent("cell_9_lfp", 1), ErrUnknownCell)
	assert.ErrorIs(t, r.SetCurrentText("cell_9_lfp", "1"), ErrUnknownCell)
}

func TestSetCurrentText(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		invalid bool
	}{
		{name: "plain", raw: "2", want: 2},
		{name: "spaces", raw: " 1.25 ", want: 1.25},
		{name: "exponent", raw: "1e-1", want: 0.1},
		{name: "negative", raw: "-0.5", want: -0.5},
		{name: "garbage", raw: "not-a-number", want: 0, invalid: true},
		{name: "empty", raw: "", want: 0, invalid: true},
		{name: "nan", raw: "NaN", want: 0, invalid: true},
		{name: "inf", raw: "inf", want: 0, invalid: true},
		{name: "hex", raw: "0x1p2", want: 0, invalid: true},
		{name: "capacity overflow", raw: "1e308", want: 0, invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			setup(t, r, "lfp")
			require.NoError(t, r.SetCurrent("cell_1_lfp", 7))

			err := r.SetCurrentText("cell_1_lfp", tt.raw)
			if tt.invalid {
				require.ErrorIs(t, err, ErrInvalidCurrent)
			} else {
				require.NoError(t, err)
			}
			c, _ := r.Get("cell_1_lfp")
			assert.Equal(t, tt.want, c.Current)
			assert.Equal(t, model.Round(c.Voltage*tt.want, 2), c.Capacity)
		})
	}
}

func TestSetCurrentRejectsOutOfRangeValues(t *testing.T) {
	r := newTestRegistry(t)
	setup(t, r, "nmc", "lfp")
	require.NoError(t, r.SetCurrent("cell_1_nmc", 2))

	for _, v := range []float64{1e308, -1e308, math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := r.SetCurrent("cell_1_nmc", v)
		require.ErrorIs(t, err, ErrInvalidCurrent, "current %v", v)

		c, _ := r.Get("cell_1_nmc")
		assert.Equal(t, 2.0, c.Current)
		assert.Equal(t, 7.2, c.Capacity)
	}

	// large values that fit keep the summary finite
	require.NoError(t, r.SetCurrent("cell_1_nmc", 1e307))
	require.NoError(t, r.SetCurrent("cell_2_lfp", 1e307))
	sum, ok := r.Summary()
	require.True(t, ok)
	assert.False(t, math.IsInf(sum.TotalCapacity, 0))
	assert.InDelta(t, 6.8e307, sum.TotalCapacity, 1e293)

	require.NoError(t, r.SetCurrent("cell_1_nmc", 0))
}

func TestCapacityInvariantUnderRandomCurrents(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	r := New(WithSampler(rng))
	setup(t, r, "lfp", "nmc", "lfp")
	for i := 0; i < 200; i++ {
		id := r.IDs()[rng.IntN(r.Len())]
		require.NoError(t, r.SetCurrent(id, rng.Float64()*20-5))
		for row := range r.Rows() {
			require.Equal(t, model.Round(row.Voltage*row.Current, 2), row.Capacity)
			require.GreaterOrEqual(t, row.Temperature, 25.0)
			require.LessOrEqual(t, row.Temperature, 40.0)
		}
	}
}

func TestRowsRestartable(t *testing.T) {
	r := newTestRegistry(t)
	setup(t, r, "lfp", "nmc", "nmc")

	first := slices.Collect(r.Rows())
	second := slices.Collect(r.Rows())
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)

	n := 0
	for range r.Rows() {
		n++
		break
	}
	assert.Equal(t, 1, n)

	require.NoError(t, r.SetCurrent("cell_3_nmc", 1))
	assert.Equal(t, 3.6, slices.Collect(r.Rows())[2].Capacity)
	assert.Equal(t, model.StatusGood, slices.Collect(r.Rows())[2].Status)
}

func TestTemperatureRangeOption(t *testing.T) {
	r := New(WithSampler(&seqSampler{vals: []float64{0.5}}), WithTemperatureRange(40, 60))
	setup(t, r, "lfp")
	c, _ := r.Get("cell_1_lfp")
	assert.Equal(t, 50.0, c.Temperature)
	assert.Equal(t, model.StatusWarning, c.Status())
}
