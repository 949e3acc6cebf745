package registry

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"cell-monitor/internal/model"
)

var (
	// ErrUnknownCell is returned when an id does not name a materialized cell.
	ErrUnknownCell = errors.New("unknown cell")

	// ErrCountMismatch is returned when the number of chemistries staged
	// differs from the declared cell count.
	ErrCountMismatch = errors.New("chemistry count does not match declared cell count")

	// ErrInvalidCurrent marks a current value that could not be parsed.
	// The cell has already been updated with a current of 0 when it is returned.
	ErrInvalidCurrent = errors.New("invalid current")
)

// Default temperature sampling range, in °C.
const (
	DefaultMinTemperature = model.MinSafeTemperature
	DefaultMaxTemperature = model.MaxSafeTemperature
)

// Sampler supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Sampler interface {
	Float64() float64
}

// Option configures a Registry.
type Option func(*Registry)

// WithSampler sets the source used for cell temperatures.
func WithSampler(s Sampler) Option {
	return func(r *Registry) { r.sampler = s }
}

// WithTemperatureRange sets the range temperatures are sampled from.
// It does not change the limits used for status classification.
func WithTemperatureRange(lo, hi float64) Option {
	return func(r *Registry) {
		r.minTemp = lo
		r.maxTemp = hi
	}
}

// WithLogger sets the logger used for input warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Registry) { r.log = l }
}

// Registry holds the cells of one user session in declaration order.
// It is not safe for concurrent use.
type Registry struct {
	sampler Sampler
	minTemp float64
	maxTemp float64
	log     logrus.FieldLogger

	count  int
	staged []string

	order []string
	cells map[string]*model.Cell
}

func New(opts ...Option) *Registry {
	r := &Registry{
		minTemp: DefaultMinTemperature,
		maxTemp: DefaultMaxTemperature,
		log:     logrus.StandardLogger(),
		cells:   map[string]*model.Cell{},
	}
	for _, o := range opts {
		o(r)
	}
	if r.sampler == nil {
		r.sampler = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

// Declare resets the registry to expect count chemistry declarations.
func (r *Registry) Declare(count int) {
	r.count = count
	r.staged = nil
	r.order = nil
	r.cells = map[string]*model.Cell{}
}

// Count returns the declared cell count.
func (r *Registry) Count() int { return r.count }

// SetChemistries stages one chemistry per declared cell.
// Labels are normalized; unrecognized ones are kept (and get NMC bounds).
func (r *Registry) SetChemistries(labels []string) error {
	if len(labels) != r.count {
		return fmt.Errorf("%w: declared %d, got %d", ErrCountMismatch, r.count, len(labels))
	}
	staged := make([]string, len(labels))
	for i, l := range labels {
		staged[i] = model.NormalizeLabel(l)
		if !model.ParseChemistry(staged[i]).Known() {
			r.log.WithFields(logrus.Fields{
				"cell":  i + 1,
				"label": staged[i],
			}).Warn("unrecognized cell type, using nmc voltages")
		}
	}
	r.staged = staged
	return nil
}

// Staged returns a copy of the staged chemistry labels.
func (r *Registry) Staged() []string {
	return append([]string(nil), r.staged...)
}

// Materialize builds one cell per staged chemistry, discarding any cells
// (and currents) from a previous call.
func (r *Registry) Materialize() {
	r.order = make([]string, 0, len(r.staged))
	r.cells = make(map[string]*model.Cell, len(r.staged))
	for i, label := range r.staged {
		c := model.NewCell(i+1, label, r.sampleTemperature())
		r.order = append(r.order, c.ID)
		r.cells[c.ID] = c
	}
}

func (r *Registry) sampleTemperature() float64 {
	return r.minTemp + (r.maxTemp-r.minTemp)*r.sampler.Float64()
}

// SetCurrent updates one cell's current and capacity.
// A current that is not finite, or whose capacity would not fit in the
// registry total, is rejected with ErrInvalidCurrent and nothing changes.
func (r *Registry) SetCurrent(id string, current float64) error {
	c, ok := r.cells[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCell, id)
	}
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return fmt.Errorf("%w for %s: %v", ErrInvalidCurrent, id, current)
	}
	if capacity := model.Capacity(c.Voltage, current); !(math.Abs(capacity) <= r.capacityLimit()) {
		return fmt.Errorf("%w for %s: %v A is out of range", ErrInvalidCurrent, id, current)
	}
	c.SetCurrent(current)
	return nil
}

// capacityLimit bounds |capacity| per cell so that summing every cell can
// never overflow.
func (r *Registry) capacityLimit() float64 {
	return math.MaxFloat64 / float64(len(r.order)+1)
}

// SetCurrentText parses raw as a current in amperes and applies it.
// If raw is not a usable number the cell gets a current of 0 and the
// returned error wraps ErrInvalidCurrent; callers should treat that as a
// warning, not a failure.
func (r *Registry) SetCurrentText(id, raw string) error {
	if _, ok := r.cells[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCell, id)
	}
	err := fmt.Errorf("%w for %s: %q", ErrInvalidCurrent, id, raw)
	if v, ok := parseCurrent(raw); ok {
		err = r.SetCurrent(id, v)
	}
	if errors.Is(err, ErrInvalidCurrent) {
		_ = r.SetCurrent(id, 0)
	}
	return err
}

// parseCurrent accepts decimal and exponent notation only.
func parseCurrent(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// Get returns a copy of the cell with the given id.
func (r *Registry) Get(id string) (model.Cell, bool) {
	c, ok := r.cells[id]
	if !ok {
		return model.Cell{}, false
	}
	return *c, true
}

// IDs returns cell ids in declaration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of materialized cells.
func (r *Registry) Len() int { return len(r.order) }

// Summary aggregates over all cells.
type Summary struct {
	TotalCells     int
	AvgVoltage     float64
	AvgTemperature float64
	TotalCapacity  float64
}

// Summary reports ok=false when there are no cells.
func (r *Registry) Summary() (Summary, bool) {
	if len(r.order) == 0 {
		return Summary{}, false
	}
	var s Summary
	var sumV, sumT float64
	for _, id := range r.order {
		c := r.cells[id]
		sumV += c.Voltage
		sumT += c.Temperature
		s.TotalCapacity += c.Capacity
	}
	s.TotalCells = len(r.order)
	s.AvgVoltage = sumV / float64(s.TotalCells)
	s.AvgTemperature = sumT / float64(s.TotalCells)
	return s, true
}
