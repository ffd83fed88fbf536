// Package cvbridge turns accelerometer samples into control voltages and display text.
//
// A Bridge first runs the sensor's handshake, then polls forever at a fixed interval:
// read, decode, map, publish, wait. Channel 1-3 carry X, Y and Z; channels 4-6 carry their
// complements. There is no retry; the first failed cycle ends Run.
package cvbridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/accelcv/components/analogout"
	"go.viam.com/accelcv/components/display"
	"go.viam.com/accelcv/components/movementsensor/adxl343"
	"go.viam.com/accelcv/logging"
)

// NumOutputs is the number of analog channels a Bridge drives.
const NumOutputs = 6

// DefaultInterval is the wait between poll cycles.
const DefaultInterval = 10 * time.Millisecond

// Sensor is the accelerometer as seen by the bridge.
type Sensor interface {
	Initialize(ctx context.Context) error
	ReadSample(ctx context.Context) (adxl343.Sample, error)
}

// State is where the bridge is in its lifecycle.
type State int

// Bridge states. Initializing runs the handshake once; Polling runs until Run returns.
const (
	StateInitializing State = iota
	StatePolling
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StatePolling:
		return "polling"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Config holds the bridge's tunables.
type Config struct {
	Interval time.Duration
	// Clock is the time source for the wait between cycles; nil means the wall clock.
	Clock clock.Clock
}

// Readings is the result of one poll cycle.
type Readings struct {
	Sample adxl343.Sample
	// Acceleration is the sample in m/s^2.
	Acceleration r3.Vector
	// Voltages holds X, Y, Z on [0] to [2] and their complements on [3] to [5].
	Voltages [NumOutputs]float64
}

// DisplayText formats the primary voltages the way they are shown on the display.
func (r Readings) DisplayText() string {
	return fmt.Sprintf("X: %.2f\nY: %.2f\nZ: %.2f", r.Voltages[0], r.Voltages[1], r.Voltages[2])
}

// A Bridge owns the sensor and the sinks for its lifetime.
type Bridge struct {
	sensor   Sensor
	display  display.Display
	outputs  []analogout.AnalogOutput
	interval time.Duration
	clock    clock.Clock
	logger   logging.Logger

	mu    sync.Mutex
	state State
}

// New returns a bridge. outputs must hold exactly NumOutputs channels, in channel order.
func New(
	sensor Sensor,
	disp display.Display,
	outputs []analogout.AnalogOutput,
	cfg Config,
	logger logging.Logger,
) (*Bridge, error) {
	if sensor == nil {
		return nil, errors.New("cvbridge: sensor required")
	}
	if disp == nil {
		return nil, errors.New("cvbridge: display required")
	}
	if len(outputs) != NumOutputs {
		return nil, errors.Errorf("cvbridge: expected %d outputs but got %d", NumOutputs, len(outputs))
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	if interval < 0 {
		return nil, errors.New("cvbridge: interval must be > 0")
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Bridge{
		sensor:   sensor,
		display:  disp,
		outputs:  outputs,
		interval: interval,
		clock:    clk,
		logger:   logger,
	}, nil
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bridge) setState(state State) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
	b.logger.Debugw("state change", "state", state.String())
}

// Run initializes the sensor and then polls until ctx is done or a cycle fails. A handshake
// failure is returned before any output is touched. Cancellation is checked once per cycle and
// returns nil.
func (b *Bridge) Run(ctx context.Context) error {
	if b.State() != StateInitializing {
		return errors.Errorf("cvbridge: cannot run from state %s", b.State())
	}
	if err := b.sensor.Initialize(ctx); err != nil {
		b.setState(StateTerminated)
		return err
	}
	b.setState(StatePolling)
	b.logger.Info("sensor is measuring, polling every ", b.interval)

	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := b.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.setState(StateTerminated)
			return err
		}
		if !utils.SelectContextOrWaitChan(ctx, b.clock.After(b.interval)) {
			return nil
		}
	}
}

// PollOnce performs one read, decode, map and publish cycle.
func (b *Bridge) PollOnce(ctx context.Context) (Readings, error) {
	sample, err := b.sensor.ReadSample(ctx)
	if err != nil {
		return Readings{}, errors.Wrap(err, "failed to read accelerometer")
	}

	var readings Readings
	readings.Sample = sample
	readings.Acceleration = sample.LinearAcceleration()
	for i, axis := range sample.Axes() {
		volts := ToVoltage(axis)
		readings.Voltages[i] = volts
		readings.Voltages[i+3] = Complement(volts)
	}
	b.logger.Debugf("%.2f | %.2f | %.2f", readings.Voltages[0], readings.Voltages[1], readings.Voltages[2])
	b.logger.Debugw("acceleration", "m/s^2", readings.Acceleration)

	if err := b.publish(ctx, readings); err != nil {
		return Readings{}, err
	}
	return readings, nil
}

func (b *Bridge) publish(ctx context.Context, readings Readings) error {
	if err := b.display.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear display")
	}
	if err := b.display.WriteText(ctx, readings.DisplayText()); err != nil {
		return errors.Wrap(err, "failed to write display")
	}
	for i, out := range b.outputs {
		if err := out.SetVoltage(ctx, readings.Voltages[i]); err != nil {
			return errors.Wrapf(err, "failed to set output %d", i+1)
		}
	}
	return nil
}

// Close closes the display and every output.
func (b *Bridge) Close() error {
	err := b.display.Close()
	for _, out := range b.outputs {
		err = multierr.Combine(err, out.Close())
	}
	return err
}
