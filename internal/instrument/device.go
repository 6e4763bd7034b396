// File: device.go
// Title: Demo Instrument
// Description: The embedding application hosted by scpid: a simulated
//              single-channel source with level, frequency and waveform
//              shape settings plus a measured-voltage query, together with
//              a few SYSTem test commands (background sleep, echo, task
//              listing). It exists to exercise every converter kind and
//              the background dispatch path against real transports.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial demo instrument

package instrument

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stonerlab/goscpi/pkg/core/logging"
	"github.com/stonerlab/goscpi/pkg/scpi"
	"github.com/stonerlab/goscpi/pkg/scpi/command"
	"github.com/stonerlab/goscpi/pkg/scpi/param"
	"github.com/stonerlab/goscpi/pkg/scpi/status"
)

// operBusy is the OPERation condition bit raised while a sleep task runs
const operBusy uint16 = 1 << 0

// fullScaleVolts is the simulated output voltage at 100 % level
const fullScaleVolts = 3.3

// Device is a simulated output channel bound to an instrument
type Device struct {
	inst   *scpi.Instrument
	logger *logging.Logger

	mu    sync.Mutex
	level float64 // percent of full scale, 0..100
	freq  int64   // Hz
	shape string
}

// Options configures a demo device
type Options struct {
	Instrument *scpi.Instrument
	Logger     *logging.Logger
}

// New creates the device with power-on defaults
func New(opts Options) *Device {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default().WithName("instrument")
	}
	return &Device{
		inst:   opts.Instrument,
		logger: logger,
		freq:   10000,
		shape:  "SIN",
	}
}

// Install declares the device commands on top of the mandatory set and
// activates the combined tree
func (d *Device) Install() error {
	set := d.inst.Commands()
	d.declareSystem(set)
	d.declareOutput(set)
	return d.inst.Install(set)
}

func (d *Device) declareSystem(set *command.Set) {
	set.Declare(command.Spec{
		Template:   "SYSTem:SLEEP",
		Name:       "sleep",
		Mode:       command.Background,
		Converters: []param.Converter{param.Float(param.FloatOpts{
			Min:     param.FloatPtr(0),
			Max:     param.FloatPtr(60),
			Default: param.FloatPtr(1),
		})},
		Handler: d.sleep,
	})

	set.Declare(command.Spec{
		Template:   "SYSTem:PRINt",
		Name:       "print",
		Converters: []param.Converter{param.String()},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			text := inv.String(0)
			d.logger.Info("print", logging.Fields{"text": text})
			inv.Reply(text)
			return nil
		},
	})

	set.Declare(command.Spec{
		Template: "SYSTem:DEBUg?",
		Name:     "debugq",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			names := d.inst.Registry().Names()
			if len(names) == 0 {
				inv.Reply("NONE")
				return nil
			}
			inv.Reply(strings.Join(names, ","))
			return nil
		},
	})
}

// sleep holds the busy bit in the OPERation condition register for the
// requested number of seconds, or until cancelled by *RST
func (d *Device) sleep(ctx context.Context, inv *command.Invocation) error {
	regs := d.inst.Registers()
	regs.SetOperationCondition(regs.OperationCondition() | operBusy)
	defer func() {
		regs.SetOperationCondition(regs.OperationCondition() &^ operBusy)
	}()

	duration := time.Duration(inv.Float(0) * float64(time.Second))
	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}
	return nil
}

func (d *Device) declareOutput(set *command.Set) {
	set.Declare(command.Spec{
		Template:   "OUTPut[:LEVel]",
		Name:       "level",
		Converters: []param.Converter{param.OnOffFloat()},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			value := inv.Float(0)
			if value < 0 || value > 100 {
				return status.Errorf(status.ErrDataOutOfRange, "level %g outside 0..100", value)
			}
			d.mu.Lock()
			d.level = value
			d.mu.Unlock()
			return nil
		},
	})

	set.Declare(command.Spec{
		Template: "OUTPut[:LEVel]?",
		Name:     "levelq",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			d.mu.Lock()
			defer d.mu.Unlock()
			inv.Replyf("%g", d.level)
			return nil
		},
	})

	set.Declare(command.Spec{
		Template: "OUTPut:FREQuency",
		Name:     "freq",
		Converters: []param.Converter{param.Int(param.IntOpts{
			Min:     param.IntPtr(10),
			Max:     param.IntPtr(1000000),
			Default: param.IntPtr(10000),
		})},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			d.mu.Lock()
			d.freq = inv.Int(0)
			d.mu.Unlock()
			return nil
		},
	})

	set.Declare(command.Spec{
		Template: "OUTPut:FREQuency?",
		Name:     "freqq",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			d.mu.Lock()
			defer d.mu.Unlock()
			inv.Replyf("%d", d.freq)
			return nil
		},
	})

	set.Declare(command.Spec{
		Template: "OUTPut:SHAPe",
		Name:     "shape",
		Converters: []param.Converter{param.Enum(map[string]interface{}{
			"SINusoid": "SIN",
			"SQUare":   "SQU",
			"TRIangle": "TRI",
		})},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			d.mu.Lock()
			d.shape = inv.String(0)
			d.mu.Unlock()
			return nil
		},
	})

	set.Declare(command.Spec{
		Template: "OUTPut:SHAPe?",
		Name:     "shapeq",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			d.mu.Lock()
			defer d.mu.Unlock()
			inv.Reply(d.shape)
			return nil
		},
	})

	set.Declare(command.Spec{
		Template: "MEASure[:VOLTage]?",
		Name:     "measq",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			d.mu.Lock()
			volts := d.level / 100 * fullScaleVolts
			d.mu.Unlock()
			inv.Reply(scpi.Eng(volts, 4, "V"))
			return nil
		},
	})
}
