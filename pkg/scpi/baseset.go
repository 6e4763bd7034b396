// File: baseset.go
// Title: Mandatory Command Set
// Description: Declares the IEEE-488.2 common commands and the mandatory
//              SCPI SYSTem/STATus subsystem commands every instrument
//              carries. *OPC, *OPC? and *WAI run in Blocking mode so they
//              hold off further input while background tasks drain.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial mandatory set

package scpi

import (
	"context"

	"github.com/stonerlab/goscpi/pkg/core/version"
	"github.com/stonerlab/goscpi/pkg/scpi/command"
	"github.com/stonerlab/goscpi/pkg/scpi/param"
	"github.com/stonerlab/goscpi/pkg/scpi/status"
)

// byteArg converts one 0..255 integer parameter, used by *ESE and *SRE
func byteArg() []param.Converter {
	return []param.Converter{param.Int(param.IntOpts{Min: param.IntPtr(0), Max: param.IntPtr(255)})}
}

// wordArg converts one 0..65535 integer parameter, used by STATus enables
func wordArg() []param.Converter {
	return []param.Converter{param.Int(param.IntOpts{Min: param.IntPtr(0), Max: param.IntPtr(65535)})}
}

func (inst *Instrument) baseSet() *command.Set {
	set := command.NewSet()

	set.Declare(command.Spec{Template: "*IDN?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Reply(inst.identity.String())
		return nil
	}})

	set.Declare(command.Spec{Template: "*RST", Handler: func(ctx context.Context, inv *command.Invocation) error {
		return inst.Reset(ctx)
	}})

	set.Declare(command.Spec{Template: "*CLS", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inst.queue.Clear()
		inst.regs.Clear()
		return nil
	}})

	set.Declare(command.Spec{Template: "*ESE", Converters: byteArg(), Handler: func(ctx context.Context, inv *command.Invocation) error {
		inst.regs.SetEventEnable(uint8(inv.Int(0)))
		return nil
	}})

	set.Declare(command.Spec{Template: "*ESE?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.EventEnable())
		return nil
	}})

	set.Declare(command.Spec{Template: "*ESR?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.EventStatus())
		return nil
	}})

	set.Declare(command.Spec{Template: "*OPC", Mode: command.Blocking, Handler: func(ctx context.Context, inv *command.Invocation) error {
		if err := inst.Registry().Wait(ctx); err != nil {
			return err
		}
		inst.regs.SetEvent(status.EsrOperationComplete)
		return nil
	}})

	set.Declare(command.Spec{Template: "*OPC?", Mode: command.Blocking, Handler: func(ctx context.Context, inv *command.Invocation) error {
		if err := inst.Registry().Wait(ctx); err != nil {
			return err
		}
		inv.Reply("1")
		return nil
	}})

	set.Declare(command.Spec{Template: "*WAI", Mode: command.Blocking, Handler: func(ctx context.Context, inv *command.Invocation) error {
		return inst.Registry().Wait(ctx)
	}})

	set.Declare(command.Spec{Template: "*SRE", Converters: byteArg(), Handler: func(ctx context.Context, inv *command.Invocation) error {
		inst.regs.SetServiceEnable(uint8(inv.Int(0)))
		return nil
	}})

	set.Declare(command.Spec{Template: "*SRE?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.ServiceEnable())
		return nil
	}})

	set.Declare(command.Spec{Template: "*STB?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.StatusByte(inst.queue.Empty()))
		return nil
	}})

	// No self-test hardware, so *TST? always passes.
	set.Declare(command.Spec{Template: "*TST?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Reply("0")
		return nil
	}})

	set.Declare(command.Spec{Template: "SYSTem:ERRor[:NEXT]?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Reply(inst.queue.Pop().Error())
		return nil
	}})

	set.Declare(command.Spec{Template: "SYSTem:VERSion?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Reply(version.SCPI)
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:OPERation[:EVENt]?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.OperationEvent())
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:OPERation:CONDition?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.OperationCondition())
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:OPERation:ENABle", Converters: wordArg(), Handler: func(ctx context.Context, inv *command.Invocation) error {
		inst.regs.SetOperationEnable(uint16(inv.Int(0)))
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:OPERation:ENABle?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.OperationEnable())
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:QUEStionable[:EVENt]?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.QuestionableEvent())
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:QUEStionable:CONDition?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.QuestionableCondition())
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:QUEStionable:ENABle", Converters: wordArg(), Handler: func(ctx context.Context, inv *command.Invocation) error {
		inst.regs.SetQuestionableEnable(uint16(inv.Int(0)))
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:QUEStionable:ENABle?", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inv.Replyf("%d", inst.regs.QuestionableEnable())
		return nil
	}})

	set.Declare(command.Spec{Template: "STATus:PRESet", Handler: func(ctx context.Context, inv *command.Invocation) error {
		inst.regs.Preset()
		return nil
	}})

	return set
}
