// File: registers.go
// Title: IEEE-488.2 Status Registers
// Description: Implements the status byte, standard event status register,
//              and the SCPI OPERation and QUEStionable register groups with
//              their enable/event cascade. Summary bits of the status byte
//              are computed from the event registers and the error queue
//              state rather than latched, so draining a source clears its
//              summary bit on the next *STB? read.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial register model

package status

import "sync"

// Status byte summary bits (IEEE-488.2 table 11-1)
const (
	StbErrorQueue   uint8 = 1 << 2 // error/event queue not empty
	StbQuestionable uint8 = 1 << 3 // QUEStionable event register non-zero
	StbEventSummary uint8 = 1 << 5 // ESR & ESE non-zero
	StbMaster       uint8 = 1 << 6 // MSS, summary of enabled bits
	StbOperation    uint8 = 1 << 7 // OPERation event register non-zero
)

// Standard event status register bits (IEEE-488.2 table 11-3)
const (
	EsrOperationComplete uint8 = 1 << 0
	EsrQueryError        uint8 = 1 << 2
	EsrExecutionError    uint8 = 1 << 4
	EsrCommandError      uint8 = 1 << 5
	EsrPowerOn           uint8 = 1 << 7
)

// Registers holds the full IEEE-488.2/SCPI status model for one instrument
type Registers struct {
	mu sync.Mutex

	esr uint8 // standard event status register
	ese uint8 // standard event status enable
	sre uint8 // service request enable

	operCond   uint16 // OPERation condition register
	operEnable uint16
	operEvent  uint16

	quesCond   uint16 // QUEStionable condition register
	quesEnable uint16
	quesEvent  uint16
}

// NewRegisters creates a cleared register set
func NewRegisters() *Registers {
	return &Registers{}
}

// SetEvent latches bits into the standard event status register
func (r *Registers) SetEvent(mask uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.esr |= mask
}

// EventStatus returns the standard event status register and clears it
func (r *Registers) EventStatus() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	esr := r.esr
	r.esr = 0
	return esr
}

// SetEventEnable sets the standard event status enable register (*ESE)
func (r *Registers) SetEventEnable(mask uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ese = mask
}

// EventEnable returns the standard event status enable register (*ESE?)
func (r *Registers) EventEnable() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ese
}

// SetServiceEnable sets the service request enable register (*SRE)
func (r *Registers) SetServiceEnable(mask uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sre = mask
}

// ServiceEnable returns the service request enable register (*SRE?)
func (r *Registers) ServiceEnable() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sre
}

// SetOperationCondition updates the OPERation condition register; enabled
// bits that are set are latched into the event register
func (r *Registers) SetOperationCondition(value uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operCond = value
	r.operEvent |= value & r.operEnable
}

// OperationCondition returns the OPERation condition register
func (r *Registers) OperationCondition() uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.operCond
}

// OperationEvent returns the OPERation event register and clears it
func (r *Registers) OperationEvent() uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	event := r.operEvent
	r.operEvent = 0
	return event
}

// SetOperationEnable sets the OPERation enable register
func (r *Registers) SetOperationEnable(mask uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operEnable = mask
}

// OperationEnable returns the OPERation enable register
func (r *Registers) OperationEnable() uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.operEnable
}

// SetQuestionableCondition updates the QUEStionable condition register;
// enabled bits that are set are latched into the event register
func (r *Registers) SetQuestionableCondition(value uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quesCond = value
	r.quesEvent |= value & r.quesEnable
}

// QuestionableCondition returns the QUEStionable condition register
func (r *Registers) QuestionableCondition() uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quesCond
}

// QuestionableEvent returns the QUEStionable event register and clears it
func (r *Registers) QuestionableEvent() uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	event := r.quesEvent
	r.quesEvent = 0
	return event
}

// SetQuestionableEnable sets the QUEStionable enable register
func (r *Registers) SetQuestionableEnable(mask uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quesEnable = mask
}

// QuestionableEnable returns the QUEStionable enable register
func (r *Registers) QuestionableEnable() uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quesEnable
}

// StatusByte computes the status byte from the event registers, the error
// queue state and the service request enable mask
func (r *Registers) StatusByte(errorQueueEmpty bool) uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stb uint8
	if !errorQueueEmpty {
		stb |= StbErrorQueue
	}
	if r.quesEvent != 0 {
		stb |= StbQuestionable
	}
	if r.esr&r.ese != 0 {
		stb |= StbEventSummary
	}
	if r.operEvent != 0 {
		stb |= StbOperation
	}
	if stb&r.sre != 0 {
		stb |= StbMaster
	}
	return stb
}

// Clear clears all event and condition registers (*CLS). The enable
// registers survive so a controller's mask setup outlives status clears.
func (r *Registers) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.esr = 0
	r.operCond = 0
	r.operEvent = 0
	r.quesCond = 0
	r.quesEvent = 0
}

// Preset restores the SCPI power-on enable configuration (STATus:PRESet):
// the OPERation and QUEStionable enable masks are cleared
func (r *Registers) Preset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operEnable = 0
	r.quesEnable = 0
}
