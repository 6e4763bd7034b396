// File: scpi_test.go
// Title: Instrument Integration Tests
// Description: End-to-end tests driving an instrument through a session:
//              mandatory commands, error queue behavior, cursor
//              continuation across semicolons, background task lifecycle
//              and *RST semantics.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial integration tests

package scpi

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stonerlab/goscpi/pkg/scpi/command"
	"github.com/stonerlab/goscpi/pkg/scpi/param"
	"github.com/stonerlab/goscpi/pkg/scpi/status"
)

func testIdentity() Identity {
	return Identity{
		Manufacturer: "stonerlab",
		Model:        "goscpi",
		SerialNumber: "0001",
		Firmware:     "0.1.0",
	}
}

func newTestInstrument(t *testing.T) *Instrument {
	t.Helper()
	inst, err := New(Options{Identity: testIdentity()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return inst
}

// exec runs one line through a fresh buffer-backed session and returns the
// response lines
func exec(t *testing.T, s *Session, buf *bytes.Buffer, line string) []string {
	t.Helper()
	buf.Reset()
	if err := s.Execute(context.Background(), line); err != nil {
		t.Fatalf("Execute(%q): %v", line, err)
	}
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestIdentification(t *testing.T) {
	inst := newTestInstrument(t)
	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	got := exec(t, s, &buf, "*IDN?")
	want := "stonerlab,goscpi,0001,0.1.0"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("*IDN? = %v, want %q", got, want)
	}
}

func TestErrorQueueDrains(t *testing.T) {
	inst := newTestInstrument(t)
	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	// Two bad headers queue two errors in arrival order.
	exec(t, s, &buf, "BOGUS:ONE?;BOGUS:TWO?")

	got := exec(t, s, &buf, "SYST:ERR?;SYST:ERR?;SYST:ERR?")
	if len(got) != 3 {
		t.Fatalf("responses = %v", got)
	}
	if !strings.HasPrefix(got[0], "-100,") || !strings.HasPrefix(got[1], "-100,") {
		t.Errorf("queued errors = %v, want two -100 entries", got[:2])
	}
	if got[2] != `0,"No error"` {
		t.Errorf("drained queue returned %q", got[2])
	}
}

func TestStatusByteErrorBit(t *testing.T) {
	inst := newTestInstrument(t)
	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	exec(t, s, &buf, "BOGUS?")
	got := exec(t, s, &buf, "*STB?")
	if len(got) != 1 {
		t.Fatalf("*STB? = %v", got)
	}
	stb, err := strconv.Atoi(got[0])
	if err != nil {
		t.Fatalf("parsing %q: %v", got[0], err)
	}
	if uint8(stb)&status.StbErrorQueue == 0 {
		t.Errorf("STB = %d, error queue bit not set", stb)
	}

	exec(t, s, &buf, "SYST:ERR?")
	got = exec(t, s, &buf, "*STB?")
	if stb, err = strconv.Atoi(got[0]); err != nil {
		t.Fatalf("parsing %q: %v", got[0], err)
	}
	if uint8(stb)&status.StbErrorQueue != 0 {
		t.Errorf("STB = %d, error queue bit still set after drain", stb)
	}
}

func TestEventStatusReadClears(t *testing.T) {
	inst := newTestInstrument(t)
	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	// Power-on is latched at construction.
	got := exec(t, s, &buf, "*ESR?")
	if len(got) != 1 || got[0] != "128" {
		t.Fatalf("first *ESR? = %v, want 128", got)
	}
	got = exec(t, s, &buf, "*ESR?")
	if got[0] != "0" {
		t.Errorf("second *ESR? = %v, want 0", got)
	}
}

func TestCursorContinuationAcrossSemicolons(t *testing.T) {
	inst := newTestInstrument(t)
	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	got := exec(t, s, &buf, "SYST:ERR?;VERS?")
	if len(got) != 2 {
		t.Fatalf("responses = %v", got)
	}
	if got[0] != `0,"No error"` {
		t.Errorf("SYST:ERR? = %q", got[0])
	}
	if got[1] != "1999.1" {
		t.Errorf("relative VERS? = %q, want 1999.1", got[1])
	}
}

func TestQuotedParameterKeepsComma(t *testing.T) {
	inst := newTestInstrument(t)

	var got string
	set := inst.Commands()
	set.Declare(command.Spec{
		Template:   "SYSTem:PRINt",
		Converters: []param.Converter{param.String()},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			got = inv.String(0)
			return nil
		},
	})
	if err := inst.Install(set); err != nil {
		t.Fatalf("Install: %v", err)
	}

	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	exec(t, s, &buf, `SYST:PRIN "hello, world"`)
	if got != "hello, world" {
		t.Errorf("parameter = %q, want the quoted comma preserved", got)
	}
}

func TestParameterErrorDoesNotStopLine(t *testing.T) {
	inst := newTestInstrument(t)
	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	// *ESE demands one parameter; the missing one queues -109 while the
	// trailing *IDN? still answers.
	got := exec(t, s, &buf, "*ESE;*IDN?")
	if len(got) != 1 || !strings.Contains(got[0], "stonerlab") {
		t.Fatalf("responses = %v, want *IDN? answer", got)
	}
	got = exec(t, s, &buf, "SYST:ERR?")
	if !strings.HasPrefix(got[0], "-109,") {
		t.Errorf("queued error = %q, want -109", got[0])
	}
}

func TestBackgroundTaskAndReset(t *testing.T) {
	inst := newTestInstrument(t)

	release := make(chan struct{})
	set := inst.Commands()
	set.Declare(command.Spec{
		Template: "SYSTem:HOLD",
		Mode:     command.Background,
		Name:     "hold",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			select {
			case <-ctx.Done():
			case <-release:
			}
			return nil
		},
	})
	if err := inst.Install(set); err != nil {
		t.Fatalf("Install: %v", err)
	}
	defer close(release)

	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	exec(t, s, &buf, "SYST:HOLD")
	deadline := time.Now().Add(time.Second)
	for len(inst.Registry().Pending()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("background task never registered")
		}
		time.Sleep(time.Millisecond)
	}

	// *RST cancels the task and clears the power-on/status bits, so the
	// follow-up *ESR? on the same line reads zero.
	got := exec(t, s, &buf, "*RST;*ESR?")
	if len(got) != 1 || got[0] != "0" {
		t.Fatalf("*RST;*ESR? = %v, want [0]", got)
	}
	if pending := inst.Registry().Pending(); len(pending) != 0 {
		t.Errorf("pending after reset = %v", pending)
	}
}

func TestOperationCompleteWaitsForTasks(t *testing.T) {
	inst := newTestInstrument(t)

	set := inst.Commands()
	set.Declare(command.Spec{
		Template: "SYSTem:HOLD",
		Mode:     command.Background,
		Name:     "hold",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			time.Sleep(30 * time.Millisecond)
			return nil
		},
	})
	if err := inst.Install(set); err != nil {
		t.Fatalf("Install: %v", err)
	}

	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	start := time.Now()
	got := exec(t, s, &buf, "SYST:HOLD;*OPC?")
	if time.Since(start) < 30*time.Millisecond {
		t.Error("*OPC? returned before the background task finished")
	}
	if len(got) != 1 || got[0] != "1" {
		t.Errorf("*OPC? = %v, want [1]", got)
	}
	if pending := inst.Registry().Pending(); len(pending) != 0 {
		t.Errorf("pending after *OPC? = %v", pending)
	}
}

func TestStatusPresetClearsEnables(t *testing.T) {
	inst := newTestInstrument(t)
	var buf bytes.Buffer
	s := inst.NewSession(&buf)
	defer s.Close()

	exec(t, s, &buf, "STAT:OPER:ENAB 12;STAT:QUES:ENAB 5")
	got := exec(t, s, &buf, "STAT:OPER:ENAB?;STAT:QUES:ENAB?")
	if len(got) != 2 || got[0] != "12" || got[1] != "5" {
		t.Fatalf("enables = %v, want [12 5]", got)
	}

	exec(t, s, &buf, "STAT:PRES")
	got = exec(t, s, &buf, "STAT:OPER:ENAB?;STAT:QUES:ENAB?")
	if len(got) != 2 || got[0] != "0" || got[1] != "0" {
		t.Errorf("enables after preset = %v, want [0 0]", got)
	}
}

func TestEng(t *testing.T) {
	tests := []struct {
		value  float64
		digits int
		unit   string
		want   string
	}{
		{0.00123, 3, "V", "1.23 mV"},
		{1500, 3, "Hz", "1.5 kHz"},
		{42, 3, "V", "42 V"},
		{0, 3, "A", "0 A"},
		{2.5e-7, 3, "s", "250 ns"},
	}
	for _, tc := range tests {
		if got := Eng(tc.value, tc.digits, tc.unit); got != tc.want {
			t.Errorf("Eng(%v, %d, %q) = %q, want %q", tc.value, tc.digits, tc.unit, got, tc.want)
		}
	}
}
