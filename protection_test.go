package fsm_test

import (
	"testing"
	"time"

	. "github.com/dpikit/fsm"
	"github.com/enetx/g"
)

func TestProtection_StartupScenario(t *testing.T) {
	m := NewProtectionMachine()

	assertTrue(t, StartProtection(m, "strategyA"))
	assertEqual(t, m.Current(), ProtectionChecking)
	assertEqual[any](t, m.Context().Get(CtxCurrentStrategy).Unwrap(), g.String("strategyA"))

	assertTrue(t, ActivateProtection(m))
	assertEqual(t, m.Current(), ProtectionStarting)
	assertTrue(t, m.Context().Get(CtxStartedAt).Some() == nil)

	assertTrue(t, ActivateProtection(m))
	assertEqual(t, m.Current(), ProtectionActive)

	startedAt := m.Context().Get(CtxStartedAt).Some()
	if _, ok := startedAt.(time.Time); !ok {
		t.Fatalf("expected startedAt to be a timestamp, got %v", startedAt)
	}
}

func TestProtection_StartRejectedWhenNotIdle(t *testing.T) {
	m := NewProtectionMachine()

	assertTrue(t, StartProtection(m, "strategyA"))
	assertFalse(t, StartProtection(m, "strategyB"))

	// The failed start left no trace.
	assertEqual(t, m.Current(), ProtectionChecking)
	assertEqual[any](t, m.Context().Get(CtxCurrentStrategy).Unwrap(), g.String("strategyA"))
}

// activate drives a fresh machine into the active state.
func activate(t *testing.T, m *FSM) {
	t.Helper()
	assertTrue(t, StartProtection(m, "strategyA"))
	assertTrue(t, ActivateProtection(m))
	assertTrue(t, ActivateProtection(m))
}

func TestProtection_DegradeRecoverCycle(t *testing.T) {
	m := NewProtectionMachine()
	activate(t, m)

	assertTrue(t, DegradeProtection(m, "high latency"))
	assertEqual(t, m.Current(), ProtectionDegraded)
	assertEqual[any](t, m.Context().Get(CtxLastError).Unwrap(), g.String("high latency"))

	assertTrue(t, RecoverProtection(m))
	assertEqual(t, m.Current(), ProtectionRecovering)
	assertEqual(t, m.Context().Get(CtxRecoveryAttempts).Unwrap(), 1)

	assertTrue(t, CompleteRecovery(m))
	assertEqual(t, m.Current(), ProtectionActive)
	assertTrue(t, m.Context().Get(CtxLastError).Some() == nil)

	// A second degradation bumps the attempt counter again.
	assertTrue(t, DegradeProtection(m, "packet loss"))
	assertTrue(t, RecoverProtection(m))
	assertEqual(t, m.Context().Get(CtxRecoveryAttempts).Unwrap(), 2)
}

func TestProtection_RecoveryCanDegradeAgain(t *testing.T) {
	m := NewProtectionMachine()
	activate(t, m)

	assertTrue(t, DegradeProtection(m, "high latency"))
	assertTrue(t, RecoverProtection(m))
	assertTrue(t, DegradeProtection(m, "still degraded"))
	assertEqual(t, m.Current(), ProtectionDegraded)
}

func TestProtection_StopCycle(t *testing.T) {
	m := NewProtectionMachine()
	activate(t, m)

	assertTrue(t, StopProtection(m))
	assertEqual(t, m.Current(), ProtectionStopping)

	assertTrue(t, ConfirmStopped(m))
	assertEqual(t, m.Current(), ProtectionIdle)
	assertTrue(t, m.Context().Get(CtxCurrentStrategy).Some() == nil)
	assertTrue(t, m.Context().Get(CtxStartedAt).Some() == nil)
}

func TestProtection_FailReachableFromEveryState(t *testing.T) {
	drivers := map[State]func(*testing.T, *FSM){
		ProtectionIdle:     func(*testing.T, *FSM) {},
		ProtectionChecking: func(t *testing.T, m *FSM) { assertTrue(t, StartProtection(m, "s")) },
		ProtectionStarting: func(t *testing.T, m *FSM) {
			assertTrue(t, StartProtection(m, "s"))
			assertTrue(t, ActivateProtection(m))
		},
		ProtectionActive: activate,
		ProtectionDegraded: func(t *testing.T, m *FSM) {
			activate(t, m)
			assertTrue(t, DegradeProtection(m, "d"))
		},
		ProtectionRecovering: func(t *testing.T, m *FSM) {
			activate(t, m)
			assertTrue(t, DegradeProtection(m, "d"))
			assertTrue(t, RecoverProtection(m))
		},
		ProtectionStopping: func(t *testing.T, m *FSM) {
			activate(t, m)
			assertTrue(t, StopProtection(m))
		},
	}

	for state, drive := range drivers {
		m := NewProtectionMachine()
		drive(t, m)
		assertEqual(t, m.Current(), state)

		assertTrue(t, FailProtection(m, "boom"))
		assertEqual(t, m.Current(), ProtectionError)
		assertEqual[any](t, m.Context().Get(CtxLastError).Unwrap(), g.String("boom"))
	}
}

func TestProtection_FailFromErrorRejected(t *testing.T) {
	m := NewProtectionMachine()

	assertTrue(t, FailProtection(m, "boom"))
	assertFalse(t, FailProtection(m, "boom again"))
	assertEqual[any](t, m.Context().Get(CtxLastError).Unwrap(), g.String("boom"))
}

func TestProtection_ResetFromError(t *testing.T) {
	m := NewProtectionMachine()
	activate(t, m)

	assertTrue(t, DegradeProtection(m, "d"))
	assertTrue(t, RecoverProtection(m))
	assertTrue(t, FailProtection(m, "boom"))

	assertTrue(t, ResetProtection(m))
	assertEqual(t, m.Current(), ProtectionIdle)

	ctx := m.Context()
	assertTrue(t, ctx.Get(CtxLastError).Some() == nil)
	assertTrue(t, ctx.Get(CtxCurrentStrategy).Some() == nil)
	assertEqual(t, ctx.Get(CtxRecoveryAttempts).Unwrap(), 0)
}
