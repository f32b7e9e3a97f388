package fsm

import (
	"time"

	"github.com/enetx/g"
)

// Protection lifecycle states. A session attempts to come up, runs, may
// degrade and recover, and can always fail or be reset.
const (
	ProtectionIdle       State = "idle"
	ProtectionChecking   State = "checking"
	ProtectionStarting   State = "starting"
	ProtectionActive     State = "active"
	ProtectionDegraded   State = "degraded"
	ProtectionRecovering State = "recovering"
	ProtectionStopping   State = "stopping"
	ProtectionError      State = "error"
)

// Events understood by the protection machine. EventCheck and EventReset are
// shared with the service machine.
const (
	EventCheck     Event = "CHECK"
	EventActivate  Event = "ACTIVATE"
	EventDegrade   Event = "DEGRADE"
	EventRecover   Event = "RECOVER"
	EventRecovered Event = "RECOVERED"
	EventStop      Event = "STOP"
	EventStopped   Event = "STOPPED"
	EventFail      Event = "FAIL"
	EventReset     Event = "RESET"
)

// Protection context fields.
const (
	CtxCurrentStrategy  g.String = "currentStrategy"
	CtxStartedAt        g.String = "startedAt"
	CtxLastChangedAt    g.String = "lastChangedAt"
	CtxLastError        g.String = "lastError"
	CtxRecoveryAttempts g.String = "recoveryAttempts"
)

// NewProtectionMachine builds the machine modeling one protection session.
func NewProtectionMachine(opts ...Option) *FSM {
	running := g.SliceOf(ProtectionActive, ProtectionDegraded, ProtectionRecovering)

	failing := g.SliceOf(
		ProtectionIdle, ProtectionChecking, ProtectionStarting, ProtectionActive,
		ProtectionDegraded, ProtectionRecovering, ProtectionStopping,
	)

	every := failing.Clone()
	every.Push(ProtectionError)

	table := g.SliceOf(
		On(ProtectionIdle, EventCheck, ProtectionChecking),
		On(ProtectionChecking, EventActivate, ProtectionStarting),
		On(ProtectionStarting, EventActivate, ProtectionActive),
		On(ProtectionActive, EventDegrade, ProtectionDegraded),
		On(ProtectionRecovering, EventDegrade, ProtectionDegraded),
		On(ProtectionDegraded, EventRecover, ProtectionRecovering),
		On(ProtectionRecovering, EventRecovered, ProtectionActive),
		OnAny(running, EventStop, ProtectionStopping),
		On(ProtectionStopping, EventStopped, ProtectionIdle),
		OnAny(failing, EventFail, ProtectionError),
		OnAny(every, EventReset, ProtectionIdle),
	)

	initial := Context{
		CtxCurrentStrategy:  nil,
		CtxStartedAt:        nil,
		CtxLastChangedAt:    nil,
		CtxLastError:        nil,
		CtxRecoveryAttempts: 0,
	}

	return New(ProtectionIdle, table, initial, opts...)
}

// StartProtection begins a session with the given bypass strategy by moving
// the machine into checking. Fails without side effects when the machine is
// not idle.
func StartProtection(m *FSM, strategy g.String) bool {
	return m.Trigger(EventCheck, Context{
		CtxCurrentStrategy: strategy,
		CtxLastError:       nil,
		CtxLastChangedAt:   time.Now(),
	})
}

// ActivateProtection advances the startup sequence one step per call:
// checking moves to starting, starting moves to active. The step into active
// stamps the session start time.
func ActivateProtection(m *FSM) bool {
	delta := Context{CtxLastChangedAt: time.Now()}

	if m.Matches(ProtectionStarting) {
		delta.Set(CtxStartedAt, time.Now())
	}

	return m.Trigger(EventActivate, delta)
}

// DegradeProtection marks an active or recovering session as degraded,
// keeping the reason for the UI.
func DegradeProtection(m *FSM, reason g.String) bool {
	return m.Trigger(EventDegrade, Context{
		CtxLastError:     reason,
		CtxLastChangedAt: time.Now(),
	})
}

// RecoverProtection starts a recovery attempt and bumps the attempt counter.
func RecoverProtection(m *FSM) bool {
	return m.Trigger(EventRecover, Context{
		CtxRecoveryAttempts: intField(m, CtxRecoveryAttempts) + 1,
		CtxLastChangedAt:    time.Now(),
	})
}

// CompleteRecovery returns a recovering session to active and clears the
// degradation reason.
func CompleteRecovery(m *FSM) bool {
	return m.Trigger(EventRecovered, Context{
		CtxLastError:     nil,
		CtxLastChangedAt: time.Now(),
	})
}

// StopProtection begins a graceful shutdown of a running session.
func StopProtection(m *FSM) bool {
	return m.Trigger(EventStop, Context{CtxLastChangedAt: time.Now()})
}

// ConfirmStopped completes the shutdown, returning the machine to idle and
// clearing the session fields.
func ConfirmStopped(m *FSM) bool {
	return m.Trigger(EventStopped, Context{
		CtxCurrentStrategy: nil,
		CtxStartedAt:       nil,
		CtxLastChangedAt:   time.Now(),
	})
}

// FailProtection moves the session into the error state from anywhere,
// recording the failure message.
func FailProtection(m *FSM, msg g.String) bool {
	return m.Trigger(EventFail, Context{
		CtxLastError:     msg,
		CtxLastChangedAt: time.Now(),
	})
}

// ResetProtection returns the machine to idle from any state, error included,
// clearing the session fields. Unlike FSM.Reset it is a transition: history
// is kept and the move is recorded in it.
func ResetProtection(m *FSM) bool {
	return m.Trigger(EventReset, Context{
		CtxCurrentStrategy:  nil,
		CtxStartedAt:        nil,
		CtxLastError:        nil,
		CtxRecoveryAttempts: 0,
		CtxLastChangedAt:    time.Now(),
	})
}
