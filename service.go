package fsm

import (
	"time"

	"github.com/enetx/g"
)

// Service health states. A probe cycle re-enters checking and lands on one
// of the three results.
const (
	ServiceUnknown   State = "unknown"
	ServiceChecking  State = "checking"
	ServiceAvailable State = "available"
	ServiceBlocked   State = "blocked"
	ServiceError     State = "error"
)

// Events specific to the service machine.
const (
	EventMarkAvailable Event = "MARK_AVAILABLE"
	EventMarkBlocked   Event = "MARK_BLOCKED"
	EventMarkError     Event = "MARK_ERROR"
)

// Service context fields.
const (
	CtxServiceID           g.String = "id"
	CtxLastCheckedAt       g.String = "lastCheckedAt"
	CtxLatencyMs           g.String = "latencyMs"
	CtxErrorCount          g.String = "errorCount"
	CtxConsecutiveFailures g.String = "consecutiveFailures"
)

// NewServiceMachine builds the health machine for one monitored service.
func NewServiceMachine(id g.String, opts ...Option) *FSM {
	checkable := g.SliceOf(ServiceUnknown, ServiceAvailable, ServiceBlocked, ServiceError)

	every := checkable.Clone()
	every.Push(ServiceChecking)

	table := g.SliceOf(
		OnAny(checkable, EventCheck, ServiceChecking),
		On(ServiceChecking, EventMarkAvailable, ServiceAvailable),
		On(ServiceChecking, EventMarkBlocked, ServiceBlocked),
		On(ServiceChecking, EventMarkError, ServiceError),
		OnAny(every, EventReset, ServiceUnknown),
	)

	initial := Context{
		CtxServiceID:           id,
		CtxLastCheckedAt:       nil,
		CtxLatencyMs:           nil,
		CtxErrorCount:          0,
		CtxConsecutiveFailures: 0,
		CtxLastError:           nil,
	}

	return New(ServiceUnknown, table, initial, opts...)
}

// CheckService begins a probe cycle, stamping the check time. Fails when a
// probe is already in flight.
func CheckService(m *FSM) bool {
	return m.Trigger(EventCheck, Context{CtxLastCheckedAt: time.Now()})
}

// MarkServiceAvailable records a successful probe with its latency. A success
// zeroes the consecutive-failure counter and clears the last error; the
// consecutive-failure semantics depend on exactly this coupling.
func MarkServiceAvailable(m *FSM, latencyMs int) bool {
	return m.Trigger(EventMarkAvailable, Context{
		CtxLatencyMs:           latencyMs,
		CtxConsecutiveFailures: 0,
		CtxLastError:           nil,
	})
}

// MarkServiceBlocked records a probe that found the service blocked,
// incrementing both failure counters.
func MarkServiceBlocked(m *FSM) bool {
	return m.Trigger(EventMarkBlocked, Context{
		CtxConsecutiveFailures: intField(m, CtxConsecutiveFailures) + 1,
		CtxErrorCount:          intField(m, CtxErrorCount) + 1,
	})
}

// MarkServiceError records a probe that failed outright, incrementing both
// failure counters and keeping the error message.
func MarkServiceError(m *FSM, msg g.String) bool {
	return m.Trigger(EventMarkError, Context{
		CtxConsecutiveFailures: intField(m, CtxConsecutiveFailures) + 1,
		CtxErrorCount:          intField(m, CtxErrorCount) + 1,
		CtxLastError:           msg,
	})
}

// ResetService returns the machine to unknown from any state. The cumulative
// error count survives a reset; the per-streak fields do not.
func ResetService(m *FSM) bool {
	return m.Trigger(EventReset, Context{
		CtxLastCheckedAt:       nil,
		CtxLatencyMs:           nil,
		CtxConsecutiveFailures: 0,
		CtxLastError:           nil,
	})
}
