package fsm_test

import (
	"testing"

	. "github.com/dpikit/fsm"
)

func TestManager_GetOrCreateReturnsSameInstance(t *testing.T) {
	mgr := NewServiceManager()

	m1 := mgr.GetOrCreate("svc1")
	m2 := mgr.GetOrCreate("svc1")

	assertTrue(t, m1 == m2)
	assertEqual(t, mgr.Len(), 1)
}

func TestManager_GetDoesNotCreate(t *testing.T) {
	mgr := NewServiceManager()

	assertTrue(t, mgr.Get("svc1").IsNone())
	assertEqual(t, mgr.Len(), 0)

	mgr.GetOrCreate("svc1")
	assertTrue(t, mgr.Get("svc1").IsSome())
}

func TestManager_CheckAllIsIndependent(t *testing.T) {
	mgr := NewServiceManager()

	busy := mgr.GetOrCreate("svc1")
	idle := mgr.GetOrCreate("svc2")

	// svc1 already has a probe in flight, so CheckAll cannot move it.
	assertTrue(t, CheckService(busy))
	busyHistory := len(busy.History())

	mgr.CheckAll()

	assertEqual(t, busy.Current(), ServiceChecking)
	assertEqual(t, len(busy.History()), busyHistory)
	assertEqual(t, idle.Current(), ServiceChecking)
}

func TestManager_States(t *testing.T) {
	mgr := NewServiceManager()

	mgr.GetOrCreate("svc1")
	assertTrue(t, CheckService(mgr.GetOrCreate("svc2")))

	states := mgr.States()
	assertEqual(t, states.Get("svc1").Unwrap(), ServiceUnknown)
	assertEqual(t, states.Get("svc2").Unwrap(), ServiceChecking)
}

func TestManager_ResetAll(t *testing.T) {
	mgr := NewServiceManager()

	assertTrue(t, CheckService(mgr.GetOrCreate("svc1")))
	assertTrue(t, MarkServiceBlocked(mgr.GetOrCreate("svc1")))
	assertTrue(t, CheckService(mgr.GetOrCreate("svc2")))

	mgr.ResetAll()

	for _, state := range mgr.States().Iter() {
		assertEqual(t, state, ServiceUnknown)
	}
}

func TestManager_RemoveAndClear(t *testing.T) {
	mgr := NewServiceManager()

	mgr.GetOrCreate("svc1")
	mgr.GetOrCreate("svc2")

	assertTrue(t, mgr.Remove("svc1"))
	assertFalse(t, mgr.Remove("svc1"))
	assertEqual(t, mgr.Len(), 1)

	// A new machine is created after removal, not the old one revived.
	removed := mgr.GetOrCreate("svc1")
	assertEqual(t, removed.Current(), ServiceUnknown)

	mgr.Clear()
	assertEqual(t, mgr.Len(), 0)
	assertTrue(t, mgr.Get("svc2").IsNone())
}
