package medicine

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCurveShapes(t *testing.T) {
	cases := []struct {
		kind     CurveKind
		progress float64
		want     float64
	}{
		{CurveImmediately, 0, 0},
		{CurveImmediately, 0.125, 50},
		{CurveImmediately, 0.25, 100},
		{CurveImmediately, 0.5, 100},
		{CurveImmediately, 0.85, 100},
		{CurveImmediately, 1, 0},

		{CurveLinearly, 0, 0},
		{CurveLinearly, 0.25, 50},
		{CurveLinearly, 0.5, 100},
		{CurveLinearly, 0.75, 50},
		{CurveLinearly, 1, 0},

		{CurveMostActiveInSecondHalf, 0, 0},
		{CurveMostActiveInSecondHalf, 0.3, 15},
		{CurveMostActiveInSecondHalf, 0.4, 15},
		{CurveMostActiveInSecondHalf, 0.575, 57.5},
		{CurveMostActiveInSecondHalf, 0.775, 100},
		{CurveMostActiveInSecondHalf, 0.95, 50},
		{CurveMostActiveInSecondHalf, 1, 0},
	}
	for _, c := range cases {
		if got := c.kind.Activity(c.progress); !approx(got, c.want) {
			t.Errorf("%s.Activity(%v) = %v, want %v", c.kind, c.progress, got, c.want)
		}
	}
}

func TestCurveClampsProgress(t *testing.T) {
	if got := CurveImmediately.Activity(-0.5); !approx(got, 0) {
		t.Fatalf("Activity(-0.5) = %v, want 0", got)
	}
	if got := CurveLinearly.Activity(1.5); !approx(got, 0) {
		t.Fatalf("Activity(1.5) = %v, want 0", got)
	}
}

func TestCurveFromString(t *testing.T) {
	for _, k := range []CurveKind{CurveImmediately, CurveMostActiveInSecondHalf, CurveLinearly} {
		got, ok := CurveFromString(k.String())
		if !ok || got != k {
			t.Fatalf("CurveFromString(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := CurveFromString("overnight"); ok {
		t.Fatal("resolved an unknown curve name")
	}
}

func aspirinMonitor() *Monitor {
	return NewMonitor([]Agent{{
		Name:            "Aspirin",
		Curve:           CurveImmediately,
		DurationMinutes: 30,
		Items:           []string{"Aspirin Pills"},
	}})
}

func TestSingleDoseLifecycle(t *testing.T) {
	m := aspirinMonitor()
	taken := gametime.FromSeconds(3600)

	m.OnConsumed(taken, "Aspirin Pills")
	m.Advance(taken)

	a, err := m.Agent("Aspirin")
	if err != nil {
		t.Fatalf("agent lookup: %v", err)
	}
	if a.IsActive() {
		t.Fatal("active at the intake instant")
	}
	if end, ok := a.LastDoseEnd(); !ok || !end.Equal(taken.Add(gametime.Minutes(30))) {
		t.Fatalf("last dose end = %v, %v", end, ok)
	}

	// One tick later the curve has left zero.
	m.Advance(taken.Add(gametime.Seconds(1)))
	if !a.IsActive() {
		t.Fatal("not active one tick after intake")
	}

	// A quarter of the way in the plateau is reached.
	m.Advance(taken.Add(gametime.Minutes(7.5)))
	if got := a.PercentOfActivity(); !approx(got, 100) {
		t.Fatalf("activity at quarter = %v, want 100", got)
	}

	// Halfway through a lone dose, presence is 50.
	m.Advance(taken.Add(gametime.Minutes(15)))
	if got := a.PercentOfPresence(); !approx(got, 50) {
		t.Fatalf("presence at half = %v, want 50", got)
	}

	// At wear-off the activity is back to zero.
	m.Advance(taken.Add(gametime.Minutes(30)))
	if a.IsActive() {
		t.Fatal("active at wear-off")
	}

	// Past wear-off the dose is pruned.
	m.Advance(taken.Add(gametime.Minutes(31)))
	if n := len(a.Doses()); n != 0 {
		t.Fatalf("live doses after wear-off = %d, want 0", n)
	}

	var kinds []events.Kind
	m.Outbox().Drain(events.ListenerFunc(func(e events.Event) {
		kinds = append(kinds, e.Kind)
	}))
	want := []events.Kind{
		events.KindMedicalAgentDoseReceived,
		events.KindMedicalAgentActivated,
		events.KindMedicalAgentDeactivated,
	}
	if len(kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event kinds = %v, want %v", kinds, want)
		}
	}
}

func TestOverlappingDosesTakeStrongest(t *testing.T) {
	m := aspirinMonitor()
	a, _ := m.Agent("Aspirin")

	start := gametime.GameTime{}
	m.OnConsumed(start, "Aspirin Pills")
	m.OnConsumed(start.Add(gametime.Minutes(20)), "Aspirin Pills")

	// First dose is on its plateau, second still ramping.
	m.Advance(start.Add(gametime.Minutes(25)))
	if got := a.PercentOfActivity(); !approx(got, 100) {
		t.Fatalf("activity with overlap = %v, want 100", got)
	}

	// First dose pruned, second carries on alone.
	m.Advance(start.Add(gametime.Minutes(38)))
	if n := len(a.Doses()); n != 1 {
		t.Fatalf("live doses = %d, want 1", n)
	}
	if got := a.PercentOfPresence(); !approx(got, 60) {
		t.Fatalf("presence over second dose = %v, want 60", got)
	}
	if got := a.PercentOfActivity(); !approx(got, 100) {
		t.Fatalf("activity at 0.6 progress = %v, want 100", got)
	}
}

func TestUnmatchedItemIsIgnored(t *testing.T) {
	m := aspirinMonitor()
	m.OnConsumed(gametime.GameTime{}, "Canned Beans")
	m.Advance(gametime.FromSeconds(1))

	a, _ := m.Agent("Aspirin")
	if a.IsActive() || len(a.Doses()) != 0 {
		t.Fatal("unmatched item produced a dose")
	}
	if m.Outbox().Len() != 0 {
		t.Fatalf("pending events = %d, want 0", m.Outbox().Len())
	}
}

func TestApplianceDeliversDose(t *testing.T) {
	m := NewMonitor([]Agent{{
		Name:            "Antivenom",
		Curve:           CurveLinearly,
		DurationMinutes: 10,
		Items:           []string{"Antivenom Syringe"},
	}})
	m.OnApplianceTaken(gametime.GameTime{}, "Antivenom Syringe")
	m.Advance(gametime.FromDuration(gametime.Minutes(5)))

	a, _ := m.Agent("Antivenom")
	if got := a.PercentOfActivity(); !approx(got, 100) {
		t.Fatalf("activity at midpoint = %v, want 100", got)
	}
}

func TestAgentLookupAndDuplicates(t *testing.T) {
	m := NewMonitor([]Agent{
		{Name: "Aspirin", Curve: CurveImmediately, DurationMinutes: 30},
		{Name: "Aspirin", Curve: CurveLinearly, DurationMinutes: 5},
	})
	if len(m.Agents()) != 1 {
		t.Fatalf("agents = %d, want 1", len(m.Agents()))
	}
	if _, err := m.Agent("Morphine"); !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("lookup err = %v, want ErrAgentNotFound", err)
	}
}

func TestMonitorStateRoundTrip(t *testing.T) {
	m := aspirinMonitor()
	start := gametime.FromSeconds(600)
	m.OnConsumed(start, "Aspirin Pills")
	m.Advance(start.Add(gametime.Minutes(10)))

	restored := aspirinMonitor()
	if err := restored.Restore(m.State()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	a, _ := m.Agent("Aspirin")
	b, _ := restored.Agent("Aspirin")
	if a.IsActive() != b.IsActive() {
		t.Fatal("restored active flag differs")
	}
	if !approx(a.PercentOfActivity(), b.PercentOfActivity()) {
		t.Fatalf("restored activity = %v, want %v", b.PercentOfActivity(), a.PercentOfActivity())
	}

	// Restored doses keep evolving on the original schedule.
	at := start.Add(gametime.Minutes(20))
	m.Advance(at)
	restored.Advance(at)
	if !approx(a.PercentOfPresence(), b.PercentOfPresence()) {
		t.Fatalf("restored presence = %v, want %v", b.PercentOfPresence(), a.PercentOfPresence())
	}

	bad := m.State()
	bad.Agents[0].Name = "Morphine"
	if err := restored.Restore(bad); !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("restore unknown agent err = %v, want ErrAgentNotFound", err)
	}
}
