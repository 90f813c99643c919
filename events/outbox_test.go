package events

import (
	"testing"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/gametime"
)

func TestOutboxOrderAndSeq(t *testing.T) {
	o := NewOutbox()
	at := gametime.FromSeconds(10)

	o.Push(NewNamed(KindDiseaseSpawned, at, "Flu"))
	o.Push(NewInjury(KindInjurySpawned, at, "Cut", body.PartLeftShoulder))
	o.Push(New(KindTired, at))

	var got []Event
	n := o.Drain(ListenerFunc(func(e Event) { got = append(got, e) }))

	if n != 3 || len(got) != 3 {
		t.Fatalf("drained %d events, want 3", n)
	}
	if got[0].Kind != KindDiseaseSpawned || got[1].Kind != KindInjurySpawned || got[2].Kind != KindTired {
		t.Errorf("wrong order: %v %v %v", got[0].Kind, got[1].Kind, got[2].Kind)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Seq <= got[i-1].Seq {
			t.Errorf("seq not monotonic: %d then %d", got[i-1].Seq, got[i].Seq)
		}
	}
	if o.Len() != 0 {
		t.Error("outbox not empty after drain")
	}
}

func TestOutboxCoalescesDuplicates(t *testing.T) {
	o := NewOutbox()
	at := gametime.FromSeconds(5)

	o.Push(New(KindLowBodyTemperatureDanger, at))
	o.Push(New(KindLowBodyTemperatureDanger, at))
	o.Push(New(KindLowBodyTemperatureDanger, at))

	if o.Len() != 1 {
		t.Fatalf("got %d pending, want 1", o.Len())
	}

	// a different payload breaks the run
	o.Push(New(KindTired, at))
	o.Push(New(KindLowBodyTemperatureDanger, at))
	if o.Len() != 3 {
		t.Errorf("got %d pending, want 3", o.Len())
	}
}

func TestOutboxDrainInto(t *testing.T) {
	src := NewOutbox()
	dst := NewOutbox()
	at := gametime.FromSeconds(1)

	dst.Push(New(KindWokeUp, at))
	src.Push(NewNamed(KindDiseaseExpired, at, "Flu"))
	src.Push(NewWeight(at, 500, 480))

	if n := src.DrainInto(dst); n != 2 {
		t.Fatalf("moved %d, want 2", n)
	}
	if src.Len() != 0 || dst.Len() != 3 {
		t.Errorf("src=%d dst=%d, want 0 and 3", src.Len(), dst.Len())
	}

	p := dst.Pending()
	if p[0].Kind != KindWokeUp || p[1].Kind != KindDiseaseExpired || p[2].Kind != KindInventoryWeightChanged {
		t.Error("merged order wrong")
	}
}

func TestKindNames(t *testing.T) {
	if KindMedicalAgentDoseReceived.String() != "medical_agent_dose_received" {
		t.Errorf("got %q", KindMedicalAgentDoseReceived.String())
	}
	if Kind(255).String() != "unknown" {
		t.Errorf("got %q for out-of-range kind", Kind(255).String())
	}
}
