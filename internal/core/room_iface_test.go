package core

import (
	"errors"
	"testing"
)

type stubSignal struct {
	full bool
	got  []Frame
}

func (s *stubSignal) TrySend(f Frame) error {
	if s.full {
		return errors.New("full")
	}
	s.got = append(s.got, f)
	return nil
}

func (s *stubSignal) Ping() error { return nil }
func (s *stubSignal) Close()      {}

func TestPublishReportsDropped(t *testing.T) {
	ok1, ok2, full := &stubSignal{}, &stubSignal{}, &stubSignal{full: true}
	res := Publish([]MemberSession{
		{SID: "1", Signal: ok1},
		{SID: "2", Signal: full},
		{SID: "3", Signal: ok2},
	}, Frame(`{"type":"room-state"}`))

	if res.SendTo != 2 {
		t.Errorf("expected 2 deliveries, got %d", res.SendTo)
	}
	if len(res.Dropped) != 1 || res.Dropped[0].SID != "2" {
		t.Errorf("expected session 2 dropped, got %+v", res.Dropped)
	}
	if len(ok1.got) != 1 || len(ok2.got) != 1 {
		t.Error("healthy members should each get the frame once")
	}
}

func TestPublishToNobody(t *testing.T) {
	res := Publish(nil, Frame("x"))
	if res.SendTo != 0 || len(res.Dropped) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}
