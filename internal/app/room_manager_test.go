package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/rooms/internal/domain"
)

func TestRandomCodeAlphabet(t *testing.T) {
	for range 50 {
		code, err := RandomCode()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != CodeLen {
			t.Fatalf("expected %d chars, got %q", CodeLen, code)
		}
		for _, c := range string(code) {
			if !strings.ContainsRune(CodeAlphabet, c) {
				t.Fatalf("code %q has char %q outside alphabet", code, c)
			}
		}
	}
}

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	codes := []domain.RoomCode{"AAAAA", "AAAAA", "BBBBB"}
	i := 0
	m := NewRoomManagerWithCodes(func() (domain.RoomCode, error) {
		c := codes[i]
		i++
		return c, nil
	})

	first, err := m.CreateRoom(domain.DefaultSettings())
	if err != nil || first.Code != "AAAAA" {
		t.Fatalf("got %v, %v", first, err)
	}
	second, err := m.CreateRoom(domain.DefaultSettings())
	if err != nil || second.Code != "BBBBB" {
		t.Fatalf("expected retry to BBBBB, got %v, %v", second, err)
	}
	if m.Count() != 2 {
		t.Errorf("expected 2 rooms, got %d", m.Count())
	}
}

func TestCreateRoomExhausted(t *testing.T) {
	m := NewRoomManagerWithCodes(func() (domain.RoomCode, error) { return "AAAAA", nil })
	if _, err := m.CreateRoom(domain.DefaultSettings()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateRoom(domain.DefaultSettings()); !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Errorf("expected ErrCodeSpaceExhausted, got %v", err)
	}
}

func TestDestroyIfEmpty(t *testing.T) {
	m := NewRoomManager()
	room, err := m.CreateRoom(domain.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	room.Admit("1", "alice", time.Now())
	if m.DestroyIfEmpty(room.Code) {
		t.Fatal("occupied room destroyed")
	}
	room.Remove("1", time.Now())
	if !m.DestroyIfEmpty(room.Code) {
		t.Fatal("empty room kept")
	}
	if _, ok := m.GetRoom(room.Code); ok {
		t.Error("destroyed room still retrievable")
	}
	if len(m.List()) != 0 {
		t.Error("list should be empty")
	}
}
