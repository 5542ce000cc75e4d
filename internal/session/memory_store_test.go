package session

import (
	"context"
	"errors"
	"testing"

	"github.com/terraquiz/terraquiz/internal/model"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	state := &model.SessionState{}
	state.Score = 3
	state.TotalQuestions = 5
	state.UsedQuestions = []string{"q1", "q2"}

	if err := s.Save(ctx, "s1", state); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Score != 3 || got.TotalQuestions != 5 || len(got.UsedQuestions) != 2 {
		t.Errorf("unexpected state: %+v", got)
	}
}

func TestMemoryStoreMissingSession(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreCopiesState(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	state := &model.SessionState{}
	state.UsedQuestions = []string{"q1"}
	if err := s.Save(ctx, "s1", state); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy must not leak into the store.
	state.UsedQuestions = append(state.UsedQuestions, "q2")
	state.Score = 99

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Score != 0 || len(got.UsedQuestions) != 1 {
		t.Errorf("stored state shares memory with the caller: %+v", got)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Save(ctx, "s1", &model.SessionState{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := &model.SessionState{}
	a.Score = 1
	b := &model.SessionState{}
	b.Score = 2

	if err := s.Save(ctx, "a", a); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "b", b); err != nil {
		t.Fatal(err)
	}

	gotA, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	gotB, err := s.Get(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if gotA.Score != 1 || gotB.Score != 2 {
		t.Errorf("sessions bled into each other: a=%+v b=%+v", gotA, gotB)
	}
}
