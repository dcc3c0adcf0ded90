package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/AnEntrypoint/flowkit/internal/persistence"
	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// fakeStore is an in-test FlowStore with injectable failures and a record of
// the last persisted document.
type fakeStore struct {
	mu      sync.Mutex
	flows   map[string]*api.Flow
	getErr  error
	putErr  error
	lastPut *api.Flow
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{flows: make(map[string]*api.Flow)}
}

func (s *fakeStore) GetFlow(ctx context.Context, taskID string) (*api.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	f, ok := s.flows[taskID]
	if !ok {
		return nil, persistence.ErrFlowNotFound
	}
	return f.Clone(), nil
}

func (s *fakeStore) PutFlow(ctx context.Context, f *api.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.flows[f.ID] = f.Clone()
	s.lastPut = f.Clone()
	s.puts++
	return nil
}

func loadedEditor(t *testing.T) (*Editor, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	ed := New(store, nil)
	if err := ed.Load(context.Background(), "t1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return ed, store
}

func TestLoadSynthesizesDefaultFlow(t *testing.T) {
	ed, _ := loadedEditor(t)

	if ed.Phase() != api.PhaseLoaded {
		t.Fatalf("expected phase %s, got %s", api.PhaseLoaded, ed.Phase())
	}
	if ed.TaskID() != "t1" {
		t.Fatalf("expected task id t1, got %q", ed.TaskID())
	}

	snap := ed.Snapshot()
	if snap.Initial != "start" {
		t.Fatalf("expected initial start, got %q", snap.Initial)
	}
	if len(snap.States) != 1 {
		t.Fatalf("expected one state, got %d", len(snap.States))
	}
	if _, ok := snap.States["start"]; !ok {
		t.Fatalf("expected state start, got %v", snap.States)
	}

	order := ed.Order()
	if len(order) != 1 || order[0] != "start" {
		t.Fatalf("expected order [start], got %v", order)
	}
}

func TestLoadExistingFlowReconstructsOrder(t *testing.T) {
	store := newFakeStore()
	store.flows["t2"] = &api.Flow{
		ID:      "t2",
		Initial: "start",
		States: map[string]api.State{
			"step10": {},
			"start":  {OnDone: "step2"},
			"step2":  {OnDone: "step10"},
		},
	}

	ed := New(store, nil)
	if err := ed.Load(context.Background(), "t2"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Initial first, the rest in natural sort order.
	want := []string{"start", "step2", "step10"}
	got := ed.Order()
	if len(got) != len(want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestLoadFailureLeavesEditorUnloaded(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")

	ed := New(store, nil)
	if err := ed.Load(context.Background(), "t1"); err == nil {
		t.Fatal("expected load error")
	}

	if ed.Phase() != api.PhaseLoadFailed {
		t.Fatalf("expected phase %s, got %s", api.PhaseLoadFailed, ed.Phase())
	}
	if ed.Snapshot() != nil {
		t.Fatal("expected no document after failed load")
	}
	if err := ed.AddState("review"); !errors.Is(err, api.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}

	// A fresh load is the only way out of LoadFailed.
	store.mu.Lock()
	store.getErr = nil
	store.mu.Unlock()
	if err := ed.Load(context.Background(), "t1"); err != nil {
		t.Fatalf("recovery Load failed: %v", err)
	}
	if ed.Phase() != api.PhaseLoaded {
		t.Fatalf("expected phase %s, got %s", api.PhaseLoaded, ed.Phase())
	}
}

func TestAddState(t *testing.T) {
	ed, _ := loadedEditor(t)

	if err := ed.AddState("review"); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}

	snap := ed.Snapshot()
	if len(snap.States) != 2 {
		t.Fatalf("expected two states, got %d", len(snap.States))
	}

	order := ed.Order()
	if len(order) != 2 || order[0] != "start" || order[1] != "review" {
		t.Fatalf("expected order [start review], got %v", order)
	}
}

func TestAddStateValidation(t *testing.T) {
	ed, _ := loadedEditor(t)

	cases := []struct {
		name string
		kind api.ValidationKind
	}{
		{"", api.ValidationEmptyName},
		{"   ", api.ValidationEmptyName},
		{"1abc", api.ValidationInvalidFormat},
		{"bad name", api.ValidationInvalidFormat},
		{"start", api.ValidationDuplicateName},
	}

	for _, tc := range cases {
		err := ed.AddState(tc.name)
		ve, ok := api.AsValidationError(err)
		if !ok {
			t.Fatalf("AddState(%q): expected ValidationError, got %v", tc.name, err)
		}
		if ve.Kind != tc.kind {
			t.Fatalf("AddState(%q): expected kind %s, got %s", tc.name, tc.kind, ve.Kind)
		}
	}

	// Rejected adds mutate nothing.
	if n := len(ed.Snapshot().States); n != 1 {
		t.Fatalf("expected one state after rejected adds, got %d", n)
	}
}

func TestDeleteInitialRefused(t *testing.T) {
	ed, _ := loadedEditor(t)
	before := ed.Snapshot()

	for i := 0; i < 2; i++ {
		if err := ed.DeleteState("start"); !errors.Is(err, api.ErrCannotDeleteInitial) {
			t.Fatalf("expected ErrCannotDeleteInitial, got %v", err)
		}
	}

	after := ed.Snapshot()
	if len(after.States) != len(before.States) || after.Initial != before.Initial {
		t.Fatal("refused delete must leave the document unchanged")
	}
}

func TestAddThenDeleteRestoresCardinality(t *testing.T) {
	ed, _ := loadedEditor(t)

	if err := ed.AddState("review"); err != nil {
		t.Fatalf("AddState failed: %v", err)
	}
	if err := ed.DeleteState("review"); err != nil {
		t.Fatalf("DeleteState failed: %v", err)
	}

	if n := len(ed.Snapshot().States); n != 1 {
		t.Fatalf("expected one state, got %d", n)
	}
	if n := len(ed.Order()); n != 1 {
		t.Fatalf("expected one ordered id, got %d", n)
	}
}

func TestDeleteUnknownState(t *testing.T) {
	ed, _ := loadedEditor(t)
	if err := ed.DeleteState("ghost"); !errors.Is(err, api.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestDeleteReassignsSelection(t *testing.T) {
	ed, _ := loadedEditor(t)
	_ = ed.AddState("review")
	_ = ed.AddState("publish")

	ed.Select("review")
	ed.SetDragSource("review")

	if err := ed.DeleteState("review"); err != nil {
		t.Fatalf("DeleteState failed: %v", err)
	}

	if got := ed.Selected(); got != "start" {
		t.Fatalf("expected selection to move to first remaining id, got %q", got)
	}
	if got := ed.DragSource(); got != "" {
		t.Fatalf("expected drag source cleared, got %q", got)
	}

	// Deleting a state that is not selected leaves the selection alone.
	ed.Select("publish")
	_ = ed.AddState("extra")
	if err := ed.DeleteState("extra"); err != nil {
		t.Fatalf("DeleteState failed: %v", err)
	}
	if got := ed.Selected(); got != "publish" {
		t.Fatalf("expected selection untouched, got %q", got)
	}
}

func TestDeleteLeavesDanglingTransitions(t *testing.T) {
	ed, _ := loadedEditor(t)
	_ = ed.AddState("review")
	_ = ed.SetField("start", api.FieldOnDone, "review")

	if err := ed.DeleteState("review"); err != nil {
		t.Fatalf("DeleteState failed: %v", err)
	}

	// The delete does not cascade into other states' transitions.
	if got := ed.Snapshot().States["start"].OnDone; got != "review" {
		t.Fatalf("expected dangling onDone to survive, got %q", got)
	}

	problems := ed.Integrity()
	if len(problems) != 1 {
		t.Fatalf("expected one integrity problem, got %v", problems)
	}
	p := problems[0]
	if p.Kind != api.ProblemDanglingTransition || p.State != "start" || p.Target != "review" {
		t.Fatalf("unexpected problem: %+v", p)
	}
}

func TestSetField(t *testing.T) {
	ed, _ := loadedEditor(t)
	_ = ed.AddState("review")

	if err := ed.SetField("start", api.FieldOnDone, "review"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if err := ed.SetField("start", api.FieldDescription, "kick things off"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if err := ed.SetField("review", api.FieldType, api.TypeFinal); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	snap := ed.Snapshot()
	start := snap.States["start"]
	if start.OnDone != "review" || start.Description != "kick things off" {
		t.Fatalf("unexpected start state: %+v", start)
	}
	if start.OnError != "" {
		t.Fatalf("SetField must leave other fields untouched, got %+v", start)
	}
	if !snap.States["review"].IsFinal() {
		t.Fatal("expected review to be final")
	}
}

func TestSetFieldAllowsTransientDangling(t *testing.T) {
	ed, _ := loadedEditor(t)

	// Pointing at a state that does not exist yet is allowed at write time.
	if err := ed.SetField("start", api.FieldOnDone, "later"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if n := len(ed.Integrity()); n != 1 {
		t.Fatalf("expected one advisory problem, got %d", n)
	}

	// Adding the target resolves the advisory.
	_ = ed.AddState("later")
	if n := len(ed.Integrity()); n != 0 {
		t.Fatalf("expected no problems, got %d", n)
	}
}

func TestSetFieldErrors(t *testing.T) {
	ed, _ := loadedEditor(t)

	if err := ed.SetField("ghost", api.FieldOnDone, "x"); !errors.Is(err, api.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if err := ed.SetField("start", api.Field("color"), "red"); !errors.Is(err, api.ErrFieldUnknown) {
		t.Fatalf("expected ErrFieldUnknown, got %v", err)
	}
}

func TestSelectUnvalidated(t *testing.T) {
	ed, _ := loadedEditor(t)

	ed.Select("ghost")
	if got := ed.Selected(); got != "ghost" {
		t.Fatalf("expected selection ghost, got %q", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	ed, _ := loadedEditor(t)
	_ = ed.AddState("review")

	snap := ed.Snapshot()

	// Later edits never show up in an earlier snapshot.
	_ = ed.SetField("review", api.FieldDescription, "changed")
	if snap.States["review"].Description != "" {
		t.Fatal("snapshot must be immune to later edits")
	}

	// Mutating a snapshot never reaches the live document.
	snap.States["review"] = api.State{Description: "hacked"}
	if ed.Snapshot().States["review"].Description != "changed" {
		t.Fatal("live document must be immune to snapshot edits")
	}
}

func TestSaveSerializesDocumentOnly(t *testing.T) {
	ed, store := loadedEditor(t)
	_ = ed.AddState("review")
	_ = ed.SetField("start", api.FieldOnDone, "review")

	if err := ed.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if store.lastPut == nil {
		t.Fatal("expected a document to reach the store")
	}
	if store.lastPut.ID != "t1" {
		t.Fatalf("expected payload keyed by t1, got %q", store.lastPut.ID)
	}
	if got := store.lastPut.States["start"].OnDone; got != "review" {
		t.Fatalf("expected payload states.start.onDone = review, got %q", got)
	}
}

func TestSaveFailureKeepsLocalState(t *testing.T) {
	ed, store := loadedEditor(t)
	_ = ed.AddState("review")

	store.mu.Lock()
	store.putErr = errors.New("store down")
	store.mu.Unlock()

	if err := ed.Save(context.Background()); err == nil {
		t.Fatal("expected save error")
	}

	// Local state survives; the editor stays editable and savable.
	if ed.Phase() != api.PhaseLoaded {
		t.Fatalf("expected phase %s, got %s", api.PhaseLoaded, ed.Phase())
	}
	if n := len(ed.Snapshot().States); n != 2 {
		t.Fatalf("expected two states, got %d", n)
	}
	if ed.Saving() {
		t.Fatal("saving flag must be cleared after a failed save")
	}

	store.mu.Lock()
	store.putErr = nil
	store.mu.Unlock()
	if err := ed.Save(context.Background()); err != nil {
		t.Fatalf("retry Save failed: %v", err)
	}
}

func TestSaveRequiresDocument(t *testing.T) {
	ed := New(newFakeStore(), nil)
	if err := ed.Save(context.Background()); !errors.Is(err, api.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}
