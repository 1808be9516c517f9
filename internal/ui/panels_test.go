package ui

import (
	"testing"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/library"
	"github.com/yildizm/skeincare/internal/reconcile"
	"github.com/yildizm/skeincare/internal/view"
)

func TestPanelSet_Lifecycle(t *testing.T) {
	s := NewPanelSet()

	h1, _ := s.Create(&catalog.Skein{Brand: "dmc", SKU: "310"}, 3)
	h2, _ := s.Create(&catalog.Skein{Brand: "dmc", SKU: "311"}, 0)
	if len(s.Visible()) != 0 {
		t.Fatal("New panels must start hidden")
	}

	for _, h := range []reconcile.Handle{h1, h2} {
		if err := s.Show(h); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Reorder([]reconcile.Handle{h2, h1}); err != nil {
		t.Fatal(err)
	}
	visible := s.Visible()
	if len(visible) != 2 || visible[0].Key().SKU != "311" || visible[1].Key().SKU != "310" {
		t.Fatalf("Unexpected order %v", visible)
	}

	if err := s.UpdateCount(h1, 7); err != nil || visible[1].Count() != 7 {
		t.Errorf("Expected count 7, got %d (%v)", visible[1].Count(), err)
	}

	if err := s.Hide(h2); err != nil {
		t.Fatal(err)
	}
	if got := s.Visible(); len(got) != 1 || got[0].Key().SKU != "310" {
		t.Errorf("Expected only 310 visible, got %v", got)
	}

	if err := s.Destroy(h1); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 || len(s.Visible()) != 0 {
		t.Errorf("Expected one hidden panel left, got %d panels", s.Len())
	}
}

func TestPanelSet_RejectsForeignHandles(t *testing.T) {
	s := NewPanelSet()
	h, _ := s.Create(&catalog.Skein{Brand: "dmc", SKU: "310"}, 0)
	if err := s.Destroy(h); err != nil {
		t.Fatal(err)
	}

	if err := s.Show(h); err == nil {
		t.Error("Expected an error for a destroyed panel")
	}
	if err := s.UpdateCount("not a panel", 1); err == nil {
		t.Error("Expected an error for a foreign handle")
	}
	if err := s.Reorder([]reconcile.Handle{h}); err == nil {
		t.Error("Expected Reorder to reject a destroyed panel")
	}
}

func TestPanelSet_DrivenByReconciler(t *testing.T) {
	s := NewPanelSet()
	r := reconcile.New(s)

	cat := catalog.New()
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "310", Name: "Black"})
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "311", Name: "White"})
	lib := library.New()
	lib.SetCount("dmc", "310", 3)

	if _, err := r.Apply(view.Project(cat, lib, view.State{ShowAll: false, Sort: view.SortCount})); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || len(s.Visible()) != 1 {
		t.Fatalf("Expected 2 panels with 1 visible, got %d/%d", s.Len(), len(s.Visible()))
	}

	if _, err := r.Apply(view.Project(cat, lib, view.State{ShowAll: true, Sort: view.SortName})); err != nil {
		t.Fatal(err)
	}
	visible := s.Visible()
	if len(visible) != 2 || visible[0].Skein().Name != "Black" || visible[1].Skein().Name != "White" {
		t.Errorf("Expected Black then White, got %v", visible)
	}
	if s.Len() != 2 {
		t.Errorf("Showing more skeins must not create panels, got %d", s.Len())
	}
}
