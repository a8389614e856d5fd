package state

import "testing"

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func itemsFrom(labels ...string) []Item {
	items := make([]Item, len(labels))
	for i, label := range labels {
		items[i] = Item{ID: label, Label: label}
	}
	return items
}

func TestCursorClampedAfterShrink(t *testing.T) {
	l := NewList(itemsFrom("a", "b", "c", "d"))
	l.Cursor = 3
	l.SetItems(itemsFrom("a", "b"))
	if l.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", l.Cursor)
	}
	l.SetItems(nil)
	if l.Cursor != 0 {
		t.Fatalf("cursor on empty list = %d, want 0", l.Cursor)
	}
}

func TestCursorFollowsSurvivingItem(t *testing.T) {
	l := NewList(itemsFrom("a", "b", "c"))
	l.Cursor = 1
	l.SetItems(itemsFrom("x", "a", "b", "c"))
	if l.Cursor != 2 {
		t.Fatalf("cursor = %d, want 2 (still on b)", l.Cursor)
	}
}

func TestFilterEditResetsSelection(t *testing.T) {
	l := NewList(itemsFrom("alpha", "beta", "gamma"))
	l.Cursor = 2
	l.InsertFilterText("b")
	if l.Cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after filter edit", l.Cursor)
	}
	if got := names(l.Items); len(got) != 1 || got[0] != "beta" {
		t.Fatalf("visible = %v, want [beta]", got)
	}
}

func TestFilterSubstringFallback(t *testing.T) {
	got := FilterItems(itemsFrom("a", "b", "c"), "b")
	if len(got) != 1 || got[0].Label != "b" {
		t.Fatalf("filtered = %v, want [b]", names(got))
	}
	none := FilterItems(itemsFrom("a", "b"), "zz")
	if len(none) != 0 {
		t.Fatalf("filtered = %v, want empty", names(none))
	}
}

func TestClearFilterRestoresFullList(t *testing.T) {
	l := NewList(itemsFrom("alpha", "beta"))
	l.Filtering = true
	l.InsertFilterText("beta")
	l.ClearFilter()
	if l.Filtering {
		t.Error("Filtering still set after clear")
	}
	if len(l.Items) != 2 {
		t.Fatalf("visible = %v, want full list", names(l.Items))
	}
	if l.Cursor != 0 {
		t.Fatalf("cursor = %d, want 0", l.Cursor)
	}
}

func TestFilterCursorEditing(t *testing.T) {
	l := NewList(itemsFrom("alpha"))
	l.InsertFilterText("ab")
	l.MoveFilterCursorRuneBackward()
	l.InsertFilterText("l")
	if l.Filter != "alb" {
		t.Fatalf("filter = %q, want alb", l.Filter)
	}
	l.DeleteFilterRuneBackward()
	if l.Filter != "ab" {
		t.Fatalf("filter = %q, want ab", l.Filter)
	}
	l.MoveFilterCursorEnd()
	l.DeleteFilterWordBackward()
	if l.Filter != "" {
		t.Fatalf("filter = %q, want empty", l.Filter)
	}
}

func TestCursorMovement(t *testing.T) {
	l := NewList(itemsFrom("a", "b", "c", "d", "e"))
	if !l.MoveCursorDown() || l.Cursor != 1 {
		t.Fatalf("cursor = %d after down", l.Cursor)
	}
	l.MoveCursorEnd()
	if l.Cursor != 4 {
		t.Fatalf("cursor = %d after end", l.Cursor)
	}
	if l.MoveCursorDown() {
		t.Error("down at end reported movement")
	}
	l.MoveCursorHome()
	if l.Cursor != 0 {
		t.Fatalf("cursor = %d after home", l.Cursor)
	}
	if l.MoveCursorUp() {
		t.Error("up at home reported movement")
	}
	l.MoveCursorPageDown(2)
	if l.Cursor != 2 {
		t.Fatalf("cursor = %d after page down", l.Cursor)
	}
}

func TestEnsureCursorVisible(t *testing.T) {
	l := NewList(itemsFrom("a", "b", "c", "d", "e", "f"))
	l.Cursor = 5
	l.EnsureCursorVisible(3)
	if l.ViewportOffset != 3 {
		t.Fatalf("offset = %d, want 3", l.ViewportOffset)
	}
	l.Cursor = 0
	l.EnsureCursorVisible(3)
	if l.ViewportOffset != 0 {
		t.Fatalf("offset = %d, want 0", l.ViewportOffset)
	}
}
