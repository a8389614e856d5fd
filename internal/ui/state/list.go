package state

// Item is one selectable row in a list screen.
type Item struct {
	ID     string
	Label  string
	Detail string
}

// List encapsulates list screen state such as cursor position, filter, and
// viewport. Items is the visible (filtered) slice; Full is the unfiltered
// source of truth.
type List struct {
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Filtering      bool
	Cursor         int
	ViewportOffset int
}

func NewList(items []Item) *List {
	l := &List{}
	l.SetItems(items)
	return l
}

// SetItems refreshes the list contents, reapplying the active filter and
// keeping the cursor on the previously selected item when it survives.
func (l *List) SetItems(items []Item) {
	var prevID string
	if item, ok := l.Current(); ok {
		prevID = item.ID
	}
	l.Full = cloneItems(items)
	l.applyFilter()
	if prevID != "" {
		if idx := l.IndexOf(prevID); idx >= 0 {
			l.Cursor = idx
		}
	}
	l.clamp()
}

// Current returns the item under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	l.clamp()
}

func (l *List) clamp() {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}

func cloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
