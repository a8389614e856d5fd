package state

import "github.com/s2-streamstore/s2-tui/internal/s2"

// RecordBuffer holds the most recent records of a read session, bounded by a
// fixed capacity. When full, appending evicts from the front; the cursor and
// viewport shift up so they keep pointing at the same rows.
type RecordBuffer struct {
	capacity       int
	records        []s2.SequencedRecord
	Cursor         int
	ViewportOffset int
}

func NewRecordBuffer(capacity int) *RecordBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RecordBuffer{capacity: capacity}
}

// Push appends a record, evicting the oldest when the buffer is full.
// follow keeps the cursor glued to the newest record; it only applies when
// the cursor already sat on the last row, so manual scrollback sticks.
func (b *RecordBuffer) Push(rec s2.SequencedRecord, follow bool) {
	atEnd := len(b.records) == 0 || b.Cursor == len(b.records)-1
	b.records = append(b.records, rec)
	if evicted := len(b.records) - b.capacity; evicted > 0 {
		copy(b.records, b.records[evicted:])
		b.records = b.records[:b.capacity]
		b.Cursor -= evicted
		if b.Cursor < 0 {
			b.Cursor = 0
		}
		b.ViewportOffset -= evicted
		if b.ViewportOffset < 0 {
			b.ViewportOffset = 0
		}
	}
	if follow && atEnd {
		b.Cursor = len(b.records) - 1
	}
}

func (b *RecordBuffer) Len() int {
	return len(b.records)
}

func (b *RecordBuffer) At(i int) (s2.SequencedRecord, bool) {
	if i < 0 || i >= len(b.records) {
		return s2.SequencedRecord{}, false
	}
	return b.records[i], true
}

// Current returns the record under the cursor.
func (b *RecordBuffer) Current() (s2.SequencedRecord, bool) {
	return b.At(b.Cursor)
}

// Records exposes the buffered records oldest first. The slice is owned by
// the buffer; callers must not mutate it.
func (b *RecordBuffer) Records() []s2.SequencedRecord {
	return b.records
}

func (b *RecordBuffer) Clear() {
	b.records = b.records[:0]
	b.Cursor = 0
	b.ViewportOffset = 0
}

func (b *RecordBuffer) MoveCursorUp() bool {
	if b.Cursor <= 0 {
		return false
	}
	b.Cursor--
	return true
}

func (b *RecordBuffer) MoveCursorDown() bool {
	if b.Cursor >= len(b.records)-1 {
		return false
	}
	b.Cursor++
	return true
}

func (b *RecordBuffer) MoveCursorHome() bool {
	if len(b.records) == 0 || b.Cursor == 0 {
		return false
	}
	b.Cursor = 0
	return true
}

func (b *RecordBuffer) MoveCursorEnd() bool {
	n := len(b.records)
	if n == 0 || b.Cursor == n-1 {
		return false
	}
	b.Cursor = n - 1
	return true
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays
// visible within maxVisible rows.
func (b *RecordBuffer) EnsureCursorVisible(maxVisible int) {
	if len(b.records) == 0 {
		b.Cursor = 0
		b.ViewportOffset = 0
		return
	}
	if b.Cursor >= len(b.records) {
		b.Cursor = len(b.records) - 1
	}
	if maxVisible <= 0 {
		b.ViewportOffset = 0
		return
	}
	maxOffset := len(b.records) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if b.ViewportOffset > maxOffset {
		b.ViewportOffset = maxOffset
	}
	if b.ViewportOffset < 0 {
		b.ViewportOffset = 0
	}
	if b.Cursor < b.ViewportOffset {
		b.ViewportOffset = b.Cursor
	}
	if upper := b.ViewportOffset + maxVisible - 1; b.Cursor > upper {
		b.ViewportOffset = b.Cursor - maxVisible + 1
		if b.ViewportOffset > maxOffset {
			b.ViewportOffset = maxOffset
		}
	}
}
