package table

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is how long search input must stay unchanged before it
// becomes the effective search text.
const DefaultDebounce = 300 * time.Millisecond

// DebounceMsg fires after the debounce delay. Only the message carrying the
// latest sequence number settles the input.
type DebounceMsg struct {
	TableID string
	Seq     int
}

// Debouncer coalesces rapid search input into a single settled value.
type Debouncer struct {
	tableID string
	delay   time.Duration
	seq     int
	pending string
}

// NewDebouncer creates a debouncer for one table.
func NewDebouncer(tableID string, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{tableID: tableID, delay: delay}
}

// Input records raw text and schedules a settle check after the delay.
func (d *Debouncer) Input(text string) tea.Cmd {
	d.seq++
	d.pending = text
	msg := DebounceMsg{TableID: d.tableID, Seq: d.seq}
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return msg
	})
}

// Settle returns the pending text if msg is the most recent tick for this
// table. Earlier ticks are ignored.
func (d *Debouncer) Settle(msg DebounceMsg) (string, bool) {
	if msg.TableID != d.tableID || msg.Seq != d.seq {
		return "", false
	}
	return d.pending, true
}

// Pending is the raw, not yet settled, input.
func (d *Debouncer) Pending() string {
	return d.pending
}

// Seq is the sequence number of the latest input.
func (d *Debouncer) Seq() int {
	return d.seq
}

// Delay is the configured debounce interval.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
