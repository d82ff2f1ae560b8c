package common

import (
	"fmt"
	"strings"
	"time"
)

// Timing records elapsed time between consecutive marks.
// A pipeline calls Begin() once, Mark() after each step and End() when finished.
type Timing struct {
	marks  []time.Time
	labels []string
	ended  bool
}

func NewTiming() *Timing {
	return &Timing{
		marks:  make([]time.Time, 0, 8),
		labels: make([]string, 0, 8),
	}
}

func (t *Timing) Begin() {
	if len(t.marks) == 0 {
		t.marks = append(t.marks, time.Now())
	}
}

// Mark closes the current step and names it.
func (t *Timing) Mark(label string) {
	if len(t.marks) == 0 || t.ended {
		return
	}
	t.marks = append(t.marks, time.Now())
	t.labels = append(t.labels, label)
}

func (t *Timing) End() {
	if len(t.marks) > 0 && !t.ended {
		t.Mark("")
		t.ended = true
	}
}

// Total returns the time elapsed from Begin() to the last mark.
func (t *Timing) Total() time.Duration {
	if len(t.marks) < 2 {
		return 0
	}
	return t.marks[len(t.marks)-1].Sub(t.marks[0])
}

func (t *Timing) String() string {
	parts := make([]string, 0, len(t.labels))
	for i, label := range t.labels {
		d := t.marks[i+1].Sub(t.marks[i])
		if label == "" {
			if d > 0 {
				parts = append(parts, fmt.Sprintf("%v", d))
			}
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", label, d))
	}
	return fmt.Sprintf("%v(%s)", t.Total(), strings.Join(parts, "|"))
}
