package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// RequestStats shows the running request time and the last request latency.
type RequestStats interface {
	SetRequest(elapsed, last time.Duration, completed int)
}

type requestStats struct {
	elapsedLbl *LabelWidget
	lastLbl    *LabelWidget
	shown      string
}

// NewRequestStats creates the labels at (row, startCol) and (row, startCol+1).
// If parent is nil, labels are positioned relative to the App root.
func NewRequestStats(parent *FrameWidget, row, startCol int) RequestStats {
	s := &requestStats{elapsedLbl: Label(Width(16)), lastLbl: Label(Width(22))}
	if parent != nil {
		Grid(s.elapsedLbl, In(parent), Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
		Grid(s.lastLbl, In(parent), Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	} else {
		Grid(s.elapsedLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
		Grid(s.lastLbl, Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	}
	s.SetRequest(0, 0, 0)
	return s
}

func (s *requestStats) SetRequest(elapsed, last time.Duration, completed int) {
	if s == nil || s.elapsedLbl == nil || s.lastLbl == nil {
		return
	}
	e, l := formatRequest(elapsed, last, completed)
	if e+l == s.shown {
		return
	}
	s.shown = e + l
	s.elapsedLbl.Configure(Txt(e))
	s.lastLbl.Configure(Txt(l))
}

func formatRequest(elapsed, last time.Duration, completed int) (string, string) {
	e := "Request: idle"
	if elapsed > 0 {
		e = fmt.Sprintf("Request: %.1fs", elapsed.Seconds())
	}
	l := "Last: -"
	if completed > 0 {
		l = fmt.Sprintf("Last: %dms (%d done)", last.Milliseconds(), completed)
	}
	return e, l
}
