package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCapacityReached BookmarkType = "capacity_reached"
	BookmarkContactSurge    BookmarkType = "contact_surge"
	BookmarkOverlapSpike    BookmarkType = "overlap_spike"
	BookmarkSettled         BookmarkType = "settled"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Frame       int64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable windows: the set filling up, bursts of
// contacts or penetration, and the pile coming to rest.
type BookmarkDetector struct {
	capacity int

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	capacityHit   bool
	peakEnergy    float64 // highest kinetic energy seen
	calmWindows   int     // consecutive low-energy windows
	settledMarked bool
}

// NewBookmarkDetector creates a detector with the given history size for a
// set of the given capacity.
func NewBookmarkDetector(historySize, capacity int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		capacity:    capacity,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkCapacity(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkContactSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkOverlapSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

// Reset forgets all history, e.g. after the particle set is cleared.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize, bd.capacity)
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkCapacity(stats WindowStats) *Bookmark {
	if bd.capacityHit || bd.capacity <= 0 || stats.Particles < bd.capacity {
		return nil
	}
	bd.capacityHit = true
	return &Bookmark{
		Type:        BookmarkCapacityReached,
		Frame:       stats.WindowEndFrame,
		Description: fmt.Sprintf("All %d particles spawned after %.1fs", bd.capacity, stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkContactSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Collisions
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := float64(stats.Collisions)
	if current > avg*2.0 && stats.Collisions >= 50 {
		return &Bookmark{
			Type:        BookmarkContactSurge,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("%d contacts is %.1fx average (%.0f)", stats.Collisions, current/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkOverlapSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += float64(h.MaxOverlap)
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := float64(stats.MaxOverlap)
	if current > avg*3.0 && current > 1e-3 {
		return &Bookmark{
			Type:        BookmarkOverlapSpike,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Max overlap %.4f is %.1fx average (%.4f)", current, current/avg, avg),
		}
	}
	return nil
}

// checkSettled fires once when kinetic energy stays under 1% of its recent
// peak for three windows, and re-arms when energy climbs back above 10%.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Particles == 0 {
		bd.calmWindows = 0
		return nil
	}

	ke := stats.KineticEnergy
	if ke > bd.peakEnergy {
		bd.peakEnergy = ke
	}
	if bd.peakEnergy == 0 {
		return nil
	}

	if bd.settledMarked {
		if ke > bd.peakEnergy*0.10 {
			bd.settledMarked = false
			bd.calmWindows = 0
		}
		return nil
	}

	if ke >= bd.peakEnergy*0.01 {
		bd.calmWindows = 0
		return nil
	}

	bd.calmWindows++
	if bd.calmWindows < 3 {
		return nil
	}

	bd.settledMarked = true
	return &Bookmark{
		Type:        BookmarkSettled,
		Frame:       stats.WindowEndFrame,
		Description: fmt.Sprintf("Kinetic energy %.3g settled below 1%% of peak %.3g", ke, bd.peakEnergy),
	}
}
