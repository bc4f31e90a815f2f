package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSurvivalBreakthrough BookmarkType = "survival_breakthrough"
	BookmarkPopulationCrash      BookmarkType = "population_crash"
	BookmarkStableSurvival       BookmarkType = "stable_survival"
)

// Bookmark represents an automatically detected moment worth flagging in a
// run's log or timeline.
type Bookmark struct {
	Type        BookmarkType
	Generation  int
	Description string
}

// LogBookmark logs the bookmark via slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

const (
	survivalBreakthroughMultiplier = 2.0
	survivalBreakthroughMinRate    = 0.05

	populationCrashDropFraction = 0.3
	populationCrashMinDrop      = 10

	stableSurvivalCVThreshold = 0.01
	stableSurvivalWindows     = 5
)

// BookmarkDetector watches the rolling history of generation stats for
// survival-rate breakthroughs, population crashes, and stretches of stable
// survival.
type BookmarkDetector struct {
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPopPeak     int
	stableWindowCount int
}

// NewBookmarkDetector creates a detector with the given rolling history
// size, clamped to a minimum of 5 (the stable-survival window width).
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest generation stats against the rolling history
// and returns any bookmarks triggered by it.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkSurvivalBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableSurvival(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Population > bd.recentPopPeak {
		bd.recentPopPeak = stats.Population
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkSurvivalBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SurvivalRate
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.SurvivalRate > avg*survivalBreakthroughMultiplier && stats.SurvivalRate >= survivalBreakthroughMinRate {
		return &Bookmark{
			Type:       BookmarkSurvivalBreakthrough,
			Generation: stats.Generation,
			Description: fmt.Sprintf("survival rate %.3f is %.1fx the rolling average (%.3f)",
				stats.SurvivalRate, stats.SurvivalRate/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats GenerationStats) *Bookmark {
	if bd.recentPopPeak == 0 {
		return nil
	}

	dropFraction := 1.0 - float64(stats.Population)/float64(bd.recentPopPeak)
	if dropFraction > populationCrashDropFraction && stats.Population < bd.recentPopPeak-populationCrashMinDrop {
		oldPeak := bd.recentPopPeak
		bd.recentPopPeak = stats.Population
		return &Bookmark{
			Type:       BookmarkPopulationCrash,
			Generation: stats.Generation,
			Description: fmt.Sprintf("population crashed %.0f%% from peak %d to %d",
				dropFraction*100, oldPeak, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableSurvival(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < stableSurvivalWindows-1 {
		return nil
	}

	window := append(append([]GenerationStats{}, history[len(history)-(stableSurvivalWindows-1):]...), stats)

	var sum float64
	for _, h := range window {
		sum += h.SurvivalRate
	}
	mean := sum / float64(len(window))

	var variance float64
	for _, h := range window {
		d := h.SurvivalRate - mean
		variance += d * d
	}
	variance /= float64(len(window))

	cv := 0.0
	if mean > 0 {
		cv = variance / (mean * mean)
	}

	if cv < stableSurvivalCVThreshold && mean > 0 {
		bd.stableWindowCount++
	} else {
		bd.stableWindowCount = 0
	}

	if bd.stableWindowCount == stableSurvivalWindows {
		return &Bookmark{
			Type:       BookmarkStableSurvival,
			Generation: stats.Generation,
			Description: fmt.Sprintf("survival rate stable near %.3f over %d+ generations",
				mean, stableSurvivalWindows),
		}
	}
	return nil
}
