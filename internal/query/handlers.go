package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/selivandex/stockspan/pkg/models"
)

// Span momentum thresholds
const (
	strongSpan   = 10
	moderateSpan = 5
	weakSpan     = 2
)

// Trend needs this many closes, giving trendWindow-1 deltas
const trendWindow = 5

// Recommendation thresholds
const (
	recommendationWindow = 10
	bullishSpan          = 7
	bearishSpan          = 2
)

func answerMovingAverage(query string, result *models.AnalysisResult) string {
	latest, ok := result.LatestAverages()
	if !ok || len(latest.Averages) == 0 {
		return "⚠️ No moving averages have been computed for the loaded data."
	}

	window := requestedWindow(query)
	if avg, ok := latest.Averages[window]; ok {
		return fmt.Sprintf("📊 The %d-day moving average is %s (as of %s).",
			window, money(avg), day(latest.Date))
	}

	windows := make([]int, 0, len(latest.Averages))
	for w := range latest.Averages {
		windows = append(windows, w)
	}
	sort.Ints(windows)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 No %d-day average is configured. Latest moving averages (as of %s):", window, day(latest.Date))
	for _, w := range windows {
		fmt.Fprintf(&b, "\n• %d-day: %s", w, money(latest.Averages[w]))
	}
	return b.String()
}

func answerSpan(_ string, result *models.AnalysisResult) string {
	latest, _ := result.Latest()
	span := latest.Span

	var note string
	switch {
	case span > strongSpan:
		note = "🚀 Strong bullish momentum: the close is at or above every close in that run."
	case span > moderateSpan:
		note = "📈 Moderate bullish momentum."
	case span <= weakSpan:
		note = "📉 Bearish pressure or consolidation: the price is not holding above recent closes."
	default:
		note = "➖ Neutral momentum."
	}

	return fmt.Sprintf("The current price span is %d %s (as of %s).\n%s",
		span, plural(span, "day", "days"), day(latest.Date), note)
}

func answerPrice(_ string, result *models.AnalysisResult) string {
	latest, _ := result.Latest()
	reply := fmt.Sprintf("💵 The latest close is %s (as of %s).", money(latest.Close), day(latest.Date))

	if len(result.Series) < 2 {
		return reply
	}

	prev := result.Series[len(result.Series)-2]
	delta, pct := change(prev.Close, latest.Close)
	return reply + fmt.Sprintf("\n%s %s (%s) from the previous close of %s.",
		marker(delta), signedMoney(delta), percent(pct), money(prev.Close))
}

func answerTrend(_ string, result *models.AnalysisResult) string {
	n := len(result.Series)
	if n < trendWindow {
		return fmt.Sprintf("⏳ I need at least %d days of data to judge the trend; only %d loaded.", trendWindow, n)
	}

	recent := result.Series[n-trendWindow:]
	up, down := 0, 0
	for i := 1; i < len(recent); i++ {
		switch delta := recent[i].Close - recent[i-1].Close; {
		case delta > 0:
			up++
		case delta < 0:
			down++
		}
	}

	deltas := trendWindow - 1
	var label, mark string
	switch {
	case up >= 3:
		label, mark = "bullish uptrend", markerUp
	case down >= 3:
		label, mark = "bearish downtrend", markerDown
	default:
		label, mark = "sideways consolidation", markerFlat
	}

	span := recent[len(recent)-1].Span
	qualifier := "with limited momentum"
	if span > moderateSpan {
		qualifier = "with strong momentum"
	}

	return fmt.Sprintf("%s Over the last %d days the stock is in a %s (%d of %d sessions up, %d down), %s (span %d).",
		mark, trendWindow, label, up, deltas, down, qualifier, span)
}

type signal struct {
	bullish bool
	text    string
}

func answerRecommendation(_ string, result *models.AnalysisResult) string {
	latestAvg, ok := result.LatestAverages()
	if result.Empty() || !ok {
		return "⚠️ I need loaded prices and moving averages before I can make a recommendation."
	}
	latest, _ := result.Latest()

	var signals []signal
	if ma, ok := latestAvg.Averages[recommendationWindow]; ok {
		switch {
		case latest.Close > ma:
			signals = append(signals, signal{true, fmt.Sprintf("Close %s is above the %d-day average %s",
				money(latest.Close), recommendationWindow, money(ma))})
		case latest.Close < ma:
			signals = append(signals, signal{false, fmt.Sprintf("Close %s is below the %d-day average %s",
				money(latest.Close), recommendationWindow, money(ma))})
		}
	}

	switch {
	case latest.Span > bullishSpan:
		signals = append(signals, signal{true, fmt.Sprintf("Span of %d days shows sustained strength", latest.Span)})
	case latest.Span <= bearishSpan:
		signals = append(signals, signal{false, fmt.Sprintf("Span of %d %s shows weak support",
			latest.Span, plural(latest.Span, "day", "days"))})
	}

	bullish, bearish := 0, 0
	for _, s := range signals {
		if s.bullish {
			bullish++
		} else {
			bearish++
		}
	}

	var rec models.Recommendation
	var icon, rationale string
	switch {
	case bullish > bearish:
		rec, icon = models.RecommendBuy, "🟢"
		rationale = fmt.Sprintf("Bullish signals outweigh bearish ones (%d vs %d).", bullish, bearish)
	case bearish > bullish:
		rec, icon = models.RecommendSell, "🔴"
		rationale = fmt.Sprintf("Bearish signals outweigh bullish ones (%d vs %d).", bearish, bullish)
	default:
		rec, icon = models.RecommendHold, "🟡"
		rationale = fmt.Sprintf("Signals are balanced (%d vs %d); wait for a clearer setup.", bullish, bearish)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Recommendation: %s\n%s\nSignals:", icon, rec, rationale)
	if len(signals) == 0 {
		b.WriteString("\n• none")
	}
	for _, s := range signals {
		mark := "✅"
		if !s.bullish {
			mark = "⚠️"
		}
		fmt.Fprintf(&b, "\n• %s %s", mark, s.text)
	}
	b.WriteString("\n\nThis is an automated technical reading, not financial advice.")

	return b.String()
}

func answerHigh(_ string, result *models.AnalysisResult) string {
	best := result.Series[0]
	for _, p := range result.Series[1:] {
		if p.High > best.High {
			best = p
		}
	}
	return fmt.Sprintf("%s The highest price was %s on %s.", markerUp, money(best.High), day(best.Date))
}

func answerLow(_ string, result *models.AnalysisResult) string {
	best := result.Series[0]
	for _, p := range result.Series[1:] {
		if p.Low < best.Low {
			best = p
		}
	}
	return fmt.Sprintf("%s The lowest price was %s on %s.", markerDown, money(best.Low), day(best.Date))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
