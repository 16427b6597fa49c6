package query

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/selivandex/stockspan/pkg/models"
)

// DefaultAverageWindow is used when a moving average query names no window
const DefaultAverageWindow = 10

// NoDataMessage is returned for data questions before any series is loaded
const NoDataMessage = "📭 No price data is loaded yet. Load a CSV with Date,Open,High,Low,Close,Volume columns and ask again."

// GuidanceMessages are the fixed replies for queries no route understands
var GuidanceMessages = []string{
	"🤔 I can answer questions about moving averages, price spans, the latest price, the trend, highs and lows, or give a buy/sell view. Try \"what's the 10 day average?\"",
	"💡 Try asking \"what is the current price?\", \"what's the span?\" or \"should I buy or sell?\"",
	"❓ I didn't catch that. Ask about the trend, the highest or lowest price, or a moving average like \"20 day sma\".",
	"📖 Questions I understand: price, span, trend, moving average, recommendation, high, low.",
}

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	Intn(n int) int
}

type handlerFunc func(query string, result *models.AnalysisResult) string

// route pairs an intent with its matcher; routes are tried in slice order
type route struct {
	intent models.Intent
	match  func(query string) bool
	handle handlerFunc
}

var (
	averagePattern        = regexp.MustCompile(`\b(moving average|average|avg|sma|ma\d*)\b`)
	spanPattern           = regexp.MustCompile(`\b(span|streak|consecutive)\b`)
	pricePattern          = regexp.MustCompile(`\b(price|close|closing|quote|worth|cost)\b`)
	trendPattern          = regexp.MustCompile(`\b(trend|trending|direction|outlook|bullish|bearish)\b`)
	recommendationPattern = regexp.MustCompile(`\b(buy|sell|recommend|recommendation|should i|invest|advice|hold)\b`)
	highPattern           = regexp.MustCompile(`\b(high|highest|peak|max|maximum|top)\b`)
	lowPattern            = regexp.MustCompile(`\b(low|lowest|bottom|min|minimum)\b`)
	numberPattern         = regexp.MustCompile(`\d+`)
)

// Router classifies free-text questions and answers them from an analysis snapshot.
// It keeps no conversation state; the snapshot is passed to every call.
type Router struct {
	routes []route

	mu      sync.Mutex // guards chooser
	chooser Chooser
}

// NewRouter creates a router. A nil chooser always picks the first guidance message.
func NewRouter(chooser Chooser) *Router {
	return &Router{
		chooser: chooser,
		routes: []route{
			{models.IntentMovingAverage, averagePattern.MatchString, answerMovingAverage},
			{models.IntentSpan, spanPattern.MatchString, answerSpan},
			{models.IntentPrice, matchPrice, answerPrice},
			{models.IntentTrend, trendPattern.MatchString, answerTrend},
			{models.IntentRecommendation, recommendationPattern.MatchString, answerRecommendation},
			{models.IntentHigh, highPattern.MatchString, answerHigh},
			{models.IntentLow, lowPattern.MatchString, answerLow},
		},
	}
}

// matchPrice leaves "highest price" and "lowest close" to the extreme routes
func matchPrice(query string) bool {
	if highPattern.MatchString(query) || lowPattern.MatchString(query) {
		return false
	}
	return pricePattern.MatchString(query)
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Classify returns the first intent whose matcher accepts the query
func (r *Router) Classify(query string) models.Intent {
	q := normalize(query)
	for _, rt := range r.routes {
		if rt.match(q) {
			return rt.intent
		}
	}
	return models.IntentUnrecognized
}

// Answer returns a non-empty reply to query based on result
func (r *Router) Answer(query string, result *models.AnalysisResult) string {
	_, reply := r.Route(query, result)
	return reply
}

// Route classifies and answers in one pass, returning the matched intent
func (r *Router) Route(query string, result *models.AnalysisResult) (models.Intent, string) {
	q := normalize(query)

	for _, rt := range r.routes {
		if !rt.match(q) {
			continue
		}
		if result.Empty() {
			return rt.intent, NoDataMessage
		}
		return rt.intent, rt.handle(q, result)
	}

	return models.IntentUnrecognized, r.guidance()
}

func (r *Router) guidance() string {
	if r.chooser == nil {
		return GuidanceMessages[0]
	}

	r.mu.Lock()
	idx := r.chooser.Intn(len(GuidanceMessages))
	r.mu.Unlock()

	if idx < 0 || idx >= len(GuidanceMessages) {
		idx = 0
	}
	return GuidanceMessages[idx]
}

// requestedWindow extracts the first integer in the query
func requestedWindow(query string) int {
	m := numberPattern.FindString(query)
	if m == "" {
		return DefaultAverageWindow
	}

	w, err := strconv.Atoi(m)
	if err != nil || w <= 0 {
		return DefaultAverageWindow
	}
	return w
}
