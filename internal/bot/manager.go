package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/selivandex/stockspan/internal/adapters/market"
	"github.com/selivandex/stockspan/internal/indicators"
	"github.com/selivandex/stockspan/internal/pipeline"
	"github.com/selivandex/stockspan/internal/query"
	"github.com/selivandex/stockspan/pkg/logger"
	"github.com/selivandex/stockspan/pkg/metrics"
	"github.com/selivandex/stockspan/pkg/models"
	"github.com/selivandex/stockspan/pkg/templates"
)

// ErrNoSnapshot is returned by operations that need loaded data
var ErrNoSnapshot = errors.New("no analysis snapshot loaded")

// Options configures a Manager
type Options struct {
	Symbol  string
	Windows []int
	Seed    int64 // 0 seeds from the clock
	History int   // turns kept per chat
	Metrics *metrics.Metrics
}

// Manager owns the latest analysis snapshot and answers questions against it.
// Loads build a complete result first and publish it with a single pointer swap.
type Manager struct {
	symbol  string
	windows []int
	history int

	current atomic.Pointer[models.AnalysisResult]

	mu  sync.Mutex // guards rng, which feeds sentiment noise
	rng *rand.Rand

	router    *query.Router
	calc      *indicators.Calculator
	templates *templates.Manager
	metrics   *metrics.Metrics

	convMu        sync.Mutex
	conversations map[int64]*Conversation
}

// NewManager creates a manager with no snapshot loaded
func NewManager(opts Options) (*Manager, error) {
	windows := opts.Windows
	if len(windows) == 0 {
		windows = pipeline.DefaultWindows
	}
	windows, err := indicators.NormalizeWindows(windows)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	tmpl, err := templates.NewDefaultManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	m := opts.Metrics
	if m == nil {
		m = metrics.NewMetrics(nil)
	}

	symbol := opts.Symbol
	if symbol == "" {
		symbol = "STOCK"
	}

	return &Manager{
		symbol:        symbol,
		windows:       windows,
		history:       opts.History,
		rng:           rand.New(rand.NewSource(seed)),
		router:        query.NewRouter(rand.New(rand.NewSource(seed + 1))),
		calc:          indicators.NewCalculator(),
		templates:     tmpl,
		metrics:       m,
		conversations: make(map[int64]*Conversation),
	}, nil
}

// Float64 implements sentiment.Source over the manager's locked generator
func (m *Manager) Float64() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64()
}

// Load runs the pipeline over series and publishes the result
func (m *Manager) Load(ctx context.Context, series []models.PricePoint) (*models.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := pipeline.RunWithOptions(series, m, pipeline.Options{
		Symbol:  m.symbol,
		Windows: m.windows,
	})
	m.metrics.PipelineDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		m.metrics.PipelineRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}
	m.metrics.PipelineRuns.WithLabelValues("ok").Inc()

	m.current.Store(result)

	m.metrics.SeriesPoints.Set(float64(len(result.Series)))
	m.metrics.Correlation.Set(result.Correlation)
	m.metrics.LastLoadTimestamp.Set(float64(result.GeneratedAt.Unix()))

	logger.Info("analysis snapshot loaded",
		zap.String("run_id", result.RunID.String()),
		zap.String("symbol", m.symbol),
		zap.Int("points", len(result.Series)),
		zap.Float64("correlation", result.Correlation),
	)

	return result, nil
}

// LoadFile ingests a CSV and loads it
func (m *Manager) LoadFile(ctx context.Context, path string) (*models.AnalysisResult, error) {
	series, report, err := market.LoadFile(path)
	m.metrics.DroppedRows.Add(float64(report.Dropped))
	if err != nil {
		return nil, err
	}
	return m.Load(ctx, series)
}

// Snapshot returns the current result, or nil before the first load
func (m *Manager) Snapshot() *models.AnalysisResult {
	return m.current.Load()
}

// Ready reports whether a snapshot has been loaded
func (m *Manager) Ready() bool {
	return m.current.Load() != nil
}

// Answer replies to text from chatID using the snapshot current at call time
// and records both turns in that chat's conversation.
func (m *Manager) Answer(chatID int64, text string) string {
	intent, reply := m.router.Route(text, m.current.Load())
	m.metrics.QueriesTotal.WithLabelValues(string(intent)).Inc()

	now := time.Now()
	conv := m.Conversation(chatID)
	conv.Append(models.NewChatTurn(models.SpeakerUser, text, now))
	conv.Append(models.NewChatTurn(models.SpeakerSystem, reply, now))

	logger.Debug("query answered",
		zap.Int64("chat_id", chatID),
		zap.String("intent", string(intent)),
	)

	return reply
}

// Conversation returns the log for chatID, creating it on first use
func (m *Manager) Conversation(chatID int64) *Conversation {
	m.convMu.Lock()
	defer m.convMu.Unlock()

	conv, ok := m.conversations[chatID]
	if !ok {
		conv = NewConversation(m.history)
		m.conversations[chatID] = conv
	}
	return conv
}

// WindowAverage is one moving average line in the summary
type WindowAverage struct {
	Window int
	Value  float64
}

// SummaryData is rendered by the summary template
type SummaryData struct {
	Symbol      string
	Points      int
	First       time.Time
	Last        time.Time
	Close       float64
	Span        int
	Averages    []WindowAverage
	Indicators  indicators.Snapshot
	Trend       *models.SentimentTrend
	Correlation float64
	RunID       uuid.UUID
	GeneratedAt time.Time
}

// Summary renders an overview of the current snapshot
func (m *Manager) Summary() (string, error) {
	result := m.current.Load()
	if result.Empty() {
		return "", ErrNoSnapshot
	}

	latest, _ := result.Latest()
	data := SummaryData{
		Symbol:      result.Symbol,
		Points:      len(result.Series),
		First:       result.Series[0].Date,
		Last:        latest.Date,
		Close:       latest.Close,
		Span:        latest.Span,
		Indicators:  m.calc.Calculate(result.Series),
		Trend:       models.GetSentimentTrend(result.Sentiment),
		Correlation: result.Correlation,
		RunID:       result.RunID,
		GeneratedAt: result.GeneratedAt,
	}

	if avg, ok := result.LatestAverages(); ok {
		for w, v := range avg.Averages {
			data.Averages = append(data.Averages, WindowAverage{Window: w, Value: v})
		}
		sort.Slice(data.Averages, func(i, j int) bool {
			return data.Averages[i].Window < data.Averages[j].Window
		})
	}

	return m.templates.ExecuteTemplate("summary.tmpl", data)
}

// Welcome renders the greeting for new chats
func (m *Manager) Welcome() (string, error) {
	return m.templates.ExecuteTemplate("welcome.tmpl", struct{ Symbol string }{m.symbol})
}

// Help renders the command reference
func (m *Manager) Help() (string, error) {
	return m.templates.ExecuteTemplate("help.tmpl", nil)
}
