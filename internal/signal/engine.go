package signal

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"mnav-tracker/internal/provider"
	"mnav-tracker/internal/ta"

	"go.opentelemetry.io/otel/trace"
)

// Tendency is one indicator's lean.
type Tendency string

const (
	Bullish         Tendency = "bullish"
	SlightlyBullish Tendency = "slightly_bullish"
	Neutral         Tendency = "neutral"
	SlightlyBearish Tendency = "slightly_bearish"
	Bearish         Tendency = "bearish"
)

// Signal is the composite verdict.
type Signal string

const (
	StrongLong  Signal = "STRONG_LONG"
	Long        Signal = "LONG"
	SignalNone  Signal = "NEUTRAL"
	Short       Signal = "SHORT"
	StrongShort Signal = "STRONG_SHORT"
)

// Indicator is one scored input to the composite.
type Indicator struct {
	Name        string   `json:"name"`
	Value       float64  `json:"value"`
	Tendency    Tendency `json:"signal"`
	Weight      float64  `json:"-"`
	Description string   `json:"description"`
}

// Report is the full signal response.
type Report struct {
	Signal         Signal      `json:"signal"`
	Score          float64     `json:"score"`
	Confidence     float64     `json:"confidence"`
	CurrentMNAV    float64     `json:"current_mnav"`
	Leading        []Indicator `json:"leading_indicators"`
	Lagging        []Indicator `json:"lagging_indicators"`
	Recommendation string      `json:"recommendation"`
	Timestamp      time.Time   `json:"timestamp"`
}

// BitcoinHistory provides daily closing prices, oldest first.
type BitcoinHistory interface {
	BitcoinPriceHistory(ctx context.Context, days int) ([]float64, error)
}

// SentimentSource provides the crypto fear and greed index.
type SentimentSource interface {
	FetchLatest(ctx context.Context) (*provider.FearGreedPoint, error)
}

var momentumPeriods = []int{1, 7, 30}

// Engine combines leading indicators (Bitcoin momentum, sentiment) with
// lagging ones (mNAV moving averages, RSI, premium zone) into a weighted
// composite score on a -10..+10 scale.
type Engine struct {
	tracer    trace.Tracer
	prices    BitcoinHistory
	sentiment SentimentSource
	history   *History
	now       func() time.Time
}

func NewEngine(tracer trace.Tracer, prices BitcoinHistory, sentiment SentimentSource, history *History) *Engine {
	return &Engine{
		tracer:    tracer,
		prices:    prices,
		sentiment: sentiment,
		history:   history,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record feeds an mNAV observation into the lagging-indicator history.
func (e *Engine) Record(t time.Time, value float64) {
	e.history.Add(t, value)
}

// Generate builds the strategy report for the given current mNAV. Leading
// indicators that cannot be fetched are skipped rather than failing the
// whole report.
func (e *Engine) Generate(ctx context.Context, currentMNAV float64) Report {
	ctx, span := e.tracer.Start(ctx, "signal-engine.generate")
	defer span.End()

	leading := e.btcMomentum(ctx)
	if fg := e.fearGreed(ctx); fg != nil {
		leading = append(leading, *fg)
	}

	var lagging []Indicator
	lagging = append(lagging, e.movingAverages(currentMNAV)...)
	lagging = append(lagging, e.rsi(currentMNAV))
	lagging = append(lagging, e.premiumZone(currentMNAV))

	all := append(append([]Indicator{}, leading...), lagging...)
	score, confidence := compositeScore(all)
	verdict := verdictFor(score)

	return Report{
		Signal:         verdict,
		Score:          score,
		Confidence:     confidence,
		CurrentMNAV:    currentMNAV,
		Leading:        leading,
		Lagging:        lagging,
		Recommendation: recommendation(verdict, score, confidence),
		Timestamp:      e.now(),
	}
}

func (e *Engine) btcMomentum(ctx context.Context) []Indicator {
	maxPeriod := momentumPeriods[len(momentumPeriods)-1]
	prices, err := e.prices.BitcoinPriceHistory(ctx, maxPeriod+1)
	if err != nil {
		log.Printf("signal: btc momentum unavailable: %v", err)
		return nil
	}

	var out []Indicator
	for _, period := range momentumPeriods {
		roc := ta.ROC(prices, period)
		if math.IsNaN(roc) {
			continue
		}

		var tendency Tendency
		switch {
		case roc > 10:
			tendency = Bullish
		case roc > 5:
			tendency = SlightlyBullish
		case roc < -10:
			tendency = Bearish
		case roc < -5:
			tendency = SlightlyBearish
		default:
			tendency = Neutral
		}

		weight := 0.1
		if period == 7 {
			weight = 0.15
		}
		out = append(out, Indicator{
			Name:        fmt.Sprintf("BTC %dd Momentum", period),
			Value:       round2(roc),
			Tendency:    tendency,
			Weight:      weight,
			Description: fmt.Sprintf("Bitcoin %d-day rate of change: %.1f%%", period, roc),
		})
	}
	return out
}

// fearGreed is contrarian: extreme fear reads bullish, extreme greed
// bearish.
func (e *Engine) fearGreed(ctx context.Context) *Indicator {
	point, err := e.sentiment.FetchLatest(ctx)
	if err != nil {
		log.Printf("signal: fear/greed unavailable: %v", err)
		return nil
	}

	var tendency Tendency
	switch {
	case point.Value < 20:
		tendency = Bullish
	case point.Value < 40:
		tendency = SlightlyBullish
	case point.Value > 80:
		tendency = Bearish
	case point.Value > 60:
		tendency = SlightlyBearish
	default:
		tendency = Neutral
	}

	return &Indicator{
		Name:        "Fear & Greed Index",
		Value:       float64(point.Value),
		Tendency:    tendency,
		Weight:      0.1,
		Description: fmt.Sprintf("Crypto sentiment: %s (%d/100)", point.Classification, point.Value),
	}
}

func (e *Engine) movingAverages(currentMNAV float64) []Indicator {
	values := e.history.Values()
	periods := []int{7, 30}

	if len(values) < 7 {
		out := make([]Indicator, 0, len(periods))
		for _, period := range periods {
			out = append(out, Indicator{
				Name:        fmt.Sprintf("mNAV %dd MA", period),
				Value:       currentMNAV,
				Tendency:    Neutral,
				Weight:      0.1,
				Description: fmt.Sprintf("Insufficient data for %dd MA", period),
			})
		}
		return out
	}

	var out []Indicator
	for _, period := range periods {
		ma := ta.SMA(values, period)
		if math.IsNaN(ma) {
			continue
		}
		deviation := (currentMNAV - ma) / ma * 100

		// Stretch above the average reads overbought, below oversold.
		var tendency Tendency
		switch {
		case deviation > 10:
			tendency = Bearish
		case deviation > 5:
			tendency = SlightlyBearish
		case deviation < -10:
			tendency = Bullish
		case deviation < -5:
			tendency = SlightlyBullish
		default:
			tendency = Neutral
		}

		out = append(out, Indicator{
			Name:        fmt.Sprintf("mNAV %dd MA", period),
			Value:       round2(ma),
			Tendency:    tendency,
			Weight:      0.1,
			Description: fmt.Sprintf("Current: %.2fx vs MA: %.2fx (%+.1f%%)", currentMNAV, ma, deviation),
		})
	}
	return out
}

func (e *Engine) rsi(currentMNAV float64) Indicator {
	const period = 14

	values := e.history.Values()
	if len(values) < period+1 {
		return Indicator{
			Name:        fmt.Sprintf("mNAV RSI(%d)", period),
			Value:       50,
			Tendency:    Neutral,
			Weight:      0.15,
			Description: "Insufficient data for RSI calculation",
		}
	}

	rsi := ta.RSI(values[len(values)-(period+1):], period)

	var tendency Tendency
	var desc string
	switch {
	case rsi < 30:
		tendency, desc = Bullish, "Oversold - potential bounce"
	case rsi < 40:
		tendency, desc = SlightlyBullish, "Approaching oversold"
	case rsi > 70:
		tendency, desc = Bearish, "Overbought - potential pullback"
	case rsi > 60:
		tendency, desc = SlightlyBearish, "Approaching overbought"
	default:
		tendency, desc = Neutral, "Neutral momentum"
	}

	return Indicator{
		Name:        fmt.Sprintf("mNAV RSI(%d)", period),
		Value:       math.Round(rsi*10) / 10,
		Tendency:    tendency,
		Weight:      0.15,
		Description: fmt.Sprintf("RSI: %.1f - %s", rsi, desc),
	}
}

type zone struct {
	name string
	low  float64
	high float64
}

var premiumZones = []zone{
	{"deep_discount", 0, 1.2},
	{"discount", 1.2, 1.8},
	{"fair_value", 1.8, 2.5},
	{"premium", 2.5, 3.5},
	{"extreme_premium", 3.5, math.Inf(1)},
}

// historicalMeanMNAV anchors the mean-reversion deviation readout.
const historicalMeanMNAV = 2.0

func (e *Engine) premiumZone(currentMNAV float64) Indicator {
	current := "unknown"
	for _, z := range premiumZones {
		if currentMNAV >= z.low && currentMNAV < z.high {
			current = z.name
			break
		}
	}

	deviation := (currentMNAV - historicalMeanMNAV) / historicalMeanMNAV * 100

	var tendency Tendency
	switch current {
	case "deep_discount", "discount":
		tendency = Bullish
	case "extreme_premium":
		tendency = Bearish
	case "premium":
		tendency = SlightlyBearish
	default:
		tendency = Neutral
	}

	return Indicator{
		Name:        "Premium Zone",
		Value:       currentMNAV,
		Tendency:    tendency,
		Weight:      0.15,
		Description: fmt.Sprintf("Zone: %s (%+.1f%% from mean)", zoneTitle(current), deviation),
	}
}

func zoneTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var tendencyValues = map[Tendency]float64{
	Bullish:         2,
	SlightlyBullish: 1,
	Neutral:         0,
	SlightlyBearish: -1,
	Bearish:         -2,
}

// compositeScore normalizes the weighted tendency sum onto -10..+10 and
// reports confidence as the share of indicators agreeing on a direction.
func compositeScore(indicators []Indicator) (float64, float64) {
	var totalWeight, weightedSum float64
	for _, ind := range indicators {
		totalWeight += ind.Weight
		weightedSum += tendencyValues[ind.Tendency] * ind.Weight
	}
	if totalWeight == 0 {
		return 0, 0
	}
	score := weightedSum / totalWeight * 5

	var bullish, bearish int
	for _, ind := range indicators {
		switch {
		case strings.Contains(string(ind.Tendency), "bullish"):
			bullish++
		case strings.Contains(string(ind.Tendency), "bearish"):
			bearish++
		}
	}
	agreement := float64(max(bullish, bearish)) / float64(len(indicators))
	confidence := math.Round(agreement*1000) / 10

	return round2(score), confidence
}

func verdictFor(score float64) Signal {
	switch {
	case score >= 4:
		return StrongLong
	case score >= 2:
		return Long
	case score <= -4:
		return StrongShort
	case score <= -2:
		return Short
	default:
		return SignalNone
	}
}

func recommendation(verdict Signal, score, confidence float64) string {
	switch verdict {
	case StrongLong:
		return fmt.Sprintf("Strong buy signal. Consider accumulating. Score: %g/10, Confidence: %g%%", score, confidence)
	case Long:
		return fmt.Sprintf("Bullish bias. Look for entry on dips. Score: %g/10, Confidence: %g%%", score, confidence)
	case StrongShort:
		return fmt.Sprintf("Strong sell signal. Consider reducing exposure. Score: %g/10, Confidence: %g%%", score, confidence)
	case Short:
		return fmt.Sprintf("Bearish bias. Avoid new longs. Score: %g/10, Confidence: %g%%", score, confidence)
	default:
		return fmt.Sprintf("Neutral. Wait for clearer signal. Score: %g/10, Confidence: %g%%", score, confidence)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
