package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/logger"
)

const (
	// FirstTransactionID is the id assigned to the first generated record.
	FirstTransactionID = 5001

	minQuantity = 1
	maxQuantity = 100
	minAge      = 25
	maxAge      = 65

	// Sell cost basis is price × k/100, k uniform in [costBasisMinPct, costBasisMaxPct].
	costBasisMinPct = 75
	costBasisMaxPct = 125
)

// typeWeights skews the mix towards buys. Types not listed weigh 1.
var typeWeights = map[models.TransactionType]int{
	models.Buy:  70,
	models.Sell: 30,
}

// Options configures one generation run.
//
// Fields:
//   - Count: number of records to produce (> 0).
//   - Seed:  optional; when set, the run is fully reproducible.
//   - Start, End: inclusive calendar-date bounds for the date column; only
//     US trading days inside the range are drawn.
type Options struct {
	Count int `validate:"gt=0"`
	Seed  *uint64
	Start time.Time `validate:"required"`
	End   time.Time `validate:"required,gtefield=Start"`
}

var validate = validator.New()

// Generator produces synthetic transactions from a vocabulary and a seeded source.
type Generator struct {
	vocab *models.Vocabulary
	opts  Options
	days  []time.Time
	seed  uint64
	rng   *rand.Rand
}

// New validates opts and vocab and prepares a generator.
//
// Returns an error wrapping models.ErrInvalidConfiguration when Count <= 0, the
// date range is missing or inverted, or the vocabulary fails Validate.
func New(opts Options, vocab *models.Vocabulary) (*Generator, error) {
	if vocab == nil {
		vocab = models.DefaultVocabulary()
	}
	if err := validate.Struct(opts); err != nil {
		return nil, configErrorFrom(err)
	}
	if err := vocab.Validate(); err != nil {
		return nil, err
	}

	opts.Start = truncateToDate(opts.Start)
	opts.End = truncateToDate(opts.End)
	days := TradingDays(opts.Start, opts.End)
	if len(days) == 0 {
		return nil, &models.ConfigError{Field: "date_range", Reason: "contains no trading day"}
	}

	var seed uint64
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		seed = rand.Uint64()
	}

	return &Generator{
		vocab: vocab,
		opts:  opts,
		days:  days,
		seed:  seed,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Seed returns the seed in use, including the one picked when none was given.
func (g *Generator) Seed() uint64 { return g.seed }

// Generate produces exactly opts.Count transactions. Every enumerated field is
// drawn from the vocabulary; sector is resolved from the ticker; total value
// is computed, never drawn; profit/loss is set for sells only.
func (g *Generator) Generate() []models.Transaction {
	lg := logger.Component("generator")
	start := time.Now()

	out := make([]models.Transaction, 0, g.opts.Count)

	for i := 0; i < g.opts.Count; i++ {
		txType := g.pickType()
		ticker := g.vocab.Tickers[g.rng.IntN(len(g.vocab.Tickers))]
		sector := ticker.Sector
		qty := int64(minQuantity + g.rng.IntN(maxQuantity-minQuantity+1))

		pr := g.vocab.PriceRanges[sector]
		priceCents := pr.MinCents + g.rng.Int64N(pr.MaxCents-pr.MinCents+1)
		price := decimal.New(priceCents, -2)

		var pl *decimal.Decimal
		if txType == models.Sell {
			v := g.profitLoss(priceCents, qty)
			pl = &v
		}

		out = append(out, models.Transaction{
			TransactionID:     int64(FirstTransactionID + i),
			Ticker:            ticker.Symbol,
			Sector:            sector,
			TransactionType:   txType,
			Quantity:          qty,
			PricePerUnit:      price,
			TotalValue:        models.ComputeTotal(qty, price),
			ProfitLoss:        pl,
			Broker:            g.vocab.Brokers[g.rng.IntN(len(g.vocab.Brokers))],
			CustomerAge:       minAge + g.rng.IntN(maxAge-minAge+1),
			CustomerGender:    g.vocab.Genders[g.rng.IntN(len(g.vocab.Genders))],
			InvestmentHorizon: g.vocab.Horizons[g.rng.IntN(len(g.vocab.Horizons))],
			Date:              g.days[g.rng.IntN(len(g.days))],
		})
	}

	lg.Info().
		Int("records", len(out)).
		Uint64("seed", g.seed).
		Str("start", g.opts.Start.Format(models.DateLayout)).
		Str("end", g.opts.End.Format(models.DateLayout)).
		Dur("elapsed", time.Since(start)).
		Msg("dataset generated")
	return out
}

func (g *Generator) pickType() models.TransactionType {
	total := 0
	for _, t := range g.vocab.TransactionTypes {
		total += weightOf(t)
	}
	n := g.rng.IntN(total)
	for _, t := range g.vocab.TransactionTypes {
		n -= weightOf(t)
		if n < 0 {
			return t
		}
	}
	return g.vocab.TransactionTypes[len(g.vocab.TransactionTypes)-1]
}

func weightOf(t models.TransactionType) int {
	if w, ok := typeWeights[t]; ok {
		return w
	}
	return 1
}

// profitLoss draws a per-unit cost basis around the sale price and returns
// quantity × (price − basis), in cents precision.
func (g *Generator) profitLoss(priceCents, qty int64) decimal.Decimal {
	pct := int64(costBasisMinPct + g.rng.IntN(costBasisMaxPct-costBasisMinPct+1))
	basisCents := priceCents * pct / 100
	return decimal.New((priceCents-basisCents)*qty, -2)
}

func configErrorFrom(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &models.ConfigError{Field: fe.Field(), Reason: fmt.Sprintf("failed %q check", fe.Tag())}
	}
	return fmt.Errorf("%w: %v", models.ErrInvalidConfiguration, err)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
