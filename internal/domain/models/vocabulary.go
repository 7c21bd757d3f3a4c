package models

import "fmt"

// Sector is a fixed market-classification category.
type Sector string

const (
	SectorTechnology            Sector = "Technology"
	SectorConsumerDiscretionary Sector = "Consumer Discretionary"
	SectorFinancials            Sector = "Financials"
	SectorCommunication         Sector = "Communication Services"
	SectorHealthcare            Sector = "Healthcare"
	SectorConsumerStaples       Sector = "Consumer Staples"
	SectorIndustrials           Sector = "Industrials"
	SectorUtilities             Sector = "Utilities"
	SectorRealEstate            Sector = "Real Estate"
	SectorMaterials             Sector = "Materials"
)

// TransactionType is either Buy or Sell.
type TransactionType string

const (
	Buy  TransactionType = "Buy"
	Sell TransactionType = "Sell"
)

// Broker executes a transaction on behalf of a customer.
type Broker string

const (
	BrokerFidelity      Broker = "Fidelity"
	BrokerCharlesSchwab Broker = "Charles Schwab"
	BrokerTDAmeritrade  Broker = "TD Ameritrade"
	BrokerETrade        Broker = "E*TRADE"
	BrokerRobinhood     Broker = "Robinhood"
	BrokerVanguard      Broker = "Vanguard"
)

// Gender is the customer's declared gender, including a non-disclosure option.
type Gender string

const (
	GenderMale         Gender = "M"
	GenderFemale       Gender = "F"
	GenderNonBinary    Gender = "Non-binary"
	GenderNotDisclosed Gender = "Prefer not to say"
)

// Horizon is the customer's intended holding duration.
type Horizon string

const (
	HorizonShort  Horizon = "Short-Term"
	HorizonMedium Horizon = "Medium-Term"
	HorizonLong   Horizon = "Long-Term"
)

// PriceRange bounds the unit price drawn for a sector, in cents.
type PriceRange struct {
	MinCents int64
	MaxCents int64
}

// TickerInfo describes one tradable security.
type TickerInfo struct {
	Symbol  string
	Company string
	Sector  Sector
}

// Vocabulary is the closed set of values every enumerated Transaction field
// draws from. The ticker table is the single source of the ticker→sector
// mapping; build one with NewVocabulary so the mapping is checked once.
type Vocabulary struct {
	Sectors          []Sector
	Tickers          []TickerInfo
	TransactionTypes []TransactionType
	Brokers          []Broker
	Genders          []Gender
	Horizons         []Horizon
	PriceRanges      map[Sector]PriceRange

	bySymbol map[string]TickerInfo
}

// NewVocabulary validates the tables and builds the ticker lookup.
func NewVocabulary(
	sectors []Sector,
	tickers []TickerInfo,
	types []TransactionType,
	brokers []Broker,
	genders []Gender,
	horizons []Horizon,
	prices map[Sector]PriceRange,
) (*Vocabulary, error) {
	v := &Vocabulary{
		Sectors:          sectors,
		Tickers:          tickers,
		TransactionTypes: types,
		Brokers:          brokers,
		Genders:          genders,
		Horizons:         horizons,
		PriceRanges:      prices,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	v.bySymbol = make(map[string]TickerInfo, len(tickers))
	for _, t := range tickers {
		v.bySymbol[t.Symbol] = t
	}
	return v, nil
}

// Validate checks the tables of a vocabulary however it was built.
//
// It fails with ErrInvalidConfiguration when any table is empty, when a ticker
// is listed twice or points at an undeclared sector, when a sector has no
// ticker (the mapping must be surjective) or when a sector lacks a price range.
func (v *Vocabulary) Validate() error {
	if v == nil {
		return &ConfigError{Field: "vocabulary", Reason: "is nil"}
	}
	switch {
	case len(v.Sectors) == 0:
		return &ConfigError{Field: "sectors", Reason: "vocabulary is empty"}
	case len(v.Tickers) == 0:
		return &ConfigError{Field: "tickers", Reason: "vocabulary is empty"}
	case len(v.TransactionTypes) == 0:
		return &ConfigError{Field: "transaction_types", Reason: "vocabulary is empty"}
	case len(v.Brokers) == 0:
		return &ConfigError{Field: "brokers", Reason: "vocabulary is empty"}
	case len(v.Genders) == 0:
		return &ConfigError{Field: "genders", Reason: "vocabulary is empty"}
	case len(v.Horizons) == 0:
		return &ConfigError{Field: "horizons", Reason: "vocabulary is empty"}
	}

	declared := make(map[Sector]bool, len(v.Sectors))
	for _, s := range v.Sectors {
		declared[s] = false
	}

	symbols := make(map[string]struct{}, len(v.Tickers))
	for _, t := range v.Tickers {
		if _, dup := symbols[t.Symbol]; dup {
			return &ConfigError{Field: "tickers", Reason: fmt.Sprintf("ticker %q listed twice", t.Symbol)}
		}
		if _, ok := declared[t.Sector]; !ok {
			return &ConfigError{Field: "tickers", Reason: fmt.Sprintf("ticker %q maps to unknown sector %q", t.Symbol, t.Sector)}
		}
		declared[t.Sector] = true
		symbols[t.Symbol] = struct{}{}
	}

	for _, s := range v.Sectors {
		if !declared[s] {
			return &ConfigError{Field: "tickers", Reason: fmt.Sprintf("sector %q has no ticker", s)}
		}
		pr, ok := v.PriceRanges[s]
		if !ok || pr.MinCents <= 0 || pr.MaxCents < pr.MinCents {
			return &ConfigError{Field: "price_ranges", Reason: fmt.Sprintf("sector %q has no valid price range", s)}
		}
	}
	return nil
}

// Lookup resolves a ticker symbol.
// Vocabularies built as struct literals have no index and fall back to a scan.
func (v *Vocabulary) Lookup(symbol string) (TickerInfo, bool) {
	if v.bySymbol == nil {
		for _, t := range v.Tickers {
			if t.Symbol == symbol {
				return t, true
			}
		}
		return TickerInfo{}, false
	}
	t, ok := v.bySymbol[symbol]
	return t, ok
}

// SectorOf returns the sector a ticker belongs to.
func (v *Vocabulary) SectorOf(symbol string) (Sector, bool) {
	t, ok := v.Lookup(symbol)
	return t.Sector, ok
}

func (v *Vocabulary) HasSector(s Sector) bool        { return contains(v.Sectors, s) }
func (v *Vocabulary) HasType(t TransactionType) bool { return contains(v.TransactionTypes, t) }
func (v *Vocabulary) HasBroker(b Broker) bool        { return contains(v.Brokers, b) }
func (v *Vocabulary) HasGender(g Gender) bool        { return contains(v.Genders, g) }
func (v *Vocabulary) HasHorizon(h Horizon) bool      { return contains(v.Horizons, h) }

// GenderRank returns the vocabulary position of g, used for deterministic tie-breaks.
func (v *Vocabulary) GenderRank(g Gender) int { return indexOf(v.Genders, g) }

// HorizonRank returns the vocabulary position of h.
func (v *Vocabulary) HorizonRank(h Horizon) int { return indexOf(v.Horizons, h) }

func contains[T comparable](xs []T, x T) bool { return indexOf(xs, x) >= 0 }

func indexOf[T comparable](xs []T, x T) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

var defaultVocabulary = mustDefaultVocabulary()

// DefaultVocabulary returns the built-in market vocabulary.
func DefaultVocabulary() *Vocabulary { return defaultVocabulary }

func mustDefaultVocabulary() *Vocabulary {
	v, err := NewVocabulary(
		[]Sector{
			SectorTechnology, SectorConsumerDiscretionary, SectorFinancials, SectorCommunication,
			SectorHealthcare, SectorConsumerStaples, SectorIndustrials, SectorUtilities,
			SectorRealEstate, SectorMaterials,
		},
		[]TickerInfo{
			{"AAPL", "Apple Inc.", SectorTechnology},
			{"MSFT", "Microsoft Corp.", SectorTechnology},
			{"NVDA", "NVIDIA Corporation", SectorTechnology},
			{"INTC", "Intel Corporation", SectorTechnology},
			{"ADBE", "Adobe Inc.", SectorTechnology},
			{"CRM", "Salesforce.com Inc.", SectorTechnology},
			{"ORCL", "Oracle Corporation", SectorTechnology},
			{"IBM", "International Business Machines Corporation", SectorTechnology},
			{"ZM", "Zoom Video Communications Inc.", SectorTechnology},
			{"SHOP", "Shopify Inc.", SectorTechnology},
			{"GOOGL", "Alphabet Inc.", SectorCommunication},
			{"META", "Meta Platforms Inc.", SectorCommunication},
			{"NFLX", "Netflix Inc.", SectorCommunication},
			{"DIS", "The Walt Disney Company", SectorCommunication},
			{"SNAP", "Snap Inc.", SectorCommunication},
			{"AMZN", "Amazon.com Inc.", SectorConsumerDiscretionary},
			{"TSLA", "Tesla Inc.", SectorConsumerDiscretionary},
			{"BABA", "Alibaba Group Holding Ltd.", SectorConsumerDiscretionary},
			{"UBER", "Uber Technologies Inc.", SectorConsumerDiscretionary},
			{"LYFT", "Lyft Inc.", SectorConsumerDiscretionary},
			{"JPM", "JPMorgan Chase & Co.", SectorFinancials},
			{"V", "Visa Inc.", SectorFinancials},
			{"BAC", "Bank of America Corp.", SectorFinancials},
			{"PYPL", "PayPal Holdings Inc.", SectorFinancials},
			{"SQ", "Square Inc.", SectorFinancials},
			{"PFE", "Pfizer Inc.", SectorHealthcare},
			{"JNJ", "Johnson & Johnson", SectorHealthcare},
			{"KO", "The Coca-Cola Company", SectorConsumerStaples},
			{"PG", "Procter & Gamble Co.", SectorConsumerStaples},
			{"BA", "Boeing Co.", SectorIndustrials},
			{"GE", "General Electric Company", SectorIndustrials},
			{"NEE", "NextEra Energy Inc.", SectorUtilities},
			{"DUK", "Duke Energy Corp.", SectorUtilities},
			{"AMT", "American Tower Corp.", SectorRealEstate},
			{"PLD", "Prologis Inc.", SectorRealEstate},
			{"LIN", "Linde plc", SectorMaterials},
			{"NEM", "Newmont Corp.", SectorMaterials},
		},
		[]TransactionType{Buy, Sell},
		[]Broker{BrokerFidelity, BrokerCharlesSchwab, BrokerTDAmeritrade, BrokerETrade, BrokerRobinhood, BrokerVanguard},
		[]Gender{GenderMale, GenderFemale, GenderNonBinary, GenderNotDisclosed},
		[]Horizon{HorizonShort, HorizonMedium, HorizonLong},
		map[Sector]PriceRange{
			SectorTechnology:            {5000, 300000},
			SectorConsumerDiscretionary: {2000, 50000},
			SectorFinancials:            {1000, 20000},
			SectorCommunication:         {3000, 60000},
			SectorHealthcare:            {1000, 25000},
			SectorConsumerStaples:       {1000, 15000},
			SectorIndustrials:           {1500, 30000},
			SectorUtilities:             {500, 10000},
			SectorRealEstate:            {5000, 50000},
			SectorMaterials:             {2000, 40000},
		},
	)
	if err != nil {
		panic(err)
	}
	return v
}
