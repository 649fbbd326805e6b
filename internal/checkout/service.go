package checkout

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/giuspe/poc-checkout/internal/cart"
	"github.com/giuspe/poc-checkout/internal/pricing"
	"github.com/giuspe/poc-checkout/internal/rules"
)

// Options configures a checkout service.
type Options struct {
	// RuleDelimiter separates rule entries inside Rules. Empty means ";".
	RuleDelimiter string
	// FieldDelimiter separates fields inside one rule entry. Empty means "|".
	FieldDelimiter string
	// Mode selects strict or lenient parsing. Empty means strict.
	Mode rules.Mode
	// Rules is the initial rule batch as one delimited string.
	Rules string
	// RuleLines is the initial rule batch as individual rule strings.
	RuleLines []string
	// Records is the initial rule batch as structured entries.
	Records []rules.Record
	// Logger receives parse diagnostics. The zero logger is usable.
	Logger zerolog.Logger
}

// Service owns one rule store and one cart and computes totals over them.
// A Service instance is single-goroutine; parallel checkouts use independent
// instances.
type Service struct {
	parser    *rules.Parser
	store     *rules.Store
	cart      *cart.Cart
	modifiers []pricing.TotalModifier
	opts      Options
	built     bool
}

// New validates the delimiters and returns a service. The initial rule batch
// is not parsed yet; it is built lazily on the first item addition or total,
// or eagerly via Build.
func New(opts Options) (*Service, error) {
	if opts.RuleDelimiter == "" {
		opts.RuleDelimiter = rules.DefaultRuleDelimiter
	}
	if opts.FieldDelimiter == "" {
		opts.FieldDelimiter = rules.DefaultFieldDelimiter
	}
	parser, err := rules.NewParser(opts.RuleDelimiter, opts.FieldDelimiter, opts.Mode, opts.Logger)
	if err != nil {
		return nil, err
	}
	store := rules.NewStore()
	return &Service{
		parser: parser,
		store:  store,
		cart:   cart.New(store.Has),
		opts:   opts,
	}, nil
}

// Build parses the initial rule batch into the store. It runs at most once;
// later calls are no-ops. Failures surface to the caller and leave the service
// unbuilt so a corrected batch could not sneak in behind a partial one.
func (s *Service) Build() error {
	if s.built {
		return nil
	}
	if s.opts.Rules != "" {
		if err := s.parser.ParseString(s.opts.Rules, s.store); err != nil {
			return err
		}
	}
	if len(s.opts.RuleLines) > 0 {
		if err := s.parser.ParseStrings(s.opts.RuleLines, s.store); err != nil {
			return err
		}
	}
	if len(s.opts.Records) > 0 {
		if err := s.parser.ParseRecords(s.opts.Records, s.store); err != nil {
			return err
		}
	}
	s.built = true
	return nil
}

// AddItem adds quantity for one SKU to the cart, building the initial rule
// batch first if needed.
func (s *Service) AddItem(sku string, qty int) error {
	if err := s.Build(); err != nil {
		return err
	}
	return s.cart.Add(sku, qty)
}

// AddItems adds a sequence of entries through the same validation as AddItem.
func (s *Service) AddItems(entries []cart.Entry) error {
	if err := s.Build(); err != nil {
		return err
	}
	return s.cart.AddBatch(entries)
}

// AddTierRule registers a tier threshold directly, bypassing text parsing.
// Unlike text-sourced rules a price of 0 is accepted here (free item).
func (s *Service) AddTierRule(sku string, qty int, price rules.Money) error {
	if err := s.Build(); err != nil {
		return err
	}
	return s.store.AddTierRule(sku, qty, price)
}

// AddCustomRule installs a custom pricing function for a SKU, replacing any
// tier table registered for it.
func (s *Service) AddCustomRule(sku string, fn rules.CustomPriceFunc) error {
	if err := s.Build(); err != nil {
		return err
	}
	return s.store.AddCustomRule(sku, fn)
}

// AddTotalModifier appends a cart-wide modifier. Modifiers run in registration
// order when the total is computed.
func (s *Service) AddTotalModifier(fn pricing.TotalModifier) error {
	if fn == nil {
		return fmt.Errorf("nil total modifier: %w", rules.ErrInvalidRule)
	}
	s.modifiers = append(s.modifiers, fn)
	return nil
}

// Items returns a snapshot of the cart contents.
func (s *Service) Items() map[string]int {
	return s.cart.Items()
}

// Total computes the cart total against the current rules and modifiers.
func (s *Service) Total() (rules.Money, error) {
	if err := s.Build(); err != nil {
		return 0, err
	}
	return pricing.Total(s.cart.Items(), s.store, s.modifiers)
}
