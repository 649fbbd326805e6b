package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ErrInvalidConfig is returned when the parser is constructed with an empty delimiter.
var ErrInvalidConfig = errors.New("invalid parser configuration")

// Default delimiters for textual rule input.
const (
	DefaultRuleDelimiter  = ";"
	DefaultFieldDelimiter = "|"
)

// Mode selects how the parser treats malformed entries.
type Mode string

const (
	// ModeStrict aborts the whole parse on the first malformed entry.
	ModeStrict Mode = "strict"
	// ModeLenient discards malformed entries and keeps going.
	ModeLenient Mode = "lenient"
)

// Valid reports whether the mode is one of the supported values.
func (m Mode) Valid() bool {
	return m == ModeStrict || m == ModeLenient
}

// Record is a structured rule entry. Quantity is optional; values below 1 are
// floored to 1 rather than rejected, matching the textual quantity field.
type Record struct {
	SKU      string `json:"sku" validate:"required"`
	Price    Money  `json:"price" validate:"min=1"`
	Quantity int    `json:"quantity"`
}

// Parser converts raw rule descriptions into tier table entries.
type Parser struct {
	ruleDelim  string
	fieldDelim string
	mode       Mode
	validate   *validator.Validate
	log        zerolog.Logger
}

// NewParser validates the delimiters and returns a ready parser. Delimiters are
// trimmed unless they are exactly the line separator; an empty delimiter after
// trimming fails with ErrInvalidConfig.
func NewParser(ruleDelim, fieldDelim string, mode Mode, logger zerolog.Logger) (*Parser, error) {
	rd, err := normalizeDelimiter("rule", ruleDelim)
	if err != nil {
		return nil, err
	}
	fd, err := normalizeDelimiter("field", fieldDelim)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = ModeStrict
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unsupported parse mode %q: %w", mode, ErrInvalidConfig)
	}
	return &Parser{
		ruleDelim:  rd,
		fieldDelim: fd,
		mode:       mode,
		validate:   validator.New(),
		log:        logger,
	}, nil
}

func normalizeDelimiter(name, raw string) (string, error) {
	if raw == "\n" {
		return raw, nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty %s delimiter: %w", name, ErrInvalidConfig)
	}
	return trimmed, nil
}

// ParseString splits a delimited rule string and registers every entry into the store.
func (p *Parser) ParseString(raw string, store *Store) error {
	return p.ParseStrings(strings.Split(raw, p.ruleDelim), store)
}

// ParseStrings registers an ordered sequence of textual rule entries.
func (p *Parser) ParseStrings(entries []string, store *Store) error {
	for _, entry := range entries {
		if err := p.parseEntry(entry, store); err != nil {
			if p.mode == ModeLenient {
				p.log.Debug().Err(err).Str("entry", entry).Msg("discard malformed rule")
				continue
			}
			return err
		}
	}
	return nil
}

// ParseRecords registers an ordered sequence of structured rule entries.
func (p *Parser) ParseRecords(records []Record, store *Store) error {
	for _, rec := range records {
		if err := p.parseRecord(rec, store); err != nil {
			if p.mode == ModeLenient {
				p.log.Debug().Err(err).Str("sku", rec.SKU).Msg("discard malformed rule record")
				continue
			}
			return err
		}
	}
	return nil
}

func (p *Parser) parseEntry(entry string, store *Store) error {
	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return nil
	}
	fields := strings.Split(trimmed, p.fieldDelim)
	if len(fields) < 2 {
		return fmt.Errorf("rule %q has fewer than 2 fields: %w", trimmed, ErrInvalidRule)
	}
	sku := strings.TrimSpace(fields[0])
	if sku == "" {
		return fmt.Errorf("rule %q has an empty sku: %w", trimmed, ErrInvalidRule)
	}
	price, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return fmt.Errorf("rule %q has a non-numeric price: %w", trimmed, ErrInvalidRule)
	}
	// Text-sourced rules reject price < 1: a zero price in rule text almost
	// always means a missing field, not a free item.
	if price < 1 {
		return fmt.Errorf("rule %q has price below 1: %w", trimmed, ErrInvalidRule)
	}
	qty := 1
	if len(fields) > 2 {
		qty, err = strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return fmt.Errorf("rule %q has a non-numeric quantity: %w", trimmed, ErrInvalidRule)
		}
	}
	if qty < 1 {
		qty = 1
	}
	return store.AddTierRule(sku, qty, price)
}

func (p *Parser) parseRecord(rec Record, store *Store) error {
	rec.SKU = strings.TrimSpace(rec.SKU)
	if err := p.validate.Struct(rec); err != nil {
		return fmt.Errorf("rule record for %q: %v: %w", rec.SKU, err, ErrInvalidRule)
	}
	qty := rec.Quantity
	if qty < 1 {
		qty = 1
	}
	return store.AddTierRule(rec.SKU, qty, rec.Price)
}
