package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giuspe/poc-checkout/internal/config"
	"github.com/giuspe/poc-checkout/internal/rules"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":            "",
		"RULE_DELIMITER":  "",
		"FIELD_DELIMITER": "",
		"PARSE_MODE":      "",
		"PRICING_RULES":   "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, ";", cfg.RuleDelimiter)
	require.Equal(t, "|", cfg.FieldDelimiter)
	require.Equal(t, rules.ModeStrict, cfg.ParseMode)
	require.Equal(t, "120-M", cfg.RateLimit)
}

func TestLoadCustomValues(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":            "9090",
		"RULE_DELIMITER":  ",",
		"FIELD_DELIMITER": ":",
		"PARSE_MODE":      "LENIENT",
		"PRICING_RULES":   "A:10, B:5",
		"RATE_LIMIT":      "10-S",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, ",", cfg.RuleDelimiter)
	require.Equal(t, ":", cfg.FieldDelimiter)
	require.Equal(t, rules.ModeLenient, cfg.ParseMode)
	require.Equal(t, "A:10, B:5", cfg.Rules)
	require.Equal(t, "10-S", cfg.RateLimit)
}

func TestLoadRejectsUnknownParseMode(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"PARSE_MODE": "yolo",
	})
	require.ErrorIs(t, err, rules.ErrInvalidConfig)
}

func TestHTTPAddrPassthrough(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT": ":7070",
	})
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.HTTPAddr())
}
