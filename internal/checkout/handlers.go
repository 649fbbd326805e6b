package checkout

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/giuspe/poc-checkout/internal/cart"
	"github.com/giuspe/poc-checkout/internal/common"
	"github.com/giuspe/poc-checkout/internal/obs"
	"github.com/giuspe/poc-checkout/internal/pricing"
	"github.com/giuspe/poc-checkout/internal/rules"
)

// Handler wires checkout sessions to HTTP.
type Handler struct {
	Sessions *Registry
	// Defaults seed every new session; per-request fields override them.
	Defaults Options
	Logger   zerolog.Logger
}

type createRequest struct {
	Rules          string         `json:"rules"`
	Records        []rules.Record `json:"records"`
	RuleDelimiter  string         `json:"ruleDelimiter"`
	FieldDelimiter string         `json:"fieldDelimiter"`
	Mode           string         `json:"mode"`
}

// Create opens a new checkout session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Sessions == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "session registry not configured", nil)
		return
	}
	var payload createRequest
	// An empty body opens a session with the configured defaults.
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	opts := h.Defaults
	opts.Logger = h.Logger
	if payload.Rules != "" {
		opts.Rules = payload.Rules
	}
	if len(payload.Records) > 0 {
		opts.Records = payload.Records
	}
	if payload.RuleDelimiter != "" {
		opts.RuleDelimiter = payload.RuleDelimiter
	}
	if payload.FieldDelimiter != "" {
		opts.FieldDelimiter = payload.FieldDelimiter
	}
	if mode := strings.TrimSpace(payload.Mode); mode != "" {
		opts.Mode = rules.Mode(strings.ToLower(mode))
	}
	svc, err := New(opts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	session := h.Sessions.Create(svc)
	if obs.CheckoutSessionsOpened != nil {
		obs.CheckoutSessionsOpened.Inc()
	}
	if obs.CheckoutSessionsActive != nil {
		obs.CheckoutSessionsActive.Set(float64(h.Sessions.Len()))
	}
	common.JSONData(w, http.StatusCreated, map[string]any{"checkoutId": session.ID})
}

type addRuleRequest struct {
	SKU      string      `json:"sku"`
	Quantity int         `json:"quantity"`
	Price    rules.Money `json:"price"`
}

// AddRule registers a tier threshold on an existing session. Direct rule
// registration accepts a price of 0, unlike text-sourced rules.
func (h *Handler) AddRule(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var payload addRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	qty := payload.Quantity
	if qty == 0 {
		qty = 1
	}
	err := session.Do(func(svc *Service) error {
		return svc.AddTierRule(payload.SKU, qty, payload.Price)
	})
	if obs.RuleRegistrationsTotal != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		obs.RuleRegistrationsTotal.WithLabelValues("api", result).Inc()
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemsRequest struct {
	SKU      string       `json:"sku"`
	Quantity int          `json:"quantity"`
	Items    []cart.Entry `json:"items"`
}

// AddItems adds one item or a batch of items to the session cart.
func (h *Handler) AddItems(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var payload addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	entries := payload.Items
	if strings.TrimSpace(payload.SKU) != "" {
		entries = append([]cart.Entry{{SKU: payload.SKU, Qty: payload.Quantity}}, entries...)
	}
	if len(entries) == 0 {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "sku or items is required", nil)
		return
	}
	var count int
	err := session.Do(func(svc *Service) error {
		if err := svc.AddItems(entries); err != nil {
			return err
		}
		count = len(svc.Items())
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]any{"distinctSkus": count})
}

// Total computes and returns the session total.
func (h *Handler) Total(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var (
		total rules.Money
		items map[string]int
	)
	err := session.Do(func(svc *Service) error {
		var err error
		total, err = svc.Total()
		items = svc.Items()
		return err
	})
	if obs.CheckoutTotalsTotal != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		obs.CheckoutTotalsTotal.WithLabelValues(result).Inc()
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]any{
		"total": total,
		"items": items,
	})
}

// Delete closes a session and frees it from the registry.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Sessions == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "session registry not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	if !h.Sessions.Delete(id) {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "checkout session not found", nil)
		return
	}
	if obs.CheckoutSessionsActive != nil {
		obs.CheckoutSessionsActive.Set(float64(h.Sessions.Len()))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	if h.Sessions == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "session registry not configured", nil)
		return nil, false
	}
	id := chi.URLParam(r, "id")
	session, ok := h.Sessions.Get(id)
	if !ok {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "checkout session not found", nil)
		return nil, false
	}
	return session, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrInvalidConfig):
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidConfig, err.Error(), nil)
	case errors.Is(err, rules.ErrInvalidRule):
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidRule, err.Error(), nil)
	case errors.Is(err, cart.ErrInvalidItem), errors.Is(err, pricing.ErrUnknownItem):
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidItem, err.Error(), nil)
	case errors.Is(err, pricing.ErrNoRulesConfigured):
		common.JSONError(w, http.StatusConflict, common.CodeNoRulesConfigured, err.Error(), nil)
	case errors.Is(err, pricing.ErrIncompleteRuleCoverage):
		common.JSONError(w, http.StatusConflict, common.CodeIncompleteRuleCoverage, err.Error(), nil)
	default:
		h.Logger.Error().Err(err).Msg("checkout request failed")
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "internal error", nil)
	}
}
