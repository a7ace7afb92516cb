package payment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"spareparts-be/internal/logger"

	"go.uber.org/zap"
)

// Selector routes a payment method tag to its Strategy. The registry is fixed
// at construction and safe for concurrent use.
type Selector struct {
	strategies map[string]Strategy
}

func NewSelector(strategies ...Strategy) *Selector {
	m := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		m[strings.ToUpper(s.Method())] = s
	}
	return &Selector{strategies: m}
}

// DefaultSelector registers every built-in payment method.
func DefaultSelector() *Selector {
	return NewSelector(NewCreditCard(), NewBankTransfer(), NewCashOnDelivery())
}

func (s *Selector) Strategy(method string) (Strategy, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, ErrMethodRequired
	}

	strategy, ok := s.strategies[strings.ToUpper(method)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	return strategy, nil
}

func (s *Selector) Execute(ctx context.Context, req Request) (Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "payment"),
		zap.String("order_number", req.OrderNumber),
		zap.String("payment_method", req.Method),
	)

	strategy, err := s.Strategy(req.Method)
	if err != nil {
		return Result{}, err
	}

	if !strategy.Validate(req) {
		return Result{}, fmt.Errorf("%w for %s", ErrInvalidPaymentDetails, req.Method)
	}

	res := strategy.Process(req)
	log.Info("payment processed",
		zap.String("status", res.Status),
		zap.String("amount", formatAmount(req.Total)),
	)
	return res, nil
}

func (s *Selector) Supported(method string) bool {
	_, ok := s.strategies[strings.ToUpper(strings.TrimSpace(method))]
	return ok
}

// Methods returns the registered tags in sorted order.
func (s *Selector) Methods() []string {
	methods := make([]string, 0, len(s.strategies))
	for m := range s.strategies {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}
