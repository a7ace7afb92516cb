package delivery

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a priced delivery option for one order total.
type Quote struct {
	Method      string          `json:"method"`
	Cost        decimal.Decimal `json:"cost"`
	EstimatedAt time.Time       `json:"estimated_at"`
}

// Selector routes a delivery method tag to its Strategy. It is read-only
// after construction.
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

func DefaultSelector() *Selector {
	return NewSelector(NewStandard(), NewExpress(), NewPickup())
}

// Strategy resolves method, treating an empty tag as STANDARD.
func (s *Selector) Strategy(method string) (Strategy, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		method = MethodStandard
	}

	strategy, ok := s.strategies[strings.ToUpper(method)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	return strategy, nil
}

func (s *Selector) Quote(method string, total decimal.Decimal, now time.Time) (Quote, error) {
	strategy, err := s.Strategy(method)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Method:      strategy.Method(),
		Cost:        strategy.Cost(total),
		EstimatedAt: strategy.EstimatedAt(now),
	}, nil
}

// Methods maps each registered method to its description.
func (s *Selector) Methods() map[string]string {
	methods := make(map[string]string, len(s.strategies))
	for _, strategy := range s.strategies {
		methods[strategy.Method()] = strategy.Description()
	}
	return methods
}
