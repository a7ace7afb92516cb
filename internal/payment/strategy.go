package payment

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MethodCreditCard     = "CREDIT_CARD"
	MethodBankTransfer   = "BANK_TRANSFER"
	MethodCashOnDelivery = "CASH_ON_DELIVERY"
)

const (
	StatusPending             = "PENDING"
	StatusPaid                = "PAID"
	StatusPendingVerification = "PENDING_VERIFICATION"
	StatusPendingCollection   = "PENDING_COLLECTION"
)

// BankAccount is the account customers transfer to for BANK_TRANSFER orders.
const BankAccount = "1234567890"

// Request is the slice of an order a payment method needs to see.
type Request struct {
	OrderNumber     string
	Method          string
	Total           *decimal.Decimal
	ShippingAddress string
}

type Result struct {
	Method       string   `json:"method"`
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	Instructions []string `json:"instructions,omitempty"`
}

type Strategy interface {
	Method() string
	Validate(req Request) bool
	Process(req Request) Result
}

func formatAmount(total *decimal.Decimal) string {
	if total == nil {
		return "$0.00"
	}
	return "$" + total.StringFixed(2)
}

func matches(req Request, method string) bool {
	return strings.EqualFold(strings.TrimSpace(req.Method), method) && req.Total != nil
}

func instructionsFor(method string, req Request) []string {
	return InjectVariables(GetInstructions(method), InstructionVars{
		"amount":       formatAmount(req.Total),
		"order_number": req.OrderNumber,
		"address":      req.ShippingAddress,
		"account":      BankAccount,
	})
}

type creditCard struct{}

func NewCreditCard() Strategy { return creditCard{} }

func (creditCard) Method() string { return MethodCreditCard }

func (creditCard) Validate(req Request) bool { return matches(req, MethodCreditCard) }

func (creditCard) Process(req Request) Result {
	return Result{
		Method: MethodCreditCard,
		Status: StatusPaid,
		Message: "Credit Card payment processed successfully for order " + req.OrderNumber +
			". Amount: " + formatAmount(req.Total),
		Instructions: instructionsFor(MethodCreditCard, req),
	}
}

type bankTransfer struct{}

func NewBankTransfer() Strategy { return bankTransfer{} }

func (bankTransfer) Method() string { return MethodBankTransfer }

func (bankTransfer) Validate(req Request) bool { return matches(req, MethodBankTransfer) }

func (bankTransfer) Process(req Request) Result {
	return Result{
		Method: MethodBankTransfer,
		Status: StatusPendingVerification,
		Message: "Bank Transfer initiated for order " + req.OrderNumber +
			". Please transfer " + formatAmount(req.Total) + " to Account: " + BankAccount +
			". Payment pending verification.",
		Instructions: instructionsFor(MethodBankTransfer, req),
	}
}

type cashOnDelivery struct{}

func NewCashOnDelivery() Strategy { return cashOnDelivery{} }

func (cashOnDelivery) Method() string { return MethodCashOnDelivery }

// Validate also needs an address, since the courier collects on arrival.
func (cashOnDelivery) Validate(req Request) bool {
	return matches(req, MethodCashOnDelivery) && strings.TrimSpace(req.ShippingAddress) != ""
}

func (cashOnDelivery) Process(req Request) Result {
	return Result{
		Method: MethodCashOnDelivery,
		Status: StatusPendingCollection,
		Message: "Cash on Delivery confirmed for order " + req.OrderNumber +
			". Amount to be collected: " + formatAmount(req.Total) + " upon delivery.",
		Instructions: instructionsFor(MethodCashOnDelivery, req),
	}
}
