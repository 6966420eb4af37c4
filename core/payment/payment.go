package payment

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core"
)

// maxMinorUnits is 2^63: amounts at or above it do not fit in an int64.
const maxMinorUnits = float64(math.MaxInt64)

var (
	errPriceTooSmall = errors.New("price is below the smallest currency unit")
	errPriceTooLarge = errors.New("price is too large")

	cardOnly = []string{"card"}
)

// UpstreamError is a failure reported by the payment provider. It is surfaced, never retried.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return "payment provider: " + e.Err.Error() }

func IsUpstreamError(err error) bool {
	_, ok := errors.Cause(err).(*UpstreamError)
	return ok
}

type IntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

func (ir *IntentRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(ir)
}

type Intent struct {
	ClientSecret string `json:"clientSecret"`
}

// Service creates card payment intents in a fixed currency.
type Service struct {
	provider core.PaymentProvider
	currency string
}

func NewService(provider core.PaymentProvider, conf *core.Config) *Service {
	return &Service{
		provider: provider,
		currency: conf.Payment.Currency,
	}
}

// ToMinorUnits converts a price to the smallest currency unit, truncating any fraction of it.
// price*100 must be below 2^63.
func ToMinorUnits(price float64) int64 {
	return int64(price * 100)
}

func (svc *Service) CreateIntent(ctx context.Context, price float64) (Intent, error) {
	if price <= 0 {
		return Intent{}, core.NewValidationError(nil, core.FieldError{Field: "price", Error: "price must be greater than 0"})
	}
	if price*100 >= maxMinorUnits {
		return Intent{}, core.NewValidationError(errPriceTooLarge, core.FieldError{Field: "price", Error: errPriceTooLarge.Error()})
	}
	amount := ToMinorUnits(price)
	if amount < 1 {
		return Intent{}, core.NewValidationError(errPriceTooSmall, core.FieldError{Field: "price", Error: errPriceTooSmall.Error()})
	}

	secret, err := svc.provider.CreatePaymentIntent(ctx, core.PaymentIntentRequest{
		Amount:             amount,
		Currency:           svc.currency,
		PaymentMethodTypes: cardOnly,
	})
	if err != nil {
		return Intent{}, &UpstreamError{Err: err}
	}
	return Intent{ClientSecret: secret}, nil
}
