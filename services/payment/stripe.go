package paymentsvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/the-user01/Study-Platform-Server/core"
)

// StripeProvider creates payment intents through the Stripe API.
type StripeProvider struct {
	api *client.API
}

var _ core.PaymentProvider = (*StripeProvider)(nil)

func NewStripeProvider(conf *core.Config) *StripeProvider {
	return newStripeProvider(conf.Payment.StripeSecretKey, nil)
}

// newStripeProvider uses the default Stripe backends when backends is nil.
func newStripeProvider(key string, backends *stripe.Backends) *StripeProvider {
	return &StripeProvider{api: client.New(key, backends)}
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req core.PaymentIntentRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice(req.PaymentMethodTypes),
	}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", errors.Wrap(err, "creating stripe payment intent")
	}
	return pi.ClientSecret, nil
}
