package domain_test

import (
	"testing"

	"github.com/govalues/decimal"
	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestProduct_EffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		expected string
	}{
		{
			name:     "discount below price wins",
			price:    "100.00",
			discount: "80.00",
			expected: "80.00",
		},
		{
			name:     "no discount",
			price:    "50.00",
			discount: "",
			expected: "50.00",
		},
		{
			name:     "discount equal to price is ignored",
			price:    "50.00",
			discount: "50.00",
			expected: "50.00",
		},
		{
			name:     "discount above price is ignored",
			price:    "50.00",
			discount: "60.00",
			expected: "50.00",
		},
		{
			name:     "free with zero discount",
			price:    "10.00",
			discount: "0.00",
			expected: "0.00",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := domain.Product{Price: decimal.MustParse(test.price)}
			if test.discount != "" {
				p.Discount = decimal.NullDecimal{
					Decimal: decimal.MustParse(test.discount),
					Valid:   true,
				}
			}

			got := p.EffectivePrice()
			assert.Equal(t, 0, got.Cmp(decimal.MustParse(test.expected)),
				"expected %s, got %s", test.expected, got)
		})
	}
}
