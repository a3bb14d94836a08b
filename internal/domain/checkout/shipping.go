package checkout

import (
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ShippingMethod represents the delivery option chosen at checkout
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// IsValid checks if the method is a valid ShippingMethod
func (m ShippingMethod) IsValid() bool {
	switch m {
	case ShippingStandard, ShippingExpress:
		return true
	}
	return false
}

// String returns the string representation of ShippingMethod
func (m ShippingMethod) String() string {
	return string(m)
}

// FeeTable maps shipping methods to their flat fees. Fees are domain
// configuration, overridable through the config file; the defaults mirror
// the storefront's published rates.
type FeeTable map[ShippingMethod]valueobject.Money

// DefaultFeeTable returns the built-in shipping rates
func DefaultFeeTable() FeeTable {
	return FeeTable{
		ShippingStandard: valueobject.NewMoneyNGNFromInt(1000),
		ShippingExpress:  valueobject.NewMoneyNGNFromInt(2500),
	}
}

// FeeFor looks up the fee for a method. An unknown or unselected method has
// a zero fee and ok=false.
func (t FeeTable) FeeFor(method ShippingMethod) (valueobject.Money, bool) {
	fee, ok := t[method]
	if !ok {
		return valueobject.ZeroNGN(), false
	}
	return fee, true
}

// ShippingSelection pairs the chosen method with its looked-up fee
type ShippingSelection struct {
	Method ShippingMethod    `json:"method"`
	Fee    valueobject.Money `json:"fee"`
}
