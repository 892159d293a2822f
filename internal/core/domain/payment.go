package domain

import "time"

const PaymentMethodCreditCard = "credit_card"

// PaymentRecord stores the instrument of exactly one order. Card number and
// CVV are sealed ciphertext; only the last four digits stay readable for
// display.
type PaymentRecord struct {
	ID                  uint64
	OrderID             uint64
	CardNumberEncrypted string
	CVVEncrypted        string
	CardLast4           string
	ExpiryDate          string
	CardholderName      string
	PaymentMethod       string
	CreatedAt           time.Time
}
