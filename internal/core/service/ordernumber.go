package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber builds a human-readable order number: a fixed prefix, eight
// random hex characters and a millisecond timestamp, e.g.
// ORD-9F86D081-1714406400123. Uniqueness is probabilistic; the unique
// constraint on orders.number is the backstop, so a collision surfaces as a
// creation failure instead of a silent overwrite.
func NewOrderNumber() string {
	random := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%d", random, time.Now().UnixMilli())
}
