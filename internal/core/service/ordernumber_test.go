package service_test

import (
	"regexp"
	"testing"

	"github.com/grupo7/ecommerce-api/internal/core/service"
	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9A-F]{8}-\d+$`)

	for i := 0; i < 100; i++ {
		number := service.NewOrderNumber()
		assert.Regexp(t, re, number)
	}
}

func TestNewOrderNumber_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)

	for i := 0; i < 10000; i++ {
		number := service.NewOrderNumber()
		_, dup := seen[number]
		assert.False(t, dup, "duplicate order number %s", number)
		seen[number] = struct{}{}
	}
}
