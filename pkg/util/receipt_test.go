package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReceiptNumber(t *testing.T) {
	at := time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC)

	first := GenerateReceiptNumber(at)
	second := GenerateReceiptNumber(at)

	assert.True(t, strings.HasPrefix(first, "RCP-20260520-"))
	assert.NotEqual(t, first, second)
}
