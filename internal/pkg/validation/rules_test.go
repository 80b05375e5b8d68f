package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSlug(t *testing.T) {
	valid := []string{"azure-fundamentals", "az-104", "bicep"}
	invalid := []string{"", "Azure-Fundamentals", "azure--fundamentals", "-azure", "azure-", "../etc", "azure fundamentals", strings.Repeat("a", 101)}

	for _, s := range valid {
		assert.True(t, IsSlug(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsSlug(s), s)
	}
}

func TestIsCurrency(t *testing.T) {
	assert.True(t, IsCurrency("EUR"))
	assert.False(t, IsCurrency("eur"))
	assert.False(t, IsCurrency("EURO"))
	assert.False(t, IsCurrency(""))
}

func TestStringValidationMaxLength(t *testing.T) {
	assert.True(t, NewStringValidation("abc").WithMaxLength(3).Validate())
	assert.False(t, NewStringValidation("abcd").WithMaxLength(3).Validate())
	assert.False(t, NewStringValidation("").Validate(), "values are required")
}
