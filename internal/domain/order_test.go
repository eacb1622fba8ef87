package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatuses_ContainsAll(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{StatusPending, StatusConfirmed, StatusFailed},
		ValidStatuses(),
	)
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses() {
		assert.True(t, IsValidStatus(s), "expected %q to be valid", s)
	}

	assert.False(t, IsValidStatus("unknown"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("PENDING"))
}

func TestOrder_IsTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: StatusPending}).IsTerminal())
	assert.True(t, (&Order{Status: StatusConfirmed}).IsTerminal())
	assert.True(t, (&Order{Status: StatusFailed}).IsTerminal())
}
