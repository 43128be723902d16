package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_TransitionTable(t *testing.T) {
	all := []OrderStatus{OrderDraft, OrderSubmitted, OrderFinished, OrderRejected, OrderDeleted}

	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderDraft:     {OrderSubmitted: true, OrderDeleted: true},
		OrderSubmitted: {OrderFinished: true, OrderRejected: true, OrderDeleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransition(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestOrderStatus_TerminalStatesHaveNoExit(t *testing.T) {
	assert.False(t, OrderDraft.Terminal())
	assert.False(t, OrderSubmitted.Terminal())
	assert.True(t, OrderFinished.Terminal())
	assert.True(t, OrderRejected.Terminal())
	assert.True(t, OrderDeleted.Terminal())
}

func TestOrderStatus_AllowsItemEdits(t *testing.T) {
	assert.True(t, OrderDraft.AllowsItemEdits())
	assert.True(t, OrderSubmitted.AllowsItemEdits())
	assert.False(t, OrderFinished.AllowsItemEdits())
	assert.False(t, OrderRejected.AllowsItemEdits())
	assert.False(t, OrderDeleted.AllowsItemEdits())
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{OrderDraft, OrderSubmitted, OrderFinished, OrderRejected, OrderDeleted} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("pending").Valid())
}

func TestOrderEnums(t *testing.T) {
	for _, loc := range OrderLocations {
		assert.True(t, ValidLocation(loc))
	}
	assert.False(t, ValidLocation("london"))
	assert.False(t, ValidLocation(""))

	for _, p := range OrderPersons {
		assert.True(t, ValidPerson(p))
	}
	assert.False(t, ValidPerson("smith"))
}
