package thornode

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNodeBody = `{
	"node_address": "thorNODE",
	"status": "Active",
	"bond_providers": {
		"node_operator_fee": "500",
		"providers": [
			{"bond_address": "thorOP", "bond": "30000000000"},
			{"bond_address": "thorUSER", "bond": "0"}
		]
	}
}`

func TestBondInfoFromNode(t *testing.T) {
	var node nodeResponse
	require.NoError(t, json.Unmarshal([]byte(sampleNodeBody), &node))

	t.Run("provider_with_bond", func(t *testing.T) {
		info := bondInfoFromNode(node, "thorOP")
		assert.True(t, info.IsBondProvider)
		assert.True(t, info.BondedAmount.Equal(decimal.NewFromInt(30000000000)))
	})

	t.Run("provider_without_bond", func(t *testing.T) {
		info := bondInfoFromNode(node, "thorUSER")
		assert.True(t, info.IsBondProvider)
		assert.True(t, info.BondedAmount.IsZero())
	})

	t.Run("unknown_address_is_not_a_provider", func(t *testing.T) {
		info := bondInfoFromNode(node, "thorSTRANGER")
		assert.False(t, info.IsBondProvider)
		assert.True(t, info.BondedAmount.IsZero())
	})

	t.Run("missing_provider_list_treated_as_empty", func(t *testing.T) {
		var empty nodeResponse
		require.NoError(t, json.Unmarshal([]byte(`{"node_address": "thorNODE"}`), &empty))
		info := bondInfoFromNode(empty, "thorUSER")
		assert.False(t, info.IsBondProvider)
		assert.True(t, info.BondedAmount.IsZero())
	})
}
