package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooseEqual(t *testing.T) {
	assert.True(t, looseEqual(int64(5), 5.0))
	assert.True(t, looseEqual([]interface{}{int64(1), int64(2)}, []interface{}{1.0, 2.0}))
	assert.True(t, looseEqual("x", "x"))
	assert.False(t, looseEqual(int64(5), "5"))
	assert.False(t, looseEqual([]interface{}{int64(1)}, []interface{}{int64(1), int64(2)}))
	assert.False(t, looseEqual(true, int64(1)))
}

func TestIsEmptyFieldValue(t *testing.T) {
	assert.True(t, isEmptyFieldValue(nil))
	assert.True(t, isEmptyFieldValue(""))
	assert.True(t, isEmptyFieldValue("."))
	assert.True(t, isEmptyFieldValue(false))
	assert.True(t, isEmptyFieldValue([]interface{}{}))
	assert.True(t, isEmptyFieldValue([]interface{}{"."}))

	assert.False(t, isEmptyFieldValue(int64(0)))
	assert.False(t, isEmptyFieldValue(0.0))
	assert.False(t, isEmptyFieldValue("x"))
	assert.False(t, isEmptyFieldValue([]interface{}{".", "."}))
}

func TestIsNullOrEmpty(t *testing.T) {
	assert.True(t, isNullOrEmpty(nil))
	assert.True(t, isNullOrEmpty([]interface{}{}))

	// Asymmetric with the forward rule: zero and empty string survive.
	assert.False(t, isNullOrEmpty(int64(0)))
	assert.False(t, isNullOrEmpty(""))
	assert.False(t, isNullOrEmpty(false))
}

func TestRowDeepCopy(t *testing.T) {
	row := Row{
		"scalar": int64(1),
		"list":   []interface{}{map[string]interface{}{"k": "v"}},
	}
	cp := row.deepCopy()
	cp["list"].([]interface{})[0].(map[string]interface{})["k"] = "changed"
	assert.Equal(t, "v", row["list"].([]interface{})[0].(map[string]interface{})["k"])
}
