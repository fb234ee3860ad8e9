package sanitize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AF", "AF"},
		{"snake_case", "snake_case"},
		{"dotted.name", "dotted_name"},
		{"dashed-name", "dashed_name"},
		{"1000G", "_1000G"},
		{"a b", "a_b"},
		{"_ok", "_ok"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Name(tt.in), "Name(%q)", tt.in)
	}
}

func TestValue_NullNumericReplacement(t *testing.T) {
	s := New(int64(-2147483648))

	got := s.Value([]interface{}{int64(1), nil, int64(3)})
	assert.Equal(t, []interface{}{int64(1), int64(-2147483648), int64(3)}, got)

	// No replacement configured: nils pass through.
	bare := New(nil)
	got = bare.Value([]interface{}{int64(1), nil})
	assert.Equal(t, []interface{}{int64(1), nil}, got)
}

func TestValue_NonFiniteFloats(t *testing.T) {
	s := New(nil)
	assert.Nil(t, s.Value(math.NaN()))
	assert.Nil(t, s.Value(math.Inf(1)))
	assert.Equal(t, 1.5, s.Value(1.5))
}

func TestValue_InvalidUTF8(t *testing.T) {
	s := New(nil)
	got := s.Value(string([]byte{'a', 0xff, 'b'}))
	str, ok := got.(string)
	assert.True(t, ok)
	assert.True(t, len(str) > 0)
	assert.NotContains(t, str, string(byte(0xff)))
}

func TestValue_Passthrough(t *testing.T) {
	s := New(int64(-1))
	assert.Equal(t, int64(7), s.Value(int64(7)))
	assert.Equal(t, true, s.Value(true))
	assert.Equal(t, "ok", s.Value("ok"))
	assert.Equal(t, []interface{}{"a", "b"}, s.Value([]string{"a", "b"}))
}
