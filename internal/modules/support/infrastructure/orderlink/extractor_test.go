package orderlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOrderID(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"My order is ORD301", "ORD301"},
		{"ord 301 arrived broken", "ORD301"},
		{"ORD-301", "ORD301"},
		{"order id: ORD301", "ORD301"},
		{"Order #ORD 301 please", "ORD301"},
		{"i want a refund for ord-42", "ORD42"},
		{"no order mentioned here", ""},
		{"", ""},
		{"ORD", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ExtractOrderID(c.message), c.message)
	}
}

func TestExtractOrderIDFirstMatchWins(t *testing.T) {
	got := ExtractOrderID("refund ORD301 not ORD999")
	assert.Equal(t, "ORD301", got)
}

func TestLooksLikeDatetime(t *testing.T) {
	assert.True(t, LooksLikeDatetime("tomorrow at 2pm"))
	assert.True(t, LooksLikeDatetime("Next Friday works"))
	assert.True(t, LooksLikeDatetime("December 24 please"))
	assert.True(t, LooksLikeDatetime("sometime next week"))

	assert.False(t, LooksLikeDatetime("the blender is broken"))
	assert.False(t, LooksLikeDatetime(""))
}

func TestLooksLikeReason(t *testing.T) {
	assert.True(t, LooksLikeReason("the motor stopped working after a week"))
	assert.False(t, LooksLikeReason("broken"))
	assert.False(t, LooksLikeReason("can you help me with my refund?"))
	assert.False(t, LooksLikeReason("   short   "))
}
