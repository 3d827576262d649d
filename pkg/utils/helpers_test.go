package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, 3, ParseValue(" 3 "))
	assert.Equal(t, 1.5, ParseValue("1.5"))
	assert.Equal(t, "Acme", ParseValue(" Acme"))
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"Greenpeace", "Greenpeace"},
		{7, "7"},
		{int64(-2), "-2"},
		{3.0, "3"},
		{2.25, "2.25"},
		{true, "true"},
		{[]string{"x"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StringValue(tt.in), "input %#v", tt.in)
	}
}

func TestIntValue(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   int
		wantOK bool
	}{
		{1, 1, true},
		{int64(3), 3, true},
		{float64(-1), -1, true},
		{"2", 2, true},
		{" 0 ", 0, true},
		{"1.0", 1, true},
		{1.5, 0, false},
		{"", 0, false},
		{"Positive", 0, false},
		{"Very Negative", 0, false},
		{"2.5", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := IntValue(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %#v", tt.in)
		assert.Equal(t, tt.want, got, "input %#v", tt.in)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 1.5, Round2(1.5))
	// halves go to the even neighbour
	assert.Equal(t, 0.62, Round2(0.625))
	assert.Equal(t, 0.38, Round2(0.375))
}
