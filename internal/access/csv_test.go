package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIDList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []int64
	}{
		{"empty", "", []int64{}},
		{"single", "7", []int64{7}},
		{"plain", "1,2,3", []int64{1, 2, 3}},
		{"blank tokens", "1,,3", []int64{1, 3}},
		{"spaces and junk", "1, 2 ,x", []int64{1, 2}},
		{"duplicates keep first", "5,3,5,3", []int64{5, 3}},
		{"non-positive dropped", "-1,0,4", []int64{4}},
		{"all junk", "a, b ,", []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseIDList(tc.in)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseIDSet(t *testing.T) {
	set := ParseIDSet("1, 2 ,x,2")
	assert.Len(t, set, 2)
	assert.True(t, set.Has(1))
	assert.True(t, set.Has(2))
	assert.False(t, set.Has(3))

	assert.Empty(t, ParseIDSet(""))
}
