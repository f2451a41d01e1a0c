package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanArgs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "12", "12"},
		{"quoted", `"12"`, "12"},
		{"padded", " 3 ", "3"},
		{"escaped json", `"[""a"",""b""]"`, `["a","b"]`},
		{"only quotes", `""`, ""},
		{"inner quote kept", `he"llo`, `he"llo`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, cleanArgs([]string{tt.in}))
		})
	}

	in := []string{`"1"`}
	cleanArgs(in)
	assert.Equal(t, `"1"`, in[0], "input is left alone")
}
