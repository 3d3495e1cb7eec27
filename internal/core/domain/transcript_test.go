package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/wasmc/internal/core/domain"
)

func TestNormalizeInput(t *testing.T) {
	assert.Equal(t, "\n", domain.NormalizeInput(""))
	assert.Equal(t, "Taro\n", domain.NormalizeInput("Taro"))
	assert.Equal(t, "Taro\n", domain.NormalizeInput("Taro\n"))
	assert.Equal(t, "a\nb\n", domain.NormalizeInput("a\nb"))
}

func TestNormalizeInput_Idempotent(t *testing.T) {
	for _, in := range []string{"", "x", "x\n", "x\n\n", "multi\nline"} {
		once := domain.NormalizeInput(in)
		assert.Equal(t, once, domain.NormalizeInput(once), "input %q", in)
	}
}

func TestReconstructTranscript(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		marker string
		input  string
		want   string
	}{
		{
			name:   "inserts after marker line",
			raw:    "Q?\nanswer",
			marker: "Q?",
			input:  "Taro\n",
			want:   "Q?\nTaro\nanswer",
		},
		{
			name:   "marker absent",
			raw:    "hello\nworld",
			marker: "Q?",
			input:  "Taro\n",
			want:   "hello\nworld",
		},
		{
			name:   "only first occurrence",
			raw:    "Q?\nQ?\nend",
			marker: "Q?",
			input:  "x\n",
			want:   "Q?\nx\nQ?\nend",
		},
		{
			name:   "marker inside longer line",
			raw:    "> What is your name? \nHello, Taro!\n",
			marker: "What is your name?",
			input:  "  Taro \n",
			want:   "> What is your name? \nTaro\nHello, Taro!\n",
		},
		{
			name:   "marker on last line",
			raw:    "Q?",
			marker: "Q?",
			input:  "Taro\n",
			want:   "Q?\nTaro",
		},
		{
			name:   "empty marker disables insertion",
			raw:    "Q?\nanswer",
			marker: "",
			input:  "Taro\n",
			want:   "Q?\nanswer",
		},
		{
			name:   "empty output",
			raw:    "",
			marker: "Q?",
			input:  "\n",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ReconstructTranscript(tt.raw, tt.marker, tt.input))
		})
	}
}
