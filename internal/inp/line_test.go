package inp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		line string
		want Kind
	}{
		{"empty", "", KindBlank},
		{"whitespace only", "   \t ", KindBlank},
		{"comment", "; a note", KindComment},
		{"indented comment", "   ;note", KindComment},
		{"header", "[PIPES]", KindHeader},
		{"indented header", "  [PIPES]", KindHeader},
		{"unterminated header", "[PIPES", KindHeader},
		{"data", "P1 N1 N2 100", KindData},
		{"data with leading spaces", "   P1 N1 N2", KindData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.line))
		})
	}
}

func TestHeaderName(t *testing.T) {
	assert.Equal(t, "PIPES", HeaderName("[PIPES]"))
	assert.Equal(t, "PIPES", HeaderName("  [PIPES]  "))
	assert.Equal(t, "PIPES", HeaderName("[PIPES] ;trailing"))
	assert.Equal(t, "PIPES", HeaderName("[PIPES"))
	assert.Equal(t, "", HeaderName("P1 N1 N2"))
}

func TestParseNormalizesCRLF(t *testing.T) {
	doc := Parse("[PIPES]\r\nP1 N1 N2\r\n")
	assert.Equal(t, Document{"[PIPES]", "P1 N1 N2", ""}, doc)
	assert.Equal(t, "[PIPES]\nP1 N1 N2\n", doc.String())
}
