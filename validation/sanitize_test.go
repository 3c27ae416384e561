package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "<b>hello</b>", want: "hello"},
		{in: "tom&jerry", want: "tom&jerry"},
		{in: `"quoted" & 'single'`, want: `"quoted" & 'single'`},
		{in: "<script>alert(1)</script>", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	assert.Equal(t, "<b>bold</b>", SanitizeHTML(`<b onclick="x()">bold</b><script>alert(1)</script>`))
}
