package document_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/luxone/quotation-api/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	issued := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	q := document.Quote{
		CompanyName:    "Luxone",
		CompanyWebsite: "www.theluxone.com",
		QuoteNumber:    "LUX-2026-0001",
		IssuedAt:       issued,
		ValidUntil:     issued.AddDate(0, 0, 30),
		ClientName:     "Amira Haddad",
		ClientLocation: "Dubai",
		Specs:          [][2]string{{"Service Level", "Fabrication, Delivery & Installation"}},
		Pieces:         []string{"Piece A: 1200mm x 600mm x 20mm"},
		Lines: []document.Line{
			{Label: "Material", Amount: "AED 216.00"},
			{Label: "Subtotal", Amount: "AED 1,061.60", Bold: true},
		},
		GrandTotal:       "AED 1,337.62",
		Terms:            []string{"Quote valid for 30 days from date of issue"},
		ShowClientInfo:   true,
		ShowProjectSpecs: true,
		ShowPricing:      true,
		ShowTerms:        true,
		Style:            document.Style{Primary: "#112233", FooterText: "Thank you"},
	}

	pdf, err := document.Render(q)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestParseColor(t *testing.T) {
	def := props.Color{Red: 1, Green: 2, Blue: 3}

	tests := []struct {
		in   string
		want props.Color
	}{
		{in: "#112233", want: props.Color{Red: 0x11, Green: 0x22, Blue: 0x33}},
		{in: "ffffff", want: props.Color{Red: 255, Green: 255, Blue: 255}},
		{in: "#abc", want: props.Color{Red: 0xaa, Green: 0xbb, Blue: 0xcc}},
		{in: "", want: def},
		{in: "#12345", want: def},
		{in: "#gggggg", want: def},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, document.ParseColor(tt.in, def))
		})
	}
}
