// Package document renders customer quote PDFs.
package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Line is one labelled amount in the pricing table
type Line struct {
	Label  string
	Amount string
	Bold   bool
}

// Section is a titled free-text block
type Section struct {
	Title   string
	Content string
}

// Style carries the template look
type Style struct {
	Primary    string
	Secondary  string
	Accent     string
	HeaderText string
	FooterText string
	Minimal    bool
}

// Quote is everything printed on a quote document. All amounts are
// preformatted so rendering never does arithmetic.
type Quote struct {
	CompanyName    string
	CompanyWebsite string
	CompanyAddress string

	ConsultantName  string
	ConsultantPhone string
	ConsultantEmail string

	QuoteNumber string
	IssuedAt    time.Time
	ValidUntil  time.Time

	ClientName     string
	ClientPhone    string
	ClientEmail    string
	ClientLocation string

	Specs    [][2]string
	Pieces   []string
	Features []string
	Comments string

	Lines      []Line
	GrandTotal string
	Converted  string
	TaxNote    string

	Terms          []string
	CustomSections []Section

	ShowClientInfo   bool
	ShowProjectSpecs bool
	ShowPricing      bool
	ShowTerms        bool

	Style Style
}

// Render lays out q as an A4 PDF and returns its bytes
func Render(q Quote) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	primary := ParseColor(q.Style.Primary, props.Color{Red: 26, Green: 26, Blue: 26})
	secondary := ParseColor(q.Style.Secondary, props.Color{Red: 107, Green: 107, Blue: 107})
	accent := ParseColor(q.Style.Accent, props.Color{Red: 176, Green: 141, Blue: 87})

	addHeader(m, q, primary, secondary)
	addQuoteInfo(m, q, primary)

	if q.ShowProjectSpecs {
		addSpecs(m, q, primary)
	}
	if q.Comments != "" {
		addTitled(m, "Special Comments", []string{q.Comments}, primary)
	}
	if q.ShowPricing {
		addPricing(m, q, primary, accent)
	}
	for _, s := range q.CustomSections {
		addTitled(m, s.Title, []string{s.Content}, primary)
	}
	if q.ShowTerms && len(q.Terms) > 0 {
		terms := make([]string, len(q.Terms))
		for i, t := range q.Terms {
			terms[i] = "- " + t
		}
		addTitled(m, "Terms & Conditions", terms, primary)
	}
	if q.Style.FooterText != "" {
		m.AddRows(row.New(6))
		m.AddRows(text.NewRow(8, q.Style.FooterText, props.Text{
			Size:  8,
			Align: align.Center,
			Color: &secondary,
		}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, q Quote, primary, secondary props.Color) {
	m.AddRows(
		row.New(12).Add(
			col.New(7).Add(text.New(q.CompanyName, props.Text{
				Size:  20,
				Style: fontstyle.Bold,
				Color: &primary,
			})),
			col.New(5).Add(text.New(q.CompanyWebsite, props.Text{
				Size:  9,
				Align: align.Right,
				Top:   3,
				Color: &secondary,
			})),
		),
	)
	if q.Style.HeaderText != "" {
		m.AddRows(text.NewRow(7, q.Style.HeaderText, props.Text{Size: 10, Color: &secondary}))
	}
	if q.CompanyAddress != "" {
		m.AddRows(text.NewRow(5, q.CompanyAddress, props.Text{Size: 8, Color: &secondary}))
	}
	if !q.Style.Minimal {
		m.AddRows(line.NewRow(4, props.Line{Color: &primary, Thickness: 0.6}))
	}
}

func addQuoteInfo(m core.Maroto, q Quote, primary props.Color) {
	heading := props.Text{Size: 10, Style: fontstyle.Bold, Color: &primary}
	body := props.Text{Size: 9}

	left := col.New(6).Add(
		text.New("Quote Information", heading),
		text.New("Quote ID: "+q.QuoteNumber, withTop(body, 6)),
		text.New("Date: "+q.IssuedAt.Format("02/01/2006"), withTop(body, 11)),
		text.New("Valid Until: "+q.ValidUntil.Format("02/01/2006"), withTop(body, 16)),
	)

	right := col.New(6)
	if q.ShowClientInfo {
		right = col.New(6).Add(
			text.New("Client Information", heading),
			text.New("Name: "+orTBC(q.ClientName), withTop(body, 6)),
			text.New("Contact: "+orTBC(q.ClientPhone), withTop(body, 11)),
			text.New("Location: "+orTBC(q.ClientLocation), withTop(body, 16)),
		)
	}
	m.AddRows(row.New(24).Add(left, right))

	if q.ConsultantName != "" {
		m.AddRows(row.New(18).Add(
			col.New(12).Add(
				text.New("Sales Consultant", heading),
				text.New(fmt.Sprintf("%s   %s   %s", q.ConsultantName, q.ConsultantPhone, q.ConsultantEmail), withTop(body, 6)),
			),
		))
	}
}

func addSpecs(m core.Maroto, q Quote, primary props.Color) {
	m.AddRows(text.NewRow(9, "Project Specifications", props.Text{
		Size:  11,
		Style: fontstyle.Bold,
		Top:   2,
		Color: &primary,
	}))

	for _, kv := range q.Specs {
		m.AddRows(row.New(5).Add(
			text.NewCol(4, kv[0], props.Text{Size: 9, Style: fontstyle.Bold}),
			text.NewCol(8, kv[1], props.Text{Size: 9}),
		))
	}

	pieces := q.Pieces
	if len(pieces) == 0 {
		pieces = []string{"Dimensions to be confirmed"}
	}
	addTitled(m, "Dimensions", pieces, primary)

	features := q.Features
	if len(features) == 0 {
		features = []string{"Standard finish"}
	}
	addTitled(m, "Design Features", features, primary)
}

func addPricing(m core.Maroto, q Quote, primary, accent props.Color) {
	m.AddRows(text.NewRow(9, "Investment Summary", props.Text{
		Size:  11,
		Style: fontstyle.Bold,
		Top:   2,
		Color: &primary,
	}))

	for _, l := range q.Lines {
		style := fontstyle.Normal
		if l.Bold {
			style = fontstyle.Bold
		}
		m.AddRows(row.New(6).Add(
			text.NewCol(8, l.Label, props.Text{Size: 9, Style: style}),
			text.NewCol(4, l.Amount, props.Text{Size: 9, Style: style, Align: align.Right}),
		))
	}

	m.AddRows(line.NewRow(3, props.Line{Color: &accent, Thickness: 0.4}))
	m.AddRows(row.New(10).Add(
		text.NewCol(6, "Grand Total", props.Text{Size: 12, Style: fontstyle.Bold, Color: &primary}),
		text.NewCol(6, q.GrandTotal, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right, Color: &primary}),
	))
	if q.Converted != "" {
		m.AddRows(text.NewRow(5, "Approx. "+q.Converted, props.Text{Size: 8, Align: align.Right}))
	}
	if q.TaxNote != "" {
		m.AddRows(text.NewRow(5, q.TaxNote, props.Text{Size: 8, Align: align.Right}))
	}
}

func addTitled(m core.Maroto, title string, lines []string, primary props.Color) {
	m.AddRows(text.NewRow(8, title, props.Text{
		Size:  10,
		Style: fontstyle.Bold,
		Top:   2,
		Color: &primary,
	}))
	for _, l := range lines {
		m.AddAutoRow(text.NewCol(12, l, props.Text{Size: 9}))
	}
}

func withTop(p props.Text, top float64) props.Text {
	p.Top = top
	return p
}

func orTBC(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBC"
	}
	return s
}

// ParseColor reads a "#rrggbb" or "#rgb" hex color, returning def when s is
// not a valid color
func ParseColor(s string, def props.Color) props.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return def
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return def
	}
	return props.Color{
		Red:   int(v >> 16 & 0xff),
		Green: int(v >> 8 & 0xff),
		Blue:  int(v & 0xff),
	}
}
