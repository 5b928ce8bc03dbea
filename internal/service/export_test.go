package service

import (
	"github.com/luxone/quotation-api/internal/document"
	"github.com/luxone/quotation-api/internal/domain"
)

// BuildQuote exposes document assembly to the service_test package
func (s *DocumentService) BuildQuote(q *domain.Quotation, company *domain.CompanySettings, template *domain.PDFTemplate) document.Quote {
	return s.buildQuote(q, company, template)
}
