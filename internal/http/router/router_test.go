package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/config"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/http/handler"
	"github.com/luxone/quotation-api/internal/http/middleware"
	"github.com/luxone/quotation-api/internal/http/router"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/repository"
	"github.com/luxone/quotation-api/internal/service"
	"github.com/luxone/quotation-api/internal/storage"
	"github.com/luxone/quotation-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "test-api-key"

// newTestAPI wires the full HTTP stack over an in-memory database
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	cfg := &config.Config{
		App:       config.AppConfig{Name: "test", Environment: "test"},
		CORS:      config.CORSConfig{AllowedMethods: []string{"GET", "POST"}},
		Security:  config.SecurityConfig{ContentTypeNosniff: true},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}

	ruleRepo := repository.NewCostRuleRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)

	store := pricing.NewCostRuleStore()
	pricingService := service.NewPricingService(store, pricing.NewEngine(pricing.PolicyAreaV2, "AED"), ruleRepo, logger)
	costRuleService := service.NewCostRuleService(ruleRepo, store, logger)
	_, err := costRuleService.SeedDefaults(ctx)
	require.NoError(t, err)
	require.NoError(t, pricingService.Reload(ctx))

	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)
	quotationService := service.NewQuotationService(quotationRepo, numbers, pricingService, "AED", logger)
	settingsService := service.NewSettingsService(repository.NewSettingsRepository(db), logger)
	documentService := service.NewDocumentService(quotationService, settingsService, logger)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := service.NewAuthService(repository.NewAdminUserRepository(db), tokens, logger)
	require.NoError(t, authService.EnsureBootstrapAdmin(ctx, "admin", "correct-horse-battery"))

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	fileService := service.NewFileService(repository.NewFileRepository(db), quotationRepo, local, logger)
	auditService := service.NewAuditLogService(repository.NewAuditLogRepository(db), logger)

	rt := router.NewRouter(
		cfg,
		logger,
		db,
		auth.NewMiddleware(tokens, testAPIKey, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		middleware.NewAuditMiddleware(auditService, logger),
		handler.NewPricingHandler(pricingService, logger),
		handler.NewQuotationHandler(quotationService, documentService, logger),
		handler.NewCostRuleHandler(costRuleService, logger),
		handler.NewSettingsHandler(settingsService, logger),
		handler.NewDashboardHandler(service.NewDashboardService(quotationRepo, "AED", logger), logger),
		handler.NewAuthHandler(authService, logger),
		handler.NewFileHandler(fileService, 1, logger),
		handler.NewAuditHandler(auditService, logger),
		handler.NewFormFieldHandler(service.NewFormFieldService(repository.NewFormFieldRepository(db), logger), logger),
	)
	return rt.Setup()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("x-api-key", testAPIKey)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst), w.Body.String())
}

func dubaiForm() map[string]interface{} {
	return map[string]interface{}{
		"service_level":   "fabrication-delivery-installation",
		"material_source": "luxone",
		"material_type":   "quartz",
		"material_color":  "Calacatta",
		"worktop_layout":  "l-shape",
		"pieces": map[string]interface{}{
			"A": map[string]interface{}{"length": "1200", "width": "600", "thickness": "20"},
			"B": map[string]interface{}{"length": 1200, "width": 600, "thickness": 20},
		},
		"sink_option":       "client-provided",
		"features":          map[string]interface{}{"custom_edge": "YES", "tap_holes": 2},
		"timeline":          "3-6weeks",
		"project_type":      "residential",
		"customer_name":     "Amira Haddad",
		"customer_email":    "amira@example.com",
		"customer_phone":    "+971500000001",
		"customer_location": "Dubai",
		"designer_name":     "Dana Designer",
		"designer_contact":  "+971511111111",
		"designer_email":    "dana@example.com",
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	for _, path := range []string{"/health/db", "/health/ready"} {
		w := do(t, api, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]interface{}
		decode(t, w, &body)
		assert.Equal(t, "healthy", body["status"], path)
	}
}

func TestCalculate(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/quotations/calculate", dubaiForm(), false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got domain.PricingBreakdownDTO
	decode(t, w, &got)
	assert.Equal(t, 1.44, got.TotalAreaSqm)
	assert.Equal(t, 216.0, got.MaterialCost)
	assert.Equal(t, 144.0, got.FabricationCost)
	assert.Equal(t, 201.6, got.InstallationCost)
	assert.Equal(t, 500.0, got.DeliveryCost)
	assert.Equal(t, 1061.6, got.Subtotal)
	assert.Equal(t, 212.32, got.Margin)
	assert.Equal(t, 63.7, got.VAT)
	assert.Equal(t, 1337.62, got.GrandTotal)
	assert.Equal(t, 1, got.SlabsRequired)
	assert.Equal(t, "AED", got.Currency)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestCalculate_BadInput(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing pieces", `{"service_level":"fabrication","customer_location":"Dubai"}`},
		{"malformed json", `{"pieces":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/calculate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			api.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
		})
	}
}

func TestCreateQuotation(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/quotations", dubaiForm(), false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.QuotationCreatedDTO
	decode(t, w, &created)
	assert.Equal(t, 1337.62, created.TotalAmount)
	assert.Regexp(t, `^LUX-\d{4}-0001$`, created.QuoteNumber)
	assert.Equal(t, "/api/v1/admin/quotations/"+created.ID.String(), w.Header().Get("Location"))

	// The admin can read it back with the stored breakdown
	w = do(t, api, http.MethodGet, "/api/v1/admin/quotations/"+created.ID.String(), nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got domain.QuotationDTO
	decode(t, w, &got)
	assert.Equal(t, created.QuoteNumber, got.QuoteNumber)
	assert.Equal(t, domain.QuotationStatusPending, got.Status)
	require.NotNil(t, got.Pricing)
	assert.Equal(t, 1337.62, got.Pricing.GrandTotal)
	assert.Len(t, got.Pieces, 2)
}

func TestCreateQuotation_Validation(t *testing.T) {
	api := newTestAPI(t)

	form := dubaiForm()
	delete(form, "customer_phone")
	form["designer_email"] = "not-an-email"
	form["service_level"] = "teleport"

	w := do(t, api, http.MethodPost, "/api/v1/quotations", form, false)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body domain.APIError
	decode(t, w, &body)
	assert.Equal(t, domain.ErrorTypeValidation, body.Type)
	assert.Contains(t, body.Errors, "customer_phone")
	assert.Contains(t, body.Errors, "designer_email")
	assert.Contains(t, body.Errors, "service_level")
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		header map[string]string
	}{
		{"no credentials", http.MethodGet, "/api/v1/admin/quotations", nil},
		{"wrong api key", http.MethodGet, "/api/v1/admin/cost-rules", map[string]string{"x-api-key": "nope"}},
		{"bad bearer token", http.MethodGet, "/api/v1/admin/dashboard", map[string]string{"Authorization": "Bearer garbage"}},
		{"wrong scheme", http.MethodGet, "/api/v1/admin/auth/me", map[string]string{"Authorization": "Basic abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			api.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "wrong-password",
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, api, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "correct-horse-battery",
	}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login domain.LoginResponse
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	api.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me domain.AdminUserDTO
	decode(t, w, &me)
	assert.Equal(t, "admin", me.Username)
}

func TestCostRules(t *testing.T) {
	api := newTestAPI(t)

	t.Run("list", func(t *testing.T) {
		w := do(t, api, http.MethodGet, "/api/v1/admin/cost-rules", nil, true)
		require.Equal(t, http.StatusOK, w.Code)

		var rules []domain.CostRuleDTO
		decode(t, w, &rules)
		assert.NotEmpty(t, rules)
	})

	t.Run("protected rule cannot be deleted", func(t *testing.T) {
		w := do(t, api, http.MethodDelete, "/api/v1/admin/cost-rules/vat", nil, true)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown rule", func(t *testing.T) {
		w := do(t, api, http.MethodGet, "/api/v1/admin/cost-rules/does_not_exist", nil, true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update reprices previews", func(t *testing.T) {
		w := do(t, api, http.MethodPut, "/api/v1/admin/cost-rules/delivery_dubai", map[string]interface{}{"value": 650}, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = do(t, api, http.MethodPost, "/api/v1/quotations/calculate", dubaiForm(), false)
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.PricingBreakdownDTO
		decode(t, w, &got)
		assert.Equal(t, 650.0, got.DeliveryCost)
	})

	t.Run("create then duplicate", func(t *testing.T) {
		rule := map[string]interface{}{
			"id":       "edge_mitre",
			"name":     "Mitred edge",
			"category": "addon",
			"type":     "per_piece",
			"value":    120,
		}
		w := do(t, api, http.MethodPost, "/api/v1/admin/cost-rules", rule, true)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = do(t, api, http.MethodPost, "/api/v1/admin/cost-rules", rule, true)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestQuotationLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/quotations", dubaiForm(), false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.QuotationCreatedDTO
	decode(t, w, &created)
	base := "/api/v1/admin/quotations/" + created.ID.String()

	w = do(t, api, http.MethodPatch, base+"/status", map[string]string{"status": "quoted"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, api, http.MethodPatch, base+"/status", map[string]string{"status": "archived"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, api, http.MethodPut, base+"/pieces", map[string]interface{}{
		"pieces": map[string]interface{}{
			"A": map[string]interface{}{"length": 2400, "width": 600, "thickness": 20},
		},
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, api, http.MethodGet, base+"/revisions", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var revisions []domain.QuotationRevisionDTO
	decode(t, w, &revisions)
	assert.Len(t, revisions, 2)

	w = do(t, api, http.MethodGet, base+"/pdf", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), created.QuoteNumber+".pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = do(t, api, http.MethodGet, "/api/v1/admin/quotations?status=quoted", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var page domain.PaginatedResponse
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.Total)

	w = do(t, api, http.MethodDelete, base, nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, api, http.MethodGet, base, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, api, http.MethodGet, "/api/v1/admin/quotations/not-a-uuid", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileUpload(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/quotations", dubaiForm(), false)
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.QuotationCreatedDTO
	decode(t, w, &created)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("kind", "plan_sketch"))
	require.NoError(t, mw.WriteField("quotation_id", created.ID.String()))
	part, err := mw.CreateFormFile("file", "kitchen.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nsketch"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-api-key", testAPIKey)
	w = httptest.NewRecorder()
	api.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var file domain.FileDTO
	decode(t, w, &file)
	assert.Equal(t, "kitchen.png", file.Filename)

	w = do(t, api, http.MethodGet, "/api/v1/admin/files/"+file.ID.String()+"/download", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\x89PNG\r\n\x1a\nsketch", w.Body.String())

	w = do(t, api, http.MethodGet, "/api/v1/admin/quotations/"+created.ID.String()+"/files", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var files []domain.FileDTO
	decode(t, w, &files)
	assert.Len(t, files, 1)

	w = do(t, api, http.MethodGet, "/api/v1/admin/files?kind=plan_sketch", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	files = nil
	decode(t, w, &files)
	require.Len(t, files, 1)
	assert.Equal(t, file.ID, files[0].ID)

	w = do(t, api, http.MethodGet, "/api/v1/admin/files?kind=slab_photo", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	files = nil
	decode(t, w, &files)
	assert.Empty(t, files)

	w = do(t, api, http.MethodGet, "/api/v1/admin/files?kind=invoice", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, api, http.MethodGet, "/api/v1/admin/files?quotation_id=not-a-uuid", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileUpload_RejectsMismatchedContent(t *testing.T) {
	api := newTestAPI(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "kitchen.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4\n%plan\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-api-key", testAPIKey)
	w := httptest.NewRecorder()
	api.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestGetQuotationByQuoteNumber(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/quotations", dubaiForm(), false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.QuotationCreatedDTO
	decode(t, w, &created)

	tests := []struct {
		name       string
		number     string
		wantStatus int
	}{
		{name: "exact", number: created.QuoteNumber, wantStatus: http.StatusOK},
		{name: "lower case", number: strings.ToLower(created.QuoteNumber), wantStatus: http.StatusOK},
		{name: "unknown", number: "LUX-1999-0001", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, api, http.MethodGet, "/api/v1/admin/quotations/number/"+tt.number, nil, true)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got domain.QuotationDTO
			decode(t, w, &got)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.QuoteNumber, got.QuoteNumber)
		})
	}
}

func TestFormFields(t *testing.T) {
	api := newTestAPI(t)

	field := map[string]interface{}{
		"id":            "edge_profile",
		"type":          "select",
		"label":         "Edge profile",
		"required":      true,
		"options":       []string{"Straight", "Bevel"},
		"step_number":   3,
		"display_order": 1,
	}
	w := do(t, api, http.MethodPost, "/api/v1/admin/form-fields", field, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/v1/admin/form-fields/edge_profile", w.Header().Get("Location"))

	w = do(t, api, http.MethodPost, "/api/v1/admin/form-fields", field, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, api, http.MethodPost, "/api/v1/admin/form-fields", map[string]interface{}{
		"id": "bad", "type": "slider", "label": "Bad", "step_number": 11, "display_order": 1,
	}, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var problem domain.APIError
	decode(t, w, &problem)
	assert.Contains(t, problem.Errors, "type")
	assert.Contains(t, problem.Errors, "step_number")

	w = do(t, api, http.MethodPost, "/api/v1/admin/form-fields", map[string]interface{}{
		"id": "notes", "type": "textarea", "label": "Notes", "step_number": 4, "display_order": 1, "is_visible": false,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The public form only sees visible fields
	w = do(t, api, http.MethodGet, "/api/v1/settings/form-fields", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var public []domain.FormFieldDTO
	decode(t, w, &public)
	require.Len(t, public, 1)
	assert.Equal(t, "edge_profile", public[0].ID)
	assert.Equal(t, []string{"Straight", "Bevel"}, public[0].Options)

	w = do(t, api, http.MethodGet, "/api/v1/admin/form-fields", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var all []domain.FormFieldDTO
	decode(t, w, &all)
	assert.Len(t, all, 2)

	w = do(t, api, http.MethodPut, "/api/v1/admin/form-fields/edge_profile", map[string]interface{}{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, api, http.MethodPut, "/api/v1/admin/form-fields/edge_profile", map[string]interface{}{"label": "Edge finish"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated domain.FormFieldDTO
	decode(t, w, &updated)
	assert.Equal(t, "Edge finish", updated.Label)

	w = do(t, api, http.MethodDelete, "/api/v1/admin/form-fields/edge_profile", nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, api, http.MethodDelete, "/api/v1/admin/form-fields/edge_profile", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, api, http.MethodGet, "/api/v1/admin/audit-logs?entity_type=FormField", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var page domain.PaginatedResponse
	decode(t, w, &page)
	assert.Equal(t, int64(4), page.Total, "two creates, one update and one delete")
}

func TestAnalytics(t *testing.T) {
	api := newTestAPI(t)

	for i := 0; i < 2; i++ {
		w := do(t, api, http.MethodPost, "/api/v1/quotations", dubaiForm(), false)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(t, api, http.MethodGet, "/api/v1/admin/analytics", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var analytics domain.AnalyticsDTO
	decode(t, w, &analytics)
	assert.Equal(t, 30, analytics.PeriodDays)
	assert.Len(t, analytics.QuoteTrends, 30)
	assert.Equal(t, int64(2), analytics.ConversionStats.TotalQuotes)
	assert.Equal(t, int64(2), analytics.ConversionStats.PendingQuotes)
	require.Len(t, analytics.ServiceAnalytics, 1)
	assert.Equal(t, 1337.62, analytics.ServiceAnalytics[0].AverageAmount)
	require.Len(t, analytics.TopDesigners, 1)
	assert.Equal(t, "Dana Designer", analytics.TopDesigners[0].DesignerName)
	assert.Equal(t, int64(2), analytics.TopDesigners[0].QuoteCount)

	w = do(t, api, http.MethodGet, "/api/v1/admin/analytics?period=7", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	analytics = domain.AnalyticsDTO{}
	decode(t, w, &analytics)
	assert.Len(t, analytics.QuoteTrends, 7)

	w = do(t, api, http.MethodGet, "/api/v1/admin/analytics?period=400", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompanySettings(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPut, "/api/v1/admin/settings/company", map[string]interface{}{
		"company_name":    "Luxone Stone",
		"aed_to_usd_rate": 3.6725,
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, api, http.MethodGet, "/api/v1/settings/company", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	var settings domain.CompanySettingsDTO
	decode(t, w, &settings)
	assert.Equal(t, "Luxone Stone", settings.CompanyName)
	assert.Equal(t, 3.6725, settings.AEDToUSDRate)
}

func TestAuditTrail(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPut, "/api/v1/admin/cost-rules/margin", map[string]interface{}{"value": 25}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, api, http.MethodPost, "/api/v1/admin/cost-rules/steel_frame/toggle", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Failed changes are not recorded
	w = do(t, api, http.MethodDelete, "/api/v1/admin/cost-rules/vat", nil, true)
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, api, http.MethodGet, "/api/v1/admin/audit-logs?entity_type=CostRule", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page struct {
		Data  []domain.AuditLogDTO `json:"data"`
		Total int64                `json:"total"`
	}
	decode(t, w, &page)
	require.Equal(t, int64(2), page.Total)

	byID := map[string]domain.AuditLogDTO{}
	for _, entry := range page.Data {
		byID[entry.EntityID] = entry
		assert.Equal(t, "system", entry.Username)
		assert.Equal(t, domain.AuditActionUpdate, entry.Action)
	}
	require.Contains(t, byID, "margin")
	require.Contains(t, byID, "steel_frame")
	assert.JSONEq(t, `{"value":25}`, string(byID["margin"].RequestBody))

	w = do(t, api, http.MethodGet, "/api/v1/admin/audit-logs?action=rename", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
