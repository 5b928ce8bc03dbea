package service_test

import (
	"context"
	"testing"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func formFieldRequest(id string, step, order int) *domain.CreateFormFieldRequest {
	return &domain.CreateFormFieldRequest{
		ID:           id,
		Type:         domain.FormFieldText,
		Label:        "Field " + id,
		StepNumber:   step,
		DisplayOrder: order,
	}
}

func TestFormFieldService_CreateAndList(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	hidden := formFieldRequest("internal_notes", 1, 1)
	hidden.IsVisible = boolPtr(false)
	for _, req := range []*domain.CreateFormFieldRequest{
		formFieldRequest("timeline", 2, 1),
		formFieldRequest("customer_name", 1, 2),
		hidden,
	} {
		_, err := svc.formFields.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.formFields.List(ctx, false)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, f := range all {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{"internal_notes", "customer_name", "timeline"}, ids)

	visible, err := svc.formFields.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "customer_name", visible[0].ID)
	assert.True(t, visible[0].IsVisible)
}

func TestFormFieldService_CreateStoresOptionsAndValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	req := formFieldRequest("edge_profile", 3, 1)
	req.Type = domain.FormFieldSelect
	req.Required = true
	req.Options = []string{"Straight", "Bevel", "Ogee"}
	req.Validation = &domain.FormFieldValidation{Pattern: "^[A-Za-z]+$"}

	_, err := svc.formFields.Create(ctx, req)
	require.NoError(t, err)

	got, err := svc.formFields.GetByID(ctx, "edge_profile")
	require.NoError(t, err)
	assert.Equal(t, domain.FormFieldSelect, got.Type)
	assert.True(t, got.Required)
	assert.Equal(t, []string{"Straight", "Bevel", "Ogee"}, got.Options)
	require.NotNil(t, got.Validation)
	assert.Equal(t, "^[A-Za-z]+$", got.Validation.Pattern)

	plain, err := svc.formFields.Create(ctx, formFieldRequest("plain", 1, 1))
	require.NoError(t, err)
	assert.Nil(t, plain.Validation)
	assert.Empty(t, plain.Options)
}

func TestFormFieldService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *domain.CreateFormFieldRequest)
		wantErr error
	}{
		{
			name:    "unknown type",
			modify:  func(r *domain.CreateFormFieldRequest) { r.Type = "slider" },
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "blank id",
			modify:  func(r *domain.CreateFormFieldRequest) { r.ID = "   " },
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "select without options",
			modify:  func(r *domain.CreateFormFieldRequest) { r.Type = domain.FormFieldSelect },
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "min above max",
			modify: func(r *domain.CreateFormFieldRequest) {
				r.Type = domain.FormFieldNumber
				r.Validation = &domain.FormFieldValidation{Min: floatPtr(10), Max: floatPtr(1)}
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "bad pattern",
			modify: func(r *domain.CreateFormFieldRequest) {
				r.Validation = &domain.FormFieldValidation{Pattern: "([a-z"}
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "duplicate id",
			modify:  func(r *domain.CreateFormFieldRequest) { r.ID = "existing" },
			wantErr: service.ErrConflict,
		},
		{
			name: "radio with options",
			modify: func(r *domain.CreateFormFieldRequest) {
				r.Type = domain.FormFieldRadio
				r.Options = []string{"Yes", "No"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(t)
			ctx := context.Background()
			_, err := svc.formFields.Create(ctx, formFieldRequest("existing", 1, 1))
			require.NoError(t, err)

			req := formFieldRequest("new_field", 1, 2)
			tt.modify(req)
			_, err = svc.formFields.Create(ctx, req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFormFieldService_Update(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.formFields.Create(ctx, formFieldRequest("budget", 2, 1))
	require.NoError(t, err)

	updated, err := svc.formFields.Update(ctx, "budget", &domain.UpdateFormFieldRequest{
		Label:        strPtr("Budget (AED)"),
		IsVisible:    boolPtr(false),
		DisplayOrder: intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "Budget (AED)", updated.Label)
	assert.False(t, updated.IsVisible)
	assert.Equal(t, 4, updated.DisplayOrder)
	assert.Equal(t, 2, updated.StepNumber)

	visible, err := svc.formFields.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	_, err = svc.formFields.Update(ctx, "budget", &domain.UpdateFormFieldRequest{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	selectType := domain.FormFieldSelect
	_, err = svc.formFields.Update(ctx, "budget", &domain.UpdateFormFieldRequest{Type: &selectType})
	assert.ErrorIs(t, err, service.ErrInvalidInput, "select needs options")

	_, err = svc.formFields.Update(ctx, "missing", &domain.UpdateFormFieldRequest{Label: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrFormFieldNotFound)
}

func TestFormFieldService_Delete(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.formFields.Create(ctx, formFieldRequest("phone", 1, 1))
	require.NoError(t, err)

	require.NoError(t, svc.formFields.Delete(ctx, "phone"))

	_, err = svc.formFields.GetByID(ctx, "phone")
	assert.ErrorIs(t, err, service.ErrFormFieldNotFound)

	err = svc.formFields.Delete(ctx, "phone")
	assert.ErrorIs(t, err, service.ErrFormFieldNotFound)
}
