package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FormFieldService manages the configurable inputs of the public quotation form
type FormFieldService struct {
	repo   *repository.FormFieldRepository
	logger *zap.Logger
}

// NewFormFieldService creates a new FormFieldService
func NewFormFieldService(repo *repository.FormFieldRepository, logger *zap.Logger) *FormFieldService {
	return &FormFieldService{
		repo:   repo,
		logger: logger,
	}
}

// List returns form fields ordered by step and display order
func (s *FormFieldService) List(ctx context.Context, visibleOnly bool) ([]domain.FormFieldDTO, error) {
	fields, err := s.repo.List(ctx, visibleOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list form fields: %w", err)
	}

	dtos := make([]domain.FormFieldDTO, len(fields))
	for i := range fields {
		dtos[i] = mapper.ToFormFieldDTO(&fields[i])
	}
	return dtos, nil
}

// GetByID returns one form field
func (s *FormFieldService) GetByID(ctx context.Context, id string) (*domain.FormFieldDTO, error) {
	field, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToFormFieldDTO(field)
	return &dto, nil
}

func (s *FormFieldService) get(ctx context.Context, id string) (*domain.FormField, error) {
	field, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFormFieldNotFound, id)
		}
		return nil, fmt.Errorf("failed to get form field: %w", err)
	}
	return field, nil
}

// Create adds a form field. Fields are visible unless the request says otherwise.
func (s *FormFieldService) Create(ctx context.Context, req *domain.CreateFormFieldRequest) (*domain.FormFieldDTO, error) {
	field := &domain.FormField{
		ID:           strings.TrimSpace(req.ID),
		Type:         req.Type,
		Label:        req.Label,
		Placeholder:  req.Placeholder,
		Required:     req.Required,
		Options:      datatypes.NewJSONType(req.Options),
		StepNumber:   req.StepNumber,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
		IsVisible:    true,
	}
	if req.IsVisible != nil {
		field.IsVisible = *req.IsVisible
	}
	if req.Validation != nil {
		field.Validation = datatypes.NewJSONType(*req.Validation)
	}
	if err := validateFormField(field); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByID(ctx, field.ID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: form field %s already exists", ErrConflict, field.ID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to get form field: %w", err)
	}

	if err := s.repo.Create(ctx, field); err != nil {
		return nil, fmt.Errorf("failed to create form field: %w", err)
	}

	s.logger.Info("form field created",
		zap.String("field_id", field.ID),
		zap.String("type", string(field.Type)),
		zap.String("actor", auth.ActorName(ctx)),
	)

	dto := mapper.ToFormFieldDTO(field)
	return &dto, nil
}

// Update edits the provided fields. A request that changes nothing is rejected.
func (s *FormFieldService) Update(ctx context.Context, id string, req *domain.UpdateFormFieldRequest) (*domain.FormFieldDTO, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	field, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		field.Type = *req.Type
	}
	if req.Label != nil {
		field.Label = *req.Label
	}
	if req.Placeholder != nil {
		field.Placeholder = *req.Placeholder
	}
	if req.Required != nil {
		field.Required = *req.Required
	}
	if req.Options != nil {
		field.Options = datatypes.NewJSONType(req.Options)
	}
	if req.Validation != nil {
		field.Validation = datatypes.NewJSONType(*req.Validation)
	}
	if req.StepNumber != nil {
		field.StepNumber = *req.StepNumber
	}
	if req.Category != nil {
		field.Category = *req.Category
	}
	if req.DisplayOrder != nil {
		field.DisplayOrder = *req.DisplayOrder
	}
	if req.IsVisible != nil {
		field.IsVisible = *req.IsVisible
	}
	if err := validateFormField(field); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, field); err != nil {
		return nil, fmt.Errorf("failed to update form field: %w", err)
	}

	s.logger.Info("form field updated",
		zap.String("field_id", field.ID),
		zap.String("actor", auth.ActorName(ctx)),
	)

	dto := mapper.ToFormFieldDTO(field)
	return &dto, nil
}

// Delete removes a form field
func (s *FormFieldService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete form field: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrFormFieldNotFound, id)
	}

	s.logger.Info("form field deleted",
		zap.String("field_id", id),
		zap.String("actor", auth.ActorName(ctx)),
	)
	return nil
}

// validateFormField checks the rules that span several attributes
func validateFormField(field *domain.FormField) error {
	if field.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if !field.Type.IsValid() {
		return fmt.Errorf("%w: unknown field type %q", ErrInvalidInput, field.Type)
	}
	if field.Type.HasOptions() && len(field.Options.Data()) == 0 {
		return fmt.Errorf("%w: %s fields need at least one option", ErrInvalidInput, field.Type)
	}

	v := field.Validation.Data()
	if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
		return fmt.Errorf("%w: validation min exceeds max", ErrInvalidInput)
	}
	if v.Pattern != "" {
		if _, err := regexp.Compile(v.Pattern); err != nil {
			return fmt.Errorf("%w: invalid validation pattern: %v", ErrInvalidInput, err)
		}
	}
	return nil
}
