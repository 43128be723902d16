package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"yield-service/internal/database/minio"
	"yield-service/internal/models"
	"yield-service/internal/repository"

	"github.com/google/uuid"
)

// CatalogService manages the read-mostly month catalog and its images.
type CatalogService struct {
	monthRepo *repository.MonthRepository
	storage   *minio.MinioClient
}

func NewCatalogService(monthRepo *repository.MonthRepository, storage *minio.MinioClient) *CatalogService {
	return &CatalogService{
		monthRepo: monthRepo,
		storage:   storage,
	}
}

// ListMonths retrieves active months, filtered by a case-insensitive name
// prefix when q is non-empty.
func (s *CatalogService) ListMonths(ctx context.Context, q string) ([]models.Month, error) {
	months, err := s.monthRepo.ListActive(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}

	for i := range months {
		s.fillImageURL(&months[i])
	}

	return months, nil
}

// GetMonth retrieves an active month; inactive months are NotFound to readers.
func (s *CatalogService) GetMonth(ctx context.Context, id int64) (*models.Month, error) {
	month, err := s.monthRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.fillImageURL(month)
	return month, nil
}

// CreateMonth adds a catalog entry.
func (s *CatalogService) CreateMonth(ctx context.Context, req models.MonthCreateRequest) (*models.Month, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", models.ErrValidation)
	}
	if req.BaseYield.IsNegative() || req.IdealPrecip < 0 {
		return nil, fmt.Errorf("base_yield and ideal_precip must be non-negative: %w", models.ErrValidation)
	}

	month := &models.Month{
		Name:          req.Name,
		Description:   req.Description,
		MainValue:     req.MainValue,
		BaseYield:     req.BaseYield,
		IdealTemp:     req.IdealTemp,
		IdealPrecip:   req.IdealPrecip,
		Temperature:   req.Temperature,
		Precipitation: req.Precipitation,
	}

	if err := s.monthRepo.Create(ctx, month); err != nil {
		return nil, err
	}

	return month, nil
}

// UpdateMonth applies the non-nil fields of the patch.
func (s *CatalogService) UpdateMonth(ctx context.Context, id int64, req models.MonthUpdateRequest) (*models.Month, error) {
	month, err := s.monthRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", models.ErrValidation)
		}
		month.Name = *req.Name
	}
	if req.Description != nil {
		month.Description = *req.Description
	}
	if req.MainValue != nil {
		month.MainValue = *req.MainValue
	}
	if req.BaseYield != nil {
		if req.BaseYield.IsNegative() {
			return nil, fmt.Errorf("base_yield must be non-negative: %w", models.ErrValidation)
		}
		month.BaseYield = *req.BaseYield
	}
	if req.IdealTemp != nil {
		month.IdealTemp = *req.IdealTemp
	}
	if req.IdealPrecip != nil {
		if *req.IdealPrecip < 0 {
			return nil, fmt.Errorf("ideal_precip must be non-negative: %w", models.ErrValidation)
		}
		month.IdealPrecip = *req.IdealPrecip
	}
	if req.Temperature != nil {
		month.Temperature = req.Temperature
	}
	if req.Precipitation != nil {
		month.Precipitation = req.Precipitation
	}

	if err := s.monthRepo.Update(ctx, month); err != nil {
		return nil, err
	}

	s.fillImageURL(month)
	return month, nil
}

// DeactivateMonth soft-deletes a catalog entry: the attached image object is
// removed best-effort, the image reference is cleared and the status flag is
// flipped. The row itself stays for historical orders.
func (s *CatalogService) DeactivateMonth(ctx context.Context, id int64) error {
	month, err := s.monthRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if month.ImageKey != nil {
		if err := s.storage.DeleteFile(ctx, minio.MonthImagesBucket, *month.ImageKey); err != nil {
			slog.Warn("Failed to delete month image, continuing", "month_id", id, "key", *month.ImageKey, "error", err)
		}
	}

	return s.monthRepo.Deactivate(ctx, id)
}

// UploadImage stores a new image for the month, replacing and best-effort
// deleting the previous object.
func (s *CatalogService) UploadImage(ctx context.Context, id int64, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	month, err := s.monthRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("months/%d/%s%s", id, uuid.NewString(), filepath.Ext(filename))
	if err := s.storage.UploadFile(ctx, minio.MonthImagesBucket, key, reader, size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload month image: %w", err)
	}

	if month.ImageKey != nil {
		if err := s.storage.DeleteFile(ctx, minio.MonthImagesBucket, *month.ImageKey); err != nil {
			slog.Warn("Failed to delete previous month image, continuing", "month_id", id, "key", *month.ImageKey, "error", err)
		}
	}

	if err := s.monthRepo.SetImageKey(ctx, id, &key); err != nil {
		return "", err
	}

	return key, nil
}

func (s *CatalogService) fillImageURL(month *models.Month) {
	if month.ImageKey == nil || s.storage == nil {
		return
	}
	url := s.storage.ResourceURL(minio.MonthImagesBucket, *month.ImageKey)
	month.ImageURL = &url
}
