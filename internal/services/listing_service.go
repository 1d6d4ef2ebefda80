package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/caching"
	"github.com/GoodNightBuddy/realtor-app/internal/models"
	"github.com/GoodNightBuddy/realtor-app/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	DefaultListingLimit = 50
	MaxListingLimit     = 1000
	listingCacheTTL     = 15 * time.Minute
)

// CreateListingParams describes a new listing and the URLs of its images.
type CreateListingParams struct {
	Address           string
	City              string
	Price             float64
	PropertyType      models.PropertyType
	NumberOfBedrooms  float64
	NumberOfBathrooms float64
	LandSize          float64
	ImageURLs         []string
}

type ListingService interface {
	List(ctx context.Context, filter *models.ListingFilter) ([]*models.ListingSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ListingDetail, error)
	Create(ctx context.Context, params CreateListingParams, realtorID uuid.UUID) (*models.Listing, error)
	UpdateByID(ctx context.Context, id uuid.UUID, update *models.ListingUpdate) (*models.Listing, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	GetRealtorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	AddImage(ctx context.Context, listingID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*models.Image, error)
}

type listingService struct {
	listingRepo repositories.ListingRepository
	imageRepo   repositories.ImageRepository
	cacheSvc    caching.CacheService
	storage     ImageStorage
}

func NewListingService(listingRepo repositories.ListingRepository, imageRepo repositories.ImageRepository, cacheSvc caching.CacheService, storage ImageStorage) ListingService {
	return &listingService{
		listingRepo: listingRepo,
		imageRepo:   imageRepo,
		cacheSvc:    cacheSvc,
		storage:     storage,
	}
}

func (s *listingService) List(ctx context.Context, filter *models.ListingFilter) ([]*models.ListingSummary, error) {
	if filter == nil {
		filter = &models.ListingFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListingLimit
	}
	if filter.Limit > MaxListingLimit {
		filter.Limit = MaxListingLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	listings, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	if len(listings) == 0 {
		return nil, ErrNotFound
	}
	return listings, nil
}

func (s *listingService) GetByID(ctx context.Context, id uuid.UUID) (*models.ListingDetail, error) {
	if cached, err := s.cacheSvc.GetListing(ctx, id); err != nil {
		log.Printf("WARN: listing cache read failed for %s: %v", id, err)
	} else if cached != nil {
		return cached, nil
	}

	detail, err := s.listingRepo.GetWithRealtor(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	images, err := s.imageRepo.GetByListingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing images: %w", err)
	}
	detail.Images = images

	if err := s.cacheSvc.SetListing(ctx, detail, listingCacheTTL); err != nil {
		log.Printf("WARN: listing cache write failed for %s: %v", id, err)
	}
	return detail, nil
}

func (s *listingService) Create(ctx context.Context, params CreateListingParams, realtorID uuid.UUID) (*models.Listing, error) {
	listing := &models.Listing{
		ID:                uuid.New(),
		Address:           params.Address,
		City:              params.City,
		Price:             params.Price,
		PropertyType:      params.PropertyType,
		NumberOfBedrooms:  params.NumberOfBedrooms,
		NumberOfBathrooms: params.NumberOfBathrooms,
		LandSize:          params.LandSize,
		RealtorID:         realtorID,
	}

	// Staggered timestamps keep the submitted order as the read order.
	now := time.Now().UTC()
	images := make([]*models.Image, 0, len(params.ImageURLs))
	for i, url := range params.ImageURLs {
		images = append(images, &models.Image{
			ID:        uuid.New(),
			ListingID: listing.ID,
			URL:       url,
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}

	if err := s.listingRepo.CreateWithImages(ctx, listing, images); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	log.Printf("listing %s created by realtor %s with %d images", listing.ID, realtorID, len(images))
	return listing, nil
}

func (s *listingService) UpdateByID(ctx context.Context, id uuid.UUID, update *models.ListingUpdate) (*models.Listing, error) {
	if update == nil || update.IsEmpty() {
		listing, err := s.listingRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get listing: %w", err)
		}
		return listing, nil
	}

	listing, err := s.listingRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	s.invalidate(ctx, id)
	return listing, nil
}

func (s *listingService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	images, err := s.imageRepo.GetByListingID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get listing images: %w", err)
	}

	if err := s.listingRepo.DeleteWithImages(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	s.invalidate(ctx, id)

	for _, img := range images {
		if img.ObjectKey == nil {
			continue
		}
		if err := s.storage.Delete(ctx, *img.ObjectKey); err != nil {
			log.Printf("WARN: failed to remove object %s for deleted listing %s: %v", *img.ObjectKey, id, err)
		}
	}
	return nil
}

func (s *listingService) GetRealtorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	realtorID, err := s.listingRepo.GetRealtorID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to get listing owner: %w", err)
	}
	return realtorID, nil
}

func (s *listingService) AddImage(ctx context.Context, listingID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*models.Image, error) {
	key, url, err := s.storage.Upload(ctx, listingID, filename, contentType, reader, size)
	if err != nil {
		return nil, err
	}

	image := &models.Image{
		ID:        uuid.New(),
		ListingID: listingID,
		URL:       url,
		ObjectKey: &key,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Printf("WARN: failed to remove orphaned object %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("failed to record image: %w", err)
	}
	s.invalidate(ctx, listingID)
	return image, nil
}

func (s *listingService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cacheSvc.DeleteListing(ctx, id); err != nil {
		log.Printf("WARN: failed to invalidate listing cache for %s: %v", id, err)
	}
}
