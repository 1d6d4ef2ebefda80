package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoodNightBuddy/realtor-app/internal/common"
	"github.com/GoodNightBuddy/realtor-app/internal/models"
	"github.com/GoodNightBuddy/realtor-app/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	maxPrice         = 1e10
	maxRoomCount     = 1000
	maxLandSize      = 1e9
	maxTextLength    = 255
	maxMessageLength = 5000
	maxImagesPerPost = 50
	maxUploadBytes   = 10 << 20
)

// ListingHandlers handles the /home routes
type ListingHandlers struct {
	listingService services.ListingService
	inquiryService services.InquiryService
}

func NewListingHandlers(listingService services.ListingService, inquiryService services.InquiryService) *ListingHandlers {
	return &ListingHandlers{
		listingService: listingService,
		inquiryService: inquiryService,
	}
}

type ImageRequest struct {
	URL string `json:"url"`
}

// CreateListingRequest represents the create listing payload
type CreateListingRequest struct {
	Address           string         `json:"address"`
	City              string         `json:"city"`
	Price             float64        `json:"price"`
	PropertyType      string         `json:"propertyType"`
	NumberOfBedrooms  float64        `json:"numberOfBedrooms"`
	NumberOfBathrooms float64        `json:"numberOfBathrooms"`
	LandSize          float64        `json:"landSize"`
	Images            []ImageRequest `json:"images"`
}

// UpdateListingRequest represents a partial listing update
type UpdateListingRequest struct {
	Address           *string  `json:"address"`
	City              *string  `json:"city"`
	Price             *float64 `json:"price"`
	PropertyType      *string  `json:"propertyType"`
	NumberOfBedrooms  *float64 `json:"numberOfBedrooms"`
	NumberOfBathrooms *float64 `json:"numberOfBathrooms"`
	LandSize          *float64 `json:"landSize"`
}

type InquireRequest struct {
	Message string `json:"message"`
}

// ListListings searches listings by the optional query filters
func (h *ListingHandlers) ListListings(c echo.Context) error {
	filter, field, err := parseListingFilter(c)
	if err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	listings, err := h.listingService.List(c.Request().Context(), filter)
	if err != nil {
		return serviceError(err, "No homes found")
	}
	return c.JSON(http.StatusOK, listings)
}

func parseListingFilter(c echo.Context) (*models.ListingFilter, string, error) {
	filter := &models.ListingFilter{}

	if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
		filter.City = &city
	}
	if raw := c.QueryParam("propertyType"); raw != "" {
		pt, ok := models.ParsePropertyType(raw)
		if !ok {
			return nil, "propertyType", fmt.Errorf("propertyType must be one of RESIDENTIAL, CONDO")
		}
		filter.PropertyType = &pt
	}
	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, p.name, fmt.Errorf("%s must be a number", p.name)
		}
		*p.dst = &v
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, "minPrice", fmt.Errorf("minPrice cannot exceed maxPrice")
	}

	var limit, offset int
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &limit},
		{"offset", &offset},
	} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, p.name, fmt.Errorf("%s must be an integer", p.name)
		}
		*p.dst = v
	}
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, "pagination", err
	}
	filter.Limit = limit
	filter.Offset = offset

	return filter, "", nil
}

// GetListing returns one listing with its images and realtor contact
func (h *ListingHandlers) GetListing(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	listing, err := h.listingService.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(err, "Home with provided id not found")
	}
	return c.JSON(http.StatusOK, listing)
}

// CreateListing creates a listing owned by the calling realtor
func (h *ListingHandlers) CreateListing(c echo.Context) error {
	identity, ok := common.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	params, field, err := req.toParams()
	if err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	listing, err := h.listingService.Create(c.Request().Context(), params, identity.UserID)
	if err != nil {
		return serviceError(err, "")
	}
	return c.JSON(http.StatusCreated, listing)
}

func (r *CreateListingRequest) toParams() (services.CreateListingParams, string, error) {
	var params services.CreateListingParams

	if err := common.ValidateRequiredString(r.Address, "address"); err != nil {
		return params, "address", err
	}
	if err := common.ValidateRequiredString(r.City, "city"); err != nil {
		return params, "city", err
	}
	if r.Price <= 0 || r.Price > maxPrice {
		return params, "price", fmt.Errorf("price must be positive")
	}
	pt, ok := models.ParsePropertyType(r.PropertyType)
	if !ok {
		return params, "propertyType", fmt.Errorf("propertyType must be one of RESIDENTIAL, CONDO")
	}
	if err := common.ValidateNonNegativeFloat(r.NumberOfBedrooms, "numberOfBedrooms", maxRoomCount); err != nil {
		return params, "numberOfBedrooms", err
	}
	if err := common.ValidateNonNegativeFloat(r.NumberOfBathrooms, "numberOfBathrooms", maxRoomCount); err != nil {
		return params, "numberOfBathrooms", err
	}
	if err := common.ValidateNonNegativeFloat(r.LandSize, "landSize", maxLandSize); err != nil {
		return params, "landSize", err
	}
	if len(r.Images) > maxImagesPerPost {
		return params, "images", fmt.Errorf("images cannot exceed %d entries", maxImagesPerPost)
	}

	urls := make([]string, 0, len(r.Images))
	for i, img := range r.Images {
		url := strings.TrimSpace(img.URL)
		if url == "" {
			return params, "images", fmt.Errorf("images[%d].url is required", i)
		}
		urls = append(urls, url)
	}

	params = services.CreateListingParams{
		Address:           strings.TrimSpace(r.Address),
		City:              strings.TrimSpace(r.City),
		Price:             r.Price,
		PropertyType:      pt,
		NumberOfBedrooms:  r.NumberOfBedrooms,
		NumberOfBathrooms: r.NumberOfBathrooms,
		LandSize:          r.LandSize,
		ImageURLs:         urls,
	}
	return params, "", nil
}

func (r *UpdateListingRequest) toUpdate() (*models.ListingUpdate, string, error) {
	update := &models.ListingUpdate{
		Address:           r.Address,
		City:              r.City,
		Price:             r.Price,
		NumberOfBedrooms:  r.NumberOfBedrooms,
		NumberOfBathrooms: r.NumberOfBathrooms,
		LandSize:          r.LandSize,
	}
	if err := common.ValidateOptionalString(update.Address, "address", maxTextLength); err != nil {
		return nil, "address", err
	}
	if err := common.ValidateOptionalString(update.City, "city", maxTextLength); err != nil {
		return nil, "city", err
	}
	if r.Price != nil && (*r.Price <= 0 || *r.Price > maxPrice) {
		return nil, "price", fmt.Errorf("price must be positive")
	}
	if r.PropertyType != nil {
		pt, ok := models.ParsePropertyType(*r.PropertyType)
		if !ok {
			return nil, "propertyType", fmt.Errorf("propertyType must be one of RESIDENTIAL, CONDO")
		}
		update.PropertyType = &pt
	}
	for _, f := range []struct {
		name  string
		value *float64
		max   float64
	}{
		{"numberOfBedrooms", r.NumberOfBedrooms, maxRoomCount},
		{"numberOfBathrooms", r.NumberOfBathrooms, maxRoomCount},
		{"landSize", r.LandSize, maxLandSize},
	} {
		if f.value == nil {
			continue
		}
		if err := common.ValidateNonNegativeFloat(*f.value, f.name, f.max); err != nil {
			return nil, f.name, err
		}
	}
	return update, "", nil
}

// UpdateListing applies a partial update; only the owning realtor may call it
func (h *ListingHandlers) UpdateListing(c echo.Context) error {
	id, err := h.authorizeOwner(c)
	if err != nil {
		return err
	}

	var req UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	update, field, err := req.toUpdate()
	if err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	listing, err := h.listingService.UpdateByID(c.Request().Context(), id, update)
	if err != nil {
		return serviceError(err, "Home with provided id not found")
	}
	return c.JSON(http.StatusOK, listing)
}

// DeleteListing removes a listing and its images; only the owning realtor may call it
func (h *ListingHandlers) DeleteListing(c echo.Context) error {
	id, err := h.authorizeOwner(c)
	if err != nil {
		return err
	}

	if err := h.listingService.DeleteByID(c.Request().Context(), id); err != nil {
		return serviceError(err, "Home with provided id not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage stores a multipart "file" as a new image of the listing
func (h *ListingHandlers) UploadImage(c echo.Context) error {
	id, err := h.authorizeOwner(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return common.SendValidationError(c, "file", "file cannot exceed 10MB")
	}
	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return common.SendValidationError(c, "file", "file must be an image")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to read upload").SetInternal(err)
	}
	defer src.Close()

	image, err := h.listingService.AddImage(c.Request().Context(), id, fileHeader.Filename, contentType, src, fileHeader.Size)
	if err != nil {
		return serviceError(err, "Home with provided id not found")
	}
	return c.JSON(http.StatusCreated, image)
}

// Inquire sends a buyer's message to the listing's realtor
func (h *ListingHandlers) Inquire(c echo.Context) error {
	identity, ok := common.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req InquireRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Message, "message"); err != nil {
		return common.SendValidationError(c, "message", err.Error())
	}
	if len(req.Message) > maxMessageLength {
		return common.SendValidationError(c, "message", fmt.Sprintf("message cannot exceed %d characters", maxMessageLength))
	}

	msg, err := h.inquiryService.Inquire(c.Request().Context(), identity.UserID, id, req.Message)
	if err != nil {
		return serviceError(err, "Home with provided id not found")
	}
	return c.JSON(http.StatusCreated, msg)
}

// GetMessages lists the inquiries on a listing for its owning realtor
func (h *ListingHandlers) GetMessages(c echo.Context) error {
	id, err := h.authorizeOwner(c)
	if err != nil {
		return err
	}

	messages, err := h.inquiryService.MessagesForListing(c.Request().Context(), id)
	if err != nil {
		return serviceError(err, "")
	}
	return c.JSON(http.StatusOK, messages)
}

// authorizeOwner parses the :id param and checks that the caller owns that listing.
func (h *ListingHandlers) authorizeOwner(c echo.Context) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, ok := common.IdentityFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	realtorID, err := h.listingService.GetRealtorID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Home with provided id not found")
		}
		return uuid.Nil, serviceError(err, "")
	}
	if realtorID != identity.UserID {
		c.Logger().Infof("user %s is not the owner of listing %s", identity.UserID, id)
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}
