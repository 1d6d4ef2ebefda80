package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ListingRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ListingRepository
	listingID uuid.UUID
	realtorID uuid.UUID
	context   context.Context
}

func (suite *ListingRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewListingRepo(mock)
	suite.listingID = uuid.New()
	suite.realtorID = uuid.New()
	suite.context = context.Background()
}

func (suite *ListingRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestListingRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ListingRepoTestSuite))
}

func stringPtr(s string) *string  { return &s }
func floatPtr(f float64) *float64 { return &f }

func (suite *ListingRepoTestSuite) newListing() *models.Listing {
	return &models.Listing{
		ID:                suite.listingID,
		Address:           "79 Collar St",
		City:              "Toronto",
		Price:             140000,
		PropertyType:      models.PropertyTypeCondo,
		NumberOfBedrooms:  2,
		NumberOfBathrooms: 1.5,
		LandSize:          0.2,
		RealtorID:         suite.realtorID,
	}
}

func (suite *ListingRepoTestSuite) TestCreateWithImages_Success() {
	listing := suite.newListing()
	now := time.Now()
	images := []*models.Image{
		{ID: uuid.New(), ListingID: listing.ID, URL: "https://example.com/images/home6.jpg", CreatedAt: now},
		{ID: uuid.New(), ListingID: listing.ID, URL: "https://example.com/images/home7.jpg", CreatedAt: now},
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO listings`)).
		WithArgs(listing.ID, listing.Address, listing.City, listing.Price, "CONDO",
			listing.NumberOfBedrooms, listing.NumberOfBathrooms, listing.LandSize, listing.RealtorID).
		WillReturnRows(pgxmock.NewRows([]string{"listed_date", "updated_at"}).AddRow(now, now))
	suite.mock.ExpectCopyFrom(pgx.Identifier{"images"}, imageColumns).WillReturnResult(2)
	suite.mock.ExpectCommit()

	err := suite.repo.CreateWithImages(suite.context, listing, images)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), now, listing.ListedDate)
}

func (suite *ListingRepoTestSuite) TestCreateWithImages_ImageFailureRollsBack() {
	listing := suite.newListing()
	now := time.Now()
	images := []*models.Image{{ID: uuid.New(), ListingID: listing.ID, URL: "https://example.com/a.jpg", CreatedAt: now}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO listings`)).
		WithArgs(listing.ID, listing.Address, listing.City, listing.Price, "CONDO",
			listing.NumberOfBedrooms, listing.NumberOfBathrooms, listing.LandSize, listing.RealtorID).
		WillReturnRows(pgxmock.NewRows([]string{"listed_date", "updated_at"}).AddRow(now, now))
	suite.mock.ExpectCopyFrom(pgx.Identifier{"images"}, imageColumns).WillReturnError(errors.New("fk violation"))
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithImages(suite.context, listing, images)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "insert images")
}

func (suite *ListingRepoTestSuite) TestCreateWithImages_NoImagesSkipsCopy() {
	listing := suite.newListing()
	now := time.Now()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO listings`)).
		WithArgs(listing.ID, listing.Address, listing.City, listing.Price, "CONDO",
			listing.NumberOfBedrooms, listing.NumberOfBathrooms, listing.LandSize, listing.RealtorID).
		WillReturnRows(pgxmock.NewRows([]string{"listed_date", "updated_at"}).AddRow(now, now))
	suite.mock.ExpectCommit()

	assert.NoError(suite.T(), suite.repo.CreateWithImages(suite.context, listing, nil))
}

func (suite *ListingRepoTestSuite) TestGetRealtorID_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT realtor_id FROM listings WHERE id = $1`)).
		WithArgs(suite.listingID).
		WillReturnError(pgx.ErrNoRows)

	id, err := suite.repo.GetRealtorID(suite.context, suite.listingID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Equal(suite.T(), uuid.Nil, id)
}

func (suite *ListingRepoTestSuite) TestGetRealtorID_Success() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT realtor_id FROM listings WHERE id = $1`)).
		WithArgs(suite.listingID).
		WillReturnRows(pgxmock.NewRows([]string{"realtor_id"}).AddRow(suite.realtorID))

	id, err := suite.repo.GetRealtorID(suite.context, suite.listingID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.realtorID, id)
}

func (suite *ListingRepoTestSuite) TestList_CityAndPriceRange() {
	listedDate := time.Now()
	filter := &models.ListingFilter{
		City:     stringPtr("Chicago"),
		MinPrice: floatPtr(100000),
		MaxPrice: floatPtr(300000),
		Limit:    50,
	}

	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE l.city = $1 AND l.price >= $2 AND l.price <= $3`)).
		WithArgs("Chicago", float64(100000), float64(300000), 50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "address", "city", "price", "property_type", "number_of_bedrooms",
			"number_of_bathrooms", "land_size", "listed_date", "image"}).
			AddRow(suite.listingID, "789 Pine Rd", "Chicago", float64(275000), "RESIDENTIAL", 1.5, 1.0, 0.15, listedDate,
				"https://example.com/images/home3.jpg"))

	listings, err := suite.repo.List(suite.context, filter)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), listings, 1)
	assert.Equal(suite.T(), models.PropertyTypeResidential, listings[0].PropertyType)
	assert.Equal(suite.T(), "https://example.com/images/home3.jpg", listings[0].Image)
}

func (suite *ListingRepoTestSuite) TestList_Offset() {
	filter := &models.ListingFilter{Limit: 10, Offset: 20}

	suite.mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY l.listed_date DESC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "address", "city", "price", "property_type", "number_of_bedrooms",
			"number_of_bathrooms", "land_size", "listed_date", "image"}))

	listings, err := suite.repo.List(suite.context, filter)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), listings)
}

func (suite *ListingRepoTestSuite) TestUpdate_OnlyGivenColumns() {
	now := time.Now()
	update := &models.ListingUpdate{Price: floatPtr(150000), City: stringPtr("Ottawa")}

	suite.mock.ExpectQuery(regexp.QuoteMeta(`UPDATE listings SET city = $1, price = $2, updated_at = NOW() WHERE id = $3`)).
		WithArgs("Ottawa", float64(150000), suite.listingID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "address", "city", "price", "property_type", "number_of_bedrooms",
			"number_of_bathrooms", "land_size", "listed_date", "realtor_id", "updated_at"}).
			AddRow(suite.listingID, "79 Collar St", "Ottawa", float64(150000), "CONDO", 2.0, 1.5, 0.2, now, suite.realtorID, now))

	listing, err := suite.repo.Update(suite.context, suite.listingID, update)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ottawa", listing.City)
	assert.Equal(suite.T(), float64(150000), listing.Price)
	assert.Equal(suite.T(), suite.realtorID, listing.RealtorID)
}

func (suite *ListingRepoTestSuite) TestDeleteWithImages_DeletesImagesFirst() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM images WHERE listing_id = $1`)).
		WithArgs(suite.listingID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM listings WHERE id = $1`)).
		WithArgs(suite.listingID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectCommit()

	assert.NoError(suite.T(), suite.repo.DeleteWithImages(suite.context, suite.listingID))
}

func (suite *ListingRepoTestSuite) TestDeleteWithImages_MissingListing() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM images WHERE listing_id = $1`)).
		WithArgs(suite.listingID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM listings WHERE id = $1`)).
		WithArgs(suite.listingID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.DeleteWithImages(suite.context, suite.listingID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func TestBuildListingFilter(t *testing.T) {
	condo := models.PropertyTypeCondo

	tests := []struct {
		name      string
		filter    *models.ListingFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "no predicates",
			filter:    &models.ListingFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "city only",
			filter:    &models.ListingFilter{City: stringPtr("Chicago")},
			wantWhere: " WHERE l.city = $1",
			wantArgs:  []interface{}{"Chicago"},
		},
		{
			name:      "price range only",
			filter:    &models.ListingFilter{MinPrice: floatPtr(100000), MaxPrice: floatPtr(300000)},
			wantWhere: " WHERE l.price >= $1 AND l.price <= $2",
			wantArgs:  []interface{}{float64(100000), float64(300000)},
		},
		{
			name:      "upper bound only",
			filter:    &models.ListingFilter{MaxPrice: floatPtr(300000)},
			wantWhere: " WHERE l.price <= $1",
			wantArgs:  []interface{}{float64(300000)},
		},
		{
			name:      "city and price range",
			filter:    &models.ListingFilter{City: stringPtr("Chicago"), MinPrice: floatPtr(100000), MaxPrice: floatPtr(300000)},
			wantWhere: " WHERE l.city = $1 AND l.price >= $2 AND l.price <= $3",
			wantArgs:  []interface{}{"Chicago", float64(100000), float64(300000)},
		},
		{
			name:      "all predicates",
			filter:    &models.ListingFilter{City: stringPtr("Toronto"), PropertyType: &condo, MinPrice: floatPtr(1)},
			wantWhere: " WHERE l.city = $1 AND l.property_type = $2 AND l.price >= $3",
			wantArgs:  []interface{}{"Toronto", "CONDO", float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildListingFilter(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
			if tt.filter.PropertyType == nil {
				assert.NotContains(t, where, "property_type")
			}
			if tt.filter.City == nil {
				assert.NotContains(t, where, "city")
			}
		})
	}
}
