package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/GoodNightBuddy/realtor-app/internal/models"
	"github.com/GoodNightBuddy/realtor-app/internal/repositories"

	"github.com/google/uuid"
)

type InquiryService interface {
	Inquire(ctx context.Context, buyerID, listingID uuid.UUID, message string) (*models.Message, error)
	// MessagesForListing does not check ownership; callers must.
	MessagesForListing(ctx context.Context, listingID uuid.UUID) ([]*models.InquiryView, error)
}

type inquiryService struct {
	listings    ListingService
	messageRepo repositories.MessageRepository
	notifier    NotificationService
}

// NewInquiryService wires the inquiry flow. notifier may be nil.
func NewInquiryService(listings ListingService, messageRepo repositories.MessageRepository, notifier NotificationService) InquiryService {
	return &inquiryService{listings: listings, messageRepo: messageRepo, notifier: notifier}
}

func (s *inquiryService) Inquire(ctx context.Context, buyerID, listingID uuid.UUID, message string) (*models.Message, error) {
	realtorID, err := s.listings.GetRealtorID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:        uuid.New(),
		Message:   strings.TrimSpace(message),
		BuyerID:   buyerID,
		RealtorID: realtorID,
		ListingID: listingID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyInquiry(ctx, msg); err != nil {
			log.Printf("WARN: inquiry %s saved but realtor not notified: %v", msg.ID, err)
		}
	}
	return msg, nil
}

func (s *inquiryService) MessagesForListing(ctx context.Context, listingID uuid.UUID) ([]*models.InquiryView, error) {
	messages, err := s.messageRepo.ListByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
