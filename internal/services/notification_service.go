package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// InquiryChannel is the Redis channel new-inquiry events are published on.
const InquiryChannel = "realtor:notifications:inquiry"

const EventInquiryCreated = "inquiry.created"

// InquiryEvent is the payload published when a buyer contacts a realtor.
type InquiryEvent struct {
	Type      string    `json:"type"`
	MessageID uuid.UUID `json:"messageId"`
	ListingID uuid.UUID `json:"listingId"`
	RealtorID uuid.UUID `json:"realtorId"`
	BuyerID   uuid.UUID `json:"buyerId"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationService fans domain events out to subscribers (mailers, push workers).
type NotificationService interface {
	NotifyInquiry(ctx context.Context, message *models.Message) error
}

type notificationService struct {
	redisClient *redis.Client
	now         func() time.Time
}

// NewNotificationService creates a new notification service with its own Redis client
func NewNotificationService(redisAddr, redisPassword string, redisDB int) NotificationService {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return newNotificationService(redisClient)
}

func newNotificationService(client *redis.Client) *notificationService {
	return &notificationService{redisClient: client, now: time.Now}
}

func (s *notificationService) NotifyInquiry(ctx context.Context, message *models.Message) error {
	event := InquiryEvent{
		Type:      EventInquiryCreated,
		MessageID: message.ID,
		ListingID: message.ListingID,
		RealtorID: message.RealtorID,
		BuyerID:   message.BuyerID,
		Timestamp: s.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal inquiry event: %w", err)
	}

	receivers, err := s.redisClient.Publish(ctx, InquiryChannel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish inquiry event: %w", err)
	}
	if receivers == 0 {
		log.Printf("[NOTIFY] no subscribers for inquiry %s on listing %s", message.ID, message.ListingID)
	}
	return nil
}
