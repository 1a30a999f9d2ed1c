// Package seed populates the in-memory stores with the bootstrap sample data.
package seed

import (
	"fmt"
	"time"

	"athlete-connect-backend/internal/models"
)

// Well-known ids of the seeded entities
const (
	AthleteID      = "1"
	CoachID        = "2"
	ConversationID = "1"
)

// UserInserter is the write side of the user directory
type UserInserter interface {
	Insert(user models.User) (*models.User, error)
}

// ConversationInserter is the write side of the conversation store
type ConversationInserter interface {
	Insert(conversation models.Conversation) (*models.Conversation, error)
}

// Data is the bootstrap data set
type Data struct {
	Users         []models.User
	Conversations []models.Conversation
	SuggestedIDs  []string
}

// Build returns the sample data with timestamps relative to now
func Build(now time.Time) Data {
	athlete := models.User{
		ID:             AthleteID,
		Name:           "John Smith",
		Email:          "john@example.com",
		BackgroundInfo: "Point guard, 4 years of varsity experience. Looking for college opportunities.",
		Teams:          []string{"Lincoln High School"},
		Videos: []models.Video{
			{
				ID:         "1",
				Title:      "Senior Season Highlights",
				URL:        "https://example.com/videos/senior-season-highlights.mp4",
				UploadDate: now.Add(-7 * 24 * time.Hour),
			},
		},
	}

	coach := models.User{
		ID:             CoachID,
		Name:           "Coach Johnson",
		Email:          "coach@example.com",
		BackgroundInfo: "Head basketball coach recruiting guards for next season.",
		Teams:          []string{"State University"},
		Videos:         []models.Video{},
	}

	conversation := models.Conversation{
		ID:             ConversationID,
		ParticipantIDs: []string{AthleteID, CoachID},
		Messages: []models.Message{
			{
				ID:        "1",
				SenderID:  AthleteID,
				Content:   "Hi Coach Johnson, I'm interested in your program and would love to connect.",
				Timestamp: now.Add(-24 * time.Hour),
			},
			{
				ID:        "2",
				SenderID:  CoachID,
				Content:   "Hi John, thanks for reaching out. I'd love to see your highlights.",
				Timestamp: now.Add(-12 * time.Hour),
			},
		},
	}

	return Data{
		Users:         []models.User{athlete, coach},
		Conversations: []models.Conversation{conversation},
		SuggestedIDs:  []string{CoachID},
	}
}

// Load inserts the sample data and returns the suggested user ids
func Load(users UserInserter, conversations ConversationInserter, now time.Time) ([]string, error) {
	data := Build(now)

	for _, u := range data.Users {
		if _, err := users.Insert(u); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
	}
	for _, c := range data.Conversations {
		if _, err := conversations.Insert(c); err != nil {
			return nil, fmt.Errorf("failed to seed conversation %s: %w", c.ID, err)
		}
	}

	return data.SuggestedIDs, nil
}
