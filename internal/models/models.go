package models

import (
	"slices"
	"time"
)

// User represents an athlete or coach profile
type User struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	ProfileImage    []byte   `json:"profile_image,omitempty"`
	BackgroundImage []byte   `json:"background_image,omitempty"`
	BackgroundInfo  string   `json:"background_info"`
	Teams           []string `json:"teams"`
	Videos          []Video  `json:"videos"`
}

// Equal reports whether two users are the same entity
func (u User) Equal(other User) bool {
	return u.ID == other.ID
}

// Clone returns a deep copy of the user
func (u User) Clone() User {
	c := u
	c.ProfileImage = slices.Clone(u.ProfileImage)
	c.BackgroundImage = slices.Clone(u.BackgroundImage)
	c.Teams = slices.Clone(u.Teams)
	if u.Videos != nil {
		c.Videos = make([]Video, len(u.Videos))
		for i, v := range u.Videos {
			c.Videos[i] = v.Clone()
		}
	}
	return c
}

// Video represents a highlight video in a user's gallery
type Video struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	ThumbnailImage []byte    `json:"thumbnail_image,omitempty"`
	URL            string    `json:"url,omitempty"`
	UploadDate     time.Time `json:"upload_date"`
}

// Equal reports whether two videos are the same entity
func (v Video) Equal(other Video) bool {
	return v.ID == other.ID
}

// Clone returns a deep copy of the video
func (v Video) Clone() Video {
	c := v
	c.ThumbnailImage = slices.Clone(v.ThumbnailImage)
	return c
}

// Message represents a single direct message
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Equal reports whether two messages are the same entity
func (m Message) Equal(other Message) bool {
	return m.ID == other.ID
}

// Conversation represents a direct-message thread.
// Participants are stored by id and resolved against the user directory on read.
type Conversation struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participant_ids"`
	Messages       []Message `json:"messages"`
}

// Equal reports whether two conversations are the same entity
func (c Conversation) Equal(other Conversation) bool {
	return c.ID == other.ID
}

// Clone returns a deep copy of the conversation
func (c Conversation) Clone() Conversation {
	out := c
	out.ParticipantIDs = slices.Clone(c.ParticipantIDs)
	out.Messages = slices.Clone(c.Messages)
	return out
}

// HasParticipant reports whether userID takes part in the conversation
func (c Conversation) HasParticipant(userID string) bool {
	return slices.Contains(c.ParticipantIDs, userID)
}

// LastMessage returns the message with the latest timestamp, or nil if there are none
func (c Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	last := c.Messages[0]
	for _, m := range c.Messages[1:] {
		if m.Timestamp.After(last.Timestamp) {
			last = m
		}
	}
	return &last
}

// LastActivity returns the timestamp of the last message, or the zero time
func (c Conversation) LastActivity() time.Time {
	if last := c.LastMessage(); last != nil {
		return last.Timestamp
	}
	return time.Time{}
}
