package models

import (
	"sync"
	"time"
)

// Account represents a learner account as stored by a data source.
type Account struct {
	ID           int    `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`                  // Unique, used for login
	Password     string `json:"password,omitempty"`     // Plaintext, fixture data only
	PasswordHash string `json:"passwordHash,omitempty"` // bcrypt, backend only
	Avatar       string `json:"avatar"`
	Level        string `json:"level"`
	Specialty    string `json:"specialty"`
	JoinDate     string `json:"joinDate"` // YYYY-MM-DD
}

// User is the public view of an Account: every field except the password material.
type User struct {
	ID        int    `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Level     string `json:"level"`
	Specialty string `json:"specialty"`
	JoinDate  string `json:"joinDate"`
}

// User builds the public view of the account.
func (a Account) User() User {
	return User{
		ID:        a.ID,
		FullName:  a.FullName,
		Email:     a.Email,
		Avatar:    a.Avatar,
		Level:     a.Level,
		Specialty: a.Specialty,
		JoinDate:  a.JoinDate,
	}
}

// Session is the result of a successful login or registration.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Credentials is the login request body. Empty fields are not a binding error:
// they simply fail to authenticate.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration carries the data needed to create an account.
type Registration struct {
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	Level           string `json:"level,omitempty"`
	Specialty       string `json:"specialty,omitempty"`
}

// Document is a downloadable course document.
type Document struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Subject     string `json:"subject"`
	Level       string `json:"level"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Pages       int    `json:"pages"`
	DownloadURL string `json:"downloadUrl"`
}

// Video is a streamed lesson.
type Video struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Level       string `json:"level"`
	Duration    string `json:"duration"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Views       int    `json:"views"`
	VideoURL    string `json:"videoUrl"`
}

// Settings holds the per-user application preferences.
type Settings struct {
	Theme         string               `json:"theme"`    // light, dark, auto
	Language      string               `json:"language"` // fr, en, ar
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	Preferences   PlaybackPreferences  `json:"preferences"`
}

type NotificationSettings struct {
	Email      bool `json:"email"`
	Push       bool `json:"push"`
	NewCourses bool `json:"newCourses"`
	Reminders  bool `json:"reminders"`
}

type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility"` // public, private, friends
	ShowProgress      bool   `json:"showProgress"`
	AllowMessages     bool   `json:"allowMessages"`
}

type PlaybackPreferences struct {
	Autoplay        bool    `json:"autoplay"`
	Subtitles       bool    `json:"subtitles"`
	PlaybackSpeed   float64 `json:"playbackSpeed"`
	DownloadQuality string  `json:"downloadQuality"` // low, medium, high
}

// ProgressEntry records how far a user got through one piece of content.
// (ContentType, ContentID) is unique within a user's progress collection.
type ProgressEntry struct {
	ContentType  string    `json:"contentType"` // document, video, exercise
	ContentID    int       `json:"contentId"`
	Progress     int       `json:"progress"` // 0..100
	Completed    bool      `json:"completed"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// ProgressUpdate is the body of POST /progress.
type ProgressUpdate struct {
	ContentType string `json:"contentType" binding:"required"`
	ContentID   int    `json:"contentId" binding:"required"`
	Progress    int    `json:"progress"`
	Completed   bool   `json:"completed"`
}

// Stats summarises a user's progress collection.
type Stats struct {
	Courses        int `json:"courses"`
	Exercises      int `json:"exercises"`
	Videos         int `json:"videos"`
	SuccessRate    int `json:"successRate"`
	ActiveThisWeek int `json:"activeThisWeek"`
}

// Database holds all backend data and manages concurrent access.
type Database struct {
	Accounts  map[int]Account         `json:"accounts"`  // Keyed by account ID
	Documents []Document              `json:"documents"` // Fixture order is preserved
	Videos    []Video                 `json:"videos"`
	Settings  map[int]Settings        `json:"settings"` // Keyed by account ID
	Progress  map[int][]ProgressEntry `json:"progress"` // Keyed by account ID

	Mu sync.RWMutex `json:"-"`
}

// ContentFacets exposes the fields the content filter reads.
// HasType is false for records without a type (videos).
type ContentFacets struct {
	Title       string
	Description string
	Subject     string
	Level       string
	Type        string
	HasType     bool
}

func (d Document) Facets() ContentFacets {
	return ContentFacets{
		Title:       d.Title,
		Description: d.Description,
		Subject:     d.Subject,
		Level:       d.Level,
		Type:        d.Type,
		HasType:     true,
	}
}

func (v Video) Facets() ContentFacets {
	return ContentFacets{
		Title:       v.Title,
		Description: v.Description,
		Subject:     v.Subject,
		Level:       v.Level,
	}
}
