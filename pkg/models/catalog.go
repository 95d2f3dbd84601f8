package models

import (
	"time"
)

// Video represents a video file tracked by the catalog.
type Video struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"type:varchar(255);not null;index"`
	Description   string    `json:"description,omitempty" gorm:"type:varchar(2000);not null;default:''"`
	FilePath      string    `json:"file_path" gorm:"type:varchar(500);not null;index"`
	FileSize      int64     `json:"file_size"` // bytes
	Duration      float64   `json:"duration" gorm:"not null;default:0"` // seconds
	Width         *int      `json:"width,omitempty"`
	Height        *int      `json:"height,omitempty"`
	FrameRate     *float64  `json:"frame_rate,omitempty"`
	Format        string    `json:"format" gorm:"type:varchar(50);not null;index"`
	Codec         *string   `json:"codec,omitempty" gorm:"type:varchar(50)"`
	ThumbnailPath *string   `json:"thumbnail_path,omitempty" gorm:"type:varchar(500)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	PlaylistItems    []PlaylistItem    `json:"-" gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	PlaybackSessions []PlaybackSession `json:"-" gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	TagLinks         []VideoTagLink    `json:"-" gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
}

// Playlist represents an ordered collection of videos.
type Playlist struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null;index"`
	Description string    `json:"description,omitempty" gorm:"type:varchar(1000);not null;default:''"`
	IsFavorite  bool      `json:"is_favorite" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Items []PlaylistItem `json:"items,omitempty" gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE"`
}

// PlaylistItem links a video into a playlist at a position. A video may
// appear in the same playlist more than once; positions are unique per
// playlist and kept contiguous by the service layer.
type PlaylistItem struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PlaylistID int64     `json:"playlist_id" gorm:"not null;index;uniqueIndex:idx_playlist_position"`
	VideoID    int64     `json:"video_id" gorm:"not null;index"`
	Position   int       `json:"position" gorm:"not null;uniqueIndex:idx_playlist_position"`
	AddedAt    time.Time `json:"added_at"`

	// Relationships
	Playlist Playlist `json:"-" gorm:"foreignKey:PlaylistID"`
	Video    Video    `json:"-" gorm:"foreignKey:VideoID"`
}

// PlaybackSession records per-video playback state. A video accumulates
// session rows over time; the newest row is the current state.
type PlaybackSession struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	VideoID         int64     `json:"video_id" gorm:"not null;index"`
	CurrentPosition float64   `json:"current_position" gorm:"not null;default:0"` // seconds
	VolumeLevel     float64   `json:"volume_level" gorm:"not null;default:100"`   // 0-100
	PlaybackSpeed   float64   `json:"playback_speed" gorm:"not null;default:1.0"`
	IsMuted         bool      `json:"is_muted" gorm:"default:false"`
	IsFullscreen    bool      `json:"is_fullscreen" gorm:"default:false"`
	LastPlayedAt    time.Time `json:"last_played_at"`
	TotalWatchTime  float64   `json:"total_watch_time" gorm:"not null;default:0"` // seconds
	WatchCount      int       `json:"watch_count" gorm:"not null;default:1"`

	// Relationships
	Video Video `json:"-" gorm:"foreignKey:VideoID"`
}

// UserPreference is a single entry in the global typed key/value settings
// store. PreferenceValue is stored as a string and interpreted according
// to DataType; use TypedValue to parse it.
type UserPreference struct {
	ID              int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	PreferenceKey   string         `json:"preference_key" gorm:"type:varchar(100);uniqueIndex;not null"`
	PreferenceValue string         `json:"preference_value" gorm:"type:varchar(500);not null"`
	DataType        PreferenceType `json:"data_type" gorm:"type:varchar(20);not null"`
	Description     string         `json:"description,omitempty" gorm:"type:varchar(200);not null;default:''"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// VideoTag is a named label for categorizing videos.
type VideoTag struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Color     *string   `json:"color,omitempty" gorm:"type:varchar(7)"` // hex color code
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Links []VideoTagLink `json:"-" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

// VideoTagLink links a video to a tag. A (video, tag) pair is unique.
type VideoTagLink struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	VideoID   int64     `json:"video_id" gorm:"not null;index;uniqueIndex:idx_video_tag"`
	TagID     int64     `json:"tag_id" gorm:"not null;index;uniqueIndex:idx_video_tag"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Video Video    `json:"-" gorm:"foreignKey:VideoID"`
	Tag   VideoTag `json:"-" gorm:"foreignKey:TagID"`
}

// TableName customizations.
func (Video) TableName() string {
	return "videos"
}

func (Playlist) TableName() string {
	return "playlists"
}

func (PlaylistItem) TableName() string {
	return "playlist_items"
}

func (PlaybackSession) TableName() string {
	return "playback_sessions"
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

func (VideoTag) TableName() string {
	return "video_tags"
}

func (VideoTagLink) TableName() string {
	return "video_tag_links"
}
