package domain

import (
	"github.com/reelkeep/reelkeep/pkg/models"
)

// Search pagination bounds.
const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 1000
)

// VideoCreate is the payload for registering a new video.
type VideoCreate struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Description   string   `json:"description" validate:"max=2000"`
	FilePath      string   `json:"file_path" validate:"required,max=500"`
	FileSize      int64    `json:"file_size" validate:"required"`
	Duration      float64  `json:"duration" validate:"gte=0"`
	Width         *int     `json:"width,omitempty"`
	Height        *int     `json:"height,omitempty"`
	FrameRate     *float64 `json:"frame_rate,omitempty"`
	Format        string   `json:"format" validate:"required,max=50"`
	Codec         *string  `json:"codec,omitempty" validate:"omitempty,max=50"`
	ThumbnailPath *string  `json:"thumbnail_path,omitempty" validate:"omitempty,max=500"`
}

// Validate checks the payload against its field constraints.
func (v *VideoCreate) Validate() error {
	return validateStruct(v)
}

// VideoUpdate is a merge-patch for video metadata. Only present fields
// overwrite stored values.
type VideoUpdate struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty" validate:"omitempty,max=500"`
}

func (v *VideoUpdate) Validate() error {
	return validateStruct(v)
}

// PlaylistCreate is the payload for creating a playlist.
type PlaylistCreate struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	IsFavorite  bool   `json:"is_favorite"`
}

func (p *PlaylistCreate) Validate() error {
	return validateStruct(p)
}

// PlaylistUpdate is a merge-patch for playlist attributes.
type PlaylistUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsFavorite  *bool   `json:"is_favorite,omitempty"`
}

func (p *PlaylistUpdate) Validate() error {
	return validateStruct(p)
}

// PlaylistItemCreate is the payload for adding a video to a playlist.
// Position is a pointer so that an omitted position is distinguishable
// from position 0 and rejected as a missing required field. Referential
// integrity of the two IDs is the storage layer's concern.
type PlaylistItemCreate struct {
	PlaylistID int64 `json:"playlist_id" validate:"required"`
	VideoID    int64 `json:"video_id" validate:"required"`
	Position   *int  `json:"position" validate:"required,gte=0"`
}

func (p *PlaylistItemCreate) Validate() error {
	return validateStruct(p)
}

// PlaybackSessionUpdate is a merge-patch for playback state. Absent fields
// leave the stored session untouched.
type PlaybackSessionUpdate struct {
	CurrentPosition *float64 `json:"current_position,omitempty" validate:"omitempty,gte=0"`
	VolumeLevel     *float64 `json:"volume_level,omitempty" validate:"omitempty,gte=0,lte=100"`
	PlaybackSpeed   *float64 `json:"playback_speed,omitempty" validate:"omitempty,gt=0"`
	IsMuted         *bool    `json:"is_muted,omitempty"`
	IsFullscreen    *bool    `json:"is_fullscreen,omitempty"`
}

func (p *PlaybackSessionUpdate) Validate() error {
	return validateStruct(p)
}

// UserPreferenceCreate is the payload for setting a preference. The value
// must parse under the declared data type, so a preference can never be
// stored in an uninterpretable state.
type UserPreferenceCreate struct {
	PreferenceKey   string                `json:"preference_key" validate:"required,max=100"`
	PreferenceValue string                `json:"preference_value" validate:"required,max=500"`
	DataType        models.PreferenceType `json:"data_type" validate:"required,oneof=string int float bool json"`
	Description     string                `json:"description" validate:"max=200"`
}

func (u *UserPreferenceCreate) Validate() error {
	if err := validateStruct(u); err != nil {
		return err
	}
	_, err := models.ParsePreferenceValue(u.DataType, u.PreferenceValue)
	return err
}

// VideoTagCreate is the payload for creating a tag.
type VideoTagCreate struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor,max=7"`
}

func (t *VideoTagCreate) Validate() error {
	return validateStruct(t)
}

// VideoSearchParams filters and paginates a video search. All filters are
// optional; a zero Limit means DefaultSearchLimit. MinDuration greater
// than MaxDuration is not rejected here, the search simply matches nothing.
type VideoSearchParams struct {
	Title       *string  `json:"title,omitempty"`
	Format      *string  `json:"format,omitempty"`
	MinDuration *float64 `json:"min_duration,omitempty" validate:"omitempty,gte=0"`
	MaxDuration *float64 `json:"max_duration,omitempty" validate:"omitempty,gte=0"`
	Tags        []string `json:"tags,omitempty"`
	Limit       int      `json:"limit" validate:"gte=0,lte=1000"`
	Offset      int      `json:"offset" validate:"gte=0"`
}

func (p *VideoSearchParams) Validate() error {
	return validateStruct(p)
}

// Normalize applies pagination defaults. Call after Validate.
func (p *VideoSearchParams) Normalize() {
	if p.Limit == 0 {
		p.Limit = DefaultSearchLimit
	}
}
