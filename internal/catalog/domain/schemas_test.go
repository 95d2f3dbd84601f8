package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelkeep/reelkeep/internal/catalog/domain"
	pkgerrors "github.com/reelkeep/reelkeep/pkg/errors"
	"github.com/reelkeep/reelkeep/pkg/models"
)

func validVideoCreate() *domain.VideoCreate {
	return &domain.VideoCreate{
		Title:    "Holiday Cut",
		FilePath: "/videos/holiday.mp4",
		FileSize: 1 << 20,
		Duration: 12.5,
		Format:   "mp4",
	}
}

func TestVideoCreateTitleBoundary(t *testing.T) {
	req := validVideoCreate()
	req.Title = strings.Repeat("a", 255)
	assert.NoError(t, req.Validate())

	req.Title = strings.Repeat("a", 256)
	err := req.Validate()
	require.Error(t, err)

	valErr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "title", valErr.Field)
	assert.Equal(t, "max=255", valErr.Constraint)
}

func TestVideoCreateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.VideoCreate)
		field  string
	}{
		{"missing title", func(v *domain.VideoCreate) { v.Title = "" }, "title"},
		{"missing file path", func(v *domain.VideoCreate) { v.FilePath = "" }, "file_path"},
		{"missing file size", func(v *domain.VideoCreate) { v.FileSize = 0 }, "file_size"},
		{"missing format", func(v *domain.VideoCreate) { v.Format = "" }, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validVideoCreate()
			tt.mutate(req)

			err := req.Validate()
			require.Error(t, err)

			valErr, ok := pkgerrors.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, valErr.Field)
			assert.Equal(t, "required", valErr.Constraint)
		})
	}
}

func TestVideoCreateNegativeDuration(t *testing.T) {
	req := validVideoCreate()
	req.Duration = -0.5

	err := req.Validate()
	require.Error(t, err)

	valErr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "duration", valErr.Field)
}

func TestVideoCreateRoundTrip(t *testing.T) {
	frameRate := 23.976
	width, height := 1920, 1080
	codec := "h264"

	req := validVideoCreate()
	req.Description = "a trip to the coast"
	req.Width = &width
	req.Height = &height
	req.FrameRate = &frameRate
	req.Codec = &codec
	require.NoError(t, req.Validate())

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded domain.VideoCreate
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, *req, decoded)
	assert.Equal(t, 12.5, decoded.Duration)
}

func TestPlaylistCreateDefaults(t *testing.T) {
	req := &domain.PlaylistCreate{Name: "Favorites"}
	require.NoError(t, req.Validate())

	assert.False(t, req.IsFavorite)
	assert.Empty(t, req.Description)

	req.Name = strings.Repeat("n", 201)
	assert.Error(t, req.Validate())
}

func TestPlaylistItemCreatePosition(t *testing.T) {
	req := &domain.PlaylistItemCreate{PlaylistID: 1, VideoID: 1}

	err := req.Validate()
	require.Error(t, err)

	valErr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "position", valErr.Field)
	assert.Equal(t, "required", valErr.Constraint)

	zero := 0
	req.Position = &zero
	assert.NoError(t, req.Validate())

	negative := -1
	req.Position = &negative
	assert.Error(t, req.Validate())
}

func TestPlaybackSessionUpdateBounds(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		patch   domain.PlaybackSessionUpdate
		wantErr bool
	}{
		{"empty patch", domain.PlaybackSessionUpdate{}, false},
		{"volume lower bound", domain.PlaybackSessionUpdate{VolumeLevel: f(0)}, false},
		{"volume upper bound", domain.PlaybackSessionUpdate{VolumeLevel: f(100)}, false},
		{"volume below range", domain.PlaybackSessionUpdate{VolumeLevel: f(-0.1)}, true},
		{"volume above range", domain.PlaybackSessionUpdate{VolumeLevel: f(100.1)}, true},
		{"speed zero", domain.PlaybackSessionUpdate{PlaybackSpeed: f(0)}, true},
		{"speed negative", domain.PlaybackSessionUpdate{PlaybackSpeed: f(-1)}, true},
		{"speed slow", domain.PlaybackSessionUpdate{PlaybackSpeed: f(0.25)}, false},
		{"speed fast", domain.PlaybackSessionUpdate{PlaybackSpeed: f(4)}, false},
		{"negative position", domain.PlaybackSessionUpdate{CurrentPosition: f(-3)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err), "expected validation error, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVideoSearchParamsBounds(t *testing.T) {
	params := &domain.VideoSearchParams{Limit: 1000}
	assert.NoError(t, params.Validate())

	params.Limit = 1001
	assert.Error(t, params.Validate())

	params = &domain.VideoSearchParams{Offset: -1}
	assert.Error(t, params.Validate())

	params = &domain.VideoSearchParams{}
	require.NoError(t, params.Validate())
	params.Normalize()
	assert.Equal(t, domain.DefaultSearchLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestVideoSearchParamsDurationRange(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	params := &domain.VideoSearchParams{MinDuration: f(-1)}
	assert.Error(t, params.Validate())

	// min > max is the caller's problem, the search just matches nothing.
	params = &domain.VideoSearchParams{MinDuration: f(100), MaxDuration: f(10)}
	assert.NoError(t, params.Validate())
}

func TestVideoTagCreateColor(t *testing.T) {
	c := func(s string) *string { return &s }

	req := &domain.VideoTagCreate{Name: "travel", Color: c("#aabbcc")}
	assert.NoError(t, req.Validate())

	req.Color = c("#abc")
	assert.NoError(t, req.Validate())

	req.Color = c("red")
	err := req.Validate()
	require.Error(t, err)

	valErr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "color", valErr.Field)

	req.Color = nil
	req.Name = ""
	assert.Error(t, req.Validate())
}

func TestUserPreferenceCreate(t *testing.T) {
	req := &domain.UserPreferenceCreate{
		PreferenceKey:   "playback.default_volume",
		PreferenceValue: "80",
		DataType:        models.PreferenceTypeInt,
	}
	assert.NoError(t, req.Validate())

	req.DataType = "decimal"
	err := req.Validate()
	require.Error(t, err)
	valErr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "data_type", valErr.Field)

	// The declared type must be able to parse the value.
	req.DataType = models.PreferenceTypeInt
	req.PreferenceValue = "not a number"
	err = req.Validate()
	require.Error(t, err)
	valErr, ok = pkgerrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "preference_value", valErr.Field)
}
