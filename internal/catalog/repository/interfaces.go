package repository

import (
	"context"

	"github.com/reelkeep/reelkeep/internal/catalog/domain"
	"github.com/reelkeep/reelkeep/pkg/models"
)

// Repository defines the persistence operations for the media catalog.
// Referential integrity, key uniqueness and delete cascades live here;
// structural validation of inputs happens before anything reaches this
// interface.
type Repository interface {
	// Videos
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, id int64) (*models.Video, error)
	GetVideoByPath(ctx context.Context, path string) (*models.Video, error)
	UpdateVideo(ctx context.Context, video *models.Video) error
	DeleteVideo(ctx context.Context, id int64) error
	SearchVideos(ctx context.Context, params *domain.VideoSearchParams) ([]*models.Video, error)
	CountVideos(ctx context.Context) (int64, error)

	// Playlists
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	GetPlaylist(ctx context.Context, id int64) (*models.Playlist, error)
	GetPlaylistWithItems(ctx context.Context, id int64) (*models.Playlist, error)
	UpdatePlaylist(ctx context.Context, playlist *models.Playlist) error
	DeletePlaylist(ctx context.Context, id int64) error
	ListPlaylists(ctx context.Context, favorite *bool) ([]*models.Playlist, error)

	// Playlist items
	AddPlaylistItem(ctx context.Context, item *models.PlaylistItem) error
	GetPlaylistItem(ctx context.Context, id int64) (*models.PlaylistItem, error)
	RemovePlaylistItem(ctx context.Context, id int64) error
	ListPlaylistItems(ctx context.Context, playlistID int64) ([]*models.PlaylistItem, error)
	ShiftPositions(ctx context.Context, playlistID int64, fromPos, delta int) error
	UpdateItemPosition(ctx context.Context, id int64, position int) error

	// Playback sessions
	CreateSession(ctx context.Context, session *models.PlaybackSession) error
	GetLatestSession(ctx context.Context, videoID int64) (*models.PlaybackSession, error)
	ListSessions(ctx context.Context, videoID int64, limit, offset int) ([]*models.PlaybackSession, error)
	UpdateSession(ctx context.Context, session *models.PlaybackSession) error

	// Preferences
	UpsertPreference(ctx context.Context, pref *models.UserPreference) error
	GetPreference(ctx context.Context, key string) (*models.UserPreference, error)
	ListPreferences(ctx context.Context) ([]*models.UserPreference, error)
	DeletePreference(ctx context.Context, key string) error

	// Tags
	CreateTag(ctx context.Context, tag *models.VideoTag) error
	GetTag(ctx context.Context, id int64) (*models.VideoTag, error)
	GetTagByName(ctx context.Context, name string) (*models.VideoTag, error)
	ListTags(ctx context.Context) ([]*models.VideoTag, error)
	DeleteTag(ctx context.Context, id int64) error
	LinkTag(ctx context.Context, videoID, tagID int64) error
	UnlinkTag(ctx context.Context, videoID, tagID int64) error
	ListVideoTags(ctx context.Context, videoID int64) ([]*models.VideoTag, error)
}
