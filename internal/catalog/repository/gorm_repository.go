package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reelkeep/reelkeep/internal/catalog/domain"
	pkgerrors "github.com/reelkeep/reelkeep/pkg/errors"
	"github.com/reelkeep/reelkeep/pkg/models"
	"github.com/reelkeep/reelkeep/pkg/repository"
)

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// CreateVideo creates a new video.
func (r *GormRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	return repository.Create(ctx, r.db, video)
}

// GetVideo retrieves a video by ID.
func (r *GormRepository) GetVideo(ctx context.Context, id int64) (*models.Video, error) {
	return repository.FindByID[models.Video](ctx, r.db, id)
}

// GetVideoByPath retrieves a video by file path.
func (r *GormRepository) GetVideoByPath(ctx context.Context, path string) (*models.Video, error) {
	return repository.FindOneBy[models.Video](ctx, r.db, "file_path = ?", path)
}

// UpdateVideo updates a video.
func (r *GormRepository) UpdateVideo(ctx context.Context, video *models.Video) error {
	return repository.Update(ctx, r.db, video)
}

// DeleteVideo deletes a video together with its playlist items, playback
// sessions and tag links. The cascade is done explicitly in a transaction
// so it does not depend on the engine enforcing foreign keys.
func (r *GormRepository) DeleteVideo(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.PlaybackSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.VideoTagLink{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Video{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.NotFound("video not found for deletion")
		}
		return nil
	})
}

// SearchVideos searches for videos matching the given filters.
func (r *GormRepository) SearchVideos(ctx context.Context, params *domain.VideoSearchParams) ([]*models.Video, error) {
	q := r.db.WithContext(ctx).Model(&models.Video{})

	if params.Title != nil && *params.Title != "" {
		q = q.Where("LOWER(videos.title) LIKE LOWER(?)", "%"+*params.Title+"%")
	}
	if params.Format != nil && *params.Format != "" {
		q = q.Where("videos.format = ?", *params.Format)
	}
	if params.MinDuration != nil {
		q = q.Where("videos.duration >= ?", *params.MinDuration)
	}
	if params.MaxDuration != nil {
		q = q.Where("videos.duration <= ?", *params.MaxDuration)
	}
	if len(params.Tags) > 0 {
		q = q.Joins("JOIN video_tag_links ON video_tag_links.video_id = videos.id").
			Joins("JOIN video_tags ON video_tags.id = video_tag_links.tag_id").
			Where("video_tags.name IN ?", params.Tags).
			Distinct("videos.*")
	}

	var videos []*models.Video
	if err := q.Order("videos.title").Limit(params.Limit).Offset(params.Offset).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}
	return videos, nil
}

// CountVideos returns the total number of videos.
func (r *GormRepository) CountVideos(ctx context.Context) (int64, error) {
	return repository.Count[models.Video](ctx, r.db)
}

// CreatePlaylist creates a new playlist.
func (r *GormRepository) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return repository.Create(ctx, r.db, playlist)
}

// GetPlaylist retrieves a playlist by ID.
func (r *GormRepository) GetPlaylist(ctx context.Context, id int64) (*models.Playlist, error) {
	return repository.FindByID[models.Playlist](ctx, r.db, id)
}

// GetPlaylistWithItems retrieves a playlist with its items in position order.
func (r *GormRepository) GetPlaylistWithItems(ctx context.Context, id int64) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("playlist_items.position")
		}).
		First(&playlist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("playlist not found")
		}
		return nil, err
	}
	return &playlist, nil
}

// UpdatePlaylist updates a playlist.
func (r *GormRepository) UpdatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return repository.Update(ctx, r.db, playlist)
}

// DeletePlaylist deletes a playlist and its items.
func (r *GormRepository) DeletePlaylist(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Playlist{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.NotFound("playlist not found for deletion")
		}
		return nil
	})
}

// ListPlaylists lists playlists, optionally filtered by favorite flag.
func (r *GormRepository) ListPlaylists(ctx context.Context, favorite *bool) ([]*models.Playlist, error) {
	query := r.db.WithContext(ctx)
	if favorite != nil {
		query = query.Where("is_favorite = ?", *favorite)
	}

	var playlists []*models.Playlist
	if err := query.Order("name").Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, nil
}

// AddPlaylistItem inserts a playlist item at its position.
func (r *GormRepository) AddPlaylistItem(ctx context.Context, item *models.PlaylistItem) error {
	return repository.Create(ctx, r.db, item)
}

// GetPlaylistItem retrieves a playlist item by ID.
func (r *GormRepository) GetPlaylistItem(ctx context.Context, id int64) (*models.PlaylistItem, error) {
	return repository.FindByID[models.PlaylistItem](ctx, r.db, id)
}

// RemovePlaylistItem deletes a playlist item by ID.
func (r *GormRepository) RemovePlaylistItem(ctx context.Context, id int64) error {
	return repository.Delete[models.PlaylistItem](ctx, r.db, id)
}

// ListPlaylistItems lists the items of a playlist in position order.
func (r *GormRepository) ListPlaylistItems(ctx context.Context, playlistID int64) ([]*models.PlaylistItem, error) {
	var items []*models.PlaylistItem
	err := r.db.WithContext(ctx).
		Where("playlist_id = ?", playlistID).
		Order("position").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist items: %w", err)
	}
	return items, nil
}

// ShiftPositions moves every item of the playlist with position >= fromPos
// by delta. Rows are updated one at a time in an order that never collides
// with the unique (playlist_id, position) index: descending for positive
// delta, ascending for negative.
func (r *GormRepository) ShiftPositions(ctx context.Context, playlistID int64, fromPos, delta int) error {
	if delta == 0 {
		return nil
	}

	order := "position"
	if delta > 0 {
		order = "position DESC"
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []*models.PlaylistItem
		if err := tx.Where("playlist_id = ? AND position >= ?", playlistID, fromPos).
			Order(order).
			Find(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.Model(&models.PlaylistItem{}).
				Where("id = ?", item.ID).
				Update("position", item.Position+delta).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateItemPosition sets the position of a single playlist item.
func (r *GormRepository) UpdateItemPosition(ctx context.Context, id int64, position int) error {
	result := r.db.WithContext(ctx).Model(&models.PlaylistItem{}).
		Where("id = ?", id).
		Update("position", position)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NotFound("playlist item not found")
	}
	return nil
}

// CreateSession creates a new playback session. Columns are listed
// explicitly: several session columns carry schema defaults, and GORM
// omits zero-valued fields with defaults on insert, which would displace
// a legitimate volume of 0 with the column default of 100.
func (r *GormRepository) CreateSession(ctx context.Context, session *models.PlaybackSession) error {
	return r.db.WithContext(ctx).
		Select("video_id", "current_position", "volume_level", "playback_speed",
			"is_muted", "is_fullscreen", "last_played_at", "total_watch_time", "watch_count").
		Create(session).Error
}

// GetLatestSession retrieves the most recent playback session for a video.
func (r *GormRepository) GetLatestSession(ctx context.Context, videoID int64) (*models.PlaybackSession, error) {
	var session models.PlaybackSession
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("last_played_at DESC, id DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("no playback session for video")
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions lists playback sessions for a video, newest first.
func (r *GormRepository) ListSessions(ctx context.Context, videoID int64, limit, offset int) ([]*models.PlaybackSession, error) {
	var sessions []*models.PlaybackSession
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("last_played_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playback sessions: %w", err)
	}
	return sessions, nil
}

// UpdateSession updates a playback session.
func (r *GormRepository) UpdateSession(ctx context.Context, session *models.PlaybackSession) error {
	return repository.Update(ctx, r.db, session)
}

// UpsertPreference inserts a preference or updates the existing row for
// the same key.
func (r *GormRepository) UpsertPreference(ctx context.Context, pref *models.UserPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "preference_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"preference_value": pref.PreferenceValue,
				"data_type":        pref.DataType,
				"description":      pref.Description,
				"updated_at":       time.Now().UTC(),
			}),
		}).
		Create(pref).Error
}

// GetPreference retrieves a preference by key.
func (r *GormRepository) GetPreference(ctx context.Context, key string) (*models.UserPreference, error) {
	return repository.FindOneBy[models.UserPreference](ctx, r.db, "preference_key = ?", key)
}

// ListPreferences lists all preferences ordered by key.
func (r *GormRepository) ListPreferences(ctx context.Context) ([]*models.UserPreference, error) {
	var prefs []*models.UserPreference
	if err := r.db.WithContext(ctx).Order("preference_key").Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return prefs, nil
}

// DeletePreference removes a preference by key.
func (r *GormRepository) DeletePreference(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("preference_key = ?", key).Delete(&models.UserPreference{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NotFound("preference not found for deletion")
	}
	return nil
}

// CreateTag creates a new tag.
func (r *GormRepository) CreateTag(ctx context.Context, tag *models.VideoTag) error {
	return repository.Create(ctx, r.db, tag)
}

// GetTag retrieves a tag by ID.
func (r *GormRepository) GetTag(ctx context.Context, id int64) (*models.VideoTag, error) {
	return repository.FindByID[models.VideoTag](ctx, r.db, id)
}

// GetTagByName retrieves a tag by its unique name.
func (r *GormRepository) GetTagByName(ctx context.Context, name string) (*models.VideoTag, error) {
	return repository.FindOneBy[models.VideoTag](ctx, r.db, "name = ?", name)
}

// ListTags lists all tags ordered by name.
func (r *GormRepository) ListTags(ctx context.Context) ([]*models.VideoTag, error) {
	var tags []*models.VideoTag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// DeleteTag deletes a tag and its video links.
func (r *GormRepository) DeleteTag(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.VideoTagLink{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.VideoTag{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.NotFound("tag not found for deletion")
		}
		return nil
	})
}

// LinkTag links a video to a tag. Duplicate pairs surface as conflicts.
func (r *GormRepository) LinkTag(ctx context.Context, videoID, tagID int64) error {
	link := &models.VideoTagLink{
		VideoID:   videoID,
		TagID:     tagID,
		CreatedAt: time.Now().UTC(),
	}
	return repository.Create(ctx, r.db, link)
}

// UnlinkTag removes the link between a video and a tag.
func (r *GormRepository) UnlinkTag(ctx context.Context, videoID, tagID int64) error {
	result := r.db.WithContext(ctx).
		Where("video_id = ? AND tag_id = ?", videoID, tagID).
		Delete(&models.VideoTagLink{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NotFound("video is not linked to tag")
	}
	return nil
}

// ListVideoTags lists the tags linked to a video, ordered by name.
func (r *GormRepository) ListVideoTags(ctx context.Context, videoID int64) ([]*models.VideoTag, error) {
	var tags []*models.VideoTag
	err := r.db.WithContext(ctx).Model(&models.VideoTag{}).
		Joins("JOIN video_tag_links ON video_tag_links.tag_id = video_tags.id").
		Where("video_tag_links.video_id = ?", videoID).
		Order("video_tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list video tags: %w", err)
	}
	return tags, nil
}
