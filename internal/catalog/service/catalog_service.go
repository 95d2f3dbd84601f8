package service

import (
	"context"
	"fmt"
	"time"

	"github.com/reelkeep/reelkeep/internal/catalog/domain"
	"github.com/reelkeep/reelkeep/internal/catalog/repository"
	"github.com/reelkeep/reelkeep/pkg/errors"
	"github.com/reelkeep/reelkeep/pkg/interfaces"
	"github.com/reelkeep/reelkeep/pkg/models"
	"github.com/reelkeep/reelkeep/pkg/pagination"
)

const cacheTTL = 5 * time.Minute

// CatalogService owns the catalog rules the schema itself cannot express:
// updated_at refreshing, playlist position contiguity, playback merge
// semantics and typed preference interpretation.
type CatalogService struct {
	repo       repository.Repository
	eventBus   interfaces.EventBus
	cache      interfaces.Cache
	logger     interfaces.Logger
	pageTokens *pagination.CursorEncoder
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	repo repository.Repository,
	eventBus interfaces.EventBus,
	cache interfaces.Cache,
	logger interfaces.Logger,
	pageTokens *pagination.CursorEncoder,
) *CatalogService {
	return &CatalogService{
		repo:       repo,
		eventBus:   eventBus,
		cache:      cache,
		logger:     logger,
		pageTokens: pageTokens,
	}
}

// CreateVideo validates and registers a new video.
func (s *CatalogService) CreateVideo(ctx context.Context, req *domain.VideoCreate) (*models.Video, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// A file can only be cataloged once.
	existing, err := s.repo.GetVideoByPath(ctx, req.FilePath)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("video file path already cataloged")
	}

	now := time.Now().UTC()
	video := &models.Video{
		Title:         req.Title,
		Description:   req.Description,
		FilePath:      req.FilePath,
		FileSize:      req.FileSize,
		Duration:      req.Duration,
		Width:         req.Width,
		Height:        req.Height,
		FrameRate:     req.FrameRate,
		Format:        req.Format,
		Codec:         req.Codec,
		ThumbnailPath: req.ThumbnailPath,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateVideo(ctx, video); err != nil {
		s.logger.Error("Failed to create video", interfaces.Error(err))
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, domain.NewVideoCreatedEvent(video))
	s.logger.Info("Video created",
		interfaces.Any("id", video.ID),
		interfaces.String("title", video.Title),
		interfaces.String("file_path", video.FilePath))

	return video, nil
}

// GetVideo retrieves a video by ID.
func (s *CatalogService) GetVideo(ctx context.Context, id int64) (*models.Video, error) {
	cacheKey := videoCacheKey(id)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		if video, ok := cached.(*models.Video); ok {
			return video, nil
		}
	}

	video, err := s.repo.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, video, cacheTTL)
	return video, nil
}

// UpdateVideo applies a merge-patch to video metadata. Only fields present
// in the patch change; updated_at is refreshed.
func (s *CatalogService) UpdateVideo(ctx context.Context, id int64, patch *domain.VideoUpdate) (*models.Video, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	video, err := s.repo.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		video.Title = *patch.Title
	}
	if patch.Description != nil {
		video.Description = *patch.Description
	}
	if patch.ThumbnailPath != nil {
		video.ThumbnailPath = patch.ThumbnailPath
	}
	video.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateVideo(ctx, video); err != nil {
		s.logger.Error("Failed to update video", interfaces.Error(err))
		return nil, err
	}

	s.cache.Delete(ctx, videoCacheKey(id))
	s.eventBus.PublishAsync(ctx, domain.NewVideoUpdatedEvent(video))

	return video, nil
}

// DeleteVideo removes a video and everything hanging off it.
func (s *CatalogService) DeleteVideo(ctx context.Context, id int64) error {
	if err := s.repo.DeleteVideo(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, videoCacheKey(id))
	s.eventBus.PublishAsync(ctx, domain.NewVideoDeletedEvent(id))
	s.logger.Info("Video deleted", interfaces.Any("id", id))

	return nil
}

// SearchVideos validates search parameters, applies pagination defaults and
// runs the search.
func (s *CatalogService) SearchVideos(ctx context.Context, params *domain.VideoSearchParams) ([]*models.Video, error) {
	if params == nil {
		params = &domain.VideoSearchParams{}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Normalize()

	return s.repo.SearchVideos(ctx, params)
}

// SearchVideosPage runs a search addressed by an opaque page token instead
// of a raw offset. It returns the matching page and the token for the next
// one, or an empty token on the last page.
func (s *CatalogService) SearchVideosPage(ctx context.Context, params *domain.VideoSearchParams, pageToken string) ([]*models.Video, string, error) {
	if params == nil {
		params = &domain.VideoSearchParams{}
	}
	if err := params.Validate(); err != nil {
		return nil, "", err
	}
	params.Normalize()

	offset, err := pagination.CalculateOffset(s.pageTokens, pageToken)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrorTypeBadRequest, "invalid page token", err)
	}

	// Fetch one row past the page to detect whether another page exists.
	pageSize := params.Limit
	paged := *params
	paged.Offset = offset
	paged.Limit = pageSize + 1

	videos, err := s.repo.SearchVideos(ctx, &paged)
	if err != nil {
		return nil, "", err
	}

	hasMore := len(videos) > pageSize
	if hasMore {
		videos = videos[:pageSize]
	}

	next, err := pagination.NextPageToken(s.pageTokens, offset, pageSize, hasMore)
	if err != nil {
		return nil, "", err
	}

	return videos, next, nil
}

// CreatePlaylist validates and creates a playlist.
func (s *CatalogService) CreatePlaylist(ctx context.Context, req *domain.PlaylistCreate) (*models.Playlist, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	playlist := &models.Playlist{
		Name:        req.Name,
		Description: req.Description,
		IsFavorite:  req.IsFavorite,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreatePlaylist(ctx, playlist); err != nil {
		s.logger.Error("Failed to create playlist", interfaces.Error(err))
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, domain.NewPlaylistCreatedEvent(playlist))
	s.logger.Info("Playlist created",
		interfaces.Any("id", playlist.ID),
		interfaces.String("name", playlist.Name))

	return playlist, nil
}

// GetPlaylist retrieves a playlist with its items in order.
func (s *CatalogService) GetPlaylist(ctx context.Context, id int64) (*models.Playlist, error) {
	return s.repo.GetPlaylistWithItems(ctx, id)
}

// ListPlaylists lists playlists, optionally only favorites.
func (s *CatalogService) ListPlaylists(ctx context.Context, favorite *bool) ([]*models.Playlist, error) {
	return s.repo.ListPlaylists(ctx, favorite)
}

// UpdatePlaylist applies a merge-patch to playlist attributes.
func (s *CatalogService) UpdatePlaylist(ctx context.Context, id int64, patch *domain.PlaylistUpdate) (*models.Playlist, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	playlist, err := s.repo.GetPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		playlist.Name = *patch.Name
	}
	if patch.Description != nil {
		playlist.Description = *patch.Description
	}
	if patch.IsFavorite != nil {
		playlist.IsFavorite = *patch.IsFavorite
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdatePlaylist(ctx, playlist); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, domain.NewPlaylistUpdatedEvent(playlist.ID))
	return playlist, nil
}

// DeletePlaylist removes a playlist and its items.
func (s *CatalogService) DeletePlaylist(ctx context.Context, id int64) error {
	if err := s.repo.DeletePlaylist(ctx, id); err != nil {
		return err
	}
	s.eventBus.PublishAsync(ctx, domain.NewPlaylistDeletedEvent(id))
	return nil
}

// AddToPlaylist inserts a video into a playlist at the requested position.
// Positions stay unique and contiguous: a position past the end is clamped
// to append, anything else shifts the tail up by one.
func (s *CatalogService) AddToPlaylist(ctx context.Context, req *domain.PlaylistItemCreate) (*models.PlaylistItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPlaylist(ctx, req.PlaylistID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListPlaylistItems(ctx, req.PlaylistID)
	if err != nil {
		return nil, err
	}

	pos := *req.Position
	if pos > len(items) {
		pos = len(items)
	}
	if pos < len(items) {
		if err := s.repo.ShiftPositions(ctx, req.PlaylistID, pos, 1); err != nil {
			return nil, err
		}
	}

	item := &models.PlaylistItem{
		PlaylistID: req.PlaylistID,
		VideoID:    req.VideoID,
		Position:   pos,
		AddedAt:    time.Now().UTC(),
	}
	if err := s.repo.AddPlaylistItem(ctx, item); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, domain.NewPlaylistUpdatedEvent(req.PlaylistID))
	return item, nil
}

// RemoveFromPlaylist deletes an item and closes the position gap it leaves.
func (s *CatalogService) RemoveFromPlaylist(ctx context.Context, itemID int64) error {
	item, err := s.repo.GetPlaylistItem(ctx, itemID)
	if err != nil {
		return err
	}

	if err := s.repo.RemovePlaylistItem(ctx, itemID); err != nil {
		return err
	}
	if err := s.repo.ShiftPositions(ctx, item.PlaylistID, item.Position+1, -1); err != nil {
		return err
	}

	s.eventBus.PublishAsync(ctx, domain.NewPlaylistUpdatedEvent(item.PlaylistID))
	return nil
}

// MoveItem moves an item to a new position within its playlist, keeping
// positions contiguous. The item is parked at a sentinel position while
// the surrounding items shift, so the unique position index never trips.
func (s *CatalogService) MoveItem(ctx context.Context, itemID int64, newPos int) error {
	if newPos < 0 {
		return errors.Validation("position", "gte=0", newPos)
	}

	item, err := s.repo.GetPlaylistItem(ctx, itemID)
	if err != nil {
		return err
	}

	items, err := s.repo.ListPlaylistItems(ctx, item.PlaylistID)
	if err != nil {
		return err
	}
	if newPos > len(items)-1 {
		newPos = len(items) - 1
	}
	if newPos == item.Position {
		return nil
	}

	// Park below the valid range, close the old gap, open the new one.
	if err := s.repo.UpdateItemPosition(ctx, itemID, -1); err != nil {
		return err
	}
	if err := s.repo.ShiftPositions(ctx, item.PlaylistID, item.Position+1, -1); err != nil {
		return err
	}
	if err := s.repo.ShiftPositions(ctx, item.PlaylistID, newPos, 1); err != nil {
		return err
	}
	if err := s.repo.UpdateItemPosition(ctx, itemID, newPos); err != nil {
		return err
	}

	s.eventBus.PublishAsync(ctx, domain.NewPlaylistUpdatedEvent(item.PlaylistID))
	return nil
}

// StartPlayback opens a new playback session for a video. The new row
// continues the video's history: watch count increments and accumulated
// watch time carries over.
func (s *CatalogService) StartPlayback(ctx context.Context, videoID int64) (*models.PlaybackSession, error) {
	if _, err := s.repo.GetVideo(ctx, videoID); err != nil {
		return nil, err
	}

	session := &models.PlaybackSession{
		VideoID:       videoID,
		VolumeLevel:   100,
		PlaybackSpeed: 1.0,
		LastPlayedAt:  time.Now().UTC(),
		WatchCount:    1,
	}

	if latest, err := s.repo.GetLatestSession(ctx, videoID); err == nil {
		session.WatchCount = latest.WatchCount + 1
		session.TotalWatchTime = latest.TotalWatchTime
		session.VolumeLevel = latest.VolumeLevel
		session.IsMuted = latest.IsMuted
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, domain.NewPlaybackRecordedEvent(session))
	s.logger.Info("Playback started",
		interfaces.Any("video_id", videoID),
		interfaces.Int("watch_count", session.WatchCount))

	return session, nil
}

// RecordPlayback merges a playback state patch into the video's latest
// session. Absent fields keep their stored values. Forward progress of the
// playhead accrues to total watch time.
func (s *CatalogService) RecordPlayback(ctx context.Context, videoID int64, patch *domain.PlaybackSessionUpdate) (*models.PlaybackSession, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	session, err := s.repo.GetLatestSession(ctx, videoID)
	if errors.IsNotFound(err) {
		session, err = s.StartPlayback(ctx, videoID)
	}
	if err != nil {
		return nil, err
	}

	if patch.CurrentPosition != nil {
		if delta := *patch.CurrentPosition - session.CurrentPosition; delta > 0 {
			session.TotalWatchTime += delta
		}
		session.CurrentPosition = *patch.CurrentPosition
	}
	if patch.VolumeLevel != nil {
		session.VolumeLevel = *patch.VolumeLevel
	}
	if patch.PlaybackSpeed != nil {
		session.PlaybackSpeed = *patch.PlaybackSpeed
	}
	if patch.IsMuted != nil {
		session.IsMuted = *patch.IsMuted
	}
	if patch.IsFullscreen != nil {
		session.IsFullscreen = *patch.IsFullscreen
	}
	session.LastPlayedAt = time.Now().UTC()

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, domain.NewPlaybackRecordedEvent(session))
	return session, nil
}

// PlaybackHistory lists a video's playback sessions, newest first.
func (s *CatalogService) PlaybackHistory(ctx context.Context, videoID int64, limit, offset int) ([]*models.PlaybackSession, error) {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	return s.repo.ListSessions(ctx, videoID, limit, offset)
}

// SetPreference validates and stores a preference. The value is parsed
// under its declared type before it is persisted, so stored preferences
// are always interpretable.
func (s *CatalogService) SetPreference(ctx context.Context, req *domain.UserPreferenceCreate) (*models.UserPreference, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pref := &models.UserPreference{
		PreferenceKey:   req.PreferenceKey,
		PreferenceValue: req.PreferenceValue,
		DataType:        req.DataType,
		Description:     req.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.UpsertPreference(ctx, pref); err != nil {
		s.logger.Error("Failed to store preference", interfaces.Error(err))
		return nil, err
	}

	return pref, nil
}

// GetPreference retrieves a stored preference by key.
func (s *CatalogService) GetPreference(ctx context.Context, key string) (*models.UserPreference, error) {
	return s.repo.GetPreference(ctx, key)
}

// GetPreferenceValue retrieves a preference and parses it under its
// declared type.
func (s *CatalogService) GetPreferenceValue(ctx context.Context, key string) (*models.TypedValue, error) {
	pref, err := s.repo.GetPreference(ctx, key)
	if err != nil {
		return nil, err
	}
	return pref.TypedValue()
}

// GetStringPreference returns a string-typed preference value.
func (s *CatalogService) GetStringPreference(ctx context.Context, key string) (string, error) {
	tv, err := s.typedPreference(ctx, key, models.PreferenceTypeString)
	if err != nil {
		return "", err
	}
	return tv.Str, nil
}

// GetIntPreference returns an int-typed preference value.
func (s *CatalogService) GetIntPreference(ctx context.Context, key string) (int64, error) {
	tv, err := s.typedPreference(ctx, key, models.PreferenceTypeInt)
	if err != nil {
		return 0, err
	}
	return tv.Int, nil
}

// GetFloatPreference returns a float-typed preference value.
func (s *CatalogService) GetFloatPreference(ctx context.Context, key string) (float64, error) {
	tv, err := s.typedPreference(ctx, key, models.PreferenceTypeFloat)
	if err != nil {
		return 0, err
	}
	return tv.Float, nil
}

// GetBoolPreference returns a bool-typed preference value.
func (s *CatalogService) GetBoolPreference(ctx context.Context, key string) (bool, error) {
	tv, err := s.typedPreference(ctx, key, models.PreferenceTypeBool)
	if err != nil {
		return false, err
	}
	return tv.Bool, nil
}

func (s *CatalogService) typedPreference(ctx context.Context, key string, want models.PreferenceType) (*models.TypedValue, error) {
	tv, err := s.GetPreferenceValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if tv.Type != want {
		return nil, errors.BadRequest(fmt.Sprintf("preference %q has type %s, not %s", key, tv.Type, want))
	}
	return tv, nil
}

// ListPreferences lists all stored preferences.
func (s *CatalogService) ListPreferences(ctx context.Context) ([]*models.UserPreference, error) {
	return s.repo.ListPreferences(ctx)
}

// DeletePreference removes a preference by key.
func (s *CatalogService) DeletePreference(ctx context.Context, key string) error {
	return s.repo.DeletePreference(ctx, key)
}

// CreateTag validates and creates a tag.
func (s *CatalogService) CreateTag(ctx context.Context, req *domain.VideoTagCreate) (*models.VideoTag, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tag := &models.VideoTag{
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags lists all tags.
func (s *CatalogService) ListTags(ctx context.Context) ([]*models.VideoTag, error) {
	return s.repo.ListTags(ctx)
}

// DeleteTag removes a tag and its links.
func (s *CatalogService) DeleteTag(ctx context.Context, id int64) error {
	return s.repo.DeleteTag(ctx, id)
}

// TagVideo links a video to a tag, creating the tag on first use. Linking
// an already-linked pair is a no-op.
func (s *CatalogService) TagVideo(ctx context.Context, videoID int64, tagName string) error {
	if _, err := s.repo.GetVideo(ctx, videoID); err != nil {
		return err
	}

	tag, err := s.repo.GetTagByName(ctx, tagName)
	if errors.IsNotFound(err) {
		created, cerr := s.CreateTag(ctx, &domain.VideoTagCreate{Name: tagName})
		if cerr != nil {
			return cerr
		}
		tag = created
	} else if err != nil {
		return err
	}

	if err := s.repo.LinkTag(ctx, videoID, tag.ID); err != nil {
		if errors.IsConflict(err) {
			return nil
		}
		return fmt.Errorf("failed to link tag: %w", err)
	}

	s.eventBus.PublishAsync(ctx, domain.NewVideoTaggedEvent(videoID, tagName))
	return nil
}

// UntagVideo removes the link between a video and a named tag.
func (s *CatalogService) UntagVideo(ctx context.Context, videoID int64, tagName string) error {
	tag, err := s.repo.GetTagByName(ctx, tagName)
	if err != nil {
		return err
	}
	return s.repo.UnlinkTag(ctx, videoID, tag.ID)
}

// VideoTags lists the tags linked to a video.
func (s *CatalogService) VideoTags(ctx context.Context, videoID int64) ([]*models.VideoTag, error) {
	return s.repo.ListVideoTags(ctx, videoID)
}

func videoCacheKey(id int64) string {
	return fmt.Sprintf("video:%d", id)
}
