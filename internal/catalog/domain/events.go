package domain

import (
	"strconv"

	"github.com/reelkeep/reelkeep/pkg/events"
	"github.com/reelkeep/reelkeep/pkg/interfaces"
	"github.com/reelkeep/reelkeep/pkg/models"
)

// Catalog event types.
const (
	EventVideoCreated     = "catalog.video.created"
	EventVideoUpdated     = "catalog.video.updated"
	EventVideoDeleted     = "catalog.video.deleted"
	EventPlaylistCreated  = "catalog.playlist.created"
	EventPlaylistUpdated  = "catalog.playlist.updated"
	EventPlaylistDeleted  = "catalog.playlist.deleted"
	EventPlaybackRecorded = "catalog.playback.recorded"
	EventVideoTagged      = "catalog.video.tagged"
)

// NewVideoCreatedEvent creates an event for video creation.
func NewVideoCreatedEvent(video *models.Video) interfaces.Event {
	return events.NewAggregateEvent(EventVideoCreated, formatID(video.ID), map[string]interface{}{
		"title":     video.Title,
		"file_path": video.FilePath,
		"format":    video.Format,
	})
}

// NewVideoUpdatedEvent creates an event for video metadata updates.
func NewVideoUpdatedEvent(video *models.Video) interfaces.Event {
	return events.NewAggregateEvent(EventVideoUpdated, formatID(video.ID), map[string]interface{}{
		"title": video.Title,
	})
}

// NewVideoDeletedEvent creates an event for video deletion.
func NewVideoDeletedEvent(videoID int64) interfaces.Event {
	return events.NewAggregateEvent(EventVideoDeleted, formatID(videoID), nil)
}

// NewPlaylistCreatedEvent creates an event for playlist creation.
func NewPlaylistCreatedEvent(playlist *models.Playlist) interfaces.Event {
	return events.NewAggregateEvent(EventPlaylistCreated, formatID(playlist.ID), map[string]interface{}{
		"name": playlist.Name,
	})
}

// NewPlaylistUpdatedEvent creates an event for playlist changes,
// including item ordering changes.
func NewPlaylistUpdatedEvent(playlistID int64) interfaces.Event {
	return events.NewAggregateEvent(EventPlaylistUpdated, formatID(playlistID), nil)
}

// NewPlaylistDeletedEvent creates an event for playlist deletion.
func NewPlaylistDeletedEvent(playlistID int64) interfaces.Event {
	return events.NewAggregateEvent(EventPlaylistDeleted, formatID(playlistID), nil)
}

// NewPlaybackRecordedEvent creates an event for recorded playback state.
func NewPlaybackRecordedEvent(session *models.PlaybackSession) interfaces.Event {
	return events.NewAggregateEvent(EventPlaybackRecorded, formatID(session.VideoID), map[string]interface{}{
		"session_id":       session.ID,
		"current_position": session.CurrentPosition,
		"watch_count":      session.WatchCount,
	})
}

// NewVideoTaggedEvent creates an event for a video/tag link.
func NewVideoTaggedEvent(videoID int64, tagName string) interfaces.Event {
	return events.NewAggregateEvent(EventVideoTagged, formatID(videoID), map[string]interface{}{
		"tag": tagName,
	})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
