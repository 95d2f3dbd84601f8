package testutil

import (
	"fmt"
	"time"

	"github.com/reelkeep/reelkeep/pkg/models"
)

// CreateTestVideo creates a video with sensible defaults.
func CreateTestVideo(title, filePath string) *models.Video {
	now := time.Now().UTC()
	return &models.Video{
		Title:     title,
		FilePath:  filePath,
		FileSize:  1 << 20,
		Duration:  120.5,
		Format:    "mp4",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestVideoN creates a numbered test video with a unique file path.
func CreateTestVideoN(n int) *models.Video {
	return CreateTestVideo(
		fmt.Sprintf("Test Video %d", n),
		fmt.Sprintf("/videos/test-%d.mp4", n),
	)
}

// CreateTestPlaylist creates a playlist with default values.
func CreateTestPlaylist(name string) *models.Playlist {
	now := time.Now().UTC()
	return &models.Playlist{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestSession creates a playback session for a video.
func CreateTestSession(videoID int64) *models.PlaybackSession {
	return &models.PlaybackSession{
		VideoID:       videoID,
		VolumeLevel:   100,
		PlaybackSpeed: 1.0,
		LastPlayedAt:  time.Now().UTC(),
		WatchCount:    1,
	}
}

// CreateTestPreference creates a typed preference entry.
func CreateTestPreference(key, value string, dataType models.PreferenceType) *models.UserPreference {
	now := time.Now().UTC()
	return &models.UserPreference{
		PreferenceKey:   key,
		PreferenceValue: value,
		DataType:        dataType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CreateTestTag creates a tag.
func CreateTestTag(name string) *models.VideoTag {
	return &models.VideoTag{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}
