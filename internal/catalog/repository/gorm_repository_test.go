package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/reelkeep/reelkeep/internal/catalog/domain"
	"github.com/reelkeep/reelkeep/internal/catalog/repository"
	pkgerrors "github.com/reelkeep/reelkeep/pkg/errors"
	"github.com/reelkeep/reelkeep/pkg/models"
	"github.com/reelkeep/reelkeep/test/testutil"
)

type GormRepositoryTestSuite struct {
	suite.Suite
	repo *repository.GormRepository
	ctx  context.Context
}

func (suite *GormRepositoryTestSuite) SetupTest() {
	db := repository.NewTestDB(suite.T())
	suite.repo = repository.NewGormRepository(db)
	suite.ctx = context.Background()
}

func TestGormRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormRepositoryTestSuite))
}

func (suite *GormRepositoryTestSuite) TestVideoCRUD() {
	video := testutil.CreateTestVideo("Holiday Cut", "/videos/holiday.mp4")

	err := suite.repo.CreateVideo(suite.ctx, video)
	suite.Require().NoError(err)
	suite.NotZero(video.ID)

	found, err := suite.repo.GetVideo(suite.ctx, video.ID)
	suite.Require().NoError(err)
	suite.Equal("Holiday Cut", found.Title)
	suite.Equal(120.5, found.Duration)

	byPath, err := suite.repo.GetVideoByPath(suite.ctx, "/videos/holiday.mp4")
	suite.Require().NoError(err)
	suite.Equal(video.ID, byPath.ID)

	found.Title = "Holiday Director's Cut"
	suite.Require().NoError(suite.repo.UpdateVideo(suite.ctx, found))

	updated, err := suite.repo.GetVideo(suite.ctx, video.ID)
	suite.Require().NoError(err)
	suite.Equal("Holiday Director's Cut", updated.Title)

	suite.Require().NoError(suite.repo.DeleteVideo(suite.ctx, video.ID))

	_, err = suite.repo.GetVideo(suite.ctx, video.ID)
	suite.True(pkgerrors.IsNotFound(err))
}

func (suite *GormRepositoryTestSuite) TestGetVideoNotFound() {
	_, err := suite.repo.GetVideo(suite.ctx, 9999)
	suite.True(pkgerrors.IsNotFound(err))

	err = suite.repo.DeleteVideo(suite.ctx, 9999)
	suite.True(pkgerrors.IsNotFound(err))
}

func (suite *GormRepositoryTestSuite) TestSearchVideos() {
	a := testutil.CreateTestVideo("Beach Sunrise", "/videos/beach.mp4")
	a.Duration = 60
	b := testutil.CreateTestVideo("Mountain Hike", "/videos/hike.mkv")
	b.Format = "mkv"
	b.Duration = 300
	c := testutil.CreateTestVideo("Beach Bonfire", "/videos/bonfire.mp4")
	c.Duration = 600

	for _, v := range []*models.Video{a, b, c} {
		suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, v))
	}

	title := "beach"
	results, err := suite.repo.SearchVideos(suite.ctx, &domain.VideoSearchParams{
		Title: &title,
		Limit: 10,
	})
	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	// Results are ordered by title.
	suite.Equal("Beach Bonfire", results[0].Title)
	suite.Equal("Beach Sunrise", results[1].Title)

	format := "mkv"
	results, err = suite.repo.SearchVideos(suite.ctx, &domain.VideoSearchParams{
		Format: &format,
		Limit:  10,
	})
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal("Mountain Hike", results[0].Title)

	minDur, maxDur := 100.0, 400.0
	results, err = suite.repo.SearchVideos(suite.ctx, &domain.VideoSearchParams{
		MinDuration: &minDur,
		MaxDuration: &maxDur,
		Limit:       10,
	})
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal("Mountain Hike", results[0].Title)
}

func (suite *GormRepositoryTestSuite) TestSearchVideosByTag() {
	a := testutil.CreateTestVideoN(1)
	b := testutil.CreateTestVideoN(2)
	suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, a))
	suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, b))

	travel := testutil.CreateTestTag("travel")
	family := testutil.CreateTestTag("family")
	suite.Require().NoError(suite.repo.CreateTag(suite.ctx, travel))
	suite.Require().NoError(suite.repo.CreateTag(suite.ctx, family))

	// Video a carries both tags; the tag join must not duplicate it.
	suite.Require().NoError(suite.repo.LinkTag(suite.ctx, a.ID, travel.ID))
	suite.Require().NoError(suite.repo.LinkTag(suite.ctx, a.ID, family.ID))
	suite.Require().NoError(suite.repo.LinkTag(suite.ctx, b.ID, family.ID))

	results, err := suite.repo.SearchVideos(suite.ctx, &domain.VideoSearchParams{
		Tags:  []string{"travel", "family"},
		Limit: 10,
	})
	suite.Require().NoError(err)
	suite.Len(results, 2)

	results, err = suite.repo.SearchVideos(suite.ctx, &domain.VideoSearchParams{
		Tags:  []string{"travel"},
		Limit: 10,
	})
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(a.ID, results[0].ID)
}

func (suite *GormRepositoryTestSuite) TestSearchVideosPagination() {
	for i := 1; i <= 5; i++ {
		suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, testutil.CreateTestVideoN(i)))
	}

	page1, err := suite.repo.SearchVideos(suite.ctx, &domain.VideoSearchParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Len(page1, 2)

	page3, err := suite.repo.SearchVideos(suite.ctx, &domain.VideoSearchParams{Limit: 2, Offset: 4})
	suite.Require().NoError(err)
	suite.Len(page3, 1)

	count, err := suite.repo.CountVideos(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(5), count)
}

func (suite *GormRepositoryTestSuite) TestDeleteVideoCascades() {
	video := testutil.CreateTestVideoN(1)
	suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, video))

	playlist := testutil.CreateTestPlaylist("Watch Later")
	suite.Require().NoError(suite.repo.CreatePlaylist(suite.ctx, playlist))
	suite.Require().NoError(suite.repo.AddPlaylistItem(suite.ctx, &models.PlaylistItem{
		PlaylistID: playlist.ID,
		VideoID:    video.ID,
		Position:   0,
		AddedAt:    time.Now().UTC(),
	}))

	suite.Require().NoError(suite.repo.CreateSession(suite.ctx, testutil.CreateTestSession(video.ID)))

	tag := testutil.CreateTestTag("travel")
	suite.Require().NoError(suite.repo.CreateTag(suite.ctx, tag))
	suite.Require().NoError(suite.repo.LinkTag(suite.ctx, video.ID, tag.ID))

	suite.Require().NoError(suite.repo.DeleteVideo(suite.ctx, video.ID))

	items, err := suite.repo.ListPlaylistItems(suite.ctx, playlist.ID)
	suite.Require().NoError(err)
	suite.Empty(items)

	_, err = suite.repo.GetLatestSession(suite.ctx, video.ID)
	suite.True(pkgerrors.IsNotFound(err))

	tags, err := suite.repo.ListVideoTags(suite.ctx, video.ID)
	suite.Require().NoError(err)
	suite.Empty(tags)

	// The playlist and the tag themselves survive.
	_, err = suite.repo.GetPlaylist(suite.ctx, playlist.ID)
	suite.NoError(err)
	_, err = suite.repo.GetTag(suite.ctx, tag.ID)
	suite.NoError(err)
}

func (suite *GormRepositoryTestSuite) TestPlaylistCRUDAndFavorites() {
	regular := testutil.CreateTestPlaylist("All Videos")
	favorite := testutil.CreateTestPlaylist("Best Of")
	favorite.IsFavorite = true

	suite.Require().NoError(suite.repo.CreatePlaylist(suite.ctx, regular))
	suite.Require().NoError(suite.repo.CreatePlaylist(suite.ctx, favorite))

	all, err := suite.repo.ListPlaylists(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Len(all, 2)

	fav := true
	favorites, err := suite.repo.ListPlaylists(suite.ctx, &fav)
	suite.Require().NoError(err)
	suite.Require().Len(favorites, 1)
	suite.Equal("Best Of", favorites[0].Name)

	suite.Require().NoError(suite.repo.DeletePlaylist(suite.ctx, regular.ID))
	_, err = suite.repo.GetPlaylist(suite.ctx, regular.ID)
	suite.True(pkgerrors.IsNotFound(err))
}

func (suite *GormRepositoryTestSuite) TestPlaylistItemOrderingAndUniqueness() {
	playlist := testutil.CreateTestPlaylist("Road Trip")
	suite.Require().NoError(suite.repo.CreatePlaylist(suite.ctx, playlist))

	videos := make([]*models.Video, 3)
	for i := range videos {
		videos[i] = testutil.CreateTestVideoN(i + 1)
		suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, videos[i]))
	}

	for i, v := range videos {
		suite.Require().NoError(suite.repo.AddPlaylistItem(suite.ctx, &models.PlaylistItem{
			PlaylistID: playlist.ID,
			VideoID:    v.ID,
			Position:   i,
			AddedAt:    time.Now().UTC(),
		}))
	}

	// A second item at an occupied position violates the unique index.
	err := suite.repo.AddPlaylistItem(suite.ctx, &models.PlaylistItem{
		PlaylistID: playlist.ID,
		VideoID:    videos[0].ID,
		Position:   1,
		AddedAt:    time.Now().UTC(),
	})
	suite.True(pkgerrors.IsConflict(err))

	items, err := suite.repo.ListPlaylistItems(suite.ctx, playlist.ID)
	suite.Require().NoError(err)
	suite.Require().Len(items, 3)
	for i, item := range items {
		suite.Equal(i, item.Position)
	}

	withItems, err := suite.repo.GetPlaylistWithItems(suite.ctx, playlist.ID)
	suite.Require().NoError(err)
	suite.Len(withItems.Items, 3)
}

func (suite *GormRepositoryTestSuite) TestShiftPositions() {
	playlist := testutil.CreateTestPlaylist("Queue")
	suite.Require().NoError(suite.repo.CreatePlaylist(suite.ctx, playlist))

	video := testutil.CreateTestVideoN(1)
	suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, video))

	for i := 0; i < 4; i++ {
		suite.Require().NoError(suite.repo.AddPlaylistItem(suite.ctx, &models.PlaylistItem{
			PlaylistID: playlist.ID,
			VideoID:    video.ID,
			Position:   i,
			AddedAt:    time.Now().UTC(),
		}))
	}

	// Opening a gap at position 1 must not trip the unique index even
	// though every shifted row passes through occupied positions.
	suite.Require().NoError(suite.repo.ShiftPositions(suite.ctx, playlist.ID, 1, 1))

	items, err := suite.repo.ListPlaylistItems(suite.ctx, playlist.ID)
	suite.Require().NoError(err)
	suite.Require().Len(items, 4)
	suite.Equal([]int{0, 2, 3, 4}, positionsOf(items))

	// And closing it again.
	suite.Require().NoError(suite.repo.ShiftPositions(suite.ctx, playlist.ID, 2, -1))

	items, err = suite.repo.ListPlaylistItems(suite.ctx, playlist.ID)
	suite.Require().NoError(err)
	suite.Equal([]int{0, 1, 2, 3}, positionsOf(items))
}

func positionsOf(items []*models.PlaylistItem) []int {
	positions := make([]int, len(items))
	for i, item := range items {
		positions[i] = item.Position
	}
	return positions
}

func (suite *GormRepositoryTestSuite) TestSessions() {
	video := testutil.CreateTestVideoN(1)
	suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, video))

	older := testutil.CreateTestSession(video.ID)
	older.LastPlayedAt = time.Now().UTC().Add(-time.Hour)
	older.CurrentPosition = 30
	suite.Require().NoError(suite.repo.CreateSession(suite.ctx, older))

	newer := testutil.CreateTestSession(video.ID)
	newer.CurrentPosition = 95.5
	newer.WatchCount = 2
	suite.Require().NoError(suite.repo.CreateSession(suite.ctx, newer))

	latest, err := suite.repo.GetLatestSession(suite.ctx, video.ID)
	suite.Require().NoError(err)
	suite.Equal(newer.ID, latest.ID)
	suite.Equal(95.5, latest.CurrentPosition)
	suite.Equal(2, latest.WatchCount)

	latest.CurrentPosition = 120
	suite.Require().NoError(suite.repo.UpdateSession(suite.ctx, latest))

	sessions, err := suite.repo.ListSessions(suite.ctx, video.ID, 10, 0)
	suite.Require().NoError(err)
	suite.Require().Len(sessions, 2)
	suite.Equal(120.0, sessions[0].CurrentPosition)
	suite.Equal(30.0, sessions[1].CurrentPosition)
}

func (suite *GormRepositoryTestSuite) TestCreateSessionPersistsZeroValues() {
	video := testutil.CreateTestVideoN(1)
	suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, video))

	// Zero volume and position must survive the insert instead of being
	// displaced by the columns' schema defaults.
	session := testutil.CreateTestSession(video.ID)
	session.VolumeLevel = 0
	session.CurrentPosition = 0
	suite.Require().NoError(suite.repo.CreateSession(suite.ctx, session))

	stored, err := suite.repo.GetLatestSession(suite.ctx, video.ID)
	suite.Require().NoError(err)
	suite.Equal(0.0, stored.VolumeLevel)
	suite.Equal(0.0, stored.CurrentPosition)
	suite.Equal(1, stored.WatchCount)
}

func (suite *GormRepositoryTestSuite) TestPreferenceUpsert() {
	pref := testutil.CreateTestPreference("ui.theme", "dark", models.PreferenceTypeString)
	suite.Require().NoError(suite.repo.UpsertPreference(suite.ctx, pref))

	found, err := suite.repo.GetPreference(suite.ctx, "ui.theme")
	suite.Require().NoError(err)
	suite.Equal("dark", found.PreferenceValue)

	// Writing the same key again updates the row instead of conflicting.
	update := testutil.CreateTestPreference("ui.theme", "light", models.PreferenceTypeString)
	suite.Require().NoError(suite.repo.UpsertPreference(suite.ctx, update))

	found, err = suite.repo.GetPreference(suite.ctx, "ui.theme")
	suite.Require().NoError(err)
	suite.Equal("light", found.PreferenceValue)

	prefs, err := suite.repo.ListPreferences(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(prefs, 1)

	suite.Require().NoError(suite.repo.DeletePreference(suite.ctx, "ui.theme"))
	_, err = suite.repo.GetPreference(suite.ctx, "ui.theme")
	suite.True(pkgerrors.IsNotFound(err))

	err = suite.repo.DeletePreference(suite.ctx, "ui.theme")
	suite.True(pkgerrors.IsNotFound(err))
}

func (suite *GormRepositoryTestSuite) TestTagUniquenessAndLinks() {
	video := testutil.CreateTestVideoN(1)
	suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, video))

	tag := testutil.CreateTestTag("travel")
	suite.Require().NoError(suite.repo.CreateTag(suite.ctx, tag))

	duplicate := testutil.CreateTestTag("travel")
	err := suite.repo.CreateTag(suite.ctx, duplicate)
	suite.True(pkgerrors.IsConflict(err))

	byName, err := suite.repo.GetTagByName(suite.ctx, "travel")
	suite.Require().NoError(err)
	suite.Equal(tag.ID, byName.ID)

	suite.Require().NoError(suite.repo.LinkTag(suite.ctx, video.ID, tag.ID))

	// The same pair cannot be linked twice.
	err = suite.repo.LinkTag(suite.ctx, video.ID, tag.ID)
	suite.True(pkgerrors.IsConflict(err))

	tags, err := suite.repo.ListVideoTags(suite.ctx, video.ID)
	suite.Require().NoError(err)
	suite.Require().Len(tags, 1)
	suite.Equal("travel", tags[0].Name)

	suite.Require().NoError(suite.repo.UnlinkTag(suite.ctx, video.ID, tag.ID))
	err = suite.repo.UnlinkTag(suite.ctx, video.ID, tag.ID)
	suite.True(pkgerrors.IsNotFound(err))
}

func (suite *GormRepositoryTestSuite) TestDeleteTagCascadesLinks() {
	video := testutil.CreateTestVideoN(1)
	suite.Require().NoError(suite.repo.CreateVideo(suite.ctx, video))

	tag := testutil.CreateTestTag("archive")
	suite.Require().NoError(suite.repo.CreateTag(suite.ctx, tag))
	suite.Require().NoError(suite.repo.LinkTag(suite.ctx, video.ID, tag.ID))

	suite.Require().NoError(suite.repo.DeleteTag(suite.ctx, tag.ID))

	tags, err := suite.repo.ListVideoTags(suite.ctx, video.ID)
	suite.Require().NoError(err)
	suite.Empty(tags)

	_, err = suite.repo.GetTag(suite.ctx, tag.ID)
	suite.True(pkgerrors.IsNotFound(err))
}
