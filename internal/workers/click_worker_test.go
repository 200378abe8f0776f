package workers

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Link{}, &models.Click{}))
	return db
}

// Closing the channel must let the pool drain every buffered event before the
// WaitGroup releases; this is what the server's graceful shutdown relies on.
func TestClickWorkersDrainOnClose(t *testing.T) {
	db := newTestDB(t)
	clickRepo := repository.NewClickRepository(db)

	link := &models.Link{Title: "a", URL: "https://example.com", IsActive: true}
	require.NoError(t, db.Create(link).Error)

	events := make(chan models.ClickEvent, 64)
	wg := StartClickWorkers(3, events, clickRepo)

	const total = 50
	for i := 0; i < total; i++ {
		events <- models.ClickEvent{
			LinkID:    link.ID,
			Timestamp: time.Now(),
			IPAddress: "127.0.0.1",
			UserAgent: "test-agent",
		}
	}
	close(events)
	wg.Wait()

	count, err := clickRepo.CountClicksByLinkID(link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(total), count)
}

func TestClickWorkersPersistEventFields(t *testing.T) {
	db := newTestDB(t)
	clickRepo := repository.NewClickRepository(db)

	link := &models.Link{Title: "a", URL: "https://example.com", IsActive: true}
	require.NoError(t, db.Create(link).Error)

	events := make(chan models.ClickEvent, 1)
	wg := StartClickWorkers(1, events, clickRepo)

	at := time.Now().Truncate(time.Second)
	events <- models.ClickEvent{
		LinkID:    link.ID,
		Timestamp: at,
		IPAddress: "10.0.0.1",
		UserAgent: "iPhone",
		Referer:   "https://twitter.com",
	}
	close(events)
	wg.Wait()

	var click models.Click
	require.NoError(t, db.Where("link_id = ?", link.ID).First(&click).Error)
	assert.Equal(t, "10.0.0.1", click.IPAddress)
	assert.Equal(t, "iPhone", click.UserAgent)
	assert.Equal(t, "https://twitter.com", click.Referer)
	assert.WithinDuration(t, at, click.Timestamp, time.Second)
}
