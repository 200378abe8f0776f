package workers

import (
	"log"
	"sync"

	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

// StartClickWorkers launches a pool of worker goroutines that drain the click
// event channel and persist events to the database. This keeps the public
// redirect path free of the insert latency: the handler only enqueues.
//
// The returned WaitGroup is done once every worker has exited, which happens
// after the channel is closed and fully drained. The server closes the
// channel during shutdown and waits on it so buffered events are not lost.
func StartClickWorkers(workerCount int, clickEvents <-chan models.ClickEvent, clickRepo repository.ClickRepository) *sync.WaitGroup {
	log.Printf("Starting %d click worker(s)...", workerCount)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clickWorker(clickEvents, clickRepo)
		}()
	}
	return &wg
}

// clickWorker processes click events until the channel is closed.
func clickWorker(clickEvents <-chan models.ClickEvent, clickRepo repository.ClickRepository) {
	for event := range clickEvents {
		click := &models.Click{
			LinkID:    event.LinkID,
			Timestamp: event.Timestamp,
			IPAddress: event.IPAddress,
			UserAgent: event.UserAgent,
			Referer:   event.Referer,
		}

		// A failed insert only widens the gap between the link's counter and
		// the event log; that divergence is accepted and never reconciled,
		// so log and keep going.
		if err := clickRepo.CreateClick(click); err != nil {
			log.Printf("ERROR: Failed to save click for LinkID %d: %v", event.LinkID, err)
		}
	}
}
