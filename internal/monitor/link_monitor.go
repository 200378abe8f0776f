package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/axellelanca/linkbio/internal/repository"
)

// LinkMonitor periodically checks whether the target URLs of active links are
// still reachable, and logs state transitions. Profile owners otherwise have
// no signal when one of their destinations goes dark.
type LinkMonitor struct {
	profileRepo repository.ProfileRepository
	linkRepo    repository.LinkRepository
	interval    time.Duration
	knownStates map[uint]bool // link ID -> last observed reachability
	mu          sync.Mutex
	httpClient  *http.Client
}

// NewLinkMonitor creates and returns a new LinkMonitor instance.
func NewLinkMonitor(profileRepo repository.ProfileRepository, linkRepo repository.LinkRepository, interval time.Duration) *LinkMonitor {
	return &LinkMonitor{
		profileRepo: profileRepo,
		linkRepo:    linkRepo,
		interval:    interval,
		knownStates: make(map[uint]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Start runs the periodic check loop until the context is cancelled.
func (m *LinkMonitor) Start(ctx context.Context) {
	log.Printf("[MONITOR] Starting link monitor with interval of %v...", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Immediate first pass before the first tick.
	m.checkLinks(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[MONITOR] Link monitor stopped.")
			return
		case <-ticker.C:
			m.checkLinks(ctx)
		}
	}
}

// checkLinks walks every active link of every active profile and compares the
// current reachability of its target URL with the previously observed state.
func (m *LinkMonitor) checkLinks(ctx context.Context) {
	profiles, err := m.profileRepo.ListActiveProfiles()
	if err != nil {
		log.Printf("[MONITOR] ERROR retrieving profiles for monitoring: %v", err)
		return
	}

	for _, profile := range profiles {
		links, err := m.linkRepo.GetLinksByProfileID(profile.ID, false)
		if err != nil {
			log.Printf("[MONITOR] ERROR retrieving links for profile %s: %v", profile.Username, err)
			continue
		}

		for _, link := range links {
			currentState := m.isReachable(ctx, link.URL)

			m.mu.Lock()
			previousState, seen := m.knownStates[link.ID]
			m.knownStates[link.ID] = currentState
			m.mu.Unlock()

			if !seen {
				continue
			}
			if currentState != previousState {
				log.Printf("[MONITOR] Link %q of @%s (%s) changed from %s to %s",
					link.Title, profile.Username, link.URL,
					formatState(previousState), formatState(currentState))
			}
		}
	}
}

// isReachable performs an HTTP HEAD request against the target URL.
// 2xx and 3xx responses count as reachable.
func (m *LinkMonitor) isReachable(ctx context.Context, url string) bool {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func formatState(reachable bool) string {
	if reachable {
		return "REACHABLE"
	}
	return "UNREACHABLE"
}
