// workers/member_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fitness-ranking-system/models"
	"fitness-ranking-system/utils"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredMemberFromProfile matches the JSON response from the profile service.
type MirroredMemberFromProfile struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	TeamID     string    `json:"team_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"` // player | member | coach | staff
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetMemberChangesResponse is the top-level structure of the profile service response.
type GetMemberChangesResponse struct {
	Members []MirroredMemberFromProfile `json:"members"`
}

type MemberSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/team-members"
	serviceToken string
	httpClient   *http.Client
	titleCaser   cases.Caser
}

// NewMemberSyncWorker requires the profile service URL and this service's token.
func NewMemberSyncWorker(db *gorm.DB, profileServiceBaseURL, endpointPath, serviceToken string) *MemberSyncWorker {
	return &MemberSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      profileServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient:   utils.HTTPClient,
		titleCaser:   cases.Title(language.English),
	}
}

func (w *MemberSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Member Sync Worker (profile-service → team_members)…")
	go w.run(ctx)
}

func (w *MemberSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial roster sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Incremental syncs use the last update time from our local mirror
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Roster sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Member Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from our local TeamMember mirror.
func (w *MemberSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM team_members WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0) // Fallback to epoch if no records or error
	}
	return lastTime
}

// syncBatch fetches roster changes from the profile service and upserts the
// local team_members mirror.
func (w *MemberSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339) // Normalize to UTC for consistency
	log.Printf("[SYNC] 📡 Fetching roster changes from profile service since=%s", sinceStr)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base profile service URL '%s': %w", w.baseURL, err)
	}

	// Safely join base URL and endpoint path (handles trailing/leading slashes)
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Printf("[SYNC] ❌ Request to %s failed: %v", finalURL, err)
		return fmt.Errorf("HTTP request to profile service failed: %w", err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[SYNC] ❌ Profile service returned %d for %s: %s", resp.StatusCode, finalURL, string(body))
		return fmt.Errorf("profile service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetMemberChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode profile service response: %w", err)
	}

	if len(response.Members) == 0 {
		log.Printf("[SYNC] ✅ No roster changes received since %s", sinceStr)
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d member(s) from profile service…", len(response.Members))

	var upsertCount, errorCount int
	for _, remote := range response.Members {
		localMember := models.TeamMember{
			TeamID:         remote.TeamID,
			ExternalUserID: remote.ExternalID,
			Name:           w.displayName(remote),
			Role:           normalizeRole(remote.Role),
			AvatarURL:      remote.AvatarURL,
			CreatedAt:      remote.CreatedAt,
			UpdatedAt:      remote.UpdatedAt,
		}

		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"team_id", "name", "role", "avatar_url", "created_at", "updated_at",
			}),
		}).Create(&localMember).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert team_member (external_id=%q): %v", remote.ExternalID, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d member(s) (%d upserted, %d errors)", len(response.Members), upsertCount, errorCount)
	return nil
}

// displayName builds "First Last" with consistent casing; profile data arrives
// in whatever casing the mobile client sent.
func (w *MemberSyncWorker) displayName(m MirroredMemberFromProfile) string {
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	if name == "" {
		return m.ExternalID
	}
	return w.titleCaser.String(strings.ToLower(name))
}

// normalizeRole maps unknown roles to "member" so upstream typos never make a
// member silently rank-ineligible.
func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "player":
		return "player"
	case "coach":
		return "coach"
	case "staff":
		return "staff"
	default:
		return "member"
	}
}
