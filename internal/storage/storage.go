package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/football-ical/internal/event"
	"github.com/pfrederiksen/football-ical/internal/models"
	"github.com/pfrederiksen/football-ical/internal/repository"
)

const teamsFile = "teams.json"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Storage persists teams and feed snapshots as JSON files under a data directory
type Storage struct {
	dataDir string
	mu      sync.Mutex
	now     func() time.Time
}

var _ repository.Store = (*Storage)(nil)

// teamsDocument is the on-disk layout of teams.json
type teamsDocument struct {
	NextID uint64        `json:"next_id"`
	Teams  []models.Team `json:"teams"`
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
		now:     time.Now,
	}, nil
}

// DataDir returns the resolved data directory
func (s *Storage) DataDir() string {
	return s.dataDir
}

// getSnapshotPath returns the path to the snapshot file for a feed key
func (s *Storage) getSnapshotPath(key string) string {
	if key == "" {
		return filepath.Join(s.dataDir, "snapshot.json")
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", unsafeKeyChars.ReplaceAllString(key, "_")))
}

// LoadSnapshot loads a snapshot from disk
func (s *Storage) LoadSnapshot(ctx context.Context, key string) (*event.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.getSnapshotPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Events == nil {
		snapshot.Events = make([]*event.Event, 0)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(ctx context.Context, key string, snapshot *event.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.UpdatedAt == "" {
		snapshot.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.getSnapshotPath(key), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

func (s *Storage) ListTeams(ctx context.Context) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadTeams()
	if err != nil {
		return nil, err
	}
	return doc.Teams, nil
}

func (s *Storage) ListEnabledTeams(ctx context.Context) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadTeams()
	if err != nil {
		return nil, err
	}
	enabled := make([]models.Team, 0, len(doc.Teams))
	for _, team := range doc.Teams {
		if team.Enabled {
			enabled = append(enabled, team)
		}
	}
	return enabled, nil
}

func (s *Storage) GetTeam(ctx context.Context, id uint64) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadTeams()
	if err != nil {
		return nil, err
	}
	for i := range doc.Teams {
		if doc.Teams[i].ID == id {
			team := doc.Teams[i]
			return &team, nil
		}
	}
	return nil, repository.ErrTeamNotFound
}

func (s *Storage) CreateTeam(ctx context.Context, team *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadTeams()
	if err != nil {
		return err
	}
	for _, existing := range doc.Teams {
		if existing.URL == team.URL {
			return fmt.Errorf("%w: %s", repository.ErrTeamExists, team.URL)
		}
	}

	doc.NextID++
	now := s.now().UTC()
	team.ID = doc.NextID
	team.CreatedAt = now
	team.UpdatedAt = now
	doc.Teams = append(doc.Teams, *team)

	return s.saveTeams(doc)
}

func (s *Storage) FlipTeamStatus(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadTeams()
	if err != nil {
		return err
	}
	for i := range doc.Teams {
		if doc.Teams[i].ID == id {
			doc.Teams[i].Enabled = !doc.Teams[i].Enabled
			doc.Teams[i].UpdatedAt = s.now().UTC()
			return s.saveTeams(doc)
		}
	}
	return repository.ErrTeamNotFound
}

// loadTeams reads teams.json; callers hold s.mu
func (s *Storage) loadTeams() (*teamsDocument, error) {
	doc := &teamsDocument{Teams: make([]models.Team, 0)}

	data, err := os.ReadFile(filepath.Join(s.dataDir, teamsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("reading teams: %w", err)
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing teams: %w", err)
	}
	if doc.Teams == nil {
		doc.Teams = make([]models.Team, 0)
	}
	return doc, nil
}

// saveTeams writes teams.json; callers hold s.mu
func (s *Storage) saveTeams(doc *teamsDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding teams: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dataDir, teamsFile), data, 0644); err != nil {
		return fmt.Errorf("writing teams: %w", err)
	}
	return nil
}
