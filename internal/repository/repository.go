package repository

import (
	"context"
	"errors"

	"github.com/pfrederiksen/football-ical/internal/event"
	"github.com/pfrederiksen/football-ical/internal/models"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	ErrTeamExists   = errors.New("team already exists")
)

type TeamRepository interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListEnabledTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id uint64) (*models.Team, error)
	// CreateTeam fills in ID and timestamps; ErrTeamExists when the URL is taken
	CreateTeam(ctx context.Context, team *models.Team) error
	// FlipTeamStatus toggles Enabled; ErrTeamNotFound for an unknown id
	FlipTeamStatus(ctx context.Context, id uint64) error
}

// SnapshotRepository keeps the fixtures of the last published feed per feed key
type SnapshotRepository interface {
	// LoadSnapshot returns an empty snapshot when none was saved yet
	LoadSnapshot(ctx context.Context, key string) (*event.Snapshot, error)
	SaveSnapshot(ctx context.Context, key string, snapshot *event.Snapshot) error
}

// Store is everything the application persists
type Store interface {
	TeamRepository
	SnapshotRepository
}
