package gormrepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfrederiksen/football-ical/internal/event"
	"github.com/pfrederiksen/football-ical/internal/models"
	"github.com/pfrederiksen/football-ical/internal/repository"
)

type Store struct {
	db *gorm.DB
}

var _ repository.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Team
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListEnabledTeams(ctx context.Context) ([]models.Team, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Team
	if err := s.db.WithContext(ctx).Where("enabled = ?", true).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetTeam(ctx context.Context, id uint64) (*models.Team, error) {
	if s == nil || s.db == nil {
		return nil, repository.ErrTeamNotFound
	}
	var item models.Team
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateTeam(ctx context.Context, team *models.Team) error {
	if s == nil || s.db == nil || team == nil {
		return nil
	}
	err := s.db.WithContext(ctx).Create(team).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", repository.ErrTeamExists, team.URL)
	}
	return err
}

func (s *Store) FlipTeamStatus(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return repository.ErrTeamNotFound
	}
	res := s.db.WithContext(ctx).
		Model(&models.Team{}).
		Where("id = ?", id).
		Update("enabled", gorm.Expr("NOT enabled"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrTeamNotFound
	}
	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context, key string) (*event.Snapshot, error) {
	if s == nil || s.db == nil {
		return event.NewSnapshot(), nil
	}
	var row models.FeedSnapshot
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return event.NewSnapshot(), nil
	}
	if err != nil {
		return nil, err
	}

	snapshot := event.NewSnapshot()
	if err := json.Unmarshal(row.Payload, snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", key, err)
	}
	if snapshot.Events == nil {
		snapshot.Events = make([]*event.Event, 0)
	}
	return snapshot, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, key string, snapshot *event.Snapshot) error {
	if s == nil || s.db == nil || snapshot == nil {
		return nil
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	row := models.FeedSnapshot{
		Key:       key,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}
