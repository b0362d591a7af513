package service

import (
	"context"
	"fmt"

	"github.com/mermadic/mermadic/models"
)

// A viewerID of 0 means the caller is not logged in; real user ids start at 1.
const AnonymousViewer int64 = 0

func canView(chart models.Chart, viewerID int64) bool {
	return chart.Public || chart.UserID == viewerID
}

func (s *Service) CreateChart(ctx context.Context, userID int64, title, content string, public bool) (models.Chart, error) {
	if err := ValidateChartTitle(title); err != nil {
		return models.Chart{}, err
	}
	if err := ValidateDiagramContent(content); err != nil {
		return models.Chart{}, err
	}

	chart, err := s.Charts.CreateChart(ctx, userID, title, content, public)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating chart")
		return models.Chart{}, err
	}
	return chart, nil
}

// ListCharts returns the owner's charts, most recently updated first.
func (s *Service) ListCharts(ctx context.Context, userID int64) ([]models.Chart, error) {
	return s.Charts.GetChartsByUser(ctx, userID)
}

// GetChart enforces the owner-or-public rule: private charts are only
// readable by their owner, even when fetched by id.
func (s *Service) GetChart(ctx context.Context, viewerID, id int64) (models.Chart, error) {
	chart, err := s.Charts.GetChartByID(ctx, id)
	if err != nil {
		return models.Chart{}, err
	}
	if !canView(chart, viewerID) {
		return models.Chart{}, ErrForbidden
	}
	return chart, nil
}

// GetChartByShareID applies the same visibility rule as GetChart; a share id
// grants a stable URL, not a bypass of the private flag.
func (s *Service) GetChartByShareID(ctx context.Context, viewerID int64, shareID string) (models.Chart, error) {
	chart, err := s.Charts.GetChartByShareID(ctx, shareID)
	if err != nil {
		return models.Chart{}, err
	}
	if !canView(chart, viewerID) {
		return models.Chart{}, ErrForbidden
	}
	return chart, nil
}

// UpdateChart replaces the mutable fields. Only the owner may update;
// existence is checked first so a non-owner learns nothing but "forbidden".
func (s *Service) UpdateChart(ctx context.Context, viewerID, id int64, title, content string, public bool) error {
	if err := ValidateChartTitle(title); err != nil {
		return err
	}
	if err := ValidateDiagramContent(content); err != nil {
		return err
	}

	chart, err := s.Charts.GetChartByID(ctx, id)
	if err != nil {
		return err
	}
	if chart.UserID != viewerID {
		return ErrForbidden
	}

	affected, err := s.Charts.UpdateChart(ctx, id, title, content, public)
	if err != nil {
		logger.Error().Err(err).Int64("chart_id", id).Msg("Error updating chart")
		return err
	}
	if affected == 0 {
		return fmt.Errorf("chart %d vanished during update", id)
	}
	return nil
}

func (s *Service) DeleteChart(ctx context.Context, viewerID, id int64) error {
	chart, err := s.Charts.GetChartByID(ctx, id)
	if err != nil {
		return err
	}
	if chart.UserID != viewerID {
		return ErrForbidden
	}

	affected, err := s.Charts.DeleteChart(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("chart_id", id).Msg("Error deleting chart")
		return err
	}
	if affected == 0 {
		return fmt.Errorf("chart %d vanished during delete", id)
	}
	return nil
}
