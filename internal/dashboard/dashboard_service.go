package dashboard

import (
	"context"

	"github.com/Marcelo-Rosas/container-storage/internal/session"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

type ContainerSource interface {
	GetContainerOverviews(ctx context.Context, identity session.Identity) ([]models.ContainerOverview, error)
}

type ClientCounter interface {
	CountClients(ctx context.Context, identity session.Identity) (int64, error)
}

type DashboardService struct {
	Containers ContainerSource
	Clients    ClientCounter
}

func NewDashboardService(containers ContainerSource, clients ClientCounter) *DashboardService {
	return &DashboardService{Containers: containers, Clients: clients}
}

func (s *DashboardService) GetSummary(ctx context.Context, identity session.Identity) (Summary, error) {
	rows, err := s.Containers.GetContainerOverviews(ctx, identity)
	if err != nil {
		return Summary{}, err
	}

	summary := Summarize(rows)
	summary.ClientCount, err = s.Clients.CountClients(ctx, identity)
	if err != nil {
		return Summary{}, err
	}

	return summary, nil
}
