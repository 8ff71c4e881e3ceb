package dashboard

import (
	"github.com/Marcelo-Rosas/container-storage/pkg/metadata"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

type Summary struct {
	TotalContainers         int     `json:"total_containers"`
	ActiveContainers        int     `json:"active_containers"`
	InactiveContainers      int     `json:"inactive_containers"`
	ClosedContainers        int     `json:"closed_containers"`
	TotalUsedVolume         float64 `json:"total_used_volume"`
	TotalNominalVolume      float64 `json:"total_nominal_volume"`
	OccupancyRatio          float64 `json:"occupancy_ratio"`
	EstimatedMonthlyRevenue float64 `json:"estimated_monthly_revenue"`
	ClientCount             int64   `json:"client_count"`
}

// Summarize computes the dashboard figures from the container rows the
// caller can see. Revenue counts the base cost of active containers only;
// occupancy is used over nominal volume and 0 when no volume is known.
func Summarize(rows []models.ContainerOverview) Summary {
	summary := Summary{TotalContainers: len(rows)}

	for _, row := range rows {
		switch metadata.Status(row.Status) {
		case metadata.StatusActive:
			summary.ActiveContainers++
			if row.BaseCost != nil {
				summary.EstimatedMonthlyRevenue += *row.BaseCost
			}
		case metadata.StatusInactive:
			summary.InactiveContainers++
		case metadata.StatusClosed:
			summary.ClosedContainers++
		}

		summary.TotalUsedVolume += row.UsedVolume
		if row.Volume != nil {
			summary.TotalNominalVolume += *row.Volume
		}
	}

	if summary.TotalNominalVolume > 0 {
		summary.OccupancyRatio = summary.TotalUsedVolume / summary.TotalNominalVolume
	}

	return summary
}
