package containers

import "github.com/Marcelo-Rosas/container-storage/pkg/models"

// Aggregate computes the container statistics from its inventory lines the
// same way the container_overview view does: distinct SKUs, summed volume and
// summed weight.
func Aggregate(items []models.InventoryItem) models.ContainerStats {
	stats := models.ContainerStats{}
	skus := make(map[string]struct{}, len(items))

	for _, item := range items {
		skus[item.SKU] = struct{}{}
		stats.UsedVolume += item.Volume()
		stats.GrossWeight += item.GrossWeight()
	}
	stats.ItemCount = len(skus)

	return stats
}
