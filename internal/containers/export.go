package containers

import (
	"fmt"

	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Containers"

var exportHeaders = []string{
	"Container Number", "Internal Code", "Client", "Type", "Status", "Start Date", "End Date",
	"Yard Location", "Volume (m³)", "Used Volume (m³)", "Gross Weight (kg)", "Items", "Base Cost",
}

// BuildExport writes rows into a new workbook with one sheet. The caller
// closes the file.
func BuildExport(rows []models.ContainerOverview) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx, container := range rows {
		values := []interface{}{
			container.ContainerNumber,
			container.InternalCode,
			textOrEmpty(container.ClientName),
			container.ContainerTypeCode,
			container.Status,
			container.StartDate.Format(dateLayout),
			dateOrEmpty(container),
			textOrEmpty(container.YardLocation),
			numberOrEmpty(container.Volume),
			container.UsedVolume,
			container.GrossWeight,
			container.ItemCount,
			numberOrEmpty(container.BaseCost),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowIdx+2, err)
		}
	}

	return f, nil
}

func textOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func numberOrEmpty(value *float64) interface{} {
	if value == nil {
		return ""
	}
	return *value
}

func dateOrEmpty(container models.ContainerOverview) string {
	if container.EndDate == nil {
		return ""
	}
	return container.EndDate.Format(dateLayout)
}
