package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/worksite/dowgen/internal/models"
)

const variablesSheet = "Variables"

// renderVariablesXlsx writes the variable table as a spreadsheet with
// Name/Value/Type columns. Useful for handing the variable set to the cost
// estimators without giving them database access.
func (e *Engine) renderVariablesXlsx(vars []models.Variable) (models.Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", variablesSheet); err != nil {
		return models.Artifact{}, fmt.Errorf("rename sheet: %w", err)
	}

	header := []string{"Name", "Value", "Type"}
	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(variablesSheet, cell, title); err != nil {
			return models.Artifact{}, fmt.Errorf("write header: %w", err)
		}
	}

	for row, v := range vars {
		values := []string{v.Name, v.Value, string(v.Kind)}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(variablesSheet, cell, value); err != nil {
				return models.Artifact{}, fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return models.Artifact{}, fmt.Errorf("render XLSX: %w", err)
	}
	return models.Artifact{
		Data:      buf.Bytes(),
		MediaType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Ext:       ".xlsx",
	}, nil
}
