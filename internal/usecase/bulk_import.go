package usecase

import (
	"context"
	"fmt"
	"io"

	"CardScout/internal/domain/models"
	"CardScout/internal/services/importer"
)

// BulkImporter loads portfolio rows from CSV. Invalid rows are reported
// and skipped; valid rows are stored.
type BulkImporter struct {
	records *Records
}

func NewBulkImporter(records *Records) *BulkImporter {
	return &BulkImporter{records: records}
}

func (b *BulkImporter) Import(ctx context.Context, userID string, src io.Reader) (models.ImportResult, error) {
	rows, err := importer.Parse(src)
	if err != nil {
		return models.ImportResult{}, err
	}

	res := models.ImportResult{Total: len(rows)}
	items := make([]models.PortfolioItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.PortfolioItem()
		if err != nil {
			res.Errors = append(res.Errors, models.ImportError{Row: row.Line, Error: err.Error()})
			continue
		}
		items = append(items, item)
	}

	n, err := b.records.AddPortfolioItems(ctx, userID, items)
	res.Imported = n
	if err != nil {
		res.Errors = append(res.Errors, models.ImportError{Error: err.Error()})
		return res, fmt.Errorf("import portfolio: %w", err)
	}
	return res, nil
}
