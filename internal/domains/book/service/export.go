package service

import (
	"context"
	"fmt"

	"bookmanager/internal/domains/book/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Books"

var exportHeaders = []string{"ID", "Title", "Author", "Genre", "Published Year", "Status"}

// ExportBooks builds a workbook of every book matching c, unpaginated.
func (s *BookService) ExportBooks(ctx context.Context, c model.Criteria) (*excelize.File, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	f, err := buildBooksExcelFile(model.Filter(books, c))
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, b := range books {
		row := []interface{}{b.ID, b.Title, b.Author, b.Genre, b.PublishedYear, string(b.Status)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(exportSheet, "B", "C", 32)
	return f, nil
}
