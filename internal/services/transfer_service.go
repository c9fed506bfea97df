package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/flashdeck/backend/internal/models"
	"github.com/flashdeck/backend/internal/validation"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	// MaxImportRows is the number of data rows accepted in one import file
	MaxImportRows   = 2000
	importBatchSize = 100
	exportSheetName = "pairs"
)

var (
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
	exportHeader = []any{"term_a", "term_b", "type", "register"}
)

// transferService implements TransferService
type transferService struct {
	deckRepo DeckGetter
	pairRepo PairRepository
	logger   *zap.Logger
}

// NewTransferService creates a new service importing and exporting deck pairs
func NewTransferService(deckRepo DeckGetter, pairRepo PairRepository, logger *zap.Logger) *transferService {
	return &transferService{
		deckRepo: deckRepo,
		pairRepo: pairRepo,
		logger:   logger,
	}
}

// Import reads pairs from a .csv or .xlsx file into a deck owned by the user.
// Invalid rows are reported, rows duplicating an existing pair are skipped.
func (s *transferService) Import(ctx context.Context, userID, deckID, filename string, data []byte) (*models.ImportReport, error) {
	if _, err := loadOwnedDeck(ctx, s.deckRepo, deckID, userID); err != nil {
		return nil, err
	}

	rows, err := readRows(filename, data)
	if err != nil {
		return nil, err
	}

	existing, _, err := s.pairRepo.ListByDeck(ctx, deckID, 0, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[pairKey(p.TermA, p.TermB)] = struct{}{}
	}

	report := &models.ImportReport{Errors: []models.ImportError{}}
	var inputs []models.PairInput
	dataRows := 0
	for i, record := range rows {
		rowNum := i + 1
		if isEmptyRecord(record) {
			continue
		}
		if dataRows == 0 && isHeaderRecord(record) {
			continue
		}
		dataRows++
		if dataRows > MaxImportRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrInvalidFile, MaxImportRows)
		}

		input := recordToInput(record)
		if err := validation.Struct(input); err != nil {
			report.Errors = append(report.Errors, models.ImportError{Row: rowNum, Message: rowMessage(err)})
			continue
		}

		key := pairKey(input.TermA, input.TermB)
		if _, ok := seen[key]; ok {
			report.Skipped++
			continue
		}
		seen[key] = struct{}{}
		inputs = append(inputs, input)
	}

	for start := 0; start < len(inputs); start += importBatchSize {
		end := min(start+importBatchSize, len(inputs))
		created, err := s.pairRepo.CreateBatch(ctx, deckID, inputs[start:end])
		if err != nil {
			return nil, err
		}
		report.Imported += len(created)
	}

	s.logger.Info("pairs imported",
		zap.String("deck_id", deckID),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

// Export writes all pairs of a deck visible to the user into an .xlsx workbook
func (s *transferService) Export(ctx context.Context, userID, deckID string) (string, []byte, error) {
	deck, err := loadVisibleDeck(ctx, s.deckRepo, deckID, userID)
	if err != nil {
		return "", nil, err
	}

	pairs, _, err := s.pairRepo.ListByDeck(ctx, deckID, 0, 0)
	if err != nil {
		return "", nil, err
	}

	data, err := buildWorkbook(pairs)
	if err != nil {
		return "", nil, err
	}

	name := deck.Slug
	if name == "" {
		name = "deck"
	}
	return name + ".xlsx", data, nil
}

func buildWorkbook(pairs []models.Pair) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range pairs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cell: %w", err)
		}
		row := []any{p.TermA, p.TermB, string(p.Type), string(p.Register)}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// readRows returns the raw records of an uploaded file chosen by its extension
func readRows(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(data)
	case ".xlsx":
		return readXLSX(data)
	default:
		return nil, ErrUnsupportedFile
	}
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// detectDelimiter picks the separator occurring most often in the first line
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, candidate := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return rows, nil
}

func recordToInput(record []string) models.PairInput {
	cell := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	input := models.PairInput{
		TermA:    cell(0),
		TermB:    cell(1),
		Type:     models.PairType(strings.ToLower(cell(2))),
		Register: models.Register(strings.ToLower(cell(3))),
	}
	if input.Type == "" {
		input.Type = models.PairTypeWords
	}
	if input.Register == "" {
		input.Register = models.RegisterNeutral
	}
	return input
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isHeaderRecord(record []string) bool {
	if len(record) < 2 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), "term_a") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "term_b")
}

func pairKey(termA, termB string) string {
	return strings.ToLower(termA) + "\x00" + strings.ToLower(termB)
}

func rowMessage(err error) string {
	details, ok := validation.Details(err)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, d.Path+": "+d.Message)
	}
	return strings.Join(parts, "; ")
}
