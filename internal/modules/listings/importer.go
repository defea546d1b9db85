package listings

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/estatelab/wardnavi/internal/domain"
)

// Importer bulk-loads per-ward CSV exports into the transaction store.
// The import runs once at startup and is idempotent: wards that already
// have stored records are skipped.
type Importer struct {
	repo          *Repository
	referenceYear int
	log           zerolog.Logger
}

// NewImporter creates a new CSV importer
func NewImporter(repo *Repository, referenceYear int, log zerolog.Logger) *Importer {
	return &Importer{
		repo:          repo,
		referenceYear: referenceYear,
		log:           log.With().Str("component", "listings_importer").Logger(),
	}
}

// column name candidates, Japanese exports first
var (
	priceColumns = []string{"価格", "成約価格", "price"}
	areaColumns  = []string{"専有面積", "面積", "area"}
	builtColumns = []string{"築年月", "築年", "建築年", "built", "vintage"}
	walkColumns  = []string{"駅徒歩", "交通", "最寄駅", "walk", "station"}
	townColumns  = []string{"所在地", "町名", "town", "address"}
)

// ImportDir scans a directory for per-ward CSV files (the file name carries
// the ward, e.g. 港区中古マンション.csv) and loads them. Files whose name
// matches no ward are skipped with a warning.
func (i *Importer) ImportDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read listings directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		ward, ok := wardFromFileName(entry.Name())
		if !ok {
			i.log.Warn().Str("file", entry.Name()).Msg("CSV file name matches no ward, skipping")
			continue
		}

		// Idempotent: skip wards already loaded
		count, err := i.repo.CountByWard(ward)
		if err != nil {
			return err
		}
		if count > 0 {
			i.log.Debug().Str("ward", string(ward)).Int("existing", count).Msg("Ward already imported, skipping")
			continue
		}

		imported, dropped, err := i.importFile(filepath.Join(dir, entry.Name()), ward)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", entry.Name(), err)
		}
		i.log.Info().
			Str("ward", string(ward)).
			Str("file", entry.Name()).
			Int("imported", imported).
			Int("dropped", dropped).
			Msg("Imported ward transactions")
	}

	return nil
}

// importFile parses one ward CSV. Rows that fail to yield all required
// numeric fields are dropped, not defaulted.
func (i *Importer) importFile(path string, ward domain.Ward) (imported, dropped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged exports

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	priceIdx := findColumn(header, priceColumns)
	areaIdx := findColumn(header, areaColumns)
	builtIdx := findColumn(header, builtColumns)
	walkIdx := findColumn(header, walkColumns)
	townIdx := findColumn(header, townColumns)

	if priceIdx < 0 || areaIdx < 0 {
		return 0, 0, fmt.Errorf("CSV has no recognizable price/area columns: %v", header)
	}

	var batch []Transaction
	for {
		row, err := reader.Read()
		if err != nil {
			break // EOF or malformed tail, stop reading
		}

		t, ok := i.parseRow(row, ward, priceIdx, areaIdx, builtIdx, walkIdx, townIdx)
		if !ok {
			dropped++
			continue
		}
		t.SourceFile = filepath.Base(path)
		batch = append(batch, t)
	}

	if err := i.repo.InsertBatch(batch); err != nil {
		return 0, 0, err
	}
	return len(batch), dropped, nil
}

// parseRow applies the best-effort extractors to one CSV row. Price and
// area are required; vintage and walk time have fixed fallbacks.
func (i *Importer) parseRow(row []string, ward domain.Ward, priceIdx, areaIdx, builtIdx, walkIdx, townIdx int) (Transaction, bool) {
	price, ok := ExtractNumber(cell(row, priceIdx))
	if !ok || price <= 0 {
		return Transaction{}, false
	}
	area, ok := ExtractNumber(cell(row, areaIdx))
	if !ok || area <= 0 {
		return Transaction{}, false
	}

	age := FallbackAge
	if builtIdx >= 0 {
		age = ExtractAge(cell(row, builtIdx), i.referenceYear)
	}
	walk := FallbackWalkMinutes
	if walkIdx >= 0 {
		walk = ExtractWalkMinutes(cell(row, walkIdx))
	}

	return Transaction{
		Ward:        ward,
		Town:        strings.TrimSpace(cell(row, townIdx)),
		PriceMan:    price,
		FloorArea:   area,
		BuildingAge: age,
		WalkMinutes: walk,
	}, true
}

// wardFromFileName matches a CSV file name against the ward reference table.
func wardFromFileName(name string) (domain.Ward, bool) {
	base := strings.TrimSuffix(name, ".csv")
	for _, w := range domain.AllWards {
		if strings.Contains(base, w.JapaneseName()) || strings.Contains(strings.ToLower(base), string(w)) {
			return w, true
		}
	}
	return "", false
}

func findColumn(header []string, candidates []string) int {
	for idx, col := range header {
		trimmed := strings.TrimSpace(col)
		for _, cand := range candidates {
			if strings.Contains(trimmed, cand) {
				return idx
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
