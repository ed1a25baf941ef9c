package seed

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/careaxis/hms/internal/domain/medicine"
)

// Expected CSV columns, header row required:
//
//	name,generic_name,manufacturer,form,strength,unit_price,stock
//
// Optional trailing columns: default_dosage,default_frequency,default_duration.
const minColumns = 7

// LoadMedicines ingests the catalog CSV into inventory.medicines, skipping
// names that already exist. Seeding is best-effort: a missing or malformed
// file is logged and the server starts with whatever catalog it has.
func LoadMedicines(ctx context.Context, db *gorm.DB, log *zap.Logger, csvPath string) {
	if csvPath == "" {
		return
	}

	file, err := os.Open(csvPath)
	if err != nil {
		log.Warn("medicine catalog unavailable, skipping seed",
			zap.String("path", csvPath), zap.Error(err))
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Warn("reading medicine catalog header", zap.Error(err))
		return
	}

	loaded, skipped := 0, 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("reading medicine catalog row", zap.Error(err))
			skipped++
			continue
		}
		if len(record) < minColumns {
			skipped++
			continue
		}

		m := recordToMedicine(record)
		if m.Name == "" {
			skipped++
			continue
		}

		res := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(m)
		if res.Error != nil {
			log.Warn("seeding medicine", zap.String("name", m.Name), zap.Error(res.Error))
			skipped++
			continue
		}
		if res.RowsAffected > 0 {
			loaded++
		}
	}

	log.Info("medicine catalog seeded",
		zap.Int("loaded", loaded), zap.Int("skipped", skipped), zap.String("path", csvPath))
}

func recordToMedicine(record []string) *medicine.Medicine {
	m := &medicine.Medicine{
		Name:         strings.TrimSpace(record[0]),
		GenericName:  strings.TrimSpace(record[1]),
		Manufacturer: strings.TrimSpace(record[2]),
		Form:         medicine.Form(strings.ToLower(strings.TrimSpace(record[3]))),
		Strength:     strings.TrimSpace(record[4]),
	}

	if price, err := decimal.NewFromString(strings.TrimSpace(record[5])); err == nil && !price.IsNegative() {
		m.UnitPrice = price
	}
	if stock, err := strconv.Atoi(strings.TrimSpace(record[6])); err == nil && stock >= 0 {
		m.Stock = stock
	}

	if len(record) > 7 {
		m.DefaultDosage = strings.TrimSpace(record[7])
	}
	if len(record) > 8 {
		m.DefaultFrequency = strings.TrimSpace(record[8])
	}
	if len(record) > 9 {
		m.DefaultDuration = strings.TrimSpace(record[9])
	}

	return m
}
