// Package countries serves the static country reference data bundled with
// the binary. The CSV is parsed once at first use and never mutated.
package countries

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/nexthome/backend/internal/models"
)

//go:embed data/countries.csv
var dataFS embed.FS

const dataFile = "data/countries.csv"

var (
	once    sync.Once
	loaded  []models.Country
	loadErr error
)

// All returns the bundled country list in file order.
func All() ([]models.Country, error) {
	once.Do(func() {
		loaded, loadErr = load()
	})

	return loaded, loadErr
}

func load() ([]models.Country, error) {
	f, err := dataFS.Open(dataFile)
	if err != nil {
		return nil, fmt.Errorf("open countries data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	// skip header
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read countries header: %w", err)
	}

	var out []models.Country
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read countries data: %w", err)
		}

		out = append(out, models.Country{Name: rec[0], Code: rec[1]})
	}

	return out, nil
}
