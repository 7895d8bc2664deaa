package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goattend/domain/grid"

	"github.com/xuri/excelize/v2"
)

// DataReader reads Excel and CSV attendance sheets into a RawGrid. No
// structural interpretation happens here; every cell comes back as text.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Loader implements ports.GridLoader over DataReader.
type Loader struct{}

// NewLoader creates a grid loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path into a raw grid.
func (l *Loader) Load(path string) (grid.RawGrid, error) {
	return NewDataReader(path).ReadGrid()
}

// ReadGrid reads the configured file into a raw grid.
func (r *DataReader) ReadGrid() (grid.RawGrid, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return grid.RawGrid{}, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return grid.RawGrid{}, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcel reads the first sheet of the workbook.
func (r *DataReader) readExcel() (grid.RawGrid, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return grid.RawGrid{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return grid.RawGrid{}, fmt.Errorf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return grid.RawGrid{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)",
		sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return grid.RawGrid{}, fmt.Errorf("the uploaded file is empty")
	}
	return grid.New(rows), nil
}

func (r *DataReader) readCSV() (grid.RawGrid, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return grid.RawGrid{}, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // attendance sheets are routinely ragged

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return grid.RawGrid{}, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return grid.RawGrid{}, fmt.Errorf("the uploaded file is empty")
	}
	return grid.New(rows), nil
}
