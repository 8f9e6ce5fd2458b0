package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

type csvRecord interface {
	csvHeader() []string
	csvRow() []string
}

// JSONOutput appends newline-delimited JSON under basePath/folder/<kind>/<partition>/data.json.
type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteSimulation(_ context.Context, result models.SimulationResult) error {
	r := newRun()
	for _, rec := range segmentRecords(r, result) {
		if err := j.write(KindSegments, r.ExportedAt, rec); err != nil {
			return err
		}
	}
	return j.write(KindSimulations, r.ExportedAt, simulationRecord(r, result))
}

func (j *JSONOutput) WriteSweep(_ context.Context, series models.SweepSeries) error {
	r := newRun()
	for _, rec := range sweepRecords(r, series) {
		if err := j.write(KindSweep, r.ExportedAt, rec); err != nil {
			return err
		}
	}
	return nil
}

func (j *JSONOutput) write(kind string, exportedAt int64, record interface{}) error {
	fullPath := filepath.Join(j.basePath, j.folder, kind, partitionPath(exportedAt))
	fileKey := filepath.Join(kind, partitionPath(exportedAt))

	file, ok := j.files[fileKey]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		var err error
		file, err = os.OpenFile(filepath.Join(fullPath, "data.json"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	jsonData, err := json.Marshal(record)
	if err != nil {
		return err
	}
	jsonData = append(jsonData, '\n')
	_, err = file.Write(jsonData)
	return err
}

func (j *JSONOutput) Close() error {
	var errs []error
	for _, file := range j.files {
		errs = append(errs, file.Close())
	}
	return errors.Join(errs...)
}

// CSVOutput writes one headered CSV per kind and partition.
type CSVOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
	writers  map[string]*csv.Writer
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
	}
}

func (c *CSVOutput) WriteSimulation(_ context.Context, result models.SimulationResult) error {
	r := newRun()
	for _, rec := range segmentRecords(r, result) {
		if err := c.write(KindSegments, r.ExportedAt, rec); err != nil {
			return err
		}
	}
	return c.write(KindSimulations, r.ExportedAt, simulationRecord(r, result))
}

func (c *CSVOutput) WriteSweep(_ context.Context, series models.SweepSeries) error {
	r := newRun()
	for _, rec := range sweepRecords(r, series) {
		if err := c.write(KindSweep, r.ExportedAt, rec); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSVOutput) write(kind string, exportedAt int64, record csvRecord) error {
	fullPath := filepath.Join(c.basePath, c.folder, kind, partitionPath(exportedAt))
	fileKey := filepath.Join(kind, partitionPath(exportedAt))

	csvWriter, ok := c.writers[fileKey]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		path := filepath.Join(fullPath, "data.csv")
		_, statErr := os.Stat(path)
		isNew := errors.Is(statErr, os.ErrNotExist)

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		c.files[fileKey] = file
		c.writers[fileKey] = csvWriter

		if isNew {
			if err := csvWriter.Write(record.csvHeader()); err != nil {
				return err
			}
		}
	}

	if err := csvWriter.Write(record.csvRow()); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func (c *CSVOutput) Close() error {
	var errs []error
	for key, csvWriter := range c.writers {
		csvWriter.Flush()
		errs = append(errs, csvWriter.Error(), c.files[key].Close())
	}
	return errors.Join(errs...)
}
