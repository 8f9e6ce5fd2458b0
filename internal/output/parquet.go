package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/cloudwriter"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetOutput writes one parquet file per record kind and partition,
// locally or to object storage when a cloud writer factory is set.
type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(basePath, folder string, factory cloudwriter.CloudWriterFactory, bucket string) *ParquetOutput {
	return &ParquetOutput{
		basePath:           basePath,
		folder:             folder,
		writers:            make(map[string]*writer.ParquetWriter),
		files:              make(map[string]source.ParquetFile),
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
	}
}

func (p *ParquetOutput) WriteSimulation(_ context.Context, result models.SimulationResult) error {
	r := newRun()
	for _, rec := range segmentRecords(r, result) {
		if err := p.write(KindSegments, r, new(SegmentRecord), rec); err != nil {
			return err
		}
	}
	return p.write(KindSimulations, r, new(SimulationRecord), simulationRecord(r, result))
}

func (p *ParquetOutput) WriteSweep(_ context.Context, series models.SweepSeries) error {
	r := newRun()
	for _, rec := range sweepRecords(r, series) {
		if err := p.write(KindSweep, r, new(SweepRecord), rec); err != nil {
			return err
		}
	}
	return nil
}

func (p *ParquetOutput) write(kind string, r run, schema, record interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	writerKey := path.Join(kind, partitionPath(r.ExportedAt))
	pw, ok := p.writers[writerKey]
	if !ok {
		var err error
		pw, err = p.createNewWriter(writerKey, fmt.Sprintf("part-%s.parquet", r.ID), schema)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(record); err != nil {
		return fmt.Errorf("failed to write %s record: %w", kind, err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(writerKey, fileName string, schema interface{}) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, writerKey, fileName)
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = newObjectFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, filepath.FromSlash(writerKey))
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, fileName))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, schema, 1)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			errs = append(errs, fmt.Errorf("closing writer %s: %w", key, err))
		}
		if err := p.files[key].Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing file %s: %w", key, err))
		}
	}
	p.writers = make(map[string]*writer.ParquetWriter)
	p.files = make(map[string]source.ParquetFile)
	return errors.Join(errs...)
}

// objectFile presents a cloud upload as the append-only file parquet-go
// writes to. Seeking is only allowed as a position query, since bytes already
// handed to the upload cannot be revisited.
type objectFile struct {
	upload  cloudwriter.CloudWriter
	written int64
	closed  bool
}

func newObjectFile(upload cloudwriter.CloudWriter) *objectFile {
	return &objectFile{upload: upload}
}

func (o *objectFile) Create(name string) (source.ParquetFile, error) {
	return o, nil
}

func (o *objectFile) Open(name string) (source.ParquetFile, error) {
	return nil, fmt.Errorf("object %s is write-only", name)
}

func (o *objectFile) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent, io.SeekEnd:
		target = o.written + offset
	default:
		return o.written, fmt.Errorf("invalid whence %d", whence)
	}
	if target != o.written {
		return o.written, fmt.Errorf("cannot seek to %d in an upload at %d", target, o.written)
	}
	return o.written, nil
}

func (o *objectFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read from a write-only object")
}

func (o *objectFile) Write(p []byte) (int, error) {
	if o.closed {
		return 0, fmt.Errorf("write after close")
	}
	n, err := o.upload.Write(p)
	o.written += int64(n)
	return n, err
}

// Close commits the upload once.
func (o *objectFile) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	return o.upload.Close()
}
