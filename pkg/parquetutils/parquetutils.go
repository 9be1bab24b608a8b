// Package parquetutils encodes and decodes parquet files held in memory.
package parquetutils

import (
	"github.com/cockroachdb/errors"
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

var (
	// ReaderConcurrency parallel number of file readers.
	ReaderConcurrency int64 = 8

	// WriterConcurrency parallel number of record marshalers.
	WriterConcurrency int64 = 4
)

var _ source.ParquetFile = (*memFile)(nil)

// memFile is a parquet file backed by a byte slice.
type memFile struct {
	*parquetbuffer.BufferFile
}

func newMemFile(data []byte) *memFile {
	if data == nil {
		return &memFile{parquetbuffer.NewBufferFile()}
	}
	return &memFile{parquetbuffer.NewBufferFileFromBytesNoAlloc(data)}
}

func (f *memFile) Create(string) (source.ParquetFile, error) {
	return newMemFile(nil), nil
}

// Open returns an independent reader over the same bytes, parquet readers open one per column.
func (f *memFile) Open(string) (source.ParquetFile, error) {
	return newMemFile(f.Bytes()), nil
}

// ReadAll decodes every record of a parquet file. T must carry parquet struct tags.
func ReadAll[T any](data []byte) ([]T, error) {
	r, err := reader.NewParquetReader(newMemFile(data), new(T), ReaderConcurrency)
	if err != nil {
		return nil, errors.Wrap(err, "can't create parquet reader")
	}
	defer r.ReadStop()

	records := make([]T, r.GetNumRows())
	if err = r.Read(&records); err != nil {
		return nil, errors.Wrap(err, "failed to read parquet data")
	}
	return records, nil
}

// WriteAll encodes records as a snappy compressed parquet file. T must carry parquet struct tags.
func WriteAll[T any](records []T) ([]byte, error) {
	file := newMemFile(nil)
	w, err := writer.NewParquetWriter(file, new(T), WriterConcurrency)
	if err != nil {
		return nil, errors.Wrap(err, "can't create parquet writer")
	}
	w.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range records {
		if err := w.Write(records[i]); err != nil {
			return nil, errors.Wrapf(err, "failed to write record %d", i)
		}
	}
	if err := w.WriteStop(); err != nil {
		return nil, errors.Wrap(err, "failed to flush parquet writer")
	}
	return file.Bytes(), nil
}
