package output

import (
	"bytes"
	"context"
	"io"
	"path"
	"path/filepath"
	"testing"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/cloudwriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

type memoryObject struct {
	bytes.Buffer
	closed bool
}

func (m *memoryObject) Close() error {
	m.closed = true
	return nil
}

type memoryFactory struct {
	objects map[string]*memoryObject
}

func (f *memoryFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	obj := &memoryObject{}
	f.objects[bucket+"/"+objectPath] = obj
	return obj, nil
}

func TestParquetOutput_LocalRoundTrip(t *testing.T) {
	pinRun(t, "run1")
	dir := t.TempDir()

	out := NewParquetOutput(dir, "exports", nil, "")
	require.NoError(t, out.WriteSweep(context.Background(), sampleSeries()))
	require.NoError(t, out.Close())

	file := filepath.Join(dir, "exports", KindSweep, filepath.FromSlash(partitionPath(fixedExport.Unix())), "part-run1.parquet")
	fr, err := local.NewLocalFileReader(file)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(SweepRecord), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	rows := make([]SweepRecord, pr.GetNumRows())
	require.NoError(t, pr.Read(&rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "07:00", rows[0].Label)
	assert.Equal(t, int32(510), rows[2].DepartureMinutes)
	assert.Equal(t, 15.0, rows[2].TotalMinutes)
}

func TestParquetOutput_CloudObjects(t *testing.T) {
	pinRun(t, "run1")
	factory := &memoryFactory{objects: make(map[string]*memoryObject)}

	out := NewParquetOutput("", "exports", factory, "commute-bucket")
	require.NoError(t, out.WriteSimulation(context.Background(), sampleResult()))
	require.NoError(t, out.Close())

	partition := partitionPath(fixedExport.Unix())
	require.Len(t, factory.objects, 2)
	for _, kind := range []string{KindSegments, KindSimulations} {
		key := "commute-bucket/" + path.Join("exports", kind, partition, "part-run1.parquet")
		obj, ok := factory.objects[key]
		require.True(t, ok, key)
		assert.True(t, obj.closed)

		data := obj.Bytes()
		require.Greater(t, len(data), 8)
		assert.Equal(t, "PAR1", string(data[:4]))
		assert.Equal(t, "PAR1", string(data[len(data)-4:]))
	}
}

func TestObjectFile_AppendOnly(t *testing.T) {
	obj := &memoryObject{}
	f := newObjectFile(obj)

	n, err := f.Write([]byte("PAR1"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, whence := range []int{io.SeekCurrent, io.SeekEnd} {
		pos, err := f.Seek(0, whence)
		require.NoError(t, err)
		assert.Equal(t, int64(4), pos)
	}
	pos, err := f.Seek(4, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	_, err = f.Seek(0, io.SeekStart)
	assert.Error(t, err)
	_, err = f.Seek(-1, io.SeekEnd)
	assert.Error(t, err)

	_, err = f.Read(make([]byte, 1))
	assert.Error(t, err)
	_, err = f.Open("part.parquet")
	assert.Error(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.True(t, obj.closed)
	_, err = f.Write([]byte("x"))
	assert.Error(t, err)
	assert.Equal(t, "PAR1", obj.String())
}
