// Package cloudwriter buffers exported files and uploads them to object storage.
package cloudwriter

// CloudWriter receives the bytes of a single object. Close commits the object.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
