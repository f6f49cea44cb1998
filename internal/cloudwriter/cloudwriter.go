package cloudwriter

// CloudWriter buffers writes to one remote object and uploads on Close.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

// CloudWriterFactory creates writers bound to a bucket and object key.
type CloudWriterFactory interface {
	NewWriter(bucket, key, contentType string) (CloudWriter, error)
}
