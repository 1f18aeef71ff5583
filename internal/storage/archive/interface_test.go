// internal/storage/archive/interface_test.go
package archive

import "testing"

func TestInterfaceDefined(t *testing.T) {
	var _ Storage = (*LocalFS)(nil)
	var _ Storage = (*S3Storage)(nil)
	var _ Blob = (*localBlob)(nil)
	var _ Blob = (*s3Blob)(nil)
}
