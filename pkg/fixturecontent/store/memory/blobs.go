package memory

import (
	"bytes"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// BlobExists reports whether a blob is stored under blobID.
func (s *Store) BlobExists(blobID fixturecontent.ID) bool {
	_, ok := s.blobs[blobID]
	return ok
}

// GetBlob returns a copy of the blob's bytes.
func (s *Store) GetBlob(blobID fixturecontent.ID) ([]byte, bool) {
	data, ok := s.blobs[blobID]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// SetBlob stores a copy of data under blobID, replacing any previous blob.
func (s *Store) SetBlob(blobID fixturecontent.ID, data []byte) {
	if data == nil {
		data = []byte{}
	}
	s.blobs[blobID] = bytes.Clone(data)
}
