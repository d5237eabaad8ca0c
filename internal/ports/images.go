package ports

// ImageSource provides images on the sending side.
type ImageSource interface {
	// Exists reports whether name refers to a regular file in the store.
	Exists(name string) bool

	// Read returns the image bytes.
	Read(name string) ([]byte, error)
}

// ImageStore persists reassembled images on the receiving side.
type ImageStore interface {
	// Put writes data under name, replacing any existing image.
	Put(name string, data []byte) error
}
