package domain

import "strings"

// Protocol tokens.
const (
	// ImageNameToken announces that the next frame is an image filename.
	ImageNameToken = "image_name"

	// MetadataPrefix starts every metadata frame.
	MetadataPrefix = "csv,"

	// ImageSuffix identifies a bare filename frame.
	ImageSuffix = ".jpg"

	// MaxNameLen bounds a bare filename frame (exclusive).
	MaxNameLen = 50
)

// FrameKind is the receiver's classification of a frame.
type FrameKind int

const (
	KindImageData FrameKind = iota
	KindImageToken
	KindMetadata
	KindImageName
)

// String returns a human-readable representation of the kind.
func (k FrameKind) String() string {
	switch k {
	case KindImageToken:
		return "image_token"
	case KindMetadata:
		return "metadata"
	case KindImageName:
		return "image_name"
	default:
		return "image_data"
	}
}

// Classify sniffs a frame. Rules apply in priority order: control token,
// metadata prefix, short ".jpg" filename, otherwise image data.
func Classify(f string) FrameKind {
	switch {
	case f == ImageNameToken:
		return KindImageToken
	case strings.HasPrefix(f, MetadataPrefix):
		return KindMetadata
	case strings.HasSuffix(f, ImageSuffix) && len(f) < MaxNameLen:
		return KindImageName
	default:
		return KindImageData
	}
}

// MetadataFrame renders a row as a metadata frame payload.
func MetadataFrame(r MetadataRow) string {
	return MetadataPrefix + strings.Join(r.Fields(), ",")
}
