package mango

type Limits struct {
	MaxFileSize  uint64 // encoded container bytes as stored on disk
	MaxImages    int
	MaxImageSize uint64 // single payload, and decompression output cap
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:  4 << 30,   // 4 GiB
		MaxImages:    100_000,
		MaxImageSize: 512 << 20, // 512 MiB
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxFileSize == 0 {
		l.MaxFileSize = d.MaxFileSize
	}
	if l.MaxImages == 0 {
		l.MaxImages = d.MaxImages
	}
	if l.MaxImageSize == 0 {
		l.MaxImageSize = d.MaxImageSize
	}
	return l
}
