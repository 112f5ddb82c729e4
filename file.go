package mango

import (
	"fmt"
	"slices"
)

// File is a Mango container: an ordered list of images plus one set of
// bibliographic metadata. Image indices are always 0..Len()-1.
//
// A File owns its images. AddImage and SetImage store a copy, so an
// image value is never shared between two files. Images returned by
// Image and Images belong to the File and mutating them mutates it.
//
// A File is not safe for concurrent mutation; callers that share one
// across goroutines must serialize access.
type File struct {
	meta   Metadata
	images []*Image
}

// NewFile returns an empty File.
func NewFile() *File {
	return &File{images: []*Image{}}
}

// Metadata returns the file's metadata for reading and editing.
func (f *File) Metadata() *Metadata { return &f.meta }

// Len returns the number of images.
func (f *File) Len() int { return len(f.images) }

// AddImage appends a copy of img.
func (f *File) AddImage(img *Image) error {
	if f == nil || img == nil {
		return fmt.Errorf("%w: nil file or image", ErrInvalidInput)
	}
	f.images = append(f.images, img.Clone())
	return nil
}

// AddImageByPath reads an image from disk and appends it.
func (f *File) AddImageByPath(path string) error {
	if f == nil {
		return fmt.Errorf("%w: nil file", ErrInvalidInput)
	}
	img, err := ImageFromPath(path)
	if err != nil {
		return err
	}
	f.images = append(f.images, img)
	return nil
}

// Image returns the image at index i.
func (f *File) Image(i int) (*Image, bool) {
	if f == nil || i < 0 || i >= len(f.images) {
		return nil, false
	}
	return f.images[i], true
}

// SetImage replaces the image at index i with a copy of img. It never
// appends; an out-of-range index returns false.
func (f *File) SetImage(img *Image, i int) bool {
	if f == nil || img == nil || i < 0 || i >= len(f.images) {
		return false
	}
	f.images[i] = img.Clone()
	return true
}

// RemoveImage deletes the image at index i. Later images shift down by
// one.
func (f *File) RemoveImage(i int) bool {
	if f == nil || i < 0 || i >= len(f.images) {
		return false
	}
	f.images = slices.Delete(f.images, i, i+1)
	return true
}

// Images returns the images in order. The slice is a copy; the images
// are not.
func (f *File) Images() []*Image {
	if f == nil {
		return nil
	}
	out := make([]*Image, len(f.images))
	copy(out, f.images)
	return out
}

// Equal reports whether both files hold equal metadata and equal images
// in the same order.
func (f *File) Equal(o *File) bool {
	if f == nil || o == nil {
		return f == o
	}
	if !f.meta.Equal(&o.meta) || len(f.images) != len(o.images) {
		return false
	}
	for i := range f.images {
		if !f.images[i].Equal(o.images[i]) {
			return false
		}
	}
	return true
}
