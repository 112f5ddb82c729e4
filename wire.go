package mango

import (
	"bytes"

	"github.com/samber/lo"
)

// wireFile is the one logical schema shared by every encoding. Optional
// fields are pointers: the binary encodings omit them when nil and the
// textual encoding writes null. All decoders map absent and null to nil.
type wireFile struct {
	Metadata *wireMetadata `bson:"metadata" cbor:"metadata" json:"metadata" validate:"required"`
	Images   []wireImage   `bson:"images" cbor:"images" json:"images" validate:"required,dive"`
}

type wireMetadata struct {
	Title       *string `bson:"title,omitempty" cbor:"title,omitempty" json:"title"`
	Author      *string `bson:"author,omitempty" cbor:"author,omitempty" json:"author"`
	Publisher   *string `bson:"publisher,omitempty" cbor:"publisher,omitempty" json:"publisher"`
	Source      *string `bson:"source,omitempty" cbor:"source,omitempty" json:"source"`
	Translation *string `bson:"translation,omitempty" cbor:"translation,omitempty" json:"translation"`
	Language    *string `bson:"language,omitempty" cbor:"language,omitempty" json:"language" validate:"omitnil,language"`
	Volume      *int32  `bson:"volume,omitempty" cbor:"volume,omitempty" json:"volume"`
	Chapter     *int32  `bson:"chapter,omitempty" cbor:"chapter,omitempty" json:"chapter"`
	Year        *int32  `bson:"year,omitempty" cbor:"year,omitempty" json:"year"`
}

type wireImage struct {
	Payload  []byte             `bson:"payload" cbor:"payload" json:"payload"`
	Metadata *wireImageMetadata `bson:"metadata" cbor:"metadata" json:"metadata" validate:"required"`
}

type wireImageMetadata struct {
	Compression *string `bson:"compression,omitempty" cbor:"compression,omitempty" json:"compression" validate:"omitnil,compression"`
	Encryption  *string `bson:"encryption,omitempty" cbor:"encryption,omitempty" json:"encryption" validate:"omitnil,encryption"`
	Checksum    string  `bson:"checksum" cbor:"checksum" json:"checksum" validate:"checksum"`
	MIME        *string `bson:"mime,omitempty" cbor:"mime,omitempty" json:"mime"`
	Filename    *string `bson:"filename,omitempty" cbor:"filename,omitempty" json:"filename"`
	IV          []byte  `bson:"iv,omitempty" cbor:"iv,omitempty" json:"iv"`
}

func toWire(f *File) *wireFile {
	m := &f.meta
	w := &wireFile{
		Metadata: &wireMetadata{
			Title:       clonePtr(m.title),
			Author:      clonePtr(m.author),
			Publisher:   clonePtr(m.publisher),
			Source:      clonePtr(m.source),
			Translation: clonePtr(m.translation),
			Volume:      clonePtr(m.volume),
			Chapter:     clonePtr(m.chapter),
			Year:        clonePtr(m.year),
		},
	}
	if m.language != nil {
		w.Metadata.Language = ptr(string(*m.language))
	}
	w.Images = lo.Map(f.images, func(img *Image, _ int) wireImage {
		return imageToWire(img)
	})
	return w
}

func imageToWire(img *Image) wireImage {
	meta := &wireImageMetadata{
		Checksum: img.meta.checksum,
		MIME:     clonePtr(img.meta.mime),
		Filename: clonePtr(img.meta.filename),
	}
	if img.meta.Compressed() {
		meta.Compression = ptr(string(img.meta.compression))
	}
	if st := img.meta.encryption; st != nil {
		meta.Encryption = ptr(string(st.alg))
		meta.IV = st.iv
	}
	payload := img.data
	if payload == nil {
		payload = []byte{}
	}
	return wireImage{Payload: payload, Metadata: meta}
}

// fromWire builds a File from a tree that already passed validateWire.
func fromWire(w *wireFile) *File {
	f := NewFile()
	m := w.Metadata
	f.meta = Metadata{
		title:       m.Title,
		author:      m.Author,
		publisher:   m.Publisher,
		source:      m.Source,
		translation: m.Translation,
		volume:      m.Volume,
		chapter:     m.Chapter,
		year:        m.Year,
	}
	if m.Language != nil {
		f.meta.language = ptr(Language(*m.Language))
	}
	f.images = lo.Map(w.Images, func(wi wireImage, _ int) *Image {
		return imageFromWire(wi)
	})
	return f
}

func imageFromWire(wi wireImage) *Image {
	data := bytes.Clone(wi.Payload)
	if data == nil {
		data = []byte{}
	}
	wm := wi.Metadata
	img := &Image{data: data}
	img.meta.checksum = wm.Checksum
	img.meta.mime = wm.MIME
	img.meta.filename = wm.Filename
	if wm.Compression != nil {
		img.meta.compression = Compression(*wm.Compression)
	}
	if wm.Encryption != nil {
		img.meta.encryption = &encryptionState{alg: Encryption(*wm.Encryption), iv: bytes.Clone(wm.IV)}
	}
	return img
}
