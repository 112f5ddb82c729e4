package mango

import "fmt"

// Metadata is the bibliographic metadata of a File. Every field is
// independently optional: an unset field is distinct from an empty
// string or zero. Setters take a pointer; nil clears the field.
type Metadata struct {
	title       *string
	author      *string
	publisher   *string
	source      *string
	translation *string
	language    *Language
	volume      *int32
	chapter     *int32
	year        *int32
}

func (m *Metadata) Title() (string, bool)       { return deref(m.title) }
func (m *Metadata) Author() (string, bool)      { return deref(m.author) }
func (m *Metadata) Publisher() (string, bool)   { return deref(m.publisher) }
func (m *Metadata) Source() (string, bool)      { return deref(m.source) }
func (m *Metadata) Translation() (string, bool) { return deref(m.translation) }
func (m *Metadata) Language() (Language, bool)  { return deref(m.language) }
func (m *Metadata) Volume() (int32, bool)       { return deref(m.volume) }
func (m *Metadata) Chapter() (int32, bool)      { return deref(m.chapter) }
func (m *Metadata) Year() (int32, bool)         { return deref(m.year) }

func (m *Metadata) SetTitle(v *string)       { m.title = clonePtr(v) }
func (m *Metadata) SetAuthor(v *string)      { m.author = clonePtr(v) }
func (m *Metadata) SetPublisher(v *string)   { m.publisher = clonePtr(v) }
func (m *Metadata) SetSource(v *string)      { m.source = clonePtr(v) }
func (m *Metadata) SetTranslation(v *string) { m.translation = clonePtr(v) }
func (m *Metadata) SetVolume(v *int32)       { m.volume = clonePtr(v) }
func (m *Metadata) SetChapter(v *int32)      { m.chapter = clonePtr(v) }
func (m *Metadata) SetYear(v *int32)         { m.year = clonePtr(v) }

// SetLanguage sets the content language. Codes outside the recognized
// set fail with ErrValidation and leave the field unchanged.
func (m *Metadata) SetLanguage(v *Language) error {
	if v != nil && !v.Valid() {
		return fmt.Errorf("%w: unknown language %q", ErrValidation, string(*v))
	}
	m.language = clonePtr(v)
	return nil
}

// Equal reports whether both hold the same fields in the same states.
func (m *Metadata) Equal(o *Metadata) bool {
	return ptrEqual(m.title, o.title) &&
		ptrEqual(m.author, o.author) &&
		ptrEqual(m.publisher, o.publisher) &&
		ptrEqual(m.source, o.source) &&
		ptrEqual(m.translation, o.translation) &&
		ptrEqual(m.language, o.language) &&
		ptrEqual(m.volume, o.volume) &&
		ptrEqual(m.chapter, o.chapter) &&
		ptrEqual(m.year, o.year)
}
