package mango

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func numberedFile(t *testing.T, n int) *File {
	t.Helper()
	f := NewFile()
	for i := 0; i < n; i++ {
		require.NoError(t, f.AddImage(NewImage([]byte(fmt.Sprintf("payload-%d", i)), fmt.Sprintf("p%d.jpg", i))))
	}
	return f
}

func TestRemoveImage_ShiftsIndices(t *testing.T) {
	const n = 5
	f := numberedFile(t, n)
	before := lo.Map(f.Images(), func(img *Image, _ int) *Image { return img.Clone() })

	for _, i := range []int{0, 2, n - 1} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			f := numberedFile(t, n)
			require.True(t, f.RemoveImage(i))
			require.Equal(t, n-1, f.Len())
			for j := 0; j < i; j++ {
				img, ok := f.Image(j)
				require.True(t, ok)
				require.True(t, img.Equal(before[j]))
			}
			for j := i; j < n-1; j++ {
				img, ok := f.Image(j)
				require.True(t, ok)
				require.True(t, img.Equal(before[j+1]), "image %d should be the old image %d", j, j+1)
			}
			_, ok := f.Image(n - 1)
			require.False(t, ok)
		})
	}
}

func TestIndexBounds(t *testing.T) {
	f := numberedFile(t, 2)
	for _, i := range []int{-1, 2, 100} {
		_, ok := f.Image(i)
		require.False(t, ok)
		require.False(t, f.RemoveImage(i))
		require.False(t, f.SetImage(NewImage(nil, ""), i))
	}
	require.Equal(t, 2, f.Len())

	var nilFile *File
	_, ok := nilFile.Image(0)
	require.False(t, ok)
	require.False(t, nilFile.RemoveImage(0))
	require.ErrorIs(t, nilFile.AddImage(NewImage(nil, "")), ErrInvalidInput)
	require.ErrorIs(t, f.AddImage(nil), ErrInvalidInput)
}

func TestSetImage_ReplacesOnly(t *testing.T) {
	f := numberedFile(t, 2)
	repl := NewImage(jpegBytes, "new.jpg")
	require.True(t, f.SetImage(repl, 1))
	require.Equal(t, 2, f.Len())
	got, _ := f.Image(1)
	require.True(t, got.Equal(repl))
	require.False(t, f.SetImage(repl, 2), "SetImage must not append")
}

func TestFile_OwnsCopies(t *testing.T) {
	img := NewImage(jpegBytes, "a.jpg")
	a, b := NewFile(), NewFile()
	require.NoError(t, a.AddImage(img))
	require.NoError(t, b.AddImage(img))

	inA, _ := a.Image(0)
	require.NoError(t, inA.Compress(CompressionGZIP))

	inB, _ := b.Image(0)
	require.False(t, inB.Metadata().Compressed(), "files must not share images")
	require.False(t, img.Metadata().Compressed(), "the caller's image must be untouched")

	again, _ := a.Image(0)
	require.Equal(t, CompressionGZIP, again.Metadata().Compression(), "Image returns the owned image")
}

func TestImages_ReturnsSliceCopy(t *testing.T) {
	f := numberedFile(t, 3)
	imgs := f.Images()
	imgs[0] = nil
	first, ok := f.Image(0)
	require.True(t, ok)
	require.NotNil(t, first)
}

func TestAddImageByPath(t *testing.T) {
	f := NewFile()
	require.NoError(t, f.AddImageByPath(writeFixture(t, "cover.png", pngBytes)))
	img, _ := f.Image(0)
	mime, ok := img.Metadata().MIME()
	require.True(t, ok)
	require.Equal(t, "image/png", mime)
	require.Equal(t, Checksum(pngBytes), img.Metadata().Checksum())

	err := f.AddImageByPath(writeFixture(t, "notes.txt", []byte("just some text")))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, f.AddImageByPath(""), ErrInvalidInput)
	require.ErrorIs(t, f.AddImageByPath(t.TempDir()), ErrInvalidInput)
	require.ErrorIs(t, f.AddImageByPath(t.TempDir()+"/missing.jpg"), ErrRead)
	require.Equal(t, 1, f.Len(), "failed adds must not change the file")
}

func TestImage_Accessors(t *testing.T) {
	img := NewImage([]byte{1, 2, 3}, "")
	require.Equal(t, "AQID", img.Base64Data())
	_, ok := img.Metadata().Filename()
	require.False(t, ok)

	data := img.Data()
	data[0] = 9
	require.True(t, bytes.Equal(img.Data(), []byte{1, 2, 3}), "Data must return a copy")

	src := []byte{4, 5, 6}
	img = NewImage(src, "x.png")
	src[0] = 0
	require.Equal(t, []byte{4, 5, 6}, img.Data(), "NewImage must copy its input")
}

func TestImage_SaveRaw(t *testing.T) {
	img := NewImage(jpegBytes, "a.jpg")
	require.NoError(t, img.Compress(CompressionLZ4))
	path := t.TempDir() + "/raw.bin"
	require.NoError(t, img.SaveRaw(path))

	back, err := readFile(path)
	require.NoError(t, err)
	require.Equal(t, img.Data(), back)
	require.ErrorIs(t, img.SaveRaw(""), ErrInvalidInput)
}

func TestImage_NilReceiver(t *testing.T) {
	var img *Image
	require.ErrorIs(t, img.Compress(CompressionGZIP), ErrInvalidInput)
	require.ErrorIs(t, img.Uncompress(), ErrInvalidInput)
	require.ErrorIs(t, img.Encrypt(EncryptionAES128, "pw"), ErrInvalidInput)
	require.ErrorIs(t, img.Decrypt("pw"), ErrInvalidInput)
}
