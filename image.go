package placeicon

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/corona10/goimagehash"
	"github.com/k1LoW/errors"
)

type MIMEType string

const (
	MIMETypeImagePNG  MIMEType = "image/png"
	MIMETypeImageJPEG MIMEType = "image/jpeg"
	MIMETypeImageGIF  MIMEType = "image/gif"
)

type Image struct {
	i        image.Image
	b        []byte // Raw image data
	mimeType MIMEType
	path     string                 // Path if the image was read from a file
	checksum uint32                 // Checksum for the image data
	pHash    *goimagehash.ImageHash // Perceptual hash
}

// NewImage wraps raw image bytes. Only PNG, JPEG and GIF are accepted.
func NewImage(b []byte) (_ *Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	var mt MIMEType
	switch format {
	case "png":
		mt = MIMETypeImagePNG
	case "jpeg":
		mt = MIMETypeImageJPEG
	case "gif":
		mt = MIMETypeImageGIF
	default:
		return nil, fmt.Errorf("unsupported image MIME type: %s", format)
	}
	return &Image{
		b:        b,
		mimeType: mt,
	}, nil
}

// NewImageFromFile reads an image file.
func NewImageFromFile(p string) (_ *Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file %s: %w", p, err)
	}
	return newImageFromFileBytes(p, b)
}

// newImageFromFileBytes returns the cached Image for p when its content is unchanged.
// The PHash of an unchanged icon is then computed only once.
func newImageFromFileBytes(p string, b []byte) (*Image, error) {
	if i, ok := imageCache.load(p, b); ok {
		return i, nil
	}
	i, err := NewImage(b)
	if err != nil {
		return nil, fmt.Errorf("failed to create image from %s: %w", p, err)
	}
	i.path = p
	imageCache.store(p, i)
	return i, nil
}

// PayloadImage returns the placeholder as an Image.
func PayloadImage() (*Image, error) {
	return NewImage(Payload())
}

func (i *Image) MIMEType() MIMEType {
	if i == nil {
		return ""
	}
	return i.mimeType
}

func (i *Image) Path() string {
	if i == nil {
		return ""
	}
	return i.path
}

// Equal reports whether both images hold the same bytes.
func (i *Image) Equal(ii *Image) bool {
	if i == nil || ii == nil {
		return false
	}
	if i.Checksum() != ii.Checksum() {
		return false
	}
	return bytes.Equal(i.b, ii.b)
}

// Distance returns the perceptual hash distance between two images.
func (i *Image) Distance(ii *Image) (_ int, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	aHash, err := i.PHash()
	if err != nil {
		return 0, err
	}
	bHash, err := ii.PHash()
	if err != nil {
		return 0, err
	}
	return aHash.Distance(bHash)
}

func (i *Image) Checksum() uint32 {
	if i == nil {
		return 0
	}
	if i.checksum == 0 {
		i.checksum = crc32.ChecksumIEEE(i.b)
	}
	return i.checksum
}

func (i *Image) Image() (image.Image, error) {
	if i == nil {
		return nil, fmt.Errorf("image is nil")
	}
	if i.i == nil {
		img, _, err := image.Decode(bytes.NewReader(i.b))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		i.i = img
	}
	return i.i, nil
}

func (i *Image) PHash() (_ *goimagehash.ImageHash, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if i == nil {
		return nil, fmt.Errorf("image is nil")
	}
	if i.i == nil {
		if _, err := i.Image(); err != nil {
			return nil, err
		}
	}
	if i.pHash == nil {
		pHash, err := goimagehash.PerceptionHash(i.i)
		if err != nil {
			return nil, fmt.Errorf("failed to compute perceptual hash: %w", err)
		}
		i.pHash = pHash
	}
	return i.pHash, nil
}

func (i *Image) Bytes() []byte {
	if i == nil {
		return nil
	}
	return i.b
}
