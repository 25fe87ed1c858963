// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates uploaded images, normalizes their orientation
// and writes the original plus resized variants to blob storage.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/oblog/internal/storage"
)

// MaxUploadSize is the largest accepted upload in bytes.
const MaxUploadSize = 10 << 20

// MIME types of accepted uploads.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Upload errors.
var (
	ErrTooLarge          = errors.New("image exceeds the 10 MB limit")
	ErrUnsupportedFormat = errors.New("unsupported image format, use JPEG, PNG, GIF or WebP")
	ErrEmpty             = errors.New("empty image upload")
)

// OriginalName is the variant name of the re-encoded upload.
const OriginalName = "original"

// Variant describes a resized copy created for every upload.
type Variant struct {
	Name    string
	Width   int
	Height  int
	Crop    bool
	Quality int
}

// Variants are created for every stored image.
var Variants = []Variant{
	{Name: "thumbnail", Width: 300, Height: 200, Crop: true, Quality: 85},
	{Name: "large", Width: 1600, Height: 1200, Crop: false, Quality: 85},
}

// Result describes a stored image.
type Result struct {
	Key      string // key of the original
	Width    int
	Height   int
	MimeType string
	Size     int64
	Variants map[string]string // variant name -> key
}

// Processor handles image processing using pure Go libraries and writes
// the encoded bytes to a blob store.
type Processor struct {
	blob    storage.Blob
	maxSize int64
}

// NewProcessor creates an image processor writing to blob.
func NewProcessor(blob storage.Blob) *Processor {
	return &Processor{blob: blob, maxSize: MaxUploadSize}
}

// Store decodes r, applies the EXIF orientation and writes the original
// and all variants under "<kind>/<uuid>/<variant>.<ext>".
func (p *Processor) Store(ctx context.Context, kind string, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > p.maxSize {
		return nil, ErrTooLarge
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	outFormat := outputFormat(format)
	ext := formatExtension(outFormat)
	dir := path.Join(kind, uuid.NewString())

	// Encode without EXIF (pure Go encoders don't preserve EXIF metadata)
	original, err := encodeImage(img, outFormat, 95)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	res := &Result{
		Key:      path.Join(dir, OriginalName+"."+ext),
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		MimeType: formatToMimeType(outFormat),
		Size:     int64(len(original)),
		Variants: make(map[string]string, len(Variants)),
	}

	if err := p.blob.Put(ctx, res.Key, original, res.MimeType); err != nil {
		return nil, fmt.Errorf("failed to save original image: %w", err)
	}

	for _, v := range Variants {
		encoded, err := encodeImage(resize(img, v), outFormat, v.Quality)
		if err != nil {
			_ = p.Delete(ctx, res.Key)
			return nil, fmt.Errorf("failed to encode %s variant: %w", v.Name, err)
		}
		key := path.Join(dir, v.Name+"."+ext)
		if err := p.blob.Put(ctx, key, encoded, res.MimeType); err != nil {
			_ = p.Delete(ctx, res.Key)
			return nil, fmt.Errorf("failed to save %s variant: %w", v.Name, err)
		}
		res.Variants[v.Name] = key
	}

	return res, nil
}

// Delete removes the original stored under key and all its variants.
// An empty key is a no-op.
func (p *Processor) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	var errs []error
	if err := p.blob.Delete(ctx, key); err != nil {
		errs = append(errs, err)
	}
	for _, v := range Variants {
		if err := p.blob.Delete(ctx, VariantKey(key, v.Name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// VariantKey derives the key of a variant from the key of the original.
func VariantKey(originalKey, variant string) string {
	if originalKey == "" {
		return ""
	}
	dir, file := path.Split(originalKey)
	return dir + variant + path.Ext(file)
}

func resize(img image.Image, v Variant) image.Image {
	if v.Crop {
		// Crop to exact size from center
		return imaging.Fill(img, v.Width, v.Height, imaging.Center, imaging.Lanczos)
	}
	// Fit within bounds while maintaining aspect ratio; never upscales
	return imaging.Fit(img, v.Width, v.Height, imaging.Lanczos)
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies an EXIF orientation (1-8) to img.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// outputFormat maps a decoded format to the format written back. There is
// no pure Go WebP encoder, so WebP uploads are stored as JPEG.
func outputFormat(format string) string {
	if format == "webp" {
		return "jpeg"
	}
	return format
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatExtension(format string) string {
	switch format {
	case "png":
		return "png"
	case "gif":
		return "gif"
	default:
		return "jpg"
	}
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return MimeTypeJPEG
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
