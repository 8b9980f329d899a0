package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimePDF  = "application/pdf"
)

// ContentType resolves the MIME type of an upload from its file name,
// sniffing the data when the extension is unknown
func ContentType(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return MimeJPEG
	case ".png":
		return MimePNG
	case ".gif":
		return "image/gif"
	case ".pdf":
		return MimePDF
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	if IsHEIC(data) {
		return "image/heic"
	}
	return NormalizeMime(http.DetectContentType(data))
}

// NormalizeMime lowercases a MIME type and drops its parameters
func NormalizeMime(contentType string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// FirstPagePNG renders the first page of a PDF as PNG
func FirstPagePNG(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// imageToPNG converts any supported image format to PNG
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	// Go's standard image package doesn't support HEIC
	if IsHEIC(imageData) || isHEICMimeType(mimeType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
				return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// IsHEIC checks for an ftyp box with a HEIC-related brand at offset 4
func IsHEIC(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	return brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1"
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// ToPNG converts PDFs and non-PNG images to PNG.
// The boolean reports whether a conversion happened.
func ToPNG(data []byte, mimeType string) ([]byte, bool, error) {
	if mimeType == MimePDF {
		pngData, err := FirstPagePNG(data)
		if err != nil {
			return nil, false, fmt.Errorf("converting PDF to image: %w", err)
		}
		return pngData, true, nil
	} else if mimeType != MimePNG || IsHEIC(data) || isHEICMimeType(mimeType) {
		pngData, err := imageToPNG(data, mimeType)
		if err != nil {
			return nil, false, fmt.Errorf("converting image to PNG: %w", err)
		}
		return pngData, true, nil
	}
	return data, false, nil
}

// Prepare normalizes the MIME type and converts the image to PNG.
// The result is always PNG.
func Prepare(data []byte, contentType string) ([]byte, error) {
	mimeType := NormalizeMime(contentType)
	if mimeType == "" {
		mimeType = MimeJPEG
	}

	pngData, _, err := ToPNG(data, mimeType)
	if err != nil {
		return nil, err
	}
	return pngData, nil
}

// DataURL encodes data as a data: URL
func DataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Preview returns a data URL that can be shown as an image. Browser-native
// formats are passed through untouched; HEIC photos are rendered to PNG.
// Anything that cannot be rendered falls back to the raw file.
func Preview(data []byte, contentType string) string {
	mimeType := NormalizeMime(contentType)
	if IsHEIC(data) || isHEICMimeType(mimeType) {
		if pngData, err := imageToPNG(data, mimeType); err == nil {
			return DataURL(MimePNG, pngData)
		}
	}
	return DataURL(mimeType, data)
}

// PDFPreview renders the first page of a PDF as a PNG data URL
func PDFPreview(pdfData []byte) (string, error) {
	pngData, err := FirstPagePNG(pdfData)
	if err != nil {
		return "", err
	}
	return DataURL(MimePNG, pngData), nil
}
