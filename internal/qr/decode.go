// Package qr turns a shared WhatsApp image into the text payload of
// the QR code it contains. It downloads media from the Twilio media
// store with account credentials and decodes the pixels with gozxing.
package qr

import (
	"bytes"
	"errors"
	"image"

	// Twilio serves media as png or jpeg; gif costs nothing to accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	gozxingqr "github.com/makiuchi-d/gozxing/qrcode"
)

var (
	// ErrUnreadableImage indicates the bytes are not a decodable image.
	ErrUnreadableImage = errors.New("unreadable image")

	// ErrNoQRCode indicates a valid image with no detectable QR code.
	ErrNoQRCode = errors.New("no QR code found in image")
)

// Decode extracts the text payload of the first QR code in the image.
func Decode(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnreadableImage
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", ErrUnreadableImage
	}

	result, err := gozxingqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", ErrNoQRCode
	}

	return result.GetText(), nil
}
