// File: services/qrcode_service.go
package services

import (
	"errors"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QREncoder matches qrcode.Encode so tests can swap it out.
type QREncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// TicketQRURL is the address a ticket's QR code points at.
func TicketQRURL(publicURL, token string) string {
	return strings.TrimRight(publicURL, "/") + "/qr/" + token
}

// GenerateQRCode renders content as a square PNG of the given size.
func GenerateQRCode(content string, size int, encoder QREncoder) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("invalid size: must be positive")
	}
	if content == "" {
		return nil, errors.New("nothing to encode")
	}
	if encoder == nil {
		encoder = qrcode.Encode
	}

	png, err := encoder(content, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
