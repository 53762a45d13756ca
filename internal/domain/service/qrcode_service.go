package service

import "github.com/google/uuid"

// QRCodeService renders and reads item share codes.
type QRCodeService interface {
	// GenerateItemQR renders a PNG QR code pointing at the public page of the item.
	GenerateItemQR(itemID uuid.UUID, itemURL string) ([]byte, error)

	// ParseItemQR reads the payload encoded by GenerateItemQR and returns the item ID.
	ParseItemQR(qrData string) (uuid.UUID, error)
}
