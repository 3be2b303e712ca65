package lookupcode

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Kind selects the public verification path an identifier resolves under.
type Kind string

const (
	KindRecord       Kind = "record"
	KindPrescription Kind = "prescription"
)

const (
	// ModulePixels is the edge length of one QR module in the rendered PNG
	ModulePixels = 10

	// RecoveryLevel is fixed so identical input always renders identical output
	RecoveryLevel = qrcode.Low
)

var (
	ErrMissingIdentifier = errors.New("lookup code requires a persisted identifier")
	ErrUnknownKind       = errors.New("unknown lookup code kind")
)

// Encoder renders verification URLs for records and prescriptions as QR PNGs.
// The 4-module quiet zone of go-qrcode is kept.
type Encoder struct {
	baseURL string
}

func NewEncoder(baseURL string) *Encoder {
	return &Encoder{baseURL: strings.TrimRight(baseURL, "/")}
}

// VerificationURL returns {base_url}/{kind}/{id}/.
func (e *Encoder) VerificationURL(kind Kind, id string) (string, error) {
	if id == "" {
		return "", ErrMissingIdentifier
	}
	switch kind {
	case KindRecord, KindPrescription:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	return fmt.Sprintf("%s/%s/%s/", e.baseURL, kind, id), nil
}

// Encode renders the verification URL for id as PNG bytes.
func (e *Encoder) Encode(kind Kind, id string) ([]byte, error) {
	url, err := e.VerificationURL(kind, id)
	if err != nil {
		return nil, err
	}

	code, err := qrcode.New(url, RecoveryLevel)
	if err != nil {
		return nil, fmt.Errorf("build qr code for %s: %w", id, err)
	}

	// Negative size means pixels per module rather than total width.
	png, err := code.PNG(-ModulePixels)
	if err != nil {
		return nil, fmt.Errorf("render qr code for %s: %w", id, err)
	}

	return png, nil
}
