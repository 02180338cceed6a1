package pass

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// QRGenerator produces the scannable artifact for an issued pass and returns
// a reference to where it was stored.
//
//go:generate mockgen -source=qr.go -destination=mock/qr_mock.go -package=mock
type QRGenerator interface {
	Generate(passCode string) (string, error)
}

type fileQRGenerator struct {
	frontendBaseURL string
	mediaDir        string
	logger          *zap.Logger
}

// NewFileQRGenerator writes PNG files under mediaDir/qr_codes, encoding the
// public verification URL for the pass code.
func NewFileQRGenerator(frontendBaseURL, mediaDir string, logger ...*zap.Logger) QRGenerator {
	l := zap.L().Named("pass.qr")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("pass.qr")
	}
	return &fileQRGenerator{
		frontendBaseURL: frontendBaseURL,
		mediaDir:        mediaDir,
		logger:          l,
	}
}

func (g *fileQRGenerator) Generate(passCode string) (string, error) {
	url := fmt.Sprintf("%s/pass/%s", g.frontendBaseURL, passCode)

	dir := filepath.Join(g.mediaDir, "qr_codes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create qr dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("qr_%s.png", passCode))
	if err := qrcode.WriteFile(url, qrcode.Medium, 256, path); err != nil {
		return "", fmt.Errorf("write qr image: %w", err)
	}

	g.logger.Debug("qr artifact written",
		zap.String("pass_code", passCode),
		zap.String("path", path),
	)
	return path, nil
}
