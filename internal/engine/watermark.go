package engine

import (
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/slideshow/internal/analyzer"
	"github.com/ivlev/slideshow/internal/assets"
)

// qrMargin — отступ QR от края кадра в пикселях.
const qrMargin = 16

// watermark строит QR-оверлей для кадра. Угол "auto" выбирается по первому
// слайду: QR ставится туда, где меньше всего контуров.
func (p *VideoProject) watermark(first image.Image) (image.Image, error) {
	cfg := p.Config
	corner, err := assets.ParseCorner(cfg.QRCorner)
	if err != nil {
		return nil, err
	}
	margin := min(qrMargin, cfg.Height/20)

	if corner == assets.Auto {
		side := assets.QRSide(cfg.Width, cfg.Height, cfg.QRSize)
		candidates := make([]image.Rectangle, len(assets.Corners))
		for i, c := range assets.Corners {
			candidates[i] = assets.CornerRect(c, cfg.Width, cfg.Height, side, margin).Add(first.Bounds().Min)
		}
		corner = assets.Corners[analyzer.Quietest(analyzer.NewEdgeDetector(), first, candidates)]
		p.log.WithFields(logrus.Fields{"corner": corner}).Debug("QR corner chosen")
	}

	return assets.QRCodeOverlay(cfg.QRText, cfg.Width, cfg.Height, assets.QROptions{
		Size:   cfg.QRSize,
		Margin: margin,
		Corner: corner,
	})
}
