package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/slideshow/internal/config"
	"github.com/ivlev/slideshow/internal/director"
	"github.com/ivlev/slideshow/internal/effects"
	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/renderer"
	"github.com/ivlev/slideshow/internal/source"
	"github.com/ivlev/slideshow/internal/system"
	"github.com/ivlev/slideshow/internal/transition"
	"github.com/ivlev/slideshow/internal/video"
)

type VideoProject struct {
	Config  *config.Config
	Source  source.Source
	Device  gpu.Device
	Encoder video.VideoEncoder
	Library *transition.Library
	// Overlay — готовое изображение рамки. Если пусто, рамкой служит QR
	// (QRText) или файл OverlayPath.
	Overlay image.Image
	// Overrides — переходы по слайдам из сценария.
	Overrides []string
	// Observer получает события каждого кадра от всех стадий.
	Observer effects.FrameObserver

	log *logrus.Entry
}

func NewVideoProject(cfg *config.Config, src source.Source, dev gpu.Device, ve video.VideoEncoder, lib *transition.Library) *VideoProject {
	return &VideoProject{
		Config:  cfg,
		Source:  src,
		Device:  dev,
		Encoder: ve,
		Library: lib,
		log:     logrus.WithField("component", "engine"),
	}
}

// PrepareTimeline рассчитывает длительности клипов и переходы.
func (p *VideoProject) PrepareTimeline(pageCount int) ([]transition.Transition, error) {
	if pageCount == 0 {
		return nil, fmt.Errorf("источник не содержит страниц/кадров")
	}
	cfg := p.Config

	switch {
	case len(cfg.PageDurations) == pageCount:
		// длительности из сценария или конфигурации
	case len(cfg.PageDurations) > 0:
		return nil, fmt.Errorf("задано %d длительностей для %d слайдов", len(cfg.PageDurations), pageCount)
	case cfg.RandomDurations || cfg.TotalDuration > 0:
		if cfg.TotalDuration <= 0 {
			cfg.TotalDuration = float64(pageCount) * cfg.PageDuration
		}
		p.calculateDurations(pageCount)
	default:
		cfg.PageDurations = make([]float64, pageCount)
		for i := range cfg.PageDurations {
			cfg.PageDurations[i] = cfg.PageDuration
		}
	}

	// Проверка корректности переходов относительно минимальной длительности
	minDur := cfg.PageDurations[0]
	for _, d := range cfg.PageDurations {
		minDur = math.Min(minDur, d)
	}
	if minDur <= 0 {
		return nil, fmt.Errorf("длительность клипа должна быть положительной")
	}
	if pageCount > 1 && cfg.TransitionDuration >= minDur {
		cfg.TransitionDuration = minDur / 2.0
		p.log.Warnf("[!] Переход уменьшен до %.2fs из-за короткого клипа", cfg.TransitionDuration)
		if cfg.RandomDurations || cfg.TotalDuration > 0 {
			// Пересчитываем длительности с учетом нового перехода, чтобы сохранить общую длину
			p.calculateDurations(pageCount)
		}
	}

	// Выравниваем по кадрам, чтобы границы клипов попадали на кадр
	total := 0.0
	for i, d := range cfg.PageDurations {
		cfg.PageDurations[i] = math.Max(1, math.Round(d*float64(cfg.FPS))) / float64(cfg.FPS)
		total += cfg.PageDurations[i]
	}
	cfg.TotalDuration = total

	return director.NewDirector(p.Library).Plan(pageCount, director.Policy{
		Transition: cfg.Transition,
		Set:        cfg.TransitionSet,
		Selection:  cfg.Selection,
		Seed:       cfg.Seed,
		Overrides:  p.Overrides,
	})
}

// ExportStoryboard сохраняет рассчитанный таймлайн как редактируемый
// сценарий.
func (p *VideoProject) ExportStoryboard(path string, inputs []string) error {
	plan, err := p.PrepareTimeline(len(inputs))
	if err != nil {
		return err
	}
	sb := director.NewStoryboard(inputs, p.Config.PageDurations, director.IDs(plan))
	sb.TransitionDuration = p.Config.TransitionDuration
	if err := director.WriteStoryboard(sb, path); err != nil {
		return err
	}
	p.log.Infof("[+++] Успех! Сценарий сохранен: %s", path)
	return nil
}

func (p *VideoProject) Run(ctx context.Context) error {
	startTime := time.Now()
	cfg := p.Config

	pageCount := p.Source.PageCount()
	plan, err := p.PrepareTimeline(pageCount)
	if err != nil {
		return err
	}

	p.log.Info("--- [PROJECT: GPU SLIDESHOW] ---")
	p.log.Infof("[*] Источник: %s | Слайдов: %d | Длительность: %.2fs", cfg.InputPath, pageCount, cfg.TotalDuration)
	p.log.Infof("[*] Разрешение: %dx%d @ %d FPS | Backend: %s | Encoder: %s", cfg.Width, cfg.Height, cfg.FPS, p.Device.Name(), cfg.VideoEncoder)
	p.log.Info("-----------------------------")

	overlay := p.Overlay
	pipe, err := renderer.New(p.Device, renderer.Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Aspect:   cfg.Aspect,
		Overlay:  overlay,
		Log:      p.log,
		Observer: p.Observer,
	})
	if err != nil {
		return err
	}
	defer pipe.Release()
	if overlay == nil && cfg.OverlayPath != "" && cfg.QRText == "" {
		// Битая рамка не останавливает рендер
		if err := pipe.Overlay().LoadFrame(cfg.OverlayPath); err != nil {
			p.log.Warnf("[!] Рамка не загружена: %v", err)
		}
	}

	quality := cfg.Quality
	if quality == 0 {
		quality = system.DefaultQuality(cfg.VideoEncoder)
	}
	if err := p.Encoder.Start(ctx, video.Params{
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		Encoder:    cfg.VideoEncoder,
		Quality:    quality,
		OutputPath: cfg.OutputVideo,
	}); err != nil {
		return err
	}

	renderStart := time.Now()
	frames, renderErr := p.render(ctx, pipe, plan)
	renderTime := time.Since(renderStart)

	if err := p.Encoder.Close(); err != nil && renderErr == nil {
		renderErr = fmt.Errorf("ошибка сборки финального видео: %w", err)
	}
	if renderErr != nil {
		return renderErr
	}

	if cfg.ShowStats {
		p.report(pageCount, frames, time.Since(startTime), renderTime)
	}
	return nil
}

type slideResult struct {
	img image.Image
	err error
	// held — слайд занимает место в окне и должен его освободить.
	held bool
}

// decode рендерит слайды параллельно, но держит в памяти не больше окна
// слайдов: следующий запускается, только когда потребитель освободил
// место.
func (p *VideoProject) decode(ctx context.Context, n int) (results []chan slideResult, release func(slideResult), wait func()) {
	workers := max(1, p.Config.Workers)
	window := make(chan struct{}, workers*2)
	maxEdge := p.Device.MaxTextureSize()

	results = make([]chan slideResult, n)
	for i := range results {
		results[i] = make(chan slideResult, 1)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			select {
			case window <- struct{}{}:
			case <-ctx.Done():
				for ; i < n; i++ {
					results[i] <- slideResult{err: ctx.Err()}
				}
				return
			}
			g.Go(func() error {
				img, err := p.Source.RenderPage(i, p.Config.DPI)
				if err != nil {
					err = fmt.Errorf("ошибка рендеринга слайда %d: %w", i+1, err)
				} else {
					img = source.Fit(img, maxEdge)
				}
				results[i] <- slideResult{img: img, err: err, held: true}
				return nil
			})
		}
	}()

	release = func(res slideResult) {
		if res.held {
			<-window
		}
	}
	wait = func() {
		<-done
		_ = g.Wait()
	}
	return results, release, wait
}

// render проходит таймлайн кадр за кадром. Клип i начинается с суммы
// предыдущих длительностей; его переход в слайд i+1 занимает хвост клипа,
// последний клип статичен.
func (p *VideoProject) render(ctx context.Context, pipe *renderer.Pipeline, plan []transition.Transition) (int, error) {
	cfg := p.Config
	n := len(cfg.PageDurations)

	ctx, cancel := context.WithCancel(ctx)
	results, release, wait := p.decode(ctx, n)
	defer wait()
	defer cancel()

	prepare := func(i int) (image.Image, error) {
		res := <-results[i]
		defer release(res)
		if res.err != nil {
			return nil, res.err
		}
		return pipe.Prepare(res.img)
	}

	frame := system.GetImage(image.Rect(0, 0, cfg.Width, cfg.Height))
	defer system.PutImage(frame)

	current, err := prepare(0)
	if err != nil {
		return 0, err
	}
	if cfg.QRText != "" && p.Overlay == nil {
		// Без QR видео все равно собирается
		if qr, err := p.watermark(current); err != nil {
			p.log.Warnf("[!] QR не создан: %v", err)
		} else {
			pipe.Overlay().SetFrame(qr)
		}
	}

	frameIndex := 0
	var clipStartUs int64
	for i := 0; i < n; i++ {
		next, tr, transUs := current, p.Library.Default(), int64(0)
		if i+1 < n {
			if next, err = prepare(i + 1); err != nil {
				return frameIndex, err
			}
			tr, transUs = plan[i], cfg.TransitionUs()
		}

		durUs := config.SecondsToUs(cfg.PageDurations[i])
		timing, err := effects.NewClipTiming(clipStartUs, durUs, transUs)
		if err != nil {
			return frameIndex, err
		}
		clip, err := pipe.NewClip(tr, timing, current, next)
		if err != nil {
			return frameIndex, err
		}

		clipEndUs := clipStartUs + durUs
		for ; frameTimeUs(frameIndex, cfg.FPS) < clipEndUs; frameIndex++ {
			if err := ctx.Err(); err != nil {
				clip.Release()
				return frameIndex, err
			}
			if err := pipe.RenderFrame(clip, frameTimeUs(frameIndex, cfg.FPS), frame); err != nil {
				clip.Release()
				return frameIndex, fmt.Errorf("кадр %d: %w", frameIndex, err)
			}
			if err := p.Encoder.WriteFrame(frame); err != nil {
				clip.Release()
				return frameIndex, err
			}
		}
		clip.Release()

		p.log.WithFields(logrus.Fields{
			"clip":       i + 1,
			"transition": tr.ID,
			"frames":     frameIndex,
		}).Debug("Clip rendered")
		p.log.Infof("[>] Ready: %d/%d", i+1, n)

		current = next
		clipStartUs = clipEndUs
	}
	return frameIndex, nil
}

func frameTimeUs(index, fps int) int64 {
	return int64(index) * 1_000_000 / int64(fps)
}

func (p *VideoProject) report(pageCount, frames int, total, render time.Duration) {
	cfg := p.Config
	fps := float64(frames) / render.Seconds()

	stats, err := system.CollectHostStats()
	if err != nil {
		p.log.Debugf("host stats incomplete: %v", err)
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering (%s): %.2fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n"+
			"Host: %s\n"+
			"----------------------------\n",
		cfg.BuildVersion, total.Seconds(), p.Device.Name(), render.Seconds(), frames, fps, stats,
	)
	fmt.Print(report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Slides: %d | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f | RSS: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		cfg.BuildVersion,
		filepath.Base(cfg.InputPath),
		pageCount,
		frames,
		total.Seconds(),
		render.Seconds(),
		fps,
		system.FormatBytes(stats.ProcessRSS),
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		p.log.Warnf("[!] Не удалось записать benchmark.log: %v", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(logEntry); err != nil {
		p.log.Warnf("[!] Не удалось записать benchmark.log: %v", err)
	}
}

// calculateDurations распределяет TotalDuration по клипам со случайным
// отклонением ±15% от предыдущего клипа. Клипы идут встык, поэтому сумма
// равна TotalDuration.
func (p *VideoProject) calculateDurations(pageCount int) {
	// Общая визуальная длительность
	A := p.Config.TotalDuration
	// Длительность перехода
	F := p.Config.TransitionDuration

	// Базовая длительность одного клипа (если была бы равномерной)
	Dbase := A / float64(pageCount)

	durations := make([]float64, pageCount)
	seed := p.Config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	// Первая страница: отклонение от Dbase в диапазоне [-15%, +15%]
	variation := (r.Float64()*0.3 - 0.15) // [-0.15, 0.15]
	durations[0] = Dbase * (1 + variation)

	// Последующие страницы: отклонение от предыдущей в диапазоне [-15%, +15%]
	for i := 1; i < pageCount; i++ {
		variation := (r.Float64()*0.3 - 0.15)
		durations[i] = durations[i-1] * (1 + variation)
		// Ограничение: клип не может быть короче перехода (с запасом)
		if durations[i] < F*1.1 {
			durations[i] = F * 1.1
		}
	}

	// Масштабируем, чтобы сумма была в точности A
	sum := 0.0
	for _, d := range durations {
		sum += d
	}

	scale := A / sum
	for i := range durations {
		durations[i] *= scale
	}

	p.Config.PageDurations = durations
}

// IsCanceled сообщает, остановлен ли экспорт пользователем.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
