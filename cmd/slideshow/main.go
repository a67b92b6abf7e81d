package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/slideshow/internal/config"
	"github.com/ivlev/slideshow/internal/director"
	"github.com/ivlev/slideshow/internal/engine"
	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/shader"
	"github.com/ivlev/slideshow/internal/source"
	"github.com/ivlev/slideshow/internal/system"
	"github.com/ivlev/slideshow/internal/transition"
	"github.com/ivlev/slideshow/internal/video"
)

// BuildVersion задается при сборке: -ldflags "-X main.BuildVersion=..."
var BuildVersion = "dev"

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	cfg := config.Default()

	configPtr := flag.String("config", "", "YAML-файл с параметрами (флаги командной строки имеют приоритет)")
	inputPtr := flag.String("input", "", "Путь к PDF или папке с изображениями (по умолчанию: самый свежий файл в input/pdf/)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	storyboardPtr := flag.String("storyboard", "", "YAML-сценарий: слайды, длительности, переходы")
	writeStoryboardPtr := flag.String("write-storyboard", "", "Сохранить рассчитанный сценарий в файл и выйти ('auto' — в input/storyboards/)")
	durationPtr := flag.Float64("duration", cfg.TotalDuration, "Общая длительность видео (если 0, рассчитывается из -page-duration)")
	pageDurationPtr := flag.Float64("page-duration", cfg.PageDuration, "Длительность показа одного слайда в секундах")
	randomPtr := flag.Bool("random-durations", cfg.RandomDurations, "Случайные длительности слайдов (±15%)")
	widthPtr := flag.Int("width", cfg.Width, "Ширина")
	heightPtr := flag.Int("height", cfg.Height, "Высота")
	fpsPtr := flag.Int("fps", cfg.FPS, "FPS")
	aspectPtr := flag.Float64("aspect", cfg.Aspect, "Соотношение сторон леттербокса (0 — как у кадра)")
	presetPtr := flag.String("preset", cfg.Preset, "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram), 1:1")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки декодирования слайдов")
	fadePtr := flag.Float64("transition-duration", cfg.TransitionDuration, "Длительность перехода (сек)")
	transitionPtr := flag.String("transition", cfg.Transition, "ID перехода (см. -list)")
	setPtr := flag.String("transition-set", "", "Набор переходов: essentials, smooth, dynamic, playful, cinematic")
	selectionPtr := flag.String("selection", cfg.Selection, "Порядок переходов из набора: sequential, random")
	seedPtr := flag.Int64("seed", 0, "Seed для random (0 — от времени)")
	overlayPtr := flag.String("overlay", "", "PNG/WebP рамка поверх видео")
	qrPtr := flag.String("qr", "", "Текст или URL для QR-водяного знака")
	qrCornerPtr := flag.String("qr-corner", cfg.QRCorner, "Угол QR: bottom-right, bottom-left, top-right, top-left, auto")
	backendPtr := flag.String("backend", cfg.Backend, "GPU backend: soft, gl")
	dpiPtr := flag.Int("dpi", cfg.DPI, "DPI для PDF")
	encoderPtr := flag.String("encoder", cfg.VideoEncoder, "Видеокодек: auto, libx264, h264_videotoolbox, h264_nvenc")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	statsPtr := flag.Bool("stats", false, "Отчет о производительности")
	logLevelPtr := flag.String("log-level", cfg.LogLevel, "Уровень логов: debug, info, warn, error")
	listPtr := flag.Bool("list", false, "Показать каталог переходов и выйти")
	validatePtr := flag.Bool("validate", false, "Скомпилировать все переходы и выйти")

	flag.Parse()

	if *configPtr != "" {
		if err := config.Load(*configPtr, cfg); err != nil {
			logrus.Fatalf("[-] Ошибка: %v", err)
		}
	}
	// Явно заданные флаги перекрывают файл конфигурации
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "output":
			cfg.OutputVideo = *outputPtr
		case "storyboard":
			cfg.Storyboard = *storyboardPtr
		case "duration":
			cfg.TotalDuration = *durationPtr
		case "page-duration":
			cfg.PageDuration = *pageDurationPtr
		case "random-durations":
			cfg.RandomDurations = *randomPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "fps":
			cfg.FPS = *fpsPtr
		case "aspect":
			cfg.Aspect = *aspectPtr
		case "preset":
			cfg.Preset = *presetPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "transition-duration":
			cfg.TransitionDuration = *fadePtr
		case "transition":
			cfg.Transition = *transitionPtr
		case "transition-set":
			cfg.TransitionSet = *setPtr
		case "selection":
			cfg.Selection = *selectionPtr
		case "seed":
			cfg.Seed = *seedPtr
		case "overlay":
			cfg.OverlayPath = *overlayPtr
		case "qr":
			cfg.QRText = *qrPtr
		case "qr-corner":
			cfg.QRCorner = *qrCornerPtr
		case "backend":
			cfg.Backend = *backendPtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "encoder":
			cfg.VideoEncoder = *encoderPtr
		case "quality":
			cfg.Quality = *qualityPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "log-level":
			cfg.LogLevel = *logLevelPtr
		}
	})
	cfg.BuildVersion = BuildVersion

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("[!] Неизвестный уровень логов %q, используется info", cfg.LogLevel)
	}

	lib := transition.New()

	if *listPtr {
		printCatalog(lib)
		return
	}

	var sb *director.Storyboard
	if cfg.Storyboard != "" {
		var err error
		sb, err = director.ReadStoryboard(cfg.Storyboard)
		if err != nil {
			logrus.Fatalf("[-] Ошибка чтения сценария: %v", err)
		}
		applyStoryboard(cfg, sb)
		logrus.Infof("[*] Используется сценарий: %s", cfg.Storyboard)
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("[-] Некорректная конфигурация:\n%v", err)
	}

	os.Exit(run(cfg, lib, sb, *validatePtr, *writeStoryboardPtr))
}

// run открывает устройство и источник и выполняет выбранный режим.
// Возвращает код выхода, чтобы отложенные Release/Close успели отработать.
func run(cfg *config.Config, lib *transition.Library, sb *director.Storyboard, validate bool, writeStoryboard string) int {
	dev, err := gpu.Open(cfg.Backend, cfg.Width, cfg.Height)
	if err != nil {
		logrus.Errorf("[-] Не удалось открыть GPU backend %q: %v", cfg.Backend, err)
		return 1
	}
	defer dev.Release()

	if validate {
		if err := shader.ValidateCatalog(dev, lib); err != nil {
			logrus.Errorf("[-] %v", err)
			return 1
		}
		if dev.Name() == gpu.BackendSoft {
			logrus.Infof("[+++] Все %d переходов имеют эталонные ядра; GLSL не компилировался (нужен -backend gl)", lib.Len())
		} else {
			logrus.Infof("[+++] Все %d переходов собираются на %s", lib.Len(), dev.Name())
		}
		return 0
	}

	src, err := openSource(cfg, sb)
	if err != nil {
		logrus.Errorf("[-] Ошибка инициализации источника: %v", err)
		return 1
	}
	defer src.Close()

	if src.PageCount() == 0 {
		logrus.Error("[-] Ошибка: в источнике нет страниц или изображений")
		return 1
	}

	project := engine.NewVideoProject(cfg, src, dev, &video.FFmpegEncoder{}, lib)
	if sb != nil {
		project.Overrides = sb.Overrides()
	}

	if writeStoryboard != "" {
		path := writeStoryboard
		if path == "auto" {
			path = director.GenerateStoryboardPath("")
		}
		if err := project.ExportStoryboard(path, slideInputs(src)); err != nil {
			logrus.Errorf("[-] Ошибка сохранения сценария: %v", err)
			return 1
		}
		return 0
	}

	if cfg.OutputVideo == "" {
		cfg.OutputVideo = defaultOutput(cfg.InputPath)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.OutputVideo), 0755); err != nil {
		logrus.Errorf("[-] Ошибка: %v", err)
		return 1
	}

	if cfg.VideoEncoder == config.EncoderAuto {
		encoderName, _ := system.GetBestH264Encoder()
		if encoderName != "libx264" {
			logrus.Infof("[*] Обнаружено аппаратное ускорение: %s", encoderName)
		}
		cfg.VideoEncoder = encoderName
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := project.Run(ctx); err != nil {
		if engine.IsCanceled(err) {
			logrus.Warn("[!] Экспорт прерван")
			return 130
		}
		logrus.Errorf("[-] Ошибка проекта: %v", err)
		return 1
	}

	logrus.Infof("[+++] Успех! Результат: %s", cfg.OutputVideo)
	return 0
}

// applyStoryboard переносит параметры сценария в конфигурацию; флаги,
// заданные явно, уже лежат в cfg и сценарий их не трогает, если в нем
// пусто.
func applyStoryboard(cfg *config.Config, sb *director.Storyboard) {
	if d := sb.Durations(); d != nil {
		cfg.PageDurations = d
	}
	if sb.Aspect > 0 {
		cfg.Aspect = sb.Aspect
	}
	if sb.TransitionDuration > 0 {
		cfg.TransitionDuration = sb.TransitionDuration
	}
	if sb.Transition != "" {
		cfg.Transition = sb.Transition
	}
	if sb.TransitionSet != "" {
		cfg.TransitionSet = sb.TransitionSet
	}
	if sb.Selection != "" {
		cfg.Selection = sb.Selection
	}
	if sb.Seed != 0 {
		cfg.Seed = sb.Seed
	}
	if cfg.InputPath == "" {
		cfg.InputPath = cfg.Storyboard
	}
}

func openSource(cfg *config.Config, sb *director.Storyboard) (source.Source, error) {
	if sb != nil {
		return source.NewListSource(sb.Inputs())
	}
	if cfg.InputPath == "" {
		if err := os.MkdirAll("input/pdf", 0755); err != nil {
			return nil, err
		}
		latest, err := system.FindLatestPDF("input/pdf")
		if err != nil {
			return nil, fmt.Errorf("%w. Положите PDF в input/pdf/", err)
		}
		cfg.InputPath = latest
		logrus.Infof("[*] Выбран файл: %s", cfg.InputPath)
	}
	return source.Open(cfg.InputPath)
}

// slideInputs возвращает записи слайдов для сценария.
func slideInputs(src source.Source) []string {
	if l, ok := src.(interface{ Inputs() []string }); ok {
		return l.Inputs()
	}
	out := make([]string, src.PageCount())
	for i := range out {
		out[i] = fmt.Sprintf("slide_%d", i+1)
	}
	return out
}

func defaultOutput(inputPath string) string {
	nameSource := inputPath
	if fi, err := os.Stat(inputPath); err == nil && fi.IsDir() {
		// Пытаемся найти самое свежее изображение для имени файла
		if latestImg, err := system.FindLatestImage(inputPath); err == nil {
			nameSource = latestImg
		}
	}

	baseName := filepath.Base(nameSource)
	ext := filepath.Ext(baseName)
	nameOnly := strings.TrimSuffix(baseName, ext)
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
}

func printCatalog(lib *transition.Library) {
	fmt.Printf("Переходы (%d):\n", lib.Len())
	for _, g := range lib.GroupedByCategory() {
		fmt.Printf("\n[%s]\n", g.Category)
		for _, t := range g.Transitions {
			mark := ""
			if t.Premium {
				mark = " *"
			}
			fmt.Printf("  %-18s %s%s\n", t.ID, t.Name, mark)
		}
	}
	fmt.Println("\nНаборы:")
	for _, s := range lib.Sets() {
		mark := ""
		if s.Premium {
			mark = " *"
		}
		fmt.Printf("  %-12s %s%s — %s\n", s.ID, strings.Join(s.Transitions, ", "), mark, s.Description)
	}
	fmt.Println("\n* — premium")
}
