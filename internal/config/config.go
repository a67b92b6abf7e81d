package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Режимы выбора перехода из набора.
const (
	SelectionSequential = "sequential"
	SelectionRandom     = "random"
)

// EncoderAuto выбирает лучший доступный H.264 энкодер при запуске.
const EncoderAuto = "auto"

// Config — параметры одного экспорта. Длительности в секундах; таймлайн
// переводит их в микросекунды.
type Config struct {
	InputPath   string `yaml:"input"`
	OutputVideo string `yaml:"output"`
	Storyboard  string `yaml:"storyboard"`

	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FPS    int     `yaml:"fps"`
	Aspect float64 `yaml:"aspect"` // 0 — Width/Height
	Preset string  `yaml:"preset"`

	TotalDuration      float64   `yaml:"duration"`
	PageDuration       float64   `yaml:"page_duration"`
	PageDurations      []float64 `yaml:"page_durations"`
	TransitionDuration float64   `yaml:"transition_duration"`
	RandomDurations    bool      `yaml:"random_durations"`

	Transition    string `yaml:"transition"`
	TransitionSet string `yaml:"transition_set"`
	Selection     string `yaml:"selection"`
	Seed          int64  `yaml:"seed"`

	OverlayPath string  `yaml:"overlay"`
	QRText      string  `yaml:"qr"`
	QRCorner    string  `yaml:"qr_corner"`
	QRSize      float64 `yaml:"qr_size"`

	Backend      string `yaml:"backend"`
	DPI          int    `yaml:"dpi"`
	Workers      int    `yaml:"workers"`
	VideoEncoder string `yaml:"encoder"`
	Quality      int    `yaml:"quality"`
	ShowStats    bool   `yaml:"stats"`
	LogLevel     string `yaml:"log_level"`

	BuildVersion string `yaml:"-"`
}

// Default возвращает конфигурацию со значениями CLI по умолчанию.
func Default() *Config {
	return &Config{
		Width:              1280,
		Height:             720,
		FPS:                30,
		PageDuration:       3.0,
		TransitionDuration: 0.5,
		Transition:         "fade",
		Selection:          SelectionSequential,
		QRCorner:           "bottom-right",
		QRSize:             0.18,
		Backend:            "soft",
		DPI:                150,
		Workers:            runtime.NumCPU(),
		VideoEncoder:       EncoderAuto,
		LogLevel:           "info",
	}
}

// Load накладывает YAML-файл на cfg. Поля, которых нет в файле, не
// меняются.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("чтение конфигурации: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}
	return nil
}

// ApplyPreset подставляет размер кадра для пресета формата.
func (c *Config) ApplyPreset() error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	case "1:1":
		c.Width, c.Height = 1080, 1080
	default:
		return fmt.Errorf("неизвестный пресет %q", c.Preset)
	}
	return nil
}

// Validate подставляет значения по умолчанию и отклоняет невозможные
// комбинации. Все найденные ошибки возвращаются вместе.
func (c *Config) Validate() error {
	var errs []error

	if err := c.ApplyPreset(); err != nil {
		errs = append(errs, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("размер кадра %dx%d должен быть положительным", c.Width, c.Height))
	}
	// yuv420p требует четных размеров
	if c.Width%2 != 0 {
		c.Width++
	}
	if c.Height%2 != 0 {
		c.Height++
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("FPS должен быть положительным: %d", c.FPS))
	}
	if c.Aspect < 0 {
		errs = append(errs, fmt.Errorf("соотношение сторон не может быть отрицательным: %v", c.Aspect))
	}
	if c.Aspect == 0 && c.Height > 0 {
		c.Aspect = float64(c.Width) / float64(c.Height)
	}
	if c.TotalDuration < 0 || c.PageDuration < 0 || c.TransitionDuration < 0 {
		errs = append(errs, errors.New("длительности не могут быть отрицательными"))
	}
	for i, d := range c.PageDurations {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("длительность слайда %d должна быть положительной: %v", i+1, d))
		}
	}

	c.Selection = strings.ToLower(strings.TrimSpace(c.Selection))
	switch c.Selection {
	case "":
		c.Selection = SelectionSequential
	case SelectionSequential, SelectionRandom:
	default:
		errs = append(errs, fmt.Errorf("неизвестный режим выбора %q (sequential, random)", c.Selection))
	}
	if c.Transition == "" && c.TransitionSet == "" {
		c.Transition = "fade"
	}
	if c.QRSize == 0 {
		c.QRSize = 0.18
	}
	if c.QRSize < 0 || c.QRSize > 1 {
		errs = append(errs, fmt.Errorf("размер QR должен быть в диапазоне (0, 1]: %v", c.QRSize))
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.DPI <= 0 {
		c.DPI = 150
	}
	if c.Backend == "" {
		c.Backend = "soft"
	}
	if c.VideoEncoder == "" {
		c.VideoEncoder = "libx264"
	}
	return errors.Join(errs...)
}

// TransitionUs — длительность перехода в микросекундах.
func (c *Config) TransitionUs() int64 {
	return SecondsToUs(c.TransitionDuration)
}

// FrameCount — число кадров для отрезка в секундах.
func (c *Config) FrameCount(seconds float64) int {
	return int(seconds*float64(c.FPS) + 0.5)
}

func SecondsToUs(s float64) int64 {
	return int64(s*1e6 + 0.5)
}
