package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Script    ScriptConfig    `yaml:"script"`
	Voiceover VoiceoverConfig `yaml:"voiceover"`
	Images    ImagesConfig    `yaml:"images"`
	Videos    VideosConfig    `yaml:"videos"`
	Assembly  AssemblyConfig  `yaml:"assembly"`
	Upload    UploadConfig    `yaml:"upload"`
	Session   SessionConfig   `yaml:"session"`
	Paths     PathsConfig     `yaml:"paths"`
	Log       LogConfig       `yaml:"log"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type ScriptConfig struct {
	TargetDurationSec int `yaml:"target_duration_sec"`
}

type VoiceoverConfig struct {
	Voice        string `yaml:"voice"`
	OutputFormat string `yaml:"output_format"`
}

type ImagesConfig struct {
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	PerScene int    `yaml:"per_scene"`
}

type VideosConfig struct {
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	AspectRatio     string `yaml:"aspect_ratio"`
	DurationSec     int    `yaml:"duration_sec"`
	PollIntervalSec int    `yaml:"poll_interval_sec"`
	MaxPolls        int    `yaml:"max_polls"` // 0 means poll until done
}

type AssemblyConfig struct {
	FPS             int    `yaml:"fps"`
	Codec           string `yaml:"codec"`
	OutputFilename  string `yaml:"output_filename"`
	VoiceoverSubdir string `yaml:"voiceover_subdir"`
	ImagesSubdir    string `yaml:"images_subdir"`
	VideosSubdir    string `yaml:"videos_subdir"`
	OutputSubdir    string `yaml:"output_subdir"`
}

type UploadConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"category_id"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	DefaultLanguage   string `yaml:"default_language"`
}

type SessionConfig struct {
	Backend  string `yaml:"backend"` // memory | redis
	TTLHours int    `yaml:"ttl_hours"`
}

type PathsConfig struct {
	Projects string `yaml:"projects"`
	Logs     string `yaml:"logs"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
	Output string `yaml:"output"` // stdout | stderr
}

// Load reads a YAML config file and fills in defaults for anything omitted.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with all defaults applied, used when no config
// file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama-3.3-70b-versatile"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4096
	}
	if c.Script.TargetDurationSec == 0 {
		c.Script.TargetDurationSec = 60
	}
	if c.Voiceover.Voice == "" {
		c.Voiceover.Voice = "en-US-GuyNeural"
	}
	if c.Voiceover.OutputFormat == "" {
		c.Voiceover.OutputFormat = "wav"
	}
	if c.Images.BaseURL == "" {
		c.Images.BaseURL = "https://image.pollinations.ai"
	}
	if c.Images.Model == "" {
		c.Images.Model = "flux"
	}
	if c.Images.Width == 0 {
		c.Images.Width = 1080
	}
	if c.Images.Height == 0 {
		c.Images.Height = 1920
	}
	if c.Images.PerScene == 0 {
		c.Images.PerScene = 1
	}
	if c.Videos.AspectRatio == "" {
		c.Videos.AspectRatio = "9:16"
	}
	if c.Videos.DurationSec == 0 {
		c.Videos.DurationSec = 8
	}
	if c.Videos.PollIntervalSec == 0 {
		c.Videos.PollIntervalSec = 10
	}
	if c.Assembly.FPS == 0 {
		c.Assembly.FPS = 24
	}
	if c.Assembly.Codec == "" {
		c.Assembly.Codec = "libx264"
	}
	if c.Assembly.OutputFilename == "" {
		c.Assembly.OutputFilename = "short_video.mp4"
	}
	if c.Assembly.VoiceoverSubdir == "" {
		c.Assembly.VoiceoverSubdir = "voiceovers"
	}
	if c.Assembly.ImagesSubdir == "" {
		c.Assembly.ImagesSubdir = "images"
	}
	if c.Assembly.VideosSubdir == "" {
		c.Assembly.VideosSubdir = "videos"
	}
	if c.Assembly.OutputSubdir == "" {
		c.Assembly.OutputSubdir = "assembled"
	}
	if c.Upload.Visibility == "" {
		c.Upload.Visibility = "private"
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = "27"
	}
	if c.Upload.DefaultLanguage == "" {
		c.Upload.DefaultLanguage = "en"
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 24
	}
	if c.Paths.Projects == "" {
		c.Paths.Projects = "projects"
	}
	if c.Paths.Logs == "" {
		c.Paths.Logs = "logs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}
}
