package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full worldsweep configuration, loaded once per invocation
// and treated as immutable afterwards.
type Config struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Files    FilesConfig    `yaml:"files"`
	Operator Operator       `yaml:"operator"`
	Scan     ScanConfig     `yaml:"scan"`
	Organize OrganizeConfig `yaml:"organize"`
	Debug    bool           `yaml:"debug"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type FilesConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Operator identifies the invoking user. Scans are a silent no-op unless
// the operator holds gamemaster privileges.
type Operator struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Gamemaster bool   `yaml:"gamemaster"`
}

// CategoryConfig gates one anomaly category and selects its remediation.
type CategoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Action  string `yaml:"action"`
}

type ScanConfig struct {
	FrequencyHours     int  `yaml:"frequency_hours"`
	OnLoad             bool `yaml:"on_load"`
	ConfirmOnly        bool `yaml:"confirm_only"`
	StrictEmpty        bool `yaml:"strict_empty"`
	ChatMessageAgeDays int  `yaml:"chat_message_age_days"`

	UnlinkedTokens        CategoryConfig `yaml:"unlinked_tokens"`
	OrphanedActiveEffects CategoryConfig `yaml:"orphaned_active_effects"`
	EmptyDocuments        CategoryConfig `yaml:"empty_documents"`
	DuplicateAssets       CategoryConfig `yaml:"duplicate_assets"`
	OldChatMessages       CategoryConfig `yaml:"old_chat_messages"`
}

// OrganizeConfig holds the target folders for asset organization. The
// recreate flags mirror the owning record's folder name under the target.
type OrganizeConfig struct {
	AssetsFolder      string `yaml:"assets_folder"`
	NPCTokenFolder    string `yaml:"npc_token_folder"`
	PlayerTokenFolder string `yaml:"player_token_folder"`
	ScenesFolder      string `yaml:"scenes_folder"`
	AudioFolder       string `yaml:"audio_folder"`
	ItemsFolder       string `yaml:"items_folder"`

	RecreateAssetsFolders bool `yaml:"recreate_assets_folders"`
	RecreateTokenFolders  bool `yaml:"recreate_token_folders"`
	RecreateSceneFolders  bool `yaml:"recreate_scene_folders"`
	RecreateAudioFolders  bool `yaml:"recreate_audio_folders"`
	RecreateItemsFolders  bool `yaml:"recreate_items_folders"`
}

var validActions = map[string]struct{}{
	"delete":  {},
	"move":    {},
	"flag":    {},
	"archive": {},
	"ignore":  {},
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scan.FrequencyHours == 0 {
		cfg.Scan.FrequencyHours = 24
	}
	if cfg.Scan.ChatMessageAgeDays == 0 {
		cfg.Scan.ChatMessageAgeDays = 30
	}
	for _, cat := range []*CategoryConfig{
		&cfg.Scan.UnlinkedTokens,
		&cfg.Scan.OrphanedActiveEffects,
		&cfg.Scan.EmptyDocuments,
		&cfg.Scan.DuplicateAssets,
		&cfg.Scan.OldChatMessages,
	} {
		if cat.Action == "" {
			cat.Action = "flag"
		}
	}

	org := &cfg.Organize
	if org.AssetsFolder == "" {
		org.AssetsFolder = "assets"
	}
	if org.NPCTokenFolder == "" {
		org.NPCTokenFolder = "tokens/npc"
	}
	if org.PlayerTokenFolder == "" {
		org.PlayerTokenFolder = "tokens/player"
	}
	if org.ScenesFolder == "" {
		org.ScenesFolder = "scenes"
	}
	if org.AudioFolder == "" {
		org.AudioFolder = "audio"
	}
	if org.ItemsFolder == "" {
		org.ItemsFolder = "items"
	}
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	driver := strings.ToLower(cfg.Database.Driver)
	if driver != "postgres" && driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}

	if cfg.Scan.FrequencyHours < 1 {
		return fmt.Errorf("scan frequency_hours must be at least 1")
	}
	if cfg.Scan.ChatMessageAgeDays < 1 {
		return fmt.Errorf("scan chat_message_age_days must be at least 1")
	}

	categories := map[string]CategoryConfig{
		"unlinked_tokens":         cfg.Scan.UnlinkedTokens,
		"orphaned_active_effects": cfg.Scan.OrphanedActiveEffects,
		"empty_documents":         cfg.Scan.EmptyDocuments,
		"duplicate_assets":        cfg.Scan.DuplicateAssets,
		"old_chat_messages":       cfg.Scan.OldChatMessages,
	}
	for name, cat := range categories {
		if _, ok := validActions[cat.Action]; !ok {
			return fmt.Errorf("scan %s: unknown action %q", name, cat.Action)
		}
	}

	return nil
}
