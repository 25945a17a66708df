package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worldsweep.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `version: 1
database:
  driver: sqlite
  dsn: sqlite://world.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Scan.FrequencyHours != 24 {
		t.Errorf("expected default frequency 24, got %d", cfg.Scan.FrequencyHours)
	}
	if cfg.Scan.ChatMessageAgeDays != 30 {
		t.Errorf("expected default message age 30, got %d", cfg.Scan.ChatMessageAgeDays)
	}
	if cfg.Scan.UnlinkedTokens.Action != "flag" {
		t.Errorf("expected default action flag, got %q", cfg.Scan.UnlinkedTokens.Action)
	}
	if cfg.Organize.NPCTokenFolder != "tokens/npc" {
		t.Errorf("expected default npc folder, got %q", cfg.Organize.NPCTokenFolder)
	}
	if cfg.Organize.AssetsFolder != "assets" {
		t.Errorf("expected default assets folder, got %q", cfg.Organize.AssetsFolder)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `version: 1
database:
  driver: postgres
  dsn: postgres://localhost/world
operator:
  id: gm1
  name: GM
  gamemaster: true
scan:
  frequency_hours: 6
  on_load: true
  strict_empty: true
  chat_message_age_days: 14
  unlinked_tokens:
    enabled: true
    action: delete
  old_chat_messages:
    enabled: true
    action: archive
organize:
  npc_token_folder: my/npcs
  recreate_token_folders: true
debug: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Operator.Gamemaster {
		t.Errorf("expected gamemaster operator")
	}
	if cfg.Scan.FrequencyHours != 6 || cfg.Scan.ChatMessageAgeDays != 14 {
		t.Errorf("scan settings not honored: %+v", cfg.Scan)
	}
	if !cfg.Scan.StrictEmpty || !cfg.Scan.OnLoad {
		t.Errorf("scan flags not honored: %+v", cfg.Scan)
	}
	if cfg.Scan.UnlinkedTokens.Action != "delete" {
		t.Errorf("expected delete action, got %q", cfg.Scan.UnlinkedTokens.Action)
	}
	if cfg.Scan.OldChatMessages.Action != "archive" {
		t.Errorf("expected archive action, got %q", cfg.Scan.OldChatMessages.Action)
	}
	if cfg.Organize.NPCTokenFolder != "my/npcs" || !cfg.Organize.RecreateTokenFolders {
		t.Errorf("organize settings not honored: %+v", cfg.Organize)
	}
	if !cfg.Debug {
		t.Errorf("expected debug enabled")
	}
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name: "unsupported version",
			contents: `version: 2
database: {driver: sqlite, dsn: sqlite://w.db}
`,
			wantErr: "unsupported version",
		},
		{
			name: "unknown driver",
			contents: `version: 1
database: {driver: mysql, dsn: foo}
`,
			wantErr: "unsupported database driver",
		},
		{
			name: "missing dsn",
			contents: `version: 1
database: {driver: sqlite, dsn: "  "}
`,
			wantErr: "dsn is required",
		},
		{
			name: "unknown action",
			contents: `version: 1
database: {driver: sqlite, dsn: sqlite://w.db}
scan:
  duplicate_assets: {enabled: true, action: purge}
`,
			wantErr: "unknown action",
		},
		{
			name: "zero message age rejected via negative",
			contents: `version: 1
database: {driver: sqlite, dsn: sqlite://w.db}
scan:
  chat_message_age_days: -1
`,
			wantErr: "chat_message_age_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.contents)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
