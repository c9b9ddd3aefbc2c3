package config_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/paraiso/internal/config"
)

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		mention string
	}{
		{"invalid log level", "server:\n  log_level: verbose\n", "log_level"},
		{"threshold zero", "corrector:\n  threshold: 0\n", "corrector.threshold"},
		{"threshold above one", "corrector:\n  threshold: 1.5\n", "corrector.threshold"},
		{"unknown scorer", "corrector:\n  scorer: soundex\n", "corrector.scorer"},
		{"multi-word slang key", "corrector:\n  slang:\n    \"por q\": porque\n", "single word"},
		{"empty priority tag", "classifier:\n  priority_tags: [\"\"]\n", "classifier.priority_tags[0]"},
		{"duplicate priority tag", "classifier:\n  priority_tags: [spa, spa]\n", "duplicate"},
		{"duplicate reserved tag", "dialog:\n  menu_reserved_tags: [spa, spa]\n", "dialog.menu_reserved_tags[1]"},
		{"empty exit keyword", "console:\n  exit_keywords: [salir, \" \"]\n", "console.exit_keywords[1]"},
		{"empty channel id", "discord:\n  token: x\n  channel_ids: [\"\"]\n", "discord.channel_ids[0]"},
		{"watch without path", "catalog:\n  path: \"\"\n  watch: true\n", "catalog.watch"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadFromReader(strings.NewReader(tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.mention) {
				t.Errorf("error should mention %q, got: %v", tc.mention, err)
			}
		})
	}
}

func TestValidate_JoinsAllErrors(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: loud
corrector:
  threshold: 2
  scorer: nope
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"log_level", "threshold", "scorer"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error should mention %q, got: %v", want, err)
		}
	}
}

func TestValidate_EmptyPriorityListAllowed(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader("classifier:\n  priority_tags: []\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Classifier.PriorityTags) != 0 {
		t.Errorf("priority_tags: got %v, want empty", cfg.Classifier.PriorityTags)
	}
}

func TestValidate_ChannelsWithoutTokenOnlyWarns(t *testing.T) {
	t.Parallel()
	if _, err := config.LoadFromReader(strings.NewReader("discord:\n  channel_ids: [\"1\"]\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
