package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MOODLOG_DATA_DIR", dir)
	t.Setenv("MOODLOG_CLASSIFIER", "")
	t.Setenv("MOODLOG_DB", "")
	t.Setenv("MOODLOG_MODEL_PATH", "")
	t.Setenv("MOODLOG_RECOMMENDATIONS", "")
	t.Setenv("MOODLOG_EMOTION_INFO", "")
	t.Setenv("MOODLOG_LOG_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogMode != "info" {
		t.Fatalf("log mode=%q", cfg.LogMode)
	}
	if cfg.Classifier.Backend != BackendLexicon {
		t.Fatalf("backend=%q", cfg.Classifier.Backend)
	}
	if cfg.Classifier.LabelPrefix != "__label__" {
		t.Fatalf("label prefix=%q", cfg.Classifier.LabelPrefix)
	}
	if cfg.Classifier.Timeout != 30*time.Second {
		t.Fatalf("timeout=%s", cfg.Classifier.Timeout)
	}
	if cfg.DBPath() != filepath.Join(dir, "moodlog.db") {
		t.Fatalf("db path=%q", cfg.DBPath())
	}
	if cfg.Knowledge.RecommendationsPath != filepath.Join(dir, "data", "recommendations.json") {
		t.Fatalf("recommendations path=%q", cfg.Knowledge.RecommendationsPath)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("MOODLOG_DATA_DIR", t.TempDir())
	t.Setenv("MOODLOG_CLASSIFIER", "fasttext")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("MOODLOG_DATA_DIR", t.TempDir())
	t.Setenv("MOODLOG_CLASSIFIER", "")
	t.Setenv("MOODLOG_CLASSIFIER_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric timeout")
	}
}

func TestSetDataDirKeepsExplicitPaths(t *testing.T) {
	t.Setenv("MOODLOG_DATA_DIR", t.TempDir())
	t.Setenv("MOODLOG_CLASSIFIER", "")
	t.Setenv("MOODLOG_DB", "/var/lib/journal.db")
	t.Setenv("MOODLOG_MODEL_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	other := t.TempDir()
	cfg.SetDataDir(other)

	if cfg.DBPath() != "/var/lib/journal.db" {
		t.Fatalf("explicit db path moved: %q", cfg.DBPath())
	}
	if cfg.Classifier.ModelPath != filepath.Join(other, "model", "emotion_lexicon.yaml") {
		t.Fatalf("model path=%q", cfg.Classifier.ModelPath)
	}
}
