package envutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("PD_TEST_INT", "nope")
	if got := Int("PD_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("Int: got=%d want=7", got)
	}
	t.Setenv("PD_TEST_INT", " 42 ")
	if got := Int("PD_TEST_INT", 7, nil); got != 42 {
		t.Fatalf("Int: got=%d want=42", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("PD_TEST_FLOAT", "0.7")
	if got := Float("PD_TEST_FLOAT", 0.2, nil); got != 0.7 {
		t.Fatalf("Float: got=%v want=0.7", got)
	}
	t.Setenv("PD_TEST_FLOAT", "warm")
	if got := Float("PD_TEST_FLOAT", 0.2, nil); got != 0.2 {
		t.Fatalf("Float garbage: got=%v want=0.2", got)
	}
}

func TestStringTrimsAndDefaults(t *testing.T) {
	t.Setenv("PD_TEST_STR", "   ")
	if got := String("PD_TEST_STR", "def", nil); got != "def" {
		t.Fatalf("String blank: got=%q", got)
	}
	t.Setenv("PD_TEST_STR", " value ")
	if got := String("PD_TEST_STR", "def", nil); got != "value" {
		t.Fatalf("String: got=%q", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"on": true, "0": false, "TRUE": true, "maybe": true}
	for raw, want := range cases {
		t.Setenv("PD_TEST_BOOL", raw)
		if got := Bool("PD_TEST_BOOL", true, nil); got != want {
			t.Fatalf("Bool(%q): got=%v want=%v", raw, got, want)
		}
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PD_DOTENV_A=from-file\nPD_DOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PD_DOTENV_A", "from-env")
	os.Unsetenv("PD_DOTENV_B")
	t.Cleanup(func() { os.Unsetenv("PD_DOTENV_B") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("PD_DOTENV_A"); got != "from-env" {
		t.Fatalf("existing var overridden: %q", got)
	}
	if got := os.Getenv("PD_DOTENV_B"); got != "from-file" {
		t.Fatalf("file var not loaded: %q", got)
	}
}
