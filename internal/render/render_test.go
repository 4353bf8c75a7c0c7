package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/Elijahuni/chatbot-1/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Errorf("unexpected defaults %+v", opts)
	}
}

func TestOptionsWithWidth(t *testing.T) {
	if got := DefaultOptions().WithWidth(120).Width; got != 120 {
		t.Errorf("expected Width=120, got %d", got)
	}
	// Non-positive widths keep the default
	if got := DefaultOptions().WithWidth(0).Width; got != 80 {
		t.Errorf("expected Width=80, got %d", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv(EnvStyle, "")

	md := config.MarkdownConfig{Style: "light", EnableEmoji: false, PreserveNewLines: true, TableWrap: false}
	opts := OptionsFromConfig(md, 100)

	if opts.Style != "light" || opts.Width != 100 {
		t.Errorf("got style %q width %d", opts.Style, opts.Width)
	}
	if opts.EnableEmoji || opts.TableWrap || !opts.PreserveNewLines {
		t.Errorf("booleans not applied: %+v", opts)
	}
}

func TestOptionsFromConfigEnvOverride(t *testing.T) {
	t.Setenv(EnvStyle, "notty")

	opts := OptionsFromConfig(config.DefaultMarkdownConfig(), 80)
	if opts.Style != "notty" {
		t.Errorf("expected Style='notty' from env, got %s", opts.Style)
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{"plain text", "Hello World", []string{"Hello World"}},
		{"header", "# 제주도 여행", []string{"제주도 여행"}},
		{"list", "- 성산일출봉\n- 한라산", []string{"성산일출봉", "한라산"}},
		{"code", "```go\nfmt.Println(\"hi\")\n```", []string{"Println"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Markdown(tt.input, DefaultOptions().WithStyle("notty"))
			if err != nil {
				t.Fatalf("Markdown() error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %q should contain %q", out, want)
				}
			}
		})
	}
}

func TestMarkdownOrPlainFallback(t *testing.T) {
	opts := DefaultOptions().WithStyle("/nonexistent/style.json")
	if got := MarkdownOrPlain("raw *text*", opts); got != "raw *text*" {
		t.Errorf("expected raw fallback, got %q", got)
	}
}

func TestCacheKey(t *testing.T) {
	a := cacheKey(DefaultOptions())
	if a == cacheKey(DefaultOptions().WithWidth(100)) {
		t.Error("Different widths should produce different keys")
	}
	if a == cacheKey(DefaultOptions().WithStyle("light")) {
		t.Error("Different styles should produce different keys")
	}
	if a != cacheKey(DefaultOptions()) {
		t.Error("Same options should produce same key")
	}
}

func TestPoolReuse(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions().WithStyle("notty")
	r, err := globalPool.get(opts)
	if err != nil || r == nil {
		t.Fatalf("get() = %v, %v", r, err)
	}
	globalPool.put(opts, r)

	if CacheSize() != 1 {
		t.Errorf("expected pool count 1, got %d", CacheSize())
	}

	_, _ = Markdown("x", opts.WithWidth(40))
	if CacheSize() != 2 {
		t.Errorf("expected pool count 2, got %d", CacheSize())
	}
}

func TestMarkdownConcurrent(t *testing.T) {
	opts := DefaultOptions().WithStyle("notty")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("**bold** text", opts); err != nil {
				t.Errorf("Markdown() error: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestPalettes(t *testing.T) {
	if CurrentPalette().Name != "tokyonight" {
		t.Errorf("default palette = %s", CurrentPalette().Name)
	}
	if !SetPalette("jeju") || CurrentPalette().Name != "jeju" {
		t.Error("SetPalette(jeju) failed")
	}
	if SetPalette("nope") {
		t.Error("unknown palette should be rejected")
	}
	if CurrentPalette().Name != "jeju" {
		t.Error("rejected palette should not change the current one")
	}
	SetPalette("tokyonight")

	names := PaletteNames()
	if len(names) != len(Palettes()) || names[0] != "tokyonight" {
		t.Errorf("PaletteNames() = %v", names)
	}
}

func BenchmarkMarkdown(b *testing.B) {
	opts := DefaultOptions().WithStyle("notty")
	content := "# 여행 일정\n\n- 1일차: 성산일출봉\n- 2일차: 한라산\n\n```go\nfmt.Println(\"hi\")\n```"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Markdown(content, opts)
	}
}
