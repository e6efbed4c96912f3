package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/mappicker/internal/core/styles"
	"github.com/colonyops/mappicker/pkg/kv"
)

const markdownCacheSize = 128

// markdownRenderer renders point descriptions with glamour. Output is cached
// per width since the same point is usually shown many times while panning.
type markdownRenderer struct {
	cache *kv.Store[string, string]
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{cache: kv.NewBounded[string, string](markdownCacheSize)}
}

func (r *markdownRenderer) Render(text string, width int) string {
	width = max(width, 10)
	if strings.TrimSpace(text) == "" {
		return ""
	}

	cacheKey := fmt.Sprintf("%d\x00%s", width, text)
	if out, ok := r.cache.Get(cacheKey); ok {
		return out
	}

	out, err := renderMarkdown(text, width)
	if err != nil {
		log.Warn().Err(err).Msg("markdown render failed, showing plain text")
		out = styles.DescriptionStyle.Width(width).Render(text)
	}

	r.cache.Set(cacheKey, out)
	return out
}

func renderMarkdown(text string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	out, err := r.Render(text)
	if err != nil {
		return "", err
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Trim(out, "\n")), nil
}
