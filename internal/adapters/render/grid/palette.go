package grid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

var palette = map[domain.Color]lipgloss.Color{
	"blue":   lipgloss.Color("39"),
	"green":  lipgloss.Color("42"),
	"red":    lipgloss.Color("203"),
	"orange": lipgloss.Color("208"),
	"yellow": lipgloss.Color("220"),
	"purple": lipgloss.Color("141"),
	"pink":   lipgloss.Color("212"),
	"teal":   lipgloss.Color("37"),
	"gray":   lipgloss.Color("250"),
}

const fallbackColor = lipgloss.Color("252")

// ColorTokens lists every accepted palette token, sorted.
func ColorTokens() []string {
	tokens := make([]string, 0, len(palette))
	for token := range palette {
		tokens = append(tokens, string(token))
	}
	sort.Strings(tokens)
	return tokens
}

// ParseColor normalises a user supplied token. Empty input means no color.
func ParseColor(raw string) (domain.Color, error) {
	token := domain.Color(strings.ToLower(strings.TrimSpace(raw)))
	if token == "" {
		return "", nil
	}
	if _, ok := palette[token]; !ok {
		return "", fmt.Errorf("unknown color %q (want one of %s)", raw, strings.Join(ColorTokens(), ", "))
	}
	return token, nil
}

func foreground(color domain.Color) lipgloss.Color {
	if c, ok := palette[color]; ok {
		return c
	}
	return fallbackColor
}
