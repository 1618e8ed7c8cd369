package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/restaurant-site/internal/domain"
	"github.com/spec-kit/restaurant-site/internal/session"
)

var (
	muted   = lipgloss.Color("#6B7280")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
	success = lipgloss.Color("#10B981")

	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	warningStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
	dangerStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(success).Bold(true)

	promptBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warning).
			Padding(0, 1)
)

// namedColors maps the color tags used by the menu editor to terminal colors.
var namedColors = map[string]string{
	"red":    "#EF4444",
	"orange": "#F97316",
	"amber":  "#F59E0B",
	"yellow": "#EAB308",
	"green":  "#10B981",
	"teal":   "#14B8A6",
	"blue":   "#3B82F6",
	"purple": "#7C3AED",
	"pink":   "#EC4899",
	"gray":   "#6B7280",
}

func tagColor(tag string) lipgloss.TerminalColor {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if strings.HasPrefix(tag, "#") {
		return lipgloss.Color(tag)
	}
	if hex, ok := namedColors[tag]; ok {
		return lipgloss.Color(hex)
	}
	return muted
}

func formatCategories(categories []domain.Category, showIDs bool) string {
	if len(categories) == 0 {
		return mutedStyle.Render("No categories.")
	}
	var b strings.Builder
	for i, c := range categories {
		if i > 0 {
			b.WriteString("\n")
		}
		header := c.Name
		if c.IconGlyph != "" {
			header = c.IconGlyph + " " + header
		}
		b.WriteString(titleStyle.Foreground(tagColor(c.ColorTag)).Render(header))
		if showIDs {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  [%s]", c.ID)))
			if !c.IsVisible {
				b.WriteString(" " + warningStyle.Render("hidden"))
			}
		}
		b.WriteString("\n")
		if len(c.Items) == 0 {
			b.WriteString(mutedStyle.Render("  (no items)") + "\n")
		}
		for pos, item := range c.Items {
			line := fmt.Sprintf("  %d. %-24s %8.2f", pos+1, item.Name, item.Price)
			if !item.IsAvailable {
				line += " " + warningStyle.Render("unavailable")
			}
			if showIDs {
				line += mutedStyle.Render("  " + item.ID)
			}
			b.WriteString(line + "\n")
			if item.Description != "" {
				b.WriteString(mutedStyle.Render("     "+item.Description) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRestaurant(info *domain.Restaurant) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(info.Name))
	if info.Tagline != "" {
		b.WriteString("\n" + mutedStyle.Render(info.Tagline))
	}
	if info.About != "" {
		b.WriteString("\n\n" + info.About)
	}
	rows := [][2]string{{"Address", info.Address}, {"Phone", info.Phone}, {"Email", info.Email}}
	wrote := false
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		if !wrote {
			b.WriteString("\n")
			wrote = true
		}
		b.WriteString(fmt.Sprintf("\n%-8s %s", row[0]+":", row[1]))
	}
	if len(info.Hours) > 0 {
		b.WriteString("\n\nHours:")
		for _, h := range info.Hours {
			b.WriteString("\n  " + h)
		}
	}
	return b.String()
}

func formatImages(images []domain.Image) string {
	if len(images) == 0 {
		return mutedStyle.Render("No images.")
	}
	var b strings.Builder
	for _, img := range images {
		b.WriteString(fmt.Sprintf("%-28s %-12s %8d  %s\n", img.FileName, img.ContentType, img.SizeBytes, img.URL))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSession(state session.State, remaining time.Duration) string {
	switch state.Mode {
	case session.Authenticated:
		return fmt.Sprintf("%s  expires in %s", okStyle.Render("logged in"), formatCountdown(remaining))
	case session.ExpiredPending:
		return expiredPrompt()
	default:
		return dangerStyle.Render("not logged in")
	}
}

func expiredPrompt() string {
	return promptBox.Render("Your session has expired.\nRun `login` to sign in again.")
}

// formatCountdown renders d as m:ss, or h:mm:ss past one hour.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
