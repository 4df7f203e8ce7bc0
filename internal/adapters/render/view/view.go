// Package view renders pages for the terminal.
package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/querykiln/kiln/internal/domain"
)

const UpgradeURL = "https://querykiln.lemonsqueezy.com"

// Dashboard is everything the dashboard page shows. A nil WorkerErr with
// WorkerChecked set means the Worker answered.
type Dashboard struct {
	Version       string
	License       *domain.License
	Usage         *domain.UsageSnapshot
	UsageErr      string
	WorkerChecked bool
	WorkerErr     error
}

func RenderDashboard(d Dashboard) (string, error) {
	return render(func(s styles) string {
		lines := []string{
			s.title.Render("QueryKiln Dashboard"),
			s.header.Render("version: " + d.Version),
		}

		lines = append(lines, s.section.Render(licenseCard(d.License, s)))
		if d.License != nil && d.License.Tier.IsFree() {
			lines = append(lines, s.section.Render(usageCard(d.Usage, d.UsageErr, s)))
		}
		if d.License != nil && d.License.Tier == domain.TierEmber {
			lines = append(lines, s.section.Render(emberUpgradeCard(s)))
		}
		if d.WorkerChecked {
			lines = append(lines, s.section.Render(workerCard(d.WorkerErr, s)))
		}

		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

// RenderLicense shows the saved license. usage is only set on the free tier.
func RenderLicense(license *domain.License, usage *domain.UsageSnapshot, usageErr string) (string, error) {
	return render(func(s styles) string {
		lines := []string{licenseCard(license, s)}
		if license != nil && license.Tier.IsFree() {
			lines = append(lines, s.section.Render(usageCard(usage, usageErr, s)))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func RenderUsage(usage domain.UsageSnapshot) (string, error) {
	return render(func(s styles) string {
		return usageCard(&usage, "", s)
	})
}

// RenderWorkerStatus reports the outcome of the connectivity check.
func RenderWorkerStatus(err error) (string, error) {
	return render(func(s styles) string {
		return workerCard(err, s)
	})
}

func licenseCard(license *domain.License, s styles) string {
	if license == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.card.Render("License"),
			s.empty.Render("No license activated. Run `kiln license activate <key>`."),
		)
	}

	tier := string(license.Tier)
	if tier == "" {
		tier = "Unknown"
	}

	renews := license.RenewsAt
	if strings.TrimSpace(renews) == "" {
		renews = "n/a"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.card.Render("License"),
		field("Tier", tier, s),
		field("Status", license.StatusLabel(), s),
		field("Key", domain.MaskKey(license.KeyValue()), s),
		field("Renews", renews, s),
	)
}

func usageCard(usage *domain.UsageSnapshot, usageErr string, s styles) string {
	parts := []string{s.card.Render("Today's Usage (Spark)")}

	switch {
	case usage != nil:
		for _, feature := range []struct {
			label   string
			feature domain.Feature
		}{
			{"AI Rewrite", domain.FeatureRewrite},
			{"Grammar Fix", domain.FeatureGrammar},
			{"Keyword Research", domain.FeatureKeywords},
		} {
			parts = append(parts, usageLine(feature.label, usage.Count(feature.feature), s))
		}
		parts = append(parts, s.hint.Render("Usage resets daily at midnight."))
	case usageErr != "":
		parts = append(parts, s.warning.Render("Failed to load usage limits: "+usageErr))
	default:
		parts = append(parts, s.empty.Render("usage: n/a"))
	}

	parts = append(parts, s.hint.Render("Upgrade to Ember / Forge: "+UpgradeURL))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func emberUpgradeCard(s styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.card.Render("Upgrade Available"),
		s.detail.Render("You have Kiln Ember. Unlock the full SEO suite with Kiln Forge."),
		s.hint.Render("Upgrade to Kiln Forge: "+UpgradeURL),
	)
}

func workerCard(err error, s styles) string {
	status := s.success.Render("Worker is responding normally.")
	if err != nil {
		status = s.warning.Render("Worker failed to respond: " + err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, s.card.Render("API Connectivity"), status)
}

func usageLine(label string, used int, s styles) string {
	percent := float64(used) / float64(domain.DailyCap) * 100
	leftPercent := clampPercent(100 - percent)
	countStyle := lipgloss.NewStyle().Foreground(interpolateColor(leftPercent, 0, 100))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.label.Render(fmt.Sprintf("%-17s", label+":")),
		" ",
		renderProgressBar(percent, 20, s),
		" ",
		countStyle.Render(fmt.Sprintf("%d/%d", used, domain.DailyCap)),
	)
}

func field(label, value string, s styles) string {
	return s.label.Render(label+": ") + s.detail.Render(value)
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	leftFraction := (100.0 - used) / 100.0
	filled := int(math.Round(float64(width) * leftFraction))
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func interpolateColor(value, lo, hi float64) lipgloss.Color {
	if hi == lo {
		return lipgloss.Color("255")
	}

	normalized := (value - lo) / (hi - lo)
	normalized = max(0, min(normalized, 1))

	// ANSI 256 greyscale ramp: 240 (faded) at lo, 255 (bright) at hi.
	interpolated := 240.0 + (255.0-240.0)*normalized
	return lipgloss.Color(fmt.Sprintf("%d", int(interpolated)))
}
