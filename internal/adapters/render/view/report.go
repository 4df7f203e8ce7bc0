package view

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/querykiln/kiln/internal/domain"
)

func RenderRewrite(result domain.RewriteResult) (string, error) {
	return render(func(s styles) string {
		output := result.Output
		if strings.TrimSpace(output) == "" {
			output = s.empty.Render("(empty output)")
		}
		return lipgloss.JoinVertical(lipgloss.Left, s.title.Render("Rewritten Text"), output)
	})
}

func RenderKeywords(topic string, report domain.KeywordReport) (string, error) {
	return render(func(s styles) string {
		lines := []string{
			s.title.Render("Keyword Ideas"),
			s.header.Render(fmt.Sprintf("topic: %s  keywords: %d", topic, len(report.Keywords))),
		}
		if len(report.Keywords) == 0 {
			return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No keywords returned."))...)
		}

		width := 0
		for _, k := range report.Keywords {
			width = max(width, len(k.Keyword))
		}
		for _, k := range report.Keywords {
			lines = append(lines, fmt.Sprintf("%s  %s %s  %s %s",
				s.detail.Render(fmt.Sprintf("%-*s", width, k.Keyword)),
				s.label.Render("volume:"), formatValue(k.Volume),
				s.label.Render("difficulty:"), formatValue(k.Difficulty),
			))
		}

		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func RenderBacklinks(site string, report domain.BacklinkReport) (string, error) {
	return render(func(s styles) string {
		a := report.Analysis
		lines := []string{
			s.title.Render("Backlink Analysis"),
			s.header.Render("domain: " + site),
			field("Total backlinks", formatValue(a.TotalBacklinks), s),
			field("Referring domains", formatValue(a.ReferringDomains), s),
			field("Dofollow", formatValue(a.BacklinkTypes.Dofollow), s),
			field("Nofollow", formatValue(a.BacklinkTypes.Nofollow), s),
		}

		if len(a.TopReferringDomains) > 0 {
			lines = append(lines, s.section.Render(s.card.Render("Top referring domains")))
			for _, d := range a.TopReferringDomains {
				lines = append(lines, fmt.Sprintf("  %s  %s", s.detail.Render(d.Domain), formatValue(d.Backlinks)))
			}
		}
		lines = append(lines, distribution("Anchor text", a.AnchorTextDistribution, s)...)
		lines = append(lines, distribution("Top countries", a.TopCountries, s)...)

		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func RenderCompetitors(site string, report domain.CompetitorReport) (string, error) {
	return render(func(s styles) string {
		lines := []string{
			s.title.Render("Competitor Analysis"),
			s.header.Render(fmt.Sprintf("domain: %s  competitors: %d", site, len(report.Competitors))),
		}

		for _, c := range report.Competitors {
			block := []string{
				s.card.Render(c.Name),
				field("Market share", formatValue(c.MarketShare), s),
			}
			block = append(block, bullets("Strengths", c.Strengths, s)...)
			block = append(block, bullets("Weaknesses", c.Weaknesses, s)...)
			block = append(block, bullets("Key features", c.KeyFeatures, s)...)
			lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, block...)))
		}

		summary := []string{s.card.Render("Summary")}
		if trend := strings.TrimSpace(report.Summary.OverallMarketTrends); trend != "" {
			summary = append(summary, field("Market trends", trend, s))
		}
		summary = append(summary, bullets("Opportunities", report.Summary.Opportunities, s)...)
		summary = append(summary, bullets("Threats", report.Summary.Threats, s)...)
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, summary...)))

		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func RenderContentGap(report domain.ContentGapReport) (string, error) {
	return render(func(s styles) string {
		gaps := report.Analysis.Gaps
		recs := report.Analysis.Recommendations

		gapLines := []string{s.card.Render("Gaps")}
		gapLines = append(gapLines, bullets("Keywords", gaps.Keywords, s)...)
		gapLines = append(gapLines, bullets("Topics", gaps.Topics, s)...)
		gapLines = append(gapLines, bullets("Audience needs", gaps.AudienceNeeds, s)...)
		gapLines = append(gapLines, bullets("Competitor analysis", gaps.CompetitorAnalysis, s)...)
		gapLines = append(gapLines, bullets("Content format", gaps.ContentFormat, s)...)
		gapLines = append(gapLines, bullets("Depth of information", gaps.DepthOfInformation, s)...)

		recLines := []string{s.card.Render("Recommendations")}
		recLines = append(recLines, bullets("Keywords", recs.Keywords, s)...)
		recLines = append(recLines, bullets("Topics to explore", recs.TopicsToExplore, s)...)
		recLines = append(recLines, bullets("Content types", recs.ContentTypes, s)...)
		recLines = append(recLines, bullets("Additional resources", recs.AdditionalResources, s)...)

		return lipgloss.JoinVertical(lipgloss.Left,
			s.title.Render("Content Gap Analysis"),
			s.section.Render(lipgloss.JoinVertical(lipgloss.Left, gapLines...)),
			s.section.Render(lipgloss.JoinVertical(lipgloss.Left, recLines...)),
		)
	})
}

func RenderPlagiarism(report domain.PlagiarismReport) (string, error) {
	return render(func(s styles) string {
		scoreStyle := s.success
		verdict := "Looks original."
		if report.NeedsReview() {
			scoreStyle = s.warning
			verdict = "High similarity detected. Review before publishing."
		}

		lines := []string{
			s.title.Render("Plagiarism Check"),
			s.label.Render("Similarity: ") + scoreStyle.Render(fmt.Sprintf("%.1f%%", report.Score)),
			s.hint.Render(verdict),
		}
		if len(report.Matches) > 0 {
			lines = append(lines, s.section.Render(s.card.Render("Matches")))
			for _, m := range report.Matches {
				lines = append(lines, fmt.Sprintf("  %s  %.1f%%", s.detail.Render(m.Source), m.Similarity))
			}
		}

		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func bullets(label string, items []string, s styles) []string {
	if len(items) == 0 {
		return nil
	}

	lines := []string{s.label.Render(label + ":")}
	for _, item := range items {
		lines = append(lines, "  - "+s.detail.Render(item))
	}
	return lines
}

func distribution(label string, values map[string]any, s styles) []string {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{s.section.Render(s.card.Render(label))}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s  %s", s.detail.Render(k), formatValue(values[k])))
	}
	return lines
}

// formatValue prints a loosely typed Worker figure. JSON numbers without a
// fraction print as integers.
func formatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return "n/a"
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	case string:
		if strings.TrimSpace(n) == "" {
			return "n/a"
		}
		return n
	default:
		return fmt.Sprintf("%v", n)
	}
}
