package resume

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/muhammadolammi/resumatch/internal/nlp"
	"go.uber.org/zap"
)

const (
	maxHeaderLength  = 50
	nameScanLines    = 5
	maxNameWords     = 5
	minSectionSkills = 5
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Tried in order; the first pattern with a match wins.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		regexp.MustCompile(`\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
	}

	jobMarker = regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{4}` +
		`|\b\d{4}\s*-\s*(?:\d{4}|Present|Current)` +
		`|\b(?:Senior|Junior|Lead|Manager|Director|Engineer|Developer|Architect|Analyst|Consultant|Specialist|Associate|Intern)\b`)

	skillsSection     = newSection(SkillsHeaders, "skills")
	experienceSection = newSection(ExperienceHeaders, "experience")
)

// section locates a labeled block of text bounded by the next recognized header.
type section struct {
	headers     []*regexp.Regexp
	terminators []*regexp.Regexp
}

func newSection(headers []string, own string) section {
	var others []string
	for _, name := range SectionNames {
		if name != own {
			others = append(others, name)
		}
	}
	return section{
		headers:     wordPatterns(headers),
		terminators: wordPatterns(others),
	}
}

func isShort(line string) bool {
	return utf8.RuneCountInString(line) < maxHeaderLength
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	return slices.ContainsFunc(patterns, func(p *regexp.Regexp) bool { return p.MatchString(s) })
}

// find returns the lines following the first header line up to, but not
// including, a short "Header:" line naming another section.
func (s section) find(text string) string {
	var content []string
	in := false
	for _, line := range strings.Split(text, "\n") {
		if !in {
			in = isShort(line) && matchesAny(s.headers, line)
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && isShort(line) && strings.HasSuffix(trimmed, ":") && matchesAny(s.terminators, line) {
			break
		}
		content = append(content, line)
	}
	return strings.TrimSpace(strings.Join(content, "\n"))
}

func (e *Extractor) parse(ctx context.Context, text string) Record {
	return newRecord(
		e.extractName(ctx, text),
		emailPattern.FindString(text),
		extractPhone(text),
		e.extractSkills(text),
		extractExperience(text),
	)
}

func (e *Extractor) extractName(ctx context.Context, text string) string {
	entities, err := e.model.Entities(ctx, text)
	if err != nil {
		e.logger.Warn("entity recognition failed, falling back to line scan",
			zap.String("model", e.model.Name()), zap.Error(err))
	}
	for _, ent := range entities {
		if ent.Label == nlp.LabelPerson {
			if name := strings.TrimSpace(ent.Text); name != "" {
				return name
			}
		}
	}

	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(strings.Fields(line)) <= maxNameWords {
			return line
		}
		scanned++
		if scanned == nameScanLines {
			break
		}
	}
	return ""
}

func extractPhone(text string) string {
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// extractSkills scans the skills section first and, when it yields fewer
// than five terms, the whole document. Output keeps that order.
func (e *Extractor) extractSkills(text string) []string {
	var skills []string
	seen := make(map[string]struct{})

	collect := func(source string) {
		for _, term := range e.vocab.terms {
			if _, ok := seen[term.Key]; ok {
				continue
			}
			if term.pattern.MatchString(source) {
				seen[term.Key] = struct{}{}
				skills = append(skills, term.Display)
			}
		}
	}

	if sec := skillsSection.find(text); sec != "" {
		collect(sec)
	}
	if len(skills) < minSectionSkills {
		collect(text)
	}
	return skills
}

// extractExperience splits the experience section into job blocks at dates
// and role keywords. No section means no experience.
func extractExperience(text string) []string {
	sec := experienceSection.find(text)
	if sec == "" {
		return nil
	}

	marks := jobMarker.FindAllStringIndex(sec, -1)
	if len(marks) == 0 {
		var lines []string
		for _, line := range strings.Split(sec, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
			if len(lines) == MaxExperienceEntries {
				break
			}
		}
		return lines
	}

	bounds := make([]int, 0, len(marks)+2)
	bounds = append(bounds, 0)
	for _, m := range marks {
		bounds = append(bounds, m[0])
	}
	bounds = append(bounds, len(sec))

	var blocks []string
	for i := 0; i+1 < len(bounds) && len(blocks) < MaxExperienceEntries; i++ {
		if block := strings.TrimSpace(sec[bounds[i]:bounds[i+1]]); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
