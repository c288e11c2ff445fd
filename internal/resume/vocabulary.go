package resume

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSkills is the fixed technology and soft-skill vocabulary, in match order.
var DefaultSkills = []string{
	"python", "java", "javascript", "html", "css", "sql", "c++", "c#", "ruby",
	"php", "swift", "kotlin", "rust", "go", "typescript", "react", "angular",
	"vue", "django", "flask", "spring", "node.js", "express", "asp.net",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins",
	"git", "machine learning", "data science", "artificial intelligence", "ai",
	"nlp", "data analysis", "data visualization", "tableau", "power bi",
	"excel", "word", "powerpoint", "project management", "agile", "scrum",
	"leadership", "communication", "problem-solving", "teamwork", "creativity",
	"devops", "ci/cd", "database", "mongodb", "postgresql", "mysql", "oracle",
	"sqlserver", "networking", "security", "linux", "windows", "macos",
	"mobile development", "web development", "fullstack", "frontend", "backend",
}

// Section header keywords.
var (
	SkillsHeaders     = []string{"skills", "technical skills", "core competencies"}
	ExperienceHeaders = []string{"experience", "work experience", "employment history", "work history"}
	SectionNames      = []string{"education", "projects", "skills", "experience", "achievements", "certifications"}
)

// Term is one vocabulary entry.
type Term struct {
	Key     string // lower-case match key
	Display string // title-cased output form
	pattern *regexp.Regexp
}

// Vocabulary is an immutable, ordered skill list with precompiled matchers.
// It is safe for concurrent use.
type Vocabulary struct {
	terms []Term
}

// NewVocabulary compiles words into a Vocabulary, dropping blanks and duplicates.
func NewVocabulary(words []string) *Vocabulary {
	caser := cases.Title(language.English)
	v := &Vocabulary{terms: make([]Term, 0, len(words))}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		key := strings.ToLower(strings.TrimSpace(w))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		v.terms = append(v.terms, Term{
			Key:     key,
			Display: titleCase(caser, key),
			pattern: wordPattern(key),
		})
	}
	return v
}

// titleCase capitalizes every run of letters on its own, so "node.js"
// becomes "Node.Js" and "ci/cd" becomes "Ci/Cd".
func titleCase(caser cases.Caser, s string) string {
	var b strings.Builder
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

var defaultVocabulary = sync.OnceValue(func() *Vocabulary {
	return NewVocabulary(DefaultSkills)
})

// DefaultVocabulary returns the shared vocabulary built from DefaultSkills.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary()
}

// Terms returns a copy of the vocabulary entries.
func (v *Vocabulary) Terms() []Term {
	return append([]Term(nil), v.terms...)
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

func wordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

func wordPatterns(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, wordPattern(w))
	}
	return out
}
