// Package scoring rates a résumé record against a job description.
package scoring

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/muhammadolammi/resumatch/internal/resume"
	"go.uber.org/zap"
)

const (
	skillsWeight    = 0.6
	contentWeight   = 0.4
	frequencyWeight = 0.7
	positionWeight  = 0.3
	frequencyCap    = 3.0
)

// Result is the match score with the per-skill importance breakdown.
type Result struct {
	Score       int                `json:"score"`
	SkillsMatch map[string]float64 `json:"skills_match"`
}

// Scorer is stateless and safe for concurrent use.
type Scorer struct {
	logger *zap.Logger
}

func NewScorer(logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{logger: logger}
}

// Score never fails: an empty job description or résumé scores 0.
func (s *Scorer) Score(record resume.Record, jobDescription string) Result {
	jd := Clean(jobDescription)
	if jd == "" {
		return Result{SkillsMatch: map[string]float64{}}
	}

	resumeText := Clean(strings.Join(record.Skills, " ") + " " + strings.Join(record.Experience, " "))

	skillsMatch := SkillsMatch(record.Skills, jd)
	var sum float64
	for _, v := range skillsMatch {
		sum += v
	}
	skillsScore := sum / float64(max(len(skillsMatch), 1)) * 100

	content := s.ContentMatch(resumeText, jd)

	final := int(skillsWeight*skillsScore + contentWeight*content)
	return Result{
		Score:       min(max(final, 0), 100),
		SkillsMatch: skillsMatch,
	}
}

// Evaluate scores only when a job description was supplied.
func (s *Scorer) Evaluate(record resume.Record, jobDescription string) Result {
	if strings.TrimSpace(jobDescription) == "" {
		return Result{SkillsMatch: map[string]float64{}}
	}
	return s.Score(record, jobDescription)
}

// SkillsMatch rates each skill found in the cleaned job description by how
// often and how early it appears. Skills are matched lowercased but otherwise
// verbatim, so "C++" never matches the "c" left behind by cleaning "C#".
func SkillsMatch(skills []string, cleanedJD string) map[string]float64 {
	out := make(map[string]float64)
	jdLen := utf8.RuneCountInString(cleanedJD)
	if jdLen == 0 {
		return out
	}
	for _, skill := range skills {
		needle := strings.ToLower(strings.TrimSpace(skill))
		if needle == "" {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(needle) + `\b`)
		hits := re.FindAllStringIndex(cleanedJD, -1)
		if len(hits) == 0 {
			continue
		}
		first := utf8.RuneCountInString(cleanedJD[:hits[0][0]])
		position := 1.0 - float64(first)/float64(jdLen)
		frequency := math.Min(float64(len(hits))/frequencyCap, 1.0)
		out[skill] = math.Round((frequencyWeight*frequency+positionWeight*position)*100) / 100
	}
	return out
}

// ContentMatch is the TF-IDF cosine similarity of two cleaned texts, 0-100.
func (s *Scorer) ContentMatch(a, b string) float64 {
	vecs, err := tfidf(a, b)
	if err != nil {
		s.logger.Warn("content match unavailable", zap.Error(err))
		return 0
	}
	return cosine(vecs[0], vecs[1]) * 100
}
