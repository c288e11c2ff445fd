package scoring

import (
	"testing"

	"github.com/muhammadolammi/resumatch/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!  C++ rocks", "hello world c rocks"},
		{"  Node.js\tand\nCI/CD ", "nodejs and cicd"},
		{"Crème brûlée", "crème brûlée"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestScoreEmptyJobDescription(t *testing.T) {
	s := NewScorer(nil)
	rec := resume.Record{Skills: []string{"Python"}, Experience: []string{"Built APIs"}}

	for _, jd := range []string{"", "   ", "?!..."} {
		got := s.Score(rec, jd)
		assert.Equal(t, 0, got.Score)
		require.NotNil(t, got.SkillsMatch)
		assert.Empty(t, got.SkillsMatch)
	}

	got := s.Evaluate(rec, "")
	assert.Equal(t, 0, got.Score)
	assert.NotNil(t, got.SkillsMatch)
}

func TestScoreRepeatedLeadingSkill(t *testing.T) {
	s := NewScorer(nil)
	got := s.Score(resume.Record{Skills: []string{"Python"}}, "Python python PYTHON developer")

	assert.Equal(t, map[string]float64{"Python": 1.0}, got.SkillsMatch)
	assert.Equal(t, 96, got.Score)
}

func TestSkillsMatch(t *testing.T) {
	got := SkillsMatch([]string{"Python", "Rust", "Java"}, "we need python and sql")
	assert.Equal(t, map[string]float64{"Python": 0.42}, got)

	assert.Empty(t, SkillsMatch([]string{"Java"}, "javascript developer"))
	assert.Empty(t, SkillsMatch([]string{"Python"}, ""))
}

func TestSkillsMatchPunctuatedSkills(t *testing.T) {
	jd := Clean("We need C# and .NET developers, nodejs, CICD")

	tests := []struct {
		skill string
	}{
		{"C++"},
		{"Node.js"},
		{"CI/CD"},
		{"C#"},
	}
	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			assert.Empty(t, SkillsMatch([]string{tt.skill}, jd))
		})
	}

	s := NewScorer(nil)
	got := s.Score(resume.Record{Skills: []string{"C++", "Node.js", "CI/CD"}}, "We need C# and .NET developers, nodejs, CICD")
	assert.Empty(t, got.SkillsMatch)
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer(nil)
	records := []resume.Record{
		{},
		{Skills: []string{"Docker", "Kubernetes"}, Experience: []string{"Ran Docker clusters on Kubernetes"}},
		{Skills: []string{"Excel"}, Experience: []string{"Spreadsheets"}},
	}
	jds := []string{
		"the and of",
		"Docker Kubernetes Docker Kubernetes Docker Kubernetes",
		"Looking for a chef with pastry experience",
	}
	for _, r := range records {
		for _, jd := range jds {
			got := s.Score(r, jd)
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)
			for _, v := range got.SkillsMatch {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestScoreIdenticalContent(t *testing.T) {
	s := NewScorer(nil)
	rec := resume.Record{
		Skills:     []string{"Docker", "Kubernetes"},
		Experience: []string{"Operated Docker and Kubernetes platforms"},
	}
	jd := "Docker Kubernetes Operated Docker and Kubernetes platforms"

	got := s.Score(rec, jd)
	assert.GreaterOrEqual(t, got.Score, 80)
	assert.InDelta(t, 100.0, s.ContentMatch(Clean(jd), Clean(jd)), 1e-9)
}

func TestContentMatchStopWordsOnly(t *testing.T) {
	s := NewScorer(nil)
	assert.Equal(t, 0.0, s.ContentMatch("the and of", "of the a"))
	assert.Equal(t, 0.0, s.ContentMatch("", ""))
}

func TestTFIDFSmoothing(t *testing.T) {
	vecs, err := tfidf("python", "python python developer")
	require.NoError(t, err)
	require.Len(t, vecs, 2)

	assert.InDelta(t, 1.0, vecs[0]["python"], 1e-9)
	assert.InDelta(t, 0.8181, vecs[1]["python"], 1e-3)
	assert.InDelta(t, 0.5750, vecs[1]["developer"], 1e-3)

	_, err = tfidf("the", "a")
	assert.ErrorIs(t, err, errEmptyVocabulary)
}
