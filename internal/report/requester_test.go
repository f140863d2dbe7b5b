package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"singularshift/internal/insight"
	"singularshift/internal/llm"
	"singularshift/internal/model"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeCompleter) Provider() string { return "fake" }

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		strict bool
		want   model.RoleCategory
	}{
		{"exact", "Software Engineering", true, model.CategorySoftwareEngineering},
		{"quoted and cased", `"product management"`, true, model.CategoryProductManagement},
		{"trailing period", "Marketing/Growth.", true, model.CategoryMarketingGrowth},
		{"contained label", "Category: Leadership/Strategy", true, model.CategoryLeadershipStrategy},
		{"partial label", "Marketing", true, model.CategoryMarketingGrowth},
		{"unknown clamped", "Astronaut", true, model.CategoryOtherAdmin},
		{"fragment clamped", "an", true, model.CategoryOtherAdmin},
		{"word fragment clamped", "Market", true, model.CategoryOtherAdmin},
		{"short whole word", "UX", true, model.CategoryProductDesign},
		{"two words", "customer support", true, model.CategoryCustomerSupportOps},
		{"passthrough", `"Astronaut"`, false, model.RoleCategory("Astronaut")},
		{"passthrough empty", `""`, false, model.CategoryOtherAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRequester(&fakeCompleter{reply: tt.reply}, &fakeCompleter{}, tt.strict, zap.NewNop())
			assert.Equal(t, tt.want, r.ClassifyRole(context.Background(), "Backend Developer"))
		})
	}
}

func TestClassifyRole_PromptAndFailure(t *testing.T) {
	c := &fakeCompleter{err: errors.New("timeout")}
	r := NewRequester(c, &fakeCompleter{}, true, zap.NewNop())

	assert.Equal(t, model.CategoryOtherAdmin, r.ClassifyRole(context.Background(), "Head of Growth"))
	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "Head of Growth")
	for _, cat := range model.RoleCategories {
		assert.Contains(t, c.prompts[0], string(cat))
	}
}

func TestClassifyRole_BlankTitleSkipsCall(t *testing.T) {
	c := &fakeCompleter{reply: "Software Engineering"}
	r := NewRequester(c, &fakeCompleter{}, true, zap.NewNop())

	assert.Equal(t, model.CategoryOtherAdmin, r.ClassifyRole(context.Background(), "  "))
	assert.Empty(t, c.prompts)
}

func TestGenerate(t *testing.T) {
	reporter := &fakeCompleter{reply: "```json\n{\"readinessScore\": 73, \"benchmarkSummary\": \"Solid.\", " +
		"\"recommendations\": [\"Pilot an assistant\"], \"strengths\": [\"Clear processes\"], \"weaknesses\": [\"Manual entry\"]}\n```"}
	r := NewRequester(&fakeCompleter{}, reporter, true, zap.NewNop())

	set := insight.New().Extract([]model.Message{
		{Role: model.RoleUser, Content: "I manage onboarding for 10 people"},
		{Role: model.RoleAssistant, Content: "..."},
	})
	rep := r.Generate(context.Background(), Input{
		Participant:  model.Participant{JobTitle: "HR Lead", Department: "HR", Seniority: "Senior"},
		RoleCategory: model.CategoryLeadershipStrategy,
		Insights:     set,
	})

	assert.Equal(t, 73, rep.ReadinessScore)
	assert.Equal(t, "Solid.", rep.BenchmarkSummary)
	assert.Equal(t, model.CategoryLeadershipStrategy, rep.RoleCategory)

	require.Len(t, reporter.prompts, 1)
	prompt := reporter.prompts[0]
	assert.Contains(t, prompt, "HR Lead")
	assert.Contains(t, prompt, "I manage onboarding for 10 people")
	assert.Contains(t, prompt, "Technical readiness (25%)")
	assert.Contains(t, prompt, "Strategic readiness (25%)")
}

func TestGenerate_FailureYieldsDefaults(t *testing.T) {
	r := NewRequester(&fakeCompleter{}, &fakeCompleter{err: context.DeadlineExceeded}, true, zap.NewNop())

	rep := r.Generate(context.Background(), Input{RoleCategory: model.CategoryProductDesign})

	want := model.DefaultAuditReport()
	want.RoleCategory = model.CategoryProductDesign
	assert.Equal(t, want, rep)
}

func TestGenerate_MalformedYieldsDefaults(t *testing.T) {
	r := NewRequester(&fakeCompleter{}, &fakeCompleter{reply: "I cannot help with that."}, true, zap.NewNop())

	rep := r.Generate(context.Background(), Input{RoleCategory: model.CategoryOtherAdmin})

	assert.Equal(t, model.DefaultAuditReport(), rep)
}
