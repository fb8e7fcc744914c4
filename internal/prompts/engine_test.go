package prompts_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorsite/internal/domain"
	"creatorsite/internal/leads"
	"creatorsite/internal/prompts"
	apperrors "creatorsite/pkg/errors"
)

func newEngine(t *testing.T) *prompts.Engine {
	t.Helper()
	profile, err := prompts.LoadProfile("")
	require.NoError(t, err)
	engine, err := prompts.NewEngine(profile)
	require.NoError(t, err)
	return engine
}

func TestLoadProfile_Default(t *testing.T) {
	profile, err := prompts.LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, "Michelle Choe", profile.Name)
	assert.Equal(t, "Michelle", profile.FirstName)
	assert.Len(t, profile.Platforms, 3)
	assert.Contains(t, profile.PastPartners, "Jo Malone")
}

func TestLoadProfile_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada Park\nsummary: home creator\n"), 0o644))

	profile, err := prompts.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)

	engine, err := prompts.NewEngine(profile)
	require.NoError(t, err)
	assert.Equal(t, "Partnership Opportunity with Ada Park", engine.DefaultSubject())
}

func TestLoadProfile_RequiresName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("summary: nameless\n"), 0o644))

	_, err := prompts.LoadProfile(path)
	assert.Error(t, err)
}

func TestLeadDiscovery(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.LeadDiscovery("Skincare", 0)
	require.NoError(t, err)
	assert.Contains(t, out, "Michelle Choe is a lifestyle and UGC")
	assert.Contains(t, out, "- YouTube: 36K subscribers")
	assert.Contains(t, out, `find 25 brands in the "skincare" category`)
	assert.Contains(t, out, `"category": "skincare"`)

	out, err = engine.LeadDiscovery("home", 10)
	require.NoError(t, err)
	assert.Contains(t, out, "find 10 brands")
}

func TestLeadDiscovery_Validation(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.LeadDiscovery("crypto", 10)
	assert.True(t, apperrors.IsValidation(err))

	_, err = engine.LeadDiscovery("beauty", 101)
	assert.True(t, apperrors.IsValidation(err))

	_, err = engine.LeadDiscovery("beauty", -1)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCompetitorLookup(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.CompetitorLookup(`Glossier "US"`)
	require.NoError(t, err)
	assert.Contains(t, out, `The brand "Glossier "US"" has worked with Michelle`)
	assert.Contains(t, out, `Similar to Glossier \"US\" because...`)

	_, err = engine.CompetitorLookup("  ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestPitchOutreachFollowUp(t *testing.T) {
	engine := newEngine(t)

	pitch, err := engine.Pitch("Acme Home", "HOME", "https://acme.example")
	require.NoError(t, err)
	assert.Contains(t, pitch, "Acme Home (home brand, website: https://acme.example)")

	pitch, err = engine.Pitch("Acme Home", "", "")
	require.NoError(t, err)
	assert.Contains(t, pitch, "Acme Home (other brand)")

	outreach, err := engine.Outreach(prompts.OutreachInput{Company: "Acme", ContactName: "Sam", Pitch: "Cozy reading nook"})
	require.NoError(t, err)
	assert.Contains(t, outreach, "send to Acme (contact: Sam)")
	assert.Contains(t, outreach, `"Cozy reading nook"`)
	assert.Contains(t, outreach, "SUBJECT:")

	_, err = engine.Outreach(prompts.OutreachInput{Company: "Acme"})
	assert.True(t, apperrors.IsValidation(err))

	first, err := engine.FollowUp("Acme", 1, "Hello from Michelle")
	require.NoError(t, err)
	assert.Contains(t, first, "a few days since the initial email")
	assert.Contains(t, first, "SUBJECT: Re: Hello from Michelle")
	assert.Contains(t, first, "Leave room for another follow-up")

	second, err := engine.FollowUp("Acme", 2, "Hello from Michelle")
	require.NoError(t, err)
	assert.Contains(t, second, "about a week since the first follow-up")
	assert.Contains(t, second, "last follow-up")

	_, err = engine.FollowUp("Acme", 3, "x")
	assert.True(t, apperrors.IsValidation(err))
}

// Every key the lead prompts ask for must be a key the importer reads, and the
// rendered prompt itself must survive the importer.
func TestLeadPromptsMatchImporter(t *testing.T) {
	engine := newEngine(t)

	discovery, err := engine.LeadDiscovery("beauty", 5)
	require.NoError(t, err)
	competitor, err := engine.CompetitorLookup("Jo Malone")
	require.NoError(t, err)

	known := map[string]bool{}
	for _, k := range leads.CandidateKeys() {
		known[k] = true
	}

	example := regexp.MustCompile("(?s)```json\n(.*?)\n```")
	for name, prompt := range map[string]string{"discovery": discovery, "competitor": competitor} {
		t.Run(name, func(t *testing.T) {
			m := example.FindStringSubmatch(prompt)
			require.Len(t, m, 2, "prompt must contain a json example")

			var rows []map[string]any
			require.NoError(t, json.Unmarshal([]byte(m[1]), &rows))
			require.Len(t, rows, 1)
			for key, value := range rows[0] {
				assert.True(t, known[key], "prompt key %q is not read by the importer", key)
				if nested, ok := value.(map[string]any); ok {
					for sub := range nested {
						assert.True(t, known[key+"."+sub], "prompt key %q is not read by the importer", key+"."+sub)
					}
				}
			}

			candidates, err := leads.Parse(prompt, leads.NormalizeContext{Source: domain.SourceAISearch})
			require.NoError(t, err)
			require.Len(t, candidates, 1)
			assert.Equal(t, "Brand Name", candidates[0].CompanyName)
			assert.Equal(t, "@brandhandle", candidates[0].Socials.Instagram)
			assert.NotEmpty(t, candidates[0].AIPitch)
			assert.NotEmpty(t, candidates[0].Notes)
		})
	}
}

func TestParseEmailDraft(t *testing.T) {
	subject, body := prompts.ParseEmailDraft("SUBJECT: Cozy collab idea\n\nHi team,\nLove your candles.\n\nBest,\nMichelle", "fallback")
	assert.Equal(t, "Cozy collab idea", subject)
	assert.Equal(t, "Hi team,\nLove your candles.\n\nBest,\nMichelle", body)

	subject, body = prompts.ParseEmailDraft("Sure! Here it is:\nsubject:   Hello there  \nBody text", "fallback")
	assert.Equal(t, "Hello there", subject)
	assert.Equal(t, "Sure! Here it is:\nBody text", body)

	subject, body = prompts.ParseEmailDraft("Hi Dana,\n\nSUBJECT: Spring launch\n", "fallback")
	assert.Equal(t, "Spring launch", subject)
	assert.Equal(t, "Hi Dana,", body)

	subject, body = prompts.ParseEmailDraft("Just a body\nwith lines", "Partnership Opportunity with Michelle Choe")
	assert.Equal(t, "Partnership Opportunity with Michelle Choe", subject)
	assert.Equal(t, "Just a body\nwith lines", body)
}
