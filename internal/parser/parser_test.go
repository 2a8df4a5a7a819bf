package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kele901/career-projector/internal/classify"
	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/vocab"
)

var fixedNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	v := vocab.Default()
	return NewExtractor(v, classify.NewClassifier(v), WithClock(func() time.Time { return fixedNow }))
}

func intPtr(i int) *int { return &i }

func TestSegment(t *testing.T) {
	s := NewSegmenter(vocab.Default())

	text := `Jane Doe
jane@example.com

Professional Experience
Backend Engineer at Initech, 2019 - 2022
Built billing services

Technical Skills
Go, PostgreSQL

Education
BSc Computer Science`

	sections := s.Segment(text)

	assert.Equal(t, "Backend Engineer at Initech, 2019 - 2022\nBuilt billing services", sections.Experience())
	assert.Equal(t, "Go, PostgreSQL", sections[vocab.SectionSkills])
	assert.Equal(t, "BSc Computer Science", sections[vocab.SectionEducation])
	assert.Equal(t, "", sections[vocab.SectionCertifications])
}

func TestSegmentWithoutHeaders(t *testing.T) {
	s := NewSegmenter(vocab.Default())

	sections := s.Segment("Senior React Developer at Acme Corp\nBuilt things")

	require.Len(t, sections, 4)
	for name, body := range sections {
		assert.Empty(t, body, "section %s", name)
	}
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"Jan 2020 - Present", []string{"Jan 2020"}},
		{"September 2018 – March 2021", []string{"September 2018", "March 2021"}},
		{"03/2017 - 11/2019", []string{"03/2017", "11/2019"}},
		{"2015 - 2018", []string{"2015", "2018"}},
		{"Fortune 1000 company", nil},
		{"Director of Marketing 2019 - 2021", []string{"2019", "2021"}},
		{"Summary 2020", []string{"2020"}},
		{"Sept 2019 - Dec. 2020", []string{"Sept 2019", "Dec. 2020"}},
		{"no dates here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDates(tt.line))
		})
	}
}

func TestDurationMonths(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		isCurrent bool
		want      *int
	}{
		{"ongoing role uses current year", "Jan 2020", "Present", true, intPtr(60)},
		{"closed range", "2015", "2018", false, intPtr(36)},
		{"same year floors at one month", "Mar 2019", "Nov 2019", false, intPtr(1)},
		{"missing end uses current year", "2018", "", false, intPtr(84)},
		{"unparsable end uses current year", "2018", "sometime", false, intPtr(84)},
		{"no start year is unknown", "", "2020", false, nil},
		{"month only start is unknown", "Jan", "2020", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationMonths(tt.start, tt.end, tt.isCurrent, fixedNow))
		})
	}
}

// TestExtractSingleLineEntry tests a title, company, dates and narrative on one line
func TestExtractSingleLineEntry(t *testing.T) {
	e := newTestExtractor()
	s := NewSegmenter(vocab.Default())

	text := "Senior React Developer at Acme Corp, Jan 2020 – Present. Built React and Node.js applications."
	entries := e.Extract(s.Segment(text), text)

	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, "Senior React Developer", got.JobTitle)
	assert.Equal(t, "Acme Corp", got.CompanyName)
	assert.Equal(t, "Jan 2020", got.StartDate)
	assert.Equal(t, "Present", got.EndDate)
	assert.True(t, got.IsCurrent)
	assert.Equal(t, models.SenioritySenior, got.SeniorityLevel)
	assert.Equal(t, "Built React and Node.js applications.", got.Description)
	require.NotNil(t, got.DurationMonths)
	assert.Equal(t, 60, *got.DurationMonths)
	assert.Equal(t, models.SizeLarge, got.CompanySize)
}

func TestParseEntries(t *testing.T) {
	e := newTestExtractor()

	text := `Data Scientist | Google | 2021 - Present
Trained ranking models with TensorFlow
Shipped experiments to production
Junior Analyst - First National Bank
2017 - 2019
Built weekly risk reports
some stray line`

	entries := e.ParseEntries(text)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "Data Scientist", first.JobTitle)
	assert.Equal(t, "Google", first.CompanyName)
	assert.True(t, first.IsCurrent)
	assert.Equal(t, models.SeniorityMid, first.SeniorityLevel)
	assert.Equal(t, models.SizeEnterprise, first.CompanySize)
	assert.Equal(t, "Trained ranking models with TensorFlow\nShipped experiments to production", first.Description)

	second := entries[1]
	assert.Equal(t, "Junior Analyst", second.JobTitle)
	assert.Equal(t, "First National Bank", second.CompanyName)
	assert.Equal(t, "2017", second.StartDate)
	assert.Equal(t, "2019", second.EndDate)
	assert.Equal(t, intPtr(24), second.DurationMonths)
	assert.Equal(t, models.SeniorityJunior, second.SeniorityLevel)
	assert.Equal(t, models.IndustryFinance, second.CompanyIndustry)
	assert.Equal(t, "Built weekly risk reports\nsome stray line", second.Description)
}

func TestParseEntriesHeaderEdgeCases(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantTitle   string
		wantCompany string
		wantStart   string
		wantEnd     string
	}{
		{
			name:      "word starting with a month name",
			line:      "Director of Marketing 2019 - 2021",
			wantTitle: "Director of Marketing",
			wantStart: "2019",
			wantEnd:   "2021",
		},
		{
			name:        "dates in parentheses",
			line:        "Senior Developer at Acme Corp (2019 - 2021)",
			wantTitle:   "Senior Developer",
			wantCompany: "Acme Corp",
			wantStart:   "2019",
			wantEnd:     "2021",
		},
		{
			name:        "dates in square brackets",
			line:        "Data Analyst | Initech [Mar 2018 - Present]",
			wantTitle:   "Data Analyst",
			wantCompany: "Initech",
			wantStart:   "Mar 2018",
			wantEnd:     "Present",
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := e.ParseEntries(tt.line + "\nDid things")

			require.Len(t, entries, 1)
			got := entries[0]
			assert.Equal(t, tt.wantTitle, got.JobTitle)
			assert.Equal(t, tt.wantCompany, got.CompanyName)
			assert.Equal(t, tt.wantStart, got.StartDate)
			assert.Equal(t, tt.wantEnd, got.EndDate)
			assert.Equal(t, "Did things", got.Description)
		})
	}
}

func TestParseEntriesDropsLeadingNoise(t *testing.T) {
	e := newTestExtractor()

	entries := e.ParseEntries("Objective: grow\nQA Engineer, 2016 - 2018")

	require.Len(t, entries, 1)
	assert.Equal(t, "QA Engineer", entries[0].JobTitle)
	assert.Empty(t, entries[0].CompanyName)
	assert.Equal(t, models.SizeUnknown, entries[0].CompanySize)
	assert.Equal(t, models.IndustryUnknown, entries[0].CompanyIndustry)
}

func TestExtractFallbackScan(t *testing.T) {
	e := newTestExtractor()
	s := NewSegmenter(vocab.Default())

	text := `Career History
Data Analyst at Contoso Health, 2018 - 2020
Education
BSc Statistics 2014`

	sections := s.Segment(text)
	require.Empty(t, sections.Experience())

	entries := e.Extract(sections, text)
	require.Len(t, entries, 1)
	assert.Equal(t, "Data Analyst", entries[0].JobTitle)
	assert.Equal(t, "Contoso Health", entries[0].CompanyName)
	assert.Equal(t, models.IndustryHealthcare, entries[0].CompanyIndustry)
}

func TestExtractNeverFails(t *testing.T) {
	e := newTestExtractor()
	s := NewSegmenter(vocab.Default())

	for _, text := range []string{"", "\n\n", "%%%% ---- ||||", "2020"} {
		assert.NotPanics(t, func() {
			entries := e.Extract(s.Segment(text), text)
			assert.NotNil(t, entries)
		})
	}
}

func TestExtractProfile(t *testing.T) {
	years := 7.0

	tests := []struct {
		name string
		text string
		want models.Profile
	}{
		{
			name: "full profile",
			text: "Jane Doe | jane.doe@example.com | +1 415 555 0100\n7+ years building APIs\nMSc Computer Science",
			want: models.Profile{
				Email:           "jane.doe@example.com",
				Phone:           "+1 415 555 0100",
				YearsExperience: &years,
				EducationLevel:  "Masters",
			},
		},
		{
			name: "date ranges are not phone numbers",
			text: "Engineer 2019 - 2021",
			want: models.Profile{},
		},
		{
			name: "doctorate wins",
			text: "PhD in Physics, Bachelor of Science",
			want: models.Profile{EducationLevel: "PhD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProfile(tt.text))
		})
	}
}
