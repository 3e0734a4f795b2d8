package civsearch_test

import (
	"testing"

	"github.com/civsearch/civsearch"
	"github.com/stretchr/testify/assert"
)

func TestSectionFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"first path segment", "https://example.gov/permits/building", "/permits"},
		{"single segment", "https://example.gov/contact", "/contact"},
		{"trailing slash segment", "https://example.gov/news/", "/news"},
		{"root page", "https://example.gov/", ""},
		{"no path", "https://example.gov", ""},
		{"query ignored", "https://example.gov/services?id=3", "/services"},
		{"local file path", "/tmp/website_files/budget.pdf", ""},
		{"garbage", "::::", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, civsearch.SectionFromURL(tt.url))
		})
	}
}

func TestIsFileLink(t *testing.T) {
	t.Parallel()

	assert.True(t, civsearch.IsFileLink("https://example.gov/docs/budget.pdf"))
	assert.True(t, civsearch.IsFileLink("https://example.gov/minutes.DOCX"))
	assert.True(t, civsearch.IsFileLink("https://example.gov/data.csv?download=1"))
	assert.False(t, civsearch.IsFileLink("https://example.gov/permits/building"))
	assert.False(t, civsearch.IsFileLink("https://example.gov/report.pdf.txt"))
}

func TestIndexInfo_Validate(t *testing.T) {
	t.Parallel()

	info := civsearch.IndexInfo{Name: "docs", Description: "General site content", Domain: "general"}
	assert.NoError(t, info.Validate())

	missingName := civsearch.IndexInfo{Description: "x"}
	err := missingName.Validate()
	assert.Equal(t, civsearch.EINVALID, civsearch.ErrorCode(err))

	nameOnly := civsearch.IndexInfo{Name: "docs"}
	assert.NoError(t, nameOnly.Validate(), "description and domain are optional metadata")
}
