package core

import (
	"strings"
	"testing"

	"github.com/huangsam/cigate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJUnit(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want schema.TestSuiteRecord
	}{
		{
			name: "single suite",
			doc:  `<?xml version="1.0"?><testsuite name="unit" tests="10" failures="1" errors="0" skipped="2"><testcase name="a"/></testsuite>`,
			want: schema.TestSuiteRecord{Tests: 10, Failures: 1, Errors: 0, Skipped: 2},
		},
		{
			name: "collection of suites",
			doc: `<testsuites>
  <testsuite tests="5" failures="0"/>
  <testsuite tests="3" failures="1"><testcase name="x"><failure/></testcase></testsuite>
</testsuites>`,
			want: schema.TestSuiteRecord{Tests: 8, Failures: 1},
		},
		{
			name: "collection ignores its own counts",
			doc:  `<testsuites tests="100" failures="9"><testsuite tests="2"/></testsuites>`,
			want: schema.TestSuiteRecord{Tests: 2},
		},
		{
			name: "nested suites below the first level are not counted",
			doc:  `<testsuites><testsuite tests="2"><testsuite tests="50"/></testsuite></testsuites>`,
			want: schema.TestSuiteRecord{Tests: 2},
		},
		{
			name: "non-suite children of a collection are ignored",
			doc:  `<testsuites><properties><property name="a" value="b"/></properties><testsuite tests="4" errors="1"/></testsuites>`,
			want: schema.TestSuiteRecord{Tests: 4, Errors: 1},
		},
		{
			name: "missing attributes count as zero",
			doc:  `<testsuite name="empty"/>`,
			want: schema.TestSuiteRecord{},
		},
		{
			name: "non-numeric and negative attributes count as zero",
			doc:  `<testsuite tests="abc" failures="-3" errors="" skipped="1.5"/>`,
			want: schema.TestSuiteRecord{},
		},
		{
			name: "whitespace around numbers is tolerated",
			doc:  `<testsuite tests=" 7 " skipped="1"/>`,
			want: schema.TestSuiteRecord{Tests: 7, Skipped: 1},
		},
		{
			name: "unknown root counts as zero",
			doc:  `<coverage line-rate="0.5"><testsuite tests="3"/></coverage>`,
			want: schema.TestSuiteRecord{},
		},
		{
			name: "comments around the root are allowed",
			doc:  "<!-- generated --><testsuite tests=\"1\"/>\n<!-- end -->\n",
			want: schema.TestSuiteRecord{Tests: 1},
		},
		{
			name: "utf-8 byte order mark before the prolog",
			doc:  "\xEF\xBB\xBF<?xml version=\"1.0\" encoding=\"utf-8\"?><testsuite tests=\"3\" failures=\"1\"/>",
			want: schema.TestSuiteRecord{Tests: 3, Failures: 1},
		},
		{
			name: "utf-8 byte order mark without a prolog",
			doc:  "\xEF\xBB\xBF<testsuites><testsuite tests=\"2\"/></testsuites>",
			want: schema.TestSuiteRecord{Tests: 2},
		},
		{
			name: "latin-1 declared encoding",
			doc:  "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><testsuite name=\"caf\xe9\" tests=\"4\" errors=\"1\"/>",
			want: schema.TestSuiteRecord{Tests: 4, Errors: 1},
		},
		{
			name: "us-ascii declared encoding",
			doc:  `<?xml version="1.0" encoding="US-ASCII"?><testsuite tests="6" skipped="2"/>`,
			want: schema.TestSuiteRecord{Tests: 6, Skipped: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJUnit(strings.NewReader(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJUnitErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"whitespace only", "  \n"},
		{"unclosed root", `<testsuite tests="1">`},
		{"mismatched tags", `<testsuite tests="1"></testsuites>`},
		{"not xml", "this is not xml"},
		{"second root element", `<testsuite tests="1"/><testsuite tests="2"/>`},
		{"trailing text", `<testsuite tests="1"/>garbage`},
		{"unknown declared encoding", `<?xml version="1.0" encoding="klingon"?><testsuite tests="1"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJUnit(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 0, parseCount(""))
	assert.Equal(t, 0, parseCount("x"))
	assert.Equal(t, 0, parseCount("-1"))
	assert.Equal(t, 42, parseCount("42"))
}
