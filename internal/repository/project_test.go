package repository

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow отдаёт значения в порядке projectColumns.
type fakeRow struct{ vals []any }

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		if r.vals[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

func projectRow(langs, topics, tech, pct []byte) fakeRow {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return fakeRow{vals: []any{
		int64(1), int64(42), "site", "desc",
		nil, nil, nil,
		langs, topics, tech,
		"frontend", true, false, "https://github.com/octo/site", "/server.png",
		pct, now, now,
	}}
}

func TestScanProject_DecodesJSONColumns(t *testing.T) {
	p, err := scanProject(projectRow(
		[]byte(`["Go","HTML"]`),
		[]byte(`["api"]`),
		[]byte(`["api","go"]`),
		[]byte(`{"Go":90,"HTML":10}`),
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "HTML"}, p.Languages)
	assert.Equal(t, []string{"api"}, p.Topics)
	assert.Equal(t, []string{"api", "go"}, p.Technologies)
	assert.Equal(t, map[string]int{"Go": 90, "HTML": 10}, p.LanguagePercentages)
}

func TestScanProject_NullJSONColumnsStayEmpty(t *testing.T) {
	p, err := scanProject(projectRow(nil, nil, nil, nil))
	require.NoError(t, err)
	assert.Empty(t, p.Languages)
	assert.Empty(t, p.LanguagePercentages)
}

func TestScanProject_CorruptJSONIsAnError(t *testing.T) {
	_, err := scanProject(projectRow(
		[]byte(`["Go"]`),
		[]byte(`["api"]`),
		[]byte(`{not json`),
		[]byte(`{}`),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "technologies")
}
