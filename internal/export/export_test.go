package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/testutil"
)

func sampleLayout(t *testing.T) *service.Layout {
	t.Helper()
	d := testutil.Date
	repo := repository.NewMemoryTaskRepo(testutil.Forest(
		testutil.NewTestTask("R&D <core>", testutil.WithID("p"), testutil.WithType(domain.TaskTypeProject),
			testutil.WithDates(d(2025, 1, 6), d(2025, 1, 17)), testutil.WithProgress(50)),
		testutil.NewTestTask("Spike", testutil.WithID("s"), testutil.WithParent("p"),
			testutil.WithDates(d(2025, 1, 6), d(2025, 1, 8)),
			testutil.WithSecondaryDates(d(2025, 1, 7), d(2025, 1, 9))),
		testutil.NewTestTask("Demo", testutil.WithID("m"), testutil.WithParent("p"),
			testutil.WithType(domain.TaskTypeMilestone), testutil.WithDates(d(2025, 1, 17), d(2025, 1, 17))),
		domain.Task{ID: "u", Name: "Undated"},
	))
	layout, err := service.NewLayoutService(repo).Compute(context.Background(), service.LayoutRequest{
		Expanded: hierarchy.NewExpandedSet("p"),
		EndYear:  2025,
		Today:    d(2025, 1, 1),
	})
	require.NoError(t, err)
	return layout
}

func TestWriteSVG(t *testing.T) {
	layout := sampleLayout(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, layout, SVGOptions{Weeks: 6}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml`))
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg" width="1340" height="216"`)
	assert.Contains(t, out, "R&amp;D &lt;core&gt;", "task names are escaped")
	assert.Contains(t, out, "▾ R&amp;D")
	assert.Contains(t, out, ">December 2024<")
	assert.Contains(t, out, ">6 Jan<")
	assert.NotContains(t, out, ">10 Feb<", "weeks past the limit are not drawn")
	assert.Equal(t, 1, strings.Count(out, `class="milestone"`))
	assert.Equal(t, 1, strings.Count(out, `class="secondary"`))
	assert.Equal(t, 1, strings.Count(out, `class="progress"`))
	assert.Equal(t, 3, strings.Count(out, `class="bar"`))
	assert.Equal(t, 4, strings.Count(out, `<g data-id=`))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSVG_WriteError(t *testing.T) {
	err := WriteSVG(failingWriter{}, sampleLayout(t), SVGOptions{})
	assert.EqualError(t, err, "disk full")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleLayout(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"p", "R&D <core>", "0", "project", "2025-01-06", "2025-01-17", "12", "50", "300"}, records[1][:9])
	assert.True(t, strings.HasPrefix(records[1][9], "235.714"), records[1][9])
	assert.Equal(t, "1", records[2][2])
	assert.Equal(t, "milestone", records[3][3])
	assert.Equal(t, []string{"u", "Undated", "0", "task", "", "", "", "0", "0", "10"}, records[4])
}
