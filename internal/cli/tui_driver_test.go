package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantt/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to the appModel internals
// (view stack, shared state, chart view) the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver loads path into app, builds the appModel at 140x30 and
// drains Init, which computes the first layout synchronously.
func NewTestDriver(t *testing.T, app *App, path string) *TestDriver {
	t.Helper()

	s, err := app.openSession(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	m := newAppModel(newSharedState(app, s))
	d := teatest.New(t, m, teatest.WithSize(140, 30))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	if v := m.activeView(); v != nil {
		return v.Title()
	}
	return ""
}

func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Chart returns the chart view at the bottom of the stack.
func (d *TestDriver) Chart() *ganttView {
	return d.appModel().viewStack[0].(*ganttView)
}

// RowIDs lists the ids of the visible rows in order.
func (d *TestDriver) RowIDs() []string {
	layout := d.Chart().layout
	if layout == nil {
		return nil
	}
	ids := make([]string, len(layout.Rows))
	for i, r := range layout.Rows {
		ids[i] = r.ID
	}
	return ids
}

// CurrentID returns the id of the row under the cursor.
func (d *TestDriver) CurrentID() string {
	r, _ := d.Chart().current()
	return r.ID
}

// PlainView renders the model without styling.
func (d *TestDriver) PlainView() string {
	return stripANSI(d.View())
}

// IsQuitting reports a quit from q, Ctrl+C or a tea.QuitMsg.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}
