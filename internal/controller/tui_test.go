package controller

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func pagerFixture(lines int) reportPagerModel {
	var b strings.Builder

	for i := 0; i < lines; i++ {
		b.WriteString("line\n")
	}

	model := newReportPagerModel(b.String())
	model.width = 80
	model.height = 10

	return model
}

func TestReportPagerModel_NeedsPagination(t *testing.T) {
	assert.False(t, pagerFixture(3).needsPagination())
	assert.True(t, pagerFixture(30).needsPagination())

	// Unknown terminal size never pages.
	model := newReportPagerModel("a\nb\nc")
	assert.False(t, model.needsPagination())
}

func TestReportPagerModel_Scrolling(t *testing.T) {
	model := pagerFixture(30)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model = updated.(reportPagerModel)
	assert.Equal(t, 1, model.offset)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	model = updated.(reportPagerModel)
	assert.Equal(t, 0, model.offset)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	model = updated.(reportPagerModel)
	assert.Equal(t, 0, model.offset, "offset never goes negative")

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	model = updated.(reportPagerModel)
	assert.Equal(t, model.maxOffset(), model.offset)
}

func TestReportPagerModel_QuitKeys(t *testing.T) {
	model := pagerFixture(30)

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	model = updated.(reportPagerModel)

	assert.True(t, model.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, model.View())
}

func TestReportPagerModel_WindowResizeClampsOffset(t *testing.T) {
	model := pagerFixture(30)
	model.offset = model.maxOffset()

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	model = updated.(reportPagerModel)

	assert.LessOrEqual(t, model.offset, model.maxOffset())
	assert.False(t, model.needsPagination())
}

func TestReportPagerModel_ViewShowsWindow(t *testing.T) {
	model := pagerFixture(30)
	view := model.View()

	assert.Contains(t, view, "1-8/30")
	assert.Contains(t, view, "q quit")
}
