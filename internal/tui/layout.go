package tui

// pageLayout splits the window between the document surface and the panels
// stacked under it.
type pageLayout struct {
	windowWidth   int
	windowHeight  int
	surfaceWidth  int
	surfaceHeight int
	panelHeight   int
	promptHeight  int
}

func newPageLayout() pageLayout {
	return pageLayout{
		surfaceWidth:  76,
		surfaceHeight: 12,
		panelHeight:   7,
		promptHeight:  6,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - surfaceHorizontalPadding
	if innerWidth < minSurfaceWidth {
		innerWidth = minSurfaceWidth
	}
	l.surfaceWidth = innerWidth

	// status bar, status line, info line and short help
	const chrome = 5
	l.panelHeight = 7
	if height < 24 {
		l.panelHeight = 4
	}
	l.surfaceHeight = height - chrome - l.panelHeight
	if l.surfaceHeight < 5 {
		l.surfaceHeight = 5
	}

	l.promptHeight = height / 3
	if l.promptHeight < 3 {
		l.promptHeight = 3
	}
	if l.promptHeight > 10 {
		l.promptHeight = 10
	}
}
