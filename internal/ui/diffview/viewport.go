package diffview

// viewport tracks which slice of the row list is visible. Only the visible
// rows are rendered each frame.
type viewport struct {
	offset int // first visible item
	height int // visible items
	total  int // items in content
}

func (v *viewport) setSize(height int) {
	v.height = max(height, 0)
	v.clamp()
}

func (v *viewport) setTotal(total int) {
	v.total = max(total, 0)
	v.clamp()
}

func (v *viewport) maxOffset() int {
	if v.total <= v.height {
		return 0
	}
	return v.total - v.height
}

func (v *viewport) clamp() {
	v.offset = max(0, min(v.offset, v.maxOffset()))
}

func (v *viewport) scroll(n int) {
	v.offset += n
	v.clamp()
}

func (v *viewport) top()    { v.offset = 0 }
func (v *viewport) bottom() { v.offset = v.maxOffset() }

// span returns the visible item range, end exclusive.
func (v *viewport) span() (start, end int) {
	return v.offset, min(v.offset+v.height, v.total)
}

// reveal scrolls so that item i sits about a third of the way down the
// viewport, keeping some context above it. Items already visible away from
// the edges do not move the view.
func (v *viewport) reveal(i int) {
	if i < 0 || i >= v.total {
		return
	}
	margin := v.height / 3
	if i >= v.offset+margin && i < v.offset+v.height-margin {
		return
	}
	v.offset = i - margin
	v.clamp()
}

func (v *viewport) bar() scrollbar {
	return scrollbar{total: v.total, height: v.height, offset: v.offset}
}
