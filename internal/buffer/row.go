package buffer

// Row is one line of the document: the raw bytes and their rendered form
// with tabs expanded to the next tab stop.
type Row struct {
	chars  []byte
	render []byte
}

// Chars returns the raw bytes. The slice must not be modified.
func (r *Row) Chars() []byte { return r.chars }

// Render returns the tab-expanded bytes. The slice must not be modified.
func (r *Row) Render() []byte { return r.render }

// Size is the raw length.
func (r *Row) Size() int { return len(r.chars) }

// RSize is the rendered length.
func (r *Row) RSize() int { return len(r.render) }

func (r *Row) update(tab int) {
	r.render = Render(r.chars, tab)
}

// Render expands tabs in chars to the next multiple of tab.
func Render(chars []byte, tab int) []byte {
	tabs := 0
	for _, c := range chars {
		if c == '\t' {
			tabs++
		}
	}
	out := make([]byte, 0, len(chars)+tabs*(tab-1))
	for _, c := range chars {
		if c != '\t' {
			out = append(out, c)
			continue
		}
		out = append(out, ' ')
		for len(out)%tab != 0 {
			out = append(out, ' ')
		}
	}
	return out
}

// CxToRx maps a raw column to the render column it displays at.
func CxToRx(chars []byte, cx, tab int) int {
	if cx > len(chars) {
		cx = len(chars)
	}
	rx := 0
	for _, c := range chars[:max(cx, 0)] {
		if c == '\t' {
			rx += (tab - 1) - (rx % tab)
		}
		rx++
	}
	return rx
}

// RxToCx maps a render column back to the raw column covering it.
// Columns past the end of the row map to the row length.
func RxToCx(chars []byte, rx, tab int) int {
	cur := 0
	for cx, c := range chars {
		if c == '\t' {
			cur += (tab - 1) - (cur % tab)
		}
		cur++
		if cur > rx {
			return cx
		}
	}
	return len(chars)
}
