package emulation

// parameters accumulates the numeric parameters of a CSI or DCS
// sequence, remembering per position whether a value was actually
// supplied so defaults can be told apart from explicit zeros.
type parameters struct {
	items    []int
	supplied []bool
}

func newParams() *parameters {
	return &parameters{
		items:    make([]int, 0, maxParams),
		supplied: make([]bool, 0, maxParams),
	}
}

// put feeds one parameter byte: a digit extends the current value, a
// semicolon starts the next position.
func (p *parameters) put(b byte) {
	if b == ';' {
		if len(p.items) == 0 {
			p.append()
		}
		p.append()
		return
	}
	if len(p.items) == 0 {
		p.append()
	}
	i := len(p.items) - 1
	p.items[i] = p.items[i]*10 + int(b-'0')
	p.supplied[i] = true
}

func (p *parameters) append() {
	p.items = append(p.items, 0)
	p.supplied = append(p.supplied, false)
}

func (p *parameters) reset() {
	p.items = p.items[:0]
	p.supplied = p.supplied[:0]
}

func (p *parameters) count() int {
	return len(p.items)
}

// item returns the parameter at position i, or def when it is absent
// or was not explicitly supplied and equals zero.
func (p *parameters) item(i, def int) int {
	if i >= len(p.items) {
		return def
	}
	if p.items[i] == 0 && !p.supplied[i] {
		return def
	}
	return p.items[i]
}

// list returns the raw parameter values, for handlers like SGR that
// consume a variable-length list.
func (p *parameters) list() []int {
	return p.items
}
