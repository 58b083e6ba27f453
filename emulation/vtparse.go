package emulation

// The parser follows Paul Williams' DEC ANSI-compatible state chart:
// fourteen states with per-state entry and exit actions and a
// transition table covering every byte. The table is built once at
// init from the range rules below rather than spelled out literally.

type pState uint8

const (
	stateNone pState = iota
	stateGround
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateOscString
	stateSosPmApc
)

type pAction uint8

const (
	actionNop pAction = iota
	actionIgnore
	actionPrint
	actionExecute
	actionClear
	actionCollect
	actionParam
	actionEscDispatch
	actionCsiDispatch
	actionHook
	actionPut
	actionUnhook
	actionOscStart
	actionOscPut
	actionOscEnd
	actionError
)

type transition uint8

func newTransition(a pAction, s pState) transition {
	return transition(uint8(a)<<4 | uint8(s))
}

func (t transition) state() pState {
	return pState(t & 0x0f)
}

func (t transition) action() pAction {
	return pAction(t >> 4)
}

var (
	stateTable   [stateSosPmApc + 1][256]transition
	entryActions [stateSosPmApc + 1]pAction
	exitActions  [stateSosPmApc + 1]pAction
)

// tr sets the transition for bytes [lo, hi] in state s.
func tr(s pState, lo, hi int, act pAction, next pState) {
	for b := lo; b <= hi; b++ {
		stateTable[s][b] = newTransition(act, next)
	}
}

// trC0 installs the common C0 handling for a state: most controls
// execute immediately, except the ones the anywhere rules own.
func trC0(s pState, act pAction) {
	tr(s, 0x00, 0x17, act, stateNone)
	tr(s, 0x19, 0x19, act, stateNone)
	tr(s, 0x1c, 0x1f, act, stateNone)
}

func init() {
	entryActions[stateEscape] = actionClear
	entryActions[stateCsiEntry] = actionClear
	entryActions[stateDcsEntry] = actionClear
	entryActions[stateDcsPassthrough] = actionHook
	entryActions[stateOscString] = actionOscStart
	exitActions[stateDcsPassthrough] = actionUnhook
	exitActions[stateOscString] = actionOscEnd

	for s := stateGround; s <= stateSosPmApc; s++ {
		// The anywhere rules: CAN/SUB abort, ESC restarts, and
		// the C1 controls map onto their 7-bit equivalents.
		tr(s, 0x18, 0x18, actionExecute, stateGround)
		tr(s, 0x1a, 0x1a, actionExecute, stateGround)
		tr(s, 0x1b, 0x1b, actionNop, stateEscape)
		tr(s, 0x80, 0x8f, actionExecute, stateGround)
		tr(s, 0x90, 0x90, actionNop, stateDcsEntry)
		tr(s, 0x91, 0x97, actionExecute, stateGround)
		tr(s, 0x98, 0x98, actionNop, stateSosPmApc)
		tr(s, 0x99, 0x9a, actionExecute, stateGround)
		tr(s, 0x9b, 0x9b, actionNop, stateCsiEntry)
		tr(s, 0x9c, 0x9c, actionNop, stateGround)
		tr(s, 0x9d, 0x9d, actionNop, stateOscString)
		tr(s, 0x9e, 0x9f, actionNop, stateSosPmApc)
	}

	trC0(stateGround, actionExecute)
	tr(stateGround, 0x20, 0x7f, actionPrint, stateNone)
	tr(stateGround, 0xa0, 0xff, actionPrint, stateNone)

	trC0(stateEscape, actionExecute)
	tr(stateEscape, 0x20, 0x2f, actionCollect, stateEscapeIntermediate)
	tr(stateEscape, 0x30, 0x4f, actionEscDispatch, stateGround)
	tr(stateEscape, 0x50, 0x50, actionNop, stateDcsEntry)
	tr(stateEscape, 0x51, 0x57, actionEscDispatch, stateGround)
	tr(stateEscape, 0x58, 0x58, actionNop, stateSosPmApc)
	tr(stateEscape, 0x59, 0x5a, actionEscDispatch, stateGround)
	tr(stateEscape, 0x5b, 0x5b, actionNop, stateCsiEntry)
	tr(stateEscape, 0x5c, 0x5c, actionEscDispatch, stateGround)
	tr(stateEscape, 0x5d, 0x5d, actionNop, stateOscString)
	tr(stateEscape, 0x5e, 0x5f, actionNop, stateSosPmApc)
	tr(stateEscape, 0x60, 0x7e, actionEscDispatch, stateGround)
	tr(stateEscape, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateEscapeIntermediate, actionExecute)
	tr(stateEscapeIntermediate, 0x20, 0x2f, actionCollect, stateNone)
	tr(stateEscapeIntermediate, 0x30, 0x7e, actionEscDispatch, stateGround)
	tr(stateEscapeIntermediate, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateCsiEntry, actionExecute)
	tr(stateCsiEntry, 0x20, 0x2f, actionCollect, stateCsiIntermediate)
	tr(stateCsiEntry, 0x30, 0x39, actionParam, stateCsiParam)
	tr(stateCsiEntry, 0x3a, 0x3a, actionNop, stateCsiIgnore)
	tr(stateCsiEntry, 0x3b, 0x3b, actionParam, stateCsiParam)
	tr(stateCsiEntry, 0x3c, 0x3f, actionCollect, stateCsiParam)
	tr(stateCsiEntry, 0x40, 0x7e, actionCsiDispatch, stateGround)
	tr(stateCsiEntry, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateCsiParam, actionExecute)
	tr(stateCsiParam, 0x20, 0x2f, actionCollect, stateCsiIntermediate)
	tr(stateCsiParam, 0x30, 0x39, actionParam, stateNone)
	tr(stateCsiParam, 0x3a, 0x3a, actionNop, stateCsiIgnore)
	tr(stateCsiParam, 0x3b, 0x3b, actionParam, stateNone)
	tr(stateCsiParam, 0x3c, 0x3f, actionNop, stateCsiIgnore)
	tr(stateCsiParam, 0x40, 0x7e, actionCsiDispatch, stateGround)
	tr(stateCsiParam, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateCsiIntermediate, actionExecute)
	tr(stateCsiIntermediate, 0x20, 0x2f, actionCollect, stateNone)
	tr(stateCsiIntermediate, 0x30, 0x3f, actionNop, stateCsiIgnore)
	tr(stateCsiIntermediate, 0x40, 0x7e, actionCsiDispatch, stateGround)
	tr(stateCsiIntermediate, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateCsiIgnore, actionExecute)
	tr(stateCsiIgnore, 0x20, 0x3f, actionIgnore, stateNone)
	tr(stateCsiIgnore, 0x40, 0x7e, actionNop, stateGround)
	tr(stateCsiIgnore, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateDcsEntry, actionIgnore)
	tr(stateDcsEntry, 0x20, 0x2f, actionCollect, stateDcsIntermediate)
	tr(stateDcsEntry, 0x30, 0x39, actionParam, stateDcsParam)
	tr(stateDcsEntry, 0x3a, 0x3a, actionNop, stateDcsIgnore)
	tr(stateDcsEntry, 0x3b, 0x3b, actionParam, stateDcsParam)
	tr(stateDcsEntry, 0x3c, 0x3f, actionCollect, stateDcsParam)
	tr(stateDcsEntry, 0x40, 0x7e, actionNop, stateDcsPassthrough)
	tr(stateDcsEntry, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateDcsParam, actionIgnore)
	tr(stateDcsParam, 0x20, 0x2f, actionCollect, stateDcsIntermediate)
	tr(stateDcsParam, 0x30, 0x39, actionParam, stateNone)
	tr(stateDcsParam, 0x3a, 0x3a, actionNop, stateDcsIgnore)
	tr(stateDcsParam, 0x3b, 0x3b, actionParam, stateNone)
	tr(stateDcsParam, 0x3c, 0x3f, actionNop, stateDcsIgnore)
	tr(stateDcsParam, 0x40, 0x7e, actionNop, stateDcsPassthrough)
	tr(stateDcsParam, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateDcsIntermediate, actionIgnore)
	tr(stateDcsIntermediate, 0x20, 0x2f, actionCollect, stateNone)
	tr(stateDcsIntermediate, 0x30, 0x3f, actionNop, stateDcsIgnore)
	tr(stateDcsIntermediate, 0x40, 0x7e, actionNop, stateDcsPassthrough)
	tr(stateDcsIntermediate, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateDcsPassthrough, actionPut)
	tr(stateDcsPassthrough, 0x20, 0x7e, actionPut, stateNone)
	tr(stateDcsPassthrough, 0x7f, 0x7f, actionIgnore, stateNone)

	trC0(stateDcsIgnore, actionIgnore)
	tr(stateDcsIgnore, 0x20, 0x7f, actionIgnore, stateNone)

	trC0(stateOscString, actionIgnore)
	// xterm extension: BEL terminates an OSC string.
	tr(stateOscString, 0x07, 0x07, actionNop, stateGround)
	tr(stateOscString, 0x20, 0x7f, actionOscPut, stateNone)
	tr(stateOscString, 0xa0, 0xff, actionOscPut, stateNone)

	trC0(stateSosPmApc, actionIgnore)
	tr(stateSosPmApc, 0x20, 0x7f, actionIgnore, stateNone)
}

// dispatcher receives the parser's events: printable codepoints and
// control/sequence actions with their accumulated parameters,
// intermediate bytes and final byte.
type dispatcher interface {
	print(r rune)
	handle(act pAction, params *parameters, intermediates []byte, last byte)
}

type parser struct {
	state        pState
	d            dispatcher
	params       *parameters
	intermediate []byte
	oscTemp      []rune
}

func newParser(d dispatcher) *parser {
	return &parser{
		state:        stateGround,
		d:            d,
		params:       newParams(),
		intermediate: make([]byte, 0, maxIntermediates),
	}
}

// parseRune short-circuits decoded non-ASCII codepoints straight to
// print when the parser is between sequences.
func (p *parser) parseRune(r rune) {
	switch p.state {
	case stateGround:
		p.d.print(r)
	case stateOscString:
		p.oscTemp = append(p.oscTemp, r)
	}
}

func (p *parser) parseByte(b byte) {
	p.stateChange(stateTable[p.state][b], b)
}

func (p *parser) action(act pAction, b byte) {
	switch act {
	case actionPrint:
		p.d.print(rune(b))
	case actionExecute, actionHook, actionPut, actionUnhook,
		actionCsiDispatch, actionEscDispatch:
		p.d.handle(act, p.params, p.intermediate, b)
	case actionOscStart:
		p.oscTemp = p.oscTemp[:0]
	case actionOscPut:
		p.oscTemp = append(p.oscTemp, rune(b))
	case actionOscEnd:
		p.d.handle(act, p.params, p.intermediate, b)
	case actionIgnore, actionNop:
	case actionCollect:
		if len(p.intermediate) >= maxIntermediates {
			p.state = ignoreStateFor(p.state)
			return
		}
		p.intermediate = append(p.intermediate, b)
	case actionParam:
		if p.params.count() >= maxParams {
			p.state = stateCsiIgnore
			return
		}
		p.params.put(b)
	case actionClear:
		p.intermediate = p.intermediate[:0]
		p.params.reset()
	default:
		p.d.handle(actionError, nil, nil, 0)
	}
}

// ignoreStateFor maps an accumulating state to its ignore state when
// a cap is exceeded.
func ignoreStateFor(s pState) pState {
	switch s {
	case stateDcsEntry, stateDcsParam, stateDcsIntermediate:
		return stateDcsIgnore
	}
	return stateCsiIgnore
}

func (p *parser) stateChange(t transition, b byte) {
	newState := t.state()
	act := t.action()

	if newState != stateNone {
		if exit := exitActions[p.state]; exit != actionNop {
			p.action(exit, b)
		}
		if act != actionNop {
			p.action(act, b)
		}
		if enter := entryActions[newState]; enter != actionNop {
			p.action(enter, b)
		}
		p.state = newState
	} else if act != actionNop {
		p.action(act, b)
	}
}

// oscString returns the accumulated OSC payload.
func (p *parser) oscString() string {
	return string(p.oscTemp)
}
