// Package script exposes the buffer engine to Lua. Scripts drive one
// current buffer through the same operations the shell uses: insert,
// delete, movement, selection, search, line shifts, and file I/O.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textstorm/internal/engine/buffer"
	"github.com/dshills/textstorm/internal/engine/cursor"
	"github.com/dshills/textstorm/internal/engine/pool"
	"github.com/dshills/textstorm/internal/log"
)

// Engine owns a Lua state with the buffer module registered. Like the
// buffers it drives, an Engine belongs to one caller at a time.
type Engine struct {
	l       *lua.LState
	pool    *pool.Pool
	current *buffer.Buffer
	lg      *log.Logger
}

// Option configures an engine at construction time.
type Option func(*Engine)

// WithLogger sets the logger scripts report through.
func WithLogger(lg *log.Logger) Option {
	return func(e *Engine) {
		if lg != nil {
			e.lg = lg
		}
	}
}

// New creates a script engine over the given pool and registers the
// buffer module into a fresh Lua state.
func New(p *pool.Pool, opts ...Option) *Engine {
	e := &Engine{
		l:    lua.NewState(),
		pool: p,
		lg:   log.Null,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.register()
	return e
}

// Close releases the Lua state. The current buffer, if any, stays
// checked out; the caller decides its fate.
func (e *Engine) Close() {
	e.l.Close()
}

// Current returns the buffer scripts are operating on, nil when no
// buffer has been selected or created.
func (e *Engine) Current() *buffer.Buffer {
	return e.current
}

// SetCurrent points scripts at an already checked-out buffer.
func (e *Engine) SetCurrent(b *buffer.Buffer) {
	e.current = b
}

// RunFile executes the Lua script at path.
func (e *Engine) RunFile(path string) error {
	if err := e.l.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// RunString executes Lua source directly.
func (e *Engine) RunString(src string) error {
	if err := e.l.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// register installs the buffer module as a global table.
func (e *Engine) register() {
	mod := e.l.NewTable()

	e.l.SetField(mod, "new", e.l.NewFunction(e.luaNew))
	e.l.SetField(mod, "id", e.l.NewFunction(e.luaID))
	e.l.SetField(mod, "text", e.l.NewFunction(e.luaText))
	e.l.SetField(mod, "len", e.l.NewFunction(e.luaLen))
	e.l.SetField(mod, "line_count", e.l.NewFunction(e.luaLineCount))
	e.l.SetField(mod, "pos", e.l.NewFunction(e.luaPos))
	e.l.SetField(mod, "line", e.l.NewFunction(e.luaLine))
	e.l.SetField(mod, "col", e.l.NewFunction(e.luaCol))
	e.l.SetField(mod, "insert", e.l.NewFunction(e.luaInsert))
	e.l.SetField(mod, "delete", e.l.NewFunction(e.luaDelete))
	e.l.SetField(mod, "move", e.l.NewFunction(e.luaMove))
	e.l.SetField(mod, "select_move", e.l.NewFunction(e.luaSelectMove))
	e.l.SetField(mod, "goto_pos", e.l.NewFunction(e.luaGotoPos))
	e.l.SetField(mod, "copy", e.l.NewFunction(e.luaCopy))
	e.l.SetField(mod, "search", e.l.NewFunction(e.luaSearch))
	e.l.SetField(mod, "shift_left", e.l.NewFunction(e.luaShiftLeft))
	e.l.SetField(mod, "shift_right", e.l.NewFunction(e.luaShiftRight))
	e.l.SetField(mod, "load", e.l.NewFunction(e.luaLoad))
	e.l.SetField(mod, "save", e.l.NewFunction(e.luaSave))

	e.l.SetGlobal("buffer", mod)
}

// need returns the current buffer or raises a Lua error.
func (e *Engine) need(L *lua.LState) *buffer.Buffer {
	if e.current == nil {
		L.RaiseError("no current buffer; call buffer.new() or load one first")
		return nil
	}
	return e.current
}

// checkMovement reads a (direction, kind, count) argument triple.
func checkMovement(L *lua.LState, base int) cursor.Movement {
	dir, err := cursor.ParseDirection(L.CheckString(base))
	if err != nil {
		L.ArgError(base, err.Error())
	}
	kind, err := cursor.ParseTextKind(L.CheckString(base + 1))
	if err != nil {
		L.ArgError(base+1, err.Error())
	}
	count := L.OptInt(base+2, 1)
	return cursor.NewMovement(dir, kind, count)
}

// new() -> id
// Creates a fresh buffer from the pool and makes it current.
func (e *Engine) luaNew(L *lua.LState) int {
	b := e.pool.RequestNew()
	e.current = b
	e.lg.Debug("script created buffer %d", b.ID())
	L.Push(lua.LNumber(b.ID()))
	return 1
}

// id() -> number
func (e *Engine) luaID(L *lua.LState) int {
	b := e.need(L)
	L.Push(lua.LNumber(b.ID()))
	return 1
}

// text() -> string
func (e *Engine) luaText(L *lua.LState) int {
	b := e.need(L)
	L.Push(lua.LString(b.Text()))
	return 1
}

// len() -> number
func (e *Engine) luaLen(L *lua.LState) int {
	b := e.need(L)
	L.Push(lua.LNumber(b.Len()))
	return 1
}

// line_count() -> number
func (e *Engine) luaLineCount(L *lua.LState) int {
	b := e.need(L)
	L.Push(lua.LNumber(b.Metadata().LineCount()))
	return 1
}

// pos() -> number (zero-based absolute offset)
func (e *Engine) luaPos(L *lua.LState) int {
	b := e.need(L)
	L.Push(lua.LNumber(b.Cursor().Pos()))
	return 1
}

// line() -> number (zero-based)
func (e *Engine) luaLine(L *lua.LState) int {
	b := e.need(L)
	L.Push(lua.LNumber(b.Cursor().Row()))
	return 1
}

// col() -> number (zero-based)
func (e *Engine) luaCol(L *lua.LState) int {
	b := e.need(L)
	L.Push(lua.LNumber(b.Cursor().Col()))
	return 1
}

// insert(text)
// Inserts text at the cursor.
func (e *Engine) luaInsert(L *lua.LState) int {
	text := L.CheckString(1)
	b := e.need(L)
	if err := b.InsertString(text); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// delete(direction, kind [, count]) -> removed
func (e *Engine) luaDelete(L *lua.LState) int {
	m := checkMovement(L, 1)
	b := e.need(L)
	removed, err := b.Delete(m)
	if err != nil {
		L.RaiseError("delete: %v", err)
	}
	L.Push(lua.LNumber(removed))
	return 1
}

// move(direction, kind [, count])
func (e *Engine) luaMove(L *lua.LState) int {
	m := checkMovement(L, 1)
	b := e.need(L)
	if err := b.MoveCursor(m); err != nil {
		L.RaiseError("move: %v", err)
	}
	return 0
}

// select_move(direction, kind [, count])
func (e *Engine) luaSelectMove(L *lua.LState) int {
	m := checkMovement(L, 1)
	b := e.need(L)
	if err := b.SelectMoveCursor(m); err != nil {
		L.RaiseError("select_move: %v", err)
	}
	return 0
}

// goto_pos(offset)
func (e *Engine) luaGotoPos(L *lua.LState) int {
	offset := L.CheckInt(1)
	if offset < 0 {
		L.ArgError(1, "offset must be non-negative")
	}
	b := e.need(L)
	if err := b.CursorGoto(cursor.Index(offset)); err != nil {
		L.RaiseError("goto_pos: %v", err)
	}
	return 0
}

// copy() -> string
// Returns the selection, or the current line when none is active.
func (e *Engine) luaCopy(L *lua.LState) int {
	b := e.need(L)
	text, err := b.CopyRangeOrLine()
	if err != nil {
		L.RaiseError("copy: %v", err)
	}
	L.Push(lua.LString(text))
	return 1
}

// search(pattern) -> found
func (e *Engine) luaSearch(L *lua.LState) int {
	pattern := L.CheckString(1)
	b := e.need(L)
	L.Push(lua.LBool(b.SearchNext(pattern)))
	return 1
}

// shift_left(first_line, last_line, by)
// Lines are zero-based; last_line is exclusive.
func (e *Engine) luaShiftLeft(L *lua.LState) int {
	begin := L.CheckInt(1)
	end := L.CheckInt(2)
	by := L.CheckInt(3)
	b := e.need(L)
	if err := b.LineOperation(cursor.Line(begin), cursor.Line(end), buffer.ShiftLeft{By: by}); err != nil {
		L.RaiseError("shift_left: %v", err)
	}
	return 0
}

// shift_right(first_line, last_line, by)
// Lines are zero-based; last_line is exclusive.
func (e *Engine) luaShiftRight(L *lua.LState) int {
	begin := L.CheckInt(1)
	end := L.CheckInt(2)
	by := L.CheckInt(3)
	b := e.need(L)
	if err := b.LineOperation(cursor.Line(begin), cursor.Line(end), buffer.ShiftRight{By: by}); err != nil {
		L.RaiseError("shift_right: %v", err)
	}
	return 0
}

// load(path)
func (e *Engine) luaLoad(L *lua.LState) int {
	path := L.CheckString(1)
	b := e.need(L)
	if err := b.LoadFile(path); err != nil {
		L.RaiseError("load: %v", err)
	}
	return 0
}

// save(path)
func (e *Engine) luaSave(L *lua.LState) int {
	path := L.CheckString(1)
	b := e.need(L)
	if err := b.SaveFile(path); err != nil {
		L.RaiseError("save: %v", err)
	}
	return 0
}
