// Package main is a development shell over the textstorm engine: a
// small REPL that wires configuration, logging, the buffer pool, the
// file watcher, Lua scripting, and session snapshots together.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/textstorm/internal/config"
	"github.com/dshills/textstorm/internal/engine/buffer"
	"github.com/dshills/textstorm/internal/engine/cursor"
	"github.com/dshills/textstorm/internal/engine/pool"
	"github.com/dshills/textstorm/internal/log"
	"github.com/dshills/textstorm/internal/script"
	"github.com/dshills/textstorm/internal/session"
	"github.com/dshills/textstorm/internal/watch"
)

var version = "dev"

func main() {
	os.Exit(run())
}

type shell struct {
	cfg     config.Config
	lg      *log.Logger
	pool    *pool.Pool
	current *buffer.Buffer
	engine  *script.Engine
	watcher watch.Watcher
	reader  *bufio.Reader
}

func run() int {
	var configPath string
	var showVersion bool
	flag.StringVar(&configPath, "config", "", "path to configuration file")
	flag.StringVar(&configPath, "c", "", "path to configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("textstorm %s\n", version)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := config.FromEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	lg, closeLog, err := buildLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	log.SetDefault(lg)

	sh := &shell{
		cfg: cfg,
		lg:  lg,
		pool: pool.New(
			pool.WithCapacity(cfg.Engine.DefaultCapacity),
			pool.WithBufferOptions(
				buffer.WithPageLines(cfg.Engine.PageLines),
				buffer.WithBulkThreshold(cfg.Engine.BulkThreshold),
			),
		),
		reader: bufio.NewReader(os.Stdin),
	}
	sh.engine = script.New(sh.pool, script.WithLogger(lg.WithComponent("script")))
	defer sh.engine.Close()

	if w, werr := watch.New(cfg.Watch); werr != nil {
		lg.Warn("file watching disabled: %v", werr)
	} else {
		sh.watcher = w
		defer func() { _ = w.Close() }()
		go sh.reportChanges()
	}

	if cfg.Session.Path != "" {
		sh.restoreSession()
	}

	fmt.Printf("textstorm %s - buffer engine shell\n", version)
	fmt.Println("Type 'help' for available commands, 'quit' to exit")

	for {
		fmt.Print("textstorm> ")
		input, rerr := sh.reader.ReadString('\n')
		if rerr != nil {
			fmt.Println()
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !sh.handle(input) {
			break
		}
	}

	if cfg.Session.Path != "" {
		sh.saveSession()
	}
	return 0
}

// buildLogger creates the shell logger, writing to the configured file
// when one is set.
func buildLogger(cfg config.LogConfig) (*log.Logger, func(), error) {
	lcfg := log.DefaultConfig()
	lcfg.Level = log.ParseLevel(cfg.Level)
	closeLog := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		lcfg.Output = f
		closeLog = func() { _ = f.Close() }
	}
	return log.New(lcfg), closeLog, nil
}

// reportChanges surfaces external file modifications. A buffer that is
// still pristine against the disk has simply been edited elsewhere;
// the warning lets the user decide.
func (sh *shell) reportChanges() {
	for ev := range sh.watcher.Events() {
		sh.lg.Warn("file changed on disk: %s (%s)", ev.Path, ev.Op)
	}
}

func (sh *shell) restoreSession() {
	s, err := session.Read(sh.cfg.Session.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			sh.lg.Warn("session restore: %v", err)
		}
		return
	}
	n := s.Restore(sh.pool, sh.lg)
	if n > 0 {
		fmt.Printf("restored %d buffer(s) from session\n", n)
	}
}

func (sh *shell) saveSession() {
	if sh.current != nil {
		_ = sh.pool.GiveBack(sh.current)
		sh.current = nil
	}
	s := session.Snapshot(sh.pool)
	if err := s.Write(sh.cfg.Session.Path); err != nil {
		sh.lg.Error("session save: %v", err)
	}
}

// handle runs one command line; it returns false to exit the loop.
func (sh *shell) handle(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "quit", "exit", "q":
		return false
	case "help":
		printHelp()
	case "new":
		sh.park()
		sh.current = sh.pool.RequestNew()
		sh.engine.SetCurrent(sh.current)
		fmt.Printf("buffer %d\n", sh.current.ID())
	case "open":
		sh.cmdOpen(args)
	case "save":
		sh.cmdSave(args)
	case "buffers":
		for _, id := range sh.pool.Live() {
			fmt.Println(id)
		}
	case "use":
		sh.cmdUse(args)
	case "show":
		if b := sh.need(); b != nil {
			fmt.Print(b.Text())
			if !strings.HasSuffix(b.Text(), "\n") {
				fmt.Println()
			}
		}
	case "info":
		if b := sh.need(); b != nil {
			fmt.Printf("%s %s pristine=%v\n", b, b.Metadata(), b.Pristine())
		}
	case "insert":
		sh.cmdInsert(input)
	case "del":
		sh.cmdDelete(args)
	case "move", "select":
		sh.cmdMove(cmd, args)
	case "goto":
		sh.cmdGoto(args)
	case "copy":
		if b := sh.need(); b != nil {
			text, err := b.CopyRangeOrLine()
			if err != nil {
				fmt.Printf("copy: %v\n", err)
				return true
			}
			fmt.Printf("%q\n", text)
		}
	case "search":
		if b := sh.need(); b != nil && len(args) > 0 {
			if !b.SearchNext(strings.Join(args, " ")) {
				fmt.Println("not found")
			} else {
				fmt.Println(b.Cursor())
			}
		}
	case "shiftl", "shiftr":
		sh.cmdShift(cmd, args)
	case "run":
		if len(args) != 1 {
			fmt.Println("usage: run <script.lua>")
			return true
		}
		if err := sh.engine.RunFile(args[0]); err != nil {
			fmt.Printf("run: %v\n", err)
		}
		sh.current = sh.engine.Current()
	default:
		fmt.Printf("unknown command %q; try 'help'\n", cmd)
	}
	return true
}

// need returns the current buffer or prints a hint.
func (sh *shell) need() *buffer.Buffer {
	if sh.current == nil {
		fmt.Println("no buffer; use 'new' or 'open <path>'")
		return nil
	}
	return sh.current
}

// park returns the current buffer to the pool before switching.
func (sh *shell) park() {
	if sh.current != nil {
		_ = sh.pool.GiveBack(sh.current)
		sh.current = nil
		sh.engine.SetCurrent(nil)
	}
}

func (sh *shell) cmdOpen(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: open <path>")
		return
	}
	sh.park()
	b := sh.pool.RequestNew()
	if err := b.LoadFile(args[0]); err != nil {
		fmt.Printf("open: %v\n", err)
		_ = sh.pool.Destroy(b)
		return
	}
	sh.current = b
	sh.engine.SetCurrent(b)
	if sh.watcher != nil {
		if err := sh.watcher.Watch(args[0]); err != nil && !errors.Is(err, watch.ErrAlreadyWatching) {
			sh.lg.Warn("watch %s: %v", args[0], err)
		}
	}
	fmt.Printf("buffer %d: %d chars, %d lines\n", b.ID(), b.Len(), b.Metadata().LineCount())
}

func (sh *shell) cmdSave(args []string) {
	b := sh.need()
	if b == nil {
		return
	}
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else if name, ok := b.FileName(); ok {
		path = name
	} else {
		fmt.Println("usage: save <path> (buffer has no file name)")
		return
	}
	err := b.SaveFile(path)
	switch {
	case errors.Is(err, buffer.ErrAlreadyPristine):
		fmt.Println("no changes to save")
	case err != nil:
		fmt.Printf("save: %v\n", err)
	default:
		fmt.Printf("saved %s\n", path)
		if sh.cfg.Session.Autosave && sh.cfg.Session.Path != "" {
			_ = sh.pool.GiveBack(b)
			s := session.Snapshot(sh.pool)
			if serr := s.Write(sh.cfg.Session.Path); serr != nil {
				sh.lg.Error("session autosave: %v", serr)
			}
			sh.current, _ = sh.pool.Take(b.ID())
		}
	}
}

func (sh *shell) cmdUse(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: use <id>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("usage: use <id>")
		return
	}
	b, err := sh.pool.Take(id)
	if err != nil {
		fmt.Printf("use: %v\n", err)
		return
	}
	sh.park()
	sh.current = b
	sh.engine.SetCurrent(b)
}

func (sh *shell) cmdInsert(input string) {
	b := sh.need()
	if b == nil {
		return
	}
	_, rest, found := strings.Cut(input, " ")
	if !found {
		fmt.Println("usage: insert <text> (\\n for newline)")
		return
	}
	text := strings.ReplaceAll(rest, `\n`, "\n")
	if err := b.InsertString(text); err != nil {
		fmt.Printf("insert: %v\n", err)
	}
}

func (sh *shell) cmdDelete(args []string) {
	b := sh.need()
	if b == nil {
		return
	}
	m, ok := parseMovement(args)
	if !ok {
		fmt.Println("usage: del <direction> <kind> [count]")
		return
	}
	removed, err := b.Delete(m)
	if err != nil {
		fmt.Printf("del: %v\n", err)
		return
	}
	fmt.Printf("removed %d\n", removed)
}

func (sh *shell) cmdMove(cmd string, args []string) {
	b := sh.need()
	if b == nil {
		return
	}
	m, ok := parseMovement(args)
	if !ok {
		fmt.Printf("usage: %s <direction> <kind> [count]\n", cmd)
		return
	}
	var err error
	if cmd == "select" {
		err = b.SelectMoveCursor(m)
	} else {
		err = b.MoveCursor(m)
	}
	if err != nil {
		fmt.Printf("%s: %v\n", cmd, err)
		return
	}
	fmt.Println(b.Cursor())
}

func (sh *shell) cmdGoto(args []string) {
	b := sh.need()
	if b == nil {
		return
	}
	if len(args) != 1 {
		fmt.Println("usage: goto <offset>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("usage: goto <offset>")
		return
	}
	if err := b.CursorGoto(cursor.Index(n)); err != nil {
		fmt.Printf("goto: %v\n", err)
		return
	}
	fmt.Println(b.Cursor())
}

func (sh *shell) cmdShift(cmd string, args []string) {
	b := sh.need()
	if b == nil {
		return
	}
	if len(args) != 3 {
		fmt.Printf("usage: %s <first> <last> <by>\n", cmd)
		return
	}
	nums := make([]int, 3)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			fmt.Printf("usage: %s <first> <last> <by>\n", cmd)
			return
		}
		nums[i] = n
	}
	var op buffer.LineOp
	if cmd == "shiftl" {
		op = buffer.ShiftLeft{By: nums[2]}
	} else {
		op = buffer.ShiftRight{By: nums[2]}
	}
	if err := b.LineOperation(cursor.Line(nums[0]), cursor.Line(nums[1]), op); err != nil {
		fmt.Printf("%s: %v\n", cmd, err)
	}
}

// parseMovement reads "<direction> <kind> [count]".
func parseMovement(args []string) (cursor.Movement, bool) {
	if len(args) < 2 {
		return cursor.Movement{}, false
	}
	dir, err := cursor.ParseDirection(args[0])
	if err != nil {
		return cursor.Movement{}, false
	}
	kind, err := cursor.ParseTextKind(args[1])
	if err != nil {
		return cursor.Movement{}, false
	}
	count := 1
	if len(args) > 2 {
		if count, err = strconv.Atoi(args[2]); err != nil {
			return cursor.Movement{}, false
		}
	}
	return cursor.NewMovement(dir, kind, count), true
}

func printHelp() {
	fmt.Println(`Commands:
  new                          create a fresh buffer
  open <path>                  load a file into a fresh buffer
  save [path]                  write the buffer (skipped when pristine)
  buffers                      list tracked buffer ids
  use <id>                     switch to a parked buffer
  show                         print the buffer contents
  info                         print buffer and line-index state
  insert <text>                insert at the cursor (\n for newline)
  del <dir> <kind> [count]     delete by movement
  move <dir> <kind> [count]    move the cursor
  select <dir> <kind> [count]  extend or start a selection
  goto <offset>                jump to an absolute offset
  copy                         print the selection or the current line
  search <pattern>             find the next occurrence
  shiftl <first> <last> <by>   remove leading indent over lines [first, last)
  shiftr <first> <last> <by>   insert indent over lines [first, last)
  run <script.lua>             execute a Lua script against the pool
  quit                         exit

Directions: forward backward begin end
Kinds:      char word line block page file`)
}
