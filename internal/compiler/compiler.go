package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/lower"
	"github.com/roach88/jutus/internal/store"
	"github.com/roach88/jutus/internal/target"
)

// Recorder persists translation runs. *store.Store implements it.
type Recorder interface {
	WriteTranslation(ctx context.Context, t store.Translation) (bool, error)
	MaxSeq(ctx context.Context) (int64, error)
}

// Result is a successful translation.
type Result struct {
	RunID      string
	Seq        int64
	Source     Source
	IR         ir.Node
	IRHash     string
	Module     *target.Module
	ModuleHash string
	// Recorded is true when the run added a row to the store. It is false
	// without a store and for repeats of an already recorded translation.
	Recorded bool
	// Warnings lists the approximate lowering rules that applied.
	Warnings []ValidationError
}

// Compiler runs translations. It is safe for concurrent use once built.
type Compiler struct {
	frontends map[Language]Frontend
	backend   Backend
	lowerer   *lower.Lowerer
	recorder  Recorder
	runIDs    RunIDGenerator
	logger    *slog.Logger

	clockOnce sync.Once
	clock     SeqClock
	clockErr  error
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithFrontend registers fe for lang, replacing any previous frontend.
func WithFrontend(lang Language, fe Frontend) Option {
	return func(c *Compiler) {
		c.frontends[lang] = fe
	}
}

// WithBackend sets the backend stage.
func WithBackend(b Backend) Option {
	return func(c *Compiler) {
		c.backend = b
	}
}

// WithLowering sets the lowering options.
func WithLowering(opts lower.Options) Option {
	return func(c *Compiler) {
		c.lowerer = lower.New(opts)
	}
}

// WithRecorder records every translation, successful or not.
func WithRecorder(r Recorder) Option {
	return func(c *Compiler) {
		c.recorder = r
	}
}

// WithRunIDs sets the run id generator. Default: UUIDv7Generator.
func WithRunIDs(g RunIDGenerator) Option {
	return func(c *Compiler) {
		c.runIDs = g
	}
}

// WithClock sets the sequence clock. Without it the clock resumes after the
// recorder's highest seq on first use.
func WithClock(clock SeqClock) Option {
	return func(c *Compiler) {
		c.clock = clock
	}
}

// WithLogger sets the logger. Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = l
	}
}

// New creates a Compiler. The IR document frontend is registered for LangIR.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		frontends: map[Language]Frontend{LangIR: IRDocumentFrontend{}},
		lowerer:   lower.New(lower.DefaultOptions()),
		runIDs:    UUIDv7Generator{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options returns the lowering options in effect.
func (c *Compiler) Options() lower.Options {
	return c.lowerer.Options()
}

// ModuleName returns the module name for a source: its script path, which
// must be non-empty valid UTF-8.
func ModuleName(src Source) (string, error) {
	if src.ScriptPath == "" {
		return "", fmt.Errorf("%w: empty script path", ErrBadFilename)
	}
	if !utf8.ValidString(src.ScriptPath) {
		return "", fmt.Errorf("%w: script path %q is not valid UTF-8", ErrBadFilename, src.ScriptPath)
	}
	return src.ScriptPath, nil
}

// Translate runs the whole pipeline for src. It either returns a complete
// module or an *Error naming the failed stage.
func (c *Compiler) Translate(ctx context.Context, src Source) (*Result, error) {
	res, err := c.translate(ctx, src)
	if c.recorder == nil {
		return res, err
	}

	rerr := c.record(ctx, src, res, err)
	if err != nil {
		if rerr != nil {
			c.logger.Warn("failed to record translation error", "script", src.ScriptName, "error", rerr)
		}
		return nil, err
	}
	if rerr != nil {
		return nil, &Error{Stage: StageRecord, Script: src.ScriptName, Err: rerr}
	}
	return res, nil
}

// Parse runs only the filename and frontend stages.
func (c *Compiler) Parse(ctx context.Context, src Source) (ir.Node, error) {
	_, node, err := c.parse(ctx, src, c.logger.With("script", src.ScriptName, "lang", string(src.Lang)))
	return node, err
}

func (c *Compiler) parse(ctx context.Context, src Source, log *slog.Logger) (string, ir.Node, error) {
	name, err := ModuleName(src)
	if err != nil {
		return "", nil, c.fail(log, StageFilename, src, err)
	}

	fe, ok := c.frontends[src.Lang]
	if !ok {
		return "", nil, c.fail(log, StageParse, src, fmt.Errorf("%w for %q", ErrNoFrontend, src.Lang))
	}
	if err := ctx.Err(); err != nil {
		return "", nil, c.fail(log, StageParse, src, err)
	}
	node, err := fe.Parse(ctx, src)
	if err != nil {
		return "", nil, c.fail(log, StageParse, src, err)
	}
	if node == nil {
		return "", nil, c.fail(log, StageIR, src, errors.New("frontend produced no IR"))
	}
	log.Debug("parsed", "layer", node.Layer().String())
	return name, node, nil
}

func (c *Compiler) translate(ctx context.Context, src Source) (*Result, error) {
	log := c.logger.With("script", src.ScriptName, "lang", string(src.Lang))

	name, node, err := c.parse(ctx, src, log)
	if err != nil {
		return nil, err
	}

	irHash, err := ir.Fingerprint(node)
	if err != nil {
		return nil, c.fail(log, StageIR, src, err)
	}

	mod, err := c.lowerModule(name, node)
	if err != nil {
		return nil, c.fail(log, StageLower, src, err)
	}
	log.Debug("lowered", "definitions", len(mod.Definitions))

	if c.backend != nil {
		if err := ctx.Err(); err != nil {
			return nil, c.fail(log, StageBackend, src, err)
		}
		if err := c.backend.Check(ctx, mod); err != nil {
			return nil, c.fail(log, StageBackend, src, err)
		}
		log.Debug("backend accepted module")
	}

	modHash, err := target.Fingerprint(mod)
	if err != nil {
		return nil, c.fail(log, StageLower, src, err)
	}

	return &Result{
		Source:     src,
		IR:         node,
		IRHash:     irHash,
		Module:     mod,
		ModuleHash: modHash,
		Warnings:   Warnings(Validate(node, c.Options())),
	}, nil
}

// LowerIR runs only the lowering and assembly stages.
func (c *Compiler) LowerIR(name string, node ir.Node) (*target.Module, error) {
	mod, err := c.lowerModule(name, node)
	if err != nil {
		return nil, stageError(StageLower, name, err)
	}
	return mod, nil
}

func (c *Compiler) lowerModule(name string, node ir.Node) (*target.Module, error) {
	f, err := c.lowerer.Lower(node)
	if err != nil {
		return nil, err
	}
	return lower.Assemble(name, f)
}

func (c *Compiler) fail(log *slog.Logger, stage Stage, src Source, err error) error {
	wrapped := stageError(stage, src.ScriptName, err)
	log.Warn("translation failed", "stage", string(stage), "error", err)
	return wrapped
}

func (c *Compiler) nextSeq(ctx context.Context) (int64, error) {
	c.clockOnce.Do(func() {
		if c.clock != nil {
			return
		}
		start, err := c.recorder.MaxSeq(ctx)
		if err != nil {
			c.clockErr = err
			return
		}
		c.clock = NewClockAt(start)
	})
	if c.clockErr != nil {
		return 0, c.clockErr
	}
	return c.clock.Next(), nil
}

func (c *Compiler) record(ctx context.Context, src Source, res *Result, terr error) error {
	seq, err := c.nextSeq(ctx)
	if err != nil {
		return err
	}
	optsHash, err := c.Options().Hash()
	if err != nil {
		return err
	}

	t := store.Translation{
		ID:          c.runIDs.Generate(),
		ScriptName:  src.ScriptName,
		ScriptPath:  src.ScriptPath,
		Language:    string(src.Lang),
		OptionsHash: optsHash,
		Seq:         seq,
	}

	if terr != nil {
		t.Status = store.StatusError
		if stage, ok := StageOf(terr); ok {
			t.ErrorStage = string(stage)
		}
		t.ErrorMessage = terr.Error()
	} else {
		modJSON, err := target.MarshalModule(res.Module)
		if err != nil {
			return err
		}
		t.Status = store.StatusOK
		t.IRHash = res.IRHash
		t.ModuleHash = res.ModuleHash
		t.ModuleJSON = string(modJSON)
		res.RunID = t.ID
		res.Seq = seq
	}

	inserted, err := c.recorder.WriteTranslation(ctx, t)
	if err != nil {
		return err
	}
	if res != nil {
		res.Recorded = inserted
	}
	c.logger.Debug("translation recorded", "run_id", t.ID, "seq", seq, "status", t.Status, "inserted", inserted)
	return nil
}
