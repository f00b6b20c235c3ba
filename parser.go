package typedjson

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-stream/typedjson/schema"
)

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithMaxDepth bounds nesting depth (number of currently open containers).
// Zero (the default) means unbounded, relying only on available memory —
// the recursion-free design spec.md §9 asks for makes that a reasonable
// default, but a server parsing untrusted input may want a ceiling.
func WithMaxDepth(n int) Option {
	return func(p *Parser) { p.maxDepth = n }
}

// WithBufferHint sets the size of the bufio.Reader that Parse wraps around
// its input. It has no effect when the input already is a *bufio.Reader,
// and zero (the default) keeps bufio's default size. The scratch lexeme
// buffer is not affected.
func WithBufferHint(n int) Option {
	return func(p *Parser) { p.bufferHint = n }
}

// Parser holds the reusable per-goroutine state described in spec.md §5:
// the lexer scratch buffer, position tracker, and the parallel construction
// stacks of §3. NewParser allocates one; call Parse repeatedly against it.
type Parser struct {
	maxDepth   int
	bufferHint int

	r   *bufio.Reader
	pos position
	buf scratch

	st           state
	escapeReturn state // which string-lexeme state an escape substate resumes

	root any

	// Construction stacks, named exactly as spec.md §3's table.
	nodes         []any // ancestor containers, innermost excluded
	targetTypes   []schema.Type
	listIndices   []int
	possibleTypes [][]schema.Type
	fieldNames    []string

	// unionFrame[i] reports whether nodes/targetTypes frame i is currently
	// an unresolved union staging area. It is bookkeeping
	// private to this port, not one of spec.md's five named stacks.
	unionFrame []bool

	currentNode any // the in-progress container at the current depth, or nil

	// hexDigits accumulates a \uXXXX escape's four hex characters.
	hexDigits [4]byte
	hexLen    int
}

// NewParser constructs a reusable Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse parses a single JSON value from r, constructed against target, and
// resets the parser before returning regardless of outcome.
func (p *Parser) Parse(r io.Reader, target schema.Type) (any, error) {
	defer p.reset()
	p.init(r, target)
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.root, nil
}

// ParseString parses src against target.
func (p *Parser) ParseString(src string, target schema.Type) (any, error) {
	return p.Parse(strings.NewReader(src), target)
}

// ParseReader parses r, assuming the platform default charset, against
// target. It exists alongside Parse purely as the named convenience
// overload spec.md §6 asks for; charset decoding itself is out of the
// core's scope and left to the caller's io.Reader.
func (p *Parser) ParseReader(r io.Reader, target schema.Type) (any, error) {
	return p.Parse(r, target)
}

// Parse is a package-level convenience that allocates a fresh Parser.
func Parse(r io.Reader, target schema.Type) (any, error) {
	return NewParser().Parse(r, target)
}

// ParseString is a package-level convenience that allocates a fresh Parser.
func ParseString(src string, target schema.Type) (any, error) {
	return NewParser().ParseString(src, target)
}

func (p *Parser) init(r io.Reader, target schema.Type) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		if p.bufferHint > 0 {
			br = bufio.NewReaderSize(r, p.bufferHint)
		} else {
			br = bufio.NewReader(r)
		}
	}
	p.r = br
	p.pos = newPosition()
	p.buf.reset()
	p.st = stateDocStart
	p.root = nil
	p.currentNode = nil
	p.nodes = p.nodes[:0]
	p.targetTypes = append(p.targetTypes[:0], target)
	p.listIndices = p.listIndices[:0]
	p.possibleTypes = p.possibleTypes[:0]
	p.fieldNames = p.fieldNames[:0]
	p.unionFrame = append(p.unionFrame[:0], false)
	p.hexLen = 0
}

// reset discards all per-parse state, the "scoped acquisition" idiom
// spec.md §9 calls for: it runs unconditionally, via defer, on every exit
// path of Parse (normal return, error return, or a panic unwinding through
// it), so that nothing from one parse can leak into the next.
func (p *Parser) reset() {
	p.r = nil
	p.root = nil
	p.currentNode = nil
	p.nodes = p.nodes[:0]
	p.targetTypes = p.targetTypes[:0]
	p.listIndices = p.listIndices[:0]
	p.possibleTypes = p.possibleTypes[:0]
	p.fieldNames = p.fieldNames[:0]
	p.unionFrame = p.unionFrame[:0]
	p.buf.reset()
	p.pos = newPosition()
	p.st = stateDocStart
	p.hexLen = 0
}

// run drives the state machine to completion, character by character.
func (p *Parser) run() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if pe, ok := rec.(*ParseError); ok {
				err = pe
				return
			}
			panic(rec)
		}
	}()

	for {
		ch, rerr := p.nextRune()
		if rerr != nil {
			return rerr
		}
		p.step(ch)
		if p.st == stateDocEnd && ch == eof {
			return nil
		}
	}
}

// nextRune reads the next rune, or synthesises eof once the reader is
// exhausted (spec.md §4.1). I/O errors other than io.EOF are reported as a
// plain Go error, not a ParseError, since they are not a property of the
// JSON text.
func (p *Parser) nextRune() (rune, error) {
	r, _, err := p.r.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eof, nil
		}
		return 0, fmt.Errorf("typedjson: read error: %w", err)
	}
	p.pos.advance(r)
	return r, nil
}

// unread pushes back the single most recently read rune, for the
// non-string lexeme terminators of spec.md §4.5 that must be re-dispatched
// rather than consumed. Mirrors creachadair-jtree/scanner.go's unrune.
func (p *Parser) unread(ch rune) {
	if ch == eof {
		return // nothing was actually consumed from the reader
	}
	if err := p.r.UnreadRune(); err != nil {
		panic(fmt.Errorf("typedjson: internal error: %w", err))
	}
	if ch == '\n' {
		p.pos.line--
		// The column the line was at before the newline is lost once
		// reset to zero; only whitespace runs (which never themselves
		// contain more structure worth reporting precisely) hit this
		// path, so column 0 on the re-entry is an acceptable loss.
		p.pos.column = 0
	} else {
		p.pos.column--
	}
}

func (p *Parser) fail(e *ParseError) { panic(e) }
