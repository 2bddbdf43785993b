package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Handler is a slog.Handler that writes one coloured line per record:
// time, request id, level, source, message and attributes.
type Handler struct {
	groups []string
	attrs  []slog.Attr

	opts Options

	mu  *sync.Mutex
	out io.Writer
}

// NewHandler creates a new Handler with the specified options. If opts is nil, uses [DefaultOptions].
func NewHandler(out io.Writer, opts *Options) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts == nil {
		h.opts = *DefaultOptions
	} else {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if h.opts.MsgColor == nil {
		h.opts.MsgColor = color.New()
	}
	return h
}

func (h *Handler) clone() *Handler {
	return &Handler{
		groups: append([]string(nil), h.groups...),
		attrs:  append([]slog.Attr(nil), h.attrs...),
		opts:   h.opts,
		mu:     h.mu,
		out:    h.out,
	}
}

// Enabled implements slog.Handler.Enabled .
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

var levelLabels = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.BgCyan, color.FgHiWhite),
	slog.LevelInfo:  color.New(color.BgGreen, color.FgHiWhite),
	slog.LevelWarn:  color.New(color.BgYellow, color.FgHiWhite),
	slog.LevelError: color.New(color.BgRed, color.FgHiWhite),
}

// Handle implements slog.Handler.Handle .
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	bf := getBuffer()
	defer freeBuffer(bf)

	if !r.Time.IsZero() {
		fmt.Fprint(bf, color.New(color.Faint).Sprint(r.Time.Format(h.opts.TimeFormat)), " ")
	}

	if requestID, ok := RequestIDFromContext(ctx); ok {
		fmt.Fprint(bf, color.New(color.FgMagenta).Sprint(shortID(requestID)), " ")
	}

	if c, ok := levelLabels[r.Level]; ok {
		fmt.Fprint(bf, c.Sprintf("%-5s", r.Level.String()), " ")
	} else {
		fmt.Fprint(bf, r.Level.String(), " ")
	}

	if h.opts.SrcFileMode != Nop && r.PC != 0 {
		fmt.Fprint(bf, h.source(r.PC), " ")
	}

	attrs := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	fmt.Fprint(bf, h.opts.MsgPrefix)
	fmt.Fprint(bf, h.opts.MsgColor.Sprint(h.message(r.Message, len(attrs) > 0)))

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range attrs {
		keyColor := color.New(color.FgCyan)
		if strings.Contains(a.Key, "err") {
			keyColor = color.New(color.FgRed)
		}
		fmt.Fprint(bf, " ", keyColor.Sprintf("%s%s=", prefix, a.Key), a.Value.String())
	}

	fmt.Fprint(bf, "\n")

	if h.opts.NoColor {
		stripANSI(bf)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.Copy(h.out, bf)
	return err
}

func (h *Handler) source(pc uintptr) string {
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()

	filename := f.File
	if h.opts.SrcFileMode == ShortFile {
		filename = filepath.Base(f.File)
	}
	line := fmt.Sprintf(":%d", f.Line)

	if h.opts.SrcFileLength <= 0 {
		return filename + line
	}
	if limit := h.opts.SrcFileLength - len(line) - 1; limit > 0 && len(filename) > limit {
		filename = filename[:limit]
	}
	return fmt.Sprintf("%-*s", h.opts.SrcFileLength, filename+line)
}

// message pads or truncates msg to MsgLength so attributes line up.
func (h *Handler) message(msg string, hasAttrs bool) string {
	if h.opts.MsgLength <= 0 || !hasAttrs {
		return msg
	}
	if len(msg) > h.opts.MsgLength {
		return msg[:h.opts.MsgLength-1] + "…"
	}
	return fmt.Sprintf("%-*s", h.opts.MsgLength, msg)
}

// WithGroup implements slog.Handler.WithGroup .
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

// WithAttrs implements slog.Handler.WithAttrs .
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	h2.attrs = append(h2.attrs, attrs...)
	return h2
}

var bufPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

func getBuffer() *bytes.Buffer {
	bf := bufPool.Get().(*bytes.Buffer)
	bf.Reset()
	return bf
}

func freeBuffer(bf *bytes.Buffer) {
	bufPool.Put(bf)
}

// re is the regular expression used for removing ANSI colors.
var re = regexp.MustCompile("[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

func stripANSI(bf *bytes.Buffer) {
	cleaned := re.ReplaceAll(bf.Bytes(), nil)
	bf.Reset()
	bf.Write(cleaned)
}

// Err is the attribute used for logging errors.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}
