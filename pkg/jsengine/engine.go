// Package jsengine runs the inline scripts of a generated report in a
// headless JavaScript runtime, so a report can be checked without a browser.
package jsengine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/qa-reports/stakeholder-report/pkg/logger"
)

// Engine wraps a goja runtime with the minimal browser globals the report
// scripts touch: console, document and the Chart constructor.
type Engine struct {
	runtime *goja.Runtime
	console []string
	mu      sync.Mutex
}

// New creates a new JS engine instance
func New() *Engine {
	e := &Engine{
		runtime: goja.New(),
	}

	e.setupBuiltins()
	return e
}

// setupBuiltins registers all built-in functions and objects
func (e *Engine) setupBuiltins() {
	// Console
	e.setupConsole()

	// document, Element and Chart stand-ins
	if _, err := e.runtime.RunString(browserShim); err != nil {
		panic(fmt.Sprintf("jsengine: browser shim: %v", err))
	}
}

// setupConsole adds console.log, console.error and console.warn. Messages
// are kept for Console() and mirrored to the run log.
func (e *Engine) setupConsole() {
	makeConsoleFunc := func(prefix string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			line := strings.Join(parts, " ")
			if prefix != "" {
				line = prefix + " " + line
			}
			e.console = append(e.console, line)
			logger.Debug("report script console: %s", line)
			return goja.Undefined()
		}
	}

	console := e.runtime.NewObject()
	console.Set("log", makeConsoleFunc(""))
	console.Set("error", makeConsoleFunc("ERROR:"))
	console.Set("warn", makeConsoleFunc("WARN:"))
	e.runtime.Set("console", console)
}

// SetVariable sets a variable accessible in JS as a global
func (e *Engine) SetVariable(name string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runtime.Set(name, value)
}

// Eval evaluates a JavaScript expression and returns the result
func (e *Engine) Eval(script string) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.runtime.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("JS eval error: %w", err)
	}

	return result.Export(), nil
}

// EvalInt evaluates an expression that must yield an integer.
func (e *Engine) EvalInt(script string) (int64, error) {
	result, err := e.Eval(script)
	if err != nil {
		return 0, err
	}

	switch v := result.(type) {
	case int64:
		return v, nil
	case float64:
		if v == float64(int64(v)) {
			return int64(v), nil
		}
	}
	return 0, fmt.Errorf("JS eval error: %q is %v, not an integer", script, result)
}

// RunScript compiles and runs a script. name is used in error positions.
func (e *Engine) RunScript(name, script string) error {
	prg, err := goja.Compile(name, script, false)
	if err != nil {
		return fmt.Errorf("JS syntax error: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.runtime.RunProgram(prg); err != nil {
		return fmt.Errorf("JS runtime error: %w", err)
	}

	return nil
}

// Console returns the console lines written so far.
func (e *Engine) Console() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.console...)
}

// browserShim stands in for the DOM. Elements are created on first lookup
// and every Chart or event listener registration is recorded.
const browserShim = `
var __charts = [];
var __listeners = [];

function __Element(id, tag) {
    this.id = id;
    this.tagName = tag;
    this.style = {};
    this.children = [];
    this.textContent = '';
    this.innerHTML = '';
    this.src = '';
    this.attributes = {};
    var classes = [];
    this.classList = {
        add: function (c) { if (classes.indexOf(c) < 0) { classes.push(c); } },
        remove: function (c) { var i = classes.indexOf(c); if (i >= 0) { classes.splice(i, 1); } },
        contains: function (c) { return classes.indexOf(c) >= 0; }
    };
}
__Element.prototype.getContext = function () { return { canvas: this }; };
__Element.prototype.appendChild = function (child) { this.children.push(child); return child; };
__Element.prototype.setAttribute = function (k, v) { this.attributes[k] = String(v); };
__Element.prototype.getAttribute = function (k) { return this.attributes.hasOwnProperty(k) ? this.attributes[k] : null; };
__Element.prototype.closest = function () { return null; };

var document = {
    elements: {},
    getElementById: function (id) {
        if (!this.elements[id]) { this.elements[id] = new __Element(id, 'div'); }
        return this.elements[id];
    },
    createElement: function (tag) { return new __Element('', tag); },
    addEventListener: function (type, fn) { __listeners.push({ type: type, fn: fn }); }
};

function Chart(ctx, config) {
    this.ctx = ctx;
    this.config = config;
    __charts.push(config);
}
`
