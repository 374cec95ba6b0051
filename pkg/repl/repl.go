// Package repl provides an interactive shell for trying out formulas
// with line editing, history, and tab completion over the built-in
// function names.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/sage/pkg/evaluator"
	"github.com/sambeau/sage/pkg/lexer"
	"github.com/sambeau/sage/pkg/parser"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

// Start runs the REPL until EOF or an exit command. Formulas are
// evaluated against ctx; a nil ctx means no fields and no datasets.
func Start(out io.Writer, ctx *evaluator.Context, version string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeFunctions)

	historyFile := filepath.Join(os.TempDir(), ".sage_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	env := evaluator.NewEnvironment(ctx, nil)

	fmt.Fprintf(out, "sage v%s\n", version)
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit, ':help' for commands")
	fmt.Fprintln(out, "")

	var inputBuffer strings.Builder

	for {
		prompt := PROMPT
		if inputBuffer.Len() > 0 {
			prompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			handleCommand(trimmed, env, out)
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}
		inputBuffer.Reset()

		line.AppendHistory(fullInput)

		expr, perr := parser.Parse(fullInput)
		if perr != nil {
			fmt.Fprintln(out, perr.PrettyString())
			continue
		}

		evaluated := evaluator.Eval(expr, env)
		if errObj, ok := evaluated.(*evaluator.Error); ok {
			fmt.Fprintln(out, errObj.ToEngineError().PrettyString())
			continue
		}
		fmt.Fprintln(out, reprString(evaluated))
	}
}

// handleCommand handles REPL meta-commands that start with ':'
func handleCommand(cmd string, env *evaluator.Environment, out io.Writer) {
	name, arg, _ := strings.Cut(cmd, " ")
	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?        Show this help")
		fmt.Fprintln(out, "  :functions [category] List built-in functions")
		fmt.Fprintln(out, "  :fields              Show the evaluation context's fields")
		fmt.Fprintln(out, "  exit, quit           Exit the REPL")

	case ":functions", ":fn":
		printFunctions(env.Registry(), strings.TrimSpace(arg), out)

	case ":fields":
		printFields(env.Context(), out)

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// printFunctions lists registered functions, optionally filtered to a
// category, with their signature and description.
func printFunctions(registry *evaluator.Registry, category string, out io.Writer) {
	for _, def := range registry.Definitions() {
		if category != "" && string(def.Category) != category {
			continue
		}
		params := make([]string, len(def.Params))
		for i, p := range def.Params {
			name := p.Name
			if p.Variadic {
				name += "..."
			} else if !p.Required {
				name += "?"
			}
			params[i] = name
		}
		fmt.Fprintf(out, "  %s(%s) -> %s\n      %s\n",
			def.Name, strings.Join(params, ", "), def.ReturnType, def.Description)
	}
}

// printFields displays the context's fields sorted by name.
func printFields(ctx *evaluator.Context, out io.Writer) {
	if ctx == nil || len(ctx.Fields) == 0 {
		fmt.Fprintln(out, "(no fields)")
		return
	}
	names := make([]string, 0, len(ctx.Fields))
	for name := range ctx.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s = %s\n", name, evaluator.FromNative(ctx.Fields[name]).Inspect())
	}
}

// reprString renders a result as a formula literal, quoting strings so
// "5" and 5 are distinguishable at the prompt.
func reprString(obj evaluator.Object) string {
	if s, ok := obj.(*evaluator.String); ok {
		return fmt.Sprintf("%q", s.Value)
	}
	return obj.Inspect()
}

// completeFunctions returns tab-completion suggestions: built-in
// function names matching the last word being typed.
func completeFunctions(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}
	words := strings.Fields(line)
	lastWord := strings.ToUpper(words[len(words)-1])

	var matches []string
	for _, name := range evaluator.Default().Names() {
		if strings.HasPrefix(name, lastWord) {
			prefix := line[:len(line)-len(words[len(words)-1])]
			matches = append(matches, prefix+name+"(")
		}
	}
	return matches
}

// needsMoreInput reports whether the input has unclosed parens,
// brackets, braces, or strings and should continue on the next line.
func needsMoreInput(input string) bool {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		// Unterminated string: keep reading lines.
		return err.Code == "PARSE-0004"
	}
	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		}
	}
	return depth > 0
}
