// sage - formula engine CLI
//
// Evaluate a formula inline, check formulas from files, list the
// built-in functions, or start an interactive REPL.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sambeau/sage"
	"github.com/sambeau/sage/pkg/evaluator"
	"github.com/sambeau/sage/pkg/repl"
)

// Version is set at compile time via -ldflags
var Version = sage.Version

var (
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	evalFlag     = flag.String("e", "", "Evaluate a formula string")
	evalLongFlag = flag.String("eval", "", "Evaluate a formula string")
	checkFlag    = flag.Bool("check", false, "Check syntax without evaluating")
	contextFlag  = flag.String("context", "", "JSON file with fields (and optional datasets)")
	fnsFlag      = flag.Bool("functions", false, "List built-in functions")
	jsonFlag     = flag.Bool("json", false, "Output results as JSON")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}
	if *versionFlag || *versionLongFlag {
		fmt.Printf("sage version %s\n", Version)
		os.Exit(0)
	}
	if *fnsFlag {
		printFunctions()
		os.Exit(0)
	}

	ctx, err := loadContext(*contextFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}

	switch {
	case evalCode != "":
		os.Exit(evaluateInline(evalCode, ctx))
	case *checkFlag:
		files := flag.Args()
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --check requires at least one file")
			os.Exit(2)
		}
		os.Exit(checkFiles(files))
	default:
		repl.Start(os.Stdout, ctx, Version)
	}
}

// contextFile is the on-disk shape of --context.
type contextFile struct {
	Fields   map[string]any              `json:"fields"`
	Datasets map[string][]map[string]any `json:"datasets"`
}

func loadContext(path string) (*evaluator.Context, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf contextFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &evaluator.Context{Fields: cf.Fields, Datasets: cf.Datasets}, nil
}

func evaluateInline(code string, ctx *evaluator.Context) int {
	result := sage.Evaluate(code, ctx)
	if !result.Success {
		if *jsonFlag {
			if out, err := result.Error.ToJSON(); err == nil {
				fmt.Println(string(out))
				return 1
			}
		}
		fmt.Fprintln(os.Stderr, result.Error.String())
		return 1
	}
	if *jsonFlag {
		out, err := json.Marshal(result.Value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}
	fmt.Println(formatValue(result.Value))
	return 0
}

// checkFiles validates one formula per file and reports problems.
// Returns 0 when every file is valid.
func checkFiles(files []string) int {
	exitCode := 0
	for _, filename := range files {
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			exitCode = 1
			continue
		}
		result := sage.Validate(strings.TrimSpace(string(data)), nil)
		if result.Valid {
			fmt.Printf("%s: OK\n", filename)
			continue
		}
		exitCode = 1
		for _, problem := range result.Errors {
			fmt.Printf("%s: %s: %s\n", filename, problem.Type, problem.Message)
			for _, hint := range problem.Hints {
				fmt.Printf("%s:   hint: %s\n", filename, hint)
			}
		}
	}
	return exitCode
}

func printFunctions() {
	byCategory := make(map[string][]*evaluator.Definition)
	var order []string
	for _, def := range sage.ListFunctions() {
		category := string(def.Category)
		if _, seen := byCategory[category]; !seen {
			order = append(order, category)
		}
		byCategory[category] = append(byCategory[category], def)
	}
	sort.Strings(order)
	for _, category := range order {
		fmt.Printf("\n%s:\n", strings.ToUpper(category[:1])+category[1:])
		for _, def := range byCategory[category] {
			params := make([]string, len(def.Params))
			for i, p := range def.Params {
				params[i] = p.Name
				if p.Variadic {
					params[i] += "..."
				} else if !p.Required {
					params[i] += "?"
				}
			}
			fmt.Printf("  %s(%s) -> %s\n      %s\n", def.Name, strings.Join(params, ", "), def.ReturnType, def.Description)
		}
	}
}

// formatValue prints a result the way the REPL does: strings quoted,
// everything else in its natural form.
func formatValue(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return evaluator.FromNative(value).Inspect()
}

func printHelp() {
	fmt.Printf(`sage - formula engine version %s

Usage:
  sage                          Start the interactive REPL
  sage -e 'price * quantity'    Evaluate a formula
  sage --check file.formula     Check formulas without evaluating
  sage --functions              List built-in functions

Options:
  -e, --eval <formula>   Evaluate a formula string
  --check <files>        Check syntax (and function names) of formula files
  --context <file>       JSON file with "fields" and optional "datasets"
  --json                 Output evaluation results as JSON
  --functions            List built-in functions
  -V, --version          Show version
  -h, --help             Show this help
`, Version)
}
