// Command jp evaluates a JMESPath expression against JSON input.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/kr/pretty"

	"github.com/jsonquery/jmespath"
)

type cli struct {
	Expression string `arg:"" help:"JMESPath expression to evaluate."`
	Input      string `short:"i" help:"Read JSON input from this file instead of stdin."`
	AST        bool   `help:"Print the parsed AST instead of evaluating it."`
	Compact    bool   `short:"c" help:"Print the result as compact JSON (default is indented)."`
}

func main() {
	log.SetFlags(0)

	var args cli
	kong.Parse(&args,
		kong.Name("jp"),
		kong.Description("Evaluate a JMESPath expression against JSON input."),
		kong.UsageOnError(),
	)

	if args.AST {
		parser := jmespath.NewParser()
		parsed, err := parser.Parse(args.Expression)
		if err != nil {
			log.Fatal(err)
		}
		pretty.Println(parsed)
		return
	}

	raw, err := readInput(args.Input)
	if err != nil {
		log.Fatal(err)
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Fatalf("invalid JSON input: %v", err)
	}

	result, err := jmespath.Search(args.Expression, data)
	if err != nil {
		log.Fatal(err)
	}

	var out []byte
	if args.Compact {
		out, err = json.Marshal(result)
	} else {
		out, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
