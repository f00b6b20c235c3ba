// Command typedjsoncheck parses a JSON file against the open-ended "json"
// target type and reports success, the reconstructed value's shape, or the
// precise line/column of the first structural or type error. With -emit it
// re-serialises the parsed value back to JSON instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-stream/typedjson"
	"github.com/go-stream/typedjson/schema"
	"github.com/go-stream/typedjson/values"
)

func main() {
	var (
		filePath string
		maxDepth int
		quiet    bool
		emit     bool
	)
	flag.StringVar(&filePath, "file", "", "path to the JSON file to check")
	flag.IntVar(&maxDepth, "max-depth", 0, "reject input nested deeper than this many containers (0 = unbounded)")
	flag.BoolVar(&quiet, "quiet", false, "suppress the value summary on success")
	flag.BoolVar(&emit, "emit", false, "re-serialise the parsed value to stdout instead of printing a summary")
	flag.Parse()

	if filePath == "" {
		log.Fatal("typedjsoncheck: -file is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("typedjsoncheck: opening %s: %v", filePath, err)
	}
	defer f.Close()

	var opts []typedjson.Option
	if maxDepth > 0 {
		opts = append(opts, typedjson.WithMaxDepth(maxDepth))
	}
	p := typedjson.NewParser(opts...)

	v, err := p.Parse(f, schema.AnyJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filePath, err)
		os.Exit(1)
	}

	if emit {
		os.Stdout.Write(typedjson.Marshal(v))
		fmt.Println()
		return
	}

	if !quiet {
		fmt.Printf("%s: ok, %s\n", filePath, summarize(v))
	}
}

func summarize(v any) string {
	switch t := v.(type) {
	case *values.Map:
		return fmt.Sprintf("object with %d field(s)", t.Len())
	case *values.List:
		return fmt.Sprintf("array with %d element(s)", t.Len())
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", t)
	}
}
