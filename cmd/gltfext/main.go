// Command gltfext round-trips a glTF document through the extension
// codec: known KHR extensions are promoted to typed form and
// re-serialized with default-value elision, everything else passes
// through verbatim. Input may be JSONC (comments, trailing commas);
// output is deterministic plain JSON.
//
// Usage:
//
//	gltfext [--output FILE] [--verbose] INPUT
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	gltfext "github.com/gltfkit/gltfext-go"
	"github.com/gltfkit/gltfext-go/khr"
)

func main() {
	output := pflag.StringP("output", "o", "", "write the re-serialized document to this file (default stdout)")
	verbose := pflag.BoolP("verbose", "v", false, "log extension promotion and pass-through decisions")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gltfext [--output FILE] [--verbose] INPUT")
		os.Exit(2)
	}

	if err := run(pflag.Arg(0), *output, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "gltfext: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output string, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer dev.Sync()
		logger = dev
	}

	deserializer, err := khr.NewDeserializer(gltfext.WithLogger(logger))
	if err != nil {
		return err
	}
	serializer, err := khr.NewSerializer(gltfext.WithLogger(logger))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	doc, err := gltfext.ParseDocument(data, deserializer)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	out, err := gltfext.SerializeDocument(doc, serializer)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	out = append(out, '\n')

	if output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(output, out, 0o644)
}
