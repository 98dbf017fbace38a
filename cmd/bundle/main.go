// Command bundle merges the fragment YAML files listed in an index
// manifest into the bundle artifact pair consumed by the service.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/NicolasThaddeusL/cccup-ai/internal/bundler"
	"github.com/NicolasThaddeusL/cccup-ai/pkg/logger"
)

func main() {
	var (
		indexPath = flag.String("index", "data.index.yaml", "Path to the index manifest")
		outPath   = flag.String("out", "data.bundle.yaml", "Output path for the primary bundle artifact")
		jsonPath  = flag.String("json", "data.bundle.json", "Output path for the secondary JSON artifact")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx := context.Background()
	res, err := bundler.Run(ctx, bundler.Config{
		IndexPath: *indexPath,
		OutPath:   *outPath,
		JSONPath:  *jsonPath,
	})
	if err != nil {
		os.Stderr.WriteString("bundle build failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	for _, d := range res.Diagnostics {
		os.Stdout.WriteString("[WARN] " + d + "\n")
	}
	if len(res.Problems) > 0 {
		os.Stdout.WriteString("VALIDATION WARNINGS:\n")
		for _, p := range res.Problems {
			os.Stdout.WriteString(" - " + p + "\n")
		}
	}
	os.Stdout.WriteString("Wrote " + res.OutPath + " and " + res.JSONPath + "\n")
}
