package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/salesfield_backend/config"
	"bitbucket.org/mmdatafocus/salesfield_backend/dataimport"
)

// One-shot importer: reads a workbook from local disk and runs the same
// normalize/ingest pipeline as the job-driven worker, without a job document.
func main() {
	filePath := flag.String("file", dataimport.DefaultImportObjectPath, "path to the source .xlsx workbook")
	flag.Parse()

	logger := config.GetLogger()
	ctx := context.Background()

	client, err := config.GetFirestore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "firestore unavailable: %v\n", err)
		os.Exit(1)
	}

	orch := &dataimport.Orchestrator{
		Client: client,
		Logger: logger,
		Source: dataimport.FileSource(*filePath),
	}

	written, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	for collection, count := range written {
		fmt.Printf("%s: %d documents written\n", collection, count)
	}
	fmt.Println("upload completed successfully")
}
