package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcamposl/ragdocs/internal/ingest"
	"github.com/dcamposl/ragdocs/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source]",
	Short: "Ingest a document folder into a vector collection",
	Long: `Lists the source folder (a local directory or a Google Drive folder URL),
downloads and extracts every supported document, chunks and embeds the
text, and writes the named collection. The collection is rebuilt from
scratch on every run.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("collection", "", "target collection name (required)")
	ingestCmd.Flags().String("strategy", "", "chunking strategy: recursive_character, fixed_size, semantic")
	ingestCmd.Flags().Int("chunk-size", 0, "chunk size in characters (default from config)")
	ingestCmd.Flags().Int("chunk-overlap", 0, "chunk overlap in characters")
	ingestCmd.Flags().Bool("preprocess", false, "normalize document text before chunking")
	ingestCmd.MarkFlagRequired("collection")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	collection, _ := cmd.Flags().GetString("collection")
	strategy, _ := cmd.Flags().GetString("strategy")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	chunkOverlap, _ := cmd.Flags().GetInt("chunk-overlap")
	preprocess, _ := cmd.Flags().GetBool("preprocess")

	ctx := context.Background()
	database, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	embedder, vdb := buildVectorIndex(ctx, cfg)
	manager, err := buildIngestManager(ctx, cfg, database, embedder, vdb)
	if err != nil {
		return fmt.Errorf("building ingestion pipeline: %w", err)
	}

	job, err := manager.Submit(ctx, ingest.Request{
		SourceURL:         args[0],
		CollectionName:    collection,
		ChunkingStrategy:  strategy,
		ChunkSize:         chunkSize,
		ChunkOverlap:      chunkOverlap,
		PreprocessContent: preprocess,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "started ingestion %s into collection %q\n", job.ID, collection)

	final := watchJob(manager, job.ID)
	if verbose {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(final)
	} else {
		printJobSummary(final)
	}

	if final.Status != ingest.StatusSucceeded {
		return fmt.Errorf("ingestion %s ended %s", final.ID, final.Status)
	}
	return nil
}

// watchJob polls the job record until it reaches a terminal state,
// reporting per-document progress along the way.
func watchJob(manager *ingest.Manager, id string) *ingest.Job {
	reporter := progress.NewReporter()
	started := false

	var last *ingest.Job
	for {
		job, err := manager.GetStatus(id)
		if err == nil {
			last = job
			if !started && job.Summary.DocumentsFound > 0 {
				reporter.Start(job.Summary.DocumentsFound)
				started = true
			}
			done := job.Summary.DocumentsLoaded + job.Summary.DocumentsFailed
			if started {
				reporter.Update(done, fmt.Sprintf("%d/%d documents", done, job.Summary.DocumentsFound))
			}
			if job.Status == ingest.StatusSucceeded || job.Status == ingest.StatusFailed {
				break
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	if started {
		reporter.Finish()
	}
	return last
}

func printJobSummary(job *ingest.Job) {
	fmt.Printf("%s: %s\n", job.ID, job.Status)
	fmt.Printf("  documents: %d found, %d loaded, %d failed\n",
		job.Summary.DocumentsFound, job.Summary.DocumentsLoaded, job.Summary.DocumentsFailed)
	fmt.Printf("  chunks: %d\n", job.Summary.ChunksCreated)
	for _, e := range job.Errors {
		fmt.Printf("  error [%s] %s: %s\n", e.Code, e.Filename, e.Message)
	}
}
