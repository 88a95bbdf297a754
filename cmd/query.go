package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcamposl/ragdocs/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against an indexed collection",
	Long:  `Searches the named collection for relevant chunks and generates a grounded answer citing its sources.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().String("collection", "", "collection to query (required)")
	queryCmd.Flags().Int("top-k", 0, "number of chunks to retrieve")
	queryCmd.Flags().Bool("rewrite", false, "rewrite the question before searching")
	queryCmd.Flags().Bool("rerank", false, "rerank search results before generation")
	queryCmd.Flags().Bool("json", false, "output the full result as JSON")
	queryCmd.MarkFlagRequired("collection")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	collection, _ := cmd.Flags().GetString("collection")
	topK, _ := cmd.Flags().GetInt("top-k")
	rewriteQuery, _ := cmd.Flags().GetBool("rewrite")
	rerankResults, _ := cmd.Flags().GetBool("rerank")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx := context.Background()
	_, vdb := buildVectorIndex(ctx, cfg)
	engine := buildQueryEngine(cfg, vdb)

	result, err := engine.Ask(ctx, query.Request{
		Question:          args[0],
		Collection:        collection,
		TopK:              topK,
		UseReranking:      rerankResults,
		UseQueryRewriting: rewriteQuery,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(result.Answer)
	if len(result.FilesConsulted) > 0 {
		fmt.Println("\nSources:")
		for _, f := range result.FilesConsulted {
			fmt.Printf("  - %s\n", f)
		}
	}
	if verbose {
		fmt.Printf("\n(%d chunks, model %s, %.3fs", len(result.ContextFragments), result.ModelUsed, result.ElapsedSeconds)
		if result.QueryRewritingUsed {
			fmt.Printf(", query rewritten to %q", result.FinalQuery)
		}
		fmt.Println(")")
	}
	return nil
}
