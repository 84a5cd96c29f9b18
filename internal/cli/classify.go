package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"adlaan-backend/internal/classification"
	"adlaan-backend/internal/models"

	"github.com/spf13/cobra"
)

type fileResult struct {
	File string `json:"file"`
	classification.Result
}

func newClassifyCmd() *cobra.Command {
	var (
		existing string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "Classify text files without touching the database",
		Long: `Classify scores each file with the same rules the pipeline uses and prints the
resulting category. The file name without its extension is used as the title.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := parseDocumentType(existing)
			if err != nil {
				return err
			}

			scorer := classification.NewScorer()
			results := make([]fileResult, 0, len(args))
			for _, path := range args {
				body, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				res := scorer.ClassifyText(titleFromPath(path), string(body), current)
				results = append(results, fileResult{File: path, Result: res})
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tCATEGORY\tCONFIDENCE\tSUGGESTED\tTAGS")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
					r.File,
					r.Category,
					r.Confidence,
					r.Suggested,
					strings.Join(r.Tags, ","),
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&existing, "existing", string(models.DocumentTypeOther), "category currently recorded for the files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full results as JSON")
	return cmd
}

func parseDocumentType(raw string) (models.DocumentType, error) {
	t := models.DocumentType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown document type %q", raw)
	}
	return t, nil
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
